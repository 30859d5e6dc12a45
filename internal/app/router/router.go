// Package router はHTTPルーティングを組み立てます。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	charthandler "stock_dashboard/internal/feature/chart/transport/handler"
	livehandler "stock_dashboard/internal/feature/live/transport/handler"
	searchhandler "stock_dashboard/internal/feature/symbolsearch/transport/handler"
	"stock_dashboard/internal/platform/http/handler"
	"stock_dashboard/internal/platform/http/middleware"
)

// Options はルーター全体に適用する設定です。
type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	HealthChecks   []handler.Check
}

// NewRouter は全エンドポイントを登録した gin.Engine を返します。
func NewRouter(chart *charthandler.ChartHandler, search *searchhandler.SearchHandler,
	live *livehandler.LiveHandler, opts Options) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	// 導通確認用
	health := handler.NewHealth(opts.HealthChecks...)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	api := r.Group("/api")
	api.Use(middleware.Timeout(opts.RequestTimeout))
	{
		api.GET("/stock_chart/", chart.GetStockChart)
		api.GET("/chart_view/", chart.GetChartView)
		api.GET("/chart.png", chart.GetChartImage)
		api.GET("/search/", search.Search)
		api.GET("/live/quotes", live.Quotes)
	}

	// WebSocketは接続中ずっと続くためタイムアウトを付けない
	r.GET("/ws/live", live.Stream)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{"GET", "HEAD", "OPTIONS"}
	return cfg
}
