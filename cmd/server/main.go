package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_dashboard/internal/app/di"
	"stock_dashboard/internal/app/router"
	charthandler "stock_dashboard/internal/feature/chart/transport/handler"
	chartusecase "stock_dashboard/internal/feature/chart/usecase"
	livehandler "stock_dashboard/internal/feature/live/transport/handler"
	searchadapters "stock_dashboard/internal/feature/symbolsearch/adapters"
	searchentity "stock_dashboard/internal/feature/symbolsearch/domain/entity"
	searchhandler "stock_dashboard/internal/feature/symbolsearch/transport/handler"
	searchusecase "stock_dashboard/internal/feature/symbolsearch/usecase"
	"stock_dashboard/internal/platform/config"
	"stock_dashboard/internal/platform/db"
	infraredis "stock_dashboard/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	loc, _ := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.OpenDB(cfg.Database, &searchentity.Symbol{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			log.Println("[WARN] Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
		}
	}

	// Kafka
	publisher, closePublisher := di.NewPublisher()
	defer func() {
		if err := closePublisher(); err != nil {
			log.Println("[ERROR] Failed to close publisher:", err)
		}
	}()

	// Repository
	market := di.NewMarket(rdb)
	symbolRepo := searchadapters.NewSymbolRepository(gdb)

	// Usecase
	chartUC := chartusecase.NewChartUsecase(market, loc)
	searchUC := searchusecase.NewSearchUsecase(symbolRepo)

	// Handler
	chartH := charthandler.NewChartHandler(chartUC)
	searchH := searchhandler.NewSearchHandler(searchUC)
	liveH := livehandler.NewLiveHandler(di.NewLiveSessionFactory(cfg.Live.TickInterval, loc, publisher), nil)

	// ルータ生成
	r := router.NewRouter(chartH, searchH, liveH, router.Options{
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		HealthChecks:   di.NewHealthChecks(gdb, rdb),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Println("[ERROR] shutdown:", err)
		}
	}()

	log.Printf("[INFO] listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
