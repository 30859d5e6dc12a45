package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stock_dashboard/internal/app/di"
	chartentity "stock_dashboard/internal/feature/chart/domain/entity"
	chartusecase "stock_dashboard/internal/feature/chart/usecase"
	searchadapters "stock_dashboard/internal/feature/symbolsearch/adapters"
	searchentity "stock_dashboard/internal/feature/symbolsearch/domain/entity"
	searchusecase "stock_dashboard/internal/feature/symbolsearch/usecase"
	"stock_dashboard/internal/platform/config"
	"stock_dashboard/internal/platform/db"
	infraredis "stock_dashboard/internal/platform/redis"
)

var (
	csvPath   string
	warm      bool
	warmLimit int
	warmRange string
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the NSE equity list into the symbol search index",
	Long: `Reads EQUITY_L.csv (SYMBOL, NAME OF COMPANY, SERIES, ISIN NUMBER columns)
and upserts every row into the symbols table used by /api/search/.
With --warm the chart cache is filled for the first active symbols.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&csvPath, "file", "f", "EQUITY_L.csv", "path to the NSE equity list CSV")
	rootCmd.Flags().BoolVar(&warm, "warm", false, "prefetch charts into the Redis cache after import")
	rootCmd.Flags().IntVar(&warmLimit, "warm-limit", 50, "number of symbols to prefetch (0 = all)")
	rootCmd.Flags().StringVar(&warmRange, "warm-range", "1D", "range to prefetch")
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// 取り込みでは常にテーブルを用意する
	cfg.Database.RunMigrations = true

	gdb, err := db.OpenDB(cfg.Database, &searchentity.Symbol{})
	if err != nil {
		return err
	}
	uc := searchusecase.NewSearchUsecase(searchadapters.NewSymbolRepository(gdb))

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
	defer cancel()

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open equity list: %w", err)
	}
	defer f.Close()

	symbols, err := searchadapters.ParseEquityList(f)
	if err != nil {
		return err
	}
	if err := uc.Import(ctx, symbols); err != nil {
		return fmt.Errorf("import symbols: %w", err)
	}
	log.Printf("ingest ok: %d symbols", len(symbols))

	if !warm {
		return nil
	}
	return warmCache(ctx, cfg, uc)
}

// warmCache は有効な銘柄のチャートを取得してRedisキャッシュに載せます。
func warmCache(ctx context.Context, cfg *config.Config, uc *searchusecase.SearchUsecase) error {
	r, ok := chartentity.ParseRange(warmRange, chartentity.ChartRanges)
	if !ok {
		return fmt.Errorf("%w: %q", chartusecase.ErrInvalidRange, warmRange)
	}
	if !cfg.Redis.Enabled() {
		return fmt.Errorf("--warm requires REDIS_HOST")
	}
	rdb, err := infraredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	codes, err := uc.ActiveCodes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load symbols: %w", err)
	}
	if warmLimit > 0 && len(codes) > warmLimit {
		codes = codes[:warmLimit]
	}

	chartUC := chartusecase.NewChartUsecase(di.NewMarket(rdb), nil)
	var failed int
	for _, code := range codes {
		if _, err := chartUC.GetChart(ctx, code, string(r)); err != nil {
			failed++
			slog.Warn("warm chart failed", "symbol", code, "range", r, "error", err)
		}
	}
	log.Printf("warm ok: %d/%d symbols", len(codes)-failed, len(codes))
	return nil
}
