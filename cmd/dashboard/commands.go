package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"stock_dashboard/internal/feature/chart/render"
	"stock_dashboard/internal/feature/dashboard/adapters/api"
	"stock_dashboard/internal/feature/dashboard/usecase"
	livedto "stock_dashboard/internal/feature/live/transport/http/dto"
	infrahttp "stock_dashboard/internal/platform/http"
)

var (
	symbol    string
	rangeFlag string
	chartType string
	pngPath   string
	favorite  bool
	timezone  string

	liveSymbol string
	liveRange  string
	ticks      int
)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Terminal client for the stock dashboard API",
	Long: `Talks to the dashboard API at API_URL (default https://stock-market-ju6c.onrender.com)
and prints the downsampled chart, company search results, or the live ticker feed.`,
	SilenceUsage: true,
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Show the chart for a symbol and range",
	RunE: func(cmd *cobra.Command, _ []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}
		if symbol != "" {
			sess.SetSymbol(symbol)
		}
		if err := sess.SetRange(rangeFlag); err != nil {
			return err
		}
		sess.SetChartType(render.ParseChartType(chartType))
		if favorite {
			added := sess.ToggleFavorite(sess.State().Symbol)
			fmt.Fprintf(cmd.OutOrStdout(), "favorite %s: %t\n", sess.State().Symbol, added)
		}

		sess.Load(cmd.Context())
		v := sess.View()
		printView(cmd.OutOrStdout(), v, sess.State().Favorites)

		if pngPath == "" || v.Empty {
			return nil
		}
		f, err := os.Create(pngPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := render.PNG(f, v.Points, v.Labels, render.Options{Type: v.ChartType, Title: v.Symbol + " " + string(v.Range)}); err != nil {
			return fmt.Errorf("render png: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", pngPath)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search companies by name or ticker",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")
		found := sess.Input(cmd.Context(), query)
		if len(found) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no suggestions for %q (at least %d characters are required)\n", query, usecase.MinQueryLength)
			return nil
		}
		for _, s := range found {
			fmt.Fprintf(cmd.OutOrStdout(), "%-15s %s\n", s.Symbol+".NS", s.Name)
		}
		return nil
	},
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Follow the live ticker over websocket",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return followLive(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&timezone, "tz", "Asia/Kolkata", "timezone for axis labels")

	chartCmd.Flags().StringVarP(&symbol, "symbol", "s", "", "ticker symbol (default RELIANCE.NS)")
	chartCmd.Flags().StringVarP(&rangeFlag, "range", "r", "1D", "range: 1D, 5D, 1M, 6M, 1Y, MAX")
	chartCmd.Flags().StringVarP(&chartType, "type", "t", "line", "chart type: line or area")
	chartCmd.Flags().StringVar(&pngPath, "png", "", "write the chart as a PNG file")
	chartCmd.Flags().BoolVar(&favorite, "favorite", false, "toggle the symbol in favorites")

	liveCmd.Flags().StringVarP(&liveSymbol, "symbol", "s", "RELIANCE", "live symbol")
	liveCmd.Flags().StringVarP(&liveRange, "range", "r", "1D", "live range (also accepts 5Y)")
	liveCmd.Flags().IntVarP(&ticks, "ticks", "n", 5, "number of snapshots to print")

	rootCmd.AddCommand(chartCmd, searchCmd, liveCmd)
}

func newSession() (*usecase.Session, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	cfg := api.LoadConfig()
	client := api.NewClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
	return usecase.NewSession(client, loc), nil
}

func printView(w io.Writer, v usecase.View, favorites []string) {
	fmt.Fprintf(w, "%s  %s  (%s)\n", v.Symbol, v.Range, v.ChartType)
	if v.Empty {
		fmt.Fprintln(w, v.Message)
		return
	}
	sign := "+"
	if v.Change < 0 {
		sign = ""
	}
	fmt.Fprintf(w, "last ₹%.2f  %s%.2f (%s%.2f%%)  high ₹%.2f  low ₹%.2f\n",
		v.Last, sign, v.Change, sign, v.ChangePercent, v.High, v.Low)
	for i, p := range v.Points {
		fmt.Fprintf(w, "%-10s %10.2f\n", v.Labels[i], p.Price)
	}
	fmt.Fprintf(w, "favorites: %s\n", strings.Join(favorites, ", "))
}

// followLive は /ws/live に接続し、受信したスナップショットを表示します。
func followLive(ctx context.Context, w io.Writer) error {
	base, err := url.Parse(api.LoadConfig().BaseURL)
	if err != nil {
		return err
	}
	scheme := "ws"
	if base.Scheme == "https" {
		scheme = "wss"
	}
	q := url.Values{}
	q.Set("symbol", liveSymbol)
	q.Set("range", liveRange)
	u := url.URL{Scheme: scheme, Host: base.Host, Path: strings.TrimRight(base.Path, "/") + "/ws/live", RawQuery: q.Encode()}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", u.Redacted(), err)
	}
	defer conn.Close()

	for seen := 0; seen < ticks; {
		var msg livedto.SnapshotMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}
		if msg.Type != "snapshot" {
			continue
		}
		seen++
		q := msg.Selected
		fmt.Fprintf(w, "%s %-10s ₹%.2f  %+.2f (%+.2f%%)  chart=%d points\n",
			msg.Time.Format("15:04:05"), q.Symbol, q.Price, q.Change, q.ChangePercent, len(msg.Chart))
	}
	return conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
