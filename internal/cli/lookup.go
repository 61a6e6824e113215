package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/f130r/workspace01/internal/cache"
	"github.com/f130r/workspace01/internal/fetch"
	"github.com/f130r/workspace01/internal/fx"
	"github.com/f130r/workspace01/internal/janlookup"
	"github.com/f130r/workspace01/internal/tui"
	"github.com/f130r/workspace01/internal/ui"
)

func (a *App) httpClient() *fetch.Client {
	return fetch.New(fetch.Options{
		Timeout:    a.Cfg.HTTPTimeout(),
		RatePerSec: a.Cfg.HTTP.RatePerSec,
		Burst:      a.Cfg.HTTP.Burst,
		UserAgent:  "toybox/1.0",
		Logger:     a.Log,
	})
}

// lookupService builds the JAN service. The caller closes the cache.
func (a *App) lookupService() (*janlookup.Service, *cache.MemoryCache[janlookup.Item]) {
	c := cache.NewMemoryCache[janlookup.Item](a.Cfg.CacheTTL(), a.Cfg.HTTP.CacheMaxSize)
	svc := &janlookup.Service{
		Catalog: janlookup.DemoCatalog(),
		Cache:   c,
		Log:     a.Log,
	}
	if a.Cfg.Books.Endpoint != "" {
		svc.Books = &janlookup.BookClient{Endpoint: a.Cfg.Books.Endpoint, HTTP: a.httpClient()}
	}
	return svc, c
}

func newJANCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "jan [code]",
		Short: "Look up a 13-digit JAN code (ISBNs go to the book API)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, c := a.lookupService()
			defer c.Close()
			if len(args) == 0 {
				_, code := a.runTUI(tui.NewJAN(svc, svc.Catalog.Codes(), a.Cfg.HTTPTimeout()))
				return exit(code)
			}
			return exit(a.doJAN(cmd.Context(), svc, args[0]))
		},
	}
}

func (a *App) doJAN(ctx context.Context, svc tui.Lookuper, code string) int {
	it, err := svc.Lookup(ctx, code)
	switch {
	case errors.Is(err, janlookup.ErrInvalidCode):
		return a.fail(2, "JANコードは13桁の数字で入力してください")
	case errors.Is(err, janlookup.ErrNotFound):
		return a.fail(1, "該当する商品が見つかりません: "+code)
	case err != nil:
		a.Log.Warn("jan lookup failed", zap.String("code", code), zap.Error(err))
		return a.fail(1, "lookup: "+err.Error())
	}

	lines := []string{ui.C(ui.Current().Title, "JAN "+it.Code), ""}
	for _, f := range it.Fields() {
		lines = append(lines, fmt.Sprintf("%s  %s", ui.C(ui.Current().Accent, f[0]), f[1]))
	}
	if !janlookup.CheckDigitOK(it.Code) {
		lines = append(lines, "", ui.C(ui.Current().Muted, "(チェックデジット不一致)"))
	}
	ui.Panel(a.Out, lines)
	return 0
}

func newFXCmd(a *App) *cobra.Command {
	var once bool
	var pairs []string
	cmd := &cobra.Command{
		Use:   "fx",
		Short: "Show intraday FX rates against the yen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(pairs) == 0 {
				pairs = a.Cfg.FX.Pairs
			}
			client := &fx.Client{Endpoint: a.Cfg.FX.Endpoint, HTTP: a.httpClient(), Log: a.Log}
			if once {
				return exit(a.doFXOnce(cmd.Context(), client, pairs))
			}
			m := tui.NewFX(cmd.Context(), client, pairs, a.Cfg.FXRefresh(), a.location())
			_, code := a.runTUI(m)
			return exit(code)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "fetch once, print and exit")
	cmd.Flags().StringSliceVar(&pairs, "pairs", nil, "pairs such as USDJPY=X (default from config)")
	return cmd
}

func (a *App) doFXOnce(ctx context.Context, f fx.Fetcher, pairs []string) int {
	ctx, cancel := context.WithTimeout(ctx, 2*a.Cfg.HTTPTimeout())
	defer cancel()
	series, err := f.FetchAll(ctx, pairs)
	if err != nil {
		return a.fail(1, "データ取得に失敗しました: "+err.Error())
	}
	fmt.Fprintln(a.Out, tui.FXReport(series, a.Now(), a.location()))
	return 0
}
