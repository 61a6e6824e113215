package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/f130r/workspace01/internal/receipt"
	"github.com/f130r/workspace01/internal/tui"
	"github.com/f130r/workspace01/internal/ui"
)

type receiptFlags struct {
	name, note, issuer, date, out string
	amount                        int64
	print, markdown               bool
}

func newReceiptCmd(a *App) *cobra.Command {
	var f receiptFlags
	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Fill in and render a receipt (領収書)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exit(a.doReceipt(cmd, f))
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", receipt.DefaultName, "recipient")
	fl.Int64Var(&f.amount, "amount", receipt.DefaultAmount, "amount in yen")
	fl.StringVar(&f.date, "date", "", "issue date YYYY-MM-DD (default today)")
	fl.StringVar(&f.note, "note", receipt.DefaultNote, "但し書き")
	fl.StringVar(&f.issuer, "issuer", "", "issuer (default from config)")
	fl.BoolVar(&f.print, "print", false, "render to the terminal instead of opening the form")
	fl.BoolVar(&f.markdown, "markdown", false, "print raw markdown instead of the rendered view")
	fl.StringVar(&f.out, "out", "", "also save the markdown into this directory")
	return cmd
}

func (a *App) doReceipt(cmd *cobra.Command, f receiptFlags) int {
	loc := a.location()
	r := receipt.New(a.Cfg.Receipt.Issuer, a.Now().In(loc))
	r.Name, r.Amount, r.Note = f.name, f.amount, f.note
	if cmd.Flags().Changed("issuer") {
		r.Issuer = f.issuer
	}
	if f.date != "" {
		d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(f.date), loc)
		if err != nil {
			return a.fail(2, "日付は YYYY-MM-DD で入力してください: "+f.date)
		}
		r.IssuedAt = d
	}

	if !f.print && !f.markdown && f.out == "" {
		_, code := a.runTUI(tui.NewReceipt(r, a.Cfg.Path("receipts"), loc, a.Log))
		return code
	}

	if err := r.Validate(); err != nil {
		return a.fail(2, err.Error())
	}
	if f.markdown {
		fmt.Fprint(a.Out, receipt.Markdown(r))
	} else if f.print {
		out, err := receipt.Render(r, 72)
		if err != nil {
			return a.fail(1, "render: "+err.Error())
		}
		fmt.Fprint(a.Out, out)
	}
	if f.out != "" {
		path, err := receipt.Save(f.out, r)
		if err != nil {
			return a.fail(1, "save: "+err.Error())
		}
		a.Log.Info("receipt saved", zap.String("path", path), zap.String("number", r.Number))
		ui.OK(a.Err, "保存しました: "+path)
	}
	return 0
}
