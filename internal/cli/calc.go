package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/guttosm/costofequity/internal/analysis"
	"github.com/guttosm/costofequity/internal/form"
)

// Options describes one command-line calculation. Empty fields keep the
// form defaults.
type Options struct {
	Ticker    string
	StartDate string
	EndDate   string
	Tickers   []string
	Defaults  form.Defaults
	Out       io.Writer
	NoColor   bool
	Now       func() time.Time
}

type palette struct {
	heading *color.Color
	label   *color.Color
	err     *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		heading: color.New(color.FgCyan, color.Bold),
		label:   color.New(color.Faint),
		err:     color.New(color.FgRed, color.Bold),
	}
	if noColor {
		p.heading.DisableColor()
		p.label.DisableColor()
		p.err.DisableColor()
	}
	return p
}

// Run drives the form through a single calculation and prints the outcome.
// The returned error is the form or analysis failure, if any.
func Run(ctx context.Context, calc analysis.Calculator, opts Options) error {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	pal := newPalette(opts.NoColor)

	st := form.New(opts.Defaults, now())
	if opts.Ticker != "" {
		var err error
		if st, err = form.SetTicker(st, opts.Ticker, opts.Tickers); err != nil {
			printError(opts.Out, pal, err)
			return err
		}
	}
	if opts.StartDate != "" {
		st = form.SetStartDate(st, opts.StartDate)
	}
	if opts.EndDate != "" {
		st = form.SetEndDate(st, opts.EndDate)
	}

	st, req, err := form.Submit(st)
	if err != nil {
		printError(opts.Out, pal, err)
		return err
	}

	res, err := calc.Calculate(ctx, req)
	if err != nil {
		st = form.Fail(st, err)
		printError(opts.Out, pal, st.Err)
		return err
	}
	st = form.Succeed(st, res)

	printView(opts.Out, pal, form.Render(st, opts.Tickers))
	return nil
}

func printError(w io.Writer, p palette, err error) {
	_, _ = p.err.Fprint(w, "error: ")
	_, _ = fmt.Fprintln(w, err)
}

func printView(w io.Writer, p palette, v form.View) {
	_, _ = fmt.Fprintf(w, "%s  %s → %s\n\n", v.Ticker, v.StartDate, v.EndDate)
	if v.Result == nil {
		return
	}

	row := func(label, value string) {
		_, _ = p.label.Fprintf(w, "  %-18s", label)
		_, _ = fmt.Fprintln(w, value)
	}

	_, _ = p.heading.Fprintln(w, "CAPM Results")
	row("Intercept:", v.Result.CAPM.Intercept)
	row("Beta:", v.Result.CAPM.Beta)
	row("R²:", v.Result.CAPM.R2)
	row("Expected Return:", v.Result.CAPM.ExpectedReturn)
	_, _ = fmt.Fprintln(w)

	_, _ = p.heading.Fprintln(w, "Fama-French 3-Factor Results")
	row("Intercept:", v.Result.FF3.Intercept)
	row("Beta (Mkt-RF):", v.Result.FF3.BetaMkt)
	row("Beta (SMB):", v.Result.FF3.BetaSMB)
	row("Beta (HML):", v.Result.FF3.BetaHML)
	row("R²:", v.Result.FF3.R2)
	row("Expected Return:", v.Result.FF3.ExpectedReturn)
}
