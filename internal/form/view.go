package form

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/guttosm/costofequity/internal/domain/models"
)

const (
	coefPlaces    = 4
	percentPlaces = 2

	labelIdle    = "Calculate Cost of Equity"
	labelLoading = "Calculating..."
)

var hundred = decimal.NewFromInt(100)

// Option is one entry of the ticker select.
type Option struct {
	Value    string
	Selected bool
}

// CAPMView is the CAPM block with every number already formatted.
type CAPMView struct {
	Intercept      string
	Beta           string
	R2             string
	ExpectedReturn string
}

// FF3View is the Fama-French block with every number already formatted.
type FF3View struct {
	Intercept      string
	BetaMkt        string
	BetaSMB        string
	BetaHML        string
	R2             string
	ExpectedReturn string
}

// ResultView groups both model blocks.
type ResultView struct {
	CAPM CAPMView
	FF3  FF3View
}

// View is the display model rendered by the page template and the CLI.
type View struct {
	Tickers     []Option
	Ticker      string
	StartDate   string
	EndDate     string
	Loading     bool
	ButtonLabel string
	Error       string
	Result      *ResultView
}

// Render builds the display model for s.
func Render(s State, tickers []string) View {
	v := View{
		Ticker:      s.Ticker,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		Loading:     s.Loading,
		ButtonLabel: labelIdle,
	}
	if s.Loading {
		v.ButtonLabel = labelLoading
	}
	for _, t := range tickers {
		v.Tickers = append(v.Tickers, Option{Value: t, Selected: t == s.Ticker})
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}
	if s.Result != nil {
		rv := RenderResult(*s.Result)
		v.Result = &rv
	}
	return v
}

// RenderResult formats both model fits for display.
func RenderResult(r models.Result) ResultView {
	return ResultView{
		CAPM: CAPMView{
			Intercept:      Coef(r.CAPM.Intercept),
			Beta:           Coef(r.CAPM.Beta),
			R2:             Coef(r.CAPM.R2),
			ExpectedReturn: Percent(r.CAPM.ExpectedReturnAnnual),
		},
		FF3: FF3View{
			Intercept:      Coef(r.FF3.Intercept),
			BetaMkt:        Coef(r.FF3.BetaMkt),
			BetaSMB:        Coef(r.FF3.BetaSMB),
			BetaHML:        Coef(r.FF3.BetaHML),
			R2:             Coef(r.FF3.R2),
			ExpectedReturn: Percent(r.FF3.ExpectedReturnAnnual),
		},
	}
}

// Coef formats a coefficient with four decimal places ("1.1000").
func Coef(x float64) string {
	if !finite(x) {
		return "n/a"
	}
	return decimal.NewFromFloat(x).StringFixed(coefPlaces)
}

// Percent formats a fraction as a percentage with two decimal places
// ("0.09" -> "9.00%").
func Percent(x float64) string {
	if !finite(x) {
		return "n/a"
	}
	return decimal.NewFromFloat(x).Mul(hundred).StringFixed(percentPlaces) + "%"
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
