package form

import (
	"errors"
	"math"
	"testing"

	"github.com/guttosm/costofequity/internal/domain/models"
)

func TestCoefAndPercent(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"beta", Coef(1.1), "1.1000"},
		{"beta mkt", Coef(0.87), "0.8700"},
		{"rounding", Coef(1.23456), "1.2346"},
		{"negative", Coef(-0.00012), "-0.0001"},
		{"small intercept", Coef(0.001), "0.0010"},
		{"percent", Percent(0.09), "9.00%"},
		{"percent rounding", Percent(0.123456), "12.35%"},
		{"negative percent", Percent(-0.0249), "-2.49%"},
		{"nan", Coef(math.NaN()), "n/a"},
		{"inf", Percent(math.Inf(1)), "n/a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("got %q want %q", tc.got, tc.want)
			}
		})
	}
}

func TestRender_EmptyAndLoading(t *testing.T) {
	v := Render(State{Ticker: "MSFT"}, tickers)
	if v.Result != nil || v.Error != "" || v.Loading {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.ButtonLabel != "Calculate Cost of Equity" {
		t.Fatalf("label=%q", v.ButtonLabel)
	}
	if len(v.Tickers) != len(tickers) {
		t.Fatalf("options=%d", len(v.Tickers))
	}
	for _, o := range v.Tickers {
		if o.Selected != (o.Value == "MSFT") {
			t.Fatalf("bad selection on %+v", o)
		}
	}

	v = Render(State{Ticker: "MSFT", Loading: true}, tickers)
	if !v.Loading || v.ButtonLabel != "Calculating..." {
		t.Fatalf("loading view: %+v", v)
	}
}

func TestRender_ResultAndError(t *testing.T) {
	r := models.Result{
		CAPM: models.CAPM{Intercept: 0.001, Beta: 1.1, R2: 0.85, ExpectedReturnAnnual: 0.09},
		FF3:  models.FF3{Intercept: 0.0008, BetaMkt: 0.87, BetaSMB: -0.21, BetaHML: -0.35, R2: 0.88, ExpectedReturnAnnual: 0.085},
	}
	v := Render(State{Ticker: "MSFT", Result: &r, Err: errors.New("analysis service unreachable")}, tickers)
	if v.Error != "analysis service unreachable" {
		t.Fatalf("error=%q", v.Error)
	}
	if v.Result == nil {
		t.Fatalf("result missing")
	}
	want := ResultView{
		CAPM: CAPMView{Intercept: "0.0010", Beta: "1.1000", R2: "0.8500", ExpectedReturn: "9.00%"},
		FF3:  FF3View{Intercept: "0.0008", BetaMkt: "0.8700", BetaSMB: "-0.2100", BetaHML: "-0.3500", R2: "0.8800", ExpectedReturn: "8.50%"},
	}
	if *v.Result != want {
		t.Fatalf("got %+v want %+v", *v.Result, want)
	}
}
