package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/costofequity/internal/analysis"
	"github.com/guttosm/costofequity/internal/domain/models"
	"github.com/guttosm/costofequity/internal/form"
	"github.com/guttosm/costofequity/internal/session"
)

var tickers = []string{"AAPL", "MSFT", "GOOGL", "TSLA", "AMZN"}

type stubCalc struct {
	mu      sync.Mutex
	reqs    []models.Request
	res     models.Result
	err     error
	block   chan struct{} // when non-nil, Calculate waits on it
	entered chan struct{}
}

func (s *stubCalc) Calculate(ctx context.Context, req models.Request) (models.Result, error) {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	return s.res, s.err
}

func (s *stubCalc) calls() []models.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Request(nil), s.reqs...)
}

var _ analysis.Calculator = (*stubCalc)(nil)

func newSvc(calc analysis.Calculator) CalculationService {
	store := session.NewMemoryStore(time.Hour, func() form.State {
		return form.State{Ticker: "AAPL", StartDate: "2010-01-01", EndDate: "2025-01-01"}
	})
	return NewCalculationService(calc, store, tickers, "AAPL")
}

func TestCalculate_EndToEnd(t *testing.T) {
	calc := &stubCalc{res: models.Result{CAPM: models.CAPM{Beta: 1.1, ExpectedReturnAnnual: 0.09}, FF3: models.FF3{BetaMkt: 0.87}}}
	svc := newSvc(calc)

	if _, err := svc.SetTicker("s1", "MSFT"); err != nil {
		t.Fatalf("set ticker: %v", err)
	}
	svc.SetStartDate("s1", "2015-01-01")
	svc.SetEndDate("s1", "2020-01-01")

	st, err := svc.Calculate(context.Background(), "s1")
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	reqs := calc.calls()
	want := models.Request{Ticker: "MSFT", StartDate: "2015-01-01", EndDate: "2020-01-01"}
	if len(reqs) != 1 || reqs[0] != want {
		t.Fatalf("requests=%+v want [%+v]", reqs, want)
	}
	if st.Loading || st.Err != nil || st.Result == nil {
		t.Fatalf("unexpected state: %+v", st)
	}
	v := form.Render(st, tickers)
	if v.Result.CAPM.Beta != "1.1000" || v.Result.CAPM.ExpectedReturn != "9.00%" || v.Result.FF3.BetaMkt != "0.8700" {
		t.Fatalf("rendered %+v", v.Result)
	}
}

func TestCalculate_FailureKeepsPriorResult(t *testing.T) {
	calc := &stubCalc{res: models.Result{CAPM: models.CAPM{Beta: 1.1}}}
	svc := newSvc(calc)
	if _, err := svc.Calculate(context.Background(), "s1"); err != nil {
		t.Fatalf("first calculate: %v", err)
	}

	calc.err = &analysis.StatusError{Code: 500}
	st, err := svc.Calculate(context.Background(), "s1")
	var se *analysis.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("want StatusError, got %v", err)
	}
	if st.Loading {
		t.Fatalf("loading not cleared after failure")
	}
	if st.Result == nil || st.Result.CAPM.Beta != 1.1 {
		t.Fatalf("prior result lost: %+v", st.Result)
	}
	if st.Err == nil {
		t.Fatalf("error not recorded in state")
	}
}

func TestCalculate_ValidationSendsNothing(t *testing.T) {
	calc := &stubCalc{}
	svc := newSvc(calc)
	svc.SetStartDate("s1", "2021-01-01")
	svc.SetEndDate("s1", "2020-01-01")

	st, err := svc.Calculate(context.Background(), "s1")
	if !errors.Is(err, form.ErrDateRange) || !errors.Is(st.Err, form.ErrDateRange) {
		t.Fatalf("want ErrDateRange, got %v / %v", err, st.Err)
	}
	if len(calc.calls()) != 0 {
		t.Fatalf("request sent despite invalid range")
	}
}

func TestSetTicker_Rejected(t *testing.T) {
	svc := newSvc(&stubCalc{})
	st, err := svc.SetTicker("s1", "IBM")
	if !errors.Is(err, form.ErrUnknownTicker) {
		t.Fatalf("want ErrUnknownTicker, got %v", err)
	}
	if st.Ticker != "AAPL" || st.Err == nil {
		t.Fatalf("state after rejection: %+v", st)
	}
}

func TestCalculate_InFlightRejectsSecondSubmit(t *testing.T) {
	calc := &stubCalc{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	svc := newSvc(calc)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Calculate(context.Background(), "s1")
		done <- err
	}()
	<-calc.entered

	if st := svc.State("s1"); !st.Loading {
		t.Fatalf("expected loading while in flight")
	}
	if _, err := svc.Calculate(context.Background(), "s1"); !errors.Is(err, form.ErrInFlight) {
		t.Fatalf("want ErrInFlight, got %v", err)
	}

	// another session is independent
	calc2done := make(chan error, 1)
	go func() {
		_, err := svc.Calculate(context.Background(), "s2")
		calc2done <- err
	}()
	<-calc.entered

	close(calc.block)
	if err := <-done; err != nil {
		t.Fatalf("first calculate: %v", err)
	}
	if err := <-calc2done; err != nil {
		t.Fatalf("second session: %v", err)
	}
	if st := svc.State("s1"); st.Loading {
		t.Fatalf("loading not cleared")
	}
	if n := len(calc.calls()); n != 2 {
		t.Fatalf("upstream calls=%d want 2", n)
	}
}

func TestCalculateRequest(t *testing.T) {
	calc := &stubCalc{res: models.Result{CAPM: models.CAPM{Beta: 1.1}}}
	svc := newSvc(calc)

	if _, err := svc.CalculateRequest(context.Background(), models.Request{Ticker: "IBM", StartDate: "2015-01-01", EndDate: "2020-01-01"}); !errors.Is(err, form.ErrUnknownTicker) {
		t.Fatalf("want ErrUnknownTicker, got %v", err)
	}
	res, err := svc.CalculateRequest(context.Background(), models.Request{Ticker: "MSFT", StartDate: "2015-01-01", EndDate: "2020-01-01"})
	if err != nil || res.CAPM.Beta != 1.1 {
		t.Fatalf("res=%+v err=%v", res, err)
	}
	if n := len(calc.calls()); n != 1 {
		t.Fatalf("calls=%d", n)
	}
}
