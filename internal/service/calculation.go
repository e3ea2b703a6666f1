package service

import (
	"context"
	"errors"

	"github.com/guttosm/costofequity/internal/analysis"
	"github.com/guttosm/costofequity/internal/domain/models"
	"github.com/guttosm/costofequity/internal/form"
	"github.com/guttosm/costofequity/internal/logger"
	"github.com/guttosm/costofequity/internal/session"
)

// CalculationService drives the calculation form for page sessions and
// serves stateless calculations for the JSON API.
type CalculationService interface {
	Tickers() []string
	DefaultTicker() string
	State(sessionID string) form.State
	SetTicker(sessionID, ticker string) (form.State, error)
	SetStartDate(sessionID, date string) form.State
	SetEndDate(sessionID, date string) form.State
	Calculate(ctx context.Context, sessionID string) (form.State, error)
	CalculateRequest(ctx context.Context, req models.Request) (models.Result, error)
}

type calculationService struct {
	calc    analysis.Calculator
	store   session.Store
	tickers []string
	defTick string
}

// NewCalculationService wires the analysis client, the session store and the
// enumerated ticker set. defaultTicker must be a member of tickers.
func NewCalculationService(calc analysis.Calculator, store session.Store, tickers []string, defaultTicker string) CalculationService {
	return &calculationService{calc: calc, store: store, tickers: tickers, defTick: defaultTicker}
}

func (s *calculationService) Tickers() []string     { return s.tickers }
func (s *calculationService) DefaultTicker() string { return s.defTick }

func (s *calculationService) State(id string) form.State { return s.store.Get(id) }

func (s *calculationService) SetTicker(id, ticker string) (form.State, error) {
	return s.store.Update(id, func(st form.State) (form.State, error) {
		next, err := form.SetTicker(st, ticker, s.tickers)
		if err != nil {
			// surface the rejection without touching loading or the result
			next.Err = err
		}
		return next, err
	})
}

func (s *calculationService) SetStartDate(id, date string) form.State {
	st, _ := s.store.Update(id, func(st form.State) (form.State, error) {
		return form.SetStartDate(st, date), nil
	})
	return st
}

func (s *calculationService) SetEndDate(id, date string) form.State {
	st, _ := s.store.Update(id, func(st form.State) (form.State, error) {
		return form.SetEndDate(st, date), nil
	})
	return st
}

// Calculate submits the session's form: one upstream request, then success
// or failure folded back into the session. A session that is already loading
// is rejected with form.ErrInFlight and no request is sent.
func (s *calculationService) Calculate(ctx context.Context, id string) (form.State, error) {
	var req models.Request
	st, err := s.store.Update(id, func(st form.State) (form.State, error) {
		next, r, err := form.Submit(st)
		req = r
		return next, err
	})
	if err != nil {
		if errors.Is(err, form.ErrInFlight) {
			logger.L().Info().Str("session", id).Msg("calculation rejected: in flight")
		}
		return st, err
	}

	res, err := s.calc.Calculate(ctx, req)
	if err != nil {
		logger.L().Warn().Err(err).Str("session", id).Str("ticker", req.Ticker).Msg("calculation failed")
		st, _ = s.store.Update(id, func(st form.State) (form.State, error) {
			return form.Fail(st, err), nil
		})
		return st, err
	}

	st, _ = s.store.Update(id, func(st form.State) (form.State, error) {
		return form.Succeed(st, res), nil
	})
	return st, nil
}

func (s *calculationService) CalculateRequest(ctx context.Context, req models.Request) (models.Result, error) {
	if err := form.ValidateRequest(req, s.tickers); err != nil {
		return models.Result{}, err
	}
	return s.calc.Calculate(ctx, req)
}
