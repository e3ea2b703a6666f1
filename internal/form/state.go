package form

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/guttosm/costofequity/internal/domain/models"
)

// Form-level errors. Each leaves any previous result in place.
var (
	ErrUnknownTicker = errors.New("ticker is not in the supported set")
	ErrInvalidDate   = errors.New("date must be a calendar date in YYYY-MM-DD format")
	ErrDateRange     = errors.New("start date must not be after end date")
	ErrInFlight      = errors.New("a calculation is already in progress")
)

// State is everything the calculation form displays.
//
// Transitions are pure: each function takes a State by value and returns the
// next one, so callers decide where the state lives (a session, a CLI run).
type State struct {
	Ticker    string
	StartDate string
	EndDate   string
	Result    *models.Result
	Loading   bool
	Err       error
}

// Defaults seeds a fresh form.
type Defaults struct {
	Ticker    string
	StartDate string
}

// New returns the initial state: default ticker and start date, end date set
// to today's date (UTC) relative to now.
func New(d Defaults, now time.Time) State {
	return State{
		Ticker:    d.Ticker,
		StartDate: d.StartDate,
		EndDate:   now.UTC().Format(time.DateOnly),
	}
}

// SetTicker selects value from allowed. Anything outside the set is rejected
// and the state is returned unchanged.
func SetTicker(s State, value string, allowed []string) (State, error) {
	if !slices.Contains(allowed, value) {
		return s, fmt.Errorf("%w: %q", ErrUnknownTicker, value)
	}
	s.Ticker = value
	return s, nil
}

// SetStartDate stores the date string verbatim; it is validated on Submit.
func SetStartDate(s State, value string) State {
	s.StartDate = value
	return s
}

// SetEndDate stores the date string verbatim; it is validated on Submit.
func SetEndDate(s State, value string) State {
	s.EndDate = value
	return s
}

// Submit moves the form into the loading state and returns the request to
// send. A form that is already loading is returned unchanged with ErrInFlight.
// A validation failure is recorded in Err and nothing is sent.
func Submit(s State) (State, models.Request, error) {
	if s.Loading {
		return s, models.Request{}, ErrInFlight
	}
	req := models.Request{Ticker: s.Ticker, StartDate: s.StartDate, EndDate: s.EndDate}
	if err := validateDates(req); err != nil {
		s.Err = err
		return s, models.Request{}, err
	}
	s.Loading = true
	s.Err = nil
	return s, req, nil
}

// Succeed replaces the displayed result and clears loading and error.
func Succeed(s State, r models.Result) State {
	s.Result = &r
	s.Loading = false
	s.Err = nil
	return s
}

// Fail records err and clears loading. The previous result stays.
func Fail(s State, err error) State {
	s.Loading = false
	s.Err = err
	return s
}

// ValidateRequest checks a request that did not come through the form
// transitions (the JSON API).
func ValidateRequest(req models.Request, allowed []string) error {
	if !slices.Contains(allowed, req.Ticker) {
		return fmt.Errorf("%w: %q", ErrUnknownTicker, req.Ticker)
	}
	return validateDates(req)
}

func validateDates(req models.Request) error {
	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		return fmt.Errorf("start date %q: %w", req.StartDate, ErrInvalidDate)
	}
	end, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		return fmt.Errorf("end date %q: %w", req.EndDate, ErrInvalidDate)
	}
	if start.After(end) {
		return fmt.Errorf("%s > %s: %w", req.StartDate, req.EndDate, ErrDateRange)
	}
	return nil
}
