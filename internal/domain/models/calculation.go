package models

// Request is the payload sent to the analysis service for one calculation.
//
// Fields:
//   - Ticker: symbol from the configured ticker set (e.g., "MSFT").
//   - StartDate: first day of the sample, ISO calendar date (YYYY-MM-DD).
//   - EndDate: last day of the sample, ISO calendar date (YYYY-MM-DD).
//
// The JSON encoding is the wire format, field names included.
type Request struct {
	Ticker    string `json:"ticker" example:"MSFT"`
	StartDate string `json:"startDate" example:"2015-01-01"`
	EndDate   string `json:"endDate" example:"2020-01-01"`
}

// CAPM holds the single-factor regression of stock excess return on market
// excess return.
type CAPM struct {
	Intercept            float64 `json:"intercept" example:"0.001"`
	Beta                 float64 `json:"beta" example:"1.1"`
	R2                   float64 `json:"R2" example:"0.85"`
	ExpectedReturnAnnual float64 `json:"expected_return_annual" example:"0.09"`
}

// FF3 holds the Fama-French three-factor regression (market, size, value).
type FF3 struct {
	Intercept            float64 `json:"intercept" example:"0.0008"`
	BetaMkt              float64 `json:"beta_mkt" example:"0.87"`
	BetaSMB              float64 `json:"beta_smb" example:"-0.21"`
	BetaHML              float64 `json:"beta_hml" example:"-0.35"`
	R2                   float64 `json:"R2" example:"0.88"`
	ExpectedReturnAnnual float64 `json:"expected_return_annual" example:"0.085"`
}

// Result is the response of the analysis service: both model fits for the
// requested ticker and period.
//
// swagger:model Result
type Result struct {
	CAPM CAPM `json:"capm"`
	FF3  FF3  `json:"ff3"`
}
