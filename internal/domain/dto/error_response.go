package dto

import "time"

// ErrorResponse is the standard JSON error body returned by the API.
//
// Fields:
//   - Message: short, user-facing description.
//   - ErrorDetails: underlying error text, omitted when there is none.
//   - Timestamp: when the error was produced (UTC).
//   - Status: HTTP status to answer with when the response travels through
//     c.Error; zero means 500. Not serialized.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid request"`
	ErrorDetails string    `json:"error,omitempty" example:"startDate must not be after endDate"`
	Timestamp    time.Time `json:"timestamp" example:"2025-01-01T12:00:00Z"`
	Status       int       `json:"-" swaggerignore:"true"`
}

// NewErrorResponse builds an ErrorResponse, capturing err's text when non-nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

// WithStatus returns a copy of e carrying the given HTTP status.
func (e ErrorResponse) WithStatus(status int) ErrorResponse {
	e.Status = status
	return e
}

// Error implements the error interface so the response can travel through
// gin's c.Error chain.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
