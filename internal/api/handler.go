package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guttosm/costofequity/internal/analysis"
	"github.com/guttosm/costofequity/internal/domain/dto"
	"github.com/guttosm/costofequity/internal/domain/models"
	"github.com/guttosm/costofequity/internal/form"
	"github.com/guttosm/costofequity/internal/middleware"
	"github.com/guttosm/costofequity/internal/service"
)

const sessionCookie = "coe_session"

// statusClientClosedRequest is the nginx convention for a caller that went
// away before the answer; nobody reads the body.
const statusClientClosedRequest = 499

// Handler serves the calculation page and the JSON API.
//
// Responsibilities:
//   - Track the visitor's page session through a cookie
//   - Feed form events into the calculation service
//   - Render the page from the form's display model
//   - Map calculation failures to HTTP status codes for the JSON API
type Handler struct {
	svc      service.CalculationService
	basePath string
}

// NewHandler constructs a Handler.
//
// Parameters:
//   - svc: calculation service shared by the page and the API.
//   - basePath: route prefix, used for redirects and the session cookie path.
func NewHandler(svc service.CalculationService, basePath string) *Handler {
	return &Handler{svc: svc, basePath: basePath}
}

// sessionID returns the visitor's session, issuing a new cookie when absent
// or not a UUID.
func (h *Handler) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if _, perr := uuid.Parse(id); perr == nil {
			return id
		}
	}
	id := uuid.NewString()
	path := h.basePath
	if path == "" {
		path = "/"
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, path, "", false, true)
	return id
}

// Index renders the form and, when present, the latest results.
func (h *Handler) Index(c *gin.Context) {
	st := h.svc.State(h.sessionID(c))
	c.HTML(http.StatusOK, "index.html", gin.H{
		"BasePath": h.basePath,
		"View":     form.Render(st, h.svc.Tickers()),
	})
}

// Submit handles the form post: the three field changes followed by one
// calculation, then redirects back to the page. Failures are already stored
// in the session and shown by Index.
func (h *Handler) Submit(c *gin.Context) {
	id := h.sessionID(c)

	if ticker, ok := c.GetPostForm("ticker"); ok {
		if _, err := h.svc.SetTicker(id, strings.TrimSpace(ticker)); err != nil {
			c.Redirect(http.StatusSeeOther, h.basePath+"/")
			return
		}
	}
	if start, ok := c.GetPostForm("startDate"); ok {
		h.svc.SetStartDate(id, start)
	}
	if end, ok := c.GetPostForm("endDate"); ok {
		h.svc.SetEndDate(id, end)
	}

	// The outcome belongs to the session, not to this connection: a browser
	// that navigates away still finds the result on its next page load.
	ctx, cancel := detach(c.Request.Context())
	defer cancel()

	// the outcome, error included, is in the session now
	_, _ = h.svc.Calculate(ctx, id)
	c.Redirect(http.StatusSeeOther, h.basePath+"/")
}

// detach drops ctx's cancellation but keeps its deadline.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	out := context.WithoutCancel(ctx)
	if dl, ok := ctx.Deadline(); ok {
		return context.WithDeadline(out, dl)
	}
	return context.WithCancel(out)
}

// Calculate handles POST /api/v1/calculate.
//
// Calculate godoc
// @Summary      Run a CAPM and Fama-French 3-factor calculation
// @Description  Forwards the ticker and date range to the analysis service and returns both model fits
// @Tags         calculate
// @Accept       json
// @Produce      json
// @Param        request  body      models.Request    true  "Ticker and ISO date range"
// @Success      200      {object}  models.Result     "Success"
// @Failure      400      {object}  dto.ErrorResponse "Invalid input"
// @Failure      502      {object}  dto.ErrorResponse "Analysis service error or malformed response"
// @Failure      503      {object}  dto.ErrorResponse "Analysis service unreachable"
// @Failure      504      {object}  dto.ErrorResponse "Analysis service timed out"
// @Router       /api/v1/calculate [post]
func (h *Handler) Calculate(c *gin.Context) {
	var req models.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))

	res, err := h.svc.CalculateRequest(c.Request.Context(), req)
	if err != nil {
		status, msg := classify(err)
		middleware.AbortWithError(c, status, msg, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Tickers handles GET /api/v1/tickers.
//
// Tickers godoc
// @Summary      List supported tickers
// @Tags         calculate
// @Produce      json
// @Success      200  {object}  dto.TickersResponse
// @Router       /api/v1/tickers [get]
func (h *Handler) Tickers(c *gin.Context) {
	c.JSON(http.StatusOK, dto.TickersResponse{Tickers: h.svc.Tickers(), Default: h.svc.DefaultTicker()})
}

// classify maps a calculation error to an HTTP status and message.
func classify(err error) (int, string) {
	var se *analysis.StatusError
	switch {
	case errors.Is(err, form.ErrUnknownTicker), errors.Is(err, form.ErrInvalidDate), errors.Is(err, form.ErrDateRange):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, analysis.ErrTimeout):
		return http.StatusGatewayTimeout, "analysis service timed out"
	case errors.Is(err, analysis.ErrCanceled):
		return statusClientClosedRequest, "request canceled"
	case errors.Is(err, analysis.ErrNetwork):
		return http.StatusServiceUnavailable, "analysis service unreachable"
	case errors.As(err, &se):
		return http.StatusBadGateway, "analysis service error"
	case errors.Is(err, analysis.ErrMalformed):
		return http.StatusBadGateway, "malformed analysis response"
	default:
		return http.StatusInternalServerError, "calculation failed"
	}
}
