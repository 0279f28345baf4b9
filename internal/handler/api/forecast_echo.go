package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"SalesCast/internal/domain/models"
	"SalesCast/internal/usecase"
	xhttp "SalesCast/pkg/http"
	"SalesCast/pkg/http/middleware"
	xlogger "SalesCast/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

const (
	welcomePage = "<p><H3>Welcome to product sales forecasting app</H3></p>"

	msgNoPayload   = "No JSON payload received"
	msgInvalidJSON = "Invalid JSON payload"
	msgNotObject   = "JSON payload must be an object"
	msgInvalid     = "Invalid input"
)

// maxBodyBytes bounds a single prediction request.
const maxBodyBytes = 1 << 20

// Predictor is the usecase the handler serves.
type Predictor interface {
	Predict(ctx context.Context, req models.Record) (models.Prediction, error)
	Ready() bool
}

// ForecastEchoHandler serves the prediction API.
type ForecastEchoHandler struct {
	logger    *xlogger.Logger
	predictor Predictor
}

func NewForecastEchoHandler(logger *xlogger.Logger, predictor Predictor) *ForecastEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ForecastEchoHandler{logger: logger, predictor: predictor}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Home)
	e.GET("/health", h.Health)
	e.POST("/PREDICT", h.Predict)
}

func (h *ForecastEchoHandler) Home(c echo.Context) error {
	return c.HTML(http.StatusOK, welcomePage)
}

// HealthResponse reports whether inference is possible.
type HealthResponse struct {
	Status       string `json:"status"`
	ModelsLoaded bool   `json:"models_loaded"`
}

func (h *ForecastEchoHandler) Health(c echo.Context) error {
	if h.predictor.Ready() {
		return xhttp.JSONResponse(c, http.StatusOK, HealthResponse{Status: "ok", ModelsLoaded: true})
	}
	return xhttp.JSONResponse(c, http.StatusServiceUnavailable, HealthResponse{Status: "degraded"})
}

func (h *ForecastEchoHandler) Predict(c echo.Context) error {
	req, appErr := decodeRecord(c.Request().Body)
	if appErr != nil {
		return xhttp.ErrorResponse(c, appErr)
	}

	pred, err := h.predictor.Predict(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("predict failed",
			xlogger.String("request_id", middleware.GetRequestID(c)),
			xlogger.Int("fields", len(req)),
			xlogger.Error(err),
		)
		return xhttp.ErrorResponse(c, mapError(err))
	}

	h.logger.Debug("predicted",
		xlogger.String("request_id", middleware.GetRequestID(c)),
		xlogger.String("model", pred.Model),
		xlogger.Float64("value", pred.Value),
	)
	return xhttp.SuccessResponse(c, pred)
}

// decodeRecord reads a JSON object body. Absent, null and empty payloads are
// all reported as missing.
func decodeRecord(body io.Reader) (models.Record, *xhttp.AppError) {
	if body == nil {
		return nil, xhttp.BadRequestError(msgNoPayload)
	}
	b, err := io.ReadAll(io.LimitReader(body, maxBodyBytes+1))
	if err != nil {
		return nil, xhttp.BadRequestError(msgInvalidJSON).WithError(err)
	}
	if len(b) > maxBodyBytes {
		return nil, xhttp.NewAppError("ERR_TOO_LARGE", "", "Payload too large", http.StatusRequestEntityTooLarge)
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, xhttp.BadRequestError(msgNoPayload)
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, xhttp.BadRequestError(msgInvalidJSON).WithError(err)
	}
	if dec.More() {
		return nil, xhttp.BadRequestError(msgInvalidJSON)
	}

	switch t := v.(type) {
	case nil:
		return nil, xhttp.BadRequestError(msgNoPayload)
	case map[string]any:
		if len(t) == 0 {
			return nil, xhttp.BadRequestError(msgNoPayload)
		}
		return models.Record(t), nil
	default:
		return nil, xhttp.BadRequestError(msgNotObject)
	}
}

func mapError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return xhttp.BadRequestError(msgInvalid).WithError(err)
	case errors.Is(err, usecase.ErrModelsUnavailable):
		return xhttp.ServiceUnavailableError(err.Error()).WithError(err)
	default:
		return xhttp.InternalError(err.Error()).WithError(err)
	}
}
