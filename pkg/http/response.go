package http

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

// ErrorBody is the wire shape of every error answer.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSONResponse encodes v with goccy/go-json. Types with their own
// MarshalJSON control key order.
func JSONResponse(c echo.Context, status int, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.JSONBlob(status, b)
}

// SuccessResponse writes a 200 JSON response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return JSONResponse(c, http.StatusOK, data)
}

// ErrorResponse writes {"error": msg}. AppError values keep their status and
// message; anything else becomes a generic 500.
func ErrorResponse(c echo.Context, err error) error {
	status := StatusOf(err)
	msg := http.StatusText(status)
	if appErr := asAppError(err); appErr != nil {
		msg = appErr.Message
	}
	return JSONResponse(c, status, ErrorBody{Error: msg})
}
