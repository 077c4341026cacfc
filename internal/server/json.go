package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/office-dates/internal/calendar"
	"github.com/username/office-dates/internal/tools"
	"go.uber.org/zap"
)

// Error codes returned in ErrorBody.Code
const (
	CodeInvalidArgument = "invalid_argument"
	CodeInvalidRequest  = "invalid_request"
	CodeUnknownTool     = "unknown_tool"
	CodeInternal        = "internal"
)

// CallRequest is the body of POST /tools/call
type CallRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// CallResponse carries a tool result; Result is null for absent values
type CallResponse struct {
	Result any `json:"result"`
}

// ToolsResponse is the body of GET /tools
type ToolsResponse struct {
	Tools []tools.Tool `json:"tools"`
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status      string `json:"status"`
	OfficeDates int    `json:"office_dates"`
	First       string `json:"first,omitempty"`
	Last        string `json:"last,omitempty"`
}

// ErrorBody describes a rejected request
type ErrorBody struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorBody
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to write response",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, body ErrorBody) {
	h.writeJSON(w, r, status, ErrorResponse{Error: body})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.errorResponse(w, r, http.StatusBadRequest, ErrorBody{
		Code:    CodeInvalidRequest,
		Message: err.Error(),
	})
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("Internal server error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err))

	h.errorResponse(w, r, http.StatusInternalServerError, ErrorBody{
		Code:    CodeInternal,
		Message: "internal server error",
	})
}

// toolError maps a tool call failure onto the error taxonomy
func (h *Handler) toolError(w http.ResponseWriter, r *http.Request, err error) {
	var argErr *calendar.ArgumentError
	switch {
	case errors.As(err, &argErr):
		h.errorResponse(w, r, http.StatusBadRequest, ErrorBody{
			Code:    CodeInvalidArgument,
			Field:   argErr.Field,
			Message: argErr.Error(),
		})
	case errors.Is(err, calendar.ErrInvalidArgument):
		h.errorResponse(w, r, http.StatusBadRequest, ErrorBody{
			Code:    CodeInvalidArgument,
			Message: err.Error(),
		})
	case errors.Is(err, tools.ErrUnknownTool):
		h.errorResponse(w, r, http.StatusNotFound, ErrorBody{
			Code:    CodeUnknownTool,
			Message: err.Error(),
		})
	default:
		h.internalServerError(w, r, err)
	}
}
