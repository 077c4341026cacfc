package server

import (
	"errors"
	"net/http"
	"strings"
)

const maxBodyBytes = 64 << 10

// Health reports liveness and the loaded dataset bounds
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:      "ok",
		OfficeDates: h.dataset.Len(),
	}
	if first, ok := h.dataset.First(); ok {
		resp.First = first.String()
	}
	if last, ok := h.dataset.Last(); ok {
		resp.Last = last.String()
	}

	h.writeJSON(w, r, http.StatusOK, resp)
}

// ListTools describes the callable tools
func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, ToolsResponse{Tools: h.registry.List()})
}

// CallTool invokes a tool by name with the supplied arguments
func (h *Handler) CallTool(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		h.badRequest(w, r, errors.New("tool name is required"))
		return
	}

	result, err := h.registry.Call(r.Context(), req.Name, req.Arguments)
	if err != nil {
		h.toolError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, CallResponse{Result: result})
}
