package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/username/office-dates/internal/calendar"
	"github.com/username/office-dates/internal/tools"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	var entries []calendar.OfficeDate
	for _, s := range []string{"2025-11-02", "2025-11-15", "2025-11-17"} {
		d, _ := time.Parse("2006-01-02", s)
		entries = append(entries, calendar.NewOfficeDate(d))
	}

	now := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	cal, err := calendar.NewOfficeCalendar(entries, calendar.FixedClock(now), time.UTC, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOfficeCalendar() error = %v", err)
	}

	reg, err := tools.NewRegistry(cal, zap.NewNop())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	return NewHandler(reg, cal, zap.NewNop())
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz status = %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" || resp.OfficeDates != 3 || resp.First != "2025-11-02" || resp.Last != "2025-11-17" {
		t.Errorf("GET /healthz = %+v", resp)
	}
}

func TestListTools(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/tools", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /tools status = %d, want 200", rec.Code)
	}

	var resp ToolsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Tools) != 3 {
		t.Errorf("GET /tools returned %d tools, want 3", len(resp.Tools))
	}
}

func TestCallTool(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Office dates for month",
			body:       `{"name":"office_dates_for_month","arguments":{"month":11,"year":2025}}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"result":["2025-11-02","2025-11-15","2025-11-17"]}`,
		},
		{
			name:       "Next office date",
			body:       `{"name":"next_office_date","arguments":{"from_date":"2025-11-02"}}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"result":"2025-11-15"}`,
		},
		{
			name:       "Next office date absent",
			body:       `{"name":"next_office_date","arguments":{"from_date":"2025-11-17"}}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"result":null}`,
		},
		{
			name:       "Next office date without arguments",
			body:       `{"name":"next_office_date"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"result":"2025-11-02"}`,
		},
		{
			name:       "Last working day",
			body:       `{"name":"last_working_day","arguments":{"month":11,"year":2025}}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"result":17}`,
		},
		{
			name:       "Empty month is not an error",
			body:       `{"name":"office_dates_for_month","arguments":{"month":6,"year":2025}}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"result":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/tools/call", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("POST /tools/call status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Errorf("POST /tools/call body = %s, want %s", got, tt.wantBody)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
		})
	}
}

func TestCallTool_Errors(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"Month out of range", `{"name":"office_dates_for_month","arguments":{"month":13,"year":2025}}`, http.StatusBadRequest, CodeInvalidArgument, "month"},
		{"Last working day month zero", `{"name":"last_working_day","arguments":{"month":0}}`, http.StatusBadRequest, CodeInvalidArgument, "month"},
		{"Bad from_date", `{"name":"next_office_date","arguments":{"from_date":"tomorrow"}}`, http.StatusBadRequest, CodeInvalidArgument, "from_date"},
		{"Unknown tool", `{"name":"add_numbers","arguments":{"a":1,"b":2}}`, http.StatusNotFound, CodeUnknownTool, ""},
		{"Missing name", `{"arguments":{}}`, http.StatusBadRequest, CodeInvalidRequest, ""},
		{"Malformed JSON", `{"name":`, http.StatusBadRequest, CodeInvalidRequest, ""},
		{"Unknown envelope field", `{"name":"next_office_date","args":{}}`, http.StatusBadRequest, CodeInvalidRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/tools/call", tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("POST /tools/call status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
			if resp.Error.Field != tt.wantField {
				t.Errorf("error field = %q, want %q", resp.Error.Field, tt.wantField)
			}
			if resp.Error.Message == "" {
				t.Error("error message is empty")
			}
		})
	}
}

type panickingRegistry struct{}

func (panickingRegistry) List() []tools.Tool { return nil }

func (panickingRegistry) Call(context.Context, string, json.RawMessage) (any, error) {
	panic("boom")
}

type failingRegistry struct{}

func (failingRegistry) List() []tools.Tool { return nil }

func (failingRegistry) Call(context.Context, string, json.RawMessage) (any, error) {
	return nil, errors.New("disk on fire")
}

func TestCallTool_InternalErrors(t *testing.T) {
	cal, _ := calendar.NewOfficeCalendar(nil, nil, time.UTC, zap.NewNop())

	for name, reg := range map[string]ToolRegistry{
		"panic":         panickingRegistry{},
		"unknown error": failingRegistry{},
	} {
		t.Run(name, func(t *testing.T) {
			h := NewHandler(reg, cal, zap.NewNop())
			rec := doRequest(t, h, http.MethodPost, "/tools/call", `{"name":"next_office_date"}`)

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rec.Code)
			}
			var resp ErrorResponse
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp.Error.Code != CodeInternal {
				t.Errorf("error code = %q, want %q", resp.Error.Code, CodeInternal)
			}
			if strings.Contains(rec.Body.String(), "disk on fire") {
				t.Error("internal error details leaked to the caller")
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/tools/call", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /tools/call status = %d, want 405", rec.Code)
	}
}
