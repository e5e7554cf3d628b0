package ginserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelops/internal/app"
	appoutbox "hotelops/internal/app/outbox"
	"hotelops/internal/infra/config"
	ginserver "hotelops/internal/infra/http/gin"
	"hotelops/internal/infra/obs"
	"hotelops/internal/infra/storage/memory"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	application := app.New(app.Options{
		UoW:     memory.NewFactory(),
		Outbox:  memory.NewOutbox(),
		Encoder: appoutbox.JSONEventEncoder{},
		Logger:  logger,
	})
	handlers := ginserver.Handlers{
		Frontdesk: ginserver.FrontdeskHandler{Commands: application.Commands, Queries: application.Queries},
		Inventory: ginserver.InventoryHandler{Commands: application.Commands, Queries: application.Queries},
		Billing:   ginserver.BillingHandler{Queries: application.Queries},
	}
	cfg := config.Config{Env: "test", HTTPAddr: ":0"}
	srv := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{}, handlers)
	return srv.Handler
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), "body: %s", rec.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/livez", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestStayOverHTTP(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/hotels", map[string]any{"name": "Riverside"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var hotel struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &hotel)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/rooms", map[string]any{
		"hotel_id": hotel.ID,
		"name":     "101",
		"floor":    1,
		"rates": map[string]string{
			"first_hour": "50",
			"next_hour":  "20",
			"day":        "300",
			"night":      "200",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var room struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &room)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/occupancies", map[string]any{
		"room_id": room.ID,
		"mode":    "DAY",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var snap struct {
		OccupancyID      string `json:"occupancy_id"`
		Mode             string `json:"mode"`
		CalculatedAmount string `json:"calculated_amount"`
	}
	decodeBody(t, rec, &snap)
	assert.Equal(t, "DAY", snap.Mode)
	assert.Equal(t, "300", snap.CalculatedAmount)

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/occupancies/%s/pricing", snap.OccupancyID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/v1/occupancies/%s/checkout", snap.OccupancyID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var bill struct {
		Total string `json:"total"`
	}
	decodeBody(t, rec, &bill)
	assert.Equal(t, "300", bill.Total)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/bills", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	h := newTestServer(t)

	// Unknown occupancy resolves to 404.
	rec := doJSON(t, h, http.MethodGet, "/api/v1/occupancies/missing/pricing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Invalid billing mode resolves to 400.
	rec = doJSON(t, h, http.MethodPost, "/api/v1/occupancies", map[string]any{
		"room_id": "whatever",
		"mode":    "WEEK",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
