package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"mission-control/internal/capture"
	"mission-control/internal/config"
	"mission-control/internal/flights"
	"mission-control/internal/models"
	"mission-control/internal/projects"
	"mission-control/internal/store"
)

const testAPIKey = "nero-update-key"

func newTestController(t *testing.T) (*Controller, *store.MemoryAdapter) {
	t.Helper()
	adapter := store.NewMemoryAdapter()
	ctx := context.Background()
	logger := zerolog.Nop()

	cfg := &config.Config{}
	cfg.Flights.APIKey = testAPIKey
	cfg.Flights.NearMargin = 0.10

	routeStore := flights.NewStore(ctx, adapter, logger)
	evaluator := flights.NewEvaluator(ctx, adapter, logger)
	projectStore := projects.NewStore(ctx, adapter, logger)
	captureStore := capture.NewStore(ctx, adapter, logger)

	return New(cfg, logger, routeStore, evaluator, projectStore, captureStore, adapter, nil), adapter
}

func doRequest(c *Controller, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestGetFlights(t *testing.T) {
	c, _ := newTestController(t)

	rec := doRequest(c, http.MethodGet, "/api/flights", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	routes, ok := body["routes"].([]interface{})
	if !ok || len(routes) != 2 {
		t.Errorf("routes = %v, want the two seed routes", body["routes"])
	}
	if body["lastUpdated"] == nil {
		t.Errorf("lastUpdated missing from snapshot")
	}
}

func TestUpdateFlightPrice_RequiresBearerKey(t *testing.T) {
	c, adapter := newTestController(t)
	writes := adapter.SetCalls

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong key", "Bearer not-the-key"},
		{"bare key without scheme", testAPIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			rec := doRequest(c, http.MethodPost, "/api/flights",
				`{"routeId":"1","price":650}`, headers)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			body := decodeBody(t, rec)
			if body["error"] != "Unauthorized" {
				t.Errorf("body = %v", body)
			}
		})
	}

	// No route mutated, nothing persisted.
	route, err := c.Routes.GetRoute("1")
	if err != nil {
		t.Fatalf("GetRoute: %v", err)
	}
	if route.CurrentPrice != 718 {
		t.Errorf("price mutated to %d by rejected requests", route.CurrentPrice)
	}
	if adapter.SetCalls != writes {
		t.Errorf("persistence writes happened on rejected requests")
	}
}

func TestUpdateFlightPrice_Success(t *testing.T) {
	c, _ := newTestController(t)

	rec := doRequest(c, http.MethodPost, "/api/flights",
		`{"routeId":"1","price":695,"airline":"United"}`,
		map[string]string{"Authorization": "Bearer " + testAPIKey})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	change, ok := body["route"].(map[string]interface{})
	if !ok {
		t.Fatalf("route = %v", body["route"])
	}
	if change["oldPrice"] != float64(718) || change["newPrice"] != float64(695) {
		t.Errorf("change = %v", change)
	}
	if change["trend"] != "down" {
		t.Errorf("trend = %v, want down", change["trend"])
	}

	route, _ := c.Routes.GetRoute("1")
	if route.Airline != "United" {
		t.Errorf("airline patch not applied: %s", route.Airline)
	}
}

func TestUpdateFlightPrice_UnknownRoute(t *testing.T) {
	c, _ := newTestController(t)

	rec := doRequest(c, http.MethodPost, "/api/flights",
		`{"routeId":"99","price":500}`,
		map[string]string{"Authorization": "Bearer " + testAPIKey})

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateFlightPrice_InvalidPrice(t *testing.T) {
	c, _ := newTestController(t)

	rec := doRequest(c, http.MethodPost, "/api/flights",
		`{"routeId":"1","price":0}`,
		map[string]string{"Authorization": "Bearer " + testAPIKey})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAlertLifecycleOverHTTP(t *testing.T) {
	c, _ := newTestController(t)
	auth := map[string]string{"Authorization": "Bearer " + testAPIKey}

	// Arm an alert below the current price.
	rec := doRequest(c, http.MethodPost, "/api/alerts", `{"routeId":"1","targetPrice":700}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("set alert status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["success"] != true {
		t.Fatalf("set alert body = %v", body)
	}

	// Listing shows one armed, near-threshold alert (718 <= 700*1.10).
	rec = doRequest(c, http.MethodGet, "/api/alerts", "", nil)
	body := decodeBody(t, rec)
	alerts, _ := body["alerts"].([]interface{})
	if len(alerts) != 1 {
		t.Fatalf("alerts = %v", body)
	}
	first := alerts[0].(map[string]interface{})
	if first["triggered"] != false || first["nearThreshold"] != true {
		t.Errorf("alert view = %v", first)
	}

	// A price drop through the API fires the alert via the subscription
	// wired by the caller; here we evaluate explicitly.
	rec = doRequest(c, http.MethodPost, "/api/flights", `{"routeId":"1","price":695}`, auth)
	if rec.Code != http.StatusOK {
		t.Fatalf("price update status = %d", rec.Code)
	}
	fired := c.Evaluator.Evaluate(context.Background(), c.Routes.ListRoutes())
	if len(fired) != 1 {
		t.Fatalf("fired = %v", fired)
	}

	// Delete clears everything for the route.
	rec = doRequest(c, http.MethodDelete, "/api/alerts/1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doRequest(c, http.MethodDelete, "/api/alerts/1", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestSetAlert_UnknownRoute(t *testing.T) {
	c, _ := newTestController(t)

	rec := doRequest(c, http.MethodPost, "/api/alerts", `{"routeId":"nope","targetPrice":500}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSetAlert_NonPositiveTarget(t *testing.T) {
	c, _ := newTestController(t)

	rec := doRequest(c, http.MethodPost, "/api/alerts", `{"routeId":"1","targetPrice":0}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["success"] != false {
		t.Errorf("body = %v, want success false", body)
	}
}

func TestProjectEndpoints(t *testing.T) {
	c, _ := newTestController(t)

	rec := doRequest(c, http.MethodGet, "/api/projects", "", nil)
	body := decodeBody(t, rec)
	if body["initialized"] != true {
		t.Errorf("initialized = %v", body["initialized"])
	}

	// PATCH with missing updates is rejected.
	rec = doRequest(c, http.MethodPatch, "/api/projects", `{"id":"1"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("patch without updates status = %d, want 400", rec.Code)
	}

	rec = doRequest(c, http.MethodPatch, "/api/projects", `{"id":"2","updates":{"status":"live"}}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body = decodeBody(t, rec)
	project, _ := body["project"].(map[string]interface{})
	if project["status"] != "live" {
		t.Errorf("patched project = %v", project)
	}

	rec = doRequest(c, http.MethodPatch, "/api/projects", `{"id":"404","updates":{"status":"live"}}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("patch unknown project status = %d, want 404", rec.Code)
	}

	// Replacing the list with an explicit empty array is allowed; a body
	// without the projects key is not.
	rec = doRequest(c, http.MethodPost, "/api/projects", `{"projects":[]}`, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("replace-all status = %d", rec.Code)
	}
	rec = doRequest(c, http.MethodPost, "/api/projects", `{}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("replace-all without list status = %d, want 400", rec.Code)
	}
}

func TestGetHealth(t *testing.T) {
	c, adapter := newTestController(t)

	rec := doRequest(c, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "connected" {
		t.Errorf("body = %v", body)
	}

	adapter.FailPings = true
	rec = doRequest(c, http.MethodGet, "/api/health", "", nil)
	if body := decodeBody(t, rec); body["status"] != "error" {
		t.Errorf("body after ping failure = %v", body)
	}
}

func TestAlertViewSerialization(t *testing.T) {
	view := alertView{
		PriceAlert:    models.PriceAlert{ID: "a1", RouteID: "1", TargetPrice: 700},
		NearThreshold: true,
	}
	blob, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(blob, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["nearThreshold"] != true || out["routeId"] != "1" {
		t.Errorf("serialized view = %v", out)
	}
}
