package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LavaJover/shvark-ipo-ledger/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-ipo-ledger/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-ipo-ledger/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

const company = "company-1"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Field   string          `json:"field"`
	Row     int             `json:"row"`
	Column  string          `json:"column"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	return New(Handlers{
		Allocation: handlers.NewAllocationHandler(usecase.NewDefaultAllocationUsecase(store, nil, nil, nil)),
		Ingest:     handlers.NewIngestHandler(usecase.NewDefaultIngestUsecase(store, nil, nil, nil)),
		Status:     handlers.NewStatusHandler(usecase.NewDefaultStatusUsecase(store, nil)),
		Archive:    handlers.NewArchiveHandler(usecase.NewDefaultArchiveUsecase(store, nil, nil)),
		Billing:    handlers.NewBillingHandler(usecase.NewDefaultBillingUsecase(store, nil)),
		Payment:    handlers.NewPaymentHandler(usecase.NewDefaultPaymentUsecase(store, nil, nil)),
		Registry: handlers.NewRegistryHandler(
			usecase.NewDefaultOfferingUsecase(store),
			usecase.NewDefaultGroupUsecase(store),
			usecase.NewDefaultClientUsecase(store),
			usecase.NewDefaultRemarkUsecase(store),
		),
	}, Options{MetricsPath: "/metrics", Gatherer: prometheus.NewRegistry()})
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, envelope) {
	t.Helper()
	req.Header.Set(handlers.HeaderCompanyID, company)
	req.Header.Set(handlers.HeaderUserID, "tester")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env
}

func jsonRequest(method, path string, body any) *http.Request {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(buf))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func createID(t *testing.T, app *fiber.App, path string, body any) string {
	t.Helper()
	status, env := do(t, app, jsonRequest(http.MethodPost, path, body))
	if status != fiber.StatusCreated {
		t.Fatalf("POST %s: status %d: %s", path, status, env.Error)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil || out.ID == "" {
		t.Fatalf("POST %s: no id in %s", path, env.Data)
	}
	return out.ID
}

func TestHealthAndMetricsNeedNoCompany(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/health", "/metrics"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("%s: status %d", path, resp.StatusCode)
		}
	}
}

func TestScopeRequiresCompanyHeader(t *testing.T) {
	app := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/offerings", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestErrorMapping(t *testing.T) {
	app := newTestApp(t)
	offeringID := createID(t, app, "/api/v1/offerings", map[string]any{"name": "ACME IPO"})
	groupID := createID(t, app, "/api/v1/groups", map[string]any{"name": "Alpha"})

	status, env := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/orders/masters/missing", nil))
	if status != fiber.StatusNotFound {
		t.Fatalf("missing master: expected 404, got %d", status)
	}

	status, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/groups", map[string]any{"name": "alpha"}))
	if status != fiber.StatusConflict {
		t.Fatalf("duplicate group: expected 409, got %d (%s)", status, env.Error)
	}

	status, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/orders", map[string]any{
		"offering_id": offeringID,
		"group_id":    groupID,
		"lines":       []map[string]any{{"direction": "BUY", "category": "Kostak", "investor": "Retail", "quantity": 0, "rate": "10"}},
	}))
	if status != fiber.StatusBadRequest || env.Field != "quantity" {
		t.Fatalf("zero quantity: expected 400 on quantity, got %d %+v", status, env)
	}

	status, env = do(t, app, jsonRequest(http.MethodPost, "/api/v1/payments/transfer", map[string]any{
		"leg1":   map[string]any{"group_id": groupID, "offering_id": offeringID, "amount_type": "CREDIT"},
		"leg2":   map[string]any{"group_id": groupID, "offering_id": offeringID, "amount_type": "CREDIT"},
		"amount": "100",
	}))
	if status != fiber.StatusConflict {
		t.Fatalf("same-direction transfer: expected 409, got %d (%s)", status, env.Error)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBufferString("{"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if status, env = do(t, app, req); status != fiber.StatusBadRequest || env.Field != "body" {
		t.Fatalf("malformed body: expected 400 on body, got %d %+v", status, env)
	}
}

func multipartUpload(t *testing.T, path, csv string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "orders.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = part.Write([]byte(csv))
	_ = w.Close()
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestUploadThenStatusAndArchive(t *testing.T) {
	app := newTestApp(t)
	offeringID := createID(t, app, "/api/v1/offerings", map[string]any{"name": "ACME IPO"})
	base := "/api/v1/offerings/" + offeringID

	bad := "Group,OrderType,Category,Investor,Quantity,Rate,Strike,Date,Time,Remark\n" +
		"Alpha,Buy,Kostak,Retail,2,100,,2024-03-14,10:00,\n" +
		"Alpha,Buy,Kostak,Whale,2,100,,2024-03-14,10:00,\n"
	status, env := do(t, app, multipartUpload(t, base+"/orders/upload", bad))
	if status != fiber.StatusUnprocessableEntity || env.Row != 2 || env.Column != "Investor" {
		t.Fatalf("bad upload: expected 422 at row 2 Investor, got %d %+v", status, env)
	}

	good := "Group,OrderType,Category,Investor,Quantity,Rate,Strike,Date,Time,Remark\n" +
		"Alpha,Buy,Kostak,Retail,5,100,,2024-03-14,10:00,first\n" +
		"Beta,Sell,Kostak,Retail,2,110,,2024-03-14,10:05,\n"
	status, env = do(t, app, multipartUpload(t, base+"/orders/upload", good))
	if status != fiber.StatusCreated {
		t.Fatalf("good upload: status %d (%s)", status, env.Error)
	}

	status, env = do(t, app, httptest.NewRequest(http.MethodGet, base+"/status", nil))
	if status != fiber.StatusOK {
		t.Fatalf("status: %d (%s)", status, env.Error)
	}
	var summary struct {
		Kostak map[string]struct {
			Net struct {
				Count int64 `json:"count"`
			} `json:"net"`
		} `json:"kostak"`
	}
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if got := summary.Kostak["Retail"].Net.Count; got != 3 {
		t.Fatalf("expected retail net 3, got %d", got)
	}

	status, env = do(t, app, httptest.NewRequest(http.MethodDelete, base+"/orders", nil))
	if status != fiber.StatusOK {
		t.Fatalf("archive: %d (%s)", status, env.Error)
	}
	status, _ = do(t, app, httptest.NewRequest(http.MethodDelete, base+"/orders", nil))
	if status != fiber.StatusBadRequest {
		t.Fatalf("second archive: expected 400, got %d", status)
	}
}
