package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AutomationAlchemyst/balangconnect/internal/cart"
	"github.com/AutomationAlchemyst/balangconnect/internal/catalog"
	"github.com/AutomationAlchemyst/balangconnect/internal/checkout"
	domain "github.com/AutomationAlchemyst/balangconnect/internal/entity"
	"github.com/AutomationAlchemyst/balangconnect/internal/pricing"
	"github.com/AutomationAlchemyst/balangconnect/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memOrderRepo struct {
	rows map[string]*usecase.OrderRecord
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{rows: map[string]*usecase.OrderRecord{}}
}

func (m *memOrderRepo) Create(_ context.Context, o *usecase.OrderRecord) error {
	m.rows[o.ID] = o
	return nil
}

func (m *memOrderRepo) GetByID(_ context.Context, id string) (*usecase.OrderRecord, error) {
	if o, ok := m.rows[id]; ok {
		return o, nil
	}
	return nil, errNoRow
}

func (m *memOrderRepo) GetByIdemKey(_ context.Context, key string) (*usecase.OrderRecord, error) {
	for _, o := range m.rows {
		if o.IdempotencyKey == key {
			return o, nil
		}
	}
	return nil, errNoRow
}

var errNoRow = errors.New("no row")

type memIdem struct {
	locked map[string]bool
	known  map[string]string
}

func newMemIdem() *memIdem {
	return &memIdem{locked: map[string]bool{}, known: map[string]string{}}
}

func (m *memIdem) TryLock(_ context.Context, scope, key string) (bool, error) {
	k := scope + ":" + key
	if m.locked[k] {
		return false, nil
	}
	m.locked[k] = true
	return true, nil
}

func (m *memIdem) Remember(_ context.Context, scope, key, value string) error {
	m.known[scope+":"+key] = value
	return nil
}

func (m *memIdem) Recall(_ context.Context, scope, key string) (string, bool, error) {
	v, ok := m.known[scope+":"+key]
	return v, ok, nil
}

type noopQueue struct{}

func (noopQueue) PublishCreated(context.Context, usecase.OrderCreatedMsg) error { return nil }

func contentStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/drinks", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"id":"d1","name":"Teh Tarik","pricePerBalang":27.5,"category":"Milk Base"}]`))
	})
	mux.HandleFunc("/packages", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"id":"p1","name":"Small","price":200,"flavorLimit":2}]`))
	})
	mux.HandleFunc("/addons", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"id":"a1","name":"Additional 1 x 23L Balang","price":50,"hasQuantity":true}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newTestServer stands up the full router over in-memory intake ports. The
// checkout pipeline posts back to this same server's intake endpoint, so the
// storefront-to-intake hop crosses real HTTP like it does in production.
func newTestServer(t *testing.T) (*httptest.Server, *memOrderRepo, *CartHandler) {
	t.Helper()

	repo := newMemOrderRepo()
	createUC := usecase.NewCreateOrder(repo, newMemIdem(), noopQueue{})
	oh := NewOrderHandler(createUC, repo)

	catSvc := catalog.NewService(catalog.NewClient(contentStub(t).URL, 0), nil, slog.Default())
	if err := catSvc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	ch := NewCartHandler(cart.NewSessions(), nil, catSvc, pricing.OverflowMerge)
	srv := httptest.NewServer(NewRouter(oh, ch, NewCatalogHandler(catSvc)))
	t.Cleanup(srv.Close)

	// the intake URL is only known once the server is listening
	ch.pipelines = checkout.NewPipelines(checkout.NewClient(srv.URL+"/v1/orders", 0))
	return srv, repo, ch
}

func TestOrderIntakeEndpoint(t *testing.T) {
	srv, repo, _ := newTestServer(t)

	payload := `{"package":{"name":"Small","priceCents":20000},"flavors":[{"name":"Teh Tarik","quantity":2}],"addons":[],"totalCents":20000}`

	submit := func() (int, string) {
		req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/orders", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Idempotency-Key", "tok-1")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var body struct {
			Success bool   `json:"success"`
			OrderID string `json:"orderId"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if !body.Success || body.OrderID == "" {
			t.Fatalf("body = %+v", body)
		}
		return resp.StatusCode, body.OrderID
	}

	code, id := submit()
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if _, ok := repo.rows[id]; !ok {
		t.Error("order not persisted")
	}

	// replay with the same token returns the same order, no second row
	if _, id2 := submit(); id2 != id {
		t.Errorf("replay created a new order: %q vs %q", id2, id)
	}
	if len(repo.rows) != 1 {
		t.Errorf("rows = %d, want 1", len(repo.rows))
	}
}

func TestOrderIntakeRejectsZeroTotal(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/orders", "application/json",
		strings.NewReader(`{"flavors":[],"addons":[],"totalCents":0}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCartFlowThroughCheckout(t *testing.T) {
	srv, repo, _ := newTestServer(t)
	const session = "sess-1"

	send := func(method, path, body string) *http.Response {
		t.Helper()
		req, _ := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("X-Session-Id", session)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	// checkout before the booking is ready gets the typed rejection
	resp := send(http.MethodPost, "/v1/cart/checkout", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("premature checkout status = %d, want 422", resp.StatusCode)
	}

	resp = send(http.MethodPut, "/v1/cart/package", `{"packageId":"p1"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("select package status = %d", resp.StatusCode)
	}
	for i := 0; i < 2; i++ {
		resp = send(http.MethodPost, "/v1/cart/drinks", `{"drinkId":"d1"}`)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add drink status = %d", resp.StatusCode)
		}
	}

	resp = send(http.MethodPost, "/v1/cart/checkout", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("checkout status = %d, want 200", resp.StatusCode)
	}
	var out struct {
		Status  string `json:"status"`
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != string(checkout.StatusSuccess) || out.OrderID == "" {
		t.Fatalf("checkout response = %+v", out)
	}
	rec, ok := repo.rows[out.OrderID]
	if !ok {
		t.Fatal("checkout order not persisted")
	}
	if rec.TotalCents != 20000 {
		t.Errorf("TotalCents = %d, want 20000", rec.TotalCents)
	}

	// status endpoint reflects the settled pipeline
	resp = send(http.MethodGet, "/v1/cart/checkout", "")
	defer resp.Body.Close()
	var st checkout.State
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Status != checkout.StatusSuccess || st.OrderID != out.OrderID {
		t.Errorf("pipeline state = %+v", st)
	}
}

func TestGetOrderByID(t *testing.T) {
	srv, _, _ := newTestServer(t)

	payload := `{"package":{"name":"Small","priceCents":20000},"flavors":[{"name":"Teh Tarik","quantity":2}],"addons":[],"totalCents":20000}`
	resp, err := http.Post(srv.URL+"/v1/orders", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	var created struct {
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/v1/orders/" + created.OrderID)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var ord domain.Order
	if err := json.NewDecoder(resp.Body).Decode(&ord); err != nil {
		t.Fatal(err)
	}
	if ord.ID != created.OrderID {
		t.Errorf("ID = %q, want %q", ord.ID, created.OrderID)
	}
	if ord.Status != domain.StatusPendingPayment {
		t.Errorf("Status = %q, want %q", ord.Status, domain.StatusPendingPayment)
	}
	if ord.Payload.TotalCents != 20000 {
		t.Errorf("Payload.TotalCents = %d, want 20000", ord.Payload.TotalCents)
	}

	resp, err = http.Get(srv.URL + "/v1/orders/no-such-order")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", resp.StatusCode)
	}
}

// A readiness rejection must report the pipeline's actual state, not assume
// idle: after a failed attempt the pipeline sits in error, and an intervening
// cart edit that drops readiness should not mask that.
func TestNotReadyCheckoutReportsCurrentState(t *testing.T) {
	srv, _, ch := newTestServer(t)
	const session = "sess-err"

	send := func(method, path, body string) *http.Response {
		t.Helper()
		req, _ := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("X-Session-Id", session)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	// unreachable intake so the first attempt lands in error
	ch.pipelines = checkout.NewPipelines(checkout.NewClient("http://127.0.0.1:1/orders", 0))

	resp := send(http.MethodPut, "/v1/cart/package", `{"packageId":"p1"}`)
	resp.Body.Close()
	for i := 0; i < 2; i++ {
		resp = send(http.MethodPost, "/v1/cart/drinks", `{"drinkId":"d1"}`)
		resp.Body.Close()
	}

	resp = send(http.MethodPost, "/v1/cart/checkout", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("failed checkout status = %d, want 502", resp.StatusCode)
	}

	// drop below the flavor limit, then try again
	resp = send(http.MethodDelete, "/v1/cart/drinks/d1", "")
	resp.Body.Close()

	resp = send(http.MethodPost, "/v1/cart/checkout", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("not-ready checkout status = %d, want 422", resp.StatusCode)
	}
	var out struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Status != string(checkout.StatusError) {
		t.Errorf("reported status = %q, want %q", out.Status, checkout.StatusError)
	}
}

func TestAddUnknownDrink(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.Post(srv.URL+"/v1/cart/drinks", "application/json",
		strings.NewReader(`{"drinkId":"nope"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)

	// each list rides under its own envelope key
	tests := []struct {
		path string
		key  string
	}{
		{"/v1/catalog/drinks", "drinks"},
		{"/v1/catalog/packages", "packages"},
		{"/v1/catalog/addons", "addons"},
	}
	for _, tt := range tests {
		resp, err := http.Get(srv.URL + tt.path)
		if err != nil {
			t.Fatal(err)
		}
		var body map[string][]json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("%s: %v", tt.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || len(body[tt.key]) != 1 {
			t.Errorf("%s: status = %d, %s = %d items", tt.path, resp.StatusCode, tt.key, len(body[tt.key]))
		}
	}
}
