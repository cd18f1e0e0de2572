package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"garrison/internal/access"
)

// newTestClient builds a client already logged in with the given role,
// pointed at srv.
func newTestClient(t *testing.T, srv *httptest.Server, role access.Role) *Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	session := fmt.Sprintf(`{"user":{"id":"u-1","name":"Reyes","email":"reyes@example.com","role":%q},"token":"tok-123"}`, role)
	if err := os.WriteFile(path, []byte(session), 0o600); err != nil {
		t.Fatal(err)
	}
	c := NewWithHTTPClient(srv.URL, path, srv.Client())
	if c.Sessions.Restore() == nil {
		t.Fatal("could not restore test session")
	}
	return c
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestAuthorizeConsultsPolicy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("authorization must not touch the network")
	}))
	defer srv.Close()

	c := newTestClient(t, srv, access.RoleLogistics)
	if err := c.Authorize(access.ResourcePurchases); err != nil {
		t.Fatalf("logistics should reach purchases: %v", err)
	}

	err := c.Authorize(access.ResourceUsers)
	var denied *AccessDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}
	if denied.Role != access.RoleLogistics || denied.Resource != access.ResourceUsers {
		t.Fatalf("denial names the wrong pair: %+v", denied)
	}

	// A denied mutation never leaves the client.
	if err := c.CreateUser(context.Background(), UserInput{Role: "admin"}); !errors.As(err, &denied) {
		t.Fatalf("expected AccessDeniedError from CreateUser, got %v", err)
	}
}

func TestIndexLoadAllAndByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/asset/get-all" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Fatalf("missing bearer token, got %q", got)
		}
		writeJSON(w, []map[string]interface{}{
			{"id": "a-1", "name": "Rifle", "type": "weapon", "total_qty": 100},
			{"id": "a-2", "name": "Radio", "type": "equipment", "total_qty": 40},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, access.RoleAdmin)
	ctx := context.Background()

	if err := c.Index.LoadAll(ctx, KindAssets); err != nil {
		t.Fatalf("loadAll: %v", err)
	}
	if got := len(c.Index.All(KindAssets)); got != 2 {
		t.Fatalf("expected 2 assets, got %d", got)
	}
	if _, ok := c.Index.ByID(KindAssets, "a-2"); !ok {
		t.Fatal("a-2 not resolvable by id")
	}
	if _, ok := c.Index.ByID(KindAssets, "missing"); ok {
		t.Fatal("unknown id resolved")
	}

	// Reload is idempotent: same data, no duplicates.
	if err := c.Index.LoadAll(ctx, KindAssets); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := len(c.Index.All(KindAssets)); got != 2 {
		t.Fatalf("expected 2 assets after reload, got %d", got)
	}
}

func TestIndexFailedReloadKeepsPreviousSlice(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			// Abort the connection so the client sees a transport error.
			panic(http.ErrAbortHandler)
		}
		writeJSON(w, []map[string]interface{}{
			{"id": "a-1", "name": "Rifle"},
			{"id": "a-2", "name": "Radio"},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, access.RoleAdmin)
	ctx := context.Background()

	if err := c.Index.LoadAll(ctx, KindAssets); err != nil {
		t.Fatalf("initial load: %v", err)
	}

	fail = true
	err := c.Index.LoadAll(ctx, KindAssets)
	if !IsNetwork(err) {
		t.Fatalf("expected network FetchError, got %v", err)
	}
	if got := len(c.Index.All(KindAssets)); got != 2 {
		t.Fatalf("failed reload must keep the previous slice, got %d records", got)
	}
	if _, ok := c.Index.ByID(KindAssets, "a-1"); !ok {
		t.Fatal("previous records must stay resolvable after a failed reload")
	}
}

func TestIndexStaleLoadDoesNotClobberNewer(t *testing.T) {
	var (
		mu      sync.Mutex
		calls   int
		started = make(chan struct{})
		release = make(chan struct{})
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(started)
			<-release
			writeJSON(w, []map[string]interface{}{{"id": "stale"}})
			return
		}
		writeJSON(w, []map[string]interface{}{{"id": "fresh"}})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, access.RoleAdmin)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.Index.LoadAll(ctx, KindBases) }()
	<-started

	// A second load starts while the first is still in flight and wins.
	if err := c.Index.LoadAll(ctx, KindBases); err != nil {
		t.Fatalf("second load: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first load: %v", err)
	}

	if _, ok := c.Index.ByID(KindBases, "fresh"); !ok {
		t.Fatal("fresh collection missing")
	}
	if _, ok := c.Index.ByID(KindBases, "stale"); ok {
		t.Fatal("stale load overwrote the newer one")
	}
}

func TestSummarizeZeroDefaultsAndFailureKeepsPrevious(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			writeJSON(w, map[string]string{"error": "db down"})
			return
		}
		// Partial response: only two figures present.
		writeJSON(w, map[string]int64{"purchases": 40, "closing_balance": 42})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, access.RoleCommander)
	ctx := context.Background()

	summary, err := c.Ledger.Summarize(ctx)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Purchases != 40 || summary.ClosingBalance != 42 {
		t.Fatalf("unexpected figures: %+v", summary)
	}
	if summary.TransfersIn != 0 || summary.Expended != 0 {
		t.Fatalf("absent figures must default to zero: %+v", summary)
	}

	fail = true
	kept, err := c.Ledger.Summarize(ctx)
	if err == nil {
		t.Fatal("expected an error from the failing backend")
	}
	if kept.Purchases != 40 || c.Ledger.Current().Purchases != 40 {
		t.Fatal("failed refresh must keep the previous summary")
	}
}

func TestDrillDownDirections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("base_id") != "b-1" {
			t.Fatalf("drilldown missing scope base, got %q", q.Get("base_id"))
		}
		switch {
		case r.URL.Path == "/purchase/get":
			writeJSON(w, []map[string]interface{}{{"id": "p-1", "base_id": "b-1"}})
		case r.URL.Path == "/transfer/get-all" && q.Get("direction") == "in":
			writeJSON(w, []map[string]interface{}{{"id": "t-in", "to_base_id": "b-1"}})
		case r.URL.Path == "/transfer/get-all" && q.Get("direction") == "out":
			writeJSON(w, []map[string]interface{}{{"id": "t-out", "from_base_id": "b-1"}})
		default:
			t.Fatalf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, access.RoleCommander)
	c.Ledger.SetScope(Scope{BaseID: "b-1", Start: "2025-01-01", End: "2025-03-31"})
	ctx := context.Background()

	in, drillable, err := c.Ledger.DrillDown(ctx, CategoryTransfersIn)
	if err != nil || !drillable {
		t.Fatalf("transfers_in drilldown: drillable=%v err=%v", drillable, err)
	}
	out, _, err := c.Ledger.DrillDown(ctx, CategoryTransfersOut)
	if err != nil {
		t.Fatalf("transfers_out drilldown: %v", err)
	}
	if in[0]["id"] == out[0]["id"] {
		t.Fatal("in and out drilldowns must be disjoint")
	}

	purchases, _, err := c.Ledger.DrillDown(ctx, CategoryPurchases)
	if err != nil || len(purchases) != 1 {
		t.Fatalf("purchases drilldown: %v", err)
	}
}

func TestDrillDownUnmappedCategoryIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unmapped category must not reach the network")
	}))
	defer srv.Close()

	c := newTestClient(t, srv, access.RoleCommander)
	rows, drillable, err := c.Ledger.DrillDown(context.Background(), Category("opening_balance"))
	if err != nil || drillable || rows != nil {
		t.Fatalf("expected silent no-op, got rows=%v drillable=%v err=%v", rows, drillable, err)
	}
}

func TestUnauthorizedResponseForcesLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(w, map[string]string{"error": "token expired"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, access.RoleAdmin)
	err := c.Index.LoadAll(context.Background(), KindAssets)
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized FetchError, got %v", err)
	}
	if c.Sessions.Current() != nil {
		t.Fatal("rejected token must clear the session")
	}
	if len(c.Index.All(KindAssets)) != 0 {
		t.Fatal("index must be cleared on forced logout")
	}
}

func TestMutationRefreshPlan(t *testing.T) {
	var mu sync.Mutex
	hits := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		switch r.URL.Path {
		case "/purchase/create":
			w.WriteHeader(http.StatusCreated)
			writeJSON(w, map[string]interface{}{"id": "p-9", "quantity": 5})
		case "/purchase/get":
			writeJSON(w, []map[string]interface{}{{"id": "p-9"}})
		case "/asset/summary":
			writeJSON(w, map[string]int64{"purchases": 5})
		default:
			t.Fatalf("unexpected request %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, access.RoleLogistics)
	purchase, err := c.CreatePurchase(context.Background(), PurchaseInput{
		AssetID: "a-1", BaseID: "b-1", Quantity: 5, Date: "2025-06-01",
	})
	if err != nil {
		t.Fatalf("create purchase: %v", err)
	}
	if purchase.ID != "p-9" {
		t.Fatalf("unexpected purchase %+v", purchase)
	}

	mu.Lock()
	defer mu.Unlock()
	if hits["/purchase/get"] != 1 {
		t.Fatalf("purchase collection not refreshed: %v", hits)
	}
	if hits["/asset/summary"] != 1 {
		t.Fatalf("summary not refreshed: %v", hits)
	}
	if c.Ledger.Current().Purchases != 5 {
		t.Fatal("refreshed summary not installed")
	}
}

func TestFailedMutationRefreshesNothing(t *testing.T) {
	var mu sync.Mutex
	hits := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]string{"error": "asset not found"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, access.RoleLogistics)
	_, err := c.CreatePurchase(context.Background(), PurchaseInput{
		AssetID: "missing", BaseID: "b-1", Quantity: 5, Date: "2025-06-01",
	})
	if err == nil {
		t.Fatal("expected the mutation to fail")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(hits) != 1 || hits["/purchase/create"] != 1 {
		t.Fatalf("failed mutation must not trigger refreshes: %v", hits)
	}
}

func TestClientSideValidationBlocksRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid input must not reach the network")
	}))
	defer srv.Close()

	c := newTestClient(t, srv, access.RoleAdmin)
	ctx := context.Background()

	var vErr *ValidationError
	if _, err := c.CreateTransfer(ctx, TransferInput{
		AssetID: "a-1", FromBaseID: "b-1", ToBaseID: "b-1", Quantity: 3, Date: "2025-06-01",
	}); !errors.As(err, &vErr) {
		t.Fatalf("same-base transfer must fail validation, got %v", err)
	}
	if _, err := c.CreatePurchase(ctx, PurchaseInput{AssetID: "a-1", BaseID: "b-1", Quantity: 0}); !errors.As(err, &vErr) {
		t.Fatalf("zero quantity must fail validation, got %v", err)
	}
}
