package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skpot/biryani-console/internal/api"
	"github.com/skpot/biryani-console/internal/domain/food"
	"github.com/skpot/biryani-console/internal/events"
)

func newFoodStore(t *testing.T, handler http.Handler) (*FoodStore, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL, events.NewHub())
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return NewFoodStore(client, nil, nil), server
}

func TestFoodStore_FetchAllReplacesCollection(t *testing.T) {
	responses := []string{
		`[{"_id":"f1","title":"Chicken Biryani"},{"_id":"f2","title":"Veg Biryani"}]`,
		`[{"_id":"f3","title":"Mutton Biryani"}]`,
	}
	call := 0
	store, _ := newFoodStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(responses[call]))
		call++
	}))

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if err := store.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}

	items := store.Items()
	if len(items) != 1 || items[0].ID != "f3" {
		t.Errorf("items = %v, want only f3 (no stale entries)", items)
	}
	if store.Loading() {
		t.Error("Loading() = true after resolution")
	}
}

func TestFoodStore_FetchAllFailureLeavesCollection(t *testing.T) {
	fail := false
	store, _ := newFoodStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"_id":"f1","title":"Chicken Biryani"}]`))
	}))

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}

	fail = true
	if err := store.FetchAll(ctx); err == nil {
		t.Fatal("FetchAll() expected error")
	}

	if len(store.Items()) != 1 {
		t.Error("failed fetch mutated the collection")
	}
	if store.Err() == nil {
		t.Error("Err() = nil after failure")
	}
	if store.Loading() {
		t.Error("Loading() stuck true after failure")
	}
}

func TestFoodStore_FetchOneReconciles(t *testing.T) {
	store, _ := newFoodStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/food":
			w.Write([]byte(`[{"_id":"f1","title":"Chicken Biryani","stockQty":10}]`))
		case "/food/f1":
			w.Write([]byte(`{"_id":"f1","title":"Chicken Biryani","stockQty":7}`))
		case "/food/f2":
			w.Write([]byte(`{"_id":"f2","title":"Egg Biryani","stockQty":3}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		t.Fatal(err)
	}

	// Known id: the local entry is refreshed in place.
	item, err := store.FetchOne(ctx, "f1")
	if err != nil {
		t.Fatalf("FetchOne() error: %v", err)
	}
	if item.StockQty != 7 {
		t.Errorf("StockQty = %d, want server's 7", item.StockQty)
	}
	local, _ := store.Item("f1")
	if local.StockQty != 7 {
		t.Errorf("local StockQty = %d, want reconciled 7", local.StockQty)
	}

	// Unknown id: appended, never duplicated.
	if _, err := store.FetchOne(ctx, "f2"); err != nil {
		t.Fatalf("FetchOne() error: %v", err)
	}
	if len(store.Items()) != 2 {
		t.Errorf("len = %d, want 2", len(store.Items()))
	}
	if store.Loading() {
		t.Error("Loading() stuck true after resolution")
	}
}

func TestFoodStore_SetAvailabilityAppliesBothFieldsAsSent(t *testing.T) {
	store, _ := newFoodStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"_id":"f1","title":"Chicken Biryani","stockQty":5,"inStock":true}]`))
			return
		}
		if r.Method != http.MethodPatch || !strings.HasSuffix(r.URL.Path, "/f1/status") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			InStock  bool `json:"inStock"`
			StockQty int  `json:"stockQty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode status body: %v", err)
		}
		if body.InStock || body.StockQty != 5 {
			t.Errorf("body = %+v, want inStock=false stockQty=5", body)
		}
		w.Write([]byte(`{"_id":"f1","title":"Chicken Biryani","stockQty":5,"inStock":false}`))
	}))

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		t.Fatal(err)
	}

	// Out of stock while quantity stays positive: both fields travel as set.
	item, err := store.SetAvailability(ctx, "f1", false, 5)
	if err != nil {
		t.Fatalf("SetAvailability() error: %v", err)
	}
	if item.InStock || item.StockQty != 5 {
		t.Errorf("item = %+v, want inStock=false stockQty=5", item)
	}
	local, _ := store.Item("f1")
	if local.InStock || local.StockQty != 5 {
		t.Errorf("local = %+v, want inStock=false stockQty=5 reconciled", local)
	}
}

func TestFoodStore_CreateAppendsServerEntity(t *testing.T) {
	store, _ := newFoodStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"_id":"f1","title":"Chicken Biryani"}]`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"_id":"srv-9","title":"Egg Biryani"}`))
	}))

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		t.Fatal(err)
	}

	created, err := store.Create(ctx, food.Input{Title: "Egg Biryani"}, nil)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if created.ID != "srv-9" {
		t.Errorf("created.ID = %s, want server-assigned srv-9", created.ID)
	}
	if len(store.Items()) != 2 {
		t.Errorf("len = %d, want 2 after create", len(store.Items()))
	}
}

func TestFoodStore_CreateFailureLeavesLength(t *testing.T) {
	store, _ := newFoodStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"_id":"f1","title":"Chicken Biryani"}]`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"title is required"}`))
	}))

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		t.Fatal(err)
	}

	_, err := store.Create(ctx, food.Input{}, nil)
	if err == nil {
		t.Fatal("Create() expected error")
	}
	if got := store.Err().Error(); got != "title is required" {
		t.Errorf("Err() = %q, want server message", got)
	}
	if len(store.Items()) != 1 {
		t.Errorf("len = %d, want unchanged 1", len(store.Items()))
	}
}

func TestFoodStore_AdjustStockReplacesOnlyTarget(t *testing.T) {
	store, _ := newFoodStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Write([]byte(`[{"_id":"f1","title":"Chicken Biryani","stockQty":10,"inStock":true},{"_id":"f2","title":"Veg Biryani","stockQty":5,"inStock":true}]`))
		case strings.HasSuffix(r.URL.Path, "/stock-in"):
			w.Write([]byte(`{"_id":"f1","title":"Chicken Biryani","stockQty":11,"inStock":true}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		t.Fatal(err)
	}

	updated, err := store.AdjustStock(ctx, "f1", StockIncrease)
	if err != nil {
		t.Fatalf("AdjustStock() error: %v", err)
	}
	if updated.StockQty != 11 || !updated.InStock {
		t.Errorf("updated = %+v, want stockQty=11 inStock=true", updated)
	}

	f1, _ := store.Item("f1")
	f2, _ := store.Item("f2")
	if f1.StockQty != 11 {
		t.Errorf("f1.StockQty = %d, want 11", f1.StockQty)
	}
	if f2.StockQty != 5 {
		t.Errorf("f2.StockQty = %d, want untouched 5", f2.StockQty)
	}
}

func TestFoodStore_RemoveFiltersOutEntity(t *testing.T) {
	store, _ := newFoodStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"_id":"f1"},{"_id":"f2"}]`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		t.Fatal(err)
	}
	if err := store.Remove(ctx, "f1"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}

	items := store.Items()
	if len(items) != 1 || items[0].ID != "f2" {
		t.Errorf("items = %v, want only f2", items)
	}
}

func TestFoodStore_DispatchClearsPreviousError(t *testing.T) {
	fail := true
	store, _ := newFoodStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))

	ctx := context.Background()
	if err := store.FetchAll(ctx); err == nil {
		t.Fatal("expected first fetch to fail")
	}

	fail = false
	if err := store.FetchAll(ctx); err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if store.Err() != nil {
		t.Errorf("Err() = %v, want nil after successful dispatch", store.Err())
	}
}
