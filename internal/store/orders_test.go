package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/skpot/biryani-console/internal/api"
	"github.com/skpot/biryani-console/internal/domain/order"
	"github.com/skpot/biryani-console/internal/events"
)

const ordersFixture = `[
	{"_id":"o1","status":"placed","customer":{"name":"Anita Desai"},"total":504},
	{"_id":"o2","status":"cancelled","customer":{"name":"Vikram Rao"},"total":570},
	{"_id":"o3","status":"accepted","customer":{"name":"Meera Nair"},"total":252}
]`

func newOrderStore(t *testing.T, handler http.Handler) (*OrderStore, *atomic.Int64) {
	t.Helper()
	var actionCalls atomic.Int64
	wrapped := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			actionCalls.Add(1)
		}
		handler.ServeHTTP(w, r)
	})
	server := httptest.NewServer(wrapped)
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL, events.NewHub())
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return NewOrderStore(client, nil, nil), &actionCalls
}

func TestOrderStore_AcceptCancelledRejectedWithoutNetworkCall(t *testing.T) {
	store, actionCalls := newOrderStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ordersFixture))
	}))

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		t.Fatal(err)
	}

	_, err := store.Accept(ctx, "o2")
	if err == nil {
		t.Fatal("Accept() on a cancelled order succeeded")
	}
	var invalid *order.ErrInvalidTransition
	if !errors.As(err, &invalid) {
		t.Errorf("error = %v, want ErrInvalidTransition", err)
	}
	if actionCalls.Load() != 0 {
		t.Errorf("action calls = %d, want 0 (refused locally)", actionCalls.Load())
	}
	if store.Err() == nil {
		t.Error("Err() = nil, want recorded rejection")
	}
}

func TestOrderStore_AcceptPlacedIssuesExactlyOneCall(t *testing.T) {
	store, actionCalls := newOrderStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(ordersFixture))
			return
		}
		if !strings.HasSuffix(r.URL.Path, "/orders/o1/accept") {
			t.Errorf("path = %s, want /orders/o1/accept", r.URL.Path)
		}
		w.Write([]byte(`{"_id":"o1","status":"accepted","customer":{"name":"Anita Desai"},"total":504}`))
	}))

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		t.Fatal(err)
	}

	updated, err := store.Accept(ctx, "o1")
	if err != nil {
		t.Fatalf("Accept() error: %v", err)
	}
	if updated.Status != order.StatusAccepted {
		t.Errorf("status = %s, want accepted", updated.Status)
	}
	if actionCalls.Load() != 1 {
		t.Errorf("action calls = %d, want exactly 1", actionCalls.Load())
	}

	local, _ := store.Order("o1")
	if local.Status != order.StatusAccepted {
		t.Errorf("local status = %s, want reconciled accepted", local.Status)
	}
	other, _ := store.Order("o3")
	if other.Status != order.StatusAccepted {
		t.Errorf("o3 status = %s, want untouched accepted", other.Status)
	}
}

func TestOrderStore_AssignRequiresAcceptedStatus(t *testing.T) {
	store, actionCalls := newOrderStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(ordersFixture))
			return
		}
		w.Write([]byte(`{"_id":"o3","status":"assigned","assignedPartner":"p1"}`))
	}))

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		t.Fatal(err)
	}

	// Placed order: refused locally.
	if _, err := store.Assign(ctx, "o1", "p1"); err == nil {
		t.Error("Assign() on a placed order succeeded")
	}
	if actionCalls.Load() != 0 {
		t.Errorf("action calls = %d, want 0", actionCalls.Load())
	}

	// Accepted order: dispatched.
	updated, err := store.Assign(ctx, "o3", "p1")
	if err != nil {
		t.Fatalf("Assign() error: %v", err)
	}
	if updated.Status != order.StatusAssigned || updated.AssignedPartner != "p1" {
		t.Errorf("updated = %+v, want assigned to p1", updated)
	}
}

func TestOrderStore_ServerRejectionPassesMessageThrough(t *testing.T) {
	store, _ := newOrderStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(ordersFixture))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"order already handled by another operator"}`))
	}))

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Accept(ctx, "o1"); err == nil {
		t.Fatal("Accept() expected server rejection")
	}
	if got := store.Err().Error(); got != "order already handled by another operator" {
		t.Errorf("Err() = %q, want verbatim server message", got)
	}
	local, _ := store.Order("o1")
	if local.Status != order.StatusPlaced {
		t.Errorf("local status = %s, want untouched placed", local.Status)
	}
}
