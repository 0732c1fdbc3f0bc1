package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skpot/biryani-console/internal/api"
	"github.com/skpot/biryani-console/internal/domain/partner"
	"github.com/skpot/biryani-console/internal/events"
)

func newPartnerStore(t *testing.T, handler http.Handler) *PartnerStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL, events.NewHub())
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return NewPartnerStore(client, nil, nil)
}

func TestPartnerStore_CreateAppends(t *testing.T) {
	store := newPartnerStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"_id":"p1","name":"Ravi Kumar","phone":"+919812340001","status":"active"}`))
	}))

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		t.Fatal(err)
	}

	created, err := store.Create(ctx, partner.Input{Name: "Ravi Kumar", Phone: "+919812340001"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if created.ID != "p1" {
		t.Errorf("ID = %s, want server-assigned p1", created.ID)
	}
	if len(store.Partners()) != 1 {
		t.Errorf("len = %d, want 1", len(store.Partners()))
	}
}

func TestPartnerStore_RemoveTransportFailureKeepsEntity(t *testing.T) {
	listed := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		listed = true
		w.Write([]byte(`[{"_id":"p1","name":"Ravi Kumar","status":"active"}]`))
	}))
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL, events.NewHub())
	if err != nil {
		t.Fatal(err)
	}
	store := NewPartnerStore(client, nil, nil)

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		t.Fatal(err)
	}
	if !listed {
		t.Fatal("fetch never hit the server")
	}

	// Kill the server so the delete fails at the transport level.
	server.Close()

	if err := store.Remove(ctx, "p1"); err == nil {
		t.Fatal("Remove() expected transport error")
	}

	if _, ok := store.Partner("p1"); !ok {
		t.Error("p1 missing after failed remove, want untouched collection")
	}
	if store.Err() == nil {
		t.Error("Err() = nil, want recorded failure")
	}
	if store.Loading() {
		t.Error("Loading() stuck true after failure")
	}
	if got := store.Err().Error(); got != "failed to delete partner" {
		t.Errorf("Err() = %q, want generic fallback for transport failure", got)
	}
}

func TestPartnerStore_UpdateReplacesMatch(t *testing.T) {
	store := newPartnerStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"_id":"p1","name":"Ravi Kumar","status":"active"},{"_id":"p2","name":"Sameer Shaikh","status":"active"}]`))
			return
		}
		w.Write([]byte(`{"_id":"p1","name":"Ravi Kumar","status":"inactive"}`))
	}))

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		t.Fatal(err)
	}

	updated, err := store.Update(ctx, "p1", partner.Input{Status: partner.StatusInactive})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Status != partner.StatusInactive {
		t.Errorf("status = %s, want inactive", updated.Status)
	}

	p2, _ := store.Partner("p2")
	if p2.Status != partner.StatusActive {
		t.Errorf("p2.Status = %s, want untouched active", p2.Status)
	}
}
