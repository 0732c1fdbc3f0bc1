package store

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/skpot/biryani-console/internal/api"
	"github.com/skpot/biryani-console/internal/domain/partner"
	"github.com/skpot/biryani-console/internal/metrics"
)

// PartnerStore projects the delivery partner collection.
type PartnerStore struct {
	lifecycle
	client  *api.Client
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	items   collection[partner.Partner]
}

// NewPartnerStore creates an empty partner store backed by client.
func NewPartnerStore(client *api.Client, log logrus.FieldLogger, m *metrics.Metrics) *PartnerStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PartnerStore{
		client:  client,
		log:     log.WithField("store", "partners"),
		metrics: m,
	}
}

// Partners returns the ordered snapshot.
func (s *PartnerStore) Partners() []partner.Partner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.snapshot()
}

// Partner looks up a partner in the local projection. Order views use it to
// resolve the weak assignedPartner reference; a miss renders as unassigned.
func (s *PartnerStore) Partner(id string) (partner.Partner, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.get(id)
}

// FetchAll replaces the collection with the server's partner list.
func (s *PartnerStore) FetchAll(ctx context.Context) error {
	s.begin()
	payload, err := s.client.Do(ctx, http.MethodGet, "/partners", nil)
	if err != nil {
		return s.finish("fetch_all", "failed to fetch partners", err)
	}
	var partners []partner.Partner
	if err := json.Unmarshal(payload, &partners); err != nil {
		return s.finish("fetch_all", "failed to fetch partners", err)
	}

	s.mu.Lock()
	s.items.setAll(partners)
	s.loading = false
	s.mu.Unlock()
	s.metrics.RecordStoreOp("partners", "fetch_all", nil)
	return nil
}

// Create registers a new partner and appends the server-assigned entity.
func (s *PartnerStore) Create(ctx context.Context, input partner.Input) (partner.Partner, error) {
	s.begin()
	payload, err := s.client.Do(ctx, http.MethodPost, "/partners", input)
	if err != nil {
		return partner.Partner{}, s.finish("create", "failed to add partner", err)
	}
	var created partner.Partner
	if err := json.Unmarshal(payload, &created); err != nil {
		return partner.Partner{}, s.finish("create", "failed to add partner", err)
	}

	s.mu.Lock()
	s.items.upsert(created)
	s.loading = false
	s.mu.Unlock()
	s.metrics.RecordStoreOp("partners", "create", nil)
	return created, nil
}

// Update replaces the matching partner with the server-returned state.
func (s *PartnerStore) Update(ctx context.Context, id string, input partner.Input) (partner.Partner, error) {
	s.begin()
	payload, err := s.client.Do(ctx, http.MethodPut, "/partners/"+id, input)
	if err != nil {
		return partner.Partner{}, s.finish("update", "failed to update partner", err)
	}
	var updated partner.Partner
	if err := json.Unmarshal(payload, &updated); err != nil {
		return partner.Partner{}, s.finish("update", "failed to update partner", err)
	}

	s.mu.Lock()
	s.items.replace(updated)
	s.loading = false
	s.mu.Unlock()
	s.metrics.RecordStoreOp("partners", "update", nil)
	return updated, nil
}

// Remove deletes the partner and filters it out of the collection. Orders
// referencing the partner keep their dangling reference by design.
func (s *PartnerStore) Remove(ctx context.Context, id string) error {
	s.begin()
	if _, err := s.client.Do(ctx, http.MethodDelete, "/partners/"+id, nil); err != nil {
		return s.finish("remove", "failed to delete partner", err)
	}

	s.mu.Lock()
	s.items.remove(id)
	s.loading = false
	s.mu.Unlock()
	s.metrics.RecordStoreOp("partners", "remove", nil)
	return nil
}

func (s *PartnerStore) finish(op, fallback string, err error) error {
	s.metrics.RecordStoreOp("partners", op, err)
	s.log.WithField("operation", op).WithError(err).Warn("partner operation failed")
	return s.fail(fallback, err)
}
