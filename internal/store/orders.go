package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/skpot/biryani-console/internal/api"
	"github.com/skpot/biryani-console/internal/domain/order"
	"github.com/skpot/biryani-console/internal/metrics"
)

// OrderStore projects the order collection. Lifecycle actions are checked
// against the transition table before any network call; the server remains
// the final authority and may still reject.
type OrderStore struct {
	lifecycle
	client  *api.Client
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	items   collection[order.Order]
}

// NewOrderStore creates an empty order store backed by client.
func NewOrderStore(client *api.Client, log logrus.FieldLogger, m *metrics.Metrics) *OrderStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OrderStore{
		client:  client,
		log:     log.WithField("store", "orders"),
		metrics: m,
	}
}

// Orders returns the ordered snapshot.
func (s *OrderStore) Orders() []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.snapshot()
}

// Order looks up an order in the local projection.
func (s *OrderStore) Order(id string) (order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.get(id)
}

// FetchAll replaces the collection with the server's order list.
func (s *OrderStore) FetchAll(ctx context.Context) error {
	s.begin()
	payload, err := s.client.Do(ctx, http.MethodGet, "/orders", nil)
	if err != nil {
		return s.finish("fetch_all", "failed to fetch orders", err)
	}
	var orders []order.Order
	if err := json.Unmarshal(payload, &orders); err != nil {
		return s.finish("fetch_all", "failed to fetch orders", err)
	}

	s.mu.Lock()
	s.items.setAll(orders)
	s.loading = false
	s.mu.Unlock()
	s.metrics.RecordStoreOp("orders", "fetch_all", nil)
	return nil
}

// Accept moves a placed order to accepted.
func (s *OrderStore) Accept(ctx context.Context, id string) (order.Order, error) {
	return s.transition(ctx, id, order.ActionAccept, "/accept", nil)
}

// Cancel moves a placed order to cancelled.
func (s *OrderStore) Cancel(ctx context.Context, id string) (order.Order, error) {
	return s.transition(ctx, id, order.ActionCancel, "/cancel", nil)
}

// Assign attaches a delivery partner to an accepted order.
func (s *OrderStore) Assign(ctx context.Context, id, partnerID string) (order.Order, error) {
	return s.transition(ctx, id, order.ActionAssign, "/assign", map[string]string{"partnerId": partnerID})
}

// transition validates the action locally, then dispatches it. An action the
// table forbids is refused without a network call.
func (s *OrderStore) transition(ctx context.Context, id string, action order.Action, endpoint string, body any) (order.Order, error) {
	current, ok := s.Order(id)
	if !ok {
		err := fmt.Errorf("order %s not in local collection", id)
		s.metrics.RecordStoreOp("orders", string(action), err)
		return order.Order{}, s.fail("order not found", err)
	}
	if _, err := order.Next(current.Status, action); err != nil {
		s.metrics.RecordStoreOp("orders", string(action), err)
		s.log.WithFields(logrus.Fields{
			"id":     id,
			"status": string(current.Status),
			"action": string(action),
		}).Warn("order transition refused")
		return order.Order{}, s.fail(err.Error(), err)
	}

	s.begin()
	payload, err := s.client.Do(ctx, http.MethodPost, "/orders/"+id+endpoint, body)
	if err != nil {
		return order.Order{}, s.finish(string(action), "failed to update order", err)
	}
	var updated order.Order
	if err := json.Unmarshal(payload, &updated); err != nil {
		return order.Order{}, s.finish(string(action), "failed to update order", err)
	}

	s.mu.Lock()
	s.items.replace(updated)
	s.loading = false
	s.mu.Unlock()
	s.metrics.RecordStoreOp("orders", string(action), nil)
	return updated, nil
}

func (s *OrderStore) finish(op, fallback string, err error) error {
	s.metrics.RecordStoreOp("orders", op, err)
	s.log.WithField("operation", op).WithError(err).Warn("order operation failed")
	return s.fail(fallback, err)
}
