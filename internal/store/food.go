package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/skpot/biryani-console/internal/api"
	"github.com/skpot/biryani-console/internal/domain/food"
	"github.com/skpot/biryani-console/internal/metrics"
)

// StockDirection selects between the stock-in and stock-out endpoints.
type StockDirection string

const (
	StockIncrease StockDirection = "increase"
	StockDecrease StockDirection = "decrease"
)

func (d StockDirection) endpoint() (string, error) {
	switch d {
	case StockIncrease:
		return "stock-in", nil
	case StockDecrease:
		return "stock-out", nil
	default:
		return "", fmt.Errorf("unknown stock direction %q", string(d))
	}
}

// FoodStore projects the catalog collection. All mutations are pessimistic:
// the collection changes only from confirmed server responses.
type FoodStore struct {
	lifecycle
	client  *api.Client
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	items   collection[food.Item]
}

// NewFoodStore creates an empty catalog store backed by client.
func NewFoodStore(client *api.Client, log logrus.FieldLogger, m *metrics.Metrics) *FoodStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FoodStore{
		client:  client,
		log:     log.WithField("store", "food"),
		metrics: m,
	}
}

// Items returns the ordered catalog snapshot.
func (s *FoodStore) Items() []food.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.snapshot()
}

// Item looks up a catalog entry in the local projection.
func (s *FoodStore) Item(id string) (food.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.get(id)
}

// FetchAll replaces the collection with the server's catalog.
func (s *FoodStore) FetchAll(ctx context.Context) error {
	s.begin()
	payload, err := s.client.Do(ctx, http.MethodGet, "/food", nil)
	if err != nil {
		return s.finish("fetch_all", "failed to fetch foods", err)
	}
	var items []food.Item
	if err := json.Unmarshal(payload, &items); err != nil {
		return s.finish("fetch_all", "failed to fetch foods", err)
	}

	s.mu.Lock()
	s.items.setAll(items)
	s.loading = false
	s.mu.Unlock()
	s.metrics.RecordStoreOp("food", "fetch_all", nil)
	return nil
}

// FetchOne loads a single catalog item, refreshing its local entry. The
// show command uses it so the operator never reads a stale list entry.
func (s *FoodStore) FetchOne(ctx context.Context, id string) (food.Item, error) {
	s.begin()
	payload, err := s.client.Do(ctx, http.MethodGet, "/food/"+id, nil)
	if err != nil {
		return food.Item{}, s.finish("fetch_one", "failed to fetch food item", err)
	}
	item, err := decodeItem(payload)
	if err != nil {
		return food.Item{}, s.finish("fetch_one", "failed to fetch food item", err)
	}

	s.reconcile(item)
	s.metrics.RecordStoreOp("food", "fetch_one", nil)
	return item, nil
}

// Create submits a new catalog item with optional images and appends the
// server-assigned entity on success.
func (s *FoodStore) Create(ctx context.Context, input food.Input, images []api.FilePart) (food.Item, error) {
	s.begin()
	payload, err := s.client.DoMultipart(ctx, http.MethodPost, "/food", input.Fields(), images)
	if err != nil {
		return food.Item{}, s.finish("create", "failed to create food item", err)
	}
	item, err := decodeItem(payload)
	if err != nil {
		return food.Item{}, s.finish("create", "failed to create food item", err)
	}

	s.reconcile(item)
	s.metrics.RecordStoreOp("food", "create", nil)
	s.log.WithField("id", item.ID).Debug("catalog item created")
	return item, nil
}

// Update replaces the matching entity with the server-returned state.
func (s *FoodStore) Update(ctx context.Context, id string, input food.Input, images []api.FilePart) (food.Item, error) {
	s.begin()
	payload, err := s.client.DoMultipart(ctx, http.MethodPut, "/food/"+id, input.Fields(), images)
	if err != nil {
		return food.Item{}, s.finish("update", "failed to update food item", err)
	}
	item, err := decodeItem(payload)
	if err != nil {
		return food.Item{}, s.finish("update", "failed to update food item", err)
	}

	s.reconcileReplace(item)
	s.metrics.RecordStoreOp("food", "update", nil)
	return item, nil
}

// AdjustStock bumps the stock count one unit in the given direction and
// replaces the entity with the server-returned state.
func (s *FoodStore) AdjustStock(ctx context.Context, id string, direction StockDirection) (food.Item, error) {
	endpoint, err := direction.endpoint()
	if err != nil {
		return food.Item{}, err
	}
	fallback := "failed to increase stock"
	if direction == StockDecrease {
		fallback = "failed to decrease stock"
	}

	s.begin()
	payload, err := s.client.Do(ctx, http.MethodPost, "/food/"+id+"/"+endpoint, nil)
	if err != nil {
		return food.Item{}, s.finish("adjust_stock", fallback, err)
	}
	item, err := decodeItem(payload)
	if err != nil {
		return food.Item{}, s.finish("adjust_stock", fallback, err)
	}

	s.reconcileReplace(item)
	s.metrics.RecordStoreOp("food", "adjust_stock", nil)
	return item, nil
}

// SetAvailability sets the in-stock flag and quantity together. The two are
// deliberately independent on the server, so both are always sent.
func (s *FoodStore) SetAvailability(ctx context.Context, id string, inStock bool, stockQty int) (food.Item, error) {
	body := map[string]any{"inStock": inStock, "stockQty": stockQty}

	s.begin()
	payload, err := s.client.Do(ctx, http.MethodPatch, "/food/"+id+"/status", body)
	if err != nil {
		return food.Item{}, s.finish("set_availability", "failed to update status", err)
	}
	item, err := decodeItem(payload)
	if err != nil {
		return food.Item{}, s.finish("set_availability", "failed to update status", err)
	}

	s.reconcileReplace(item)
	s.metrics.RecordStoreOp("food", "set_availability", nil)
	return item, nil
}

// Remove deletes the catalog item and filters it out of the collection.
func (s *FoodStore) Remove(ctx context.Context, id string) error {
	s.begin()
	if _, err := s.client.Do(ctx, http.MethodDelete, "/food/"+id, nil); err != nil {
		return s.finish("remove", "failed to delete food item", err)
	}

	s.mu.Lock()
	s.items.remove(id)
	s.loading = false
	s.mu.Unlock()
	s.metrics.RecordStoreOp("food", "remove", nil)
	return nil
}

// reconcile merges a confirmed server entity into the collection, appending
// when the id is new (create and single-item fetch paths).
func (s *FoodStore) reconcile(item food.Item) {
	s.mu.Lock()
	s.items.upsert(item)
	s.loading = false
	s.mu.Unlock()
}

// reconcileReplace swaps the matching entity only. Update-class responses for
// ids no longer in the projection are dropped rather than resurrected.
func (s *FoodStore) reconcileReplace(item food.Item) {
	s.mu.Lock()
	s.items.replace(item)
	s.loading = false
	s.mu.Unlock()
}

func (s *FoodStore) finish(op, fallback string, err error) error {
	s.metrics.RecordStoreOp("food", op, err)
	s.log.WithField("operation", op).WithError(err).Warn("catalog operation failed")
	return s.fail(fallback, err)
}

func decodeItem(payload []byte) (food.Item, error) {
	var item food.Item
	if err := json.Unmarshal(payload, &item); err != nil {
		return food.Item{}, fmt.Errorf("decode catalog item: %w", err)
	}
	return item, nil
}
