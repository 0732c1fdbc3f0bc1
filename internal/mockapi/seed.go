package mockapi

import (
	"time"

	"github.com/google/uuid"

	"github.com/skpot/biryani-console/internal/domain/food"
	"github.com/skpot/biryani-console/internal/domain/order"
	"github.com/skpot/biryani-console/internal/domain/partner"
)

// Seed loads a small demo catalog, a partner roster, and orders in assorted
// lifecycle states.
func (s *Server) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	p1 := partner.Partner{ID: uuid.New().String(), Name: "Ravi Kumar", Phone: "+919812340001", VehicleInfo: "Honda Activa KA-01-AB-1234", Status: partner.StatusActive}
	p2 := partner.Partner{ID: uuid.New().String(), Name: "Sameer Shaikh", Phone: "+919812340002", VehicleInfo: "Bajaj Pulsar KA-05-XY-5678", Status: partner.StatusInactive}
	s.partners = append(s.partners, p1, p2)

	s.foods = append(s.foods,
		food.Item{ID: uuid.New().String(), Title: "Chicken Biryani", Description: "Dum-cooked with saffron rice", Price: 280, Discount: 10, StockQty: 25, InStock: true},
		food.Item{ID: uuid.New().String(), Title: "Mutton Biryani", Description: "Slow-cooked mutton, basmati rice", Price: 380, StockQty: 12, InStock: true},
		food.Item{ID: uuid.New().String(), Title: "Veg Biryani", Description: "Seasonal vegetables, mint raita", Price: 200, Discount: 5, StockQty: 0, InStock: false},
	)

	now := time.Now().UTC()
	s.orders = append(s.orders,
		order.Order{
			ID:        uuid.New().String(),
			Customer:  order.Customer{Name: "Anita Desai", Phone: "+919800000001", Address: "12 MG Road, Bengaluru"},
			Items:     []order.LineItem{{Title: "Chicken Biryani", Qty: 2}},
			Total:     504,
			Status:    order.StatusPlaced,
			CreatedAt: now.Add(-10 * time.Minute),
		},
		order.Order{
			ID:        uuid.New().String(),
			Customer:  order.Customer{Name: "Vikram Rao", Phone: "+919800000002", Address: "48 Residency Road, Bengaluru"},
			Items:     []order.LineItem{{Title: "Mutton Biryani", Qty: 1}, {Title: "Veg Biryani", Qty: 1}},
			Total:     570,
			Status:    order.StatusAccepted,
			CreatedAt: now.Add(-45 * time.Minute),
		},
		order.Order{
			ID:              uuid.New().String(),
			Customer:        order.Customer{Name: "Meera Nair", Phone: "+919800000003", Address: "7 Brigade Road, Bengaluru"},
			Items:           []order.LineItem{{Title: "Chicken Biryani", Qty: 1}},
			Total:           252,
			Status:          order.StatusAssigned,
			AssignedPartner: p1.ID,
			CreatedAt:       now.Add(-2 * time.Hour),
		},
	)
}
