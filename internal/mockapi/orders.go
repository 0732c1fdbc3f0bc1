package mockapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/skpot/biryani-console/internal/domain/order"
)

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	orders := append([]order.Order(nil), s.orders...)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, orders)
}

// orderAction applies a plain lifecycle action (accept, cancel).
func (s *Server) orderAction(action order.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		s.mu.Lock()
		defer s.mu.Unlock()
		idx, ok := s.findOrder(id)
		if !ok {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}

		next, err := order.Next(s.orders[idx].Status, action)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.orders[idx].Status = next

		writeJSON(w, http.StatusOK, s.orders[idx])
	}
}

func (s *Server) handleAssignOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var payload struct {
		PartnerID string `json:"partnerId"`
	}
	if err := decodeJSON(r, &payload); err != nil || payload.PartnerID == "" {
		writeError(w, http.StatusBadRequest, "partnerId is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findPartner(payload.PartnerID); !ok {
		writeError(w, http.StatusBadRequest, "partner not found")
		return
	}
	idx, ok := s.findOrder(id)
	if !ok {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	next, err := order.Next(s.orders[idx].Status, order.ActionAssign)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.orders[idx].Status = next
	s.orders[idx].AssignedPartner = payload.PartnerID

	writeJSON(w, http.StatusOK, s.orders[idx])
}
