package mockapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/skpot/biryani-console/internal/domain/partner"
)

func (s *Server) handleListPartners(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	partners := append([]partner.Partner(nil), s.partners...)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, partners)
}

func (s *Server) handleCreatePartner(w http.ResponseWriter, r *http.Request) {
	var input partner.Input
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if input.Name == "" || input.Phone == "" {
		writeError(w, http.StatusBadRequest, "name and phone are required")
		return
	}
	if input.Status == "" {
		input.Status = partner.StatusActive
	}

	created := partner.Partner{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Phone:       input.Phone,
		VehicleInfo: input.VehicleInfo,
		Status:      input.Status,
	}

	s.mu.Lock()
	s.partners = append(s.partners, created)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdatePartner(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var input partner.Input
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.findPartner(id)
	if !ok {
		writeError(w, http.StatusNotFound, "partner not found")
		return
	}

	p := s.partners[idx]
	if input.Name != "" {
		p.Name = input.Name
	}
	if input.Phone != "" {
		p.Phone = input.Phone
	}
	if input.VehicleInfo != "" {
		p.VehicleInfo = input.VehicleInfo
	}
	if input.Status != "" {
		p.Status = input.Status
	}
	s.partners[idx] = p

	writeJSON(w, http.StatusOK, p)
}

// handleDeletePartner removes the partner. Orders keep any reference to the
// deleted partner; the console renders those as unassigned.
func (s *Server) handleDeletePartner(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.findPartner(id)
	if !ok {
		writeError(w, http.StatusNotFound, "partner not found")
		return
	}
	s.partners = append(s.partners[:idx], s.partners[idx+1:]...)
	w.WriteHeader(http.StatusNoContent)
}
