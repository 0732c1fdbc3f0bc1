package mockapi

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/skpot/biryani-console/internal/domain/food"
)

const maxUploadBytes = 16 << 20

func (s *Server) handleListFood(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	items := append([]food.Item(nil), s.foods...)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetFood(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.findFood(id)
	if !ok {
		writeError(w, http.StatusNotFound, "food item not found")
		return
	}
	writeJSON(w, http.StatusOK, s.foods[idx])
}

func (s *Server) handleCreateFood(w http.ResponseWriter, r *http.Request) {
	fields, images, err := parseFoodForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if fields.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	item := food.Item{
		ID:          uuid.New().String(),
		Title:       fields.Title,
		Description: fields.Description,
		Price:       fields.Price,
		Discount:    fields.Discount,
		StockQty:    fields.StockQty,
		InStock:     fields.StockQty > 0,
		Images:      images,
	}

	s.mu.Lock()
	s.foods = append(s.foods, item)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateFood(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	fields, images, err := parseFoodForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.findFood(id)
	if !ok {
		writeError(w, http.StatusNotFound, "food item not found")
		return
	}

	item := s.foods[idx]
	if fields.Title != "" {
		item.Title = fields.Title
	}
	if fields.Description != "" {
		item.Description = fields.Description
	}
	item.Price = fields.Price
	item.Discount = fields.Discount
	item.StockQty = fields.StockQty
	if len(images) > 0 {
		item.Images = images
	}
	s.foods[idx] = item

	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteFood(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.findFood(id)
	if !ok {
		writeError(w, http.StatusNotFound, "food item not found")
		return
	}
	s.foods = append(s.foods[:idx], s.foods[idx+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStockIn(w http.ResponseWriter, r *http.Request) {
	s.adjustStock(w, r, +1)
}

func (s *Server) handleStockOut(w http.ResponseWriter, r *http.Request) {
	s.adjustStock(w, r, -1)
}

func (s *Server) adjustStock(w http.ResponseWriter, r *http.Request, delta int) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.findFood(id)
	if !ok {
		writeError(w, http.StatusNotFound, "food item not found")
		return
	}

	item := s.foods[idx]
	if delta < 0 && item.StockQty == 0 {
		writeError(w, http.StatusBadRequest, "stock already at zero")
		return
	}
	item.StockQty += delta
	if item.StockQty > 0 {
		item.InStock = true
	}
	s.foods[idx] = item

	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleFoodStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var payload struct {
		InStock  bool `json:"inStock"`
		StockQty int  `json:"stockQty"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if payload.StockQty < 0 {
		writeError(w, http.StatusBadRequest, "stockQty must not be negative")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.findFood(id)
	if !ok {
		writeError(w, http.StatusNotFound, "food item not found")
		return
	}

	item := s.foods[idx]
	// inStock and stockQty are deliberately independent; both are applied
	// exactly as sent.
	item.InStock = payload.InStock
	item.StockQty = payload.StockQty
	s.foods[idx] = item

	writeJSON(w, http.StatusOK, item)
}

// parseFoodForm reads the multipart fields shared by create and update.
// Image contents are not persisted; only filenames are recorded.
func parseFoodForm(r *http.Request) (food.Input, []string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return food.Input{}, nil, err
	}

	var input food.Input
	input.Title = r.FormValue("title")
	input.Description = r.FormValue("description")
	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return food.Input{}, nil, err
		}
		input.Price = price
	}
	if v := r.FormValue("discount"); v != "" {
		discount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return food.Input{}, nil, err
		}
		input.Discount = discount
	}
	if v := r.FormValue("stockQty"); v != "" {
		qty, err := strconv.Atoi(v)
		if err != nil {
			return food.Input{}, nil, err
		}
		input.StockQty = qty
	}

	var images []string
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			images = append(images, header.Filename)
		}
	}
	return input, images, nil
}
