// Package mockapi is an in-memory stand-in for the upstream admin API. It
// implements the full REST surface the console consumes, including OTP
// login, session cookies, order lifecycle enforcement, and stock
// bookkeeping, so the console can be developed and tested without the real
// backend.
package mockapi

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/skpot/biryani-console/internal/domain/auth"
	"github.com/skpot/biryani-console/internal/domain/food"
	"github.com/skpot/biryani-console/internal/domain/order"
	"github.com/skpot/biryani-console/internal/domain/partner"
)

const sessionCookie = "admin_session"

// Server holds all mock state behind one lock.
type Server struct {
	log    logrus.FieldLogger
	secret []byte

	mu       sync.RWMutex
	foods    []food.Item
	orders   []order.Order
	partners []partner.Partner
	otps     map[string]string
	users    map[string]auth.User // keyed by phone
	fixedOTP string
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger attaches a structured logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Server) { s.log = log }
}

// WithFixedOTP makes every issued passcode the given value. Dev convenience;
// never enable outside local setups.
func WithFixedOTP(code string) Option {
	return func(s *Server) { s.fixedOTP = code }
}

// New creates an empty mock server signing sessions with secret.
func New(secret []byte, opts ...Option) *Server {
	s := &Server{
		log:    logrus.StandardLogger(),
		secret: secret,
		otps:   make(map[string]string),
		users:  make(map[string]auth.User),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the full /api handler tree.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/send-otp", s.handleSendOTP).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify-otp", s.handleVerifyOTP).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.requireSession)
	protected.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodPost)

	protected.HandleFunc("/food", s.handleListFood).Methods(http.MethodGet)
	protected.HandleFunc("/food", s.handleCreateFood).Methods(http.MethodPost)
	protected.HandleFunc("/food/{id}", s.handleGetFood).Methods(http.MethodGet)
	protected.HandleFunc("/food/{id}", s.handleUpdateFood).Methods(http.MethodPut)
	protected.HandleFunc("/food/{id}", s.handleDeleteFood).Methods(http.MethodDelete)
	protected.HandleFunc("/food/{id}/stock-in", s.handleStockIn).Methods(http.MethodPost)
	protected.HandleFunc("/food/{id}/stock-out", s.handleStockOut).Methods(http.MethodPost)
	protected.HandleFunc("/food/{id}/status", s.handleFoodStatus).Methods(http.MethodPatch)

	protected.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet)
	protected.HandleFunc("/orders/{id}/accept", s.orderAction(order.ActionAccept)).Methods(http.MethodPost)
	protected.HandleFunc("/orders/{id}/cancel", s.orderAction(order.ActionCancel)).Methods(http.MethodPost)
	protected.HandleFunc("/orders/{id}/assign", s.handleAssignOrder).Methods(http.MethodPost)

	protected.HandleFunc("/partners", s.handleListPartners).Methods(http.MethodGet)
	protected.HandleFunc("/partners", s.handleCreatePartner).Methods(http.MethodPost)
	protected.HandleFunc("/partners/{id}", s.handleUpdatePartner).Methods(http.MethodPut)
	protected.HandleFunc("/partners/{id}", s.handleDeletePartner).Methods(http.MethodDelete)

	return r
}

func (s *Server) findFood(id string) (int, bool) {
	for i := range s.foods {
		if s.foods[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *Server) findOrder(id string) (int, bool) {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *Server) findPartner(id string) (int, bool) {
	for i := range s.partners {
		if s.partners[i].ID == id {
			return i, true
		}
	}
	return 0, false
}
