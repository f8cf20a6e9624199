package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"campustrade-backend/internal/domain"
	"campustrade-backend/internal/logger"
	"campustrade-backend/internal/security"
	"campustrade-backend/internal/service"
)

// Server wires all HTTP handlers onto a gorilla/mux router.
type Server struct {
	router       *mux.Router
	tokenManager security.TokenManager

	wallets       service.WalletService
	trades        service.TradeService
	orders        service.OrderService
	notifications service.NotificationService
}

// NewServer builds the router and registers all routes.
func NewServer(
	tokenManager security.TokenManager,
	wallets service.WalletService,
	trades service.TradeService,
	orders service.OrderService,
	notifications service.NotificationService,
) *Server {
	s := &Server{
		router:        mux.NewRouter(),
		tokenManager:  tokenManager,
		wallets:       wallets,
		trades:        trades,
		orders:        orders,
		notifications: notifications,
	}
	s.registerRoutes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)

	// Wallet
	api.HandleFunc("/wallet", s.handleCreateWallet).Methods("POST")
	api.HandleFunc("/wallet/activate", s.handleActivateWallet).Methods("POST")
	api.HandleFunc("/wallet/summary", s.handleWalletSummary).Methods("GET")
	api.HandleFunc("/wallet/transactions", s.handleWalletTransactions).Methods("GET")
	api.HandleFunc("/wallet/refill", s.handleRefillWallet).Methods("POST")

	// Admin
	api.HandleFunc("/admin/wallets/{id}/adjust", s.handleAdjustWallet).Methods("POST")

	// Trades
	api.HandleFunc("/trades", s.handleCreateTrade).Methods("POST")
	api.HandleFunc("/trades", s.handleListTrades).Methods("GET")
	api.HandleFunc("/trades/{id}", s.handleGetTrade).Methods("GET")
	api.HandleFunc("/trades/{id}", s.handleDeleteTrade).Methods("DELETE")
	api.HandleFunc("/trades/{id}/accept", s.handleTradeAction(domain.TradeActionAccept)).Methods("POST")
	api.HandleFunc("/trades/{id}/reject", s.handleTradeAction(domain.TradeActionReject)).Methods("POST")
	api.HandleFunc("/trades/{id}/cancel", s.handleTradeAction(domain.TradeActionCancel)).Methods("POST")
	api.HandleFunc("/trades/{id}/complete", s.handleCompleteTrade).Methods("POST")
	api.HandleFunc("/trades/{id}/items/{itemID}", s.handleUpdateOfferedItem).Methods("PUT")

	// Orders
	api.HandleFunc("/orders", s.handleCreateOrder).Methods("POST")
	api.HandleFunc("/orders", s.handleListOrders).Methods("GET")
	api.HandleFunc("/orders/{id}", s.handleGetOrder).Methods("GET")
	api.HandleFunc("/orders/{id}/status", s.handleUpdateOrderStatus).Methods("PUT")

	// Notifications
	api.HandleFunc("/notifications", s.handleListNotifications).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", s.handleMarkNotificationRead).Methods("POST")

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondJSON writes a JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondServiceError maps domain sentinel errors to HTTP status codes.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		respondJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrTradeNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrWalletExists):
		respondJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrWalletInactive):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		logger.Error("Unhandled service error", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// pathID extracts an int32 path variable.
func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

// pagination reads page/page_size query parameters with sane defaults.
func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 {
		pageSize = int32(v)
	}
	return page, pageSize
}
