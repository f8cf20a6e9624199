package http

import (
	"net/http"

	"campustrade-backend/internal/domain"
)

type createOrderRequest struct {
	SellerCode string             `json:"seller_code"`
	Items      []domain.OrderItem `json:"items"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req createOrderRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	order, err := s.orders.CreateOrder(r.Context(), claims.UserID, req.SellerCode, req.Items)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	orderID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}

	order, err := s.orders.GetOrder(r.Context(), claims.UserID, orderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// handleListOrders lists the caller's purchases by default; sellers pass
// role=seller to see incoming orders instead.
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	page, pageSize := pagination(r)

	var (
		orders []domain.Order
		total  int32
		err    error
	)
	if r.URL.Query().Get("role") == "seller" {
		if claims.SellerCode == "" {
			respondJSON(w, http.StatusForbidden, errorResponse{Error: "seller account required"})
			return
		}
		orders, total, err = s.orders.ListOrdersBySeller(r.Context(), claims.SellerCode, page, pageSize)
	} else {
		orders, total, err = s.orders.ListOrdersByBuyer(r.Context(), claims.UserID, page, pageSize)
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"orders":    orders,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

type updateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	orderID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}

	var req updateOrderStatusRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	order, outcome, err := s.orders.UpdateOrderStatus(r.Context(), claims.UserID, orderID, req.Status)
	if err != nil && order == nil {
		respondServiceError(w, err)
		return
	}

	body := map[string]any{"order": order}
	if outcome != nil {
		body["deduction"] = outcome
	}
	if err != nil {
		body["deduction_pending"] = err.Error()
	}
	respondJSON(w, http.StatusOK, body)
}
