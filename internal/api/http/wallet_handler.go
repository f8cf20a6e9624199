package http

import (
	"net/http"

	"github.com/shopspring/decimal"
)

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireSeller(w, r)
	if !ok {
		return
	}

	wallet, err := s.wallets.CreateWallet(r.Context(), claims.SellerCode)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, wallet)
}

func (s *Server) handleActivateWallet(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireSeller(w, r)
	if !ok {
		return
	}

	wallet, err := s.wallets.ActivateWallet(r.Context(), claims.SellerCode)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wallet)
}

func (s *Server) handleWalletSummary(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireSeller(w, r)
	if !ok {
		return
	}

	summary, err := s.wallets.GetWalletSummary(r.Context(), claims.SellerCode)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleWalletTransactions(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireSeller(w, r)
	if !ok {
		return
	}

	page, pageSize := pagination(r)
	transactions, total, err := s.wallets.GetTransactions(r.Context(), claims.SellerCode, page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"transactions": transactions,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
	})
}

type refillRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) handleRefillWallet(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireSeller(w, r)
	if !ok {
		return
	}

	var req refillRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	wallet, err := s.wallets.RefillWallet(r.Context(), claims.SellerCode, req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wallet)
}

type adjustRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

func (s *Server) handleAdjustWallet(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	walletID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid wallet id"})
		return
	}

	var req adjustRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	wallet, err := s.wallets.AdjustWalletBalance(r.Context(), walletID, req.Amount, req.Reason, claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, wallet)
}
