package http

import (
	"net/http"

	"campustrade-backend/internal/domain"
	"campustrade-backend/internal/service"
)

func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var input service.CreateTradeInput
	if err := decodeBody(r, &input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	trade, err := s.trades.CreateTrade(r.Context(), claims.UserID, &input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, trade)
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	tradeID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid trade id"})
		return
	}

	trade, err := s.trades.GetTrade(r.Context(), claims.UserID, tradeID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trade)
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	page, pageSize := pagination(r)

	trades, total, err := s.trades.ListTrades(r.Context(), claims.UserID, page, pageSize)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"trades":    trades,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// handleTradeAction covers accept, reject and cancel; completion has its own
// handler because it also reports the fee deduction outcome.
func (s *Server) handleTradeAction(action domain.TradeAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r)
		tradeID, err := pathID(r, "id")
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid trade id"})
			return
		}

		var trade *domain.TradeTransaction
		switch action {
		case domain.TradeActionAccept:
			trade, err = s.trades.AcceptTrade(r.Context(), claims.UserID, tradeID)
		case domain.TradeActionReject:
			trade, err = s.trades.RejectTrade(r.Context(), claims.UserID, tradeID)
		case domain.TradeActionCancel:
			trade, err = s.trades.CancelTrade(r.Context(), claims.UserID, tradeID)
		}
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, trade)
	}
}

func (s *Server) handleCompleteTrade(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	tradeID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid trade id"})
		return
	}

	trade, outcome, err := s.trades.CompleteTrade(r.Context(), claims.UserID, tradeID)
	if err != nil && trade == nil {
		respondServiceError(w, err)
		return
	}

	body := map[string]any{"trade": trade}
	if outcome != nil {
		body["deduction"] = outcome
	}
	if err != nil {
		// The trade completed but the fee was not collected yet; the nightly
		// reconciliation sweep will retry it.
		body["deduction_pending"] = err.Error()
	}
	respondJSON(w, http.StatusOK, body)
}

func (s *Server) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	tradeID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid trade id"})
		return
	}

	if err := s.trades.DeleteTrade(r.Context(), claims.UserID, tradeID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleUpdateOfferedItem(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	tradeID, err := pathID(r, "id")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid trade id"})
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid item id"})
		return
	}

	var item domain.OfferedItem
	if err := decodeBody(r, &item); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	item.ID = itemID
	item.TradeID = tradeID

	if err := s.trades.UpdateOfferedItem(r.Context(), claims.UserID, &item); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}
