package http

import (
	"context"
	"net/http"
	"strings"

	"campustrade-backend/internal/security"
)

type contextKey string

const claimsContextKey contextKey = "userClaims"

// authMiddleware validates the bearer token and stores the claims in the
// request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		claims, err := s.tokenManager.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// claimsFrom returns the authenticated claims stored by authMiddleware.
func claimsFrom(r *http.Request) *security.UserClaims {
	claims, _ := r.Context().Value(claimsContextKey).(*security.UserClaims)
	return claims
}

// requireSeller ensures the caller completed seller onboarding.
func requireSeller(w http.ResponseWriter, r *http.Request) (*security.UserClaims, bool) {
	claims := claimsFrom(r)
	if claims == nil || claims.SellerCode == "" {
		respondJSON(w, http.StatusForbidden, errorResponse{Error: "seller account required"})
		return nil, false
	}
	return claims, true
}

// requireAdmin ensures the caller holds the admin flag.
func requireAdmin(w http.ResponseWriter, r *http.Request) (*security.UserClaims, bool) {
	claims := claimsFrom(r)
	if claims == nil || !claims.IsAdmin {
		respondJSON(w, http.StatusForbidden, errorResponse{Error: "admin access required"})
		return nil, false
	}
	return claims, true
}
