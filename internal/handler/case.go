package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vzlrn/cardcasebot/internal/cases"
	"github.com/vzlrn/cardcasebot/internal/domain"
	"github.com/vzlrn/cardcasebot/internal/logger"
)

// OpenCaseRequest is the body of POST /api/v1/case/open.
// User is optional; an absent user is served as the shared guest identity.
type OpenCaseRequest struct {
	User *domain.ChatUser `json:"user,omitempty"`
	Mode string           `json:"mode" validate:"required,openmode"`
}

// OpenCaseResponse carries the drawn card and the remaining free opens.
type OpenCaseResponse struct {
	Card      domain.Card `json:"card"`
	Remaining int         `json:"remaining_free_opens"`
}

// HandleOpenCase draws one card for the user in the requested mode.
func HandleOpenCase(svc cases.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req OpenCaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode open case request", "error", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid request", "error", err)
			http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
			return
		}

		result, err := svc.Open(r.Context(), req.User, domain.OpenMode(req.Mode))
		if err != nil {
			log.Info("Open case rejected", "error", err, "mode", req.Mode)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, OpenCaseResponse{
			Card:      result.Card,
			Remaining: result.Remaining,
		})
	}
}

// RemainingResponse reports the free-open quota left in the rolling window.
type RemainingResponse struct {
	Remaining int `json:"remaining_free_opens"`
}

// HandleRemainingOpens reports how many free opens the user has left.
func HandleRemainingOpens(svc cases.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		user := userFromQuery(r)
		remaining, err := svc.Remaining(r.Context(), user)
		if err != nil {
			log.Error("Failed to compute remaining opens", "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, RemainingResponse{Remaining: remaining})
	}
}

// InventoryResponse lists owned cards, newest first.
type InventoryResponse struct {
	Items []domain.InventoryItem `json:"items"`
}

// HandleGetInventory lists the user's cards with an optional rarity filter.
func HandleGetInventory(svc cases.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		user := userFromQuery(r)
		filter := r.URL.Query().Get("filter")

		items, err := svc.Inventory(r.Context(), user, filter)
		if err != nil {
			log.Error("Failed to list inventory", "error", err)
			respondServiceError(w, err)
			return
		}

		if items == nil {
			items = []domain.InventoryItem{}
		}
		respondJSON(w, http.StatusOK, InventoryResponse{Items: items})
	}
}
