package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vzlrn/cardcasebot/internal/cases"
	"github.com/vzlrn/cardcasebot/internal/domain"
	"github.com/vzlrn/cardcasebot/internal/ledger"
	"github.com/vzlrn/cardcasebot/internal/logger"
	"github.com/vzlrn/cardcasebot/internal/relay"
)

// ClaimRequest is the body of POST /api/v1/claim.
type ClaimRequest struct {
	User   *domain.ChatUser `json:"user,omitempty"`
	CardID string           `json:"card_id" validate:"required,max=100"`
}

// HandleClaim hands an owned card to the external channel for delivery as a
// chat message. Claiming never mutates the inventory and delivery is
// best-effort: the response only acknowledges that the claim was dispatched.
func HandleClaim(svc cases.Service, channel relay.Channel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req ClaimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode claim request", "error", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid request", "error", err)
			http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
			return
		}

		items, err := svc.Inventory(r.Context(), req.User, ledger.FilterAll)
		if err != nil {
			log.Error("Failed to load inventory for claim", "error", err)
			respondServiceError(w, err)
			return
		}

		var claimed *domain.InventoryItem
		for i := range items {
			if items[i].CardID == req.CardID {
				claimed = &items[i]
				break
			}
		}
		if claimed == nil {
			log.Warn("Claim for unowned card", "card_id", req.CardID)
			respondServiceError(w, domain.ErrCardNotFound)
			return
		}

		relay.SendClaim(r.Context(), channel, relay.NewClaim(*claimed, req.User))

		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Claim dispatched"})
	}
}
