package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vzlrn/cardcasebot/internal/cases"
	"github.com/vzlrn/cardcasebot/internal/domain"
	"github.com/vzlrn/cardcasebot/internal/logger"
)

// CreateOfferRequest is the body of POST /api/v1/offer/create.
type CreateOfferRequest struct {
	User   *domain.ChatUser `json:"user,omitempty"`
	CardID string           `json:"card_id" validate:"required,max=100"`
}

// CreateOfferResponse returns the newly created offer.
type CreateOfferResponse struct {
	Offer domain.Offer `json:"offer"`
}

// HandleCreateOffer moves a card from the sender's inventory into the global
// offer ledger.
func HandleCreateOffer(svc cases.ExchangeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req CreateOfferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode create offer request", "error", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid request", "error", err)
			http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
			return
		}

		offer, err := svc.CreateOffer(r.Context(), req.User, req.CardID)
		if err != nil {
			log.Warn("Failed to create offer", "error", err, "card_id", req.CardID)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, CreateOfferResponse{Offer: offer})
	}
}

// AcceptOfferRequest is the body of POST /api/v1/offer/accept.
type AcceptOfferRequest struct {
	User    *domain.ChatUser `json:"user,omitempty"`
	OfferID string           `json:"offer_id" validate:"required,max=100"`
}

// AcceptOfferResponse returns the item synthesized into the acceptor's inventory.
type AcceptOfferResponse struct {
	Item domain.InventoryItem `json:"item"`
}

// HandleAcceptOffer consumes a pending offer for the accepting user.
func HandleAcceptOffer(svc cases.ExchangeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req AcceptOfferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode accept offer request", "error", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid request", "error", err)
			http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
			return
		}

		item, err := svc.AcceptOffer(r.Context(), req.User, req.OfferID)
		if err != nil {
			log.Warn("Failed to accept offer", "error", err, "offer_id", req.OfferID)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, AcceptOfferResponse{Item: item})
	}
}

// ListOffersResponse lists every pending offer in the ledger.
type ListOffersResponse struct {
	Offers []domain.Offer `json:"offers"`
}

// HandleListOffers returns the pending offer ledger.
func HandleListOffers(svc cases.ExchangeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		offers, err := svc.ListOffers(r.Context())
		if err != nil {
			log.Error("Failed to list offers", "error", err)
			respondServiceError(w, err)
			return
		}

		if offers == nil {
			offers = []domain.Offer{}
		}
		respondJSON(w, http.StatusOK, ListOffersResponse{Offers: offers})
	}
}
