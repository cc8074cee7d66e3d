package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/service"
)

type MarriageHandler struct {
	marriageService *service.MarriageService
}

func NewMarriageHandler(marriageService *service.MarriageService) *MarriageHandler {
	return &MarriageHandler{marriageService: marriageService}
}

// marriageError maps the shared failure modes of marriage operations.
// Returns true when the error was handled.
func marriageError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, domain.ErrFeatureDisabled):
		http.Error(w, "Harem is disabled in this guild", http.StatusForbidden)
	case errors.Is(err, domain.ErrCharacterNotFound):
		http.Error(w, "Character not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrCharacterNotOwned):
		http.Error(w, "Character is not claimed by you", http.StatusConflict)
	case errors.Is(err, domain.ErrAlreadyMarried):
		http.Error(w, "Already married to this target", http.StatusConflict)
	case errors.Is(err, domain.ErrMarriageLimit):
		http.Error(w, "Marriage limit reached", http.StatusConflict)
	case errors.Is(err, domain.ErrInsufficientFunds):
		http.Error(w, "Insufficient funds", http.StatusPaymentRequired)
	default:
		return false
	}
	return true
}

type MarryCharacterRequest struct {
	GuildID     string `json:"guildId"`
	UserID      string `json:"userId"`
	CharacterID string `json:"characterId"`
}

func (h *MarriageHandler) MarryCharacter(w http.ResponseWriter, r *http.Request) {
	var req MarryCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.GuildID == "" || req.UserID == "" || req.CharacterID == "" {
		http.Error(w, "Guild ID, user ID and character ID are required", http.StatusBadRequest)
		return
	}

	marriage, err := h.marriageService.MarryCharacter(r.Context(), service.MarryCharacterInput{
		GuildID:     req.GuildID,
		UserID:      req.UserID,
		CharacterID: req.CharacterID,
	})
	if err != nil {
		if !marriageError(w, err) {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(marriage)
}

type ProposeRequest struct {
	GuildID      string `json:"guildId"`
	ProposerID   string `json:"proposerId"`
	TargetUserID string `json:"targetUserId"`
}

func (h *MarriageHandler) Propose(w http.ResponseWriter, r *http.Request) {
	var req ProposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.GuildID == "" || req.ProposerID == "" || req.TargetUserID == "" {
		http.Error(w, "Guild ID, proposer ID and target user ID are required", http.StatusBadRequest)
		return
	}
	if req.ProposerID == req.TargetUserID {
		http.Error(w, "Cannot propose to yourself", http.StatusBadRequest)
		return
	}

	proposal, err := h.marriageService.Propose(r.Context(), service.ProposeInput{
		GuildID:      req.GuildID,
		ProposerID:   req.ProposerID,
		TargetUserID: req.TargetUserID,
	})
	if err != nil {
		if !marriageError(w, err) {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(proposal)
}

func (h *MarriageHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid proposal ID", http.StatusBadRequest)
		return
	}

	proposal, err := h.marriageService.GetProposal(r.Context(), proposalID)
	if err != nil {
		if errors.Is(err, domain.ErrProposalNotFound) {
			http.Error(w, "Proposal not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(proposal)
}

type RespondRequest struct {
	UserID string `json:"userId"`
	Accept bool   `json:"accept"`
}

func (h *MarriageHandler) Respond(w http.ResponseWriter, r *http.Request) {
	proposalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid proposal ID", http.StatusBadRequest)
		return
	}

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == "" {
		http.Error(w, "User ID is required", http.StatusBadRequest)
		return
	}

	proposal, err := h.marriageService.Respond(r.Context(), proposalID, req.UserID, req.Accept)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProposalNotFound):
			http.Error(w, "Proposal not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrNotProposalTarget):
			http.Error(w, "Only the proposal target can answer it", http.StatusForbidden)
		case errors.Is(err, domain.ErrProposalResolved):
			http.Error(w, "Proposal has already been resolved", http.StatusConflict)
		default:
			if !marriageError(w, err) {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(proposal)
}

type DivorceRequest struct {
	GuildID    string `json:"guildId"`
	UserID     string `json:"userId"`
	TargetType string `json:"targetType"`
	TargetID   string `json:"targetId"`
}

func (h *MarriageHandler) Divorce(w http.ResponseWriter, r *http.Request) {
	var req DivorceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	targetType := domain.MarriageTargetType(req.TargetType)
	if targetType != domain.MarriageTargetCharacter && targetType != domain.MarriageTargetUser {
		http.Error(w, "Target type must be character or user", http.StatusBadRequest)
		return
	}
	if req.GuildID == "" || req.UserID == "" || req.TargetID == "" {
		http.Error(w, "Guild ID, user ID and target ID are required", http.StatusBadRequest)
		return
	}

	err := h.marriageService.Divorce(r.Context(), service.DivorceInput{
		GuildID:    req.GuildID,
		UserID:     req.UserID,
		TargetType: targetType,
		TargetID:   req.TargetID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotMarried) {
			http.Error(w, "Not married to this target", http.StatusConflict)
			return
		}
		if !marriageError(w, err) {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
