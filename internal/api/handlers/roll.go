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

type RollHandler struct {
	rollService  *service.RollService
	claimService *service.ClaimService
}

func NewRollHandler(rollService *service.RollService, claimService *service.ClaimService) *RollHandler {
	return &RollHandler{
		rollService:  rollService,
		claimService: claimService,
	}
}

type RollRequest struct {
	GuildID string   `json:"guildId"`
	UserID  string   `json:"userId"`
	Gender  string   `json:"gender,omitempty"`
	RoleIDs []string `json:"roleIds,omitempty"`
}

type RollResponse struct {
	Session    *domain.RollSession `json:"session"`
	Characters []*domain.Character `json:"characters"`
}

func (h *RollHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req RollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.GuildID == "" || req.UserID == "" {
		http.Error(w, "Guild ID and user ID are required", http.StatusBadRequest)
		return
	}

	var gender *domain.Gender
	if req.Gender != "" {
		parsed := domain.Gender(req.Gender)
		if !parsed.Valid() {
			http.Error(w, "Invalid gender", http.StatusBadRequest)
			return
		}
		gender = &parsed
	}

	result, err := h.rollService.Roll(r.Context(), service.RollInput{
		GuildID: req.GuildID,
		UserID:  req.UserID,
		Gender:  gender,
		RoleIDs: req.RoleIDs,
	})
	if err != nil {
		if errors.Is(err, domain.ErrFeatureDisabled) {
			http.Error(w, "Harem is disabled in this guild", http.StatusForbidden)
			return
		}
		if errors.Is(err, domain.ErrOnCooldown) {
			http.Error(w, "Roll is on cooldown", http.StatusTooManyRequests)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RollResponse{
		Session:    result.Session,
		Characters: result.Characters,
	})
}

func (h *RollHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	session, err := h.rollService.GetSession(sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(session)
}

type ClaimRequest struct {
	UserID string `json:"userId"`
	Symbol string `json:"symbol"`
}

type ClaimResponse struct {
	Session   *domain.RollSession `json:"session"`
	Character *domain.Character   `json:"character"`
}

func (h *RollHandler) Claim(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	var req ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == "" || req.Symbol == "" {
		http.Error(w, "User ID and symbol are required", http.StatusBadRequest)
		return
	}

	result, err := h.claimService.Claim(r.Context(), service.ClaimInput{
		SessionID: sessionID,
		UserID:    req.UserID,
		Symbol:    req.Symbol,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			http.Error(w, "Session not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrSessionClosed):
			http.Error(w, "Session is no longer open", http.StatusConflict)
		case errors.Is(err, domain.ErrUnknownSlot):
			http.Error(w, "Session has no such slot", http.StatusBadRequest)
		case errors.Is(err, domain.ErrCharacterClaimed):
			http.Error(w, "Character was already claimed", http.StatusConflict)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ClaimResponse{
		Session:   result.Session,
		Character: result.Character,
	})
}

func (h *RollHandler) Cooldown(w http.ResponseWriter, r *http.Request) {
	guildID := r.URL.Query().Get("guildId")
	userID := r.URL.Query().Get("userId")
	if guildID == "" || userID == "" {
		http.Error(w, "Guild ID and user ID are required", http.StatusBadRequest)
		return
	}

	remaining, err := h.rollService.CooldownRemaining(r.Context(), guildID, userID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]float64{
		"remainingSeconds": remaining.Seconds(),
	})
}
