package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paimonworks/harem-service/internal/service"
)

type GuildHandler struct {
	guildService *service.GuildService
}

func NewGuildHandler(guildService *service.GuildService) *GuildHandler {
	return &GuildHandler{guildService: guildService}
}

func (h *GuildHandler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildId")

	policy, err := h.guildService.GetPolicy(r.Context(), guildID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(policy)
}

type UpdatePolicyRequest struct {
	Enabled         *bool   `json:"enabled,omitempty"`
	MarriageCost    *int64  `json:"marriageCost,omitempty"`
	DivorceCost     *int64  `json:"divorceCost,omitempty"`
	TradeCost       *int64  `json:"tradeCost,omitempty"`
	CooldownMinutes *int    `json:"cooldownMinutes,omitempty"`
	MaxMarriages    *int    `json:"maxMarriages,omitempty"`
	PingWishlist    *bool   `json:"pingWishlist,omitempty"`
	AdminRoleID     *string `json:"adminRoleId,omitempty"`
}

func (h *GuildHandler) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildId")

	var req UpdatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	policy, err := h.guildService.UpdatePolicy(r.Context(), guildID, service.PolicyPatch{
		Enabled:         req.Enabled,
		MarriageCost:    req.MarriageCost,
		DivorceCost:     req.DivorceCost,
		TradeCost:       req.TradeCost,
		CooldownMinutes: req.CooldownMinutes,
		MaxMarriages:    req.MaxMarriages,
		PingWishlist:    req.PingWishlist,
		AdminRoleID:     req.AdminRoleID,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(policy)
}

type SetBonusRollsRequest struct {
	RoleID string `json:"roleId"`
	Rolls  int    `json:"rolls"`
}

func (h *GuildHandler) SetBonusRolls(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildId")

	var req SetBonusRollsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.RoleID == "" {
		http.Error(w, "Role ID is required", http.StatusBadRequest)
		return
	}

	policy, err := h.guildService.SetBonusRolls(r.Context(), guildID, req.RoleID, req.Rolls)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(policy)
}
