package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	view, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

func (h *ProfileHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	collection, err := h.profileService.GetCollection(r.Context(), userID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(collection)
}

type SetTitleRequest struct {
	Title string `json:"title"`
}

func (h *ProfileHandler) SetTitle(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req SetTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profileService.SetTitle(r.Context(), userID, req.Title)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

type SetFavoriteRequest struct {
	CharacterID *string `json:"characterId"`
}

func (h *ProfileHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req SetFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profileService.SetFavorite(r.Context(), userID, req.CharacterID)
	if err != nil {
		if errors.Is(err, domain.ErrCharacterNotFound) {
			http.Error(w, "Character not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrCharacterNotOwned) {
			http.Error(w, "Character is not claimed by you", http.StatusConflict)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

func (h *ProfileHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	wishlist, err := h.profileService.GetWishlist(r.Context(), userID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wishlist)
}

type WishlistRequest struct {
	CharacterName string `json:"characterName"`
}

func (h *ProfileHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req WishlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.CharacterName == "" {
		http.Error(w, "Character name is required", http.StatusBadRequest)
		return
	}

	entry, err := h.profileService.AddToWishlist(r.Context(), userID, req.CharacterName)
	if err != nil {
		if errors.Is(err, domain.ErrWishlistDuplicate) {
			http.Error(w, "Character is already on the wishlist", http.StatusConflict)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

func (h *ProfileHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req WishlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.profileService.RemoveFromWishlist(r.Context(), userID, req.CharacterName); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *ProfileHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	if err := h.profileService.ClearWishlist(r.Context(), userID); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *ProfileHandler) ResetCooldown(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	if err := h.profileService.ResetCooldown(r.Context(), userID); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *ProfileHandler) ResetAllCooldowns(w http.ResponseWriter, r *http.Request) {
	reset, err := h.profileService.ResetAllCooldowns(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"reset": reset})
}
