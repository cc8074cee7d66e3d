package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/paimonworks/harem-service/internal/api/middleware"
	"github.com/paimonworks/harem-service/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	Name   string `json:"name"`
	APIKey string `json:"apiKey"`
}

type LoginRequest struct {
	Name   string `json:"name"`
	APIKey string `json:"apiKey"`
}

type AuthResponse struct {
	Bot          BotResponse `json:"bot"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

type BotResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.APIKey == "" {
		http.Error(w, "Name and API key are required", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Name:   req.Name,
		APIKey: req.APIKey,
	})
	if err != nil {
		if errors.Is(err, service.ErrBotNameExists) {
			http.Error(w, "Bot name already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := AuthResponse{
		Bot: BotResponse{
			ID:   result.Bot.ID.String(),
			Name: result.Bot.Name,
		},
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.APIKey == "" {
		http.Error(w, "Name and API key are required", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Name:   req.Name,
		APIKey: req.APIKey,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := AuthResponse{
		Bot: BotResponse{
			ID:   result.Bot.ID.String(),
			Name: result.Bot.Name,
		},
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	botID, ok := middleware.GetBotID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bot, err := h.authService.GetBotByID(r.Context(), botID)
	if err != nil {
		http.Error(w, "Bot not found", http.StatusNotFound)
		return
	}

	resp := BotResponse{
		ID:   bot.ID.String(),
		Name: bot.Name,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	botID, ok := middleware.GetBotID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.authService.Logout(r.Context(), botID); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
