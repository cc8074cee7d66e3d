package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/service"
)

type CharacterHandler struct {
	catalogService *service.CatalogService
}

func NewCharacterHandler(catalogService *service.CatalogService) *CharacterHandler {
	return &CharacterHandler{catalogService: catalogService}
}

// List serves the catalog with optional filters. Query parameters:
// gender, anime, rarity, q (name search), owner, available=true.
func (h *CharacterHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var characters []*domain.Character
	var err error

	switch {
	case q.Get("owner") != "":
		characters, err = h.catalogService.ListByOwner(r.Context(), q.Get("owner"))
	case q.Get("q") != "":
		characters, err = h.catalogService.Search(r.Context(), q.Get("q"))
	case q.Get("anime") != "":
		characters, err = h.catalogService.ListByAnime(r.Context(), q.Get("anime"))
	case q.Get("rarity") != "":
		rarity := domain.Rarity(q.Get("rarity"))
		if !rarity.Valid() {
			http.Error(w, "Invalid rarity", http.StatusBadRequest)
			return
		}
		characters, err = h.catalogService.ListByRarity(r.Context(), rarity)
	default:
		var gender *domain.Gender
		if g := q.Get("gender"); g != "" {
			parsed := domain.Gender(g)
			if !parsed.Valid() {
				http.Error(w, "Invalid gender", http.StatusBadRequest)
				return
			}
			gender = &parsed
		}
		if q.Get("available") == "true" {
			characters, err = h.catalogService.ListAvailable(r.Context(), gender)
		} else {
			characters, err = h.catalogService.ListAll(r.Context(), gender)
		}
	}

	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(characters)
}

func (h *CharacterHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	character, err := h.catalogService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCharacterNotFound) {
			http.Error(w, "Character not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(character)
}

func (h *CharacterHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalogService.Stats(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

type CreateCharacterRequest struct {
	Name     string `json:"name"`
	Anime    string `json:"anime"`
	Gender   string `json:"gender"`
	Rarity   string `json:"rarity"`
	ImageURL string `json:"imageUrl"`
}

func (h *CharacterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Anime == "" {
		http.Error(w, "Name and anime are required", http.StatusBadRequest)
		return
	}

	character, err := h.catalogService.AddCharacter(r.Context(), service.AddCharacterInput{
		Name:     req.Name,
		Anime:    req.Anime,
		Gender:   domain.Gender(req.Gender),
		Rarity:   domain.Rarity(req.Rarity),
		ImageURL: req.ImageURL,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(character)
}

func (h *CharacterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.catalogService.RemoveCharacter(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrCharacterNotFound) {
			http.Error(w, "Character not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// Release clears a character's owner and marriage without deleting it
// from the catalog.
func (h *CharacterHandler) Release(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.catalogService.ReleaseCharacter(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrCharacterNotFound) {
			http.Error(w, "Character not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *CharacterHandler) Backup(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.catalogService.Backup(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

func (h *CharacterHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var snapshot domain.SnapshotMap
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.catalogService.Restore(r.Context(), snapshot); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"restored": len(snapshot),
	})
}

func (h *CharacterHandler) Seed(w http.ResponseWriter, r *http.Request) {
	seeded, err := h.catalogService.SeedIfEmpty(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"seeded": seeded})
}
