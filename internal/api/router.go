package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/paimonworks/harem-service/internal/api/handlers"
	"github.com/paimonworks/harem-service/internal/api/middleware"
	"github.com/paimonworks/harem-service/internal/service"
	"github.com/paimonworks/harem-service/internal/websocket"
)

func NewRouter(services *service.Services, hub *websocket.Hub) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	characterHandler := handlers.NewCharacterHandler(services.Catalog)
	rollHandler := handlers.NewRollHandler(services.Roll, services.Claim)
	marriageHandler := handlers.NewMarriageHandler(services.Marriage)
	profileHandler := handlers.NewProfileHandler(services.Profile)
	guildHandler := handlers.NewGuildHandler(services.Guild)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			// Character catalog routes
			r.Route("/characters", func(r chi.Router) {
				r.Get("/", characterHandler.List)
				r.Get("/stats", characterHandler.Stats)
				r.Get("/backup", characterHandler.Backup)
				r.Post("/restore", characterHandler.Restore)
				r.Post("/seed", characterHandler.Seed)
				r.Post("/", characterHandler.Create)
				r.Get("/{id}", characterHandler.Get)
				r.Delete("/{id}", characterHandler.Delete)
				r.Post("/{id}/release", characterHandler.Release)
			})

			// Roll session routes
			r.Route("/rolls", func(r chi.Router) {
				r.Post("/", rollHandler.Create)
				r.Get("/cooldown", rollHandler.Cooldown)
				r.Get("/{id}", rollHandler.Get)
				r.Post("/{id}/claim", rollHandler.Claim)
			})

			// Marriage routes
			r.Route("/marriages", func(r chi.Router) {
				r.Post("/character", marriageHandler.MarryCharacter)
				r.Post("/divorce", marriageHandler.Divorce)
			})
			r.Route("/proposals", func(r chi.Router) {
				r.Post("/", marriageHandler.Propose)
				r.Get("/{id}", marriageHandler.GetProposal)
				r.Post("/{id}/respond", marriageHandler.Respond)
			})

			// Profile routes
			r.Route("/profiles", func(r chi.Router) {
				r.Post("/reset-cooldowns", profileHandler.ResetAllCooldowns)
				r.Route("/{userId}", func(r chi.Router) {
					r.Get("/", profileHandler.Get)
					r.Get("/collection", profileHandler.GetCollection)
					r.Put("/title", profileHandler.SetTitle)
					r.Put("/favorite", profileHandler.SetFavorite)
					r.Post("/reset-cooldown", profileHandler.ResetCooldown)
					r.Route("/wishlist", func(r chi.Router) {
						r.Get("/", profileHandler.GetWishlist)
						r.Post("/", profileHandler.AddToWishlist)
						r.Delete("/", profileHandler.RemoveFromWishlist)
						r.Delete("/all", profileHandler.ClearWishlist)
					})
				})
			})

			// Guild policy routes
			r.Route("/guilds/{guildId}", func(r chi.Router) {
				r.Get("/policy", guildHandler.GetPolicy)
				r.Put("/policy", guildHandler.UpdatePolicy)
				r.Put("/policy/bonus-rolls", guildHandler.SetBonusRolls)
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
