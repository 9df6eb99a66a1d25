package apiapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bandhan-app/matrimony/internal/domain/enums"
	"github.com/bandhan-app/matrimony/internal/infra/metrics"
	authsvc "github.com/bandhan-app/matrimony/internal/services/auth"
	interestsvc "github.com/bandhan-app/matrimony/internal/services/interests"
	mediasvc "github.com/bandhan-app/matrimony/internal/services/media"
	messagesvc "github.com/bandhan-app/matrimony/internal/services/messages"
	profilesvc "github.com/bandhan-app/matrimony/internal/services/profiles"
	userssvc "github.com/bandhan-app/matrimony/internal/services/users"
	httperrors "github.com/bandhan-app/matrimony/internal/transport/http/errors"
	"github.com/bandhan-app/matrimony/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService     *authsvc.Service
	ProfileService  *profilesvc.Service
	MediaService    *mediasvc.Service
	InterestService *interestsvc.Service
	MessageService  *messagesvc.Service
	UserService     *userssvc.Service
	Metrics         *metrics.Registry
	Logger          *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	healthHandler := handlers.NewHealthHandler()
	profileHandler := handlers.NewProfileHandler(deps.ProfileService, deps.MediaService)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService)
	interestsHandler := handlers.NewInterestsHandler(deps.InterestService)
	matchesHandler := handlers.NewMatchesHandler(deps.InterestService)
	messagesHandler := handlers.NewMessagesHandler(deps.MessageService)
	adminHandler := handlers.NewAdminHandler(deps.UserService)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	adminRoleMW := RequireRole(enums.RoleAdmin)

	r.Get("/healthz", healthHandler.Get)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		// Loaded by <img> tags, which cannot send a bearer token.
		r.Get("/profiles/{id}/photo", profileHandler.Photo)

		r.Group(func(r chi.Router) {
			r.Use(authMW)

			r.Post("/logout", authHandler.Logout)
			r.Post("/logout/all", authHandler.LogoutAll)
			r.Get("/user", authHandler.Me)

			r.Post("/profiles", profileHandler.Create)
			r.Get("/profiles", profileHandler.List)
			r.Get("/profiles/{id}", profileHandler.Get)
			r.Get("/my-profile", profileHandler.MyProfile)
			r.Put("/my-profile", profileHandler.UpdateMyProfile)
			r.Post("/my-profile/photo", mediaHandler.PhotoUpload)

			r.Post("/interests", interestsHandler.Send)
			r.Get("/interests", interestsHandler.List)
			r.Patch("/interests/{id}", interestsHandler.Resolve)
			r.Delete("/matches/{userId}", matchesHandler.Unmatch)

			r.Post("/messages", messagesHandler.Send)
			r.Get("/messages/{userId}", messagesHandler.List)
			r.Get("/conversations", messagesHandler.Conversations)

			r.Route("/admin", func(r chi.Router) {
				r.Use(adminRoleMW)
				r.Get("/health", adminHandler.Health)
				r.Get("/users", adminHandler.Users)
				r.Post("/2fa/setup", authHandler.TOTPSetup)
				r.Post("/2fa/confirm", authHandler.TOTPConfirm)
			})
		})

		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			httperrors.Write(w, http.StatusNotFound, httperrors.APIError{
				Code:    "NOT_FOUND",
				Message: "route not found",
			})
		})
	})
}
