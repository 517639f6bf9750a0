package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/andrewpaige1/formbook-api/auth"
	"github.com/andrewpaige1/formbook-api/config"
	"github.com/andrewpaige1/formbook-api/handlers"
	"github.com/andrewpaige1/formbook-api/middleware"
	"github.com/andrewpaige1/formbook-api/realtime"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New builds the routed and wrapped API handler.
func New(db *gorm.DB, cfg *config.Config) (http.Handler, error) {
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)
	authMiddleware, err := middleware.EnsureValidToken(tokens)
	if err != nil {
		return nil, err
	}

	h := &handlers.DBHandler{
		DB:     db,
		Tokens: tokens,
		Env:    cfg.Env,
		Hub:    realtime.NewHub(realtime.DefaultBuffer, cfg.AllowedOrigins...),
	}
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/signup", h.SignUp)
	mux.HandleFunc("POST /api/auth/signin", h.SignIn)
	mux.HandleFunc("POST /api/auth/signout", h.SignOut)
	mux.HandleFunc("GET /api/auth/me", middleware.SyncUser(h.Me))

	// Topics and tags
	mux.HandleFunc("GET /api/topics", h.GetTopics)
	mux.HandleFunc("GET /api/tags", h.GetTagCloud)
	mux.HandleFunc("GET /api/tags/suggest", h.SuggestTags)

	// Templates
	mux.HandleFunc("GET /api/home", h.GetHome)
	mux.HandleFunc("GET /api/search", h.SearchTemplates)
	mux.HandleFunc("GET /api/templates/latest", h.GetLatestTemplates)
	mux.HandleFunc("GET /api/templates/popular", h.GetPopularTemplates)
	mux.HandleFunc("POST /api/templates", middleware.SyncUser(h.CreateTemplate))
	mux.HandleFunc("GET /api/templates/{templateID}", h.GetTemplate)
	mux.HandleFunc("PUT /api/templates/{templateID}", middleware.SyncUser(h.UpdateTemplate))
	mux.HandleFunc("DELETE /api/templates/{templateID}", middleware.SyncUser(h.DeleteTemplate))
	mux.HandleFunc("PUT /api/templates/{templateID}/questions/order", middleware.SyncUser(h.ReorderQuestions))
	mux.HandleFunc("POST /api/templates/{templateID}/questions/move", middleware.SyncUser(h.MoveQuestion))
	mux.HandleFunc("GET /api/me/templates", middleware.SyncUser(h.GetMyTemplates))

	// Forms
	mux.HandleFunc("POST /api/templates/{templateID}/forms", middleware.SyncUser(h.SubmitForm))
	mux.HandleFunc("GET /api/templates/{templateID}/forms", middleware.SyncUser(h.GetTemplateForms))
	mux.HandleFunc("GET /api/templates/{templateID}/results", middleware.SyncUser(h.GetTemplateResults))
	mux.HandleFunc("GET /api/forms/{formID}", middleware.SyncUser(h.GetForm))
	mux.HandleFunc("PUT /api/forms/{formID}", middleware.SyncUser(h.UpdateForm))
	mux.HandleFunc("DELETE /api/forms/{formID}", middleware.SyncUser(h.DeleteForm))
	mux.HandleFunc("GET /api/me/forms", middleware.SyncUser(h.GetMyForms))

	// Comments and likes
	mux.HandleFunc("GET /api/templates/{templateID}/comments", h.GetComments)
	mux.HandleFunc("POST /api/templates/{templateID}/comments", middleware.SyncUser(h.CreateComment))
	mux.HandleFunc("GET /api/templates/{templateID}/comments/live", h.LiveComments)
	mux.HandleFunc("POST /api/templates/{templateID}/like", middleware.SyncUser(h.LikeTemplate))
	mux.HandleFunc("DELETE /api/templates/{templateID}/like", middleware.SyncUser(h.UnlikeTemplate))

	// Admin
	mux.HandleFunc("GET /api/admin/users", middleware.RequireAdmin(h.ListUsers))
	mux.HandleFunc("PUT /api/admin/users/{userID}/admin", middleware.RequireAdmin(h.SetAdmin))
	mux.HandleFunc("PUT /api/admin/users/{userID}/block", middleware.RequireAdmin(h.SetBlocked))
	mux.HandleFunc("DELETE /api/admin/users/{userID}", middleware.RequireAdmin(h.DeleteUser))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(middleware.RequestLogger(authMiddleware(middleware.LoadUser(db)(mux))))

	return corsHandler, nil
}

// Run serves handler on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("server shutting down")
	return srv.Shutdown(shutdownCtx)
}
