package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/hako/durafmt"
	"github.com/ironstar-io/chizerolog"
	"github.com/rs/zerolog"

	"github.com/hunger-busters/hunger-busters-api/api/elderdonations"
	"github.com/hunger-busters/hunger-busters-api/api/foods"
	"github.com/hunger-busters/hunger-busters-api/api/recipes"
	"github.com/hunger-busters/hunger-busters-api/api/schooldonations"
	apiSession "github.com/hunger-busters/hunger-busters-api/api/session"
	"github.com/hunger-busters/hunger-busters-api/api/submissions"
	"github.com/hunger-busters/hunger-busters-api/api/subscriptions"
	"github.com/hunger-busters/hunger-busters-api/api/users"
	"github.com/hunger-busters/hunger-busters-api/auth"
	"github.com/hunger-busters/hunger-busters-api/db/mongo"
	"github.com/hunger-busters/hunger-busters-api/payments"
	"github.com/hunger-busters/hunger-busters-api/payments/stripe"
	"github.com/hunger-busters/hunger-busters-api/upload"
	"github.com/hunger-busters/hunger-busters-api/upload/local"
	"github.com/hunger-busters/hunger-busters-api/upload/s3"
)

// APIServer is a struct that bundles together the various server-wide
// resources used at runtime that each have
// a lifecycle of initialization, connection, and disconnection
type APIServer struct {
	dbProvider       *mongo.Provider
	uploadProvider   upload.Provider
	paymentsProvider payments.Provider
	jwtManager       *auth.JWTManager
	logger           zerolog.Logger
	startedAt        time.Time
}

// NewAPIServer initializes the struct and all constituent components
func NewAPIServer(logger zerolog.Logger) (*APIServer, error) {
	// Initialize the MongoDB handler
	dbProvider, err := mongo.NewProvider()
	if err != nil {
		return nil, err
	}

	// Initialize the file upload provider
	uploadProvider, err := newUploadProvider()
	if err != nil {
		return nil, err
	}

	// Initialize the Stripe payments provider
	paymentsProvider, err := stripe.NewProvider()
	if err != nil {
		return nil, err
	}

	// Initialize the JWT manager
	jwtManager, err := auth.NewJWTManager()
	if err != nil {
		return nil, err
	}

	return &APIServer{
		dbProvider:       dbProvider,
		uploadProvider:   uploadProvider,
		paymentsProvider: paymentsProvider,
		jwtManager:       jwtManager,
		logger:           logger,
	}, nil
}

// newUploadProvider resolves the configured upload backend,
// defaulting to the local filesystem
func newUploadProvider() (upload.Provider, error) {
	backend := "local"
	if value, ok := os.LookupEnv("UPLOAD_PROVIDER"); ok {
		backend = strings.ToLower(strings.TrimSpace(value))
	}

	switch backend {
	case "local":
		return local.NewProvider()
	case "s3":
		return s3.NewProvider()
	default:
		return nil, fmt.Errorf("unknown upload provider '%s' (expected 'local' or 's3')", backend)
	}
}

// Connect initializes the struct and all constituent components
func (a *APIServer) Connect(ctx context.Context) error {
	// Connect to the MongoDB database
	a.logger.Info().Msg("initializing MongoDB database provider")
	err := a.dbProvider.Connect(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("could not connect to the database")
		return err
	}
	a.logger.Info().Msg("successfully connected to and pinged the database")

	return nil
}

// Disconnect initializes the struct and all constituent components
func (a *APIServer) Disconnect(ctx context.Context) error {
	err := a.dbProvider.Disconnect(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("could not disconnect from the database")
		return err
	}
	a.logger.Info().Msg("disconnected from the database")

	return nil
}

// Serve runs the main API server until it's cancelled for some reason,
// in which case it attempts to gracefully shutdown.
// This function blocks.
func (a *APIServer) Serve(ctx context.Context, port int) {
	a.startedAt = time.Now()
	router := a.routes()
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Fatal().Err(err).Msg("listen failed")
		}
	}()
	a.logger.Info().Int("port", port).Msg("API server started")

	<-ctx.Done()
	uptime := durafmt.Parse(time.Since(a.startedAt)).LimitFirstN(2).String()
	a.logger.Info().Str("uptime", uptime).Msg("API server stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer func() {
		cancel()
	}()

	if err := server.Shutdown(ctx); err != nil {
		a.logger.Fatal().Err(err).Msg("API server shutdown failed")
	}
	a.logger.Info().Msg("API server exited properly")
}

func (a *APIServer) routes() *chi.Mux {
	// Approach from:
	// https://itnext.io/structuring-a-production-grade-rest-api-in-golang-c0229b3feedc
	// https://itnext.io/how-i-pass-around-shared-resources-databases-configuration-etc-within-golang-projects-b27af4d8e8a
	router := chi.NewRouter()
	router.Use(
		middleware.Recoverer,                          // Recover from panics without crashing the server
		chizerolog.LoggerMiddleware(&a.logger),        // Log API request calls
		middleware.RedirectSlashes,                    // Redirect slashes to no slash URL versions
		render.SetContentType(render.ContentTypeJSON), // Set content-type headers to application/json
		middleware.Compress(5),                        // Compress results, mostly gzipping assets and json
		middleware.NoCache,                            // Prevent clients from caching the results
		a.corsMiddleware(),                            // Create cors middleware from go-chi/cors
	)

	// Locally stored uploads are served directly
	if localProvider, ok := a.uploadProvider.(*local.Provider); ok {
		fileServer := http.FileServer(http.Dir(localProvider.Directory()))
		router.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))
	}

	// ==============================
	// Add all routes to the API here
	// ==============================
	router.Route("/v1", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			// Can be used for health checks
			r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(204)
			})

			r.Mount("/auth", apiSession.Routes(a.dbProvider, a.jwtManager))
			r.Mount("/users", users.Routes(a.dbProvider))
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			// Seek, verify and validate JWT tokens,
			// sending appropriate status codes upon failure.
			// Note that this does not perform *authorization* checks involving roles;
			// if needed, use auth.AdminAuthenticated or auth.ExpertAuthenticated
			r.Use(a.jwtManager.Authenticated())

			r.Mount("/fsr", submissions.Routes(a.dbProvider))
			r.Mount("/foods", foods.Routes(a.dbProvider, a.uploadProvider))
			r.Mount("/recipes", recipes.Routes(a.dbProvider))
			r.Mount("/elder-donations", elderdonations.Routes(a.dbProvider))
			r.Mount("/school-donations", schooldonations.Routes(a.dbProvider, a.uploadProvider))
			r.Mount("/user", subscriptions.Routes(a.paymentsProvider))
		})
	})

	return router
}

func (a *APIServer) corsMiddleware() func(http.Handler) http.Handler {
	// See if the CORS_ALLOWED_ORIGINS environment variable was set
	allowedOrigins := "*"
	if value, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok {
		allowedOrigins = value
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
