package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/anandMohanan/staybase/internal/application/usecase"
	"github.com/anandMohanan/staybase/pkg/auth"
	"github.com/anandMohanan/staybase/pkg/observability"
)

// UseCases bundles the application services the HTTP layer exposes.
type UseCases struct {
	ListCustomers   *usecase.ListCustomersUseCase
	UploadCustomers *usecase.UploadCustomersUseCase
	ConnectStore    *usecase.ConnectStoreUseCase
	DisconnectStore *usecase.DisconnectStoreUseCase
	HandleWebhook   *usecase.HandleWebhookUseCase
	CreateCampaign  *usecase.CreateCampaignUseCase
	ListCampaigns   *usecase.ListCampaignsUseCase
	PreviewAudience *usecase.PreviewAudienceUseCase
}

// Server is the HTTP front of the service.
type Server struct {
	usecases     UseCases
	jwtService   *auth.JWTService
	metrics      *observability.Metrics
	authorizeURL func(shopDomain, redirectURI string) string
	callbackURL  string
	logger       *slog.Logger
}

// NewServer creates a Server. authorizeURL builds the merchant-facing OAuth
// URL for a shop; callbackURL is where the store redirects after approval.
func NewServer(
	usecases UseCases,
	jwtService *auth.JWTService,
	metrics *observability.Metrics,
	authorizeURL func(shopDomain, redirectURI string) string,
	callbackURL string,
	logger *slog.Logger,
) *Server {
	return &Server{
		usecases:     usecases,
		jwtService:   jwtService,
		metrics:      metrics,
		authorizeURL: authorizeURL,
		callbackURL:  callbackURL,
		logger:       logger,
	}
}

// Router wires all routes. The webhook intake is deliberately outside the
// authenticated group: deliveries authenticate with their HMAC signature, not
// a bearer token.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/shopify/webhook", s.handleWebhook)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.jwtService))

			r.Get("/customers", s.handleListCustomers)
			r.Post("/customers/upload", s.handleUploadCustomers)

			r.Get("/shopify/auth", s.handleShopifyAuth)
			r.Get("/shopify/callback", s.handleShopifyCallback)
			r.Post("/shopify/disconnect", s.handleShopifyDisconnect)

			r.Post("/campaigns", s.handleCreateCampaign)
			r.Get("/campaigns", s.handleListCampaigns)
			r.Get("/campaigns/{campaignID}/audience", s.handlePreviewAudience)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger logs one line per request with status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
