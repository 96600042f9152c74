package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/catalog"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/customer"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/models/order"
	createorder "github.com/mlylp/Catlogodeprodutospeixaria/internal/transport/http/create_order"
	getcatalog "github.com/mlylp/Catlogodeprodutospeixaria/internal/transport/http/get_catalog"
	getcustomer "github.com/mlylp/Catlogodeprodutospeixaria/internal/transport/http/get_customer"
	getorder "github.com/mlylp/Catlogodeprodutospeixaria/internal/transport/http/get_order"
	"github.com/mlylp/Catlogodeprodutospeixaria/internal/transport/http/health"
	listorders "github.com/mlylp/Catlogodeprodutospeixaria/internal/transport/http/list_orders"
	updatestatus "github.com/mlylp/Catlogodeprodutospeixaria/internal/transport/http/update_status"
	"github.com/mlylp/Catlogodeprodutospeixaria/pkg/http/middleware/auth"
	"github.com/mlylp/Catlogodeprodutospeixaria/pkg/http/middleware/trace"
	"github.com/mlylp/Catlogodeprodutospeixaria/pkg/logger"
	"github.com/mlylp/Catlogodeprodutospeixaria/pkg/metrics"
	"github.com/spf13/viper"
)

type service interface {
	SubmitOrder(ctx context.Context, sub order.Submission) (string, error)
	GetOrderStatus(ctx context.Context, orderID string) (order.Order, error)
	ListRecentOrders(ctx context.Context, limit int) ([]order.Order, error)
	ChangeStatus(ctx context.Context, orderID string, status order.Status) (order.Order, error)
	LookupCustomer(ctx context.Context, phone string) (customer.Customer, []order.Order, error)
}

type HTTPTransport struct {
	server    *http.Server
	router    *chi.Mux
	service   service
	catalog   catalog.Catalog
	metrics   *metrics.Registry
	authToken string
}

// option is a function that configures the HTTPTransport.
type option func(*HTTPTransport)

// WithCatalog sets the catalog served under /api/catalog.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalog(c catalog.Catalog) option {
	return func(h *HTTPTransport) {
		h.catalog = c
	}
}

// WithMetrics enables request metrics and the /metrics endpoint.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMetrics(m *metrics.Registry) option {
	return func(h *HTTPTransport) {
		h.metrics = m
	}
}

// WithAuthToken sets the bearer token required on /api routes.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuthToken(token string) option {
	return func(h *HTTPTransport) {
		h.authToken = token
	}
}

func NewHTTPTransport(service service, opts ...option) *HTTPTransport {
	h := &HTTPTransport{
		service: service,
		catalog: catalog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.router = newRouter(h.metrics)
	h.server = newServer(h.router)

	return h
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	if h.authToken == "" {
		slog.Warn("No API token configured, /api routes are unauthenticated")
	}

	h.router.Get("/health", health.Health)
	if h.metrics != nil {
		h.router.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	h.router.Route("/api", func(r chi.Router) {
		r.Use(auth.NewBearerMiddleware(h.authToken))

		r.Get("/health", health.Health)
		r.Get("/catalog", h.getCatalog)
		r.Post("/orders", h.createOrder)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{orderId}", h.getOrder)
		r.Patch("/orders/{orderId}/status", h.updateStatus)
		r.Get("/customers/{phone}", h.getCustomer)
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.service)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.service)
}

func (h *HTTPTransport) updateStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateStatus(w, r, h.service)
}

func (h *HTTPTransport) getCustomer(w http.ResponseWriter, r *http.Request) {
	getcustomer.GetCustomer(w, r, h.service)
}

func (h *HTTPTransport) getCatalog(w http.ResponseWriter, r *http.Request) {
	getcatalog.GetCatalog(w, r, h.catalog)
}

func newRouter(m *metrics.Registry) *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	if m != nil {
		router.Use(m.Middleware)
	}
	router.Use(middleware.Recoverer)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
