package http

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/pizzastore/pizzastore/domain/permission"
	"github.com/pizzastore/pizzastore/infrastructure/http/handler"
	"github.com/pizzastore/pizzastore/infrastructure/http/middleware"
	"github.com/pizzastore/pizzastore/infrastructure/http/response"
	"github.com/pizzastore/pizzastore/infrastructure/service/logger"
	"github.com/pizzastore/pizzastore/infrastructure/service/metrics"
)

const staticImagePrefix = "/static/img/"

type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// RouterConfig lists everything the router wires. Metrics, RateLimit,
// Throttle, TrustedProxies and CORS are optional.
type RouterConfig struct {
	AuthHandler     *handler.AuthHandler
	CategoryHandler *handler.CategoryHandler
	ProductHandler  *handler.ProductHandler
	UserHandler     *handler.UserHandler
	AuthMiddleware  *middleware.AuthMiddleware
	RateLimit       *middleware.RateLimitMiddleware
	Throttle        middleware.IPLimiter
	TrustedProxies  *middleware.TrustedProxies
	Metrics         *metrics.Metrics
	CORS            *CORSConfig
	ImageDir        string
	Logger          logger.Logger
}

// NewRouter builds the API handler including its middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Instrument)
	}

	limited := func(scope string, h http.HandlerFunc) http.Handler {
		if cfg.RateLimit == nil {
			return h
		}
		return cfg.RateLimit.Limit(scope)(h)
	}
	protected := func(h http.HandlerFunc, perms ...permission.Permission) http.Handler {
		return cfg.AuthMiddleware.RequirePermissions(perms...)(h)
	}

	auth := router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/sign-up", cfg.AuthHandler.SignUp).Methods(http.MethodPost)
	auth.Handle("/sign-in", limited("sign_in", cfg.AuthHandler.SignIn)).Methods(http.MethodPost)
	auth.Handle("/refresh", limited("refresh", cfg.AuthHandler.Refresh)).Methods(http.MethodGet)
	auth.Handle("/sign-out", protected(cfg.AuthHandler.SignOut)).Methods(http.MethodPost)
	auth.Handle("/me", protected(cfg.AuthHandler.Me)).Methods(http.MethodGet)

	router.HandleFunc("/category", cfg.CategoryHandler.List).Methods(http.MethodGet)
	router.Handle("/category", protected(cfg.CategoryHandler.Create, permission.CategoryCreate)).Methods(http.MethodPost)
	router.Handle("/category/{id:[0-9]+}", protected(cfg.CategoryHandler.Delete, permission.CategoryDelete)).Methods(http.MethodDelete)

	router.HandleFunc("/product", cfg.ProductHandler.List).Methods(http.MethodGet)
	router.Handle("/product", protected(cfg.ProductHandler.Create, permission.ProductCreate)).Methods(http.MethodPost)
	router.Handle("/product/{id:[0-9]+}", protected(cfg.ProductHandler.Delete, permission.ProductDelete)).Methods(http.MethodDelete)

	router.Handle("/users/{id}", protected(cfg.UserHandler.Delete, permission.UserDelete)).Methods(http.MethodDelete)

	router.PathPrefix(staticImagePrefix).Handler(staticImages(cfg.ImageDir)).Methods(http.MethodGet, http.MethodHead)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	var h http.Handler = router
	if cfg.CORS != nil {
		h = middleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowCredentials)(h)
	}
	if cfg.Throttle != nil {
		h = middleware.Throttle(cfg.Throttle)(h)
	}
	h = middleware.RequestLogger(cfg.Logger)(h)
	h = middleware.Recovery(cfg.Logger)(h)
	h = middleware.ClientAddress(cfg.TrustedProxies)(h)
	return middleware.CorrelationIDMiddleware(h)
}

// staticImages serves stored product images without directory listings.
func staticImages(dir string) http.Handler {
	files := http.StripPrefix(staticImagePrefix, http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			response.NotFound(w, "Not found")
			return
		}
		files.ServeHTTP(w, r)
	})
}
