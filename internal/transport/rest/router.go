package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/order-admin/internal/auth"
	"github.com/frahmantamala/order-admin/internal/lookup"
	"github.com/frahmantamala/order-admin/internal/order"
	"github.com/frahmantamala/order-admin/internal/transport/middleware"
	"github.com/frahmantamala/order-admin/internal/transport/swagger"
	"github.com/frahmantamala/order-admin/internal/upload"
	"github.com/frahmantamala/order-admin/internal/user"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// APIPrefix is where the admin UI expects the JSON API.
const APIPrefix = "/api"

// Handlers groups the HTTP handlers the router mounts. Nil handlers leave
// their routes out.
type Handlers struct {
	Auth   *auth.Handler
	User   *user.Handler
	Order  *order.Handler
	Lookup *lookup.Handler
	Upload *upload.Handler
	Health *HealthHandler
}

type Options struct {
	AllowedOrigins string
	// UploadDir and UploadPrefix expose stored uploads as static files.
	UploadDir    string
	UploadPrefix string
	OpenAPI      *openapi3.T
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	// Apply global middleware
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if opts.OpenAPI != nil {
		router.Method(http.MethodGet, swagger.SpecURL, swagger.SpecHandler(opts.OpenAPI))
		router.Handle("/swagger/*", swagger.Handler())
	}

	if opts.UploadDir != "" && opts.UploadPrefix != "" {
		files := http.StripPrefix(opts.UploadPrefix, http.FileServer(http.Dir(opts.UploadDir)))
		router.Handle(opts.UploadPrefix+"/*", noDirListing(files))
	}

	router.Route(APIPrefix, func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", h.Auth.Login)
			ar.Post("/logout", h.Auth.Logout)
			ar.With(h.Auth.AuthMiddleware).Get("/me", h.Auth.Me)
		})

		// Every other route needs a session; mutations need management.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Route("/users", func(ur chi.Router) {
					ur.Get("/", h.User.ListUsers)
					ur.Get("/{id}", h.User.GetUser)

					ur.Group(func(mr chi.Router) {
						mr.Use(h.Auth.RequireManagement)
						mr.Post("/", h.User.CreateUser)
						mr.Put("/", h.User.UpdateUser)
						mr.Delete("/", h.User.DeleteUsers)
					})
				})
			}

			if h.Order != nil {
				pr.Route("/orders", func(or chi.Router) {
					or.Get("/", h.Order.ListOrders)
					or.Get("/{orderId}", h.Order.GetOrder)
					or.Get("/{orderId}/products", h.Order.ListProducts)

					or.Group(func(mr chi.Router) {
						mr.Use(h.Auth.RequireManagement)
						mr.Post("/", h.Order.CreateOrder)
						mr.Put("/", h.Order.UpdateOrder)
						mr.Delete("/", h.Order.DeleteOrders)

						mr.Post("/{orderId}/products", h.Order.CreateProduct)
						mr.Put("/{orderId}/products", h.Order.UpdateProduct)
						mr.Delete("/{orderId}/products", h.Order.DeleteProduct)
					})
				})
			}

			if h.Lookup != nil {
				pr.Get("/lookups", h.Lookup.GetLookups)
				pr.Get("/lookups/{kind}", h.Lookup.GetLookup)
			}

			if h.Upload != nil {
				pr.With(h.Auth.RequireManagement).Post("/upload", h.Upload.Upload)
			}
		})
	})
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
