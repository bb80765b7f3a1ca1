package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/teamspend/internal/http/auth"
	"github.com/MrJamesThe3rd/teamspend/internal/http/category"
	"github.com/MrJamesThe3rd/teamspend/internal/http/expense"
	"github.com/MrJamesThe3rd/teamspend/internal/http/export"
	"github.com/MrJamesThe3rd/teamspend/internal/http/importcsv"
	"github.com/MrJamesThe3rd/teamspend/internal/http/respond"
	"github.com/MrJamesThe3rd/teamspend/internal/http/team"
	"github.com/MrJamesThe3rd/teamspend/internal/metrics"
)

type Options struct {
	// AuthSecret signs bearer tokens. Empty leaves the API open.
	AuthSecret     string
	AllowedOrigins []string
}

func New(
	teamsV1 *team.Handler,
	expensesV1 *expense.Handler,
	categoriesV1 *category.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
	opts Options,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(instrument)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.AuthSecret))

		r.Route("/teams", func(r chi.Router) {
			teamsV1.Routes(r)
			importV1.Routes(r)
			exportV1.Routes(r)
		})

		r.Route("/expenses", expensesV1.Routes)
		r.Route("/categories", categoriesV1.Routes)
	})

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.Fail(w, http.StatusNotFound, "route not found")
	})

	return router
}

// instrument records request counts and latencies by route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := strconv.Itoa(ww.Status())
		metrics.HTTPRequests.WithLabelValues(r.Method, route, status).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
	})
}
