package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/apparelops/lot-tracker/internal/http/handlers"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Post("/register", handlers.RegisterHandler)
	r.Post("/login", handlers.LoginHandler)

	r.Get("/products", handlers.GetProductsHandler)
	r.Get("/products/search", handlers.SearchProductsHandler)
	r.Get("/products/{code}", handlers.GetProductByCodeHandler)
	r.Get("/products/{code}/labels", handlers.GetLabelSheetHandler)
	r.Get("/products/{code}/labels/layout", handlers.GetLabelLayoutHandler)
	r.Get("/products/{code}/code.png", handlers.GetCodeImageHandler)

	r.Get("/analytics/summary", handlers.GetAnalyticsSummaryHandler)
	r.Get("/analytics/top-sellers", handlers.GetTopSellersHandler)
	r.Get("/analytics/performance", handlers.GetPerformanceHandler)
	r.Get("/analytics/trends", handlers.GetTrendsHandler)

	r.Get("/scan/sessions/{id}", handlers.GetScanSessionHandler)
	r.With(RateLimitMiddleware).Post("/scan/sessions/{id}/decodes", handlers.FeedDecodeHandler)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware)
		r.Post("/products", handlers.AddProductHandler)
		r.Post("/products/{code}/sell", handlers.SellProductHandler)
		r.Post("/scan/sessions", handlers.StartScanSessionHandler)
		r.Delete("/scan/sessions/{id}", handlers.StopScanSessionHandler)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
