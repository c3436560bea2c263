package handlers

import (
	"net/http"
	"strconv"

	"github.com/apparelops/lot-tracker/internal/analytics"
)

// GetAnalyticsSummaryHandler godoc
// @Summary Aggregate inventory figures
// @Tags analytics
// @Produce json
// @Success 200 {object} analytics.Summary
// @Router /analytics/summary [get]
func GetAnalyticsSummaryHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, analytics.Summarize(inventoryRepo.All()))
}

// GetTopSellersHandler godoc
// @Summary Top lots by units sold
// @Tags analytics
// @Produce json
// @Param n query int false "How many to return (default 5)"
// @Success 200 {array} ProductResponse
// @Failure 400 {string} string "Invalid n"
// @Router /analytics/top-sellers [get]
func GetTopSellersHandler(w http.ResponseWriter, r *http.Request) {
	n := 0
	if s := r.URL.Query().Get("n"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			http.Error(w, "n must be a positive integer", http.StatusBadRequest)
			return
		}
		n = v
	}

	top := analytics.TopSellers(inventoryRepo.All(), n)
	response := make([]ProductResponse, len(top))
	for i, p := range top {
		response[i] = toProductResponse(p, false)
	}
	writeJSON(w, http.StatusOK, response)
}

// GetPerformanceHandler godoc
// @Summary Per-lot turnover rate and performance tier
// @Tags analytics
// @Produce json
// @Success 200 {array} analytics.ProductPerformance
// @Router /analytics/performance [get]
func GetPerformanceHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, analytics.Performance(inventoryRepo.All()))
}

// GetTrendsHandler godoc
// @Summary Placeholder trend and forecast series
// @Description Synthetic series for the dashboard charts; not predictive
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string][]analytics.TrendPoint
// @Router /analytics/trends [get]
func GetTrendsHandler(w http.ResponseWriter, r *http.Request) {
	periods := []string{"W-5", "W-4", "W-3", "W-2", "W-1", "W0"}
	writeJSON(w, http.StatusOK, map[string][]analytics.TrendPoint{
		"trend":    trendSource.Trend(periods),
		"forecast": trendSource.Forecast(periods),
	})
}
