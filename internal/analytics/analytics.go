// Package analytics derives turnover figures from an inventory snapshot.
// All functions are pure; they never touch the store.
package analytics

import (
	"math"
	"sort"

	"github.com/apparelops/lot-tracker/internal/models"
)

// Performance tiers by turnover rate.
const (
	TierHigh   = "High"
	TierMedium = "Medium"
	TierLow    = "Low"
)

// DefaultTopN is how many top sellers Summarize-adjacent endpoints return
// when the caller does not ask for a specific count.
const DefaultTopN = 5

type Summary struct {
	TotalProducts int     `json:"total_products"`
	TotalStock    int     `json:"total_stock"`
	TotalSold     int     `json:"total_sold"`
	TurnoverPct   float64 `json:"turnover_pct"`
}

type ProductPerformance struct {
	Code        string  `json:"code"`
	Design      string  `json:"design"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
	Stock       int     `json:"stock"`
	Sold        int     `json:"sold"`
	TurnoverPct float64 `json:"turnover_pct"`
	Tier        string  `json:"tier"`
}

// TurnoverPct is sold / (stock + sold) as a percentage, rounded to one
// decimal place. Zero when nothing has moved.
func TurnoverPct(stock, sold int) float64 {
	total := stock + sold
	if total <= 0 {
		return 0
	}
	return math.Round(float64(sold)/float64(total)*1000) / 10
}

// Tier buckets a turnover rate into High (>60), Medium (>30) or Low.
func Tier(rate float64) string {
	switch {
	case rate > 60:
		return TierHigh
	case rate > 30:
		return TierMedium
	default:
		return TierLow
	}
}

// Summarize computes the aggregate figures for a snapshot.
func Summarize(products []models.Product) Summary {
	s := Summary{TotalProducts: len(products)}
	for _, p := range products {
		s.TotalStock += p.Stock
		s.TotalSold += p.Sold
	}
	s.TurnoverPct = TurnoverPct(s.TotalStock, s.TotalSold)
	return s
}

// TopSellers returns the top n products by units sold, descending. The
// sort is stable, so ties keep their collection order. n <= 0 falls back
// to DefaultTopN.
func TopSellers(products []models.Product, n int) []models.Product {
	if n <= 0 {
		n = DefaultTopN
	}

	out := make([]models.Product, len(products))
	copy(out, products)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sold > out[j].Sold })

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Performance computes the per-product turnover rate and tier.
func Performance(products []models.Product) []ProductPerformance {
	out := make([]ProductPerformance, len(products))
	for i, p := range products {
		rate := TurnoverPct(p.Stock, p.Sold)
		out[i] = ProductPerformance{
			Code:        p.Code,
			Design:      p.Design,
			Size:        p.Size,
			Color:       p.Color,
			Stock:       p.Stock,
			Sold:        p.Sold,
			TurnoverPct: rate,
			Tier:        Tier(rate),
		}
	}
	return out
}
