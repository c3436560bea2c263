package analytics

import (
	"math"
	"math/rand"
)

// TrendPoint is one step of a trend or forecast series.
type TrendPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// TrendSource produces trend and forecast series for the dashboard.
type TrendSource interface {
	Trend(periods []string) []TrendPoint
	Forecast(periods []string) []TrendPoint
}

// StubTrendSource generates synthetic placeholder series. It exists so the
// dashboard has something to draw; the numbers carry no predictive meaning
// and should not be read as analytics.
type StubTrendSource struct {
	rand *rand.Rand
}

func NewStubTrendSource(seed uint64) *StubTrendSource {
	return &StubTrendSource{rand: rand.New(rand.NewSource(int64(seed)))}
}

func (s *StubTrendSource) Trend(periods []string) []TrendPoint {
	return s.series(periods, 100)
}

func (s *StubTrendSource) Forecast(periods []string) []TrendPoint {
	return s.series(periods, 150)
}

func (s *StubTrendSource) series(periods []string, scale float64) []TrendPoint {
	out := make([]TrendPoint, len(periods))
	for i, period := range periods {
		out[i] = TrendPoint{Period: period, Value: math.Round(s.rand.Float64()*scale*10) / 10}
	}
	return out
}
