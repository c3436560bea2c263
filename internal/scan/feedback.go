package scan

import (
	"time"

	"github.com/apparelops/lot-tracker/internal/models"
	"github.com/apparelops/lot-tracker/pkg/logger"
)

// LogFeedback emits the operator signals (accept, reject, countdown) as
// structured log events an operator console can subscribe to.
type LogFeedback struct {
	SessionID string
}

func (f LogFeedback) Accepted(p models.Product) {
	logger.Logger.Info().
		Str("session", f.SessionID).
		Str("code", p.Code).
		Int("stock", p.Stock).
		Int("sold", p.Sold).
		Msg("scan accepted")
}

func (f LogFeedback) Rejected(payload string, err error) {
	logger.Logger.Warn().
		Str("session", f.SessionID).
		Str("payload", payload).
		Err(err).
		Msg("scan rejected")
}

func (f LogFeedback) Countdown(remaining time.Duration) {
	logger.Logger.Debug().
		Str("session", f.SessionID).
		Dur("remaining", remaining).
		Msg("cooldown")
}
