package activitylog

import (
	"context"
	"time"

	"github.com/kursadbilgin/feishu-order-notify/internal/domain"
)

const (
	DefaultLimit = 15
	DefaultTTL   = 3 * 24 * time.Hour
)

// Store is the bounded, expiring record of recent dispatch attempts.
// Entries are kept newest first; every Append renews the expiry of the whole log.
type Store interface {
	Append(ctx context.Context, outcome domain.DispatchOutcome) error
	ReadAll(ctx context.Context) ([]domain.DispatchOutcome, error)
	Clear(ctx context.Context) error
}
