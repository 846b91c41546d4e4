package shared

import (
	"zoracoin/internal/chain"
	"zoracoin/internal/domain/coin"
	"zoracoin/internal/events"
	"zoracoin/pkg/logger"
)

// Deps bundles dependencies required by concrete tool implementations.
// Everything here is shared by concurrent calls and never mutated after construction.
type Deps struct {
	SDK      coin.SDK
	Wallet   *chain.WalletClient
	Public   *chain.PublicClient
	Describe coin.Describer
	Events   events.CoinPublisher
	Log      *logger.Logger
}

// WithDefaults fills optional collaborators with no-op implementations
func (d Deps) WithDefaults() Deps {
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	if d.Events == nil {
		d.Events = events.NoopPublisher{}
	}
	if d.Describe == nil {
		d.Describe = func(err error) string { return err.Error() }
	}
	return d
}
