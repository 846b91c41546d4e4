package coin

import (
	"context"

	"zoracoin/internal/chain"
)

// SDK is the boundary to the coin protocol. Implementations perform exactly
// one delegated operation per call and never retry.
type SDK interface {
	// CreateCoin deploys a coin and waits for the deployment receipt
	CreateCoin(ctx context.Context, args CreateCoinArgs, wallet *chain.WalletClient, public *chain.PublicClient) (*CreateCoinResult, error)

	// TradeCoin buys or sells a coin and waits for the trade receipt
	TradeCoin(ctx context.Context, params TradeParams, wallet *chain.WalletClient, public *chain.PublicClient) (*TradeResult, error)

	// OnchainCoinDetails reads market, pool, ownership and payout data
	OnchainCoinDetails(ctx context.Context, query DetailsQuery, public *chain.PublicClient) (*OnchainDetails, error)

	// ProfileBalances lists the coins held by an address or handle
	ProfileBalances(ctx context.Context, query BalancesQuery) (*ProfileBalances, error)
}

// Describer turns a failure from an SDK into user-facing text
type Describer func(err error) string
