package coin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BaseMainnetChainID is used when createCoin omits chainId
const BaseMainnetChainID int64 = 8453

// BaseSepoliaChainID is the Base testnet
const BaseSepoliaChainID int64 = 84532

// DeployCurrency selects the pool pairing of a new coin
type DeployCurrency int

const (
	DeployCurrencyDefault DeployCurrency = 0
	DeployCurrencyZORA    DeployCurrency = 1
	DeployCurrencyETH     DeployCurrency = 2
)

// Valid reports whether the value is one of the enumerated currencies
func (c DeployCurrency) Valid() bool {
	return c == DeployCurrencyZORA || c == DeployCurrencyETH
}

func (c DeployCurrency) String() string {
	switch c {
	case DeployCurrencyZORA:
		return "ZORA"
	case DeployCurrencyETH:
		return "ETH"
	default:
		return "default"
	}
}

// TradeDirection defines buy or sell
type TradeDirection string

const (
	TradeDirectionBuy  TradeDirection = "buy"
	TradeDirectionSell TradeDirection = "sell"
)

// Valid checks if direction is valid
func (d TradeDirection) Valid() bool {
	return d == TradeDirectionBuy || d == TradeDirectionSell
}

func (d TradeDirection) String() string {
	return string(d)
}

// CreateCoinArgs describes a coin deployment
type CreateCoinArgs struct {
	Name             string
	Symbol           string
	URI              string
	ChainID          int64
	Owners           []common.Address
	PayoutRecipient  common.Address
	PlatformReferrer common.Address // zero address when absent
	Currency         DeployCurrency
	InitialPurchase  *big.Int // wei sent with the deployment, nil for none
}

// CreateCoinResult is the outcome of a mined deployment.
// Address is nil when the deployment log could not be read.
type CreateCoinResult struct {
	Hash       common.Hash
	Address    *common.Address
	Deployment *Deployment
}

// Deployment mirrors the factory's CoinCreated log
type Deployment struct {
	Caller           common.Address
	PayoutRecipient  common.Address
	PlatformReferrer common.Address
	Currency         common.Address
	URI              string
	Name             string
	Symbol           string
	Coin             common.Address
	Pool             common.Address
	Version          string
}

// TradeParams describes a buy or sell against a coin contract
type TradeParams struct {
	Direction TradeDirection
	Target    common.Address
	Args      TradeArgs
}

// TradeArgs are the amounts and parties of a trade.
// OrderSize is in minor units (wei for buys, coin base units for sells).
type TradeArgs struct {
	Recipient     common.Address
	OrderSize     *big.Int
	MinAmountOut  *big.Int // nil means no slippage floor
	TradeReferrer common.Address
}

// TradeResult is the outcome of a mined trade.
// Trade is nil when no trade log was found in the receipt.
type TradeResult struct {
	Hash  common.Hash
	Trade *TradeEvent
}

// TradeEvent mirrors the coin's CoinBuy / CoinSell log
type TradeEvent struct {
	Direction      TradeDirection
	Trader         common.Address
	Recipient      common.Address
	TradeReferrer  common.Address
	CoinAmount     *big.Int
	Currency       common.Address
	Fee            *big.Int
	CurrencyAmount *big.Int
}

// DetailsQuery selects a coin and optionally a holder
type DetailsQuery struct {
	Coin common.Address
	User *common.Address
}

// Amount is an on-chain value denominated in the pool currency's minor units
type Amount struct {
	ETH *big.Int
}

// OnchainDetails combines market, pool, ownership and payout data.
// Balance is nil unless DetailsQuery.User was set.
type OnchainDetails struct {
	Balance         *big.Int
	MarketCap       Amount
	Liquidity       Amount
	Pool            common.Address
	Owners          []common.Address
	PayoutRecipient common.Address
}

// BalancesQuery pages through the coins held by a profile.
// Count and After are passed through untouched when set.
type BalancesQuery struct {
	Identifier string
	Count      *int
	After      *string
}
