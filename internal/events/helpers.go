package events

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"zoracoin/internal/domain/coin"
)

const eventVersion = "1.0"

// BaseEvent carries the envelope fields shared by every coin event
type BaseEvent struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	Source       string    `json:"source"`
	InvocationID string    `json:"invocation_id,omitempty"`
	Version      string    `json:"version"`
}

// CoinCreatedEvent is emitted after a deployment is mined
type CoinCreatedEvent struct {
	BaseEvent
	ChainID         int64  `json:"chain_id"`
	TxHash          string `json:"tx_hash"`
	Coin            string `json:"coin,omitempty"`
	Pool            string `json:"pool,omitempty"`
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	URI             string `json:"uri"`
	PayoutRecipient string `json:"payout_recipient"`
	Currency        string `json:"currency"`
}

// CoinTradedEvent is emitted after a trade is mined.
// Amounts are decimal strings in minor units.
type CoinTradedEvent struct {
	BaseEvent
	TxHash         string `json:"tx_hash"`
	Direction      string `json:"direction"`
	Coin           string `json:"coin"`
	Recipient      string `json:"recipient"`
	OrderSize      string `json:"order_size"`
	CoinAmount     string `json:"coin_amount,omitempty"`
	CurrencyAmount string `json:"currency_amount,omitempty"`
}

// NewBaseEvent creates a new base event with defaults
func NewBaseEvent(eventType, source, invocationID string) BaseEvent {
	return BaseEvent{
		ID:           uuid.NewString(),
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		Source:       source,
		InvocationID: invocationID,
		Version:      eventVersion,
	}
}

// NewCoinCreatedEvent builds the event for a mined deployment
func NewCoinCreatedEvent(invocationID string, args coin.CreateCoinArgs, result *coin.CreateCoinResult) *CoinCreatedEvent {
	ev := &CoinCreatedEvent{
		BaseEvent:       NewBaseEvent("coin.created", "createCoin", invocationID),
		ChainID:         args.ChainID,
		TxHash:          result.Hash.Hex(),
		Name:            SanitizeUTF8(args.Name),
		Symbol:          SanitizeUTF8(args.Symbol),
		URI:             SanitizeUTF8(args.URI),
		PayoutRecipient: args.PayoutRecipient.Hex(),
		Currency:        args.Currency.String(),
	}
	if result.Address != nil {
		ev.Coin = result.Address.Hex()
	}
	if result.Deployment != nil {
		ev.Pool = result.Deployment.Pool.Hex()
	}
	return ev
}

// NewCoinTradedEvent builds the event for a mined trade
func NewCoinTradedEvent(invocationID string, params coin.TradeParams, result *coin.TradeResult) *CoinTradedEvent {
	ev := &CoinTradedEvent{
		BaseEvent: NewBaseEvent("coin.traded", "tradeCoin", invocationID),
		TxHash:    result.Hash.Hex(),
		Direction: params.Direction.String(),
		Coin:      params.Target.Hex(),
		Recipient: params.Args.Recipient.Hex(),
		OrderSize: params.Args.OrderSize.String(),
	}
	if result.Trade != nil {
		if result.Trade.CoinAmount != nil {
			ev.CoinAmount = result.Trade.CoinAmount.String()
		}
		if result.Trade.CurrencyAmount != nil {
			ev.CurrencyAmount = result.Trade.CurrencyAmount.String()
		}
	}
	return ev
}

// SanitizeUTF8 drops invalid UTF-8 sequences so user-provided
// metadata can be JSON-encoded without replacement characters
func SanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}
