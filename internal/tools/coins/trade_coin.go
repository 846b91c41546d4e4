package coins

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"zoracoin/internal/domain/coin"
	"zoracoin/internal/events"
	"zoracoin/internal/tools"
	"zoracoin/internal/tools/shared"
	"zoracoin/pkg/errors"
)

const labelTradeCoin = "Error trading coin: "

type tradeCoinRequest struct {
	Direction string          `mapstructure:"direction"`
	Target    string          `mapstructure:"target"`
	Args      tradeCoinFields `mapstructure:"args"`
}

type tradeCoinFields struct {
	Recipient     string      `mapstructure:"recipient"`
	OrderSize     string      `mapstructure:"orderSize"`
	MinAmountOut  interface{} `mapstructure:"minAmountOut"`
	TradeReferrer *string     `mapstructure:"tradeReferrer"`
}

func (r *tradeCoinRequest) Validate() error {
	if !coin.TradeDirection(r.Direction).Valid() {
		return errors.NewValidationError("direction", "must be buy or sell", r.Direction)
	}
	if err := shared.RequireString("target", r.Target); err != nil {
		return err
	}
	if err := shared.RequireString("args.recipient", r.Args.Recipient); err != nil {
		return err
	}
	return shared.RequireString("args.orderSize", r.Args.OrderSize)
}

func (r *tradeCoinRequest) toParams() (coin.TradeParams, error) {
	params := coin.TradeParams{Direction: coin.TradeDirection(r.Direction)}

	var err error
	if params.Target, err = shared.ParseAddress("target", r.Target); err != nil {
		return params, err
	}
	if params.Args.Recipient, err = shared.ParseAddress("args.recipient", r.Args.Recipient); err != nil {
		return params, err
	}
	if params.Args.TradeReferrer, err = shared.ParseOptionalAddress("args.tradeReferrer", r.Args.TradeReferrer); err != nil {
		return params, err
	}
	if params.Args.MinAmountOut, err = shared.ParseBigInteger("args.minAmountOut", r.Args.MinAmountOut); err != nil {
		return params, err
	}

	params.Args.OrderSize, err = coin.ParseEther(r.Args.OrderSize)
	if err != nil {
		var vErr *errors.ValidationError
		if errors.As(err, &vErr) {
			return params, errors.NewValidationError("args.orderSize", vErr.Message, r.Args.OrderSize)
		}
		return params, err
	}
	return params, nil
}

type tradeCoinOutput struct {
	Hash string `json:"hash" jsonschema_description:"Transaction hash"`
}

// NewTradeCoinTool buys or sells a coin from the process identity
func NewTradeCoinTool(deps shared.Deps) tools.Tool {
	meta, _ := tools.LookupDefinition(tools.NameTradeCoin)
	opts := append(meta.Options(),
		mcp.WithString("direction", mcp.Required(), mcp.Enum(string(coin.TradeDirectionBuy), string(coin.TradeDirectionSell)), mcp.Description("Trade direction")),
		mcp.WithString("target", mcp.Required(), mcp.MinLength(1), mcp.Description("Coin contract address")),
		shared.WithRequiredObject("args", "Trade arguments", map[string]any{
			"recipient":     shared.StringProperty("Address receiving the output", 1),
			"orderSize":     shared.StringProperty("Amount in human units, e.g. \"0.1\" ETH for a buy", 1),
			"minAmountOut":  shared.BigIntegerProperty("Minimum output in minor units (slippage floor)"),
			"tradeReferrer": shared.StringProperty("Trade referrer address", 0),
		}, "recipient", "orderSize"),
		mcp.WithOutputSchema[tradeCoinOutput](),
	)

	return tools.New(mcp.NewTool(tools.NameTradeCoin, opts...), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var in tradeCoinRequest
		if err := shared.Bind(req, &in); err != nil {
			deps.Log.Warnw("Tool: tradeCoin rejected", "error", err)
			return nil, err
		}
		params, err := in.toParams()
		if err != nil {
			deps.Log.Warnw("Tool: tradeCoin rejected", "error", err)
			return nil, err
		}

		deps.Log.Debugw("Tool: tradeCoin called",
			"direction", params.Direction.String(),
			"target", params.Target.Hex(),
			"order_size", coin.FormatEther(params.Args.OrderSize),
		)

		result, err := deps.SDK.TradeCoin(ctx, params, deps.Wallet, deps.Public)
		if err == nil && result == nil {
			err = errors.Wrap(errors.ErrInternal, "coin sdk returned no result")
		}
		if err != nil {
			deps.Log.Warnw("Tool: tradeCoin failed", "target", params.Target.Hex(), "error", err)
			return shared.InBandError(labelTradeCoin, deps.Describe, err), nil
		}

		event := events.NewCoinTradedEvent(shared.InvocationID(ctx), params, result)
		shared.PublishDetached(ctx, deps.Log, func(ctx context.Context) error {
			return deps.Events.PublishCoinTraded(ctx, event)
		}, "tool", tools.NameTradeCoin, "tx", result.Hash.Hex())

		out := tradeCoinOutput{Hash: result.Hash.Hex()}
		deps.Log.Infow("Tool: tradeCoin success", "tx", out.Hash, "direction", params.Direction.String())
		return shared.Success(fmt.Sprintf("Trade executed!\nHash: %s", out.Hash), out), nil
	})
}
