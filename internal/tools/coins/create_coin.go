package coins

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mark3labs/mcp-go/mcp"

	"zoracoin/internal/domain/coin"
	"zoracoin/internal/events"
	"zoracoin/internal/tools"
	"zoracoin/internal/tools/shared"
	"zoracoin/pkg/errors"
)

const labelCreateCoin = "Error creating coin: "

type createCoinRequest struct {
	Name             string   `mapstructure:"name"`
	Symbol           string   `mapstructure:"symbol"`
	URI              string   `mapstructure:"uri"`
	ChainID          *int64   `mapstructure:"chainId"`
	Owners           []string `mapstructure:"owners"`
	PayoutRecipient  string   `mapstructure:"payoutRecipient"`
	PlatformReferrer *string  `mapstructure:"platformReferrer"`
	Currency         *int64   `mapstructure:"currency"`
}

func (r *createCoinRequest) Validate() error {
	required := []struct{ field, value string }{
		{"name", r.Name},
		{"symbol", r.Symbol},
		{"uri", r.URI},
		{"payoutRecipient", r.PayoutRecipient},
	}
	for _, f := range required {
		if err := shared.RequireString(f.field, f.value); err != nil {
			return err
		}
	}
	if r.ChainID != nil && *r.ChainID <= 0 {
		return errors.NewValidationError("chainId", "must be a positive integer", *r.ChainID)
	}
	if r.Currency != nil && !coin.DeployCurrency(*r.Currency).Valid() {
		return errors.NewValidationError("currency", "must be 1 (ZORA) or 2 (ETH)", *r.Currency)
	}
	return nil
}

func (r *createCoinRequest) toArgs() (coin.CreateCoinArgs, error) {
	args := coin.CreateCoinArgs{
		Name:    r.Name,
		Symbol:  r.Symbol,
		URI:     r.URI,
		ChainID: coin.BaseMainnetChainID,
	}
	if r.ChainID != nil {
		args.ChainID = *r.ChainID
	}
	if r.Currency != nil {
		args.Currency = coin.DeployCurrency(*r.Currency)
	}

	var err error
	if args.PayoutRecipient, err = shared.ParseAddress("payoutRecipient", r.PayoutRecipient); err != nil {
		return args, err
	}
	if args.PlatformReferrer, err = shared.ParseOptionalAddress("platformReferrer", r.PlatformReferrer); err != nil {
		return args, err
	}
	if len(r.Owners) > 0 {
		args.Owners = make([]common.Address, 0, len(r.Owners))
		for i, owner := range r.Owners {
			addr, err := shared.ParseAddress(fmt.Sprintf("owners[%d]", i), owner)
			if err != nil {
				return args, err
			}
			args.Owners = append(args.Owners, addr)
		}
	}
	return args, nil
}

type createCoinOutput struct {
	Hash    string  `json:"hash" jsonschema_description:"Transaction hash"`
	Address *string `json:"address" jsonschema:"oneof_type=string;null" jsonschema_description:"Deployed coin address or null if pending"`
}

// NewCreateCoinTool deploys a coin from the process identity
func NewCreateCoinTool(deps shared.Deps) tools.Tool {
	meta, _ := tools.LookupDefinition(tools.NameCreateCoin)
	opts := append(meta.Options(),
		mcp.WithString("name", mcp.Required(), mcp.MinLength(1), mcp.Description("Coin name")),
		mcp.WithString("symbol", mcp.Required(), mcp.MinLength(1), mcp.Description("Ticker symbol")),
		mcp.WithString("uri", mcp.Required(), mcp.MinLength(1), mcp.Description("Metadata URI, e.g. ipfs://...")),
		mcp.WithNumber("chainId", shared.Integer(), mcp.Description("Chain to deploy on. Defaults to Base mainnet (8453)")),
		mcp.WithArray("owners", mcp.WithStringItems(), mcp.Description("Owner addresses. Defaults to the payout recipient")),
		mcp.WithString("payoutRecipient", mcp.Required(), mcp.MinLength(1), mcp.Description("Address receiving creator rewards")),
		mcp.WithString("platformReferrer", mcp.Description("Platform referrer address")),
		mcp.WithNumber("currency", shared.IntegerEnum(int(coin.DeployCurrencyZORA), int(coin.DeployCurrencyETH)), mcp.Description("Pool currency: 1 = ZORA, 2 = ETH")),
		mcp.WithOutputSchema[createCoinOutput](),
	)

	return tools.New(mcp.NewTool(tools.NameCreateCoin, opts...), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var in createCoinRequest
		if err := shared.Bind(req, &in); err != nil {
			deps.Log.Warnw("Tool: createCoin rejected", "error", err)
			return nil, err
		}
		args, err := in.toArgs()
		if err != nil {
			deps.Log.Warnw("Tool: createCoin rejected", "error", err)
			return nil, err
		}

		deps.Log.Debugw("Tool: createCoin called", "symbol", args.Symbol, "chain_id", args.ChainID)

		result, err := deps.SDK.CreateCoin(ctx, args, deps.Wallet, deps.Public)
		if err == nil && result == nil {
			err = errors.Wrap(errors.ErrInternal, "coin sdk returned no result")
		}
		if err != nil {
			deps.Log.Warnw("Tool: createCoin failed", "symbol", args.Symbol, "error", err)
			return shared.InBandError(labelCreateCoin, deps.Describe, err), nil
		}

		event := events.NewCoinCreatedEvent(shared.InvocationID(ctx), args, result)
		shared.PublishDetached(ctx, deps.Log, func(ctx context.Context) error {
			return deps.Events.PublishCoinCreated(ctx, event)
		}, "tool", tools.NameCreateCoin, "tx", result.Hash.Hex())

		out := createCoinOutput{Hash: result.Hash.Hex()}
		address := "pending..."
		if result.Address != nil {
			hex := result.Address.Hex()
			out.Address = &hex
			address = hex
		}

		deps.Log.Infow("Tool: createCoin success", "tx", out.Hash, "coin", address)
		return shared.Success(fmt.Sprintf("Hash: %s\nAddress: %s", out.Hash, address), out), nil
	})
}
