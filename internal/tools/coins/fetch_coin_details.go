package coins

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"zoracoin/internal/domain/coin"
	"zoracoin/internal/tools"
	"zoracoin/internal/tools/shared"
	"zoracoin/pkg/errors"
)

const labelFetchCoinDetails = "Error fetching coin details: "

type fetchCoinDetailsRequest struct {
	CoinAddress string  `mapstructure:"coinAddress"`
	UserAddress *string `mapstructure:"userAddress"`
}

func (r *fetchCoinDetailsRequest) Validate() error {
	return shared.RequireString("coinAddress", r.CoinAddress)
}

func (r *fetchCoinDetailsRequest) toQuery() (coin.DetailsQuery, error) {
	var query coin.DetailsQuery

	addr, err := shared.ParseAddress("coinAddress", r.CoinAddress)
	if err != nil {
		return query, err
	}
	query.Coin = addr

	if r.UserAddress != nil && *r.UserAddress != "" {
		user, err := shared.ParseAddress("userAddress", *r.UserAddress)
		if err != nil {
			return query, err
		}
		query.User = &user
	}
	return query, nil
}

type amountOutput struct {
	ETH string `json:"eth"`
}

type coinDetailsOutput struct {
	MarketCap       amountOutput `json:"marketCap"`
	Liquidity       amountOutput `json:"liquidity"`
	Pool            string       `json:"pool"`
	Owners          []string     `json:"owners"`
	PayoutRecipient string       `json:"payoutRecipient"`
	Balance         *string      `json:"balance,omitempty"`
}

func newCoinDetailsOutput(details *coin.OnchainDetails, withBalance bool) coinDetailsOutput {
	out := coinDetailsOutput{
		MarketCap:       amountOutput{ETH: decimalString(details.MarketCap.ETH)},
		Liquidity:       amountOutput{ETH: decimalString(details.Liquidity.ETH)},
		Pool:            details.Pool.Hex(),
		Owners:          make([]string, 0, len(details.Owners)),
		PayoutRecipient: details.PayoutRecipient.Hex(),
	}
	for _, owner := range details.Owners {
		out.Owners = append(out.Owners, owner.Hex())
	}
	if withBalance {
		balance := decimalString(details.Balance)
		out.Balance = &balance
	}
	return out
}

func (o coinDetailsOutput) text() string {
	var b strings.Builder
	b.WriteString("Coin Details:\n")
	fmt.Fprintf(&b, "Market Cap: ETH %s\n", o.MarketCap.ETH)
	fmt.Fprintf(&b, "Liquidity: ETH %s\n", o.Liquidity.ETH)
	fmt.Fprintf(&b, "Pool Address: %s\n", o.Pool)
	fmt.Fprintf(&b, "Owners: %s\n", strings.Join(o.Owners, ", "))
	fmt.Fprintf(&b, "Payout Recipient: %s\n", o.PayoutRecipient)
	if o.Balance != nil {
		fmt.Fprintf(&b, "User Balance: %s\n", *o.Balance)
	}
	return b.String()
}

// decimalString renders an on-chain amount exactly; nil reads as zero
func decimalString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// NewFetchCoinDetailsTool reads market and ownership data for a coin
func NewFetchCoinDetailsTool(deps shared.Deps) tools.Tool {
	meta, _ := tools.LookupDefinition(tools.NameFetchCoinDetails)
	opts := append(meta.Options(),
		mcp.WithString("coinAddress", mcp.Required(), mcp.MinLength(1), mcp.Description("Coin contract address")),
		mcp.WithString("userAddress", mcp.Description("Holder whose balance to include")),
		mcp.WithOutputSchema[coinDetailsOutput](),
	)

	return tools.New(mcp.NewTool(tools.NameFetchCoinDetails, opts...), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var in fetchCoinDetailsRequest
		if err := shared.Bind(req, &in); err != nil {
			deps.Log.Warnw("Tool: fetchCoinDetails rejected", "error", err)
			return nil, err
		}
		query, err := in.toQuery()
		if err != nil {
			deps.Log.Warnw("Tool: fetchCoinDetails rejected", "error", err)
			return nil, err
		}

		deps.Log.Debugw("Tool: fetchCoinDetails called", "coin", query.Coin.Hex(), "with_user", query.User != nil)

		details, err := deps.SDK.OnchainCoinDetails(ctx, query, deps.Public)
		if err == nil && details == nil {
			err = errors.Wrap(errors.ErrInternal, "coin sdk returned no details")
		}
		if err != nil {
			deps.Log.Warnw("Tool: fetchCoinDetails failed", "coin", query.Coin.Hex(), "error", err)
			return shared.InBandError(labelFetchCoinDetails, deps.Describe, err), nil
		}

		out := newCoinDetailsOutput(details, query.User != nil)
		return shared.Success(out.text(), out), nil
	})
}
