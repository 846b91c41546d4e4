package coins

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"zoracoin/internal/domain/coin"
	"zoracoin/internal/tools"
	"zoracoin/internal/tools/shared"
	"zoracoin/pkg/errors"
)

type getProfileBalancesRequest struct {
	Identifier string  `mapstructure:"identifier"`
	Count      *int    `mapstructure:"count"`
	After      *string `mapstructure:"after"`
}

func (r *getProfileBalancesRequest) Validate() error {
	return shared.RequireString("identifier", r.Identifier)
}

type profileBalancesOutput struct {
	ProfileBalances *coin.ProfileBalances `json:"profileBalances"`
}

// NewGetProfileBalancesTool lists coins held by an address or handle.
// Failures are returned to the caller as protocol errors, not as text.
func NewGetProfileBalancesTool(deps shared.Deps) tools.Tool {
	meta, _ := tools.LookupDefinition(tools.NameGetProfileBalances)
	opts := append(meta.Options(),
		mcp.WithString("identifier", mcp.Required(), mcp.MinLength(1), mcp.Description("Wallet address or profile handle")),
		mcp.WithNumber("count", shared.Integer(), mcp.Description("Page size")),
		mcp.WithString("after", mcp.Description("Pagination cursor from a previous page")),
		mcp.WithOutputSchema[profileBalancesOutput](),
	)

	return tools.New(mcp.NewTool(tools.NameGetProfileBalances, opts...), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var in getProfileBalancesRequest
		if err := shared.Bind(req, &in); err != nil {
			deps.Log.Warnw("Tool: getProfileBalances rejected", "error", err)
			return nil, err
		}

		deps.Log.Debugw("Tool: getProfileBalances called", "identifier", in.Identifier)

		balances, err := deps.SDK.ProfileBalances(ctx, coin.BalancesQuery{
			Identifier: in.Identifier,
			Count:      in.Count,
			After:      in.After,
		})
		if err == nil && balances == nil {
			err = errors.Wrap(errors.ErrInternal, "coin sdk returned no balances")
		}
		if err != nil {
			deps.Log.Warnw("Tool: getProfileBalances failed", "identifier", in.Identifier, "error", err)
			return nil, errors.Wrap(err, "Error fetching profile balances")
		}

		page := balances.Page()
		deps.Log.Debugw("Tool: getProfileBalances done", "identifier", in.Identifier, "edges", page.Edges, "has_next_page", page.HasNextPage)

		pretty, err := json.MarshalIndent(balances, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "encode profile balances")
		}

		out := profileBalancesOutput{ProfileBalances: balances}
		return shared.Success(fmt.Sprintf("Profile Balances for %s:\n%s", in.Identifier, pretty), out), nil
	})
}
