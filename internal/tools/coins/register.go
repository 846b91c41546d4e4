package coins

import (
	"zoracoin/internal/tools"
	"zoracoin/internal/tools/shared"
)

// RegisterAll adds the four coin tools to registry
func RegisterAll(registry *tools.Registry, deps shared.Deps) {
	deps = deps.WithDefaults()

	registry.Register(NewCreateCoinTool(deps))
	registry.Register(NewTradeCoinTool(deps))
	registry.Register(NewFetchCoinDetailsTool(deps))
	registry.Register(NewGetProfileBalancesTool(deps))
}
