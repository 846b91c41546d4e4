package tools

import "github.com/mark3labs/mcp-go/mcp"

// Tool names
const (
	NameCreateCoin         = "createCoin"
	NameTradeCoin          = "tradeCoin"
	NameFetchCoinDetails   = "fetchCoinDetails"
	NameGetProfileBalances = "getProfileBalances"
)

// RiskLevel classifies what a tool can do to funds
type RiskLevel string

const (
	RiskLevelNone   RiskLevel = "none"   // read-only
	RiskLevelMedium RiskLevel = "medium" // signs a transaction
	RiskLevelHigh   RiskLevel = "high"   // moves funds
)

// Definition describes a tool's metadata for registration and documentation.
type Definition struct {
	Name        string
	Description string
	Category    string
	RiskLevel   RiskLevel
	// Signs reports whether the tool submits transactions from the process identity.
	Signs bool
}

var toolDefinitions = []Definition{
	{
		Name:        NameCreateCoin,
		Description: "Create a new zora coin. Use this tool to deploy a new coin to the zora network.",
		Category:    "coins",
		RiskLevel:   RiskLevelMedium,
		Signs:       true,
	},
	{
		Name:        NameTradeCoin,
		Description: "Use this tool to buy or sell a given zora coin. If you are not sure what details to provide, use the fetchCoinDetails tool to get the details of the coin.",
		Category:    "coins",
		RiskLevel:   RiskLevelHigh,
		Signs:       true,
	},
	{
		Name:        NameFetchCoinDetails,
		Description: "Fetch the details of a given zora coin. Useful for finding metadata about a coin.",
		Category:    "coins",
		RiskLevel:   RiskLevelNone,
	},
	{
		Name:        NameGetProfileBalances,
		Description: "Get the tokens owned by a given address or handle",
		Category:    "profiles",
		RiskLevel:   RiskLevelNone,
	},
}

// LookupDefinition finds a catalog entry by tool name.
func LookupDefinition(name string) (Definition, bool) {
	for _, d := range toolDefinitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Options returns the description and behavior annotations for mcp.NewTool.
func (d Definition) Options() []mcp.ToolOption {
	readOnly := d.RiskLevel == RiskLevelNone
	return []mcp.ToolOption{
		mcp.WithDescription(d.Description),
		mcp.WithReadOnlyHintAnnotation(readOnly),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(readOnly),
		mcp.WithOpenWorldHintAnnotation(true),
	}
}
