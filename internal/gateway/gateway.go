// Package gateway assembles the MCP server: signing identity, chain
// handles, the coin SDK and the four coin tools behind the middleware chain.
package gateway

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mark3labs/mcp-go/server"

	"zoracoin/internal/adapters/zora"
	"zoracoin/internal/chain"
	"zoracoin/internal/domain/coin"
	"zoracoin/internal/events"
	"zoracoin/internal/tools"
	"zoracoin/internal/tools/coins"
	"zoracoin/internal/tools/shared"
	"zoracoin/pkg/errors"
	"zoracoin/pkg/logger"
)

const (
	ServerName    = "zora-coin-mcp"
	ServerVersion = "1.0.0"
)

// Config carries the startup secret and endpoint
type Config struct {
	PrivateKey string
	RPCURL     string
	// ChainID the wallet signs for; zero means Base mainnet
	ChainID int64
}

// Option customizes collaborators of a Gateway
type Option func(*Gateway)

// WithSDK replaces the default coin SDK adapter
func WithSDK(sdk coin.SDK, describe coin.Describer) Option {
	return func(g *Gateway) {
		g.sdk = sdk
		g.describe = describe
	}
}

// WithPublisher publishes coin events after successful writes
func WithPublisher(p events.CoinPublisher) Option {
	return func(g *Gateway) { g.events = p }
}

// WithMiddleware wraps every tool; the first middleware is outermost
func WithMiddleware(mw ...tools.Middleware) Option {
	return func(g *Gateway) { g.middleware = append(g.middleware, mw...) }
}

// WithLogger sets the gateway logger
func WithLogger(log *logger.Logger) Option {
	return func(g *Gateway) { g.log = log }
}

// WithClients uses existing chain handles instead of dialing RPCURL
func WithClients(wallet *chain.WalletClient, public *chain.PublicClient) Option {
	return func(g *Gateway) {
		g.wallet = wallet
		g.public = public
	}
}

// Gateway is the MCP tool server for coin operations
type Gateway struct {
	identity *chain.Identity
	wallet   *chain.WalletClient
	public   *chain.PublicClient

	sdk        coin.SDK
	describe   coin.Describer
	events     events.CoinPublisher
	middleware []tools.Middleware
	log        *logger.Logger

	registry *tools.Registry
	server   *server.MCPServer

	httpOnce sync.Once
	http     *server.StreamableHTTPServer
}

// New validates the configuration, builds the identity and chain handles,
// then registers the coin tools. Nothing is registered when validation fails.
func New(ctx context.Context, cfg Config, opts ...Option) (*Gateway, error) {
	identity, err := chain.NewIdentity(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	if err := chain.ValidateEndpoint(cfg.RPCURL); err != nil {
		return nil, err
	}
	if cfg.ChainID == 0 {
		cfg.ChainID = coin.BaseMainnetChainID
	}

	g := &Gateway{identity: identity}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.NewNop()
	}

	if g.wallet == nil || g.public == nil {
		g.wallet, g.public, err = chain.Dial(ctx, cfg.RPCURL, cfg.ChainID, identity)
		if err != nil {
			return nil, err
		}
	}
	if g.wallet.Address() != identity.Address() {
		return nil, errors.NewConfigurationError("PRIVATE_KEY", "does not match the wallet client identity")
	}

	if g.sdk == nil {
		g.sdk = zora.New(zora.Config{}, g.log)
		g.describe = zora.Describe
	}

	g.registry = tools.NewRegistry()
	coins.RegisterAll(g.registry, shared.Deps{
		SDK:      g.sdk,
		Wallet:   g.wallet,
		Public:   g.public,
		Describe: g.describe,
		Events:   g.events,
		Log:      g.log.With("component", "tools"),
	})

	g.server = server.NewMCPServer(ServerName, ServerVersion,
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)
	g.registry.Mount(g.server, g.middleware...)

	g.log.Infow("Gateway ready",
		"signer", identity.Address().Hex(),
		"chain_id", cfg.ChainID,
		"tools", g.registry.List(),
	)
	return g, nil
}

// Server returns the MCP server with the coin tools mounted
func (g *Gateway) Server() *server.MCPServer {
	return g.server
}

// Tools returns the registered tool names
func (g *Gateway) Tools() []string {
	return g.registry.List()
}

// Catalog returns the metadata of every registered tool, sorted by name
func (g *Gateway) Catalog() []tools.Definition {
	names := g.registry.List()
	defs := make([]tools.Definition, 0, len(names))
	for _, name := range names {
		if def, ok := g.registry.GetMetadata(name); ok {
			defs = append(defs, def)
		}
	}
	return defs
}

// Signer is the account every write is signed by
func (g *Gateway) Signer() common.Address {
	return g.identity.Address()
}

// Public returns the read-only chain handle
func (g *Gateway) Public() *chain.PublicClient {
	return g.public
}

// ServeStdio serves newline-delimited JSON-RPC on in/out until ctx is done or in closes
func (g *Gateway) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(g.server)
	stdio.SetErrorLogger(g.log.StdLog())

	g.log.Infow("Serving MCP over stdio")
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "stdio transport")
	}
	return nil
}

// HTTPHandler returns the streamable HTTP transport
func (g *Gateway) HTTPHandler() http.Handler {
	g.httpOnce.Do(func() {
		g.http = server.NewStreamableHTTPServer(g.server, server.WithLogger(g.log))
	})
	return g.http
}

// Shutdown closes the HTTP transport sessions if it was created
func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.http == nil {
		return nil
	}
	return g.http.Shutdown(ctx)
}
