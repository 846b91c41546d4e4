package chain

import (
	"context"
	"math/big"
	"net/url"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"zoracoin/pkg/errors"
)

// Backend is the subset of ethclient.Client the coin SDK needs.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// PublicClient is the read-only chain handle.
type PublicClient struct {
	backend Backend
	chainID *big.Int
}

// WalletClient submits transactions signed by the process identity.
type WalletClient struct {
	backend  Backend
	identity *Identity
	chainID  *big.Int
}

// Dial validates the endpoint and builds both client handles.
// For http(s) endpoints no request is made until the first call.
func Dial(ctx context.Context, rpcURL string, chainID int64, identity *Identity) (*WalletClient, *PublicClient, error) {
	if err := ValidateEndpoint(rpcURL); err != nil {
		return nil, nil, err
	}
	if identity == nil {
		return nil, nil, errors.NewConfigurationError("PRIVATE_KEY", "is not set")
	}
	if chainID <= 0 {
		return nil, nil, errors.NewConfigurationError("CHAIN_ID", "must be positive")
	}

	writeBackend, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "dial wallet rpc")
	}
	readBackend, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		writeBackend.Close()
		return nil, nil, errors.Wrap(err, "dial public rpc")
	}

	return NewWalletClient(writeBackend, identity, chainID), NewPublicClient(readBackend, chainID), nil
}

// ValidateEndpoint checks the RPC endpoint is present and uses a supported scheme.
func ValidateEndpoint(rpcURL string) error {
	if rpcURL == "" {
		return errors.NewConfigurationError("RPC_URL", "is not set")
	}
	u, err := url.Parse(rpcURL)
	if err != nil || u.Host == "" {
		return errors.NewConfigurationError("RPC_URL", "must be an absolute URL")
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
		return nil
	default:
		return errors.NewConfigurationError("RPC_URL", "must use http, https, ws or wss")
	}
}

// NewPublicClient wraps an existing backend. Tests pass simulated backends here.
func NewPublicClient(backend Backend, chainID int64) *PublicClient {
	return &PublicClient{backend: backend, chainID: big.NewInt(chainID)}
}

// NewWalletClient wraps an existing backend bound to identity.
func NewWalletClient(backend Backend, identity *Identity, chainID int64) *WalletClient {
	return &WalletClient{backend: backend, identity: identity, chainID: big.NewInt(chainID)}
}

// Backend returns the underlying RPC backend
func (c *PublicClient) Backend() Backend {
	return c.backend
}

// ChainID returns a copy of the configured chain id
func (c *PublicClient) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// WaitMined blocks until tx is included and returns its receipt.
func (c *PublicClient) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return bind.WaitMined(ctx, c.backend, tx)
}

// Ping checks the endpoint answers and reports the expected chain.
func (c *PublicClient) Ping(ctx context.Context) error {
	id, err := c.backend.ChainID(ctx)
	if err != nil {
		return errors.Wrap(err, "rpc chain id")
	}
	if id.Cmp(c.chainID) != 0 {
		return errors.Wrapf(errors.ErrChainMismatch, "rpc reports chain %s, configured %s", id, c.chainID)
	}
	return nil
}

// Balance returns the native balance of account at the latest block
func (c *PublicClient) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.backend.BalanceAt(ctx, account, nil)
}

// Backend returns the underlying RPC backend
func (c *WalletClient) Backend() Backend {
	return c.backend
}

// Address returns the signer address
func (c *WalletClient) Address() common.Address {
	return c.identity.Address()
}

// ChainID returns a copy of the chain id transactions are signed for
func (c *WalletClient) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// TransactOpts builds fresh signing options for one call.
// Callers may mutate the result freely; nothing is shared between calls.
func (c *WalletClient) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(c.identity.key, c.chainID)
	if err != nil {
		return nil, errors.Wrap(err, "build transactor")
	}
	opts.Context = ctx
	return opts, nil
}
