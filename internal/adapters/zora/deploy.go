package zora

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"zoracoin/internal/chain"
	"zoracoin/internal/domain/coin"
	"zoracoin/pkg/errors"
)

// coinCreatedLog is the decoded CoinCreated event; field names follow the ABI
type coinCreatedLog struct {
	Caller           common.Address
	PayoutRecipient  common.Address
	PlatformReferrer common.Address
	Currency         common.Address
	Uri              string
	Name             string
	Symbol           string
	Coin             common.Address
	Pool             common.Address
	Version          string
}

// CreateCoin deploys a coin through the factory and waits for the receipt
func (c *Client) CreateCoin(ctx context.Context, args coin.CreateCoinArgs, wallet *chain.WalletClient, public *chain.PublicClient) (*coin.CreateCoinResult, error) {
	chainID := args.ChainID
	if chainID == 0 {
		chainID = coin.BaseMainnetChainID
	}
	if walletChain := wallet.ChainID(); walletChain.Cmp(big.NewInt(chainID)) != 0 {
		return nil, errors.Wrapf(errors.ErrChainMismatch, "requested chain %d, wallet signs for %s", chainID, walletChain)
	}

	factory, err := FactoryAddress(chainID)
	if err != nil {
		return nil, err
	}

	poolConfig, err := EncodePoolConfig(chainID, args.Currency)
	if err != nil {
		return nil, err
	}

	owners := args.Owners
	if len(owners) == 0 {
		owners = []common.Address{args.PayoutRecipient}
	}

	orderSize := new(big.Int)
	if args.InitialPurchase != nil {
		orderSize.Set(args.InitialPurchase)
	}

	opts, err := wallet.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	opts.Value = orderSize

	contract := bind.NewBoundContract(factory, factoryABI, wallet.Backend(), wallet.Backend(), wallet.Backend())

	c.log.Debugw("Deploying coin",
		"chain_id", chainID,
		"symbol", args.Symbol,
		"payout_recipient", args.PayoutRecipient.Hex(),
		"currency", args.Currency.String(),
	)

	// Gas estimation inside Transact simulates the call, so reverts surface here.
	tx, err := contract.Transact(opts, "deploy",
		args.PayoutRecipient,
		owners,
		args.URI,
		args.Name,
		args.Symbol,
		poolConfig,
		args.PlatformReferrer,
		orderSize,
	)
	if err != nil {
		return nil, errors.Wrap(err, "submit deploy")
	}

	receipt, err := public.WaitMined(ctx, tx)
	if err != nil {
		return nil, errors.Wrapf(err, "wait for deploy %s", tx.Hash().Hex())
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, errors.Wrapf(errors.ErrTransactionReverted, "deploy %s", tx.Hash().Hex())
	}

	result := &coin.CreateCoinResult{Hash: tx.Hash()}
	if deployment := parseCoinCreated(factory, receipt.Logs); deployment != nil {
		addr := deployment.Coin
		result.Address = &addr
		result.Deployment = deployment
	}
	return result, nil
}

// parseCoinCreated returns the first CoinCreated log emitted by factory, or nil
func parseCoinCreated(factory common.Address, logs []*types.Log) *coin.Deployment {
	contract := bind.NewBoundContract(factory, factoryABI, nil, nil, nil)
	for _, l := range logs {
		if l == nil || l.Address != factory {
			continue
		}
		var ev coinCreatedLog
		if err := contract.UnpackLog(&ev, "CoinCreated", *l); err != nil {
			continue
		}
		return &coin.Deployment{
			Caller:           ev.Caller,
			PayoutRecipient:  ev.PayoutRecipient,
			PlatformReferrer: ev.PlatformReferrer,
			Currency:         ev.Currency,
			URI:              ev.Uri,
			Name:             ev.Name,
			Symbol:           ev.Symbol,
			Coin:             ev.Coin,
			Pool:             ev.Pool,
			Version:          ev.Version,
		}
	}
	return nil
}
