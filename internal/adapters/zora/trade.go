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

type coinBuyLog struct {
	Buyer          common.Address
	Recipient      common.Address
	TradeReferrer  common.Address
	CoinsPurchased *big.Int
	Currency       common.Address
	AmountFee      *big.Int
	AmountSold     *big.Int
}

type coinSellLog struct {
	Seller          common.Address
	Recipient       common.Address
	TradeReferrer   common.Address
	CoinsSold       *big.Int
	Currency        common.Address
	AmountFee       *big.Int
	AmountPurchased *big.Int
}

// TradeCoin buys or sells against the coin contract and waits for the receipt.
// Buys send OrderSize as value.
func (c *Client) TradeCoin(ctx context.Context, params coin.TradeParams, wallet *chain.WalletClient, public *chain.PublicClient) (*coin.TradeResult, error) {
	if !params.Direction.Valid() {
		return nil, errors.NewValidationError("direction", "must be buy or sell", params.Direction.String())
	}
	if params.Args.OrderSize == nil || params.Args.OrderSize.Sign() <= 0 {
		return nil, errors.NewValidationError("orderSize", "must be positive", params.Args.OrderSize)
	}

	minAmountOut := new(big.Int)
	if params.Args.MinAmountOut != nil {
		minAmountOut.Set(params.Args.MinAmountOut)
	}
	orderSize := new(big.Int).Set(params.Args.OrderSize)

	opts, err := wallet.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	if params.Direction == coin.TradeDirectionBuy {
		opts.Value = orderSize
	}

	contract := bind.NewBoundContract(params.Target, coinABI, wallet.Backend(), wallet.Backend(), wallet.Backend())

	c.log.Debugw("Submitting trade",
		"direction", params.Direction.String(),
		"target", params.Target.Hex(),
		"order_size", orderSize.String(),
	)

	tx, err := contract.Transact(opts, params.Direction.String(),
		params.Args.Recipient,
		orderSize,
		minAmountOut,
		new(big.Int), // no sqrt price limit
		params.Args.TradeReferrer,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "submit %s", params.Direction)
	}

	receipt, err := public.WaitMined(ctx, tx)
	if err != nil {
		return nil, errors.Wrapf(err, "wait for %s %s", params.Direction, tx.Hash().Hex())
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, errors.Wrapf(errors.ErrTransactionReverted, "%s %s", params.Direction, tx.Hash().Hex())
	}

	return &coin.TradeResult{
		Hash:  tx.Hash(),
		Trade: parseTrade(params.Target, params.Direction, receipt.Logs),
	}, nil
}

// parseTrade returns the first CoinBuy or CoinSell log emitted by target, or nil
func parseTrade(target common.Address, direction coin.TradeDirection, logs []*types.Log) *coin.TradeEvent {
	contract := bind.NewBoundContract(target, coinABI, nil, nil, nil)
	for _, l := range logs {
		if l == nil || l.Address != target {
			continue
		}
		switch direction {
		case coin.TradeDirectionBuy:
			var ev coinBuyLog
			if err := contract.UnpackLog(&ev, "CoinBuy", *l); err != nil {
				continue
			}
			return &coin.TradeEvent{
				Direction:      direction,
				Trader:         ev.Buyer,
				Recipient:      ev.Recipient,
				TradeReferrer:  ev.TradeReferrer,
				CoinAmount:     ev.CoinsPurchased,
				Currency:       ev.Currency,
				Fee:            ev.AmountFee,
				CurrencyAmount: ev.AmountSold,
			}
		case coin.TradeDirectionSell:
			var ev coinSellLog
			if err := contract.UnpackLog(&ev, "CoinSell", *l); err != nil {
				continue
			}
			return &coin.TradeEvent{
				Direction:      direction,
				Trader:         ev.Seller,
				Recipient:      ev.Recipient,
				TradeReferrer:  ev.TradeReferrer,
				CoinAmount:     ev.CoinsSold,
				Currency:       ev.Currency,
				Fee:            ev.AmountFee,
				CurrencyAmount: ev.AmountPurchased,
			}
		}
	}
	return nil
}
