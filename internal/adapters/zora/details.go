package zora

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"zoracoin/internal/chain"
	"zoracoin/internal/domain/coin"
	"zoracoin/pkg/errors"
)

// OnchainCoinDetails reads ownership, payout and pool state of a coin.
// Market cap and liquidity are quoted in the pool currency's minor units.
func (c *Client) OnchainCoinDetails(ctx context.Context, query coin.DetailsQuery, public *chain.PublicClient) (*coin.OnchainDetails, error) {
	backend := public.Backend()
	opts := &bind.CallOpts{Context: ctx}
	token := bind.NewBoundContract(query.Coin, coinABI, backend, nil, nil)

	owners, err := callAddresses(opts, token, "owners")
	if err != nil {
		return nil, err
	}
	payoutRecipient, err := callAddress(opts, token, "payoutRecipient")
	if err != nil {
		return nil, err
	}
	pool, err := callAddress(opts, token, "poolAddress")
	if err != nil {
		return nil, err
	}
	currency, err := callAddress(opts, token, "currency")
	if err != nil {
		return nil, err
	}
	totalSupply, err := callBig(opts, token, "totalSupply")
	if err != nil {
		return nil, err
	}
	coinInPool, err := callBig(opts, token, "balanceOf", pool)
	if err != nil {
		return nil, err
	}

	poolContract := bind.NewBoundContract(pool, poolABI, backend, nil, nil)
	sqrtPriceX96, err := callBig(opts, poolContract, "slot0")
	if err != nil {
		return nil, err
	}
	token0, err := callAddress(opts, poolContract, "token0")
	if err != nil {
		return nil, err
	}
	coinIsToken0 := token0 == query.Coin

	var currencyInPool *big.Int
	if isNativeCurrency(currency) {
		currencyInPool, err = backend.BalanceAt(ctx, pool, nil)
		if err != nil {
			return nil, errors.Wrap(err, "pool native balance")
		}
	} else {
		currencyContract := bind.NewBoundContract(currency, erc20ABI, backend, nil, nil)
		currencyInPool, err = callBig(opts, currencyContract, "balanceOf", pool)
		if err != nil {
			return nil, err
		}
	}

	details := &coin.OnchainDetails{
		MarketCap:       coin.Amount{ETH: quoteCurrency(totalSupply, sqrtPriceX96, coinIsToken0)},
		Liquidity:       coin.Amount{ETH: new(big.Int).Add(currencyInPool, quoteCurrency(coinInPool, sqrtPriceX96, coinIsToken0))},
		Pool:            pool,
		Owners:          owners,
		PayoutRecipient: payoutRecipient,
	}

	if query.User != nil {
		balance, err := callBig(opts, token, "balanceOf", *query.User)
		if err != nil {
			return nil, err
		}
		details.Balance = balance
	}

	return details, nil
}

func call(opts *bind.CallOpts, contract *bind.BoundContract, method string, args ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := contract.Call(opts, &out, method, args...); err != nil {
		return nil, errors.Wrapf(err, "call %s", method)
	}
	if len(out) == 0 {
		return nil, errors.Newf("call %s: empty result", method)
	}
	return out, nil
}

// callBig returns the first output of method as a big integer
func callBig(opts *bind.CallOpts, contract *bind.BoundContract, method string, args ...interface{}) (*big.Int, error) {
	out, err := call(opts, contract, method, args...)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func callAddress(opts *bind.CallOpts, contract *bind.BoundContract, method string, args ...interface{}) (common.Address, error) {
	out, err := call(opts, contract, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func callAddresses(opts *bind.CallOpts, contract *bind.BoundContract, method string, args ...interface{}) ([]common.Address, error) {
	out, err := call(opts, contract, method, args...)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address), nil
}
