package zora

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"zoracoin/internal/domain/coin"
	"zoracoin/pkg/errors"
)

var (
	// factoryAddress is the coin factory proxy, same address on every supported chain
	factoryAddress = common.HexToAddress("0x777777751622c0d3258f214F9DF38E35BF45baF3")

	wethAddress = common.HexToAddress("0x4200000000000000000000000000000000000006")
	zoraAddress = common.HexToAddress("0x1111111111166b7FE7bd91427724B487980aFc69")

	// nativeCurrency is the conventional placeholder for ETH in currency fields
	nativeCurrency = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")
)

// isNativeCurrency reports whether a pool currency is ETH itself rather than an ERC20
func isNativeCurrency(currency common.Address) bool {
	return currency == (common.Address{}) || currency == nativeCurrency
}

const (
	poolConfigVersion = 1

	tickLowerETH  = -208200
	tickLowerZORA = -138000
)

var factories = map[int64]common.Address{
	coin.BaseMainnetChainID: factoryAddress,
	coin.BaseSepoliaChainID: factoryAddress,
}

// FactoryAddress returns the coin factory for chainID
func FactoryAddress(chainID int64) (common.Address, error) {
	addr, ok := factories[chainID]
	if !ok {
		return common.Address{}, errors.Wrapf(errors.ErrUnsupportedChain, "no coin factory on chain %d", chainID)
	}
	return addr, nil
}

// poolParams resolves the pairing currency and lower tick for a deployment.
// ZORA pairing only exists on mainnet; everywhere else defaults to ETH.
func poolParams(chainID int64, currency coin.DeployCurrency) (common.Address, int32, error) {
	if currency == coin.DeployCurrencyDefault {
		if chainID == coin.BaseMainnetChainID {
			currency = coin.DeployCurrencyZORA
		} else {
			currency = coin.DeployCurrencyETH
		}
	}

	switch currency {
	case coin.DeployCurrencyETH:
		return wethAddress, tickLowerETH, nil
	case coin.DeployCurrencyZORA:
		if chainID != coin.BaseMainnetChainID {
			return common.Address{}, 0, errors.Wrapf(errors.ErrUnsupportedChain, "ZORA pairing is not available on chain %d", chainID)
		}
		return zoraAddress, tickLowerZORA, nil
	default:
		return common.Address{}, 0, errors.NewValidationError("currency", "must be 1 (ZORA) or 2 (ETH)", int(currency))
	}
}

var poolConfigArgs = mustPoolConfigArgs()

func mustPoolConfigArgs() abi.Arguments {
	uint8Ty, err := abi.NewType("uint8", "", nil)
	if err != nil {
		panic(err)
	}
	addrTy, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(err)
	}
	int24Ty, err := abi.NewType("int24", "", nil)
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Type: uint8Ty}, {Type: addrTy}, {Type: int24Ty}}
}

// EncodePoolConfig abi-encodes (uint8 version, address currency, int24 tickLower)
func EncodePoolConfig(chainID int64, currency coin.DeployCurrency) ([]byte, error) {
	currencyAddr, tick, err := poolParams(chainID, currency)
	if err != nil {
		return nil, err
	}
	// go-ethereum packs int24 from *big.Int
	encoded, err := poolConfigArgs.Pack(uint8(poolConfigVersion), currencyAddr, big.NewInt(int64(tick)))
	if err != nil {
		return nil, errors.Wrap(err, "encode pool config")
	}
	return encoded, nil
}
