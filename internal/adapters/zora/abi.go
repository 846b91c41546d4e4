package zora

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const factoryABIJSON = `[
  {"type":"function","name":"deploy","stateMutability":"payable",
   "inputs":[
     {"name":"payoutRecipient","type":"address"},
     {"name":"owners","type":"address[]"},
     {"name":"uri","type":"string"},
     {"name":"name","type":"string"},
     {"name":"symbol","type":"string"},
     {"name":"poolConfig","type":"bytes"},
     {"name":"platformReferrer","type":"address"},
     {"name":"orderSize","type":"uint256"}],
   "outputs":[{"name":"","type":"address"},{"name":"","type":"uint256"}]},
  {"type":"event","name":"CoinCreated","anonymous":false,
   "inputs":[
     {"name":"caller","type":"address","indexed":true},
     {"name":"payoutRecipient","type":"address","indexed":true},
     {"name":"platformReferrer","type":"address","indexed":true},
     {"name":"currency","type":"address","indexed":false},
     {"name":"uri","type":"string","indexed":false},
     {"name":"name","type":"string","indexed":false},
     {"name":"symbol","type":"string","indexed":false},
     {"name":"coin","type":"address","indexed":false},
     {"name":"pool","type":"address","indexed":false},
     {"name":"version","type":"string","indexed":false}]}
]`

const coinABIJSON = `[
  {"type":"function","name":"buy","stateMutability":"payable",
   "inputs":[
     {"name":"recipient","type":"address"},
     {"name":"orderSize","type":"uint256"},
     {"name":"minAmountOut","type":"uint256"},
     {"name":"sqrtPriceLimitX96","type":"uint160"},
     {"name":"tradeReferrer","type":"address"}],
   "outputs":[{"name":"","type":"uint256"},{"name":"","type":"uint256"}]},
  {"type":"function","name":"sell","stateMutability":"nonpayable",
   "inputs":[
     {"name":"recipient","type":"address"},
     {"name":"orderSize","type":"uint256"},
     {"name":"minAmountOut","type":"uint256"},
     {"name":"sqrtPriceLimitX96","type":"uint160"},
     {"name":"tradeReferrer","type":"address"}],
   "outputs":[{"name":"","type":"uint256"},{"name":"","type":"uint256"}]},
  {"type":"function","name":"owners","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"address[]"}]},
  {"type":"function","name":"payoutRecipient","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"poolAddress","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"currency","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view",
   "inputs":[{"name":"account","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"event","name":"CoinBuy","anonymous":false,
   "inputs":[
     {"name":"buyer","type":"address","indexed":true},
     {"name":"recipient","type":"address","indexed":true},
     {"name":"tradeReferrer","type":"address","indexed":true},
     {"name":"coinsPurchased","type":"uint256","indexed":false},
     {"name":"currency","type":"address","indexed":false},
     {"name":"amountFee","type":"uint256","indexed":false},
     {"name":"amountSold","type":"uint256","indexed":false}]},
  {"type":"event","name":"CoinSell","anonymous":false,
   "inputs":[
     {"name":"seller","type":"address","indexed":true},
     {"name":"recipient","type":"address","indexed":true},
     {"name":"tradeReferrer","type":"address","indexed":true},
     {"name":"coinsSold","type":"uint256","indexed":false},
     {"name":"currency","type":"address","indexed":false},
     {"name":"amountFee","type":"uint256","indexed":false},
     {"name":"amountPurchased","type":"uint256","indexed":false}]}
]`

const poolABIJSON = `[
  {"type":"function","name":"slot0","stateMutability":"view","inputs":[],
   "outputs":[
     {"name":"sqrtPriceX96","type":"uint160"},
     {"name":"tick","type":"int24"},
     {"name":"observationIndex","type":"uint16"},
     {"name":"observationCardinality","type":"uint16"},
     {"name":"observationCardinalityNext","type":"uint16"},
     {"name":"feeProtocol","type":"uint8"},
     {"name":"unlocked","type":"bool"}]},
  {"type":"function","name":"token0","stateMutability":"view","inputs":[],
   "outputs":[{"name":"","type":"address"}]}
]`

const erc20ABIJSON = `[
  {"type":"function","name":"balanceOf","stateMutability":"view",
   "inputs":[{"name":"account","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]}
]`

var (
	factoryABI = mustParseABI(factoryABIJSON)
	coinABI    = mustParseABI(coinABIJSON)
	poolABI    = mustParseABI(poolABIJSON)
	erc20ABI   = mustParseABI(erc20ABIJSON)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("zora: invalid embedded abi: " + err.Error())
	}
	return parsed
}
