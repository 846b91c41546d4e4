package zora

import "math/big"

var q192 = new(big.Int).Lsh(big.NewInt(1), 192)

// quoteCurrency converts a coin amount to the paired currency at the pool's
// current sqrt price (Q64.96). A zero price quotes to zero.
func quoteCurrency(amount, sqrtPriceX96 *big.Int, coinIsToken0 bool) *big.Int {
	if amount == nil || amount.Sign() == 0 || sqrtPriceX96 == nil || sqrtPriceX96.Sign() == 0 {
		return new(big.Int)
	}

	priceX192 := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)
	out := new(big.Int)
	if coinIsToken0 {
		out.Mul(amount, priceX192)
		return out.Quo(out, q192)
	}
	out.Mul(amount, q192)
	return out.Quo(out, priceX192)
}
