package zora

import (
	"context"
	"math/big"
	"sync"
	"testing"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoracoin/internal/chain"
	"zoracoin/internal/domain/coin"
	"zoracoin/pkg/errors"
)

// fakeBackend serves canned contract reads and records submitted transactions.
// Every sent transaction is mined immediately with the configured status and logs.
type fakeBackend struct {
	mu sync.Mutex

	chainID     *big.Int
	responses   map[string][]byte
	balances    map[common.Address]*big.Int
	estimateErr error
	reverted    bool
	logs        []*types.Log

	calls     []ethereum.CallMsg
	estimates []ethereum.CallMsg
	sent      []*types.Transaction
}

var _ chain.Backend = (*fakeBackend)(nil)

func newFakeBackend(chainID int64) *fakeBackend {
	return &fakeBackend{
		chainID:   big.NewInt(chainID),
		responses: make(map[string][]byte),
		balances:  make(map[common.Address]*big.Int),
	}
}

func callKey(to common.Address, input []byte) string {
	return string(to.Bytes()) + string(input)
}

// respond registers the packed outputs returned when method is called on to with args
func (b *fakeBackend) respond(t *testing.T, to common.Address, contractABI abi.ABI, method string, args []interface{}, outputs ...interface{}) {
	t.Helper()
	input, err := contractABI.Pack(method, args...)
	require.NoError(t, err)
	out, err := contractABI.Methods[method].Outputs.Pack(outputs...)
	require.NoError(t, err)
	b.responses[callKey(to, input)] = out
}

func (b *fakeBackend) callsTo(addr common.Address) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.To != nil && *c.To == addr {
			n++
		}
	}
	return n
}

func (b *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x1}, nil
}

func (b *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, msg)
	if msg.To == nil {
		return nil, errors.New("call without target")
	}
	out, ok := b.responses[callKey(*msg.To, msg.Data)]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return out, nil
}

func (b *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1), BaseFee: big.NewInt(1_000_000_000)}, nil
}

func (b *fakeBackend) PendingCodeAt(context.Context, common.Address) ([]byte, error) {
	return []byte{0x1}, nil
}

func (b *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint64(len(b.sent)), nil
}

func (b *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (b *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (b *fakeBackend) EstimateGas(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.estimates = append(b.estimates, msg)
	if b.estimateErr != nil {
		return 0, b.estimateErr
	}
	return 250_000, nil
}

func (b *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, tx)
	return nil
}

func (b *fakeBackend) FilterLogs(context.Context, ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (b *fakeBackend) SubscribeFilterLogs(context.Context, ethereum.FilterQuery, chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("subscriptions not supported")
}

func (b *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, tx := range b.sent {
		if tx.Hash() != hash {
			continue
		}
		status := types.ReceiptStatusSuccessful
		if b.reverted {
			status = types.ReceiptStatusFailed
		}
		return &types.Receipt{Status: status, TxHash: hash, Logs: b.logs, BlockNumber: big.NewInt(1)}, nil
	}
	return nil, ethereum.NotFound
}

func (b *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).Set(b.chainID), nil
}

func (b *fakeBackend) BlockNumber(context.Context) (uint64, error) {
	return 1, nil
}

func (b *fakeBackend) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bal, ok := b.balances[account]; ok {
		return new(big.Int).Set(bal), nil
	}
	return new(big.Int), nil
}

func clientsFor(t *testing.T, backend *fakeBackend, chainID int64) (*chain.WalletClient, *chain.PublicClient) {
	t.Helper()
	identity, err := chain.NewIdentity(devKey)
	require.NoError(t, err)
	return chain.NewWalletClient(backend, identity, chainID), chain.NewPublicClient(backend, chainID)
}

func coinCreatedEvent(t *testing.T, coinAddr, poolAddr common.Address) *types.Log {
	t.Helper()
	event := factoryABI.Events["CoinCreated"]
	data, err := event.Inputs.NonIndexed().Pack(wethAddress, "ipfs://meta", "Test", "TST", coinAddr, poolAddr, "1")
	require.NoError(t, err)
	return &types.Log{
		Address: factoryAddress,
		Topics:  []common.Hash{event.ID, {}, {}, {}},
		Data:    data,
	}
}

func TestCreateCoin_SubmitsDeployment(t *testing.T) {
	backend := newFakeBackend(coin.BaseMainnetChainID)
	wallet, public := clientsFor(t, backend, coin.BaseMainnetChainID)

	coinAddr := common.HexToAddress("0x00000000000000000000000000000000000000c0")
	poolAddr := common.HexToAddress("0x00000000000000000000000000000000000000b0")
	payout := common.HexToAddress("0x00000000000000000000000000000000000000a2")
	backend.logs = []*types.Log{coinCreatedEvent(t, coinAddr, poolAddr)}

	result, err := New(Config{}, nil).CreateCoin(context.Background(), coin.CreateCoinArgs{
		Name:            "Test",
		Symbol:          "TST",
		URI:             "ipfs://meta",
		PayoutRecipient: payout,
		Currency:        coin.DeployCurrencyETH,
	}, wallet, public)
	require.NoError(t, err)

	require.Len(t, backend.sent, 1)
	tx := backend.sent[0]
	assert.Equal(t, factoryAddress, *tx.To())
	assert.Zero(t, tx.Value().Sign())
	assert.Equal(t, big.NewInt(coin.BaseMainnetChainID), tx.ChainId())
	assert.Equal(t, tx.Hash(), result.Hash)

	require.NotNil(t, result.Address)
	assert.Equal(t, coinAddr, *result.Address)
	require.NotNil(t, result.Deployment)
	assert.Equal(t, poolAddr, result.Deployment.Pool)

	values, err := factoryABI.Methods["deploy"].Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, payout, values[0])
	assert.Equal(t, []common.Address{payout}, values[1], "owners default to the payout recipient")
	assert.Equal(t, "Test", values[3])

	poolConfig, err := poolConfigArgs.Unpack(values[5].([]byte))
	require.NoError(t, err)
	assert.Equal(t, wethAddress, poolConfig[1])
}

func TestCreateCoin_ReceiptOutcomes(t *testing.T) {
	args := coin.CreateCoinArgs{
		Name:            "Test",
		Symbol:          "TST",
		URI:             "ipfs://meta",
		PayoutRecipient: common.HexToAddress("0x00000000000000000000000000000000000000a2"),
		Currency:        coin.DeployCurrencyETH,
		InitialPurchase: big.NewInt(5_000),
	}

	t.Run("no deployment log leaves the address pending", func(t *testing.T) {
		backend := newFakeBackend(coin.BaseMainnetChainID)
		wallet, public := clientsFor(t, backend, coin.BaseMainnetChainID)

		result, err := New(Config{}, nil).CreateCoin(context.Background(), args, wallet, public)
		require.NoError(t, err)
		assert.Nil(t, result.Address)
		require.Len(t, backend.sent, 1)
		assert.Equal(t, "5000", backend.sent[0].Value().String())
	})

	t.Run("reverted receipt", func(t *testing.T) {
		backend := newFakeBackend(coin.BaseMainnetChainID)
		backend.reverted = true
		wallet, public := clientsFor(t, backend, coin.BaseMainnetChainID)

		_, err := New(Config{}, nil).CreateCoin(context.Background(), args, wallet, public)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTransactionReverted))
		assert.Contains(t, err.Error(), backend.sent[0].Hash().Hex())
	})

	t.Run("simulation failure sends nothing", func(t *testing.T) {
		backend := newFakeBackend(coin.BaseMainnetChainID)
		backend.estimateErr = errors.New("execution reverted: InvalidPoolConfig")
		wallet, public := clientsFor(t, backend, coin.BaseMainnetChainID)

		_, err := New(Config{}, nil).CreateCoin(context.Background(), args, wallet, public)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "submit deploy")
		assert.Contains(t, err.Error(), "InvalidPoolConfig")
		assert.Empty(t, backend.sent)
	})
}

func TestTradeCoin_Submits(t *testing.T) {
	target := common.HexToAddress("0x00000000000000000000000000000000000000c0")
	recipient := common.HexToAddress("0x00000000000000000000000000000000000000a3")
	orderSize, _ := new(big.Int).SetString("100000000000000000", 10)

	tests := []struct {
		name         string
		direction    coin.TradeDirection
		minAmountOut *big.Int
		wantValue    string
		wantMin      string
	}{
		{name: "buy sends order size as value", direction: coin.TradeDirectionBuy, wantValue: "100000000000000000", wantMin: "0"},
		{name: "sell sends no value", direction: coin.TradeDirectionSell, minAmountOut: big.NewInt(42), wantValue: "0", wantMin: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend(coin.BaseMainnetChainID)
			wallet, public := clientsFor(t, backend, coin.BaseMainnetChainID)

			result, err := New(Config{}, nil).TradeCoin(context.Background(), coin.TradeParams{
				Direction: tt.direction,
				Target:    target,
				Args: coin.TradeArgs{
					Recipient:    recipient,
					OrderSize:    orderSize,
					MinAmountOut: tt.minAmountOut,
				},
			}, wallet, public)
			require.NoError(t, err)

			require.Len(t, backend.sent, 1)
			tx := backend.sent[0]
			assert.Equal(t, target, *tx.To())
			assert.Equal(t, tt.wantValue, tx.Value().String())
			assert.Equal(t, tx.Hash(), result.Hash)
			assert.Nil(t, result.Trade)

			require.Len(t, backend.estimates, 1)
			assert.Equal(t, tt.wantValue, valueOf(backend.estimates[0]).String())
			assert.Equal(t, wallet.Address(), backend.estimates[0].From)

			method := coinABI.Methods[tt.direction.String()]
			assert.Equal(t, method.ID, tx.Data()[:4])
			values, err := method.Inputs.Unpack(tx.Data()[4:])
			require.NoError(t, err)
			assert.Equal(t, recipient, values[0])
			assert.Equal(t, orderSize.String(), values[1].(*big.Int).String())
			assert.Equal(t, tt.wantMin, values[2].(*big.Int).String())
			assert.Zero(t, values[3].(*big.Int).Sign())
		})
	}
}

func valueOf(msg ethereum.CallMsg) *big.Int {
	if msg.Value == nil {
		return new(big.Int)
	}
	return msg.Value
}

func TestTradeCoin_ReadsTradeLog(t *testing.T) {
	target := common.HexToAddress("0x00000000000000000000000000000000000000c0")
	backend := newFakeBackend(coin.BaseMainnetChainID)
	wallet, public := clientsFor(t, backend, coin.BaseMainnetChainID)

	event := coinABI.Events["CoinSell"]
	data, err := event.Inputs.NonIndexed().Pack(big.NewInt(500), wethAddress, big.NewInt(3), big.NewInt(97))
	require.NoError(t, err)
	backend.logs = []*types.Log{{
		Address: target,
		Topics:  []common.Hash{event.ID, common.BytesToHash(wallet.Address().Bytes()), {}, {}},
		Data:    data,
	}}

	result, err := New(Config{}, nil).TradeCoin(context.Background(), coin.TradeParams{
		Direction: coin.TradeDirectionSell,
		Target:    target,
		Args:      coin.TradeArgs{Recipient: wallet.Address(), OrderSize: big.NewInt(500)},
	}, wallet, public)
	require.NoError(t, err)
	require.NotNil(t, result.Trade)
	assert.Equal(t, wallet.Address(), result.Trade.Trader)
	assert.Equal(t, "97", result.Trade.CurrencyAmount.String())
}

func TestTradeCoin_Failures(t *testing.T) {
	params := coin.TradeParams{
		Direction: coin.TradeDirectionBuy,
		Target:    common.HexToAddress("0x00000000000000000000000000000000000000c0"),
		Args: coin.TradeArgs{
			Recipient: common.HexToAddress("0x00000000000000000000000000000000000000a3"),
			OrderSize: big.NewInt(1_000),
		},
	}

	t.Run("reverted receipt", func(t *testing.T) {
		backend := newFakeBackend(coin.BaseMainnetChainID)
		backend.reverted = true
		wallet, public := clientsFor(t, backend, coin.BaseMainnetChainID)

		_, err := New(Config{}, nil).TradeCoin(context.Background(), params, wallet, public)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrTransactionReverted))
		assert.Contains(t, err.Error(), "buy "+backend.sent[0].Hash().Hex())
	})

	t.Run("simulation failure sends nothing", func(t *testing.T) {
		backend := newFakeBackend(coin.BaseMainnetChainID)
		backend.estimateErr = errors.New("execution reverted: SlippageBoundsExceeded")
		wallet, public := clientsFor(t, backend, coin.BaseMainnetChainID)

		_, err := New(Config{}, nil).TradeCoin(context.Background(), params, wallet, public)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "submit buy")
		assert.Contains(t, err.Error(), "SlippageBoundsExceeded")
		assert.Empty(t, backend.sent)
	})

	t.Run("non-positive order size", func(t *testing.T) {
		backend := newFakeBackend(coin.BaseMainnetChainID)
		wallet, public := clientsFor(t, backend, coin.BaseMainnetChainID)

		bad := params
		bad.Args.OrderSize = new(big.Int)
		_, err := New(Config{}, nil).TradeCoin(context.Background(), bad, wallet, public)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
		assert.Empty(t, backend.estimates)
	})
}

type coinFixture struct {
	coin, pool, currency, token0 common.Address
	owners                       []common.Address
	payout                       common.Address
	supply, coinInPool           *big.Int
	sqrtPriceX96                 *big.Int
}

func (f coinFixture) register(t *testing.T, b *fakeBackend) {
	b.respond(t, f.coin, coinABI, "owners", nil, f.owners)
	b.respond(t, f.coin, coinABI, "payoutRecipient", nil, f.payout)
	b.respond(t, f.coin, coinABI, "poolAddress", nil, f.pool)
	b.respond(t, f.coin, coinABI, "currency", nil, f.currency)
	b.respond(t, f.coin, coinABI, "totalSupply", nil, f.supply)
	b.respond(t, f.coin, coinABI, "balanceOf", []interface{}{f.pool}, f.coinInPool)
	b.respond(t, f.pool, poolABI, "slot0", nil,
		f.sqrtPriceX96, big.NewInt(-200000), uint16(0), uint16(1), uint16(1), uint8(0), true)
	b.respond(t, f.pool, poolABI, "token0", nil, f.token0)
}

func TestOnchainCoinDetails(t *testing.T) {
	coinAddr := common.HexToAddress("0x00000000000000000000000000000000000000c0")
	poolAddr := common.HexToAddress("0x00000000000000000000000000000000000000b0")
	user := common.HexToAddress("0x00000000000000000000000000000000000000d1")
	owners := []common.Address{
		common.HexToAddress("0x00000000000000000000000000000000000000a1"),
		common.HexToAddress("0x00000000000000000000000000000000000000a2"),
	}
	q96 := new(big.Int).Lsh(big.NewInt(1), 96)
	twoQ96 := new(big.Int).Lsh(big.NewInt(2), 96) // price 4
	supply, _ := new(big.Int).SetString("1000000000000000000000000000", 10)
	userBalance, _ := new(big.Int).SetString("9007199254740993000", 10) // above 2^53

	tests := []struct {
		name          string
		currency      common.Address
		token0        common.Address
		sqrtPrice     *big.Int
		user          *common.Address
		erc20Reserve  *big.Int
		nativeReserve *big.Int
		wantMarketCap string
		wantLiquidity string
	}{
		{
			name:          "erc20 pairing without user",
			currency:      wethAddress,
			token0:        coinAddr,
			sqrtPrice:     q96,
			erc20Reserve:  big.NewInt(5_000),
			wantMarketCap: supply.String(),
			wantLiquidity: "6000",
		},
		{
			name:          "erc20 pairing with user, coin is token1",
			currency:      zoraAddress,
			token0:        zoraAddress,
			sqrtPrice:     twoQ96,
			user:          &user,
			erc20Reserve:  big.NewInt(5_000),
			wantMarketCap: "250000000000000000000000000",
			wantLiquidity: "5250",
		},
		{
			name:          "zero address currency reads the pool's ETH",
			currency:      common.Address{},
			token0:        coinAddr,
			sqrtPrice:     q96,
			user:          &user,
			nativeReserve: big.NewInt(700),
			wantMarketCap: supply.String(),
			wantLiquidity: "1700",
		},
		{
			name:          "native placeholder currency reads the pool's ETH",
			currency:      nativeCurrency,
			token0:        coinAddr,
			sqrtPrice:     q96,
			nativeReserve: big.NewInt(700),
			wantMarketCap: supply.String(),
			wantLiquidity: "1700",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend(coin.BaseMainnetChainID)
			_, public := clientsFor(t, backend, coin.BaseMainnetChainID)

			coinFixture{
				coin:         coinAddr,
				pool:         poolAddr,
				currency:     tt.currency,
				token0:       tt.token0,
				owners:       owners,
				payout:       owners[0],
				supply:       supply,
				coinInPool:   big.NewInt(1_000),
				sqrtPriceX96: tt.sqrtPrice,
			}.register(t, backend)
			if tt.erc20Reserve != nil {
				backend.respond(t, tt.currency, erc20ABI, "balanceOf", []interface{}{poolAddr}, tt.erc20Reserve)
			}
			if tt.nativeReserve != nil {
				backend.balances[poolAddr] = tt.nativeReserve
			}
			if tt.user != nil {
				backend.respond(t, coinAddr, coinABI, "balanceOf", []interface{}{*tt.user}, userBalance)
			}

			details, err := New(Config{}, nil).OnchainCoinDetails(context.Background(), coin.DetailsQuery{Coin: coinAddr, User: tt.user}, public)
			require.NoError(t, err)

			assert.Equal(t, tt.wantMarketCap, details.MarketCap.ETH.String())
			assert.Equal(t, tt.wantLiquidity, details.Liquidity.ETH.String())
			assert.Equal(t, poolAddr, details.Pool)
			assert.Equal(t, owners, details.Owners)
			assert.Equal(t, owners[0], details.PayoutRecipient)

			if tt.user == nil {
				assert.Nil(t, details.Balance)
			} else {
				require.NotNil(t, details.Balance)
				assert.Equal(t, userBalance.String(), details.Balance.String())
			}
			if tt.nativeReserve != nil {
				assert.Zero(t, backend.callsTo(tt.currency), "native currency is not an ERC20")
			}
		})
	}
}

func TestOnchainCoinDetails_ReadFailure(t *testing.T) {
	coinAddr := common.HexToAddress("0x00000000000000000000000000000000000000c0")
	poolAddr := common.HexToAddress("0x00000000000000000000000000000000000000b0")
	backend := newFakeBackend(coin.BaseMainnetChainID)
	_, public := clientsFor(t, backend, coin.BaseMainnetChainID)

	backend.respond(t, coinAddr, coinABI, "owners", nil, []common.Address{})
	backend.respond(t, coinAddr, coinABI, "payoutRecipient", nil, common.Address{})
	backend.respond(t, coinAddr, coinABI, "poolAddress", nil, poolAddr)
	backend.respond(t, coinAddr, coinABI, "currency", nil, wethAddress)
	backend.respond(t, coinAddr, coinABI, "totalSupply", nil, big.NewInt(1))
	backend.respond(t, coinAddr, coinABI, "balanceOf", []interface{}{poolAddr}, big.NewInt(1))

	_, err := New(Config{}, nil).OnchainCoinDetails(context.Background(), coin.DetailsQuery{Coin: coinAddr}, public)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call slot0")
}
