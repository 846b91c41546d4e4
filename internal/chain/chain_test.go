package chain

import (
	"context"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoracoin/pkg/errors"
)

// Well-known development key (first anvil/hardhat account).
const devKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestNewIdentity(t *testing.T) {
	t.Run("derives address", func(t *testing.T) {
		id, err := NewIdentity(devKey)
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), id.Address())
		assert.NotContains(t, id.String(), devKey[2:])
	})

	tests := []struct {
		name   string
		secret string
		msg    string
	}{
		{name: "empty", secret: "", msg: "is not set"},
		{name: "missing prefix", secret: devKey[2:], msg: "starting with 0x"},
		{name: "prefix only", secret: "0x", msg: "starting with 0x"},
		{name: "non hex", secret: "0xzz0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", msg: "starting with 0x"},
		{name: "wrong length", secret: "0xabcdef", msg: "not a valid secp256k1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewIdentity(tt.secret)
			require.Error(t, err)
			assert.Nil(t, id)

			var cfgErr *errors.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, "PRIVATE_KEY", cfgErr.Field)
			assert.Contains(t, cfgErr.Message, tt.msg)
		})
	}
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		valid bool
	}{
		{name: "http", url: "http://127.0.0.1:8545", valid: true},
		{name: "https", url: "https://mainnet.base.org", valid: true},
		{name: "wss", url: "wss://base.example/ws", valid: true},
		{name: "empty", url: ""},
		{name: "relative", url: "base.org"},
		{name: "unsupported scheme", url: "ftp://base.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndpoint(tt.url)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsConfigurationError(err))
		})
	}
}

func TestDial_HTTPIsLazy(t *testing.T) {
	id, err := NewIdentity(devKey)
	require.NoError(t, err)

	wallet, public, err := Dial(context.Background(), "http://127.0.0.1:1", 8453, id)
	require.NoError(t, err)

	assert.Equal(t, id.Address(), wallet.Address())
	assert.Equal(t, int64(8453), wallet.ChainID().Int64())
	assert.Equal(t, int64(8453), public.ChainID().Int64())
}

func TestWalletClient_TransactOptsAreIndependent(t *testing.T) {
	id, err := NewIdentity(devKey)
	require.NoError(t, err)
	wallet := NewWalletClient(nil, id, 8453)

	var wg sync.WaitGroup
	opts := make([]*bind.TransactOpts, 8)
	for i := range opts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o, err := wallet.TransactOpts(context.Background())
			assert.NoError(t, err)
			opts[i] = o
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(opts); i++ {
		assert.NotSame(t, opts[0], opts[i])
	}

	chainID := wallet.ChainID()
	chainID.SetInt64(1)
	assert.Equal(t, int64(8453), wallet.ChainID().Int64(), "chain id must not be shared")
}
