package events

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoracoin/internal/domain/coin"
	"zoracoin/pkg/errors"
)

func TestSanitizeUTF8(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "valid UTF-8 string unchanged", input: "Hello, 世界 🚀", expected: "Hello, 世界 🚀"},
		{name: "empty string", input: "", expected: ""},
		{name: "invalid bytes removed", input: "Hello\xffWorld", expected: "HelloWorld"},
		{name: "multiple invalid sequences", input: "Start\xffMiddle\xfeEnd\xfd", expected: "StartMiddleEnd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeUTF8(tt.input))
		})
	}
}

type recordingProducer struct {
	topic string
	key   string
	event interface{}
	err   error
}

func (r *recordingProducer) Publish(_ context.Context, topic string, key string, event interface{}) error {
	r.topic, r.key, r.event = topic, key, event
	return r.err
}

func TestPublisher_CoinCreated(t *testing.T) {
	producer := &recordingProducer{}
	pub := NewPublisher(producer, nil)

	coinAddr := common.HexToAddress("0x00000000000000000000000000000000000000c0")
	result := &coin.CreateCoinResult{Hash: common.HexToHash("0xabc"), Address: &coinAddr}
	args := coin.CreateCoinArgs{Name: "Bad\xffName", Symbol: "TST", ChainID: 8453, Currency: coin.DeployCurrencyETH}

	require.NoError(t, pub.PublishCoinCreated(context.Background(), NewCoinCreatedEvent("inv-1", args, result)))
	assert.Equal(t, "coins.created", producer.topic)
	assert.Equal(t, result.Hash.Hex(), producer.key)

	raw, err := json.Marshal(producer.event)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"name":"BadName"`)
	assert.Contains(t, string(raw), `"invocation_id":"inv-1"`)
	assert.Contains(t, string(raw), `"currency":"ETH"`)
	assert.NotContains(t, string(raw), `"pool"`)
}

func TestPublisher_CoinTraded(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker down")}
	pub := NewPublisher(producer, nil)

	size, _ := new(big.Int).SetString("100000000000000000", 10)
	params := coin.TradeParams{
		Direction: coin.TradeDirectionBuy,
		Target:    common.HexToAddress("0x00000000000000000000000000000000000000c0"),
		Args:      coin.TradeArgs{OrderSize: size},
	}
	ev := NewCoinTradedEvent("", params, &coin.TradeResult{Hash: common.HexToHash("0x1")})
	assert.Equal(t, "100000000000000000", ev.OrderSize)

	err := pub.PublishCoinTraded(context.Background(), ev)
	require.Error(t, err)
	assert.Equal(t, "coins.traded", producer.topic)
	assert.Equal(t, params.Target.Hex(), producer.key)
}
