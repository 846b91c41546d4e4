package metrics

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"zoracoin/internal/domain/stats"
	"zoracoin/pkg/logger"
)

// BalanceReader reads the native balance of an account
type BalanceReader interface {
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
}

// CustomCollector reports scrape-time values: the signer's native balance
// and the journal's 24h outcome counts
type CustomCollector struct {
	log     *logger.Logger
	chain   BalanceReader
	signer  common.Address
	journal stats.Repository // optional

	signerBalance *prometheus.Desc
	invocations   *prometheus.Desc
}

// NewCustomCollector creates a new custom metrics collector. journal may be nil.
func NewCustomCollector(log *logger.Logger, chain BalanceReader, signer common.Address, journal stats.Repository) *CustomCollector {
	return &CustomCollector{
		log:     log,
		chain:   chain,
		signer:  signer,
		journal: journal,

		signerBalance: prometheus.NewDesc(
			"zoracoin_signer_balance_eth",
			"Native balance of the signing account in ETH",
			[]string{"address"}, nil,
		),
		invocations: prometheus.NewDesc(
			"zoracoin_tool_invocations_24h",
			"Journaled tool invocations in the last 24h",
			[]string{"tool", "outcome"}, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *CustomCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.signerBalance
	ch <- c.invocations
}

// Collect implements prometheus.Collector
func (c *CustomCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.collectSignerBalance(ctx, ch)
	c.collectInvocations(ctx, ch)
}

func (c *CustomCollector) collectSignerBalance(ctx context.Context, ch chan<- prometheus.Metric) {
	wei, err := c.chain.Balance(ctx, c.signer)
	if err != nil {
		c.log.Warnw("Failed to collect signer balance", "error", err)
		return
	}

	eth, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18)).Float64()
	ch <- prometheus.MustNewConstMetric(
		c.signerBalance,
		prometheus.GaugeValue,
		eth,
		c.signer.Hex(),
	)
}

func (c *CustomCollector) collectInvocations(ctx context.Context, ch chan<- prometheus.Metric) {
	if c.journal == nil {
		return
	}

	rows, err := c.journal.GetOutcomes(ctx, "", time.Now().Add(-24*time.Hour))
	if err != nil {
		c.log.Warnw("Failed to collect invocation stats", "error", err)
		return
	}

	for _, row := range rows {
		ch <- prometheus.MustNewConstMetric(
			c.invocations,
			prometheus.GaugeValue,
			float64(row.CallCount),
			row.ToolName,
			row.Outcome,
		)
	}
}

// RegisterCustomCollector registers the custom collector
func RegisterCustomCollector(collector *CustomCollector) {
	prometheus.MustRegister(collector)
}
