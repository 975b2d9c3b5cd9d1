package arbitrage

import (
	"errors"
	"fmt"
	"math/big"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dexroute/arb-engine-go/poolgraph"
	"github.com/dexroute/arb-engine-go/router"
	"github.com/dexroute/arb-engine-go/tokenregistry"
)

// TokenLabeler resolves token ids to metadata for path labels. A nil labeler
// falls back to numeric ids.
type TokenLabeler interface {
	GetByID(id uint64) (tokenregistry.Token, bool)
}

// Config holds the scanner's parameters and dependencies.
type Config struct {
	// BaseToken is the asset every cycle starts and ends at.
	BaseToken uint64
	// MaxHops bounds cycle length; expected to be a small constant (3-4).
	MaxHops int
	// MinNetProfit filters results: cycles netting less are discarded.
	MinNetProfit *big.Int
	// PerHopFee is the fixed transaction fee charged per hop, in base units.
	PerHopFee *big.Int
	// MaxInput is the absolute ceiling on optimized input amounts.
	MaxInput *big.Int
	// Workers sizes the per-cycle fan-out. Zero or negative means 1.
	Workers int

	Tokens   TokenLabeler // optional
	Logger   Logger
	Registry prometheus.Registerer
}

func (c *Config) validate() error {
	if c.MaxHops < 2 {
		return errors.New("config: MaxHops must be at least 2")
	}
	if c.MinNetProfit == nil {
		return errors.New("config: MinNetProfit is required")
	}
	if c.PerHopFee == nil || c.PerHopFee.Sign() < 0 {
		return errors.New("config: PerHopFee must be non-negative")
	}
	if c.MaxInput == nil || c.MaxInput.Sign() <= 0 {
		return errors.New("config: MaxInput must be positive")
	}
	if c.Logger == nil {
		return errors.New("config: Logger is required")
	}
	if c.Registry == nil {
		return errors.New("config: Registry is required")
	}
	return nil
}

// Scanner orchestrates the full pipeline: cycle discovery, per-cycle
// optimization, tightening, filtering, and ranking. A scanner holds no
// snapshot state; the same instance may scan successive graphs.
type Scanner struct {
	cfg     Config
	metrics *Metrics
	logger  Logger
}

func NewScanner(cfg *Config) (*Scanner, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Scanner{
		cfg:     *cfg,
		metrics: NewMetrics(cfg.Registry),
		logger:  cfg.Logger,
	}, nil
}

// Scan evaluates every cycle reachable from the base token and returns the
// ranked snapshot. Cycles are independent, so the per-cycle pipeline fans
// out across workers; the graph is shared read-only and no locking is
// needed beyond collecting results. Deterministic for a fixed graph and
// parameters, apart from the reported duration.
func (s *Scanner) Scan(graph *poolgraph.Graph) *Snapshot {
	start := time.Now()
	timer := prometheus.NewTimer(s.metrics.scanDuration)
	defer timer.ObserveDuration()

	cycles := FindCycles(graph, s.cfg.BaseToken, s.cfg.MaxHops)
	s.metrics.cyclesExamined.Add(float64(len(cycles)))

	workers := s.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(cycles) && len(cycles) > 0 {
		workers = len(cycles)
	}

	jobs := make(chan router.Route, len(cycles))
	var (
		mu      sync.Mutex
		results []CircularArb
		wg      sync.WaitGroup
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cycle := range jobs {
				arb, ok := s.evaluateCycle(cycle)
				if !ok {
					continue
				}
				mu.Lock()
				results = append(results, arb)
				mu.Unlock()
			}
		}()
	}
	for _, cycle := range cycles {
		jobs <- cycle
	}
	close(jobs)
	wg.Wait()

	// Net profit descending; path label then pool ids break ties so a
	// fixed snapshot always ranks identically. Two pools on the same pair
	// produce cycles sharing a label, so the label alone is not enough.
	sort.SliceStable(results, func(i, j int) bool {
		cmp := results[i].NetProfit.Cmp(results[j].NetProfit)
		if cmp != 0 {
			return cmp > 0
		}
		if results[i].PathLabel != results[j].PathLabel {
			return results[i].PathLabel < results[j].PathLabel
		}
		return slices.Compare(results[i].PoolIDs, results[j].PoolIDs) < 0
	})

	total := new(big.Int)
	for i := range results {
		total.Add(total, results[i].NetProfit)
	}
	s.metrics.arbsFound.Add(float64(len(results)))

	snapshot := &Snapshot{
		Results:        results,
		TotalNetProfit: total,
		Duration:       time.Since(start),
	}

	s.logger.Debug("scan complete",
		"cycles", len(cycles),
		"profitable", len(results),
		"total_net_profit", total.String(),
		"duration_ms", snapshot.Duration.Milliseconds(),
	)
	return snapshot
}

// evaluateCycle runs one cycle through optimize -> quote -> tighten and
// applies the fee and profit filters. Infeasible cycles simply do not
// appear in the snapshot.
func (s *Scanner) evaluateCycle(cycle router.Route) (CircularArb, bool) {
	amountIn := Optimize(cycle, big.NewInt(1), s.cfg.MaxInput)
	if amountIn == nil || amountIn.Sign() <= 0 {
		return CircularArb{}, false
	}

	quote, err := router.Quote(cycle, amountIn)
	if err != nil {
		return CircularArb{}, false
	}
	quote = Tighten(quote)

	hops := len(quote.Hops)
	gross := new(big.Int).Sub(quote.AmountOut, quote.AmountIn)
	txFee := new(big.Int).Mul(s.cfg.PerHopFee, big.NewInt(int64(hops)))
	net := new(big.Int).Sub(gross, txFee)
	if net.Cmp(s.cfg.MinNetProfit) < 0 {
		return CircularArb{}, false
	}

	poolIDs := make([]uint64, hops)
	for i, hop := range quote.Hops {
		poolIDs[i] = hop.PoolID
	}

	netPct, _ := new(big.Float).Quo(
		new(big.Float).SetInt(net),
		new(big.Float).SetInt(quote.AmountIn),
	).Float64()

	return CircularArb{
		PathLabel:    s.pathLabel(quote),
		Hops:         hops,
		PoolIDs:      poolIDs,
		AmountIn:     quote.AmountIn,
		AmountOut:    quote.AmountOut,
		GrossProfit:  gross,
		TxFee:        txFee,
		NetProfit:    net,
		NetProfitPct: netPct * 100,
		Route:        quote,
	}, true
}

func (s *Scanner) pathLabel(quote *router.RouteQuote) string {
	labels := make([]string, 0, len(quote.Hops)+1)
	labels = append(labels, s.tokenLabel(quote.Hops[0].From))
	for _, hop := range quote.Hops {
		labels = append(labels, s.tokenLabel(hop.To))
	}
	return strings.Join(labels, " > ")
}

func (s *Scanner) tokenLabel(tokenID uint64) string {
	if s.cfg.Tokens != nil {
		if token, ok := s.cfg.Tokens.GetByID(tokenID); ok && token.Symbol != "" {
			return token.Symbol
		}
	}
	return fmt.Sprintf("token-%d", tokenID)
}
