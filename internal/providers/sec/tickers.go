package sec

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/seenimoa/tickerintel/internal/infra"
	"github.com/seenimoa/tickerintel/internal/logging"
	"github.com/seenimoa/tickerintel/internal/metrics"
	"github.com/seenimoa/tickerintel/pkg/models"
	"github.com/seenimoa/tickerintel/pkg/utils"
)

// TickerIndex memoizes the SEC company_tickers.json registry.
// Populated at most once per process; read-only afterwards.
// A failed load leaves the index empty so the next call tries again.
type TickerIndex struct {
	client  *infra.Client
	url     string
	logger  *logging.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	loaded  bool
	entries map[string]models.CIKMapping
}

// NewTickerIndex creates an empty index that loads from url.
func NewTickerIndex(client *infra.Client, url string, logger *logging.Logger, m *metrics.Metrics) *TickerIndex {
	if logger == nil {
		logger = logging.NewSilent()
	}
	return &TickerIndex{
		client:  client,
		url:     url,
		logger:  logger,
		metrics: m,
	}
}

// Load fetches the registry if it has not been loaded yet.
func (t *TickerIndex) Load(ctx context.Context) error {
	t.mu.RLock()
	loaded := t.loaded
	t.mu.RUnlock()
	if loaded {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loaded {
		return nil
	}

	var raw map[string]edgarTickerEntry
	if err := t.client.GetJSON(ctx, t.url, &raw); err != nil {
		return fmt.Errorf("sec: load ticker registry: %w", err)
	}

	entries := make(map[string]models.CIKMapping, len(raw))
	// Walk rows in registry order; a later row for the same symbol wins.
	for _, key := range registryOrder(raw) {
		e := raw[key]
		symbol := utils.NormalizeTicker(e.Ticker)
		if symbol == "" {
			continue
		}
		entries[symbol] = models.CIKMapping{
			CIK:    padCIK(string(e.CIK)),
			Symbol: symbol,
			Name:   e.Title,
		}
	}

	t.entries = entries
	t.loaded = true
	t.metrics.SetTickerIndexSize(len(entries))
	t.logger.Info().Int("tickers", len(entries)).Msg("ticker registry loaded")
	return nil
}

// registryOrder returns the keys of the registry object ("0", "1", ...)
// sorted by their numeric row index. Non-numeric keys sort last, by string.
func registryOrder(raw map[string]edgarTickerEntry) []string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Lookup returns the zero-padded CIK for ticker, loading the registry on
// first use.
func (t *TickerIndex) Lookup(ctx context.Context, ticker string) (string, error) {
	m, err := t.Mapping(ctx, ticker)
	if err != nil {
		return "", err
	}
	return m.CIK, nil
}

// Mapping returns the full registry row for ticker.
func (t *TickerIndex) Mapping(ctx context.Context, ticker string) (models.CIKMapping, error) {
	if err := t.Load(ctx); err != nil {
		return models.CIKMapping{}, err
	}

	symbol := utils.NormalizeTicker(ticker)
	t.mu.RLock()
	m, ok := t.entries[symbol]
	t.mu.RUnlock()
	if !ok {
		return models.CIKMapping{}, fmt.Errorf("%w: %s", ErrTickerNotFound, strings.TrimSpace(ticker))
	}
	return m, nil
}

// Len returns the number of tickers held; zero before a successful load.
func (t *TickerIndex) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Loaded reports whether the registry has been fetched successfully.
func (t *TickerIndex) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loaded
}
