package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
)

// BestScoreKey is the storage key the best score lives under.
const BestScoreKey = "skypulse_best_score"

// KV is the small key-value store the best score is persisted in.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// BestScore is the persisted, monotonically non-decreasing best score.
type BestScore struct {
	mu     sync.Mutex
	kv     KV
	logger *slog.Logger
}

// NewBestScore creates a BestScore backed by kv.
func NewBestScore(kv KV, logger *slog.Logger) *BestScore {
	return &BestScore{
		kv:     kv,
		logger: logger.With("component", "best-score"),
	}
}

// Get returns the stored best score; 0 when nothing is stored.
func (b *BestScore) Get(ctx context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load(ctx)
}

func (b *BestScore) load(ctx context.Context) (int, error) {
	raw, ok, err := b.kv.Get(ctx, BestScoreKey)
	if err != nil {
		return 0, fmt.Errorf("read best score: %w", err)
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		b.logger.Warn("ignoring unparsable best score", "value", raw, "error", err)
		return 0, nil
	}
	return n, nil
}

// Offer stores score if it is strictly greater than the current best and
// returns the best score after the call.
func (b *BestScore) Offer(ctx context.Context, score int) (best int, updated bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	best, err = b.load(ctx)
	if err != nil {
		return 0, false, err
	}
	if score <= best {
		return best, false, nil
	}
	if err := b.kv.Set(ctx, BestScoreKey, strconv.Itoa(score)); err != nil {
		return best, false, fmt.Errorf("write best score: %w", err)
	}
	b.logger.Info("new best score", "score", score, "previous", best)
	return score, true, nil
}
