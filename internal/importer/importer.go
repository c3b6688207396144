package importer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/wordbook/pkg/models"
)

const (
	DefaultBatchSize  = 50
	DefaultBatchPause = 100 * time.Millisecond
)

// WordCreator adds a word to a list. *api.Client satisfies it.
type WordCreator interface {
	AddWordToList(ctx context.Context, listID int64, word models.Word) (*models.Word, error)
}

// Progress is reported after every finished batch.
type Progress struct {
	Batch     int
	Batches   int
	Done      int
	Total     int
	Succeeded int
	Failed    int
}

// Result holds the outcome of an import.
type Result struct {
	Total     int
	Succeeded int
	Failed    int
	Errors    []string
}

// Importer posts words to a list in batches. Words within a batch are sent
// concurrently and the whole batch is awaited before the next one starts.
type Importer struct {
	creator    WordCreator
	batchSize  int
	batchPause time.Duration
	logger     *zap.Logger
}

// New creates an importer. A non-positive batchSize means DefaultBatchSize.
func New(creator WordCreator, batchSize int, logger *zap.Logger) *Importer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		creator:    creator,
		batchSize:  batchSize,
		batchPause: DefaultBatchPause,
		logger:     logger,
	}
}

// WithBatchPause overrides the pause between batches.
func (im *Importer) WithBatchPause(d time.Duration) *Importer {
	im.batchPause = d
	return im
}

// Import adds words to listID. Individual failures are counted, not fatal;
// the returned error is non-nil only when ctx ends before all batches ran.
func (im *Importer) Import(ctx context.Context, listID int64, words []models.Word, progress func(Progress)) (*Result, error) {
	result := &Result{Total: len(words), Errors: make([]string, 0)}
	batches := (len(words) + im.batchSize - 1) / im.batchSize

	var mu sync.Mutex
	for b := 0; b < batches; b++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("import interrupted after %d of %d batches: %w", b, batches, err)
		}

		start := b * im.batchSize
		end := min(start+im.batchSize, len(words))

		var g errgroup.Group
		for _, w := range words[start:end] {
			g.Go(func() error {
				_, err := im.creator.AddWordToList(ctx, listID, w)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Failed++
					result.Errors = append(result.Errors, fmt.Sprintf("word %q: %v", w.Word, err))
					im.logger.Debug("failed to import word", zap.String("word", w.Word), zap.Error(err))
					return nil
				}
				result.Succeeded++
				return nil
			})
		}
		_ = g.Wait()

		if progress != nil {
			progress(Progress{
				Batch:     b + 1,
				Batches:   batches,
				Done:      end,
				Total:     len(words),
				Succeeded: result.Succeeded,
				Failed:    result.Failed,
			})
		}

		if end < len(words) && im.batchPause > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(im.batchPause):
			}
		}
	}

	im.logger.Info("import finished",
		zap.Int64("list_id", listID),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
