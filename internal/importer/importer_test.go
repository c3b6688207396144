package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordbook/pkg/models"
)

type fakeCreator struct {
	mu       sync.Mutex
	added    map[string]int64
	failOn   map[string]bool
	inFlight atomic.Int32
	peak     atomic.Int32
}

func newFakeCreator(failOn ...string) *fakeCreator {
	f := &fakeCreator{added: make(map[string]int64), failOn: make(map[string]bool)}
	for _, w := range failOn {
		f.failOn[w] = true
	}
	return f
}

func (f *fakeCreator) AddWordToList(_ context.Context, listID int64, w models.Word) (*models.Word, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.failOn[w.Word] {
		return nil, errors.New("duplicate word")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added[w.Word] = listID
	w.ID = int64(len(f.added))
	return &w, nil
}

func makeWords(n int) []models.Word {
	words := make([]models.Word, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, models.Word{Word: fmt.Sprintf("w%03d", i)})
	}
	return words
}

func TestImportCountsAcrossBatches(t *testing.T) {
	creator := newFakeCreator("w003", "w051", "w119")
	var reports []Progress
	im := New(creator, 50, nil).WithBatchPause(0)

	res, err := im.Import(context.Background(), 4, makeWords(120), func(p Progress) {
		reports = append(reports, p)
	})
	require.NoError(t, err)

	assert.Equal(t, 120, res.Total)
	assert.Equal(t, 117, res.Succeeded)
	assert.Equal(t, 3, res.Failed)
	assert.Len(t, res.Errors, 3)
	assert.Contains(t, res.Errors[0]+res.Errors[1]+res.Errors[2], `"w051"`)

	require.Len(t, reports, 3)
	assert.Equal(t, Progress{Batch: 1, Batches: 3, Done: 50, Total: 120, Succeeded: 49, Failed: 1}, reports[0])
	assert.Equal(t, 100, reports[1].Done)
	assert.Equal(t, 120, reports[2].Done)

	assert.Len(t, creator.added, 117)
	assert.Equal(t, int64(4), creator.added["w000"])
	assert.LessOrEqual(t, creator.peak.Load(), int32(50), "a batch never overlaps the next")
}

func TestImportEmpty(t *testing.T) {
	res, err := New(newFakeCreator(), 0, nil).Import(context.Background(), 1, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.NotNil(t, res.Errors)
}

func TestImportStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	creator := newFakeCreator()
	im := New(creator, 2, nil).WithBatchPause(0)

	res, err := im.Import(ctx, 1, makeWords(6), func(p Progress) {
		if p.Batch == 1 {
			cancel()
		}
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, res.Succeeded)
	assert.Len(t, creator.added, 2)
}
