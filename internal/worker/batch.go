package worker

import (
	"context"
)

// MaxLabelWorkers caps the label lookup fan-out
const MaxLabelWorkers = 16

// LabelFetcher looks up the locale label of one linked-data item
type LabelFetcher interface {
	Label(ctx context.Context, id string) (string, error)
}

// LabelJob looks up one label
type LabelJob struct {
	ID      string
	Fetcher LabelFetcher
}

// Execute executes the lookup
func (j *LabelJob) Execute(ctx context.Context) *LabelResult {
	if err := ctx.Err(); err != nil {
		return &LabelResult{ID: j.ID, Error: err}
	}
	label, err := j.Fetcher.Label(ctx, j.ID)
	return &LabelResult{ID: j.ID, Label: label, Error: err}
}

// LabelResult is the outcome of one lookup
type LabelResult struct {
	ID    string
	Label string
	Error error
}

// Option collapses the result: a failed lookup or an empty label is "no label"
func (r *LabelResult) Option() (string, bool) {
	if r.Error != nil || r.Label == "" {
		return "", false
	}
	return r.Label, true
}

// LabelBatch resolves many labels with bounded concurrency
type LabelBatch struct {
	fetcher     LabelFetcher
	concurrency int
}

// NewLabelBatch creates a batch resolver; concurrency is clamped to 1..MaxLabelWorkers
func NewLabelBatch(fetcher LabelFetcher, concurrency int) *LabelBatch {
	if concurrency <= 0 {
		concurrency = 1
	}
	if concurrency > MaxLabelWorkers {
		concurrency = MaxLabelWorkers
	}
	return &LabelBatch{
		fetcher:     fetcher,
		concurrency: concurrency,
	}
}

// Concurrency returns the effective number of workers
func (b *LabelBatch) Concurrency() int {
	return b.concurrency
}

// Lookup resolves every id. Results come back in completion order, one per id.
func (b *LabelBatch) Lookup(ctx context.Context, ids []string) []*LabelResult {
	if len(ids) == 0 {
		return []*LabelResult{}
	}

	workers := b.concurrency
	if workers > len(ids) {
		workers = len(ids)
	}

	pool := NewPool[*LabelResult](ctx, workers)
	pool.Start()

	for _, id := range ids {
		if !pool.Submit(&LabelJob{ID: id, Fetcher: b.fetcher}) {
			break
		}
	}

	labelResults := pool.Wait()
	answered := make(map[string]bool, len(labelResults))
	for _, lr := range labelResults {
		answered[lr.ID] = true
	}

	// Jobs discarded after cancellation still get a result
	for _, id := range ids {
		if !answered[id] {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			labelResults = append(labelResults, &LabelResult{ID: id, Error: err})
		}
	}

	return labelResults
}
