package worker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"discountfinder/helpers"
	"discountfinder/internal/evaluator"
	"discountfinder/internal/history"
	"discountfinder/internal/product"
	"discountfinder/services/publisher"
)

// Searcher fetches products for one configured search item
type Searcher interface {
	Search(ctx context.Context, item product.SearchItem) ([]product.Product, error)
}

// Options tunes a single run
type Options struct {
	// MinDiscountPercent is the threshold below which products are dropped
	MinDiscountPercent float64

	// PostLimit caps the number of products published per run
	PostLimit int

	// PostDelay is the pause between posted products
	PostDelay time.Duration

	// DryRun logs what would be posted without publishing or recording
	DryRun bool
}

// Worker ties the search, evaluation, dedup and publishing steps together
// for one batch run
type Worker struct {
	ctx         context.Context
	searcher    Searcher
	publishers  []publisher.Publisher
	history     history.Store
	logger      helpers.LoggerInterface
	searchItems []product.SearchItem
	opts        Options
	metrics     *Metrics
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	searcher Searcher,
	publishers []publisher.Publisher,
	historyStore history.Store,
	logger helpers.LoggerInterface,
	searchItems []product.SearchItem,
	opts Options,
) *Worker {
	if opts.PostLimit <= 0 {
		opts.PostLimit = 5
	}

	return &Worker{
		ctx:         ctx,
		searcher:    searcher,
		publishers:  publishers,
		history:     historyStore,
		logger:      logger,
		searchItems: searchItems,
		opts:        opts,
		metrics:     NewMetrics(),
	}
}

// Metrics returns the run counters
func (w *Worker) Metrics() *Metrics {
	return w.metrics
}

// Run executes one full search, evaluate, dedup and publish cycle. Failures
// of individual searches or publishes are logged and counted but never abort
// the run; the only error returned is context cancellation.
func (w *Worker) Run() error {
	runID := uuid.NewString()[:8]
	start := time.Now()

	found := w.collect(runID)

	deals := evaluator.Evaluate(found, w.opts.MinDiscountPercent)
	w.metrics.AddQualified(len(deals))

	fresh := make([]product.Product, 0, len(deals))
	for _, deal := range deals {
		if w.history.Contains(deal.ASIN) {
			w.metrics.IncDuplicate()
			continue
		}
		fresh = append(fresh, deal)
	}

	w.logger.LogInfo("run %s: %d products found, %d qualified, %d new",
		runID, len(found), len(deals), len(fresh))

	if len(fresh) > 0 {
		w.publish(runID, fresh)
	}

	if err := w.history.Save(); err != nil {
		w.logger.LogError("history", err)
	}

	w.logger.LogInfo("run %s: finished in %s (%s)", runID, time.Since(start), w.metrics.Summary())

	return w.ctx.Err()
}

// collect queries every configured search item and merges the results.
// A failing or empty search item never halts the remaining items.
func (w *Worker) collect(runID string) []product.Product {
	var found []product.Product
	for _, item := range w.searchItems {
		if w.ctx.Err() != nil {
			break
		}

		products, err := w.searcher.Search(w.ctx, item)
		if err != nil {
			w.logger.LogError(searchName(item), err)
			w.metrics.IncSearch("error")
			continue
		}
		w.metrics.IncSearch("ok")

		if len(products) == 0 {
			w.logger.LogInfo("run %s: no results for %s", runID, searchName(item))
			continue
		}

		w.metrics.AddFound(len(products))
		found = append(found, products...)
	}
	return found
}

// publish posts the best new deals, up to the per-run limit. Every enabled
// platform is attempted for every product; a product enters the history as
// soon as one platform accepted it, so a failed platform may retry the same
// product on the next run while a successful one never reposts.
func (w *Worker) publish(runID string, fresh []product.Product) {
	limit := w.opts.PostLimit
	if len(fresh) < limit {
		limit = len(fresh)
	}

	for i, deal := range fresh[:limit] {
		if i > 0 {
			if err := w.sleep(w.opts.PostDelay); err != nil {
				return
			}
		}

		if w.opts.DryRun {
			w.logger.LogInfo("run %s: dry run, would post %s (%.1f%% off)", runID, deal.ASIN, deal.DiscountPercent)
			continue
		}

		post := publisher.Post{
			Text:     publisher.BuildText(deal),
			Title:    deal.Title,
			ImageURL: deal.ImageURL,
		}

		published := false
		for _, pub := range w.publishers {
			result, err := pub.Publish(w.ctx, post)
			if err != nil {
				w.logger.LogError(pub.Platform(), err)
				w.metrics.IncPublish(pub.Platform(), "error")
				continue
			}
			w.metrics.IncPublish(pub.Platform(), "ok")
			w.logger.LogInfo("run %s: posted %s to %s (post id %s)", runID, deal.ASIN, result.Platform, result.PostID)
			published = true
		}

		if published {
			w.history.Record(deal.ASIN)
		}
	}
}

func (w *Worker) sleep(d time.Duration) error {
	if d <= 0 {
		return w.ctx.Err()
	}
	select {
	case <-w.ctx.Done():
		return w.ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func searchName(item product.SearchItem) string {
	if item.Keyword == "" {
		return "category=" + item.Category
	}
	return "category=" + item.Category + " keyword=" + item.Keyword
}
