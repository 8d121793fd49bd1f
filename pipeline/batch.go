package pipeline

import (
	"context"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/clearframe-ai/go-imaging/pixel"
	"github.com/clearframe-ai/go-imaging/segmentation"
)

// BatchResult pairs one input buffer with its processing outcome. Results
// correspond 1:1 with inputs by index regardless of completion order.
type BatchResult struct {
	// Index of the input this result belongs to.
	Index int
	// Buffer is the processed output, nil when Err is set.
	Buffer *pixel.Buffer
	// Err is the per-image failure, if any.
	Err error
}

// ProcessBatch processes independent buffers across a bounded worker pool.
// Every image exclusively owns its buffers for the duration of its call, so
// no coordination beyond the pool itself is needed.
//
// A failing image is logged and does not abort the batch; the batch returns
// the best-effort results. Cancellation is cooperative between per-image
// units: once ctx is done, images not yet started report the context error
// without running.
//
// Arguments:
//   - ctx: Cancellation scope for the whole batch.
//   - srcs: Input buffers, read-only.
//   - opts: Options applied to every image.
//   - provider: Segmentation provider shared by the workers; may be nil
//     unless BackgroundMode is "ai".
//
// Returns:
//   - []BatchResult: One entry per input, in input order.
func ProcessBatch(ctx context.Context, srcs []*pixel.Buffer, opts Options, provider segmentation.Provider) []BatchResult {
	results := make([]BatchResult, len(srcs))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, src := range srcs {
		i, src := i, src
		results[i].Index = i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			out, err := Process(gctx, src, opts, provider)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"component": "pipeline",
					"image":     i,
				}).WithError(err).Warn("image processing failed, continuing batch")
				results[i].Err = err
				return nil
			}
			results[i].Buffer = out
			return nil
		})
	}

	// Workers never return errors; Wait only drains the pool.
	_ = g.Wait()
	return results
}
