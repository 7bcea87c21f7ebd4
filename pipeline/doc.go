// Package pipeline provides the small pull-based pipeline the evaluator
// uses to fan matching work out over inputs.
//
// Pipelines are lazy: no work happens until values are pulled via Collect.
//
//   - Map: transform each value on the calling goroutine
//   - Parallel: concurrent Map with a worker pool (order NOT preserved)
//   - ParallelOrdered: concurrent Map that yields results in source order
//
// # Usage
//
//	src := pipeline.FromSlice(inputs)
//	out := pipeline.ParallelOrdered(src, 4, func(ctx context.Context, in string) (Result, error) {
//	    return match(in), nil
//	})
//	results, err := pipeline.Collect(ctx, out)
package pipeline
