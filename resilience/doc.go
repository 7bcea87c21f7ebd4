// Package resilience bounds how much work the probe accepts at once.
//
// A Bulkhead caps concurrent evaluations so a burst of pathological patterns
// on a backtracking engine cannot take every CPU:
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{Name: "evaluations", MaxConcurrent: 16})
//	res, err := resilience.ExecuteWithResult(bh, ctx, func() (query.QueryResult, error) {
//	    return ev.Evaluate(ctx, q)
//	})
package resilience
