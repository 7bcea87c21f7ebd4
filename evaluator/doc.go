// Package evaluator runs one query against one regex engine.
//
// The pattern is compiled exactly once. A compile failure yields a result
// with validPattern=false and no per-input results. Otherwise every input is
// searched for its leftmost match and the outcomes are folded, in input
// order, into a query.QueryResult:
//
//	ev := evaluator.New(engine.NewStdlib(), evaluator.WithWorkers(4))
//	res, err := ev.Evaluate(ctx, q)
//
// Capture groups that did not participate in a match are rendered through a
// GroupPolicy. The default, EmptyGroup, renders them as "" which makes them
// indistinguishable from groups that matched the empty string.
//
// Evaluate only fails when the engine gives up at runtime (a backtracking
// engine hitting its match deadline) or the caller's context ends. Both are
// reported as TIMEOUT errors and no partial result is returned.
package evaluator
