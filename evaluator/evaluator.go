package evaluator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/regexprobe/assembler"
	"github.com/kbukum/regexprobe/engine"
	"github.com/kbukum/regexprobe/errors"
	"github.com/kbukum/regexprobe/logger"
	"github.com/kbukum/regexprobe/observability"
	"github.com/kbukum/regexprobe/pipeline"
	"github.com/kbukum/regexprobe/query"
)

// Evaluator runs queries against one engine. It holds no per-run state and
// is safe for concurrent use.
type Evaluator struct {
	eng     engine.Engine
	workers int
	policy  GroupPolicy
	log     *logger.Logger
	metrics *observability.Metrics
}

// New creates an Evaluator for eng.
func New(eng engine.Engine, opts ...Option) *Evaluator {
	e := &Evaluator{
		eng:     eng,
		workers: 1,
		policy:  EmptyGroup,
		log:     logger.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithComponent("evaluator").WithFields(logger.Fields(logger.FieldEngine, eng.Name()))
	return e
}

// Engine returns the engine queries are run against.
func (e *Evaluator) Engine() engine.Engine { return e.eng }

// Evaluate compiles q.Pattern once and matches it against every input.
func (e *Evaluator) Evaluate(ctx context.Context, q query.Query) (query.QueryResult, error) {
	runID := uuid.NewString()
	ctx = logger.ContextWithRunID(ctx, runID)
	log := e.log.WithContext(ctx)

	ctx, span := observability.StartSpan(ctx, observability.SpanEvaluate, trace.WithAttributes(
		attribute.String(observability.AttrRunID, runID),
		attribute.String(observability.AttrEngine, e.eng.Name()),
		attribute.Bool(observability.AttrLinearTime, e.eng.LinearTime()),
		attribute.Int(observability.AttrInputCount, len(q.Inputs)),
		attribute.Int(observability.AttrWorkers, e.workers),
	))
	defer span.End()

	start := time.Now()
	res, matched, err := e.run(ctx, log, q)
	if err != nil {
		observability.SetSpanError(ctx, err)
		if e.metrics != nil {
			e.metrics.RecordError(ctx, e.eng.Name(), string(errors.CodeOf(err)))
		}
		log.Error("evaluation failed", logger.ErrorFields("evaluate", err))
		return query.QueryResult{}, err
	}

	elapsed := time.Since(start)
	span.SetAttributes(
		attribute.Bool(observability.AttrValidPattern, res.ValidPattern),
		attribute.Int(observability.AttrMatchedCount, matched),
	)
	if e.metrics != nil {
		e.metrics.RecordRun(ctx, observability.RunStats{
			Engine:       e.eng.Name(),
			ValidPattern: res.ValidPattern,
			Inputs:       len(q.Inputs),
			Matched:      matched,
			Duration:     elapsed,
		})
	}
	log.Debug("evaluation finished", logger.MergeWithDuration(logger.Fields(
		logger.FieldValidPattern, res.ValidPattern,
		logger.FieldInputCount, len(q.Inputs),
		"matched", matched,
	), elapsed))
	return res, nil
}

func (e *Evaluator) run(ctx context.Context, log *logger.Logger, q query.Query) (query.QueryResult, int, error) {
	if err := ctx.Err(); err != nil {
		return query.QueryResult{}, 0, errors.Timeout("evaluate", err)
	}

	e.enter(ctx, log, PhaseCompiling)
	m, err := e.compile(ctx, q.Pattern)
	if err != nil {
		e.enter(ctx, log, PhaseCompileFailed)
		log.Debug("pattern rejected", logger.Fields(
			logger.FieldPattern, q.Pattern,
			logger.FieldError, err.Error(),
		))
		e.enter(ctx, log, PhaseDone)
		return assembler.Assemble(q, false, nil), 0, nil
	}
	e.enter(ctx, log, PhaseCompiled)

	if !e.eng.LinearTime() {
		log.Warn("engine does not guarantee linear-time matching", logger.Fields(
			logger.FieldInputCount, len(q.Inputs),
		))
	}

	e.enter(ctx, log, PhaseMatching)
	outcomes, err := e.matchAll(ctx, m, q.Inputs)
	if err != nil {
		return query.QueryResult{}, 0, e.classify(ctx, err)
	}
	e.enter(ctx, log, PhaseDone)

	matched := 0
	for _, o := range outcomes {
		if o.Matched {
			matched++
		}
	}
	return assembler.Assemble(q, true, outcomes), matched, nil
}

func (e *Evaluator) compile(ctx context.Context, pattern string) (engine.Matcher, error) {
	_, span := observability.StartSpan(ctx, observability.SpanCompile)
	defer span.End()
	m, err := e.eng.Compile(pattern)
	if err != nil {
		span.SetAttributes(attribute.Bool(observability.AttrValidPattern, false))
	}
	return m, err
}

func (e *Evaluator) matchAll(ctx context.Context, m engine.Matcher, inputs []string) ([]query.MatchResult, error) {
	fn := func(_ context.Context, input string) (query.MatchResult, error) {
		return e.matchOne(m, input)
	}
	src := pipeline.FromSlice(inputs)
	if e.workers > 1 && len(inputs) > 1 {
		return pipeline.Collect(ctx, pipeline.ParallelOrdered(src, e.workers, fn))
	}
	return pipeline.Collect(ctx, pipeline.Map(src, fn))
}

// matchOne finds the leftmost match of m in input.
func (e *Evaluator) matchOne(m engine.Matcher, input string) (query.MatchResult, error) {
	match, err := m.Find(input)
	if err != nil {
		return query.MatchResult{}, err
	}
	if match == nil {
		return query.NoMatch(input), nil
	}
	groups := make([]string, len(match.Groups))
	for i, g := range match.Groups {
		if g.Participated() {
			groups[i] = g.Text(input)
		} else {
			groups[i] = e.policy(i + 1)
		}
	}
	return query.Matched(input, match.Full.Text(input), groups), nil
}

// classify turns a matching failure into the run's hard error.
func (e *Evaluator) classify(ctx context.Context, err error) error {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Timeout("evaluate", ctxErr)
	}
	return errors.Timeout("match", err).WithDetail(logger.FieldEngine, e.eng.Name())
}

// enter records a phase transition in the debug log and as an event on the
// run's span.
func (e *Evaluator) enter(ctx context.Context, log *logger.Logger, p Phase) {
	log.Debug("phase", logger.Fields(logger.FieldPhase, p.String()))
	trace.SpanFromContext(ctx).AddEvent(p.String())
}
