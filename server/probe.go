package server

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/regexprobe/assembler"
	"github.com/kbukum/regexprobe/engine"
	apperrors "github.com/kbukum/regexprobe/errors"
	"github.com/kbukum/regexprobe/evaluator"
	"github.com/kbukum/regexprobe/logger"
	"github.com/kbukum/regexprobe/query"
	"github.com/kbukum/regexprobe/resilience"
)

// EngineInfo describes one registered engine.
type EngineInfo struct {
	Name       string `json:"name"`
	LinearTime bool   `json:"linear_time"`
	Default    bool   `json:"default"`
}

// ProbeHandler serves query evaluation over HTTP. It holds one evaluator per
// registered engine; all of them are safe for concurrent requests. A
// bulkhead shared by all engines bounds how many evaluations run at once.
type ProbeHandler struct {
	evaluators    map[string]*evaluator.Evaluator
	names         []string
	defaultEngine string
	limit         *resilience.Bulkhead
	log           *logger.Logger
}

// NewProbeHandler builds an evaluator for every registered engine, each
// tuned by cfg. cfg.Name selects the engine used when a request names none.
func NewProbeHandler(cfg engine.Config, limit resilience.BulkheadConfig, log *logger.Logger, opts ...evaluator.Option) (*ProbeHandler, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := &ProbeHandler{
		evaluators:    make(map[string]*evaluator.Evaluator),
		names:         engine.Names(),
		defaultEngine: cfg.Name,
		log:           log.WithComponent("probe"),
	}
	if limit.OnReject == nil {
		limit.OnReject = func(name string, reason error) {
			h.log.Warn("evaluation rejected", logger.Fields(
				"bulkhead", name,
				"in_use", h.limit.InUse(),
				"max_concurrent", h.limit.MaxConcurrent(),
				logger.FieldError, reason.Error(),
			))
		}
	}
	h.limit = resilience.NewBulkhead(limit)
	evalOpts := append(evaluator.FromConfig(cfg), evaluator.WithLogger(log))
	evalOpts = append(evalOpts, opts...)

	for _, name := range h.names {
		ec := cfg
		ec.Name = name
		eng, err := engine.New(ec)
		if err != nil {
			return nil, err
		}
		h.evaluators[name] = evaluator.New(eng, evalOpts...)
	}
	return h, nil
}

// Register mounts the probe routes.
func (h *ProbeHandler) Register(r gin.IRoutes) {
	r.POST("/v1/query", h.Query)
	r.GET("/v1/engines", h.Engines)
}

// Names returns the engines this handler can evaluate with.
func (h *ProbeHandler) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Query evaluates the request body on the engine named by ?engine=.
func (h *ProbeHandler) Query(c *gin.Context) {
	name := c.DefaultQuery("engine", h.defaultEngine)
	ev, ok := h.evaluators[name]
	if !ok {
		RespondWithError(c, apperrors.UnsupportedEngine(name, h.names))
		return
	}

	q, err := query.Decode(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			err = apperrors.New(apperrors.ErrCodeMalformedQuery, "The query document exceeds the request size limit.", http.StatusRequestEntityTooLarge).
				WithDetail("limit", tooLarge.Limit).WithCause(err)
		}
		RespondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	res, err := resilience.ExecuteWithResult(h.limit, ctx, func() (query.QueryResult, error) {
		return ev.Evaluate(ctx, q)
	})
	if err != nil {
		if resilience.IsRejection(err) {
			err = apperrors.Busy("evaluations", err)
		} else if ctx.Err() != nil && !apperrors.IsAppError(err) {
			err = apperrors.Timeout("evaluate", err)
		}
		RespondWithError(c, err)
		return
	}

	pretty, _ := strconv.ParseBool(c.Query("pretty"))
	body, err := assembler.Marshal(res, assembler.Options{Indent: pretty})
	if err != nil {
		RespondWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Engines lists the registered engines.
func (h *ProbeHandler) Engines(c *gin.Context) {
	out := make([]EngineInfo, 0, len(h.names))
	for _, name := range h.names {
		out = append(out, EngineInfo{
			Name:       name,
			LinearTime: h.evaluators[name].Engine().LinearTime(),
			Default:    name == h.defaultEngine,
		})
	}
	RespondOK(c, out)
}
