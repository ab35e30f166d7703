// Package analyze wires the safety gate, execution monitor, and threat
// classifier into one per-invocation session. The session replaces the
// global config/results state of older designs with an explicit object
// threaded through every stage; it is never shared across concurrent
// invocations.
package analyze

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/michkochris/rune-analyze/internal/classify"
	"github.com/michkochris/rune-analyze/internal/errors"
	"github.com/michkochris/rune-analyze/internal/gate"
	"github.com/michkochris/rune-analyze/internal/log"
	"github.com/michkochris/rune-analyze/internal/monitor"
	"github.com/michkochris/rune-analyze/internal/timeline"
)

// Outcome bundles the session's three output objects: the core exposes
// exactly these to the report layer.
type Outcome struct {
	Result     *monitor.Result     `json:"result"`
	Assessment classify.Assessment `json:"assessment"`
	Timeline   timeline.Export     `json:"timeline"`
}

// Session supervises one analysis run from authorization to verdict.
type Session struct {
	ID            string
	Request       gate.Request
	StaticSignals []string

	logger   *log.Logger
	registry *timeline.Registry
	timeline *timeline.Timeline
	runner   monitor.Runner
}

// NewSession builds a session with the built-in triggers registered and
// the timeline baseline captured.
func NewSession(req gate.Request, logger *log.Logger) *Session {
	registry := timeline.NewRegistry()
	tl := timeline.New(registry)

	s := &Session{
		ID:       uuid.New().String(),
		Request:  req,
		logger:   logger,
		registry: registry,
		timeline: tl,
		runner:   monitor.New(logger, tl),
	}
	s.registerBuiltinTriggers()

	tl.Append("SYSTEM:session_initialized", timeline.CategoryLoad,
		"checkpoint system ready")
	return s
}

// Timeline exposes the session's checkpoint timeline.
func (s *Session) Timeline() *timeline.Timeline {
	return s.timeline
}

// Registry exposes the session's trigger registry.
func (s *Session) Registry() *timeline.Registry {
	return s.registry
}

// SetRunner substitutes the execution monitor. Tests install doubles here.
func (s *Session) SetRunner(r monitor.Runner) {
	s.runner = r
}

// registerBuiltinTriggers installs the default trigger set. Registration
// order is dispatch order.
func (s *Session) registerBuiltinTriggers() {
	mustRegister := func(pattern, name string, cb timeline.Callback) {
		// Built-in names are unique by construction.
		if err := s.registry.Register(pattern, name, cb); err != nil {
			panic(err)
		}
	}

	mustRegister("SEC:*", "security-watch", func(cp *timeline.Checkpoint) {
		s.logger.Warn("security checkpoint", "id", cp.ID, "context", cp.Context)
	})
	mustRegister("MEM:*", "memory-watch", func(cp *timeline.Checkpoint) {
		s.logger.Debug("memory checkpoint", "id", cp.ID, "context", cp.Context)
	})
	mustRegister("EXEC:completed", "exit-watch", func(cp *timeline.Checkpoint) {
		s.logger.Debug("execution completed", "context", cp.Context)
	})
}

// Run takes the request through gate, monitor, and classifier. A gate
// rejection or monitor failure returns an error with no Outcome; a
// misbehaving target is not an error and always yields an Outcome.
func (s *Session) Run(ctx context.Context) (*Outcome, error) {
	decision := gate.Authorize(s.Request)
	if decision.ForcedDryRun {
		// Mutually exclusive intents, not mutually exclusive flags: the
		// dry run wins and that resolution is never silent.
		s.logger.Warn("both force and dry-run set; dry run wins, nothing will execute")
	}
	if !decision.Allowed {
		s.timeline.Append("SEC:execution_blocked", timeline.CategorySecurity,
			"safety gate rejected the request")
		return nil, errors.NewExecutionBlockedError(decision.Reason)
	}

	result, err := s.runner.Run(ctx, s.Request)
	if err != nil {
		return nil, err
	}

	assessment := classify.Classify(result, s.Request.Target, s.StaticSignals)
	s.timeline.Append("ANALYSIS:classified", timeline.CategoryPerformance,
		fmt.Sprintf("classified as %s (score %d)", assessment.Classification, assessment.Score))

	if dropped := s.timeline.Dropped(); dropped > 0 {
		s.logger.Warn("checkpoint timeline overflowed; events were dropped",
			"capacity", timeline.Capacity, "dropped", dropped)
	}

	return &Outcome{
		Result:     result,
		Assessment: assessment,
		Timeline:   s.timeline.Export(),
	}, nil
}
