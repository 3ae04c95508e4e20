// Package scheduler is the core described by SPEC_FULL.md: request
// validation, time-grid construction, feasibility pre-filtering, the
// constraint model and its deterministic solver, solution extraction, and
// post-solve soft-constraint auditing — orchestrated by Service.Generate
// the way the teacher's ScheduleGeneratorService.Generate orchestrates
// validate → build → place → score.
package scheduler

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/classops/timetable-scheduler/internal/domain"
	"github.com/classops/timetable-scheduler/internal/dto"
	"github.com/classops/timetable-scheduler/internal/grid"
)

const defaultTimeLimitSeconds = 30

// Service is the top-level scheduling core.
type Service struct {
	logger    *zap.Logger
	validator *validator.Validate
}

// NewService constructs a Service. A nil logger defaults to zap.NewNop(),
// matching the teacher's nil-defaulting constructor convention. The
// structural validator is built the same way the teacher's
// ScheduleGeneratorService does (validator.New(), held for the lifetime of
// the service rather than per-request).
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, validator: validator.New()}
}

// Generate runs the full Request → Validate → BuildGrid → PrefilterCells →
// BuildModel → Solve → ExtractAssignment → AuditSoftConstraints →
// ComposeResponse pipeline of §2, returning the wire-contract response
// directly since the scheduling endpoints do not use the envelope wrapper
// (see SPEC_FULL.md's AMBIENT STACK note on response envelopes).
func (s *Service) Generate(ctx context.Context, in dto.ScheduleRequest) dto.ScheduleResponse {
	solveID := uuid.NewString()
	start := time.Now()
	log := s.logger.With(zap.String("solve_id", solveID))

	if err := s.validator.Struct(in); err != nil {
		errs := FormatStructuralErrors(err)
		log.Info("structural validation failed", zap.Int("error_count", len(errs)))
		return s.respond(domain.Result{
			Status:      domain.StatusError,
			Diagnostics: finish(BuildValidationDiagnostics(errs), nil),
		}, start)
	}

	req, errs := Validate(in)
	if len(errs) > 0 {
		log.Info("validation failed", zap.Int("error_count", len(errs)))
		return s.respond(domain.Result{
			Status:      domain.StatusError,
			Diagnostics: finish(BuildValidationDiagnostics(errs), nil),
		}, start)
	}

	timeLimit := req.TimeLimitSeconds
	if timeLimit <= 0 {
		timeLimit = defaultTimeLimitSeconds
	}

	g := grid.Build(req.Operational, req.Periods)
	log.Debug("grid built", zap.Int("active_days", len(g.Days)))

	model := Prefilter(g, req, log)

	pins, err := ResolvePins(g, model, req)
	if err != nil {
		pe := err.(*pinError)
		log.Info("required joint period could not be resolved", zap.String("blocker", pe.BlockerType))
		return s.respond(domain.Result{
			Status:      domain.StatusError,
			Diagnostics: finish([]domain.ConstraintDiagnostic{BuildPinErrorDiagnostic(pe)}, nil),
		}, start)
	}

	solveCtx, cancel := context.WithTimeout(ctx, time.Duration(timeLimit)*time.Second)
	defer cancel()

	solver := NewSolver(model, req, pins)
	outcome := solver.Solve(solveCtx)

	switch outcome {
	case OutcomeInfeasible:
		log.Info("solve infeasible")
		return s.respond(domain.Result{
			Status:      domain.StatusError,
			Diagnostics: finish([]domain.ConstraintDiagnostic{BuildInfeasibleDiagnostic()}, nil),
		}, start)
	case OutcomeTimeout:
		log.Warn("solve exceeded time limit", zap.Int("time_limit_seconds", timeLimit))
		return s.respond(domain.Result{
			Status:      domain.StatusError,
			Diagnostics: finish([]domain.ConstraintDiagnostic{BuildSolverErrorDiagnostic()}, nil),
		}, start)
	}

	timetable := Extract(solver.Assignment(), req)
	soft := Audit(timetable, g, req)
	status, summary := ComposeStatusAndSummary(nil, soft)

	log.Info("solve complete", zap.String("status", string(status)), zap.Int("soft_violations", len(soft)))

	return s.respond(domain.Result{
		Status:    status,
		Timetable: timetable,
		Diagnostics: domain.Diagnostics{
			Hard:    nil,
			Soft:    soft,
			Summary: summary,
		},
	}, start)
}

func finish(hard, soft []domain.ConstraintDiagnostic) domain.Diagnostics {
	_, summary := ComposeStatusAndSummary(hard, soft)
	return domain.Diagnostics{Hard: hard, Soft: soft, Summary: summary}
}

func (s *Service) respond(r domain.Result, start time.Time) dto.ScheduleResponse {
	r.SolveTimeSeconds = time.Since(start).Seconds()
	return dto.FromResult(r)
}
