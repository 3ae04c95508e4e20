package scheduler

import "github.com/classops/timetable-scheduler/internal/domain"

const (
	messageOptimal = "Schedule generated successfully satisfying all constraints."
	messagePartial = "Schedule generated successfully satisfying all hard constraints; some soft preferences could not be honoured."
	messageError   = "Schedule could not be generated; see diagnostics for details."
)

// BuildValidationDiagnostics turns §4.1's accumulated validation errors into
// one hard diagnostic per error, per §4.1's "collected, not short-circuited"
// contract.
func BuildValidationDiagnostics(errs []string) []domain.ConstraintDiagnostic {
	out := make([]domain.ConstraintDiagnostic, 0, len(errs))
	for _, e := range errs {
		out = append(out, domain.ConstraintDiagnostic{
			ConstraintFailed: map[string]any{"rule": "request_validation"},
			Blockers: []domain.Blocker{{
				Type:     "VALIDATION_ERROR",
				Conflict: map[string]any{"detail": e},
			}},
		})
	}
	return out
}

// BuildPinErrorDiagnostic renders a pin resolution failure (§4.4) as the
// single hard diagnostic that aborts the solve.
func BuildPinErrorDiagnostic(err *pinError) domain.ConstraintDiagnostic {
	return domain.ConstraintDiagnostic{
		ConstraintFailed: map[string]any{"rule": "required_joint_course_periods"},
		Blockers: []domain.Blocker{{
			Type: err.BlockerType,
			Entity: &domain.Entity{
				Type: "course",
				ID:   err.Pin.CourseID,
				Name: err.Pin.TeacherID,
			},
			Conflict: map[string]any{"detail": err.Detail},
		}},
	}
}

// BuildInfeasibleDiagnostic renders §4.6's INFEASIBLE outcome.
func BuildInfeasibleDiagnostic() domain.ConstraintDiagnostic {
	return domain.ConstraintDiagnostic{
		ConstraintFailed: map[string]any{"rule": "solver"},
		Blockers: []domain.Blocker{{
			Type:     "INFEASIBLE_SCHEDULE",
			Conflict: map[string]any{"detail": "no assignment satisfies every hard constraint"},
		}},
		Suggestions: []string{"relax a busy window, break policy, or required joint period and retry"},
	}
}

// BuildSolverErrorDiagnostic renders §4.6's UNKNOWN/timeout outcome.
func BuildSolverErrorDiagnostic() domain.ConstraintDiagnostic {
	return domain.ConstraintDiagnostic{
		ConstraintFailed: map[string]any{"rule": "solver"},
		Blockers: []domain.Blocker{{
			Type:     "SOLVER_ERROR",
			Conflict: map[string]any{"detail": "solver exceeded the configured wall-clock limit"},
		}},
		Suggestions: []string{"increase time_limit_seconds and retry"},
	}
}

// ComposeStatusAndSummary implements §4.9: ERROR whenever any hard
// diagnostic exists, otherwise PARTIAL when any soft diagnostic exists,
// otherwise OPTIMAL.
func ComposeStatusAndSummary(hard, soft []domain.ConstraintDiagnostic) (domain.Status, domain.Summary) {
	var status domain.Status
	var message string
	switch {
	case len(hard) > 0:
		status = domain.StatusError
		message = messageError
	case len(soft) > 0:
		status = domain.StatusPartial
		message = messagePartial
	default:
		status = domain.StatusOptimal
		message = messageOptimal
	}

	summary := domain.Summary{
		Message:                    message,
		HardConstraintsMet:         len(hard) == 0,
		SoftConstraintsMet:         len(soft) == 0,
		FailedHardConstraintsCount: len(hard),
		FailedSoftConstraintsCount: len(soft),
	}
	return status, summary
}
