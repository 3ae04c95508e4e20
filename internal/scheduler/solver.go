package scheduler

import (
	"context"
	"sort"

	"github.com/classops/timetable-scheduler/internal/domain"
)

// Outcome mirrors the CP-SAT-style outcomes of §4.6.
type Outcome int

const (
	OutcomeOptimal Outcome = iota
	OutcomeInfeasible
	OutcomeTimeout
)

// Solver is a deterministic, single-worker, backtracking finite-domain
// search over the pre-filtered decision variables — see SPEC_FULL.md's
// SOLVER ENGINE NOTE for why this replaces a CP-SAT binding. It enforces
// §4.4's three hard constraints: exact session count, teacher exclusivity,
// and hall exclusivity. Required-joint-period pins are applied before the
// search begins and are never revisited.
type Solver struct {
	model      Model
	courseTeacher map[string]string
	sessionsRequired map[string]int
	pinned     map[string][]*CourseVar

	teacherBusy map[teacherSlotKey]bool
	hallBusy    map[hallSlotKey]bool
	assigned    map[string][]*CourseVar

	courseOrder []string
}

// NewSolver seeds the search state from the model, the per-course session
// requirement, and the already-fixed pins.
func NewSolver(m Model, req domain.Request, pins []PinnedAssignment) *Solver {
	s := &Solver{
		model:            m,
		courseTeacher:    m.CourseTeacher,
		sessionsRequired: make(map[string]int, len(req.Courses)),
		pinned:           make(map[string][]*CourseVar),
		teacherBusy:      make(map[teacherSlotKey]bool),
		hallBusy:         make(map[hallSlotKey]bool),
		assigned:         make(map[string][]*CourseVar),
	}

	for _, c := range req.Courses {
		s.sessionsRequired[c.ID] = c.SessionsRequired()
		s.courseOrder = append(s.courseOrder, c.ID)
	}
	sort.Strings(s.courseOrder)

	for _, p := range pins {
		v := &CourseVar{CourseID: p.CourseID, Day: p.Day, Slot: p.Slot, Window: p.Window, HallID: p.HallID}
		teacherID := s.courseTeacher[p.CourseID]
		s.teacherBusy[teacherSlotKey{TeacherID: teacherID, Day: p.Day, Slot: p.Slot}] = true
		s.hallBusy[hallSlotKey{HallID: p.HallID, Day: p.Day, Slot: p.Slot}] = true
		s.assigned[p.CourseID] = append(s.assigned[p.CourseID], v)
		s.pinned[p.CourseID] = append(s.pinned[p.CourseID], v)
	}

	return s
}

// Solve runs the backtracking search until a complete assignment is found,
// the search space is exhausted (INFEASIBLE), or ctx's deadline expires
// (TIMEOUT), matching §4.6's wall-clock-limited, single-worker contract.
func (s *Solver) Solve(ctx context.Context) Outcome {
	ok, timedOut := s.backtrack(ctx, 0)
	switch {
	case timedOut:
		return OutcomeTimeout
	case ok:
		return OutcomeOptimal
	default:
		return OutcomeInfeasible
	}
}

// Assignment returns the full set of chosen CourseVars (pins plus search
// choices) per course, after a successful Solve.
func (s *Solver) Assignment() map[string][]*CourseVar {
	return s.assigned
}

func (s *Solver) backtrack(ctx context.Context, courseIdx int) (ok bool, timedOut bool) {
	select {
	case <-ctx.Done():
		return false, true
	default:
	}

	if courseIdx >= len(s.courseOrder) {
		return true, false
	}
	courseID := s.courseOrder[courseIdx]
	remaining := s.sessionsRequired[courseID] - len(s.pinned[courseID])
	if remaining < 0 {
		remaining = 0
	}
	return s.assignCourse(ctx, courseIdx, courseID, remaining, 0)
}

func (s *Solver) assignCourse(ctx context.Context, courseIdx int, courseID string, remaining int, fromIdx int) (bool, bool) {
	select {
	case <-ctx.Done():
		return false, true
	default:
	}

	if remaining == 0 {
		return s.backtrack(ctx, courseIdx+1)
	}

	candidates := s.model.CandidatesByCourse[courseID]
	teacherID := s.courseTeacher[courseID]

	for i := fromIdx; i < len(candidates); i++ {
		v := candidates[i]
		tKey := teacherSlotKey{TeacherID: teacherID, Day: v.Day, Slot: v.Slot}
		hKey := hallSlotKey{HallID: v.HallID, Day: v.Day, Slot: v.Slot}
		if s.teacherBusy[tKey] || s.hallBusy[hKey] {
			continue
		}

		s.teacherBusy[tKey] = true
		s.hallBusy[hKey] = true
		s.assigned[courseID] = append(s.assigned[courseID], v)

		if ok, timedOut := s.assignCourse(ctx, courseIdx, courseID, remaining-1, i+1); ok || timedOut {
			return ok, timedOut
		}

		s.assigned[courseID] = s.assigned[courseID][:len(s.assigned[courseID])-1]
		delete(s.teacherBusy, tKey)
		delete(s.hallBusy, hKey)
	}

	return false, false
}
