package scheduler

import "github.com/classops/timetable-scheduler/internal/domain"

// CourseVar is one surviving (course, day, slot, hall) tuple after the §4.3
// feasibility pre-filter — the decision variable the solver chooses or
// discards.
type CourseVar struct {
	CourseID string
	Day      domain.Weekday
	Slot     int
	Window   domain.Window
	HallID   string
}

type teacherSlotKey struct {
	TeacherID string
	Day       domain.Weekday
	Slot      int
}

type hallSlotKey struct {
	HallID string
	Day    domain.Weekday
	Slot   int
}

// Model is the fully pre-filtered set of decision variables, grouped by
// course, ready for the solver driver.
type Model struct {
	CandidatesByCourse map[string][]*CourseVar
	CourseTeacher      map[string]string
	HallFallbackUsed   map[string]bool // course IDs for which the type-match fallback (§4.3) was triggered
}
