package scheduler

import (
	"sort"

	"go.uber.org/zap"

	"github.com/classops/timetable-scheduler/internal/domain"
	"github.com/classops/timetable-scheduler/internal/grid"
)

// Prefilter implements §4.3: for every (course, day, slot, hall) tuple,
// admit it only if the hall type matches (or no matching hall exists at
// all, in which case every hall is admitted as a documented fallback), the
// slot clears every busy window and the effective break window, and — in
// preference mode — the slot lies fully inside one of the teacher's
// preferred windows for that day whenever the teacher has any preference
// recorded for that day.
func Prefilter(g grid.Grid, req domain.Request, log *zap.Logger) Model {
	m := Model{
		CandidatesByCourse: make(map[string][]*CourseVar, len(req.Courses)),
		CourseTeacher:      make(map[string]string, len(req.Courses)),
		HallFallbackUsed:   make(map[string]bool),
	}

	hallsByType := make(map[domain.HallType][]domain.Hall)
	for _, h := range req.Halls {
		hallsByType[h.Type] = append(hallsByType[h.Type], h)
	}
	sortedHalls := append([]domain.Hall(nil), req.Halls...)
	sort.Slice(sortedHalls, func(i, j int) bool { return sortedHalls[i].ID < sortedHalls[j].ID })

	teacherBusy := groupTeacherBusy(req.TeacherBusy)
	hallBusy := groupHallBusy(req.HallBusy)
	preferred := groupPreferred(req.Preferred)

	for _, c := range req.Courses {
		m.CourseTeacher[c.ID] = c.TeacherID

		suitable := hallsByType[c.Type.MatchingHallType()]
		if len(suitable) == 0 {
			suitable = sortedHalls
			m.HallFallbackUsed[c.ID] = true
			if log != nil {
				log.Warn("no hall of matching type, falling back to all halls",
					zap.String("course_id", c.ID), zap.String("course_type", string(c.Type)))
			}
		} else {
			sort.Slice(suitable, func(i, j int) bool { return suitable[i].ID < suitable[j].ID })
		}

		var candidates []*CourseVar
		for _, day := range g.Days {
			cells := g.CellsFor(day)
			breakWindow, hasBreak := req.Break.WindowFor(day)

			teacherHasPref := false
			var prefWindows []domain.Window
			if req.RespectPreferences {
				prefWindows, teacherHasPref = preferred[teacherDayKey{TeacherID: c.TeacherID, Day: day}]
			}

			for _, cell := range cells {
				if hasBreak && cell.Window.Overlaps(breakWindow) {
					continue
				}
				if overlapsAny(cell.Window, teacherBusy[teacherDayKey{TeacherID: c.TeacherID, Day: day}]) {
					continue
				}
				if teacherHasPref && !withinAny(cell.Window, prefWindows) {
					continue
				}

				for _, h := range suitable {
					if overlapsAny(cell.Window, hallBusy[hallDayKey{HallID: h.ID, Day: day}]) ||
						overlapsAny(cell.Window, hallBusy[hallDayKey{HallID: h.ID}]) {
						continue
					}
					candidates = append(candidates, &CourseVar{
						CourseID: c.ID,
						Day:      day,
						Slot:     cell.Index,
						Window:   cell.Window,
						HallID:   h.ID,
					})
				}
			}
		}
		sort.Slice(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if a.Day != b.Day {
				return domain.WeekdayIndex(a.Day) < domain.WeekdayIndex(b.Day)
			}
			if a.Slot != b.Slot {
				return a.Slot < b.Slot
			}
			return a.HallID < b.HallID
		})
		m.CandidatesByCourse[c.ID] = candidates
	}

	return m
}

type teacherDayKey struct {
	TeacherID string
	Day       domain.Weekday
}

func groupTeacherBusy(in []domain.TeacherBusyWindow) map[teacherDayKey][]domain.Window {
	out := make(map[teacherDayKey][]domain.Window)
	for _, b := range in {
		key := teacherDayKey{TeacherID: b.TeacherID, Day: b.Busy.Day}
		out[key] = append(out[key], b.Busy.Window)
	}
	return out
}

type hallDayKey struct {
	HallID string
	Day    domain.Weekday
}

// groupHallBusy keys hall windows by hall and day. A window without a day is
// stored under the empty day and applies to every active day (§3, confirmed
// against original_source — see DESIGN.md).
func groupHallBusy(in []domain.HallBusyWindow) map[hallDayKey][]domain.Window {
	out := make(map[hallDayKey][]domain.Window)
	for _, b := range in {
		key := hallDayKey{HallID: b.HallID, Day: b.Busy.Day}
		out[key] = append(out[key], b.Busy.Window)
	}
	return out
}

func groupPreferred(in []domain.TeacherPreferred) map[teacherDayKey][]domain.Window {
	out := make(map[teacherDayKey][]domain.Window)
	for _, p := range in {
		key := teacherDayKey{TeacherID: p.TeacherID, Day: p.Day}
		out[key] = append(out[key], p.Window)
	}
	return out
}

func overlapsAny(w domain.Window, windows []domain.Window) bool {
	for _, other := range windows {
		if w.Overlaps(other) {
			return true
		}
	}
	return false
}

func withinAny(w domain.Window, windows []domain.Window) bool {
	for _, other := range windows {
		if other.Contains(w) {
			return true
		}
	}
	return false
}
