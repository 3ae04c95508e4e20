package scheduler

import (
	"fmt"

	"github.com/classops/timetable-scheduler/internal/domain"
	"github.com/classops/timetable-scheduler/internal/grid"
)

// PinnedAssignment is one required-joint-period cell fixed to x==1.
type PinnedAssignment struct {
	CourseID string
	Day      domain.Weekday
	Slot     int
	HallID   string
	Window   domain.Window
}

// pinError is a hard failure while resolving a required joint period;
// BlockerType is one of TEACHER_COURSE_MISMATCH, SLOT_NOT_FOUND,
// HALL_UNAVAILABLE per §4.4 / §7.
type pinError struct {
	BlockerType string
	Pin         domain.RequiredJointPeriod
	Detail      string
}

func (e *pinError) Error() string {
	return fmt.Sprintf("%s: %s", e.BlockerType, e.Detail)
}

// ResolvePins implements §4.4's required-joint-period handling: for each
// pin, locate the unique grid cell matching (day, start, end); verify the
// (course, teacher) pair is an actual assignment; verify at least one
// admissible hall survives the pre-filter for that exact cell; fix the
// tuple with the lowest hall ID. Any failure aborts immediately (the
// caller must not attempt to solve).
func ResolvePins(g grid.Grid, m Model, req domain.Request) ([]PinnedAssignment, error) {
	assignmentExists := make(map[string]bool, len(req.Courses))
	for _, c := range req.Courses {
		assignmentExists[c.ID+"|"+c.TeacherID] = true
	}

	var out []PinnedAssignment
	for _, pin := range req.Pins {
		if !assignmentExists[pin.CourseID+"|"+pin.TeacherID] {
			return nil, &pinError{
				BlockerType: "TEACHER_COURSE_MISMATCH",
				Pin:         pin,
				Detail:      fmt.Sprintf("course %s is not taught by teacher %s", pin.CourseID, pin.TeacherID),
			}
		}

		for _, cell := range pin.Cells {
			gridCell, ok := findCell(g, cell.Day, cell.Window)
			if !ok {
				return nil, &pinError{
					BlockerType: "SLOT_NOT_FOUND",
					Pin:         pin,
					Detail:      fmt.Sprintf("no grid cell at %s %s-%s", cell.Day, cell.Window.Start, cell.Window.End),
				}
			}

			var chosen *CourseVar
			for _, v := range m.CandidatesByCourse[pin.CourseID] {
				if v.Day == gridCell.Day && v.Slot == gridCell.Index {
					if chosen == nil || v.HallID < chosen.HallID {
						chosen = v
					}
				}
			}
			if chosen == nil {
				return nil, &pinError{
					BlockerType: "HALL_UNAVAILABLE",
					Pin:         pin,
					Detail:      fmt.Sprintf("no admissible hall for %s %s-%s", cell.Day, cell.Window.Start, cell.Window.End),
				}
			}

			out = append(out, PinnedAssignment{
				CourseID: pin.CourseID,
				Day:      gridCell.Day,
				Slot:     gridCell.Index,
				HallID:   chosen.HallID,
				Window:   gridCell.Window,
			})
		}
	}
	return out, nil
}

func findCell(g grid.Grid, day domain.Weekday, w domain.Window) (grid.Cell, bool) {
	for _, cell := range g.CellsFor(day) {
		if cell.Window == w {
			return cell, true
		}
	}
	return grid.Cell{}, false
}
