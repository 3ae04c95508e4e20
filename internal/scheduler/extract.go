package scheduler

import (
	"sort"

	"github.com/classops/timetable-scheduler/internal/domain"
)

// Extract implements §4.7: walk every chosen decision variable, render a
// ScheduleSlot per assignment, interleave each day's break slot, sort within
// a day by start time (tie-broken by teacher then course per §5), and drop
// any day that ends up with zero teaching slots.
func Extract(assignment map[string][]*CourseVar, req domain.Request) []domain.DayTimetable {
	teacherByID := indexTeachers(req.Teachers)
	courseByID := indexCourses(req.Courses)
	hallByID := indexHalls(req.Halls)

	perDay := make(map[domain.Weekday][]domain.ScheduleSlot)
	for courseID, vars := range assignment {
		course := courseByID[courseID]
		teacher := teacherByID[course.TeacherID]
		for _, v := range vars {
			hall := hallByID[v.HallID]
			minutes := int(v.Window.End) - int(v.Window.Start)
			perDay[v.Day] = append(perDay[v.Day], domain.ScheduleSlot{
				Day:         v.Day,
				Window:      v.Window,
				Break:       false,
				Duration:    domain.FormatDuration(minutes),
				TeacherID:   teacher.ID,
				TeacherName: teacher.Name,
				CourseID:    course.ID,
				CourseName:  course.Title,
				HallID:      hall.ID,
				HallName:    hall.Name,
			})
		}
	}

	var out []domain.DayTimetable
	for _, day := range domain.OrderedWeekdays() {
		slots := perDay[day]
		if len(slots) == 0 {
			continue
		}

		if breakWindow, ok := req.Break.WindowFor(day); ok {
			slots = append(slots, domain.ScheduleSlot{Day: day, Window: breakWindow, Break: true})
		}

		sort.Slice(slots, func(i, j int) bool {
			a, b := slots[i], slots[j]
			if a.Window.Start != b.Window.Start {
				return a.Window.Start < b.Window.Start
			}
			if a.TeacherID != b.TeacherID {
				return a.TeacherID < b.TeacherID
			}
			return a.CourseID < b.CourseID
		})

		out = append(out, domain.DayTimetable{Day: day, Slots: slots})
	}
	return out
}

func indexTeachers(in []domain.Teacher) map[string]domain.Teacher {
	out := make(map[string]domain.Teacher, len(in))
	for _, t := range in {
		out[t.ID] = t
	}
	return out
}

func indexCourses(in []domain.Course) map[string]domain.Course {
	out := make(map[string]domain.Course, len(in))
	for _, c := range in {
		out[c.ID] = c
	}
	return out
}

func indexHalls(in []domain.Hall) map[string]domain.Hall {
	out := make(map[string]domain.Hall, len(in))
	for _, h := range in {
		out[h.ID] = h
	}
	return out
}
