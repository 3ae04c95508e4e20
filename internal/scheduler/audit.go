package scheduler

import (
	"sort"

	"github.com/classops/timetable-scheduler/internal/domain"
	"github.com/classops/timetable-scheduler/internal/grid"
)

// Audit implements §4.8: independently verify each recognised soft rule
// against the finished assignment, emitting one soft diagnostic per
// violating entity/day instance. Soft violations never change the
// timetable — they only accumulate here.
func Audit(timetable []domain.DayTimetable, g grid.Grid, req domain.Request) []domain.ConstraintDiagnostic {
	var diags []domain.ConstraintDiagnostic

	teachingSlots := teachingSlotsByTeacherDay(timetable)
	diags = append(diags, auditTeacherDailyHours(teachingSlots, req.Soft.TeacherMaxDailyHours)...)
	diags = append(diags, auditTeacherWeeklyHours(teachingSlots, req.Soft.TeacherMaxWeeklyHours)...)
	diags = append(diags, auditSchedulePeriodsPerDay(timetable, req.Soft.ScheduleMaxPeriodsPerDay)...)
	diags = append(diags, auditFreePeriodsPerDay(timetable, g, req.Soft.ScheduleMaxFreePeriodsPerDay)...)
	diags = append(diags, auditCourseDailyFrequency(timetable, req.Soft.CourseMaxDailyFrequency)...)
	diags = append(diags, auditCourseRequestedSlots(timetable, req.Soft.CourseRequestedTimeSlots)...)
	diags = append(diags, auditTeacherRequestedWindows(timetable, req.Soft.TeacherRequestedTimeWindows)...)
	diags = append(diags, auditHallRequestedWindows(timetable, req.Soft.HallRequestedTimeWindows)...)
	diags = append(diags, auditRequestedAssignments(timetable, req.Soft.RequestedAssignments)...)
	diags = append(diags, auditRequestedFreePeriods(timetable, req.Soft.RequestedFreePeriods)...)

	return diags
}

func teachingOnly(timetable []domain.DayTimetable) []domain.ScheduleSlot {
	var out []domain.ScheduleSlot
	for _, day := range timetable {
		for _, s := range day.Slots {
			if !s.Break {
				out = append(out, s)
			}
		}
	}
	return out
}

type teacherDay struct {
	TeacherID string
	Day       domain.Weekday
}

func teachingSlotsByTeacherDay(timetable []domain.DayTimetable) map[teacherDay][]domain.ScheduleSlot {
	out := make(map[teacherDay][]domain.ScheduleSlot)
	for _, day := range timetable {
		for _, s := range day.Slots {
			if s.Break {
				continue
			}
			key := teacherDay{TeacherID: s.TeacherID, Day: s.Day}
			out[key] = append(out[key], s)
		}
	}
	return out
}

func minutesOf(s domain.ScheduleSlot) int {
	return int(s.Window.End) - int(s.Window.Start)
}

func auditTeacherDailyHours(byTeacherDay map[teacherDay][]domain.ScheduleSlot, rule domain.LimitRule) []domain.ConstraintDiagnostic {
	if !rule.Enabled {
		return nil
	}
	var out []domain.ConstraintDiagnostic
	for _, key := range sortedTeacherDayKeys(byTeacherDay) {
		limit, ok := rule.LimitFor(key.TeacherID, key.Day)
		if !ok {
			continue
		}
		totalMinutes := 0
		for _, s := range byTeacherDay[key] {
			totalMinutes += minutesOf(s)
		}
		actualHours := float64(totalMinutes) / 60.0
		if totalMinutes <= limit*60 {
			continue
		}
		out = append(out, singleBlockerDiagnostic(
			"teacher_max_daily_hours",
			"TEACHER_MAX_DAILY_HOURS_EXCEEDED",
			&domain.Entity{Type: "teacher", ID: key.TeacherID},
			map[string]any{"day": string(key.Day), "actual_hours": actualHours, "max_allowed_hours": limit},
			byTeacherDay[key],
		))
	}
	return out
}

func auditTeacherWeeklyHours(byTeacherDay map[teacherDay][]domain.ScheduleSlot, rule domain.LimitRule) []domain.ConstraintDiagnostic {
	if !rule.Enabled {
		return nil
	}
	minutesByTeacher := make(map[string]int)
	slotsByTeacher := make(map[string][]domain.ScheduleSlot)
	for key, slots := range byTeacherDay {
		for _, s := range slots {
			minutesByTeacher[key.TeacherID] += minutesOf(s)
			slotsByTeacher[key.TeacherID] = append(slotsByTeacher[key.TeacherID], s)
		}
	}
	var teacherIDs []string
	for id := range minutesByTeacher {
		teacherIDs = append(teacherIDs, id)
	}
	sort.Strings(teacherIDs)

	var out []domain.ConstraintDiagnostic
	for _, id := range teacherIDs {
		limit, ok := rule.LimitFor(id, "")
		if !ok {
			continue
		}
		totalMinutes := minutesByTeacher[id]
		actualHours := float64(totalMinutes) / 60.0
		if totalMinutes <= limit*60 {
			continue
		}
		out = append(out, singleBlockerDiagnostic(
			"teacher_max_weekly_hours",
			"TEACHER_MAX_WEEKLY_HOURS_EXCEEDED",
			&domain.Entity{Type: "teacher", ID: id},
			map[string]any{"actual_hours": actualHours, "max_allowed_hours": limit},
			slotsByTeacher[id],
		))
	}
	return out
}

func auditSchedulePeriodsPerDay(timetable []domain.DayTimetable, rule domain.LimitRule) []domain.ConstraintDiagnostic {
	if !rule.Enabled {
		return nil
	}
	var out []domain.ConstraintDiagnostic
	for _, day := range timetable {
		limit, ok := rule.LimitFor("", day.Day)
		if !ok {
			continue
		}
		teaching := teachingOnly([]domain.DayTimetable{day})
		if len(teaching) <= limit {
			continue
		}
		out = append(out, singleBlockerDiagnostic(
			"schedule_max_periods_per_day",
			"SCHEDULE_MAX_PERIODS_PER_DAY_EXCEEDED",
			nil,
			map[string]any{"day": string(day.Day), "actual_periods": len(teaching), "max_allowed_periods": limit},
			teaching,
		))
	}
	return out
}

func auditFreePeriodsPerDay(timetable []domain.DayTimetable, g grid.Grid, rule domain.LimitRule) []domain.ConstraintDiagnostic {
	if !rule.Enabled {
		return nil
	}
	var out []domain.ConstraintDiagnostic
	for _, day := range timetable {
		limit, ok := rule.LimitFor("", day.Day)
		if !ok {
			continue
		}
		total := len(g.CellsFor(day.Day))
		teaching := len(teachingOnly([]domain.DayTimetable{day}))
		free := total - teaching
		if free <= limit {
			continue
		}
		out = append(out, singleBlockerDiagnostic(
			"schedule_max_free_periods_per_day",
			"SCHEDULE_MAX_FREE_PERIODS_PER_DAY_EXCEEDED",
			nil,
			map[string]any{"day": string(day.Day), "actual_free_periods": free, "max_allowed_free_periods": limit},
			nil,
		))
	}
	return out
}

func auditCourseDailyFrequency(timetable []domain.DayTimetable, rule domain.LimitRule) []domain.ConstraintDiagnostic {
	if !rule.Enabled {
		return nil
	}
	type courseDay struct {
		CourseID string
		Day      domain.Weekday
	}
	counts := make(map[courseDay][]domain.ScheduleSlot)
	for _, day := range timetable {
		for _, s := range day.Slots {
			if s.Break {
				continue
			}
			key := courseDay{CourseID: s.CourseID, Day: s.Day}
			counts[key] = append(counts[key], s)
		}
	}
	var keys []courseDay
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CourseID != keys[j].CourseID {
			return keys[i].CourseID < keys[j].CourseID
		}
		return domain.WeekdayIndex(keys[i].Day) < domain.WeekdayIndex(keys[j].Day)
	})

	var out []domain.ConstraintDiagnostic
	for _, key := range keys {
		limit, ok := rule.LimitFor(key.CourseID, key.Day)
		if !ok {
			continue
		}
		if len(counts[key]) <= limit {
			continue
		}
		out = append(out, singleBlockerDiagnostic(
			"course_max_daily_frequency",
			"MAX_COURSE_DAILY_FREQUENCY_EXCEEDED",
			&domain.Entity{Type: "course", ID: key.CourseID},
			map[string]any{"day": string(key.Day), "actual_frequency": len(counts[key]), "max_allowed_frequency": limit},
			counts[key],
		))
	}
	return out
}

func auditCourseRequestedSlots(timetable []domain.DayTimetable, rules []domain.CourseWindowRequest) []domain.ConstraintDiagnostic {
	var out []domain.ConstraintDiagnostic
	for _, rule := range rules {
		var offending []domain.ScheduleSlot
		for _, day := range timetable {
			for _, s := range day.Slots {
				if s.Break || s.CourseID != rule.CourseID {
					continue
				}
				if !anyDayWindowContains(rule.Slots, s.Day, s.Window) {
					offending = append(offending, s)
				}
			}
		}
		if len(offending) == 0 {
			continue
		}
		out = append(out, singleBlockerDiagnostic(
			"course_requested_time_slots",
			"COURSE_SCHEDULED_OUTSIDE_REQUESTED_WINDOWS",
			&domain.Entity{Type: "course", ID: rule.CourseID},
			map[string]any{"offending_count": len(offending)},
			offending,
		))
	}
	return out
}

func auditTeacherRequestedWindows(timetable []domain.DayTimetable, rules []domain.TeacherWindowRequest) []domain.ConstraintDiagnostic {
	var out []domain.ConstraintDiagnostic
	for _, rule := range rules {
		var offending []domain.ScheduleSlot
		for _, day := range timetable {
			for _, s := range day.Slots {
				if s.Break || s.TeacherID != rule.TeacherID {
					continue
				}
				if !anyDayWindowContains(rule.Windows, s.Day, s.Window) {
					offending = append(offending, s)
				}
			}
		}
		if len(offending) == 0 {
			continue
		}
		out = append(out, singleBlockerDiagnostic(
			"teacher_requested_time_windows",
			"TEACHER_SCHEDULED_OUTSIDE_REQUESTED_WINDOWS",
			&domain.Entity{Type: "teacher", ID: rule.TeacherID},
			map[string]any{"offending_count": len(offending)},
			offending,
		))
	}
	return out
}

func auditHallRequestedWindows(timetable []domain.DayTimetable, rules []domain.HallWindowRequest) []domain.ConstraintDiagnostic {
	var out []domain.ConstraintDiagnostic
	for _, rule := range rules {
		var offending []domain.ScheduleSlot
		for _, day := range timetable {
			for _, s := range day.Slots {
				if s.Break || s.HallID != rule.HallID {
					continue
				}
				if !anyDayWindowContains(rule.Windows, s.Day, s.Window) {
					offending = append(offending, s)
				}
			}
		}
		if len(offending) == 0 {
			continue
		}
		out = append(out, singleBlockerDiagnostic(
			"hall_requested_time_windows",
			"HALL_SCHEDULED_OUTSIDE_REQUESTED_WINDOWS",
			&domain.Entity{Type: "hall", ID: rule.HallID},
			map[string]any{"offending_count": len(offending)},
			offending,
		))
	}
	return out
}

func auditRequestedAssignments(timetable []domain.DayTimetable, rules []domain.RequestedAssignment) []domain.ConstraintDiagnostic {
	var out []domain.ConstraintDiagnostic
	for _, rule := range rules {
		satisfied := false
		for _, day := range timetable {
			for _, s := range day.Slots {
				if s.Break {
					continue
				}
				if rule.CourseID != "" && s.CourseID != rule.CourseID {
					continue
				}
				if rule.TeacherID != "" && s.TeacherID != rule.TeacherID {
					continue
				}
				if rule.HallID != "" && s.HallID != rule.HallID {
					continue
				}
				if rule.Day != nil && s.Day != *rule.Day {
					continue
				}
				if rule.Window != nil && s.Window != *rule.Window {
					continue
				}
				satisfied = true
			}
		}
		if satisfied {
			continue
		}
		out = append(out, singleBlockerDiagnostic(
			"requested_assignments",
			"REQUESTED_ASSIGNMENT_NOT_SATISFIED",
			&domain.Entity{Type: "course", ID: rule.CourseID},
			map[string]any{"course_id": rule.CourseID, "teacher_id": rule.TeacherID, "hall_id": rule.HallID},
			nil,
		))
	}
	return out
}

func auditRequestedFreePeriods(timetable []domain.DayTimetable, rules []domain.FreePeriodRequest) []domain.ConstraintDiagnostic {
	var out []domain.ConstraintDiagnostic
	for _, rule := range rules {
		var offending []domain.ScheduleSlot
		for _, day := range timetable {
			if day.Day != rule.Day {
				continue
			}
			for _, s := range day.Slots {
				if s.Break {
					continue
				}
				if s.Window.Overlaps(rule.Window) {
					offending = append(offending, s)
				}
			}
		}
		if len(offending) == 0 {
			continue
		}
		out = append(out, singleBlockerDiagnostic(
			"requested_free_periods",
			"REQUESTED_FREE_PERIOD_OCCUPIED",
			nil,
			map[string]any{"day": string(rule.Day), "start_time": rule.Window.Start.String(), "end_time": rule.Window.End.String()},
			offending,
		))
	}
	return out
}

func anyDayWindowContains(windows []domain.DayWindow, day domain.Weekday, w domain.Window) bool {
	for _, dw := range windows {
		if dw.Day == day && dw.Window.Contains(w) {
			return true
		}
	}
	return false
}

func singleBlockerDiagnostic(rule, blockerType string, entity *domain.Entity, conflict map[string]any, evidence []domain.ScheduleSlot) domain.ConstraintDiagnostic {
	return domain.ConstraintDiagnostic{
		ConstraintFailed: map[string]any{"rule": rule},
		Blockers: []domain.Blocker{{
			Type:     blockerType,
			Entity:   entity,
			Conflict: conflict,
			Evidence: evidence,
		}},
	}
}

func sortedTeacherDayKeys(m map[teacherDay][]domain.ScheduleSlot) []teacherDay {
	keys := make([]teacherDay, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].TeacherID != keys[j].TeacherID {
			return keys[i].TeacherID < keys[j].TeacherID
		}
		return domain.WeekdayIndex(keys[i].Day) < domain.WeekdayIndex(keys[j].Day)
	})
	return keys
}
