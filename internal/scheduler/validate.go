package scheduler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/classops/timetable-scheduler/internal/domain"
	"github.com/classops/timetable-scheduler/internal/dto"
)

// accumulator collects every validation error found across the request
// instead of stopping at the first one, per §4.1.
type accumulator struct {
	errs []string
}

func (a *accumulator) add(format string, args ...any) {
	a.errs = append(a.errs, fmt.Sprintf(format, args...))
}

// FormatStructuralErrors renders validator/v10's ValidationErrors into the
// same one-message-per-violation shape the semantic pass below accumulates,
// so both passes feed BuildValidationDiagnostics uniformly.
func FormatStructuralErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("%s: failed %q validation", fe.Namespace(), fe.Tag()))
	}
	return out
}

// Validate implements §4.1's semantic validation pass, run after the
// structural validator/v10.Struct pass has already confirmed the request's
// shape (required fields present, minimum slice lengths, etc.). When it
// finds nothing wrong, it builds the normalised domain.Request the rest of
// the core operates on.
func Validate(in dto.ScheduleRequest) (domain.Request, []string) {
	a := &accumulator{}

	teacherByID := make(map[string]domain.Teacher, len(in.Teachers))
	var teachers []domain.Teacher
	for _, t := range in.Teachers {
		teachers = append(teachers, domain.Teacher{ID: t.TeacherID, Name: t.Name})
		teacherByID[t.TeacherID] = domain.Teacher{ID: t.TeacherID, Name: t.Name}
	}

	var halls []domain.Hall
	hallExists := make(map[string]bool, len(in.Halls))
	for _, h := range in.Halls {
		ht := domain.HallType(strings.ToLower(h.HallType))
		if ht != domain.HallLecture && ht != domain.HallLab {
			a.add("hall %s: invalid hall_type %q", h.HallID, h.HallType)
			continue
		}
		halls = append(halls, domain.Hall{ID: h.HallID, Name: h.HallName, Capacity: h.HallCapacity, Type: ht})
		hallExists[h.HallID] = true
	}

	var courses []domain.Course
	courseTeacherPair := make(map[string]bool, len(in.TeacherCourses))
	for _, c := range in.TeacherCourses {
		ct := domain.CourseType(strings.ToLower(c.CourseType))
		if ct != domain.CourseTheory && ct != domain.CoursePractical {
			a.add("course %s: invalid course_type %q", c.CourseID, c.CourseType)
			continue
		}
		if _, ok := teacherByID[c.TeacherID]; !ok {
			a.add("course %s: teacher %s does not exist", c.CourseID, c.TeacherID)
			continue
		}
		courses = append(courses, domain.Course{
			ID: c.CourseID, Title: c.CourseTitle, Credit: c.CourseCredit,
			Type: ct, Hours: c.CourseHours, TeacherID: c.TeacherID,
		})
		courseTeacherPair[c.CourseID+"|"+c.TeacherID] = true
	}

	operational := validateOperationalPeriod(a, in.OperationalPeriod)
	breakPolicy := validateBreakPolicy(a, in.BreakPeriod, operational)
	periods := validatePeriods(a, in.Periods)

	var teacherBusy []domain.TeacherBusyWindow
	for _, b := range in.TeacherBusyPeriod {
		w, ok := validateDayWindow(a, "teacher_busy_period", b.Day, b.StartTime, b.EndTime)
		if !ok {
			continue
		}
		teacherBusy = append(teacherBusy, domain.TeacherBusyWindow{TeacherID: b.TeacherID, Busy: domain.BusyWindow{Day: w.Day, Window: w.Window}})
	}

	var hallBusy []domain.HallBusyWindow
	for _, b := range in.HallBusyPeriods {
		day := domain.Weekday(strings.ToLower(b.Day))
		if b.Day != "" && !domain.IsWeekday(string(day)) {
			a.add("hall_busy_periods: invalid day %q", b.Day)
			continue
		}
		start, err1 := domain.ParseTimeOfDay(b.StartTime)
		end, err2 := domain.ParseTimeOfDay(b.EndTime)
		if err1 != nil || err2 != nil || start >= end {
			a.add("hall_busy_periods for %s: invalid window %s-%s", b.HallID, b.StartTime, b.EndTime)
			continue
		}
		hallBusy = append(hallBusy, domain.HallBusyWindow{HallID: b.HallID, Busy: domain.BusyWindow{Day: day, Window: domain.Window{Start: start, End: end}}})
	}

	var preferred []domain.TeacherPreferred
	for _, p := range in.TeacherPreferedTeachingPeriod {
		w, ok := validateDayWindow(a, "teacher_prefered_teaching_period", p.Day, p.StartTime, p.EndTime)
		if !ok {
			continue
		}
		preferred = append(preferred, domain.TeacherPreferred{TeacherID: p.TeacherID, Day: w.Day, Window: w.Window})
	}

	var pins []domain.RequiredJointPeriod
	for _, p := range in.RequiredJointCoursePeriods {
		if !courseTeacherPair[p.CourseID+"|"+p.TeacherID] {
			a.add("required_joint_course_periods: course %s is not taught by teacher %s", p.CourseID, p.TeacherID)
			continue
		}
		var cells []domain.PinnedCell
		valid := true
		for _, cell := range p.Periods {
			w, ok := validateDayWindow(a, "required_joint_course_periods", cell.Day, cell.StartTime, cell.EndTime)
			if !ok {
				valid = false
				continue
			}
			cells = append(cells, domain.PinnedCell{Day: w.Day, Window: w.Window})
		}
		if !valid {
			continue
		}
		pins = append(pins, domain.RequiredJointPeriod{CourseID: p.CourseID, TeacherID: p.TeacherID, Cells: cells})
	}

	soft, err := dto.ParseSoftConstraints(in.SoftConstrains)
	if err != nil {
		a.add("soft_constrains: %v", err)
	}

	if len(a.errs) > 0 {
		return domain.Request{}, a.errs
	}

	return domain.Request{
		Teachers:           teachers,
		Courses:            courses,
		Halls:              halls,
		TeacherBusy:        teacherBusy,
		HallBusy:           hallBusy,
		Preferred:          preferred,
		Break:              breakPolicy,
		Operational:        operational,
		Periods:            periods,
		Soft:               soft,
		Pins:               pins,
		RespectPreferences: in.RespectPreferences,
		TimeLimitSeconds:   in.TimeLimitSeconds,
	}, nil
}

type dayWindow struct {
	Day    domain.Weekday
	Window domain.Window
}

func validateDayWindow(a *accumulator, field, day, start, end string) (dayWindow, bool) {
	d := domain.Weekday(strings.ToLower(day))
	if !domain.IsWeekday(string(d)) {
		a.add("%s: invalid day %q", field, day)
		return dayWindow{}, false
	}
	s, err1 := domain.ParseTimeOfDay(start)
	e, err2 := domain.ParseTimeOfDay(end)
	if err1 != nil {
		a.add("%s: %v", field, err1)
		return dayWindow{}, false
	}
	if err2 != nil {
		a.add("%s: %v", field, err2)
		return dayWindow{}, false
	}
	if s >= e {
		a.add("%s: start %s must be before end %s", field, start, end)
		return dayWindow{}, false
	}
	return dayWindow{Day: d, Window: domain.Window{Start: s, End: e}}, true
}

func validateOperationalPeriod(a *accumulator, in dto.OperationalPeriodRequest) domain.OperationalPeriod {
	start, err1 := domain.ParseTimeOfDay(in.StartTime)
	end, err2 := domain.ParseTimeOfDay(in.EndTime)
	if err1 != nil {
		a.add("operational_period: %v", err1)
	}
	if err2 != nil {
		a.add("operational_period: %v", err2)
	}
	if err1 == nil && err2 == nil && start >= end {
		a.add("operational_period: start %s must be before end %s", in.StartTime, in.EndTime)
	}

	var activeDays []domain.Weekday
	for _, d := range in.Days {
		wd := domain.Weekday(strings.ToLower(d))
		if !domain.IsWeekday(string(wd)) {
			a.add("operational_period.days: invalid day %q", d)
			continue
		}
		activeDays = append(activeDays, wd)
	}

	var overrides []domain.DayOverride
	for _, ov := range in.DayExceptions {
		w, ok := validateDayWindow(a, "operational_period.day_exceptions", ov.Day, ov.StartTime, ov.EndTime)
		if !ok {
			continue
		}
		overrides = append(overrides, domain.DayOverride{Day: w.Day, Window: w.Window})
	}

	return domain.OperationalPeriod{
		Default:    domain.Window{Start: start, End: end},
		ActiveDays: activeDays,
		Overrides:  overrides,
	}
}

func validateBreakPolicy(a *accumulator, in dto.BreakPeriodRequest, op domain.OperationalPeriod) domain.BreakPolicy {
	start, err1 := domain.ParseTimeOfDay(in.StartTime)
	end, err2 := domain.ParseTimeOfDay(in.EndTime)
	if err1 != nil {
		a.add("break_period: %v", err1)
	}
	if err2 != nil {
		a.add("break_period: %v", err2)
	}
	if err1 == nil && err2 == nil && start >= end {
		a.add("break_period: start %s must be before end %s", in.StartTime, in.EndTime)
	}

	var noBreak []domain.Weekday
	for _, d := range in.NoBreakExceptions {
		wd := domain.Weekday(strings.ToLower(d))
		if !domain.IsWeekday(string(wd)) {
			a.add("break_period.no_break_exceptions: invalid day %q", d)
			continue
		}
		noBreak = append(noBreak, wd)
	}

	var overrides []domain.DayOverride
	for _, ov := range in.DayExceptions {
		w, ok := validateDayWindow(a, "break_period.day_exceptions", ov.Day, ov.StartTime, ov.EndTime)
		if !ok {
			continue
		}
		overrides = append(overrides, domain.DayOverride{Day: w.Day, Window: w.Window})
	}

	return domain.BreakPolicy{
		Default:        domain.Window{Start: start, End: end},
		Daily:          in.Daily,
		NoBreakDays:    noBreak,
		FixedOverrides: overrides,
	}
}

func validatePeriods(a *accumulator, in *dto.PeriodsRequest) domain.PeriodPolicy {
	if in == nil {
		return domain.PeriodPolicy{DurationMinutes: 30}
	}
	if in.DurationMinutes <= 0 {
		a.add("periods.duration_minutes must be > 0")
	}

	var overrides []domain.DayMinutes
	for _, ov := range in.DayExceptions {
		wd := domain.Weekday(strings.ToLower(ov.Day))
		if !domain.IsWeekday(string(wd)) {
			a.add("periods.day_exceptions: invalid day %q", ov.Day)
			continue
		}
		if ov.Minutes <= 0 {
			a.add("periods.day_exceptions: minutes must be > 0 for day %q", ov.Day)
			continue
		}
		overrides = append(overrides, domain.DayMinutes{Day: wd, Minutes: ov.Minutes})
	}

	return domain.PeriodPolicy{DurationMinutes: in.DurationMinutes, Overrides: overrides}
}
