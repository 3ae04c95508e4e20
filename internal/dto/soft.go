package dto

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/classops/timetable-scheduler/internal/domain"
)

// limitFields is the set of scalar limit keys §4.8's object form may carry;
// exactly one applies per rule. Embedded into both rawLimitObject and
// rawDayException so the same pickDefault selector works for a rule's
// top-level default and its per-day overrides alike.
type limitFields struct {
	MaxHours       *float64 `json:"max_hours"`
	MaxPeriods     *float64 `json:"max_periods"`
	MaxFreePeriods *float64 `json:"max_free_periods"`
	MaxFrequency   *float64 `json:"max_frequency"`
}

// rawLimitObject is the object form shared by every scalar-or-object soft
// rule in §4.8; the concrete limit key and exceptions key vary per rule, so
// every plausible key name is represented here and the caller picks the one
// that applies.
type rawLimitObject struct {
	limitFields
	TeacherExceptions []rawTeacherException `json:"teacher_exceptions"`
	CourseExceptions  []rawCourseException  `json:"course_exceptions"`
	DayExceptions     []rawDayException     `json:"day_exceptions"`
}

type rawTeacherException struct {
	TeacherID string  `json:"teacher_id"`
	MaxHours  float64 `json:"max_hours"`
}

type rawCourseException struct {
	CourseID     string  `json:"course_id"`
	MaxFrequency float64 `json:"max_frequency"`
}

// rawDayException is one day_exceptions entry. Per original_source's
// _parse_per_day_limit and §4.8, the override's limit is carried under the
// same key as the rule's own default (max_hours/max_periods/
// max_free_periods/max_frequency), not a generic "limit" key.
type rawDayException struct {
	Day string `json:"day"`
	limitFields
}

// parseLimitRule decodes a soft-limit field that may be a bare number, a
// string, a bool, or an object carrying a default plus exceptions, into the
// canonical domain.LimitRule, per §9's dynamic-polymorphism note.
func parseLimitRule(raw json.RawMessage, pickDefault func(limitFields) *float64) (domain.LimitRule, error) {
	var rule domain.LimitRule
	if len(raw) == 0 || string(raw) == "null" {
		return rule, nil
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		rule.Enabled = true
		rule.Default = int(asNumber)
		return rule, nil
	}

	var asBool bool
	if err := json.Unmarshal(raw, &asBool); err == nil {
		rule.Enabled = false
		return rule, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if v, ok := parseNumericString(asString); ok {
			rule.Enabled = true
			rule.Default = v
			return rule, nil
		}
		rule.Enabled = false
		return rule, nil
	}

	var obj rawLimitObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return rule, fmt.Errorf("invalid soft-limit value: %w", err)
	}
	if d := pickDefault(obj.limitFields); d != nil {
		rule.Enabled = true
		rule.Default = int(*d)
	}
	if len(obj.TeacherExceptions) > 0 {
		rule.TeacherExceptions = make(map[string]int, len(obj.TeacherExceptions))
		for _, e := range obj.TeacherExceptions {
			rule.TeacherExceptions[e.TeacherID] = int(e.MaxHours)
		}
		rule.Enabled = true
	}
	if len(obj.CourseExceptions) > 0 {
		rule.CourseExceptions = make(map[string]int, len(obj.CourseExceptions))
		for _, e := range obj.CourseExceptions {
			rule.CourseExceptions[e.CourseID] = int(e.MaxFrequency)
		}
		rule.Enabled = true
	}
	if len(obj.DayExceptions) > 0 {
		rule.DayExceptions = make(map[domain.Weekday]int, len(obj.DayExceptions))
		for _, e := range obj.DayExceptions {
			if limit := pickDefault(e.limitFields); limit != nil {
				rule.DayExceptions[domain.Weekday(strings.ToLower(e.Day))] = int(*limit)
			}
		}
		rule.Enabled = true
	}
	return rule, nil
}

func parseNumericString(s string) (int, bool) {
	var v float64
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return int(v), true
	}
	return 0, false
}

type rawDayWindow struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type rawCourseWindowRequest struct {
	CourseID string         `json:"course_id"`
	Slots    []rawDayWindow `json:"slots"`
}

type rawTeacherWindowRequest struct {
	TeacherID string         `json:"teacher_id"`
	Windows   []rawDayWindow `json:"windows"`
}

type rawHallWindowRequest struct {
	HallID  string         `json:"hall_id"`
	Windows []rawDayWindow `json:"windows"`
}

type rawRequestedAssignment struct {
	CourseID  string  `json:"course_id"`
	TeacherID string  `json:"teacher_id"`
	HallID    string  `json:"hall_id"`
	Day       *string `json:"day"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

type rawFreePeriodRequest struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// rawSoftConstraints is the full soft_constrains object, canonical keys plus
// the legacy aliases original_source also accepts.
type rawSoftConstraints struct {
	TeacherMaxDailyHours        json.RawMessage `json:"teacher_max_daily_hours"`
	TeacherMaxWeeklyHours       json.RawMessage `json:"teacher_max_weekly_hours"`
	ScheduleMaxPeriodsPerDay    json.RawMessage `json:"schedule_max_periods_per_day"`
	ScheduleMaxFreePeriodsPerDay json.RawMessage `json:"schedule_max_free_periods_per_day"`
	CourseMaxDailyFrequency     json.RawMessage `json:"course_max_daily_frequency"`

	// Legacy aliases, used only when the canonical key is absent.
	TimeMaxPeriodsPerDay     json.RawMessage `json:"time_max_periods_per_day"`
	TimeMinFreePeriodsPerDay json.RawMessage `json:"time_min_free_periods_per_day"`
	TimeSubjectFrequencyPerDay json.RawMessage `json:"time_subject_frequency_per_day"`

	CourseRequestedTimeSlots    []rawCourseWindowRequest  `json:"course_requested_time_slots"`
	TeacherRequestedTimeWindows []rawTeacherWindowRequest `json:"teacher_requested_time_windows"`
	HallRequestedTimeWindows    []rawHallWindowRequest    `json:"hall_requested_time_windows"`
	RequestedAssignments        []rawRequestedAssignment  `json:"requested_assignments"`
	RequestedFreePeriods         []rawFreePeriodRequest    `json:"requested_free_periods"`
}

func firstNonEmpty(values ...json.RawMessage) json.RawMessage {
	for _, v := range values {
		if len(v) > 0 && string(v) != "null" {
			return v
		}
	}
	return nil
}

// ParseSoftConstraints normalises the raw soft_constrains JSON into the
// canonical domain.SoftConstraints shape, resolving legacy aliases and every
// field's dynamic polymorphism in one pass.
func ParseSoftConstraints(raw json.RawMessage) (domain.SoftConstraints, error) {
	var out domain.SoftConstraints
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}

	var rsc rawSoftConstraints
	if err := json.Unmarshal(raw, &rsc); err != nil {
		return out, fmt.Errorf("invalid soft_constrains: %w", err)
	}

	var err error
	out.TeacherMaxDailyHours, err = parseLimitRule(rsc.TeacherMaxDailyHours, func(o limitFields) *float64 { return o.MaxHours })
	if err != nil {
		return out, fmt.Errorf("teacher_max_daily_hours: %w", err)
	}
	out.TeacherMaxWeeklyHours, err = parseLimitRule(rsc.TeacherMaxWeeklyHours, func(o limitFields) *float64 { return o.MaxHours })
	if err != nil {
		return out, fmt.Errorf("teacher_max_weekly_hours: %w", err)
	}
	out.ScheduleMaxPeriodsPerDay, err = parseLimitRule(firstNonEmpty(rsc.ScheduleMaxPeriodsPerDay, rsc.TimeMaxPeriodsPerDay), func(o limitFields) *float64 { return o.MaxPeriods })
	if err != nil {
		return out, fmt.Errorf("schedule_max_periods_per_day: %w", err)
	}
	out.ScheduleMaxFreePeriodsPerDay, err = parseLimitRule(firstNonEmpty(rsc.ScheduleMaxFreePeriodsPerDay, rsc.TimeMinFreePeriodsPerDay), func(o limitFields) *float64 { return o.MaxFreePeriods })
	if err != nil {
		return out, fmt.Errorf("schedule_max_free_periods_per_day: %w", err)
	}
	out.CourseMaxDailyFrequency, err = parseLimitRule(firstNonEmpty(rsc.CourseMaxDailyFrequency, rsc.TimeSubjectFrequencyPerDay), func(o limitFields) *float64 { return o.MaxFrequency })
	if err != nil {
		return out, fmt.Errorf("course_max_daily_frequency: %w", err)
	}

	for _, c := range rsc.CourseRequestedTimeSlots {
		out.CourseRequestedTimeSlots = append(out.CourseRequestedTimeSlots, domain.CourseWindowRequest{
			CourseID: c.CourseID,
			Slots:    toDayWindows(c.Slots),
		})
	}
	for _, t := range rsc.TeacherRequestedTimeWindows {
		out.TeacherRequestedTimeWindows = append(out.TeacherRequestedTimeWindows, domain.TeacherWindowRequest{
			TeacherID: t.TeacherID,
			Windows:   toDayWindows(t.Windows),
		})
	}
	for _, h := range rsc.HallRequestedTimeWindows {
		out.HallRequestedTimeWindows = append(out.HallRequestedTimeWindows, domain.HallWindowRequest{
			HallID:  h.HallID,
			Windows: toDayWindows(h.Windows),
		})
	}
	for _, a := range rsc.RequestedAssignments {
		ra := domain.RequestedAssignment{CourseID: a.CourseID, TeacherID: a.TeacherID, HallID: a.HallID}
		if a.Day != nil {
			d := domain.Weekday(strings.ToLower(*a.Day))
			ra.Day = &d
		}
		if a.StartTime != nil && a.EndTime != nil {
			start, err1 := domain.ParseTimeOfDay(*a.StartTime)
			end, err2 := domain.ParseTimeOfDay(*a.EndTime)
			if err1 == nil && err2 == nil {
				w := domain.Window{Start: start, End: end}
				ra.Window = &w
			}
		}
		out.RequestedAssignments = append(out.RequestedAssignments, ra)
	}
	for _, f := range rsc.RequestedFreePeriods {
		start, err1 := domain.ParseTimeOfDay(f.StartTime)
		end, err2 := domain.ParseTimeOfDay(f.EndTime)
		if err1 != nil || err2 != nil {
			return out, fmt.Errorf("requested_free_periods: invalid time window")
		}
		out.RequestedFreePeriods = append(out.RequestedFreePeriods, domain.FreePeriodRequest{
			Day:    domain.Weekday(strings.ToLower(f.Day)),
			Window: domain.Window{Start: start, End: end},
		})
	}

	return out, nil
}

func toDayWindows(raw []rawDayWindow) []domain.DayWindow {
	out := make([]domain.DayWindow, 0, len(raw))
	for _, r := range raw {
		start, err1 := domain.ParseTimeOfDay(r.StartTime)
		end, err2 := domain.ParseTimeOfDay(r.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, domain.DayWindow{
			Day:    domain.Weekday(strings.ToLower(r.Day)),
			Window: domain.Window{Start: start, End: end},
		})
	}
	return out
}
