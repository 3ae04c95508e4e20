package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classops/timetable-scheduler/internal/domain"
)

func TestParseLimitRuleBareNumber(t *testing.T) {
	rule, err := parseLimitRule(json.RawMessage(`6`), func(o limitFields) *float64 { return o.MaxHours })
	require.NoError(t, err)
	assert.True(t, rule.Enabled)
	assert.Equal(t, 6, rule.Default)
}

func TestParseLimitRuleNumericString(t *testing.T) {
	rule, err := parseLimitRule(json.RawMessage(`"6"`), func(o limitFields) *float64 { return o.MaxHours })
	require.NoError(t, err)
	assert.True(t, rule.Enabled)
	assert.Equal(t, 6, rule.Default)
}

func TestParseLimitRuleNonNumericStringDisables(t *testing.T) {
	rule, err := parseLimitRule(json.RawMessage(`"unlimited"`), func(o limitFields) *float64 { return o.MaxHours })
	require.NoError(t, err)
	assert.False(t, rule.Enabled)
}

func TestParseLimitRuleBareBoolDisables(t *testing.T) {
	rule, err := parseLimitRule(json.RawMessage(`true`), func(o limitFields) *float64 { return o.MaxHours })
	require.NoError(t, err)
	assert.False(t, rule.Enabled, "a bare bool carries no numeric threshold, so it cannot enable a usable limit")
}

func TestParseLimitRuleNull(t *testing.T) {
	rule, err := parseLimitRule(json.RawMessage(`null`), func(o limitFields) *float64 { return o.MaxHours })
	require.NoError(t, err)
	assert.False(t, rule.Enabled)
}

func TestParseLimitRuleObjectWithExceptions(t *testing.T) {
	raw := json.RawMessage(`{
		"max_hours": 6,
		"teacher_exceptions": [{"teacher_id":"t1","max_hours":8}],
		"day_exceptions": [{"day":"friday","max_hours":4}]
	}`)
	rule, err := parseLimitRule(raw, func(o limitFields) *float64 { return o.MaxHours })
	require.NoError(t, err)
	assert.True(t, rule.Enabled)
	assert.Equal(t, 6, rule.Default)
	assert.Equal(t, 8, rule.TeacherExceptions["t1"])
	assert.Equal(t, 4, rule.DayExceptions[domain.Friday])
}

func TestParseLimitRuleObjectExceptionsOnlyStillEnables(t *testing.T) {
	raw := json.RawMessage(`{"course_exceptions": [{"course_id":"c1","max_frequency":2}]}`)
	rule, err := parseLimitRule(raw, func(o limitFields) *float64 { return o.MaxFrequency })
	require.NoError(t, err)
	assert.True(t, rule.Enabled)
	assert.Equal(t, 2, rule.CourseExceptions["c1"])
}

func TestParseSoftConstraintsLegacyAliasFallback(t *testing.T) {
	raw := json.RawMessage(`{"time_max_periods_per_day": 5}`)
	sc, err := ParseSoftConstraints(raw)
	require.NoError(t, err)
	assert.True(t, sc.ScheduleMaxPeriodsPerDay.Enabled)
	assert.Equal(t, 5, sc.ScheduleMaxPeriodsPerDay.Default)
}

func TestParseSoftConstraintsCanonicalKeyWinsOverLegacyAlias(t *testing.T) {
	raw := json.RawMessage(`{"schedule_max_periods_per_day": 7, "time_max_periods_per_day": 5}`)
	sc, err := ParseSoftConstraints(raw)
	require.NoError(t, err)
	assert.Equal(t, 7, sc.ScheduleMaxPeriodsPerDay.Default)
}

func TestParseSoftConstraintsRequestedWindows(t *testing.T) {
	raw := json.RawMessage(`{
		"course_requested_time_slots": [{"course_id":"c1","slots":[{"day":"monday","start_time":"08:00","end_time":"09:00"}]}],
		"requested_free_periods": [{"day":"friday","start_time":"14:00","end_time":"15:00"}]
	}`)
	sc, err := ParseSoftConstraints(raw)
	require.NoError(t, err)
	require.Len(t, sc.CourseRequestedTimeSlots, 1)
	assert.Equal(t, "c1", sc.CourseRequestedTimeSlots[0].CourseID)
	require.Len(t, sc.RequestedFreePeriods, 1)
	assert.Equal(t, domain.Friday, sc.RequestedFreePeriods[0].Day)
}

func TestParseSoftConstraintsEmptyRaw(t *testing.T) {
	sc, err := ParseSoftConstraints(nil)
	require.NoError(t, err)
	assert.False(t, sc.TeacherMaxDailyHours.Enabled)
}

func TestParseLimitRuleDayExceptionUsesRuleSpecificKey(t *testing.T) {
	raw := json.RawMessage(`{
		"max_periods": 6,
		"day_exceptions": [{"day":"friday","max_periods":3}]
	}`)
	rule, err := parseLimitRule(raw, func(o limitFields) *float64 { return o.MaxPeriods })
	require.NoError(t, err)
	assert.Equal(t, 3, rule.DayExceptions[domain.Friday])
}

func TestParseLimitRuleDayExceptionWrongKeyIgnored(t *testing.T) {
	raw := json.RawMessage(`{
		"max_hours": 6,
		"day_exceptions": [{"day":"friday","max_periods":3}]
	}`)
	rule, err := parseLimitRule(raw, func(o limitFields) *float64 { return o.MaxHours })
	require.NoError(t, err)
	_, ok := rule.DayExceptions[domain.Friday]
	assert.False(t, ok, "a day_exceptions entry missing the rule's own key carries no override")
}
