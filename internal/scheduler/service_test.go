package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classops/timetable-scheduler/internal/dto"
)

func baseRequest() dto.ScheduleRequest {
	return dto.ScheduleRequest{
		Teachers: []dto.TeacherRequest{{TeacherID: "t1", Name: "Ada"}},
		TeacherCourses: []dto.TeacherCourseRequest{
			{CourseID: "c1", CourseTitle: "Algorithms", CourseCredit: 3, CourseType: "theory", CourseHours: 3, TeacherID: "t1", TeacherName: "Ada"},
		},
		Halls: []dto.HallRequest{{HallID: "h1", HallName: "Lecture Hall 1", HallCapacity: 40, HallType: "lecture"}},
		BreakPeriod: dto.BreakPeriodRequest{
			StartTime: "12:00", EndTime: "13:00", Daily: true,
		},
		OperationalPeriod: dto.OperationalPeriodRequest{
			StartTime: "08:00", EndTime: "17:00",
			Days: []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		},
		RespectPreferences: false,
		TimeLimitSeconds:   5,
	}
}

func TestGenerateS1MinimalFeasible(t *testing.T) {
	svc := NewService(nil)
	resp := svc.Generate(context.Background(), baseRequest())

	require.Equal(t, "OPTIMAL", resp.Status)

	nonBreak := 0
	for _, day := range resp.Timetable {
		for _, s := range day.Slots {
			if s.Break {
				assert.Equal(t, "12:00", s.StartTime)
				assert.Equal(t, "13:00", s.EndTime)
				continue
			}
			nonBreak++
			assert.False(t, s.StartTime < "13:00" && s.EndTime > "12:00" && s.StartTime >= "12:00")
		}
	}
	assert.Equal(t, 3, nonBreak)
}

func TestGenerateS2BusyBlocksCell(t *testing.T) {
	req := baseRequest()
	req.TeacherBusyPeriod = []dto.TeacherBusyPeriodRequest{
		{TeacherID: "t1", Day: "monday", StartTime: "14:00", EndTime: "17:00"},
	}

	svc := NewService(nil)
	resp := svc.Generate(context.Background(), req)

	require.Equal(t, "OPTIMAL", resp.Status)
	for _, day := range resp.Timetable {
		if day.Day != "Monday" {
			continue
		}
		for _, s := range day.Slots {
			if s.Break {
				continue
			}
			assert.False(t, s.StartTime >= "14:00" && s.StartTime < "17:00")
		}
	}
}

func TestGenerateS3StrictPreference(t *testing.T) {
	req := baseRequest()
	req.RespectPreferences = true
	req.TeacherPreferedTeachingPeriod = []dto.TeacherBusyPeriodRequest{
		{TeacherID: "t1", Day: "monday", StartTime: "09:00", EndTime: "12:00"},
	}

	svc := NewService(nil)
	resp := svc.Generate(context.Background(), req)

	require.Equal(t, "OPTIMAL", resp.Status)
	for _, day := range resp.Timetable {
		if day.Day != "Monday" {
			continue
		}
		for _, s := range day.Slots {
			if s.Break {
				continue
			}
			assert.GreaterOrEqual(t, s.StartTime, "09:00")
			assert.LessOrEqual(t, s.EndTime, "12:00")
		}
	}
}

func TestGenerateS4NoBreakOverride(t *testing.T) {
	req := baseRequest()
	req.BreakPeriod.NoBreakExceptions = []string{"monday"}
	req.BreakPeriod.DayExceptions = []dto.DayTimeException{
		{Day: "friday", StartTime: "14:00", EndTime: "15:00"},
	}

	svc := NewService(nil)
	resp := svc.Generate(context.Background(), req)
	require.Equal(t, "OPTIMAL", resp.Status)

	for _, day := range resp.Timetable {
		switch day.Day {
		case "Monday":
			for _, s := range day.Slots {
				assert.False(t, s.Break)
			}
		case "Friday":
			found := false
			for _, s := range day.Slots {
				if s.Break {
					found = true
					assert.Equal(t, "14:00", s.StartTime)
					assert.Equal(t, "15:00", s.EndTime)
				}
			}
			assert.True(t, found)
		}
	}
}

func TestGenerateS5RequiredJointPin(t *testing.T) {
	req := baseRequest()
	req.OperationalPeriod.StartTime = "08:00"
	req.RequiredJointCoursePeriods = []dto.RequiredJointCoursePeriodRequest{
		{
			CourseID: "c1", TeacherID: "t1",
			Periods: []dto.RequiredPeriodCell{{Day: "monday", StartTime: "08:00", EndTime: "09:00"}},
		},
	}
	periods := &dto.PeriodsRequest{DurationMinutes: 60}
	req.Periods = periods

	svc := NewService(nil)
	resp := svc.Generate(context.Background(), req)

	require.Equal(t, "OPTIMAL", resp.Status)
	found := false
	for _, day := range resp.Timetable {
		if day.Day != "Monday" {
			continue
		}
		for _, s := range day.Slots {
			if s.Break {
				continue
			}
			if s.CourseID == "c1" && s.TeacherID == "t1" && s.StartTime == "08:00" && s.EndTime == "09:00" {
				found = true
			}
		}
	}
	assert.True(t, found)
}

func TestGenerateS6SoftDailyHoursOverflow(t *testing.T) {
	req := dto.ScheduleRequest{
		Teachers: []dto.TeacherRequest{{TeacherID: "t1", Name: "Ada"}},
		TeacherCourses: []dto.TeacherCourseRequest{
			{CourseID: "c1", CourseTitle: "A", CourseCredit: 1, CourseType: "theory", TeacherID: "t1"},
			{CourseID: "c2", CourseTitle: "B", CourseCredit: 1, CourseType: "theory", TeacherID: "t1"},
			{CourseID: "c3", CourseTitle: "C", CourseCredit: 1, CourseType: "theory", TeacherID: "t1"},
		},
		Halls: []dto.HallRequest{{HallID: "h1", HallName: "Hall", HallType: "lecture"}},
		BreakPeriod: dto.BreakPeriodRequest{StartTime: "12:00", EndTime: "13:00", Daily: false},
		OperationalPeriod: dto.OperationalPeriodRequest{
			StartTime: "08:00", EndTime: "12:00",
			Days: []string{"monday"},
		},
		Periods:          &dto.PeriodsRequest{DurationMinutes: 60},
		SoftConstrains:   []byte(`{"teacher_max_daily_hours":2}`),
		TimeLimitSeconds: 5,
	}

	svc := NewService(nil)
	resp := svc.Generate(context.Background(), req)

	require.Equal(t, "PARTIAL", resp.Status)
	assert.False(t, resp.Diagnostics.Summary.SoftConstraintsMet)
	found := false
	for _, d := range resp.Diagnostics.Constraints.Soft {
		for _, b := range d.Blockers {
			if b.Type == "TEACHER_MAX_DAILY_HOURS_EXCEEDED" {
				found = true
				assert.Equal(t, 3.0, b.Conflict["actual_hours"])
				assert.Equal(t, 2, b.Conflict["max_allowed_hours"])
			}
		}
	}
	assert.True(t, found)
}

func TestGenerateDeterministic(t *testing.T) {
	svc := NewService(nil)
	r1 := svc.Generate(context.Background(), baseRequest())
	r2 := svc.Generate(context.Background(), baseRequest())

	r1.Metadata.SolveTimeSeconds = 0
	r2.Metadata.SolveTimeSeconds = 0
	assert.Equal(t, r1, r2)
}

func TestGenerateValidationErrors(t *testing.T) {
	req := baseRequest()
	req.TeacherCourses[0].TeacherID = "unknown"

	svc := NewService(nil)
	resp := svc.Generate(context.Background(), req)

	require.Equal(t, "ERROR", resp.Status)
	assert.False(t, resp.Diagnostics.Summary.HardConstraintsMet)
	assert.NotEmpty(t, resp.Diagnostics.Constraints.Hard)
}

func TestGenerateRejectsEmptyTeachers(t *testing.T) {
	req := baseRequest()
	req.Teachers = nil

	svc := NewService(nil)
	resp := svc.Generate(context.Background(), req)

	require.Equal(t, "ERROR", resp.Status)
	assert.Empty(t, resp.Timetable)
	assert.NotEmpty(t, resp.Diagnostics.Constraints.Hard)
}

func TestGenerateRejectsEmptyCoursesAndHalls(t *testing.T) {
	req := baseRequest()
	req.TeacherCourses = nil
	req.Halls = nil

	svc := NewService(nil)
	resp := svc.Generate(context.Background(), req)

	require.Equal(t, "ERROR", resp.Status)
	assert.Empty(t, resp.Timetable)
}

func TestGenerateRejectsZeroDurationMinutes(t *testing.T) {
	req := baseRequest()
	req.Periods = &dto.PeriodsRequest{DurationMinutes: 0}

	svc := NewService(nil)
	resp := svc.Generate(context.Background(), req)

	require.Equal(t, "ERROR", resp.Status)
}
