package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classops/timetable-scheduler/internal/domain"
)

func mustTime(t *testing.T, s string) domain.TimeOfDay {
	t.Helper()
	tod, err := domain.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func TestBuildAlignsStartToQuarterHour(t *testing.T) {
	op := domain.OperationalPeriod{
		Default:    domain.Window{Start: mustTime(t, "08:05"), End: mustTime(t, "09:00")},
		ActiveDays: []domain.Weekday{domain.Monday},
	}
	pp := domain.PeriodPolicy{DurationMinutes: 30}

	g := Build(op, pp)

	cells := g.CellsFor(domain.Monday)
	require.Len(t, cells, 1)
	assert.Equal(t, "08:15", cells[0].Window.Start.String())
	assert.Equal(t, "08:45", cells[0].Window.End.String())
}

func TestBuildDiscardsTrailingPartialSlot(t *testing.T) {
	op := domain.OperationalPeriod{
		Default:    domain.Window{Start: mustTime(t, "08:00"), End: mustTime(t, "09:40")},
		ActiveDays: []domain.Weekday{domain.Monday},
	}
	pp := domain.PeriodPolicy{DurationMinutes: 30}

	g := Build(op, pp)

	cells := g.CellsFor(domain.Monday)
	require.Len(t, cells, 3)
	assert.Equal(t, "09:00", cells[2].Window.Start.String())
	assert.Equal(t, "09:30", cells[2].Window.End.String())
}

func TestBuildPerDayDurationOverride(t *testing.T) {
	op := domain.OperationalPeriod{
		Default:    domain.Window{Start: mustTime(t, "08:00"), End: mustTime(t, "10:00")},
		ActiveDays: []domain.Weekday{domain.Monday, domain.Tuesday},
	}
	pp := domain.PeriodPolicy{
		DurationMinutes: 30,
		Overrides:       []domain.DayMinutes{{Day: domain.Tuesday, Minutes: 60}},
	}

	g := Build(op, pp)

	assert.Len(t, g.CellsFor(domain.Monday), 4)
	assert.Len(t, g.CellsFor(domain.Tuesday), 2)
}

func TestBuildSkipsInactiveDays(t *testing.T) {
	op := domain.OperationalPeriod{
		Default:    domain.Window{Start: mustTime(t, "08:00"), End: mustTime(t, "09:00")},
		ActiveDays: []domain.Weekday{domain.Monday},
	}
	pp := domain.PeriodPolicy{DurationMinutes: 30}

	g := Build(op, pp)

	assert.Nil(t, g.CellsFor(domain.Saturday))
	assert.Equal(t, []domain.Weekday{domain.Monday}, g.Days)
}
