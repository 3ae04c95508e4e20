// Package grid implements §4.2's time-grid builder: translating operational
// periods, per-day overrides, and slot-duration policy into a discrete set
// of (day, slot) cells — the canonical time coordinate system every other
// scheduler component refers to.
package grid

import "github.com/classops/timetable-scheduler/internal/domain"

// Cell is one (day, slot) coordinate with its rendered time bounds.
type Cell struct {
	Day   domain.Weekday
	Index int
	Window domain.Window
}

// Grid is the full set of cells for every active day, grouped per day in
// slot order.
type Grid struct {
	Days  []domain.Weekday
	Cells map[domain.Weekday][]Cell
}

// CellsFor returns the ordered cells for a day, or nil if the day is not
// active.
func (g Grid) CellsFor(day domain.Weekday) []Cell {
	return g.Cells[day]
}

// Build enumerates the grid per §4.2: for each active day, resolve the
// operational window, align its start up to the next quarter hour, resolve
// the slot duration, then enumerate fixed-width slots discarding any
// trailing partial slot.
func Build(op domain.OperationalPeriod, pp domain.PeriodPolicy) Grid {
	g := Grid{Cells: make(map[domain.Weekday][]Cell, len(op.ActiveDays))}
	for _, day := range op.ActiveDays {
		window := op.WindowFor(day)
		if !window.Valid() {
			continue
		}
		start := window.Start.AlignUpToQuarterHour()
		duration := pp.MinutesFor(day)
		if duration <= 0 {
			continue
		}

		var cells []Cell
		idx := 0
		for t := start; int(t)+duration <= int(window.End); t += domain.TimeOfDay(duration) {
			cells = append(cells, Cell{
				Day:    day,
				Index:  idx,
				Window: domain.Window{Start: t, End: t + domain.TimeOfDay(duration)},
			})
			idx++
		}
		if len(cells) > 0 {
			g.Days = append(g.Days, day)
			g.Cells[day] = cells
		}
	}
	return g
}
