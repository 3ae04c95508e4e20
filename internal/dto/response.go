package dto

import (
	"github.com/classops/timetable-scheduler/internal/domain"
)

// SlotResponse is one rendered slot of the timetable.
type SlotResponse struct {
	Day         string  `json:"day"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Break       bool    `json:"break"`
	Duration    string  `json:"duration,omitempty"`
	TeacherID   string  `json:"teacher_id,omitempty"`
	TeacherName string  `json:"teacher_name,omitempty"`
	CourseID    string  `json:"course_id,omitempty"`
	CourseName  string  `json:"course_name,omitempty"`
	HallID      string  `json:"hall_id,omitempty"`
	HallName    string  `json:"hall_name,omitempty"`
}

// DayTimetableResponse groups a day's rendered slots.
type DayTimetableResponse struct {
	Day   string         `json:"day"`
	Slots []SlotResponse `json:"slots"`
}

// EntityResponse identifies the subject of a blocker.
type EntityResponse struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// BlockerResponse is one structured failure element.
type BlockerResponse struct {
	Type     string           `json:"type"`
	Entity   *EntityResponse  `json:"entity,omitempty"`
	Conflict map[string]any   `json:"conflict,omitempty"`
	Evidence []SlotResponse   `json:"evidence,omitempty"`
}

// ConstraintDiagnosticResponse is one hard or soft diagnostic entry.
type ConstraintDiagnosticResponse struct {
	ConstraintFailed map[string]any    `json:"constraint_failed"`
	Blockers         []BlockerResponse `json:"blockers"`
	Suggestions      []string          `json:"suggestions,omitempty"`
}

// ConstraintsResponse groups hard and soft diagnostics.
type ConstraintsResponse struct {
	Hard []ConstraintDiagnosticResponse `json:"hard"`
	Soft []ConstraintDiagnosticResponse `json:"soft"`
}

// SummaryResponse is the fixed-shape diagnostics summary.
type SummaryResponse struct {
	Message                    string `json:"message"`
	HardConstraintsMet         bool   `json:"hard_constraints_met"`
	SoftConstraintsMet         bool   `json:"soft_constraints_met"`
	FailedHardConstraintsCount int    `json:"failed_hard_constraints_count"`
	FailedSoftConstraintsCount int    `json:"failed_soft_constraints_count"`
}

// DiagnosticsResponse is the full diagnostics block.
type DiagnosticsResponse struct {
	Constraints ConstraintsResponse `json:"constraints"`
	Summary     SummaryResponse     `json:"summary"`
}

// MetadataResponse carries solve timing.
type MetadataResponse struct {
	SolveTimeSeconds float64 `json:"solve_time_seconds"`
}

// ScheduleResponse is the full response body of §6.
type ScheduleResponse struct {
	Status      string               `json:"status"`
	Timetable   []DayTimetableResponse `json:"timetable"`
	Diagnostics DiagnosticsResponse  `json:"diagnostics"`
	Metadata    MetadataResponse     `json:"metadata"`
}

// FromResult renders a domain.Result into the wire contract.
func FromResult(r domain.Result) ScheduleResponse {
	resp := ScheduleResponse{
		Status:    string(r.Status),
		Timetable: make([]DayTimetableResponse, 0, len(r.Timetable)),
		Metadata:  MetadataResponse{SolveTimeSeconds: r.SolveTimeSeconds},
	}
	for _, day := range r.Timetable {
		dtr := DayTimetableResponse{Day: capitalize(string(day.Day)), Slots: make([]SlotResponse, 0, len(day.Slots))}
		for _, s := range day.Slots {
			dtr.Slots = append(dtr.Slots, slotResponse(s))
		}
		resp.Timetable = append(resp.Timetable, dtr)
	}
	resp.Diagnostics = DiagnosticsResponse{
		Constraints: ConstraintsResponse{
			Hard: diagnosticsResponse(r.Diagnostics.Hard),
			Soft: diagnosticsResponse(r.Diagnostics.Soft),
		},
		Summary: SummaryResponse{
			Message:                    r.Diagnostics.Summary.Message,
			HardConstraintsMet:         r.Diagnostics.Summary.HardConstraintsMet,
			SoftConstraintsMet:         r.Diagnostics.Summary.SoftConstraintsMet,
			FailedHardConstraintsCount: r.Diagnostics.Summary.FailedHardConstraintsCount,
			FailedSoftConstraintsCount: r.Diagnostics.Summary.FailedSoftConstraintsCount,
		},
	}
	return resp
}

func slotResponse(s domain.ScheduleSlot) SlotResponse {
	return SlotResponse{
		Day:         capitalize(string(s.Day)),
		StartTime:   s.Window.Start.String(),
		EndTime:     s.Window.End.String(),
		Break:       s.Break,
		Duration:    s.Duration,
		TeacherID:   s.TeacherID,
		TeacherName: s.TeacherName,
		CourseID:    s.CourseID,
		CourseName:  s.CourseName,
		HallID:      s.HallID,
		HallName:    s.HallName,
	}
}

func diagnosticsResponse(in []domain.ConstraintDiagnostic) []ConstraintDiagnosticResponse {
	out := make([]ConstraintDiagnosticResponse, 0, len(in))
	for _, d := range in {
		cdr := ConstraintDiagnosticResponse{ConstraintFailed: d.ConstraintFailed, Suggestions: d.Suggestions}
		for _, b := range d.Blockers {
			br := BlockerResponse{Type: b.Type, Conflict: b.Conflict}
			if b.Entity != nil {
				br.Entity = &EntityResponse{Type: b.Entity.Type, ID: b.Entity.ID, Name: b.Entity.Name}
			}
			for _, e := range b.Evidence {
				br.Evidence = append(br.Evidence, slotResponse(e))
			}
			cdr.Blockers = append(cdr.Blockers, br)
		}
		out = append(out, cdr)
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-32) + s[1:]
}
