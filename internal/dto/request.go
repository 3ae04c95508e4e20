// Package dto holds the wire-contract request/response shapes of §6,
// including the first (structural) validation pass via validator/v10 tags —
// mirroring the teacher's internal/dto package conventions.
package dto

import "encoding/json"

// TeacherRequest is one entry of "teachers".
type TeacherRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
}

// TeacherCourseRequest is one entry of "teacher_courses".
type TeacherCourseRequest struct {
	CourseID     string `json:"course_id" validate:"required"`
	CourseTitle  string `json:"course_title" validate:"required"`
	CourseCredit int    `json:"course_credit" validate:"required,min=1"`
	CourseType   string `json:"course_type" validate:"required"`
	CourseHours  int    `json:"course_hours"`
	TeacherID    string `json:"teacher_id" validate:"required"`
	TeacherName  string `json:"teacher_name"`
}

// HallRequest is one entry of "halls".
type HallRequest struct {
	HallID       string `json:"hall_id" validate:"required"`
	HallName     string `json:"hall_name" validate:"required"`
	HallCapacity int    `json:"hall_capacity"`
	HallType     string `json:"hall_type" validate:"required"`
}

// TeacherBusyPeriodRequest is one entry of "teacher_busy_period" or
// "teacher_prefered_teaching_period".
type TeacherBusyPeriodRequest struct {
	TeacherID   string `json:"teacher_id" validate:"required"`
	TeacherName string `json:"teacher_name"`
	Day         string `json:"day" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
}

// HallBusyPeriodRequest is one entry of "hall_busy_periods". Day is optional;
// an empty day means the window applies every active day.
type HallBusyPeriodRequest struct {
	HallID    string `json:"hall_id" validate:"required"`
	HallName  string `json:"hall_name"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Day       string `json:"day"`
}

// DayTimeException is a {day,start_time,end_time} override used by
// break_period.day_exceptions and operational_period.day_exceptions.
type DayTimeException struct {
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// DayMinutesException is a {day,minutes} override used by
// periods.day_exceptions.
type DayMinutesException struct {
	Day     string `json:"day" validate:"required"`
	Minutes int    `json:"minutes" validate:"required,min=1"`
}

// BreakPeriodRequest is "break_period".
type BreakPeriodRequest struct {
	StartTime         string             `json:"start_time" validate:"required"`
	EndTime           string             `json:"end_time" validate:"required"`
	Daily             bool               `json:"daily"`
	NoBreakExceptions []string           `json:"no_break_exceptions"`
	DayExceptions     []DayTimeException `json:"day_exceptions"`
}

// OperationalPeriodRequest is "operational_period".
type OperationalPeriodRequest struct {
	StartTime     string             `json:"start_time" validate:"required"`
	EndTime       string             `json:"end_time" validate:"required"`
	Daily         bool               `json:"daily"`
	Days          []string           `json:"days" validate:"required,min=1,dive,min=1,max=9"`
	DayExceptions []DayTimeException `json:"day_exceptions"`
}

// PeriodsRequest is the optional "periods" (slot duration policy).
type PeriodsRequest struct {
	Daily           bool                  `json:"daily"`
	DurationMinutes int                   `json:"duration_minutes"`
	DayExceptions   []DayMinutesException `json:"day_exceptions"`
}

// RequiredPeriodCell is one {day,start_time,end_time} pin cell.
type RequiredPeriodCell struct {
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// RequiredJointCoursePeriodRequest is one entry of
// "required_joint_course_periods".
type RequiredJointCoursePeriodRequest struct {
	CourseID  string               `json:"course_id" validate:"required"`
	TeacherID string               `json:"teacher_id" validate:"required"`
	Periods   []RequiredPeriodCell `json:"periods" validate:"required,min=1"`
}

// ScheduleRequest is the full request body of both scheduling endpoints.
type ScheduleRequest struct {
	Teachers                     []TeacherRequest                  `json:"teachers" validate:"required,min=1,dive"`
	TeacherCourses               []TeacherCourseRequest             `json:"teacher_courses" validate:"required,min=1,dive"`
	Halls                        []HallRequest                      `json:"halls" validate:"required,min=1,dive"`
	TeacherBusyPeriod            []TeacherBusyPeriodRequest         `json:"teacher_busy_period" validate:"dive"`
	TeacherPreferedTeachingPeriod []TeacherBusyPeriodRequest        `json:"teacher_prefered_teaching_period" validate:"dive"`
	HallBusyPeriods              []HallBusyPeriodRequest            `json:"hall_busy_periods" validate:"dive"`
	BreakPeriod                  BreakPeriodRequest                 `json:"break_period" validate:"required"`
	OperationalPeriod            OperationalPeriodRequest           `json:"operational_period" validate:"required"`
	Periods                      *PeriodsRequest                    `json:"periods"`
	SoftConstrains               json.RawMessage                    `json:"soft_constrains"`
	RequiredJointCoursePeriods   []RequiredJointCoursePeriodRequest  `json:"required_joint_course_periods" validate:"dive"`

	// RespectPreferences is not part of the JSON body; it is set by the
	// handler per §6's two-route contract (with-preference vs
	// without-preference) and threaded alongside the parsed body.
	RespectPreferences bool `json:"-"`
	TimeLimitSeconds   int  `json:"-"`
}
