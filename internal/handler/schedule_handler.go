// Package handler wires the Gin routes of §6 to the scheduler core,
// following the teacher's ScheduleGeneratorHandler pattern: a thin adaptor
// that parses the body, sets the route-specific flag, and delegates.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classops/timetable-scheduler/internal/dto"
	"github.com/classops/timetable-scheduler/pkg/errors"
	"github.com/classops/timetable-scheduler/pkg/response"
)

// generator is the subset of *scheduler.Service the handler depends on,
// narrowed to an interface so tests can stub it — matching the teacher's
// scheduleGenerator interface in schedule_generator_handler.go.
type generator interface {
	Generate(ctx context.Context, in dto.ScheduleRequest) dto.ScheduleResponse
}

// ScheduleHandler exposes the two scheduling routes plus health.
type ScheduleHandler struct {
	core             generator
	timeLimitSeconds int
}

// NewScheduleHandler constructs a ScheduleHandler. timeLimitSeconds is the
// process-wide default threaded into every request per §6's "Configuration"
// note (the core itself accepts only respect_preferences and
// time_limit_seconds).
func NewScheduleHandler(core generator, timeLimitSeconds int) *ScheduleHandler {
	return &ScheduleHandler{core: core, timeLimitSeconds: timeLimitSeconds}
}

// GenerateWithPreference handles POST /schedule/with-preference.
//
// @Summary Generate a timetable honouring teacher preferences
// @Tags schedule
// @Accept json
// @Produce json
// @Param request body dto.ScheduleRequest true "scheduling request"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 422 {object} response.Envelope
// @Router /schedule/with-preference [post]
func (h *ScheduleHandler) GenerateWithPreference(c *gin.Context) {
	h.handleGenerate(c, true)
}

// GenerateWithoutPreference handles POST /schedule/without-preference.
//
// @Summary Generate a timetable ignoring teacher preferences
// @Tags schedule
// @Accept json
// @Produce json
// @Param request body dto.ScheduleRequest true "scheduling request"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 422 {object} response.Envelope
// @Router /schedule/without-preference [post]
func (h *ScheduleHandler) GenerateWithoutPreference(c *gin.Context) {
	h.handleGenerate(c, false)
}

func (h *ScheduleHandler) handleGenerate(c *gin.Context, respectPreferences bool) {
	var req dto.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errors.Wrap(err, "INVALID_REQUEST_BODY", http.StatusUnprocessableEntity, "request body does not match the expected schema"))
		return
	}

	req.RespectPreferences = respectPreferences
	if req.TimeLimitSeconds <= 0 {
		req.TimeLimitSeconds = h.timeLimitSeconds
	}

	// Per §6's exit policy, HTTP status is 200 for every completed solve,
	// including ERROR; 422 above is reserved for schema violations only.
	c.JSON(http.StatusOK, h.core.Generate(c.Request.Context(), req))
}

// Health handles GET / and GET /health.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
