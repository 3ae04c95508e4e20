package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/classops/timetable-scheduler/internal/domain"
	"github.com/classops/timetable-scheduler/internal/dto"
)

type generatorMock struct {
	captured dto.ScheduleRequest
	status   domain.Status
}

func (m *generatorMock) Generate(ctx context.Context, in dto.ScheduleRequest) dto.ScheduleResponse {
	m.captured = in
	status := m.status
	if status == "" {
		status = domain.StatusOptimal
	}
	return dto.FromResult(domain.Result{
		Status: status,
		Diagnostics: domain.Diagnostics{
			Summary: domain.Summary{Message: "ok"},
		},
	})
}

func validBody() []byte {
	return []byte(`{
		"teachers": [{"teacher_id":"t1","name":"A"}],
		"teacher_courses": [{"course_id":"c1","course_title":"Math","course_credit":1,"course_type":"theory","teacher_id":"t1"}],
		"halls": [{"hall_id":"h1","hall_name":"Room 1","hall_type":"lecture"}],
		"operational_period": {"start_time":"08:00","end_time":"17:00","days":["monday","tuesday","wednesday","thursday","friday"]},
		"break_period": {"start_time":"12:00","end_time":"13:00","daily":true},
		"periods": {"duration_minutes":60}
	}`)
}

func newTestContext(body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	req, _ := http.NewRequest(http.MethodPost, "/schedule/with-preference", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func TestGenerateWithPreferenceSetsRespectPreferences(t *testing.T) {
	mock := &generatorMock{}
	h := NewScheduleHandler(mock, 30)
	c, w := newTestContext(validBody())

	h.GenerateWithPreference(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, mock.captured.RespectPreferences)
}

func TestGenerateWithoutPreferenceClearsRespectPreferences(t *testing.T) {
	mock := &generatorMock{}
	h := NewScheduleHandler(mock, 30)
	c, w := newTestContext(validBody())

	h.GenerateWithoutPreference(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, mock.captured.RespectPreferences)
}

func TestGenerateAppliesDefaultTimeLimit(t *testing.T) {
	mock := &generatorMock{}
	h := NewScheduleHandler(mock, 45)
	c, w := newTestContext(validBody())

	h.GenerateWithoutPreference(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 45, mock.captured.TimeLimitSeconds)
}

func TestGenerateReturns200ForErrorStatus(t *testing.T) {
	mock := &generatorMock{status: domain.StatusError}
	h := NewScheduleHandler(mock, 30)
	c, w := newTestContext(validBody())

	h.GenerateWithoutPreference(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ScheduleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, string(domain.StatusError), resp.Status)
}

func TestGenerateInvalidBodyReturns422(t *testing.T) {
	mock := &generatorMock{}
	h := NewScheduleHandler(mock, 30)
	c, w := newTestContext([]byte(`{"teachers":`))

	h.GenerateWithoutPreference(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHealthReturnsOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	c.Request = req

	Health(c)

	require.Equal(t, http.StatusOK, w.Code)
}
