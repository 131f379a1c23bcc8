package api_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limbo/healthtrack/internal/api"
)

func TestGetDashboardSummaryHandler(t *testing.T) {
	apptMock := &appointmentsServiceMock{}
	medMock := &medicationsServiceMock{}
	serv := api.New(&api.ServicesList{
		AppointmentsService: apptMock,
		MedicationsService:  medMock,
	})
	t.Run("success", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.GetDashboardSummary(rr, authedRequest(http.MethodGet, "/api/v1/dashboard/summary", nil))
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var summary api.DashboardSummary
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&summary))
		assert.Equal(t, 1, summary.UpcomingAppointments)
		assert.Equal(t, 1, summary.ActiveMedications)
		assert.Equal(t, len(testMed.TimeOfDay), summary.DailyDoses)
		assert.Equal(t, 1, summary.TakenToday)
	})
	t.Run("unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.GetDashboardSummary(rr, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("appointments error", func(t *testing.T) {
		apptMock.err = errors.New("service error")
		rr := httptest.NewRecorder()
		serv.GetDashboardSummary(rr, authedRequest(http.MethodGet, "/api/v1/dashboard/summary", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
	t.Run("medications error", func(t *testing.T) {
		apptMock.err = nil
		medMock.err = errors.New("service error")
		rr := httptest.NewRecorder()
		serv.GetDashboardSummary(rr, authedRequest(http.MethodGet, "/api/v1/dashboard/summary", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}
