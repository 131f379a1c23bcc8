package api_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limbo/healthtrack/internal/api"
	errorvalues "github.com/limbo/healthtrack/internal/error_values"
)

func TestGetMedicationsHandler(t *testing.T) {
	mock := &medicationsServiceMock{}
	serv := api.New(&api.ServicesList{
		MedicationsService: mock,
	})
	t.Run("success", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.GetMedications(rr, authedRequest(http.MethodGet, "/api/v1/medications", nil))
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.GetMedicationsResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Equal(t, uid.String(), resp.UserID)
		assert.Len(t, resp.Medications, 1)
		assert.Equal(t, testMed.Name, resp.Medications[0].Name)
	})
	t.Run("unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.GetMedications(rr, httptest.NewRequest(http.MethodGet, "/api/v1/medications", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		mock.err = errors.New("service error")
		rr := httptest.NewRecorder()
		serv.GetMedications(rr, authedRequest(http.MethodGet, "/api/v1/medications", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestCreateMedicationHandler(t *testing.T) {
	mock := &medicationsServiceMock{}
	serv := api.New(&api.ServicesList{
		MedicationsService: mock,
	})
	body, err := sonic.ConfigDefault.Marshal(api.CreateMedicationRequest{
		Name:      testMed.Name,
		Dosage:    testMed.Dosage,
		TimeOfDay: testMed.TimeOfDay,
		StartDate: testMed.StartDate,
		IsActive:  true,
	})
	require.NoError(t, err)
	testCases := []struct {
		ExpectedCode int
		ServiceErr   error
		Body         []byte
	}{
		{ExpectedCode: http.StatusCreated, Body: body},
		{ExpectedCode: http.StatusNotFound, ServiceErr: errorvalues.ErrUserNotFound, Body: body},
		{ExpectedCode: http.StatusBadRequest, ServiceErr: errValidation, Body: body},
		{ExpectedCode: http.StatusInternalServerError, ServiceErr: errors.New("service error"), Body: body},
		{ExpectedCode: http.StatusBadRequest, Body: []byte("corrupted")},
	}
	for _, tc := range testCases {
		mock.err = tc.ServiceErr
		rr := httptest.NewRecorder()
		serv.CreateMedication(rr, authedRequest(http.MethodPost, "/api/v1/medications", bytes.NewReader(tc.Body)))
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
	}
}

func TestPatchMedicationHandler(t *testing.T) {
	mock := &medicationsServiceMock{}
	serv := api.New(&api.ServicesList{
		MedicationsService: mock,
	})
	body := []byte(`{"dosage": "150mg"}`)
	testCases := []struct {
		ExpectedCode int
		ServiceErr   error
		Body         []byte
	}{
		{ExpectedCode: http.StatusOK, Body: body},
		{ExpectedCode: http.StatusNotFound, ServiceErr: errorvalues.ErrMedicationNotFound, Body: body},
		{ExpectedCode: http.StatusBadRequest, ServiceErr: errorvalues.ErrEmptyTimeOfDay, Body: []byte(`{"time_of_day": []}`)},
		{ExpectedCode: http.StatusBadRequest, ServiceErr: errorvalues.ErrEmptyPatch, Body: []byte(`{}`)},
		{ExpectedCode: http.StatusBadRequest, ServiceErr: errValidation, Body: body},
		{ExpectedCode: http.StatusInternalServerError, ServiceErr: errors.New("service error"), Body: body},
	}
	for _, tc := range testCases {
		mock.err = tc.ServiceErr
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodPatch, "/api/v1/medications/"+testMed.ID.String(), bytes.NewReader(tc.Body))
		r.SetPathValue("id", testMed.ID.String())
		serv.PatchMedication(rr, r)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
	}
	t.Run("invalid id in path", func(t *testing.T) {
		mock.err = nil
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodPatch, "/api/v1/medications/not-an-id", bytes.NewReader(body))
		r.SetPathValue("id", "not-an-id")
		serv.PatchMedication(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestDeleteMedicationHandler(t *testing.T) {
	mock := &medicationsServiceMock{}
	serv := api.New(&api.ServicesList{
		MedicationsService: mock,
	})
	testCases := []struct {
		ExpectedCode int
		ServiceErr   error
	}{
		{ExpectedCode: http.StatusNoContent},
		{ExpectedCode: http.StatusNotFound, ServiceErr: errorvalues.ErrMedicationNotFound},
		{ExpectedCode: http.StatusInternalServerError, ServiceErr: errors.New("service error")},
	}
	for _, tc := range testCases {
		mock.err = tc.ServiceErr
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodDelete, "/api/v1/medications/"+testMed.ID.String(), nil)
		r.SetPathValue("id", testMed.ID.String())
		serv.DeleteMedication(rr, r)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
	}
}

func TestGetTodayMedicationLogsHandler(t *testing.T) {
	mock := &medicationsServiceMock{}
	serv := api.New(&api.ServicesList{
		MedicationsService: mock,
	})
	t.Run("success", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.GetTodayMedicationLogs(rr, authedRequest(http.MethodGet, "/api/v1/medications/logs/today", nil))
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.GetMedicationLogsResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Equal(t, uid.String(), resp.UserID)
		assert.Equal(t, time.Now().UTC().Format("2006-01-02"), resp.Day)
		assert.Len(t, resp.Logs, 1)
		assert.Equal(t, testLog.ScheduledTime, resp.Logs[0].ScheduledTime)
	})
	t.Run("service error", func(t *testing.T) {
		mock.err = errors.New("service error")
		rr := httptest.NewRecorder()
		serv.GetTodayMedicationLogs(rr, authedRequest(http.MethodGet, "/api/v1/medications/logs/today", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestLogMedicationDoseHandler(t *testing.T) {
	mock := &medicationsServiceMock{}
	serv := api.New(&api.ServicesList{
		MedicationsService: mock,
	})
	body := []byte(`{"scheduled_time": "08:00"}`)
	testCases := []struct {
		ExpectedCode int
		ServiceErr   error
		Body         []byte
	}{
		{ExpectedCode: http.StatusCreated, Body: body},
		{ExpectedCode: http.StatusNotFound, ServiceErr: errorvalues.ErrMedicationNotFound, Body: body},
		{ExpectedCode: http.StatusConflict, ServiceErr: errorvalues.ErrDoseAlreadyLogged, Body: body},
		{ExpectedCode: http.StatusBadRequest, ServiceErr: errValidation, Body: []byte(`{"scheduled_time": "8am"}`)},
		{ExpectedCode: http.StatusInternalServerError, ServiceErr: errors.New("service error"), Body: body},
		{ExpectedCode: http.StatusBadRequest, Body: []byte("corrupted")},
	}
	for _, tc := range testCases {
		mock.err = tc.ServiceErr
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodPost, "/api/v1/medications/"+testMed.ID.String()+"/logs", bytes.NewReader(tc.Body))
		r.SetPathValue("id", testMed.ID.String())
		serv.LogMedicationDose(rr, r)
		assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
	}
}
