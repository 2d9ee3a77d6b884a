package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*getAvailableSlots.Response), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest(target string) *http.Request {
	return mux.SetURLVars(httptest.NewRequest(http.MethodGet, target, nil), map[string]string{"serviceId": "30"})
}

func TestHandler_Handle(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		uc := new(MockUseCase)
		start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
		uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getAvailableSlots.Request) bool {
			return req.ServiceID == 30 && req.Date == "2025-06-02" && req.DurationMinutes != nil && *req.DurationMinutes == 90
		})).Return(&getAvailableSlots.Response{
			ServiceID:       30,
			VendorID:        20,
			Date:            "2025-06-02",
			Timezone:        "UTC",
			DurationMinutes: 90,
			Slots:           []getAvailableSlots.Slot{{StartTime: start, EndTime: start.Add(90 * time.Minute)}},
		}, nil)

		rec := httptest.NewRecorder()
		NewHandler(uc, nopLogger{}).Handle(rec, newRequest("/api/v1/services/30/available-slots?date=2025-06-02&duration=90"))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp AvailableSlotsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Slots, 1)
		assert.True(t, resp.Slots[0].StartTime.Equal(start))
		assert.Equal(t, "UTC", resp.Timezone)
		uc.AssertExpectations(t)
	})

	t.Run("Missing Date", func(t *testing.T) {
		uc := new(MockUseCase)

		rec := httptest.NewRecorder()
		NewHandler(uc, nopLogger{}).Handle(rec, newRequest("/api/v1/services/30/available-slots"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		uc.AssertNotCalled(t, "Execute")
	})

	t.Run("Service Not Found", func(t *testing.T) {
		uc := new(MockUseCase)
		uc.On("Execute", mock.Anything, mock.Anything).Return(nil, getAvailableSlots.ErrServiceNotFound)

		rec := httptest.NewRecorder()
		NewHandler(uc, nopLogger{}).Handle(rec, newRequest("/api/v1/services/30/available-slots?date=2025-06-02"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Invalid Date", func(t *testing.T) {
		uc := new(MockUseCase)
		uc.On("Execute", mock.Anything, mock.Anything).Return(nil, getAvailableSlots.ErrInvalidInput)

		rec := httptest.NewRecorder()
		NewHandler(uc, nopLogger{}).Handle(rec, newRequest("/api/v1/services/30/available-slots?date=02.06.2025"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
