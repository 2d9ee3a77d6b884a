package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type MockAvailabilityRepository struct {
	mock.Mock
}

func (m *MockAvailabilityRepository) GetSettings(ctx context.Context, vendorID int64) (*domain.AvailabilitySettings, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvailabilitySettings), args.Error(1)
}

func (m *MockAvailabilityRepository) ListBlocks(ctx context.Context, vendorID int64, start, end time.Time, serviceID *int64) ([]*domain.CalendarBlock, error) {
	args := m.Called(ctx, vendorID, start, end, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CalendarBlock), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) FindOverlapping(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogservice.Service), args.Error(1)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc           *UseCase
	availability *MockAvailabilityRepository
	bookings     *MockBookingRepository
	catalog      *MockCatalogClient
}

func newFixture() *fixture {
	f := &fixture{
		availability: new(MockAvailabilityRepository),
		bookings:     new(MockBookingRepository),
		catalog:      new(MockCatalogClient),
	}
	f.uc = NewUseCase(f.availability, f.bookings, f.catalog, 60,
		fixedTime{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}, nopLogger{})
	return f
}

func activeService() *catalogservice.Service {
	return &catalogservice.Service{
		ID:       30,
		VendorID: 20,
		Name:     "Portrait session",
		IsActive: true,
		Currency: "RUB",
		DefaultPricing: catalogservice.PricingOption{
			ID:        1,
			Model:     domain.PricingFixed,
			BasePrice: 1000,
		},
		PricingOptions: []catalogservice.PricingOption{
			{ID: 2, Model: domain.PricingPerUnit, BasePrice: 500, DurationMinutes: ptr.Ptr(30)},
		},
	}
}

func TestUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	dayStart := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	t.Run("Success", func(t *testing.T) {
		f := newFixture()
		settings := mondaySettings(tr("09:00", "12:00"))

		f.catalog.On("GetService", ctx, int64(30)).Return(activeService(), nil)
		f.availability.On("GetSettings", ctx, int64(20)).Return(settings, nil)
		f.availability.On("ListBlocks", ctx, int64(20), dayStart, dayEnd, ptr.Ptr(int64(30))).
			Return([]*domain.CalendarBlock{{VendorID: 20, StartTime: utc(11, 0), EndTime: utc(11, 15)}}, nil)
		f.bookings.On("FindOverlapping", ctx, domain.OverlapFilter{
			VendorID:  20,
			ServiceID: ptr.Ptr(int64(30)),
			Start:     dayStart,
			End:       dayEnd,
			Statuses:  domain.OccupyingStatuses,
		}).Return([]*domain.Booking{occupying(30, domain.StatusAccepted, utc(9, 0), utc(10, 0))}, nil)

		resp, err := f.uc.Execute(ctx, &Request{ServiceID: 30, Date: "2025-06-02"})
		require.NoError(t, err)
		assert.Equal(t, int64(20), resp.VendorID)
		assert.Equal(t, 60, resp.DurationMinutes)
		assert.Equal(t, "UTC", resp.Timezone)
		require.Len(t, resp.Slots, 1)
		assert.Equal(t, utc(10, 0), resp.Slots[0].StartTime.UTC())
	})

	t.Run("Pricing Option Duration", func(t *testing.T) {
		f := newFixture()
		f.catalog.On("GetService", ctx, int64(30)).Return(activeService(), nil)
		f.availability.On("GetSettings", ctx, int64(20)).Return(mondaySettings(tr("09:00", "10:00")), nil)
		f.availability.On("ListBlocks", ctx, int64(20), dayStart, dayEnd, mock.Anything).Return([]*domain.CalendarBlock{}, nil)
		f.bookings.On("FindOverlapping", ctx, mock.Anything).Return([]*domain.Booking{}, nil)

		resp, err := f.uc.Execute(ctx, &Request{ServiceID: 30, Date: "2025-06-02", PricingOptionID: ptr.Ptr(int64(2))})
		require.NoError(t, err)
		assert.Equal(t, 30, resp.DurationMinutes)
		assert.Len(t, resp.Slots, 2)
	})

	t.Run("Default Settings", func(t *testing.T) {
		f := newFixture()
		f.catalog.On("GetService", ctx, int64(30)).Return(activeService(), nil)
		f.availability.On("GetSettings", ctx, int64(20)).Return(nil, availabilityRepo.ErrSettingsNotFound)
		f.availability.On("ListBlocks", ctx, int64(20), dayStart, dayEnd, mock.Anything).Return([]*domain.CalendarBlock{}, nil)
		f.bookings.On("FindOverlapping", ctx, mock.Anything).Return([]*domain.Booking{}, nil)

		resp, err := f.uc.Execute(ctx, &Request{ServiceID: 30, Date: "2025-06-02"})
		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
	})

	t.Run("Service Not Found", func(t *testing.T) {
		f := newFixture()
		f.catalog.On("GetService", ctx, int64(30)).Return(nil, catalogservice.ErrServiceNotFound)

		_, err := f.uc.Execute(ctx, &Request{ServiceID: 30, Date: "2025-06-02"})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("Service Inactive", func(t *testing.T) {
		f := newFixture()
		service := activeService()
		service.IsActive = false
		f.catalog.On("GetService", ctx, int64(30)).Return(service, nil)

		_, err := f.uc.Execute(ctx, &Request{ServiceID: 30, Date: "2025-06-02"})
		assert.ErrorIs(t, err, ErrServiceInactive)
	})

	t.Run("Unknown Pricing Option", func(t *testing.T) {
		f := newFixture()
		f.catalog.On("GetService", ctx, int64(30)).Return(activeService(), nil)

		_, err := f.uc.Execute(ctx, &Request{ServiceID: 30, Date: "2025-06-02", PricingOptionID: ptr.Ptr(int64(99))})
		assert.ErrorIs(t, err, ErrPricingOptionNotFound)
	})

	t.Run("Invalid Date", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.Execute(ctx, &Request{ServiceID: 30, Date: "02.06.2025"})
		assert.ErrorIs(t, err, ErrInvalidInput)
		f.catalog.AssertNotCalled(t, "GetService", mock.Anything, mock.Anything)
	})

	t.Run("Duration Out Of Range", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.Execute(ctx, &Request{ServiceID: 30, Date: "2025-06-02", DurationMinutes: ptr.Ptr(2)})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Catalog Failure", func(t *testing.T) {
		f := newFixture()
		f.catalog.On("GetService", ctx, int64(30)).Return(nil, errors.New("connection refused"))

		_, err := f.uc.Execute(ctx, &Request{ServiceID: 30, Date: "2025-06-02"})
		assert.ErrorIs(t, err, ErrInternal)
	})
}
