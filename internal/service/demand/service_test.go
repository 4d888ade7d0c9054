package demand

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
	"github.com/m04kA/SMC-BayScheduler/internal/schedule"
	"github.com/m04kA/SMC-BayScheduler/pkg/logger"
	"github.com/m04kA/SMC-BayScheduler/pkg/ptr"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) ListActiveWithServices(ctx context.Context, locationID int64, date time.Time, excludeBookingID *int64) ([]*domain.Booking, error) {
	args := m.Called(ctx, locationID, date, excludeBookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

var zone = schedule.NewCivilZone(-3)

func day(t *testing.T, iso string) time.Time {
	d, err := zone.ParseDate(iso)
	require.NoError(t, err)
	return d
}

func booking(id int64, date time.Time, clock string, durations ...string) *domain.Booking {
	start, _ := time.ParseInLocation("2006-01-02 15:04", date.Format("2006-01-02")+" "+clock, zone.Location())
	services := make([]domain.ServiceItem, 0, len(durations))
	for i, d := range durations {
		services = append(services, domain.ServiceItem{ID: int64(i + 1), AverageDuration: d})
	}
	return &domain.Booking{
		ID:          id,
		BookingDate: time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		StartAt:     start,
		Status:      domain.StatusConfirmed,
		Services:    services,
	}
}

func TestLoadDemand_SumsServiceDurations(t *testing.T) {
	repo := new(mockBookingRepo)
	svc := NewService(repo, zone, logger.NewNop())
	d := day(t, "2025-03-12")

	repo.On("ListActiveWithServices", mock.Anything, int64(7), d, (*int64)(nil)).
		Return([]*domain.Booking{
			booking(1, d, "08:00", "00:40:00", "00:30:30"),
			booking(2, d, "10:30", "01:00:00"),
		}, nil)

	got, err := svc.LoadDemand(context.Background(), 7, "2025-03-12")

	require.NoError(t, err)
	assert.Equal(t, []schedule.BookingDemand{
		{BookingID: 1, DateISO: "2025-03-12", StartMinute: 480, TotalDurationMinutes: 70},
		{BookingID: 2, DateISO: "2025-03-12", StartMinute: 630, TotalDurationMinutes: 60},
	}, got)
	repo.AssertExpectations(t)
}

func TestLoadDemand_StartIsTakenInBusinessTime(t *testing.T) {
	repo := new(mockBookingRepo)
	svc := NewService(repo, zone, logger.NewNop())
	d := day(t, "2025-03-12")

	b := booking(1, d, "08:00", "00:30:00")
	b.StartAt = time.Date(2025, 3, 12, 11, 0, 0, 0, time.UTC) // 08:00 в UTC-3

	repo.On("ListActiveWithServices", mock.Anything, int64(7), d, (*int64)(nil)).
		Return([]*domain.Booking{b}, nil)

	got, err := svc.LoadDemand(context.Background(), 7, "2025-03-12")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 480, got[0].StartMinute)
}

func TestLoadDemand_SkipsBookingsWithoutServices(t *testing.T) {
	repo := new(mockBookingRepo)
	svc := NewService(repo, zone, logger.NewNop())
	d := day(t, "2025-03-12")

	repo.On("ListActiveWithServices", mock.Anything, int64(7), d, (*int64)(nil)).
		Return([]*domain.Booking{booking(1, d, "08:00"), booking(2, d, "09:00", "00:30:00")}, nil)

	got, err := svc.LoadDemand(context.Background(), 7, "2025-03-12")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].BookingID)
}

func TestLoadDemand_MalformedDurationFails(t *testing.T) {
	repo := new(mockBookingRepo)
	svc := NewService(repo, zone, logger.NewNop())
	d := day(t, "2025-03-12")

	repo.On("ListActiveWithServices", mock.Anything, int64(7), d, (*int64)(nil)).
		Return([]*domain.Booking{booking(1, d, "08:00", "40 min")}, nil)

	_, err := svc.LoadDemand(context.Background(), 7, "2025-03-12")

	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestLoadDemand_RepositoryError(t *testing.T) {
	repo := new(mockBookingRepo)
	svc := NewService(repo, zone, logger.NewNop())

	repo.On("ListActiveWithServices", mock.Anything, int64(7), mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	_, err := svc.LoadDemand(context.Background(), 7, "2025-03-12")

	assert.ErrorIs(t, err, ErrInternal)
}

func TestLoadDemand_InvalidDate(t *testing.T) {
	svc := NewService(new(mockBookingRepo), zone, logger.NewNop())

	_, err := svc.LoadDemand(context.Background(), 7, "12/03/2025")

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestLoadDemandExcluding_PassesBookingID(t *testing.T) {
	repo := new(mockBookingRepo)
	svc := NewService(repo, zone, logger.NewNop())
	d := day(t, "2025-03-12")

	repo.On("ListActiveWithServices", mock.Anything, int64(7), d, ptr.Ptr(int64(42))).
		Return([]*domain.Booking{}, nil)

	got, err := svc.LoadDemandExcluding(context.Background(), 7, "2025-03-12", 42)

	require.NoError(t, err)
	assert.Empty(t, got)
	repo.AssertExpectations(t)
}

func TestTotalDuration(t *testing.T) {
	total, err := TotalDuration([]domain.ServiceItem{
		{ID: 1, AverageDuration: "00:15:00"},
		{ID: 2, AverageDuration: "01:10:59"},
	})

	require.NoError(t, err)
	assert.Equal(t, 85, total)
}
