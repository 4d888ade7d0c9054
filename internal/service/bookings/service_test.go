package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BayScheduler/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BayScheduler/internal/integrations/notifier"
	"github.com/m04kA/SMC-BayScheduler/internal/schedule"
	"github.com/m04kA/SMC-BayScheduler/internal/service/bookings/models"
	"github.com/m04kA/SMC-BayScheduler/internal/service/planner"
	"github.com/m04kA/SMC-BayScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-BayScheduler/pkg/logger"
	"github.com/m04kA/SMC-BayScheduler/pkg/ptr"
	"github.com/m04kA/SMC-BayScheduler/pkg/txmanager"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByLocation(ctx context.Context, filter domain.LocationBookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error {
	return m.Called(ctx, id, status, reason).Error(0)
}

func (m *MockBookingRepository) Reschedule(ctx context.Context, id int64, bookingDate, startAt time.Time) error {
	return m.Called(ctx, id, bookingDate, startAt).Error(0)
}

type MockPlanner struct {
	mock.Mock
}

func (m *MockPlanner) Reserve(ctx context.Context, req planner.SlotRequest) (*planner.Reservation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*planner.Reservation), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyMemberAsync(userID int64, msg notifier.Message) {
	m.Called(userID, msg)
}

// inlineTx выполняет функцию без настоящей транзакции
type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
func (inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (inlineTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(t *testing.T) (*Service, *MockBookingRepository, *MockPlanner, *MockNotifier) {
	zone := schedule.NewCivilZone(-3)

	repo := new(MockBookingRepository)
	pl := new(MockPlanner)
	n := new(MockNotifier)
	return NewService(repo, pl, inlineTx{}, n, zone, nil, logger.NewNop()), repo, pl, n
}

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID:          42,
		UserID:      5,
		LocationID:  7,
		VehicleID:   11,
		BookingDate: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		StartAt:     time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC), // 09:00 по времени точки
		Status:      domain.StatusConfirmed,
		Services: []domain.ServiceItem{
			{ID: 1, Name: "Oil change", AverageDuration: "00:30:00", Price: ptr.Ptr(80.0)},
			{ID: 2, Name: "Alignment", AverageDuration: "00:45:00", Price: ptr.Ptr(120.0)},
		},
	}
}

func TestGetByID(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		repo.On("GetByID", mock.Anything, int64(42)).Return(sampleBooking(), nil)

		resp, err := svc.GetByID(context.Background(), 42, models.Actor{UserID: 5})

		require.NoError(t, err)
		assert.Equal(t, "09:00", resp.StartTime)
		assert.Equal(t, "2025-03-12", resp.BookingDate)
		assert.Equal(t, 75, resp.DurationMinutes)
		assert.Equal(t, 200.0, resp.TotalPrice)
		assert.Len(t, resp.Services, 2)
	})

	t.Run("staff", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		repo.On("GetByID", mock.Anything, int64(42)).Return(sampleBooking(), nil)

		_, err := svc.GetByID(context.Background(), 42, models.Actor{UserID: 99, IsStaff: true})
		assert.NoError(t, err)
	})

	t.Run("stranger", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		repo.On("GetByID", mock.Anything, int64(42)).Return(sampleBooking(), nil)

		_, err := svc.GetByID(context.Background(), 42, models.Actor{UserID: 99})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		repo.On("GetByID", mock.Anything, int64(42)).Return(nil, bookingRepo.ErrBookingNotFound)

		_, err := svc.GetByID(context.Background(), 42, models.Actor{UserID: 5})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		repo.On("GetByID", mock.Anything, int64(42)).Return(nil, errors.New("conn reset"))

		_, err := svc.GetByID(context.Background(), 42, models.Actor{UserID: 5})
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestCancel(t *testing.T) {
	t.Run("owner cancels", func(t *testing.T) {
		svc, repo, _, n := newTestService(t)
		repo.On("GetByID", mock.Anything, int64(42)).Return(sampleBooking(), nil)
		repo.On("Cancel", mock.Anything, int64(42), domain.StatusCancelledByUser, "sick").Return(nil)
		n.On("NotifyMemberAsync", int64(5), notifier.BookingCancelled(42, false, "sick")).Once()

		err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
			Actor:              models.Actor{UserID: 5},
			CancellationReason: "sick",
		})

		require.NoError(t, err)
		n.AssertExpectations(t)
	})

	t.Run("staff cancels", func(t *testing.T) {
		svc, repo, _, n := newTestService(t)
		repo.On("GetByID", mock.Anything, int64(42)).Return(sampleBooking(), nil)
		repo.On("Cancel", mock.Anything, int64(42), domain.StatusCancelledByLocation, "").Return(nil)
		n.On("NotifyMemberAsync", int64(5), notifier.BookingCancelled(42, true, "")).Once()

		err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
			Actor: models.Actor{UserID: 99, IsStaff: true},
		})

		require.NoError(t, err)
		n.AssertExpectations(t)
	})

	t.Run("stranger", func(t *testing.T) {
		svc, repo, _, n := newTestService(t)
		repo.On("GetByID", mock.Anything, int64(42)).Return(sampleBooking(), nil)

		err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{Actor: models.Actor{UserID: 99}})

		assert.ErrorIs(t, err, ErrAccessDenied)
		repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		n.AssertNotCalled(t, "NotifyMemberAsync", mock.Anything, mock.Anything)
	})

	t.Run("already in progress", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		b := sampleBooking()
		b.Status = domain.StatusInProgress
		repo.On("GetByID", mock.Anything, int64(42)).Return(b, nil)

		err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{Actor: models.Actor{UserID: 5}})

		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("reason too long", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)

		err := svc.Cancel(context.Background(), 42, &models.CancelBookingRequest{
			Actor:              models.Actor{UserID: 5},
			CancellationReason: string(make([]byte, domain.MaxCancellationReasonLength+1)),
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestReschedule(t *testing.T) {
	newDate := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)
	newStart := time.Date(2025, 3, 13, 17, 30, 0, 0, time.UTC)

	t.Run("moved", func(t *testing.T) {
		svc, repo, pl, n := newTestService(t)
		repo.On("GetByID", mock.Anything, int64(42)).Return(sampleBooking(), nil)
		pl.On("Reserve", mock.Anything, planner.SlotRequest{
			LocationID:       7,
			Date:             "2025-03-13",
			StartTime:        "14:30",
			DurationMinutes:  75,
			ExcludeBookingID: ptr.Ptr(int64(42)),
		}).Return(&planner.Reservation{BookingDate: newDate, StartAt: newStart}, nil)
		repo.On("Reschedule", mock.Anything, int64(42), newDate, newStart).Return(nil)
		n.On("NotifyMemberAsync", int64(5), notifier.BookingRescheduled(42, "2025-03-13", "14:30")).Once()

		resp, err := svc.Reschedule(context.Background(), 42, &models.RescheduleBookingRequest{
			Actor:     models.Actor{UserID: 5},
			Date:      "2025-03-13",
			StartTime: "14:30",
		})

		require.NoError(t, err)
		assert.Equal(t, "2025-03-13", resp.BookingDate)
		assert.Equal(t, "14:30", resp.StartTime)
		n.AssertExpectations(t)
	})

	t.Run("slot taken", func(t *testing.T) {
		svc, repo, pl, n := newTestService(t)
		repo.On("GetByID", mock.Anything, int64(42)).Return(sampleBooking(), nil)
		pl.On("Reserve", mock.Anything, mock.Anything).Return(nil, planner.ErrSlotNotAvailable)

		_, err := svc.Reschedule(context.Background(), 42, &models.RescheduleBookingRequest{
			Actor:     models.Actor{UserID: 5},
			Date:      "2025-03-13",
			StartTime: "14:30",
		})

		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		repo.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		n.AssertNotCalled(t, "NotifyMemberAsync", mock.Anything, mock.Anything)
	})

	t.Run("planner rejections", func(t *testing.T) {
		cases := map[error]error{
			planner.ErrOutsideOperatingHours: ErrOutsideOperatingHours,
			planner.ErrTooLateToBook:         ErrTooLateToBook,
			planner.ErrInvalidConfiguration:  ErrInvalidConfiguration,
			planner.ErrLocationNotFound:      ErrLocationNotFound,
			planner.ErrInternal:              ErrInternal,
		}
		for plannerErr, want := range cases {
			svc, repo, pl, _ := newTestService(t)
			repo.On("GetByID", mock.Anything, int64(42)).Return(sampleBooking(), nil)
			pl.On("Reserve", mock.Anything, mock.Anything).Return(nil, plannerErr)

			_, err := svc.Reschedule(context.Background(), 42, &models.RescheduleBookingRequest{
				Actor:     models.Actor{UserID: 5},
				Date:      "2025-03-13",
				StartTime: "14:30",
			})
			assert.ErrorIs(t, err, want)
		}
	})

	t.Run("completed booking", func(t *testing.T) {
		svc, repo, pl, _ := newTestService(t)
		b := sampleBooking()
		b.Status = domain.StatusCompleted
		repo.On("GetByID", mock.Anything, int64(42)).Return(b, nil)

		_, err := svc.Reschedule(context.Background(), 42, &models.RescheduleBookingRequest{
			Actor:     models.Actor{UserID: 5},
			Date:      "2025-03-13",
			StartTime: "14:30",
		})

		assert.ErrorIs(t, err, ErrCannotReschedule)
		pl.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
	})

	t.Run("bad start time", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)

		_, err := svc.Reschedule(context.Background(), 42, &models.RescheduleBookingRequest{
			Actor:     models.Actor{UserID: 5},
			Date:      "2025-03-13",
			StartTime: "25:00",
		})

		assert.ErrorIs(t, err, ErrInvalidInput)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestListByLocation(t *testing.T) {
	t.Run("staff", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		repo.On("ListByLocation", mock.Anything, mock.MatchedBy(func(f domain.LocationBookingsFilter) bool {
			return f.LocationID == 7 && f.Date != nil && f.Date.Format(domain.DateFormat) == "2025-03-12" && !f.IncludeInactive
		})).Return([]*domain.Booking{sampleBooking()}, nil)

		resp, err := svc.ListByLocation(context.Background(), &models.GetLocationBookingsRequest{
			Actor:      models.Actor{UserID: 99, IsStaff: true},
			LocationID: 7,
			Date:       "2025-03-12",
		})

		require.NoError(t, err)
		require.Len(t, resp.Bookings, 1)
		assert.Equal(t, int64(42), resp.Bookings[0].ID)
	})

	t.Run("member is denied", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		_, err := svc.ListByLocation(context.Background(), &models.GetLocationBookingsRequest{
			Actor:      models.Actor{UserID: 5},
			LocationID: 7,
			Date:       "2025-03-12",
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		_, err := svc.ListByLocation(context.Background(), &models.GetLocationBookingsRequest{
			Actor:      models.Actor{UserID: 99, IsStaff: true},
			LocationID: 7,
			Date:       "2025-03-12",
			Status:     ptr.Ptr("lost"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("invalid date", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		_, err := svc.ListByLocation(context.Background(), &models.GetLocationBookingsRequest{
			Actor:      models.Actor{UserID: 99, IsStaff: true},
			LocationID: 7,
			Date:       "12/03/2025",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestGetUserBookings(t *testing.T) {
	t.Run("all statuses", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		repo.On("ListByUser", mock.Anything, int64(5), (*domain.BookingStatus)(nil)).
			Return([]*domain.Booking{sampleBooking()}, nil)

		resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 5})

		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 1)
	})

	t.Run("by status", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		repo.On("ListByUser", mock.Anything, int64(5), ptr.Ptr(domain.StatusCancelledByUser)).
			Return([]*domain.Booking{}, nil)

		resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
			UserID: 5,
			Status: ptr.Ptr("cancelled_by_user"),
		})

		require.NoError(t, err)
		assert.Empty(t, resp.Bookings)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
			UserID: 5,
			Status: ptr.Ptr("archived"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestReschedule_ConcurrentCommitConflict(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := new(MockBookingRepository)
	pl := new(MockPlanner)
	n := new(MockNotifier)
	svc := NewService(repo, pl, txmanager.NewTransactionManager(dbmetrics.Wrap(db, nil)),
		n, schedule.NewCivilZone(-3), nil, logger.NewNop())

	newDate := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)
	newStart := time.Date(2025, 3, 13, 17, 30, 0, 0, time.UTC)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})

	repo.On("GetByID", mock.Anything, int64(42)).Return(sampleBooking(), nil)
	pl.On("Reserve", mock.Anything, mock.Anything).
		Return(&planner.Reservation{BookingDate: newDate, StartAt: newStart}, nil)
	repo.On("Reschedule", mock.Anything, int64(42), newDate, newStart).Return(nil)

	_, err = svc.Reschedule(context.Background(), 42, &models.RescheduleBookingRequest{
		Actor:     models.Actor{UserID: 5},
		Date:      "2025-03-13",
		StartTime: "14:30",
	})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.NotErrorIs(t, err, ErrInternal)
	n.AssertNotCalled(t, "NotifyMemberAsync", mock.Anything, mock.Anything)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
