package booking_transition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// mutateFunc проверяет предусловия конкретного перехода и меняет поля бронирования.
// Статус и updated_at выставляются общим кодом.
type mutateFunc func(booking *domain.Booking, now time.Time) error

// UseCase use case переходов жизненного цикла бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	txManager        TransactionManager
	notifier         Notifier
	metrics          MetricsRecorder
	alternativeTTL   time.Duration
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
// alternativeTTL - срок ответа на альтернативу, если исполнитель его не указал.
// Если timeProvider = nil, используется системное время.
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	txManager TransactionManager,
	notifier Notifier,
	metrics MetricsRecorder,
	alternativeTTL time.Duration,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		txManager:        txManager,
		notifier:         notifier,
		metrics:          metrics,
		alternativeTTL:   alternativeTTL,
		timeProvider:     timeProvider,
		logger:           logger,
	}
}

// Accept подтверждает ожидающее бронирование.
// Проверка пересечений и запись выполняются в одной сериализуемой транзакции.
func (uc *UseCase) Accept(ctx context.Context, bookingID int64, actor domain.Actor, req *AcceptRequest) (*domain.Booking, error) {
	if err := validateNotes(req.VendorNotes); err != nil {
		return nil, uc.fail(domain.ActionAccept, err)
	}

	return uc.transition(ctx, domain.ActionAccept, bookingID, actor, func(b *domain.Booking, _ time.Time) error {
		if req.VendorNotes != nil {
			b.VendorNotes = req.VendorNotes
		}
		return nil
	})
}

// Reject отклоняет ожидающее бронирование
func (uc *UseCase) Reject(ctx context.Context, bookingID int64, actor domain.Actor, req *RejectRequest) (*domain.Booking, error) {
	if err := validateReason(req.Reason); err != nil {
		return nil, uc.fail(domain.ActionReject, err)
	}

	return uc.transition(ctx, domain.ActionReject, bookingID, actor, func(b *domain.Booking, _ time.Time) error {
		b.RejectReason = req.Reason
		return nil
	})
}

// ProposeAlternative предлагает клиенту другое время
func (uc *UseCase) ProposeAlternative(ctx context.Context, bookingID int64, actor domain.Actor, req *ProposeAlternativeRequest) (*domain.Booking, error) {
	if err := validateAlternative(req, uc.timeProvider.Now()); err != nil {
		return nil, uc.fail(domain.ActionProposeAlternative, err)
	}

	return uc.transition(ctx, domain.ActionProposeAlternative, bookingID, actor, func(b *domain.Booking, now time.Time) error {
		expiresAt, err := alternativeExpiry(req, now, uc.alternativeTTL)
		if err != nil {
			return err
		}
		b.AlternativeStartTime = ptr.Ptr(req.StartTime)
		b.AlternativeEndTime = ptr.Ptr(req.EndTime)
		b.AlternativeExpiresAt = ptr.Ptr(expiresAt)
		if req.VendorNotes != nil {
			b.VendorNotes = req.VendorNotes
		}
		return nil
	})
}

// AcceptAlternative принимает предложенное время: окно бронирования заменяется альтернативой.
// Цена, зафиксированная при запросе, не пересчитывается.
func (uc *UseCase) AcceptAlternative(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error) {
	return uc.transition(ctx, domain.ActionAcceptAlternative, bookingID, actor, func(b *domain.Booking, now time.Time) error {
		if !b.HasAlternative() {
			return fmt.Errorf("%w: booking id=%d has no alternative", ErrInternal, b.ID)
		}
		if b.IsAlternativeExpired(now) {
			return ErrAlternativeExpired
		}
		b.RequestedStartTime = *b.AlternativeStartTime
		b.RequestedEndTime = *b.AlternativeEndTime
		b.ClearAlternative()
		return nil
	})
}

// Cancel отменяет бронирование; причина обязательна.
// Освободившееся время не передаётся автоматически другим ожидающим запросам.
func (uc *UseCase) Cancel(ctx context.Context, bookingID int64, actor domain.Actor, req *CancelRequest) (*domain.Booking, error) {
	if err := validateCancel(req); err != nil {
		return nil, uc.fail(domain.ActionCancel, err)
	}

	return uc.transition(ctx, domain.ActionCancel, bookingID, actor, func(b *domain.Booking, now time.Time) error {
		b.CancelReason = ptr.Ptr(req.Reason)
		b.CancelledBy = ptr.Ptr(actor.Role)
		b.CancelledAt = ptr.Ptr(now)
		b.ClearAlternative()
		return nil
	})
}

// Start переводит бронирование в работу; до начала окна - только с override
func (uc *UseCase) Start(ctx context.Context, bookingID int64, actor domain.Actor, req *StartRequest) (*domain.Booking, error) {
	return uc.transition(ctx, domain.ActionStart, bookingID, actor, func(b *domain.Booking, now time.Time) error {
		if now.Before(b.RequestedStartTime) && !req.Override {
			return fmt.Errorf("%w: starts at %s", ErrTooEarlyToStart, b.RequestedStartTime.Format(time.RFC3339))
		}
		b.StartedAt = ptr.Ptr(now)
		return nil
	})
}

// Complete завершает оказание услуги
func (uc *UseCase) Complete(ctx context.Context, bookingID int64, actor domain.Actor) (*domain.Booking, error) {
	return uc.transition(ctx, domain.ActionComplete, bookingID, actor, func(b *domain.Booking, now time.Time) error {
		b.CompletedAt = ptr.Ptr(now)
		return nil
	})
}

// transition выполняет общий сценарий перехода:
// чтение с блокировкой, авторизация, проверка статуса, предусловия,
// проверка пересечений для занимающих статусов и запись с compare-and-set по статусу.
// Уведомления отправляются после коммита.
func (uc *UseCase) transition(ctx context.Context, action domain.Action, bookingID int64, actor domain.Actor, mutate mutateFunc) (*domain.Booking, error) {
	uc.logger.Info("%s: booking id=%d by %s=%d", action, bookingID, actor.Role, actor.UserID)

	now := uc.timeProvider.Now()

	var result *domain.Booking

	run := uc.txManager.Do
	if occupiesTime(action) {
		run = uc.txManager.DoSerializable
	}

	err := run(ctx, func(txCtx context.Context) error {
		// 1. Получаем бронирование с блокировкой строки
		booking, err := uc.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return internalError("failed to get booking", err)
		}

		// 2. Проверяем права до проверки статуса
		if err := domain.Authorize(action, actor, booking); err != nil {
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}

		// 3. Проверяем допустимость перехода
		from := booking.Status
		to, err := domain.NextStatus(from, action)
		if err != nil {
			return err
		}

		// 4. Предусловия конкретного перехода
		if err := mutate(booking, now); err != nil {
			return err
		}

		// 5. Окно, начинающее занимать время, не должно пересекаться с уже занятым
		if to.IsOccupying() && !from.IsOccupying() {
			if err := uc.checkOverlap(txCtx, booking); err != nil {
				return err
			}
		}

		// 6. Записываем, только если статус не изменился с момента чтения
		booking.Status = to
		booking.UpdatedAt = now
		if err := uc.bookingRepo.ApplyTransition(txCtx, booking, from); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusChanged) || errors.Is(err, bookingRepo.ErrOverlap) {
				return fmt.Errorf("%w: %v", ErrConflict, err)
			}
			return internalError("failed to apply transition", err)
		}

		result = booking
		return nil
	})

	if err != nil {
		// Повторы сериализуемой транзакции исчерпаны
		if txmanager.IsRetryable(err) {
			err = fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, uc.fail(action, err)
	}

	uc.metrics.RecordTransition(string(action), nil)
	uc.logger.Info("%s: booking id=%d is now %s", action, result.ID, result.Status)

	uc.notifier.BookingChanged(ctx, action, result, actor, now)

	return result, nil
}

// checkOverlap ищет занимающие бронирования, пересекающиеся с окном booking.
// Внутри транзакции найденные строки блокируются.
func (uc *UseCase) checkOverlap(ctx context.Context, booking *domain.Booking) error {
	settings, err := uc.availabilityRepo.GetSettings(ctx, booking.VendorID)
	if err != nil {
		if !errors.Is(err, availabilityRepo.ErrSettingsNotFound) {
			return internalError("failed to get settings", err)
		}
		settings = domain.DefaultAvailabilitySettings(booking.VendorID)
	}

	overlapping, err := uc.bookingRepo.FindOverlapping(ctx, domain.OverlapFilter{
		VendorID:  booking.VendorID,
		ServiceID: settings.ConflictServiceID(booking.ServiceID),
		Start:     booking.RequestedStartTime,
		End:       booking.RequestedEndTime,
		Statuses:  domain.OccupyingStatuses,
		ExcludeID: ptr.Ptr(booking.ID),
	})
	if err != nil {
		return internalError("failed to find overlapping bookings", err)
	}

	if len(overlapping) > 0 {
		return fmt.Errorf("%w: window overlaps booking id=%d (%s)", ErrConflict, overlapping[0].ID, overlapping[0].Status)
	}

	return nil
}

// fail логирует и учитывает неудачный переход
func (uc *UseCase) fail(action domain.Action, err error) error {
	uc.metrics.RecordTransition(string(action), err)

	if errors.Is(err, ErrInternal) {
		uc.logger.Error("%s: %v", action, err)
	} else {
		uc.logger.Warn("%s: %v", action, err)
	}

	return err
}

// occupiesTime возвращает true для переходов, после которых бронирование начинает занимать время исполнителя
func occupiesTime(action domain.Action) bool {
	t, ok := domain.LookupTransition(action)
	if !ok || !t.To.IsOccupying() {
		return false
	}
	for _, from := range t.From {
		if from.IsOccupying() {
			return false
		}
	}
	return true
}

// internalError оборачивает ошибку хранилища, сохраняя исходную ошибку драйвера для повтора транзакции
func internalError(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, step, err)
}
