package expire_alternatives

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// DefaultBatchSize размер пачки по умолчанию
const DefaultBatchSize = 100

// UseCase use case истечения предложенных альтернатив.
// Повторный запуск с тем же временем ничего не меняет.
type UseCase struct {
	bookingRepo  BookingRepository
	notifier     Notifier
	metrics      MetricsRecorder
	batchSize    int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// Если timeProvider = nil, используется системное время.
func NewUseCase(
	bookingRepo BookingRepository,
	notifier Notifier,
	metrics MetricsRecorder,
	batchSize int,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		metrics:      metrics,
		batchSize:    batchSize,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute переводит все альтернативы с истекшим сроком ответа в alternative_expired.
// Пачки обрабатываются, пока очередная не окажется неполной.
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	now := uc.timeProvider.Now()
	actor := domain.SystemActor()

	resp := &Response{
		BookingIDs: make([]int64, 0),
		RanAt:      now,
	}

	for {
		if err := ctx.Err(); err != nil {
			return uc.finish(resp, fmt.Errorf("%w: Execute - context: %v", ErrInternal, err))
		}

		expired, err := uc.bookingRepo.ExpireAlternatives(ctx, now, uc.batchSize)
		if err != nil {
			return uc.finish(resp, fmt.Errorf("%w: Execute - repository error: %v", ErrInternal, err))
		}

		for _, booking := range expired {
			resp.BookingIDs = append(resp.BookingIDs, booking.ID)
			uc.notifier.BookingChanged(ctx, domain.ActionExpireAlternative, booking, actor, now)
		}
		resp.Expired += len(expired)

		if len(expired) < uc.batchSize {
			break
		}
	}

	return uc.finish(resp, nil)
}

// finish учитывает результат прохода; уже истекшие бронирования учитываются и при ошибке
func (uc *UseCase) finish(resp *Response, err error) (*Response, error) {
	uc.metrics.RecordExpired(resp.Expired)

	if err != nil {
		uc.logger.Error("ExpireAlternatives: failed after %d expired: %v", resp.Expired, err)
		return resp, err
	}

	if resp.Expired > 0 {
		uc.logger.Info("ExpireAlternatives: expired %d alternatives", resp.Expired)
	}
	return resp, nil
}
