package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	catalogClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

// maxBlocksRangeDays ограничивает диапазон выборки блокировок
const maxBlocksRangeDays = 366

// Service сервис настроек доступности и блокировок календаря
type Service struct {
	repo          AvailabilityRepository
	catalogClient CatalogClient
	logger        Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	repo AvailabilityRepository,
	catalogClient CatalogClient,
	logger Logger,
) *Service {
	return &Service{
		repo:          repo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// GetSettings получает настройки доступности исполнителя
// Публичный метод: если настройки не сохранялись, возвращаются значения по умолчанию
func (s *Service) GetSettings(ctx context.Context, vendorID int64) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: fetching settings for vendor=%d", vendorID)

	settings, err := s.repo.GetSettings(ctx, vendorID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrSettingsNotFound) {
			s.logger.Info("GetSettings: no settings for vendor=%d, returning defaults", vendorID)
			return models.FromDomainSettings(domain.DefaultAvailabilitySettings(vendorID), true), nil
		}
		s.logger.Error("GetSettings: repository error for vendor=%d: %v", vendorID, err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(settings, false), nil
}

// UpsertSettings создает или полностью заменяет настройки доступности
// Доступно только самому исполнителю
func (s *Service) UpsertSettings(ctx context.Context, actor domain.Actor, vendorID int64, req *models.UpsertSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpsertSettings: saving settings for vendor=%d by %s=%d", vendorID, actor.Role, actor.UserID)

	// 1. Проверяем права доступа
	if !isVendor(actor, vendorID) {
		s.logger.Warn("UpsertSettings: %s=%d is not vendor=%d", actor.Role, actor.UserID, vendorID)
		return nil, ErrAccessDenied
	}

	// 2. Валидируем настройки
	settings := req.ToDomainSettings(vendorID)
	if err := settings.Validate(); err != nil {
		s.logger.Warn("UpsertSettings: validation failed for vendor=%d: %v", vendorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Сохраняем
	saved, err := s.repo.UpsertSettings(ctx, settings)
	if err != nil {
		s.logger.Error("UpsertSettings: repository error for vendor=%d: %v", vendorID, err)
		return nil, fmt.Errorf("%w: UpsertSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertSettings: successfully saved settings for vendor=%d", vendorID)
	return models.FromDomainSettings(saved, false), nil
}

// ListBlocks возвращает блокировки исполнителя, пересекающиеся с [From, To)
// Доступно только самому исполнителю
func (s *Service) ListBlocks(ctx context.Context, actor domain.Actor, req *models.ListBlocksRequest) (*models.BlockListResponse, error) {
	s.logger.Info("ListBlocks: fetching blocks for vendor=%d, from=%s, to=%s, service=%v",
		req.VendorID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat), req.ServiceID)

	if !isVendor(actor, req.VendorID) {
		s.logger.Warn("ListBlocks: %s=%d is not vendor=%d", actor.Role, actor.UserID, req.VendorID)
		return nil, ErrAccessDenied
	}

	if !req.To.After(req.From) {
		return nil, fmt.Errorf("%w: 'to' must be after 'from'", ErrInvalidInput)
	}
	if req.To.Sub(req.From) > maxBlocksRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range must not exceed %d days", ErrInvalidInput, maxBlocksRangeDays)
	}

	blocks, err := s.repo.ListBlocks(ctx, req.VendorID, req.From, req.To, req.ServiceID)
	if err != nil {
		s.logger.Error("ListBlocks: repository error for vendor=%d: %v", req.VendorID, err)
		return nil, fmt.Errorf("%w: ListBlocks - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBlocks: successfully fetched %d blocks for vendor=%d", len(blocks), req.VendorID)
	return models.FromDomainBlockList(blocks), nil
}

// CreateBlock создает блокировку календаря
// Доступно только самому исполнителю; услуга, если указана, должна принадлежать ему
func (s *Service) CreateBlock(ctx context.Context, actor domain.Actor, vendorID int64, req *models.CreateBlockRequest) (*models.BlockResponse, error) {
	s.logger.Info("CreateBlock: creating block for vendor=%d, service=%v by %s=%d",
		vendorID, req.ServiceID, actor.Role, actor.UserID)

	// 1. Проверяем права доступа
	if !isVendor(actor, vendorID) {
		s.logger.Warn("CreateBlock: %s=%d is not vendor=%d", actor.Role, actor.UserID, vendorID)
		return nil, ErrAccessDenied
	}

	// 2. Валидируем окно блокировки
	block := req.ToDomainBlock(vendorID)
	if err := block.Validate(); err != nil {
		s.logger.Warn("CreateBlock: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Проверяем услугу в каталоге
	if block.ServiceID != nil {
		if err := s.checkServiceOwner(ctx, "CreateBlock", *block.ServiceID, vendorID); err != nil {
			return nil, err
		}
	}

	// 4. Создаем блокировку
	created, err := s.repo.CreateBlock(ctx, block)
	if err != nil {
		s.logger.Error("CreateBlock: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBlock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlock: successfully created block id=%d", created.ID)
	return models.FromDomainBlock(created), nil
}

// UpdateBlock частично обновляет блокировку
// Доступно только исполнителю, которому принадлежит блокировка
func (s *Service) UpdateBlock(ctx context.Context, actor domain.Actor, vendorID, blockID int64, req *models.UpdateBlockRequest) (*models.BlockResponse, error) {
	s.logger.Info("UpdateBlock: updating block id=%d of vendor=%d by %s=%d", blockID, vendorID, actor.Role, actor.UserID)

	// 1. Получаем блокировку и проверяем права
	block, err := s.getOwnedBlock(ctx, "UpdateBlock", actor, vendorID, blockID)
	if err != nil {
		return nil, err
	}

	// 2. Применяем patch и валидируем результат
	req.ToPatch().Apply(block)
	if err := block.Validate(); err != nil {
		s.logger.Warn("UpdateBlock: validation failed for block id=%d: %v", blockID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Проверяем новую услугу в каталоге
	if req.ServiceID != nil && !req.ClearServiceID {
		if err := s.checkServiceOwner(ctx, "UpdateBlock", *req.ServiceID, vendorID); err != nil {
			return nil, err
		}
	}

	// 4. Сохраняем
	updated, err := s.repo.UpdateBlock(ctx, block)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrBlockNotFound) {
			s.logger.Warn("UpdateBlock: block id=%d not found during update", blockID)
			return nil, ErrBlockNotFound
		}
		s.logger.Error("UpdateBlock: repository error for block id=%d: %v", blockID, err)
		return nil, fmt.Errorf("%w: UpdateBlock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateBlock: successfully updated block id=%d", blockID)
	return models.FromDomainBlock(updated), nil
}

// DeleteBlock удаляет блокировку
// Доступно только исполнителю, которому принадлежит блокировка
func (s *Service) DeleteBlock(ctx context.Context, actor domain.Actor, vendorID, blockID int64) error {
	s.logger.Info("DeleteBlock: deleting block id=%d of vendor=%d by %s=%d", blockID, vendorID, actor.Role, actor.UserID)

	if _, err := s.getOwnedBlock(ctx, "DeleteBlock", actor, vendorID, blockID); err != nil {
		return err
	}

	if err := s.repo.DeleteBlock(ctx, blockID, vendorID); err != nil {
		if errors.Is(err, availabilityRepo.ErrBlockNotFound) {
			s.logger.Warn("DeleteBlock: block id=%d not found during deletion", blockID)
			return ErrBlockNotFound
		}
		s.logger.Error("DeleteBlock: repository error for block id=%d: %v", blockID, err)
		return fmt.Errorf("%w: DeleteBlock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteBlock: successfully deleted block id=%d", blockID)
	return nil
}

// Вспомогательные методы

// isVendor проверяет, что действующее лицо - сам исполнитель
func isVendor(actor domain.Actor, vendorID int64) bool {
	return actor.Role == domain.RoleVendor && actor.UserID == vendorID
}

// getOwnedBlock получает блокировку и проверяет, что она принадлежит действующему исполнителю
func (s *Service) getOwnedBlock(ctx context.Context, method string, actor domain.Actor, vendorID, blockID int64) (*domain.CalendarBlock, error) {
	if !isVendor(actor, vendorID) {
		s.logger.Warn("%s: %s=%d is not vendor=%d", method, actor.Role, actor.UserID, vendorID)
		return nil, ErrAccessDenied
	}

	block, err := s.repo.GetBlockByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrBlockNotFound) {
			s.logger.Warn("%s: block id=%d not found", method, blockID)
			return nil, ErrBlockNotFound
		}
		s.logger.Error("%s: repository error for block id=%d: %v", method, blockID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}

	if block.VendorID != vendorID {
		s.logger.Warn("%s: block id=%d belongs to vendor=%d, not vendor=%d", method, blockID, block.VendorID, vendorID)
		return nil, ErrAccessDenied
	}

	return block, nil
}

// checkServiceOwner проверяет, что услуга существует и принадлежит исполнителю
func (s *Service) checkServiceOwner(ctx context.Context, method string, serviceID, vendorID int64) error {
	service, err := s.catalogClient.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			s.logger.Warn("%s: service id=%d not found", method, serviceID)
			return ErrServiceNotFound
		}
		s.logger.Error("%s: failed to get service id=%d: %v", method, serviceID, err)
		return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if service.VendorID != vendorID {
		s.logger.Warn("%s: service id=%d belongs to vendor=%d, not vendor=%d", method, serviceID, service.VendorID, vendorID)
		return fmt.Errorf("%w: service %d does not belong to vendor %d", ErrInvalidInput, serviceID, vendorID)
	}

	return nil
}
