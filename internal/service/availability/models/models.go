package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модели

// UpsertSettingsRequest запрос на полную замену настроек доступности.
// Незаданные поля принимают значения по умолчанию.
type UpsertSettingsRequest struct {
	DefaultWorkingHours   domain.WeeklySchedule `json:"defaultWorkingHours"`
	Timezone              *string               `json:"timezone,omitempty"`
	MinBookingNoticeHours *int                  `json:"minBookingNoticeHours,omitempty"`
	MaxBookingAdvanceDays *int                  `json:"maxBookingAdvanceDays,omitempty"`
	ConflictScope         *domain.ConflictScope `json:"conflictScope,omitempty"`
}

// CreateBlockRequest запрос на создание блокировки календаря
type CreateBlockRequest struct {
	ServiceID *int64    `json:"serviceId,omitempty"` // NULL = для всех услуг
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Reason    *string   `json:"reason,omitempty"`
}

// UpdateBlockRequest запрос на частичное обновление блокировки
// Обновляются только переданные поля
type UpdateBlockRequest struct {
	ServiceID      *int64     `json:"serviceId,omitempty"`
	ClearServiceID bool       `json:"clearServiceId,omitempty"` // сделать блокировку общей для всех услуг
	StartTime      *time.Time `json:"startTime,omitempty"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	Reason         *string    `json:"reason,omitempty"`
}

// ListBlocksRequest запрос на список блокировок в диапазоне [From, To)
type ListBlocksRequest struct {
	VendorID  int64
	From      time.Time
	To        time.Time
	ServiceID *int64
}

// Response модели

// SettingsResponse ответ с настройками доступности
type SettingsResponse struct {
	VendorID              int64                 `json:"vendorId"`
	DefaultWorkingHours   domain.WeeklySchedule `json:"defaultWorkingHours"`
	Timezone              string                `json:"timezone"`
	MinBookingNoticeHours int                   `json:"minBookingNoticeHours"`
	MaxBookingAdvanceDays int                   `json:"maxBookingAdvanceDays"`
	ConflictScope         domain.ConflictScope  `json:"conflictScope"`
	IsDefault             bool                  `json:"isDefault"` // настройки ещё не сохранялись
	CreatedAt             *time.Time            `json:"createdAt,omitempty"`
	UpdatedAt             *time.Time            `json:"updatedAt,omitempty"`
}

// BlockResponse ответ с данными блокировки
type BlockResponse struct {
	ID        int64     `json:"id"`
	VendorID  int64     `json:"vendorId"`
	ServiceID *int64    `json:"serviceId,omitempty"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BlockListResponse ответ со списком блокировок
type BlockListResponse struct {
	Blocks []BlockResponse `json:"blocks"`
}

// Методы конвертации

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.AvailabilitySettings, isDefault bool) *SettingsResponse {
	if s == nil {
		return nil
	}

	resp := &SettingsResponse{
		VendorID:              s.VendorID,
		DefaultWorkingHours:   s.WorkingHours,
		Timezone:              s.Timezone,
		MinBookingNoticeHours: s.MinBookingNoticeHours,
		MaxBookingAdvanceDays: s.MaxBookingAdvanceDays,
		ConflictScope:         s.ConflictScope,
		IsDefault:             isDefault,
	}

	if resp.DefaultWorkingHours == nil {
		resp.DefaultWorkingHours = domain.WeeklySchedule{}
	}

	if !isDefault {
		resp.CreatedAt = &s.CreatedAt
		resp.UpdatedAt = &s.UpdatedAt
	}

	return resp
}

// FromDomainBlock конвертирует domain модель в DTO
func FromDomainBlock(b *domain.CalendarBlock) *BlockResponse {
	if b == nil {
		return nil
	}

	return &BlockResponse{
		ID:        b.ID,
		VendorID:  b.VendorID,
		ServiceID: b.ServiceID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// FromDomainBlockList конвертирует список domain моделей в DTO
func FromDomainBlockList(blocks []*domain.CalendarBlock) *BlockListResponse {
	resp := &BlockListResponse{
		Blocks: make([]BlockResponse, 0, len(blocks)),
	}

	for _, block := range blocks {
		if blockResp := FromDomainBlock(block); blockResp != nil {
			resp.Blocks = append(resp.Blocks, *blockResp)
		}
	}

	return resp
}

// ToDomainSettings конвертирует запрос в domain модель, подставляя значения по умолчанию
func (r *UpsertSettingsRequest) ToDomainSettings(vendorID int64) *domain.AvailabilitySettings {
	settings := domain.DefaultAvailabilitySettings(vendorID)

	if r.DefaultWorkingHours != nil {
		settings.WorkingHours = r.DefaultWorkingHours
	}
	if r.Timezone != nil {
		settings.Timezone = *r.Timezone
	}
	if r.MinBookingNoticeHours != nil {
		settings.MinBookingNoticeHours = *r.MinBookingNoticeHours
	}
	if r.MaxBookingAdvanceDays != nil {
		settings.MaxBookingAdvanceDays = *r.MaxBookingAdvanceDays
	}
	if r.ConflictScope != nil {
		settings.ConflictScope = *r.ConflictScope
	}

	return settings
}

// ToDomainBlock конвертирует CreateBlockRequest в domain модель
func (r *CreateBlockRequest) ToDomainBlock(vendorID int64) *domain.CalendarBlock {
	return &domain.CalendarBlock{
		VendorID:  vendorID,
		ServiceID: r.ServiceID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Reason:    r.Reason,
	}
}

// ToPatch конвертирует UpdateBlockRequest в patch блокировки
func (r *UpdateBlockRequest) ToPatch() domain.CalendarBlockPatch {
	return domain.CalendarBlockPatch{
		ServiceID:      r.ServiceID,
		ClearServiceID: r.ClearServiceID,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		Reason:         r.Reason,
	}
}
