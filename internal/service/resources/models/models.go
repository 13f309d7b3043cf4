package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/pkg/types"
)

// Request модели

// CreateResourceRequest запрос на создание мастера
type CreateResourceRequest struct {
	Name         string          `json:"name"`
	Timezone     string          `json:"timezone,omitempty"` // IANA, пусто = UTC
	WorkingHours WorkingHoursDTO `json:"workingHours"`
	HourlyRate   *string         `json:"hourlyRate,omitempty"` // ставка мастера, пусто = базовая ставка студии
	Active       *bool           `json:"active,omitempty"`     // по умолчанию true
}

// UpdateWorkingHoursRequest запрос на замену недельного расписания мастера
type UpdateWorkingHoursRequest struct {
	WorkingHours WorkingHoursDTO `json:"workingHours"`
}

// DayScheduleDTO расписание на день в формате HH:MM
type DayScheduleDTO struct {
	IsOpen     bool    `json:"isOpen"`
	OpenTime   string  `json:"openTime,omitempty"`
	CloseTime  string  `json:"closeTime,omitempty"`
	BreakStart *string `json:"breakStart,omitempty"`
	BreakEnd   *string `json:"breakEnd,omitempty"`
}

// WorkingHoursDTO недельное расписание
type WorkingHoursDTO struct {
	Monday    DayScheduleDTO `json:"monday"`
	Tuesday   DayScheduleDTO `json:"tuesday"`
	Wednesday DayScheduleDTO `json:"wednesday"`
	Thursday  DayScheduleDTO `json:"thursday"`
	Friday    DayScheduleDTO `json:"friday"`
	Saturday  DayScheduleDTO `json:"saturday"`
	Sunday    DayScheduleDTO `json:"sunday"`
}

// Response модели

// ResourceResponse ответ с данными мастера
type ResourceResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Timezone     string          `json:"timezone"`
	WorkingHours WorkingHoursDTO `json:"workingHours"`
	HourlyRate   *string         `json:"hourlyRate,omitempty"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ResourceListResponse ответ со списком мастеров
type ResourceListResponse struct {
	Resources []ResourceResponse `json:"resources"`
}

// Методы конвертации

func (w WorkingHoursDTO) days() map[time.Weekday]DayScheduleDTO {
	return map[time.Weekday]DayScheduleDTO{
		time.Monday:    w.Monday,
		time.Tuesday:   w.Tuesday,
		time.Wednesday: w.Wednesday,
		time.Thursday:  w.Thursday,
		time.Friday:    w.Friday,
		time.Saturday:  w.Saturday,
		time.Sunday:    w.Sunday,
	}
}

// ToDomain конвертирует расписание в domain модель.
// Проверяется только формат времени, согласованность проверяет сервис.
func (w WorkingHoursDTO) ToDomain() (domain.WorkingHours, error) {
	var hours domain.WorkingHours
	for day, dto := range w.days() {
		schedule, err := dto.toDomain()
		if err != nil {
			return domain.WorkingHours{}, fmt.Errorf("%s: %w", day, err)
		}
		hours.Set(day, schedule)
	}
	return hours, nil
}

func (d DayScheduleDTO) toDomain() (domain.DaySchedule, error) {
	if !d.IsOpen {
		return domain.DaySchedule{}, nil
	}

	open, err := types.NewTimeStringFromString(d.OpenTime)
	if err != nil {
		return domain.DaySchedule{}, fmt.Errorf("openTime: %w", err)
	}
	closing, err := types.NewTimeStringFromString(d.CloseTime)
	if err != nil {
		return domain.DaySchedule{}, fmt.Errorf("closeTime: %w", err)
	}

	schedule := domain.DaySchedule{IsOpen: true, OpenTime: open, CloseTime: closing}
	if d.BreakStart != nil {
		start, err := types.NewTimeStringFromString(*d.BreakStart)
		if err != nil {
			return domain.DaySchedule{}, fmt.Errorf("breakStart: %w", err)
		}
		schedule.BreakStart = &start
	}
	if d.BreakEnd != nil {
		end, err := types.NewTimeStringFromString(*d.BreakEnd)
		if err != nil {
			return domain.DaySchedule{}, fmt.Errorf("breakEnd: %w", err)
		}
		schedule.BreakEnd = &end
	}
	return schedule, nil
}

// FromDomainWorkingHours конвертирует domain расписание в DTO
func FromDomainWorkingHours(w domain.WorkingHours) WorkingHoursDTO {
	return WorkingHoursDTO{
		Monday:    fromDomainDay(w.Monday),
		Tuesday:   fromDomainDay(w.Tuesday),
		Wednesday: fromDomainDay(w.Wednesday),
		Thursday:  fromDomainDay(w.Thursday),
		Friday:    fromDomainDay(w.Friday),
		Saturday:  fromDomainDay(w.Saturday),
		Sunday:    fromDomainDay(w.Sunday),
	}
}

func fromDomainDay(d domain.DaySchedule) DayScheduleDTO {
	if !d.IsOpen {
		return DayScheduleDTO{}
	}
	dto := DayScheduleDTO{
		IsOpen:    true,
		OpenTime:  d.OpenTime.String(),
		CloseTime: d.CloseTime.String(),
	}
	if d.HasBreak() {
		start, end := d.BreakStart.String(), d.BreakEnd.String()
		dto.BreakStart, dto.BreakEnd = &start, &end
	}
	return dto
}

// FromDomainResource конвертирует domain модель в DTO
func FromDomainResource(r *domain.Resource) *ResourceResponse {
	if r == nil {
		return nil
	}

	timezone := r.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	resp := &ResourceResponse{
		ID:           r.ID,
		Name:         r.Name,
		Timezone:     timezone,
		WorkingHours: FromDomainWorkingHours(r.WorkingHours),
		Active:       r.Active,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.HourlyRate != nil {
		rate := r.HourlyRate.StringFixed(2)
		resp.HourlyRate = &rate
	}
	return resp
}

// FromDomainResourceList конвертирует список domain моделей в DTO
func FromDomainResourceList(resources []*domain.Resource) *ResourceListResponse {
	resp := &ResourceListResponse{
		Resources: make([]ResourceResponse, 0, len(resources)),
	}
	for _, r := range resources {
		if dto := FromDomainResource(r); dto != nil {
			resp.Resources = append(resp.Resources, *dto)
		}
	}
	return resp
}
