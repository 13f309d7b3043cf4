package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	resourceRepo "github.com/m04kA/SMC-InkBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-InkBookingService/internal/service/pricing"
)

// UseCase use case для получения свободных слотов мастера
type UseCase struct {
	resourceRepo ResourceRepository
	index        AvailabilityIndex
	pricing      PricingCalculator
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resourceRepo ResourceRepository,
	index AvailabilityIndex,
	pricing PricingCalculator,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.DefaultStepMinutes <= 0 {
		settings.DefaultStepMinutes = domain.DefaultSlotStepMinutes
	}
	if settings.MaxWindowDays <= 0 {
		settings.MaxWindowDays = domain.MaxAvailabilityWindowDays
	}
	return &UseCase{
		resourceRepo: resourceRepo,
		index:        index,
		pricing:      pricing,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: resource=%d, date=%s, size=%q, placement=%q, duration=%d",
		req.ResourceID, req.Date.Format(domain.DateFormat), req.Size, req.Placement, req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем мастера
	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetAvailableSlots: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if !resource.Active {
		uc.logger.Warn("GetAvailableSlots: resource id=%d is inactive", req.ResourceID)
		return nil, ErrResourceNotFound
	}

	// 4. Дата в часовом поясе мастера
	loc := resource.Location()
	y, m, d := req.Date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)

	if err := validateDate(day, now, uc.settings.MaxWindowDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 5. Определяем длительность сеанса
	duration := time.Duration(req.DurationMinutes) * time.Minute
	var estimate *domain.Estimate
	if req.DurationMinutes == 0 {
		estimate, err = uc.pricing.Estimate(pricing.EstimateRequest{
			Size:             req.Size,
			Placement:        req.Placement,
			ComplexityLevel:  req.ComplexityLevel,
			CustomHourlyRate: resource.HourlyRate,
		})
		if err != nil {
			if errors.Is(err, pricing.ErrUnknownProfile) {
				uc.logger.Warn("GetAvailableSlots: unknown profile size=%q placement=%q", req.Size, req.Placement)
				return nil, fmt.Errorf("%w: size=%q placement=%q", ErrUnknownProfile, req.Size, req.Placement)
			}
			if errors.Is(err, pricing.ErrInvalidInput) {
				return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			uc.logger.Error("GetAvailableSlots: failed to estimate: %v", err)
			return nil, fmt.Errorf("%w: failed to estimate: %v", ErrInternal, err)
		}
		duration = estimate.EstimatedDuration
		if duration > domain.MaxAppointmentDuration*time.Minute {
			uc.logger.Warn("GetAvailableSlots: estimated duration %s exceeds %d minutes, size=%q placement=%q",
				duration, domain.MaxAppointmentDuration, req.Size, req.Placement)
			return nil, fmt.Errorf("%w: estimated duration %s exceeds %d minutes, split into several sessions",
				ErrInvalidInput, duration, domain.MaxAppointmentDuration)
		}
	}

	step := req.StepMinutes
	if step == 0 {
		step = uc.settings.DefaultStepMinutes
	}

	response := &Response{
		Date:            day,
		ResourceID:      resource.ID,
		Timezone:        loc.String(),
		DurationMinutes: int(duration / time.Minute),
		StepMinutes:     step,
		Estimate:        estimate,
		Slots:           []Slot{},
	}

	// 6. Получаем рабочие часы на указанную дату
	schedule := resource.WorkingHours.ForDay(day.Weekday())
	if !schedule.IsOpen {
		uc.logger.Info("GetAvailableSlots: resource %d is off on %s", resource.ID, day.Format(domain.DateFormat))
		return response, nil
	}

	// 7. Генерируем кандидатов с учетом минимального запаса времени
	earliest := now.Add(time.Duration(uc.settings.MinBookingNoticeMinutes) * time.Minute)
	candidates := generateCandidates(schedule, day, duration, time.Duration(step)*time.Minute, earliest)

	// 8. Отбрасываем занятые
	for _, slot := range candidates {
		if _, busy := uc.index.HasConflict(resource.ID, slot.Start, slot.End, nil); busy {
			continue
		}
		response.Slots = append(response.Slots, slot)
	}

	uc.logger.Info("GetAvailableSlots: %d of %d slots free for resource=%d, date=%s",
		len(response.Slots), len(candidates), resource.ID, day.Format(domain.DateFormat))

	return response, nil
}
