package resources

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	"github.com/m04kA/SMC-InkBookingService/internal/infra/availability"
	resourceRepo "github.com/m04kA/SMC-InkBookingService/internal/infra/storage/resource"
	"github.com/m04kA/SMC-InkBookingService/internal/service/resources/models"
)

const maxNameLength = 100

// Service сервис для работы с мастерами и их расписанием
type Service struct {
	resourceRepo ResourceRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса мастеров
func NewService(
	resourceRepo ResourceRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		resourceRepo: resourceRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Create создает мастера с недельным расписанием
// Доступно только администратору
func (s *Service) Create(ctx context.Context, req *models.CreateResourceRequest) (*models.ResourceResponse, error) {
	s.logger.Info("Create: creating resource name=%q timezone=%q", req.Name, req.Timezone)

	// 1. Валидируем входные данные
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxNameLength {
		return nil, fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, maxNameLength)
	}
	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			s.logger.Warn("Create: unknown timezone %q", req.Timezone)
			return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, req.Timezone)
		}
	}

	hours, err := s.parseWorkingHours(req.WorkingHours)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	var hourlyRate *decimal.Decimal
	if req.HourlyRate != nil {
		rate, err := decimal.NewFromString(strings.TrimSpace(*req.HourlyRate))
		if err != nil || rate.IsNegative() {
			s.logger.Warn("Create: invalid hourly rate %q", *req.HourlyRate)
			return nil, fmt.Errorf("%w: hourlyRate must be a non-negative decimal", ErrInvalidInput)
		}
		hourlyRate = &rate
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	// 2. Сохраняем мастера вместе с расписанием
	var created *domain.Resource
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.resourceRepo.Create(txCtx, &domain.Resource{
			Name:         name,
			Timezone:     req.Timezone,
			WorkingHours: hours,
			HourlyRate:   hourlyRate,
			Active:       active,
		})
		return err
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created resource id=%d", created.ID)
	return models.FromDomainResource(created), nil
}

// Get получает мастера по ID
// Публичный метод - доступен всем
func (s *Service) Get(ctx context.Context, id int64) (*models.ResourceResponse, error) {
	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("Get: resource id=%d not found", id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("Get: repository error for resource id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainResource(resource), nil
}

// List получает всех мастеров
func (s *Service) List(ctx context.Context) (*models.ResourceListResponse, error) {
	resources, err := s.resourceRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainResourceList(resources), nil
}

// UpdateWorkingHours заменяет недельное расписание мастера
// Доступно только администратору. Существующие записи не переносятся.
func (s *Service) UpdateWorkingHours(ctx context.Context, id int64, req *models.UpdateWorkingHoursRequest) (*models.ResourceResponse, error) {
	s.logger.Info("UpdateWorkingHours: updating resource id=%d", id)

	// 1. Валидируем расписание
	hours, err := s.parseWorkingHours(req.WorkingHours)
	if err != nil {
		s.logger.Warn("UpdateWorkingHours: validation failed for resource id=%d: %v", id, err)
		return nil, err
	}

	// 2. Сохраняем расписание
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.resourceRepo.UpdateWorkingHours(txCtx, id, hours)
	})
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("UpdateWorkingHours: resource id=%d not found", id)
			return nil, ErrResourceNotFound
		}
		s.logger.Error("UpdateWorkingHours: repository error for resource id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateWorkingHours - repository error: %v", ErrInternal, err)
	}

	// 3. Возвращаем обновленного мастера
	updated, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("UpdateWorkingHours: failed to reload resource id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateWorkingHours - reload: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateWorkingHours: successfully updated resource id=%d", id)
	return models.FromDomainResource(updated), nil
}

// Вспомогательные методы

// parseWorkingHours проверяет формат HH:MM, порядок открытия и закрытия
// и то, что перерыв лежит внутри рабочего окна
func (s *Service) parseWorkingHours(dto models.WorkingHoursDTO) (domain.WorkingHours, error) {
	hours, err := dto.ToDomain()
	if err != nil {
		return domain.WorkingHours{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	openDays := 0
	for day := time.Sunday; day <= time.Saturday; day++ {
		schedule := hours.ForDay(day)
		if err := availability.ValidateDaySchedule(schedule); err != nil {
			return domain.WorkingHours{}, fmt.Errorf("%w: %s: %v", ErrInvalidInput, day, err)
		}
		if schedule.IsOpen {
			openDays++
		}
	}
	if openDays == 0 {
		return domain.WorkingHours{}, fmt.Errorf("%w: at least one working day is required", ErrInvalidInput)
	}

	return hours, nil
}
