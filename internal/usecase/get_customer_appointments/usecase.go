package get_customer_appointments

import (
	"context"
	"fmt"
)

// UseCase use case для получения записей клиента
type UseCase struct {
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(appointmentRepo AppointmentRepository, logger Logger) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает записи клиента, новые сначала
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация
	status, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("GetCustomerAppointments: invalid request for customer=%d: %v", req.CustomerID, err)
		return nil, err
	}

	// 2. Чтение
	appointments, err := uc.appointmentRepo.ListByCustomer(ctx, req.CustomerID, status)
	if err != nil {
		uc.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	// 3. Отбрасываем прошедшие, если просили только предстоящие
	if req.UpcomingOnly {
		now := uc.timeProvider.Now()
		upcoming := appointments[:0]
		for _, a := range appointments {
			if a.EndTime.After(now) {
				upcoming = append(upcoming, a)
			}
		}
		appointments = upcoming
	}

	uc.logger.Info("GetCustomerAppointments: fetched %d appointments for customer=%d", len(appointments), req.CustomerID)
	return &Response{
		CustomerID:   req.CustomerID,
		Appointments: appointments,
	}, nil
}
