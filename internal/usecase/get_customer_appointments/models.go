package get_customer_appointments

import "github.com/m04kA/SMC-InkBookingService/internal/domain"

// Request модель запроса на получение записей клиента
type Request struct {
	CustomerID   int64   // ID клиента
	Status       *string // Фильтр по статусу (опционально)
	UpcomingOnly bool    // Только записи, которые еще не закончились
}

// Response модель ответа
type Response struct {
	CustomerID   int64
	Appointments []*domain.Appointment
}
