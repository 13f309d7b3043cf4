package handlers

import (
	"time"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// AppointmentResponse HTTP модель записи
type AppointmentResponse struct {
	ID                     string  `json:"id"`
	ResourceID             int64   `json:"resourceId"`
	CustomerID             int64   `json:"customerId"`
	StartTime              string  `json:"startTime"`
	EndTime                string  `json:"endTime"`
	Status                 string  `json:"status"`
	DepositPaid            bool    `json:"depositPaid"`
	Price                  string  `json:"price"`
	DepositAmount          string  `json:"depositAmount"`
	EstimatedHours         string  `json:"estimatedHours"`
	Size                   string  `json:"size"`
	Placement              string  `json:"placement"`
	ComplexityLevel        int     `json:"complexityLevel"`
	Notes                  *string `json:"notes,omitempty"`
	CancelledAt            *string `json:"cancelledAt,omitempty"`
	CancellationReasonCode *string `json:"cancellationReasonCode,omitempty"`
	CancellationFee        *string `json:"cancellationFee,omitempty"`
	CreatedAt              string  `json:"createdAt"`
	UpdatedAt              string  `json:"updatedAt"`
}

// CancellationOutcomeResponse HTTP модель расчета отмены
type CancellationOutcomeResponse struct {
	NoticeHours        float64 `json:"noticeHours"`
	TierMinNoticeHours float64 `json:"tierMinNoticeHours"`
	FeePercentage      string  `json:"feePercentage"`
	FeeAmount          string  `json:"feeAmount"`
	DepositRefundable  bool    `json:"depositRefundable"`
	RefundAmount       string  `json:"refundAmount"`
	AllowReschedule    bool    `json:"allowReschedule"`
}

// FromDomainAppointment конвертирует domain модель в HTTP ответ
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:                     a.ID.String(),
		ResourceID:             a.ResourceID,
		CustomerID:             a.CustomerID,
		StartTime:              a.StartTime.UTC().Format(time.RFC3339),
		EndTime:                a.EndTime.UTC().Format(time.RFC3339),
		Status:                 string(a.Status),
		DepositPaid:            a.DepositPaid,
		Price:                  a.Price.StringFixed(2),
		DepositAmount:          a.DepositAmount.StringFixed(2),
		EstimatedHours:         a.EstimatedHours.String(),
		Size:                   a.Size,
		Placement:              a.Placement,
		ComplexityLevel:        a.ComplexityLevel,
		Notes:                  a.Notes,
		CancellationReasonCode: a.CancellationReasonCode,
		CreatedAt:              a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:              a.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if a.CancelledAt != nil {
		at := a.CancelledAt.UTC().Format(time.RFC3339)
		resp.CancelledAt = &at
	}
	if a.CancellationFee != nil {
		fee := a.CancellationFee.StringFixed(2)
		resp.CancellationFee = &fee
	}
	return resp
}

// FromDomainAppointments конвертирует список записей
func FromDomainAppointments(list []*domain.Appointment) []*AppointmentResponse {
	out := make([]*AppointmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, FromDomainAppointment(a))
	}
	return out
}

// FromDomainOutcome конвертирует расчет отмены в HTTP ответ
func FromDomainOutcome(o *domain.CancellationOutcome) *CancellationOutcomeResponse {
	return &CancellationOutcomeResponse{
		NoticeHours:        o.NoticeHours,
		TierMinNoticeHours: o.TierMinNoticeHours,
		FeePercentage:      o.FeePercentage.String(),
		FeeAmount:          o.FeeAmount.StringFixed(2),
		DepositRefundable:  o.DepositRefundable,
		RefundAmount:       o.RefundAmount.StringFixed(2),
		AllowReschedule:    o.AllowReschedule,
	}
}
