package get_available_slots

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-InkBookingService/internal/usecase/get_available_slots"
)

// SlotResponse свободный слот
type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// EstimateResponse оценка сеанса, по которой считалась длительность
type EstimateResponse struct {
	ComplexityLevel   int    `json:"complexityLevel"`
	ComplexityClamped bool   `json:"complexityClamped"`
	EstimatedHours    string `json:"estimatedHours"`
	TotalPrice        string `json:"totalPrice"`
	DepositAmount     string `json:"depositAmount"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string            `json:"date"`
	ResourceID      int64             `json:"resourceId"`
	Timezone        string            `json:"timezone"`
	DurationMinutes int               `json:"durationMinutes"`
	StepMinutes     int               `json:"stepMinutes"`
	Estimate        *EstimateResponse `json:"estimate,omitempty"`
	Slots           []SlotResponse    `json:"slots"`
}

// ToUseCaseRequest формирует запрос к use case из query параметров
func ToUseCaseRequest(resourceID int64, query url.Values) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	req := &getAvailableSlots.Request{
		ResourceID: resourceID,
		Date:       date,
		Size:       query.Get("size"),
		Placement:  query.Get("placement"),
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{name: "complexity", dst: &req.ComplexityLevel},
		{name: "durationMinutes", dst: &req.DurationMinutes},
		{name: "step", dst: &req.StepMinutes},
	}
	for _, p := range ints {
		raw := query.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
		*p.dst = v
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	out := &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ResourceID:      resp.ResourceID,
		Timezone:        resp.Timezone,
		DurationMinutes: resp.DurationMinutes,
		StepMinutes:     resp.StepMinutes,
		Slots:           make([]SlotResponse, 0, len(resp.Slots)),
	}

	if resp.Estimate != nil {
		out.Estimate = &EstimateResponse{
			ComplexityLevel:   resp.Estimate.ComplexityLevel,
			ComplexityClamped: resp.Estimate.ComplexityClamped,
			EstimatedHours:    resp.Estimate.EstimatedHours.String(),
			TotalPrice:        resp.Estimate.TotalPrice.StringFixed(2),
			DepositAmount:     resp.Estimate.DepositAmount.StringFixed(2),
		}
	}

	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			StartTime: s.Start.Format(time.RFC3339),
			EndTime:   s.End.Format(time.RFC3339),
		})
	}

	return out
}
