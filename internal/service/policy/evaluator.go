package policy

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// Evaluator считает штраф и возврат депозита при отмене записи
type Evaluator struct {
	tiers []domain.CancellationPolicyTier // по убыванию MinNoticeHours
}

// NewEvaluator сортирует тарифы по убыванию порога и проверяет, что они
// покрывают весь диапазон [0, ∞) без дыр
func NewEvaluator(tiers []domain.CancellationPolicyTier) (*Evaluator, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: at least one tier is required", ErrInvalidPolicy)
	}

	sorted := make([]domain.CancellationPolicyTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinNoticeHours > sorted[j].MinNoticeHours
	})

	one := decimal.NewFromInt(1)
	for i, tier := range sorted {
		if tier.MinNoticeHours < 0 || math.IsNaN(tier.MinNoticeHours) || math.IsInf(tier.MinNoticeHours, 0) {
			return nil, fmt.Errorf("%w: tier %d has invalid threshold %v", ErrInvalidPolicy, i, tier.MinNoticeHours)
		}
		if tier.FeePercentage.IsNegative() || tier.FeePercentage.GreaterThan(one) {
			return nil, fmt.Errorf("%w: tier %v fee %s not in [0, 1]", ErrInvalidPolicy, tier.MinNoticeHours, tier.FeePercentage)
		}
		if i > 0 && sorted[i-1].MinNoticeHours == tier.MinNoticeHours {
			return nil, fmt.Errorf("%w: duplicate threshold %v", ErrInvalidPolicy, tier.MinNoticeHours)
		}
	}

	if last := sorted[len(sorted)-1]; last.MinNoticeHours != 0 {
		return nil, fmt.Errorf("%w: lowest tier must start at 0 hours, got %v", ErrInvalidPolicy, last.MinNoticeHours)
	}

	return &Evaluator{tiers: sorted}, nil
}

// Tiers возвращает копию тарифов в порядке применения
func (e *Evaluator) Tiers() []domain.CancellationPolicyTier {
	out := make([]domain.CancellationPolicyTier, len(e.tiers))
	copy(out, e.tiers)
	return out
}

// Evaluate рассчитывает условия отмены записи в момент at.
// Срабатывает первый тариф, порог которого не больше фактического уведомления.
// Если сеанс уже начался (уведомление отрицательное), применяется последний тариф.
func (e *Evaluator) Evaluate(appt *domain.Appointment, at time.Time) (*domain.CancellationOutcome, error) {
	switch {
	case appt.Status == domain.StatusCancelled:
		return nil, ErrAlreadyCancelled
	case appt.Status.IsTerminal():
		return nil, fmt.Errorf("%w: status=%s", ErrTerminalState, appt.Status)
	}

	notice := appt.StartTime.Sub(at).Hours()
	tier := e.tierFor(notice)

	fee := appt.Price.Mul(tier.FeePercentage).Round(2)

	refund := decimal.Zero
	if tier.DepositRefundable && appt.DepositPaid {
		refund = appt.DepositAmount
	}

	return &domain.CancellationOutcome{
		NoticeHours:        notice,
		TierMinNoticeHours: tier.MinNoticeHours,
		FeePercentage:      tier.FeePercentage,
		FeeAmount:          fee,
		DepositRefundable:  tier.DepositRefundable,
		RefundAmount:       refund,
		AllowReschedule:    tier.AllowReschedule,
	}, nil
}

func (e *Evaluator) tierFor(noticeHours float64) domain.CancellationPolicyTier {
	for _, tier := range e.tiers {
		if tier.MinNoticeHours <= noticeHours {
			return tier
		}
	}
	return e.tiers[len(e.tiers)-1]
}
