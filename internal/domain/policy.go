package domain

import "github.com/shopspring/decimal"

// CancellationPolicyTier is one bracket of the cancellation policy.
// Tiers are evaluated in descending MinNoticeHours order.
type CancellationPolicyTier struct {
	MinNoticeHours    float64
	FeePercentage     decimal.Decimal // in [0, 1]
	DepositRefundable bool
	AllowReschedule   bool
}

// CancellationOutcome is what the payment side needs to settle a cancellation
type CancellationOutcome struct {
	NoticeHours        float64
	TierMinNoticeHours float64
	FeePercentage      decimal.Decimal
	FeeAmount          decimal.Decimal
	DepositRefundable  bool
	RefundAmount       decimal.Decimal
	AllowReschedule    bool
}
