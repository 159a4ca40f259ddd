package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/womplatform/wom-registry/internal/app/models"
)

// RequestStore persists generation and payment requests. Lookups return
// (nil, nil) when the OTC is unknown; state transitions that must happen at
// most once are expressed as conditional updates whose bool result reports
// whether the transition was applied.
type RequestStore interface {
	InsertGeneration(ctx context.Context, request *models.GenerationRequest) error
	FindGenerationByOtc(ctx context.Context, otc uuid.UUID) (*models.GenerationRequest, error)
	// MarkGenerationVerified is idempotent; false means the OTC is unknown.
	MarkGenerationVerified(ctx context.Context, otc uuid.UUID) (bool, error)
	// DecrementAttempts decreases the retry budget by one, never below zero.
	DecrementAttempts(ctx context.Context, otc uuid.UUID) error
	// MarkPerformed sets performedAt iff it is still null.
	MarkPerformed(ctx context.Context, otc uuid.UUID, at time.Time) (bool, error)
	SetVoid(ctx context.Context, otc uuid.UUID) error

	InsertPayment(ctx context.Context, request *models.PaymentRequest) error
	FindPaymentByOtc(ctx context.Context, otc uuid.UUID) (*models.PaymentRequest, error)
	MarkPaymentVerified(ctx context.Context, otc uuid.UUID) (bool, error)
	// AppendConfirmation records a confirmation iff the request is persistent
	// or has never been confirmed.
	AppendConfirmation(ctx context.Context, otc uuid.UUID, at time.Time) (bool, error)
}

// SpendBatch lists the balance mutations of one confirmed payment: units to
// deduct per current-schema voucher, and legacy vouchers to mark spent.
type SpendBatch struct {
	Units  map[uuid.UUID]int
	Legacy []int64
}

// VoucherLedger persists voucher instances of both schemas. The core only
// needs point lookups by identifier or owning request, batch writes,
// conditional balance deduction and the deferred-location fixup.
type VoucherLedger interface {
	InsertMany(ctx context.Context, vouchers []models.Voucher) error
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Voucher, error)
	FindLegacyByIDs(ctx context.Context, ids []int64) ([]models.LegacyVoucher, error)
	FindByGenerationRequest(ctx context.Context, otc uuid.UUID) ([]models.Voucher, error)
	// SpendUnits applies the batch iff every listed voucher still holds the
	// claimed balance. False means a concurrent spend won and nothing was
	// written.
	SpendUnits(ctx context.Context, batch SpendBatch) (bool, error)
	// RefundUnits restores the balances of a batch written by SpendUnits.
	RefundUnits(ctx context.Context, batch SpendBatch) error
	// SetPositions fixes the position of the request's deferred-location
	// vouchers that do not have one yet.
	SetPositions(ctx context.Context, otc uuid.UUID, position models.GeoPosition) error
}
