package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/womplatform/wom-registry/internal/app/models"
	"gorm.io/gorm"
)

type GormRequestStore struct {
	db *gorm.DB
}

func NewGormRequestStore(db *gorm.DB) *GormRequestStore {
	return &GormRequestStore{db: db}
}

func (s *GormRequestStore) InsertGeneration(ctx context.Context, request *models.GenerationRequest) error {
	return s.db.WithContext(ctx).Create(request).Error
}

func (s *GormRequestStore) FindGenerationByOtc(ctx context.Context, otc uuid.UUID) (*models.GenerationRequest, error) {
	var request models.GenerationRequest
	err := s.db.WithContext(ctx).Where("otc = ?", otc).First(&request).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (s *GormRequestStore) MarkGenerationVerified(ctx context.Context, otc uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.GenerationRequest{}).
		Where("otc = ?", otc).
		Update("verified", true)
	return res.RowsAffected > 0, res.Error
}

func (s *GormRequestStore) DecrementAttempts(ctx context.Context, otc uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.GenerationRequest{}).
		Where("otc = ? AND attempts > 0", otc).
		Update("attempts", gorm.Expr("attempts - 1")).Error
}

func (s *GormRequestStore) MarkPerformed(ctx context.Context, otc uuid.UUID, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.GenerationRequest{}).
		Where("otc = ? AND performed_at IS NULL", otc).
		Update("performed_at", at)
	return res.RowsAffected > 0, res.Error
}

func (s *GormRequestStore) SetVoid(ctx context.Context, otc uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.GenerationRequest{}).
		Where("otc = ?", otc).
		Update("void", true).Error
}

func (s *GormRequestStore) InsertPayment(ctx context.Context, request *models.PaymentRequest) error {
	return s.db.WithContext(ctx).Create(request).Error
}

func (s *GormRequestStore) FindPaymentByOtc(ctx context.Context, otc uuid.UUID) (*models.PaymentRequest, error) {
	var request models.PaymentRequest
	err := s.db.WithContext(ctx).Preload("Confirmations").Where("otc = ?", otc).First(&request).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (s *GormRequestStore) MarkPaymentVerified(ctx context.Context, otc uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.PaymentRequest{}).
		Where("otc = ?", otc).
		Update("verified", true)
	return res.RowsAffected > 0, res.Error
}

func (s *GormRequestStore) AppendConfirmation(ctx context.Context, otc uuid.UUID, at time.Time) (bool, error) {
	applied := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The guard and the counter bump happen in one statement so two
		// concurrent confirmations of a non-persistent request cannot both
		// pass the already-performed check.
		res := tx.Model(&models.PaymentRequest{}).
			Where("otc = ? AND (is_persistent OR confirmation_count = 0)", otc).
			Update("confirmation_count", gorm.Expr("confirmation_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		return tx.Create(&models.PaymentConfirmation{
			PaymentRequestOtc: otc,
			PerformedAt:       at,
		}).Error
	})
	return applied, err
}

type GormVoucherLedger struct {
	db *gorm.DB
}

func NewGormVoucherLedger(db *gorm.DB) *GormVoucherLedger {
	return &GormVoucherLedger{db: db}
}

func (l *GormVoucherLedger) InsertMany(ctx context.Context, vouchers []models.Voucher) error {
	return l.db.WithContext(ctx).Create(&vouchers).Error
}

func (l *GormVoucherLedger) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Voucher, error) {
	var vouchers []models.Voucher
	err := l.db.WithContext(ctx).Where("id IN ?", ids).Find(&vouchers).Error
	return vouchers, err
}

func (l *GormVoucherLedger) FindLegacyByIDs(ctx context.Context, ids []int64) ([]models.LegacyVoucher, error) {
	var vouchers []models.LegacyVoucher
	err := l.db.WithContext(ctx).Where("id IN ?", ids).Find(&vouchers).Error
	return vouchers, err
}

func (l *GormVoucherLedger) FindByGenerationRequest(ctx context.Context, otc uuid.UUID) ([]models.Voucher, error) {
	var vouchers []models.Voucher
	err := l.db.WithContext(ctx).Where("generation_request_otc = ?", otc).Find(&vouchers).Error
	return vouchers, err
}

// errSpendConflict aborts the spend transaction when a voucher no longer
// holds the claimed balance.
var errSpendConflict = errors.New("voucher balance changed")

func (l *GormVoucherLedger) SpendUnits(ctx context.Context, batch SpendBatch) (bool, error) {
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Each deduction carries its own balance guard, so a stale in-memory
		// count read before the transaction can never drive a count negative.
		for id, units := range batch.Units {
			res := tx.Model(&models.Voucher{}).
				Where("id = ? AND count >= ?", id, units).
				Update("count", gorm.Expr("count - ?", units))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errSpendConflict
			}
		}
		for _, id := range batch.Legacy {
			res := tx.Model(&models.LegacyVoucher{}).
				Where("id = ? AND NOT spent", id).
				Update("spent", true)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errSpendConflict
			}
		}
		return nil
	})
	if errors.Is(err, errSpendConflict) {
		return false, nil
	}
	return err == nil, err
}

func (l *GormVoucherLedger) RefundUnits(ctx context.Context, batch SpendBatch) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, units := range batch.Units {
			err := tx.Model(&models.Voucher{}).
				Where("id = ?", id).
				Update("count", gorm.Expr("count + ?", units)).Error
			if err != nil {
				return err
			}
		}
		for _, id := range batch.Legacy {
			err := tx.Model(&models.LegacyVoucher{}).
				Where("id = ?", id).
				Update("spent", false).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (l *GormVoucherLedger) SetPositions(ctx context.Context, otc uuid.UUID, position models.GeoPosition) error {
	return l.db.WithContext(ctx).Model(&models.Voucher{}).
		Where("generation_request_otc = ? AND mode = ? AND position IS NULL",
			otc, models.CreationModeSetLocationOnRedeem).
		Update("position", &position).Error
}
