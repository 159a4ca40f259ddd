package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerationRequest correlates a batch of minted vouchers with the OTC and
// password the redeeming user presents. PerformedAt transitions from null to
// set exactly once; Attempts only ever decreases.
type GenerationRequest struct {
	Otc               uuid.UUID  `json:"otc" gorm:"type:uuid;primaryKey"`
	SourceID          uuid.UUID  `json:"source_id" gorm:"type:uuid;not null;index"`
	Nonce             string     `json:"nonce" gorm:"type:varchar(255)"`
	Password          string     `json:"-" gorm:"type:varchar(255);not null"`
	BatchCount        int        `json:"batch_count" gorm:"not null"`
	TotalVoucherCount int        `json:"total_voucher_count" gorm:"not null"`
	CreatedAt         time.Time  `json:"created_at" gorm:"autoCreateTime"`
	Verified          bool       `json:"verified" gorm:"not null;default:false"`
	PerformedAt       *time.Time `json:"performed_at,omitempty"`
	Void              bool       `json:"void" gorm:"not null;default:false"`
	Attempts          int        `json:"attempts" gorm:"not null"`
}

type GenerationCreateRequest struct {
	SourceID      string              `json:"source_id" validate:"required,uuid"`
	Vouchers      []VoucherCreateSpec `json:"vouchers" validate:"required,min=1,dive"`
	Password      *string             `json:"password,omitempty" validate:"omitempty,min=4,max=64"`
	Nonce         *string             `json:"nonce,omitempty" validate:"omitempty,max=255"`
	IsPreVerified bool                `json:"is_pre_verified"`
}

type GenerationCreateResponse struct {
	Request  *GenerationRequest `json:"request"`
	Vouchers []Voucher          `json:"vouchers"`
	// Password echoes the redemption password so a Source that let the
	// registry autogenerate it can hand it to the user.
	Password string `json:"password"`
}

type VoucherRedeemRequest struct {
	Otc      string       `json:"otc" validate:"required,uuid"`
	Password string       `json:"password" validate:"required"`
	Location *GeoPosition `json:"location,omitempty"`
}

type VoucherRedeemResponse struct {
	SourceID uuid.UUID `json:"source_id"`
	Vouchers []Voucher `json:"vouchers"`
}
