package models

import (
	"time"

	"github.com/google/uuid"
)

// Filter restricts which vouchers a payment accepts. A voucher matches iff
// every present clause is satisfied.
type Filter struct {
	Aim    *string `json:"aim,omitempty" validate:"omitempty,max=10"`
	Bounds *Bounds `json:"bounds,omitempty"`
	// MaxAge is the maximum voucher age in days.
	MaxAge *int `json:"max_age,omitempty" validate:"omitempty,min=1"`
}

// PaymentRequest is a POS request to be paid a number of voucher units.
// Non-persistent requests accept exactly one confirmation; persistent
// requests may be confirmed any number of times.
type PaymentRequest struct {
	Otc               uuid.UUID             `json:"otc" gorm:"type:uuid;primaryKey"`
	PosID             uuid.UUID             `json:"pos_id" gorm:"type:uuid;not null;index"`
	Amount            int                   `json:"amount" gorm:"not null"`
	Filter            *Filter               `json:"filter,omitempty" gorm:"serializer:json"`
	Password          string                `json:"-" gorm:"type:varchar(255);not null"`
	Nonce             string                `json:"nonce" gorm:"type:varchar(255)"`
	AckURLPocket      *string               `json:"ack_url_pocket,omitempty" gorm:"type:text"`
	AckURLPos         *string               `json:"ack_url_pos,omitempty" gorm:"type:text"`
	CreatedAt         time.Time             `json:"created_at" gorm:"autoCreateTime"`
	Verified          bool                  `json:"verified" gorm:"not null;default:false"`
	IsPersistent      bool                  `json:"is_persistent" gorm:"not null;default:false"`
	ConfirmationCount int                   `json:"confirmation_count" gorm:"not null;default:0"`
	Confirmations     []PaymentConfirmation `json:"confirmations,omitempty" gorm:"foreignKey:PaymentRequestOtc;references:Otc"`
}

type PaymentConfirmation struct {
	ID                int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PaymentRequestOtc uuid.UUID `json:"payment_request_otc" gorm:"type:uuid;not null;index"`
	PerformedAt       time.Time `json:"performed_at" gorm:"not null"`
}

type PaymentCreateRequest struct {
	PosID         string  `json:"pos_id" validate:"required,uuid"`
	Amount        int     `json:"amount" validate:"required,min=1"`
	Filter        *Filter `json:"filter,omitempty"`
	Password      *string `json:"password,omitempty" validate:"omitempty,min=4,max=64"`
	Nonce         *string `json:"nonce,omitempty" validate:"omitempty,max=255"`
	AckURLPocket  *string `json:"ack_url_pocket,omitempty" validate:"omitempty,url"`
	AckURLPos     *string `json:"ack_url_pos,omitempty" validate:"omitempty,url"`
	IsPersistent  bool    `json:"is_persistent"`
	IsPreVerified bool    `json:"is_pre_verified"`
}

type PaymentCreateResponse struct {
	Request *PaymentRequest `json:"request"`
	// Password echoes the confirmation password for the POS to distribute.
	Password string `json:"password"`
}

type PaymentConfirmRequest struct {
	Otc      string              `json:"otc" validate:"required,uuid"`
	Password string              `json:"password" validate:"required"`
	Vouchers []VoucherSpendClaim `json:"vouchers" validate:"required,min=1,dive"`
}

type PaymentConfirmResponse struct {
	AckURL      *string   `json:"ack_url,omitempty"`
	PerformedAt time.Time `json:"performed_at"`
}

// PaymentInfoResponse is what a client shows before confirming a payment.
type PaymentInfoResponse struct {
	PosID        uuid.UUID `json:"pos_id"`
	Amount       int       `json:"amount"`
	Filter       *Filter   `json:"filter,omitempty"`
	IsPersistent bool      `json:"is_persistent"`
}
