package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreationMode string

const (
	CreationModeStandard            CreationMode = "STANDARD"
	CreationModeSetLocationOnRedeem CreationMode = "SET_LOCATION_ON_REDEEM"
)

// Voucher is a value voucher minted for a generation request. Count starts at
// InitialCount and is decremented by one for every confirmed spend.
type Voucher struct {
	ID                   uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	GenerationRequestOtc uuid.UUID    `json:"generation_request_otc" gorm:"type:uuid;not null;index"`
	Aim                  string       `json:"aim" gorm:"type:varchar(10);not null"`
	Secret               string       `json:"secret" gorm:"type:varchar(255);not null"`
	Mode                 CreationMode `json:"mode" gorm:"type:varchar(30);not null"`
	Count                int          `json:"count" gorm:"not null"`
	InitialCount         int          `json:"initial_count" gorm:"not null"`
	Timestamp            time.Time    `json:"timestamp" gorm:"not null"`
	Position             *GeoPosition `json:"position,omitempty" gorm:"serializer:json"`
	CreatedAt            time.Time    `json:"created_at" gorm:"autoCreateTime"`
}

// LegacyVoucher is the older single-use voucher schema, keyed by an integer
// identifier with a spent flag instead of a unit count.
type LegacyVoucher struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Aim       string    `json:"aim" gorm:"type:varchar(10);not null"`
	Secret    string    `json:"secret" gorm:"type:varchar(255);not null"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp" gorm:"not null"`
	Spent     bool      `json:"spent" gorm:"not null;default:false"`
}

func (LegacyVoucher) TableName() string {
	return "vouchers_legacy"
}

// Spendable is the spend contract shared by both voucher schemas.
type Spendable interface {
	AimCode() string
	SpendLocation() *GeoPosition
	MintedAt() time.Time
	// TryReserve consumes one unit iff the secret matches exactly and the
	// voucher still has spendable balance.
	TryReserve(secret string) bool
}

func (v *Voucher) AimCode() string { return v.Aim }

func (v *Voucher) SpendLocation() *GeoPosition { return v.Position }

func (v *Voucher) MintedAt() time.Time { return v.Timestamp }

func (v *Voucher) TryReserve(secret string) bool {
	if v.Secret != secret || v.Count <= 0 {
		return false
	}
	v.Count--
	return true
}

func (lv *LegacyVoucher) AimCode() string { return lv.Aim }

func (lv *LegacyVoucher) SpendLocation() *GeoPosition {
	return &GeoPosition{Latitude: lv.Latitude, Longitude: lv.Longitude}
}

func (lv *LegacyVoucher) MintedAt() time.Time { return lv.Timestamp }

// TryReserve adapts the single-use spent flag to the count-based contract:
// a legacy voucher behaves as if InitialCount were 1.
func (lv *LegacyVoucher) TryReserve(secret string) bool {
	if lv.Secret != secret || lv.Spent {
		return false
	}
	lv.Spent = true
	return true
}

// VoucherCreateSpec describes one voucher to mint within a generation request.
type VoucherCreateSpec struct {
	Aim       string       `json:"aim" validate:"required,max=10"`
	Count     int          `json:"count" validate:"required,min=1"`
	Timestamp time.Time    `json:"timestamp"`
	Mode      CreationMode `json:"mode" validate:"required,oneof=STANDARD SET_LOCATION_ON_REDEEM"`
	Location  *GeoPosition `json:"location,omitempty"`
}

// VoucherSpendClaim is one voucher a POS presents during payment confirmation.
type VoucherSpendClaim struct {
	ID     string `json:"id" validate:"required"`
	Secret string `json:"secret" validate:"required"`
}

// ClaimRef is a parsed spend-claim identifier. Legacy identifiers are bare
// base-10 integers; current-schema identifiers are a UUID optionally qualified
// with a `/`-separated sub-index.
type ClaimRef struct {
	Legacy   bool
	LegacyID int64
	BaseID   uuid.UUID
	SubIndex int
}

func ParseClaimID(id string) (ClaimRef, error) {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return ClaimRef{Legacy: true, LegacyID: n}, nil
	}

	base := id
	subIndex := 0
	if idx := strings.Index(id, "/"); idx != -1 {
		base = id[:idx]
		n, err := strconv.Atoi(id[idx+1:])
		if err != nil {
			return ClaimRef{}, err
		}
		subIndex = n
	}

	baseID, err := uuid.Parse(base)
	if err != nil {
		return ClaimRef{}, err
	}
	return ClaimRef{BaseID: baseID, SubIndex: subIndex}, nil
}
