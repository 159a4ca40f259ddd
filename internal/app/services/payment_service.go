package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/womplatform/wom-registry/internal/app/errors"
	"github.com/womplatform/wom-registry/internal/app/models"
	"github.com/womplatform/wom-registry/internal/app/pkg"
	"github.com/womplatform/wom-registry/internal/infrastructures"
)

type PaymentService struct {
	store     RequestStore
	ledger    VoucherLedger
	random    *pkg.Random
	validator *infrastructures.Validator
	config    ProtocolConfig
}

func NewPaymentService(store RequestStore, ledger VoucherLedger, random *pkg.Random, validator *infrastructures.Validator, config ProtocolConfig) *PaymentService {
	return &PaymentService{
		store:     store,
		ledger:    ledger,
		random:    random,
		validator: validator,
		config:    config,
	}
}

// CreatePaymentRequest registers a POS request to be paid a number of
// voucher units, optionally restricted by a filter.
func (s *PaymentService) CreatePaymentRequest(ctx context.Context, req *models.PaymentCreateRequest) (*models.PaymentCreateResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	posID, err := uuid.Parse(req.PosID)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid POS ID format")
	}

	otc, err := s.random.UUID()
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to generate OTC")
	}

	password := ""
	if req.Password != nil {
		password = *req.Password
	} else {
		password, err = s.random.Password(s.config.PasswordLength)
		if err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to generate password")
		}
	}

	nonce := ""
	if req.Nonce != nil {
		nonce = *req.Nonce
	} else {
		nonce, err = s.random.Secret(16)
		if err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to generate nonce")
		}
	}

	request := &models.PaymentRequest{
		Otc:          otc,
		PosID:        posID,
		Amount:       req.Amount,
		Filter:       req.Filter,
		Password:     password,
		Nonce:        nonce,
		AckURLPocket: req.AckURLPocket,
		AckURLPos:    req.AckURLPos,
		Verified:     req.IsPreVerified,
		IsPersistent: req.IsPersistent,
	}

	if err := s.store.InsertPayment(ctx, request); err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create payment request")
	}

	return &models.PaymentCreateResponse{
		Request:  request,
		Password: password,
	}, nil
}

// VerifyPaymentRequest marks the request as verified. Verifying an
// already-verified request is a no-op.
func (s *PaymentService) VerifyPaymentRequest(ctx context.Context, otcValue string) error {
	otc, err := uuid.Parse(otcValue)
	if err != nil {
		return errors.NewOtcNotValidError()
	}

	found, err := s.store.MarkPaymentVerified(ctx, otc)
	if err != nil {
		return errors.NewInternalServerError(err, "Failed to verify payment request")
	}
	if !found {
		return errors.NewOtcNotValidError()
	}
	return nil
}

// GetPaymentInfo returns what a client shows before confirming: the POS,
// the amount and the filter of a verified payment request.
func (s *PaymentService) GetPaymentInfo(ctx context.Context, otcValue string) (*models.PaymentInfoResponse, error) {
	otc, err := uuid.Parse(otcValue)
	if err != nil {
		return nil, errors.NewOtcNotValidError()
	}

	request, err := s.store.FindPaymentByOtc(ctx, otc)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to load payment request")
	}
	if request == nil || !request.Verified {
		return nil, errors.NewOtcNotValidError()
	}

	return &models.PaymentInfoResponse{
		PosID:        request.PosID,
		Amount:       request.Amount,
		Filter:       request.Filter,
		IsPersistent: request.IsPersistent,
	}, nil
}

type parsedClaim struct {
	ref    models.ClaimRef
	secret string
}

// ConfirmPayment spends the claimed vouchers against the payment request.
// Claims are all-or-nothing: no voucher balance is persisted unless every
// claim passes its secret, filter and balance checks.
func (s *PaymentService) ConfirmPayment(ctx context.Context, req *models.PaymentConfirmRequest) (*models.PaymentConfirmResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	otc, err := uuid.Parse(req.Otc)
	if err != nil {
		return nil, errors.NewOtcNotValidError()
	}

	request, err := s.store.FindPaymentByOtc(ctx, otc)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to load payment request")
	}
	if request == nil || !request.Verified {
		return nil, errors.NewOtcNotValidError()
	}
	if !request.IsPersistent && request.ConfirmationCount > 0 {
		return nil, errors.NewOperationAlreadyPerformedError()
	}
	if request.Password != req.Password {
		return nil, errors.NewWrongPasswordError()
	}
	if len(req.Vouchers) != request.Amount {
		return nil, errors.NewWrongNumberOfVouchersError(request.Amount, len(req.Vouchers))
	}

	claims := make([]parsedClaim, 0, len(req.Vouchers))
	legacyIDs := make([]int64, 0)
	currentIDs := make([]uuid.UUID, 0)
	seenLegacy := map[int64]bool{}
	seenCurrent := map[uuid.UUID]bool{}
	for _, claim := range req.Vouchers {
		ref, err := models.ParseClaimID(claim.ID)
		if err != nil {
			return nil, errors.NewBadRequestError("Invalid voucher identifier: " + claim.ID)
		}
		claims = append(claims, parsedClaim{ref: ref, secret: claim.Secret})
		if ref.Legacy {
			if !seenLegacy[ref.LegacyID] {
				seenLegacy[ref.LegacyID] = true
				legacyIDs = append(legacyIDs, ref.LegacyID)
			}
		} else if !seenCurrent[ref.BaseID] {
			seenCurrent[ref.BaseID] = true
			currentIDs = append(currentIDs, ref.BaseID)
		}
	}

	current := map[uuid.UUID]*models.Voucher{}
	if len(currentIDs) > 0 {
		vouchers, err := s.ledger.FindByIDs(ctx, currentIDs)
		if err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to load vouchers")
		}
		if len(vouchers) < len(currentIDs) {
			return nil, errors.NewVouchersNotFoundError()
		}
		for i := range vouchers {
			current[vouchers[i].ID] = &vouchers[i]
		}
	}

	legacy := map[int64]*models.LegacyVoucher{}
	if len(legacyIDs) > 0 {
		vouchers, err := s.ledger.FindLegacyByIDs(ctx, legacyIDs)
		if err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to load legacy vouchers")
		}
		if len(vouchers) < len(legacyIDs) {
			return nil, errors.NewVouchersNotFoundError()
		}
		for i := range vouchers {
			legacy[vouchers[i].ID] = &vouchers[i]
		}
	}

	now := time.Now()
	spent := 0
	batch := SpendBatch{Units: map[uuid.UUID]int{}}
	for _, claim := range claims {
		var spendable models.Spendable
		if claim.ref.Legacy {
			spendable = legacy[claim.ref.LegacyID]
		} else {
			spendable = current[claim.ref.BaseID]
		}
		if !MatchFilter(spendable, request.Filter, now) {
			continue
		}
		if spendable.TryReserve(claim.secret) {
			spent++
			if claim.ref.Legacy {
				batch.Legacy = append(batch.Legacy, claim.ref.LegacyID)
			} else {
				batch.Units[claim.ref.BaseID]++
			}
		}
	}
	if spent < request.Amount {
		return nil, errors.NewInsufficientValidVouchersError(request.Amount, spent)
	}

	// The deduction re-checks every balance inside the store, so a claim set
	// validated against a stale read loses here instead of double spending.
	deducted, err := s.ledger.SpendUnits(ctx, batch)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to spend vouchers")
	}
	if !deducted {
		return nil, errors.NewInsufficientValidVouchersError(request.Amount, 0)
	}

	performedAt := time.Now()
	appended, err := s.store.AppendConfirmation(ctx, otc, performedAt)
	if err != nil || !appended {
		// The confirmation slot was lost after the units were deducted; give
		// them back before failing.
		if rerr := s.ledger.RefundUnits(ctx, batch); rerr != nil {
			return nil, errors.NewInternalServerError(rerr, "Failed to restore voucher balances")
		}
		if err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to record payment confirmation")
		}
		return nil, errors.NewOperationAlreadyPerformedError()
	}

	return &models.PaymentConfirmResponse{
		AckURL:      request.AckURLPocket,
		PerformedAt: performedAt,
	}, nil
}
