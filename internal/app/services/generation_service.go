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

// ProtocolConfig carries the tunables of the voucher protocol.
type ProtocolConfig struct {
	// AttemptsBudget is the number of wrong-password redemption attempts a
	// generation request tolerates before becoming void.
	AttemptsBudget int
	// SecretLength is the voucher secret length in raw bytes (base64-encoded
	// for storage and transport).
	SecretLength int
	// PasswordLength is the length of autogenerated request passwords.
	PasswordLength int
}

func NewProtocolConfig(cfg *infrastructures.AppConfig) ProtocolConfig {
	return ProtocolConfig{
		AttemptsBudget: cfg.OTC_ATTEMPTS_BUDGET,
		SecretLength:   cfg.VOUCHER_SECRET_LENGTH,
		PasswordLength: cfg.REQUEST_PASSWORD_LENGTH,
	}
}

type GenerationService struct {
	store     RequestStore
	ledger    VoucherLedger
	random    *pkg.Random
	validator *infrastructures.Validator
	config    ProtocolConfig
}

func NewGenerationService(store RequestStore, ledger VoucherLedger, random *pkg.Random, validator *infrastructures.Validator, config ProtocolConfig) *GenerationService {
	return &GenerationService{
		store:     store,
		ledger:    ledger,
		random:    random,
		validator: validator,
		config:    config,
	}
}

// CreateGenerationRequest mints one voucher per specification and the
// generation request that owns them.
func (s *GenerationService) CreateGenerationRequest(ctx context.Context, req *models.GenerationCreateRequest) (*models.GenerationCreateResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	sourceID, err := uuid.Parse(req.SourceID)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid source ID format")
	}

	for i := range req.Vouchers {
		if req.Vouchers[i].Mode == models.CreationModeStandard && req.Vouchers[i].Location == nil {
			return nil, errors.NewBadRequestError("Standard-mode voucher requires a location")
		}
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

	now := time.Now()
	totalCount := 0
	vouchers := make([]models.Voucher, 0, len(req.Vouchers))
	for _, spec := range req.Vouchers {
		id, err := s.random.UUID()
		if err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to generate voucher ID")
		}
		secret, err := s.random.Secret(s.config.SecretLength)
		if err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to generate voucher secret")
		}

		timestamp := spec.Timestamp
		if timestamp.IsZero() {
			timestamp = now
		}

		voucher := models.Voucher{
			ID:                   id,
			GenerationRequestOtc: otc,
			Aim:                  spec.Aim,
			Secret:               secret,
			Mode:                 spec.Mode,
			Count:                spec.Count,
			InitialCount:         spec.Count,
			Timestamp:            timestamp,
		}
		if spec.Mode == models.CreationModeStandard {
			location := *spec.Location
			voucher.Position = &location
		}

		totalCount += spec.Count
		vouchers = append(vouchers, voucher)
	}

	request := &models.GenerationRequest{
		Otc:               otc,
		SourceID:          sourceID,
		Nonce:             nonce,
		Password:          password,
		BatchCount:        len(req.Vouchers),
		TotalVoucherCount: totalCount,
		Verified:          req.IsPreVerified,
		Attempts:          s.config.AttemptsBudget,
	}

	if err := s.store.InsertGeneration(ctx, request); err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create generation request")
	}
	if err := s.ledger.InsertMany(ctx, vouchers); err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create vouchers")
	}

	return &models.GenerationCreateResponse{
		Request:  request,
		Vouchers: vouchers,
		Password: password,
	}, nil
}

// VerifyGenerationRequest marks the request as verified. Verifying an
// already-verified request is a no-op.
func (s *GenerationService) VerifyGenerationRequest(ctx context.Context, otcValue string) error {
	otc, err := uuid.Parse(otcValue)
	if err != nil {
		return errors.NewOtcNotValidError()
	}

	found, err := s.store.MarkGenerationVerified(ctx, otc)
	if err != nil {
		return errors.NewInternalServerError(err, "Failed to verify generation request")
	}
	if !found {
		return errors.NewOtcNotValidError()
	}
	return nil
}

// RedeemVouchers performs the one-shot redemption of the request's vouchers.
// Checks run in protocol order; a wrong password is the only failure that
// mutates state (it consumes one retry attempt).
func (s *GenerationService) RedeemVouchers(ctx context.Context, req *models.VoucherRedeemRequest) (*models.VoucherRedeemResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	otc, err := uuid.Parse(req.Otc)
	if err != nil {
		return nil, errors.NewOtcNotValidError()
	}

	request, err := s.store.FindGenerationByOtc(ctx, otc)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to load generation request")
	}
	if request == nil || !request.Verified {
		// An unverified request is indistinguishable from an unknown one.
		return nil, errors.NewOtcNotValidError()
	}
	if request.PerformedAt != nil {
		return nil, errors.NewOperationAlreadyPerformedError()
	}
	if request.Void {
		return nil, errors.NewRequestVoidError()
	}
	if request.Attempts <= 0 {
		return nil, errors.NewRequestVoidError()
	}
	if request.Password != req.Password {
		if err := s.store.DecrementAttempts(ctx, otc); err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to record failed attempt")
		}
		return nil, errors.NewWrongPasswordError()
	}

	vouchers, err := s.ledger.FindByGenerationRequest(ctx, otc)
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to load vouchers")
	}

	deferred := false
	for i := range vouchers {
		if vouchers[i].Mode == models.CreationModeSetLocationOnRedeem && vouchers[i].Position == nil {
			deferred = true
			break
		}
	}
	if deferred && req.Location == nil {
		return nil, errors.NewLocationNotProvidedError()
	}

	performed, err := s.store.MarkPerformed(ctx, otc, time.Now())
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to redeem generation request")
	}
	if !performed {
		// A concurrent redemption won the conditional update.
		return nil, errors.NewOperationAlreadyPerformedError()
	}

	if deferred {
		if err := s.ledger.SetPositions(ctx, otc, *req.Location); err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to set voucher locations")
		}
		for i := range vouchers {
			if vouchers[i].Mode == models.CreationModeSetLocationOnRedeem && vouchers[i].Position == nil {
				location := *req.Location
				vouchers[i].Position = &location
			}
		}
	}

	return &models.VoucherRedeemResponse{
		SourceID: request.SourceID,
		Vouchers: vouchers,
	}, nil
}

// VoidGenerationRequest administratively voids the request, making it
// permanently unredeemable.
func (s *GenerationService) VoidGenerationRequest(ctx context.Context, otcValue string) error {
	otc, err := uuid.Parse(otcValue)
	if err != nil {
		return errors.NewOtcNotValidError()
	}
	if err := s.store.SetVoid(ctx, otc); err != nil {
		return errors.NewInternalServerError(err, "Failed to void generation request")
	}
	return nil
}
