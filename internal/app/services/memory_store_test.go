package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/womplatform/wom-registry/internal/app/models"
)

// memoryRequestStore implements RequestStore with the same conditional-update
// semantics the gorm store delegates to the database.
type memoryRequestStore struct {
	mu            sync.Mutex
	generations   map[uuid.UUID]models.GenerationRequest
	payments      map[uuid.UUID]models.PaymentRequest
	confirmations map[uuid.UUID][]models.PaymentConfirmation
}

func newMemoryRequestStore() *memoryRequestStore {
	return &memoryRequestStore{
		generations:   map[uuid.UUID]models.GenerationRequest{},
		payments:      map[uuid.UUID]models.PaymentRequest{},
		confirmations: map[uuid.UUID][]models.PaymentConfirmation{},
	}
}

func (s *memoryRequestStore) InsertGeneration(_ context.Context, request *models.GenerationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[request.Otc] = *request
	return nil
}

func (s *memoryRequestStore) FindGenerationByOtc(_ context.Context, otc uuid.UUID) (*models.GenerationRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.generations[otc]
	if !ok {
		return nil, nil
	}
	return &request, nil
}

func (s *memoryRequestStore) MarkGenerationVerified(_ context.Context, otc uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.generations[otc]
	if !ok {
		return false, nil
	}
	request.Verified = true
	s.generations[otc] = request
	return true, nil
}

func (s *memoryRequestStore) DecrementAttempts(_ context.Context, otc uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.generations[otc]
	if !ok || request.Attempts <= 0 {
		return nil
	}
	request.Attempts--
	s.generations[otc] = request
	return nil
}

func (s *memoryRequestStore) MarkPerformed(_ context.Context, otc uuid.UUID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.generations[otc]
	if !ok || request.PerformedAt != nil {
		return false, nil
	}
	request.PerformedAt = &at
	s.generations[otc] = request
	return true, nil
}

func (s *memoryRequestStore) SetVoid(_ context.Context, otc uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.generations[otc]
	if !ok {
		return nil
	}
	request.Void = true
	s.generations[otc] = request
	return nil
}

func (s *memoryRequestStore) InsertPayment(_ context.Context, request *models.PaymentRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[request.Otc] = *request
	return nil
}

func (s *memoryRequestStore) FindPaymentByOtc(_ context.Context, otc uuid.UUID) (*models.PaymentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.payments[otc]
	if !ok {
		return nil, nil
	}
	request.Confirmations = append([]models.PaymentConfirmation{}, s.confirmations[otc]...)
	return &request, nil
}

func (s *memoryRequestStore) MarkPaymentVerified(_ context.Context, otc uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.payments[otc]
	if !ok {
		return false, nil
	}
	request.Verified = true
	s.payments[otc] = request
	return true, nil
}

func (s *memoryRequestStore) AppendConfirmation(_ context.Context, otc uuid.UUID, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.payments[otc]
	if !ok {
		return false, nil
	}
	if !request.IsPersistent && request.ConfirmationCount > 0 {
		return false, nil
	}
	request.ConfirmationCount++
	s.payments[otc] = request
	s.confirmations[otc] = append(s.confirmations[otc], models.PaymentConfirmation{
		PaymentRequestOtc: otc,
		PerformedAt:       at,
	})
	return true, nil
}

type memoryVoucherLedger struct {
	mu      sync.Mutex
	current map[uuid.UUID]models.Voucher
	legacy  map[int64]models.LegacyVoucher
}

func newMemoryVoucherLedger() *memoryVoucherLedger {
	return &memoryVoucherLedger{
		current: map[uuid.UUID]models.Voucher{},
		legacy:  map[int64]models.LegacyVoucher{},
	}
}

func (l *memoryVoucherLedger) InsertMany(_ context.Context, vouchers []models.Voucher) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, v := range vouchers {
		l.current[v.ID] = v
	}
	return nil
}

func (l *memoryVoucherLedger) insertLegacy(vouchers ...models.LegacyVoucher) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, v := range vouchers {
		l.legacy[v.ID] = v
	}
}

func (l *memoryVoucherLedger) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.Voucher, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	found := make([]models.Voucher, 0, len(ids))
	for _, id := range ids {
		if v, ok := l.current[id]; ok {
			found = append(found, v)
		}
	}
	return found, nil
}

func (l *memoryVoucherLedger) FindLegacyByIDs(_ context.Context, ids []int64) ([]models.LegacyVoucher, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	found := make([]models.LegacyVoucher, 0, len(ids))
	for _, id := range ids {
		if v, ok := l.legacy[id]; ok {
			found = append(found, v)
		}
	}
	return found, nil
}

func (l *memoryVoucherLedger) FindByGenerationRequest(_ context.Context, otc uuid.UUID) ([]models.Voucher, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var found []models.Voucher
	for _, v := range l.current {
		if v.GenerationRequestOtc == otc {
			found = append(found, v)
		}
	}
	return found, nil
}

func (l *memoryVoucherLedger) SpendUnits(_ context.Context, batch SpendBatch) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, units := range batch.Units {
		v, ok := l.current[id]
		if !ok || v.Count < units {
			return false, nil
		}
	}
	for _, id := range batch.Legacy {
		v, ok := l.legacy[id]
		if !ok || v.Spent {
			return false, nil
		}
	}
	for id, units := range batch.Units {
		v := l.current[id]
		v.Count -= units
		l.current[id] = v
	}
	for _, id := range batch.Legacy {
		v := l.legacy[id]
		v.Spent = true
		l.legacy[id] = v
	}
	return true, nil
}

func (l *memoryVoucherLedger) RefundUnits(_ context.Context, batch SpendBatch) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, units := range batch.Units {
		v := l.current[id]
		v.Count += units
		l.current[id] = v
	}
	for _, id := range batch.Legacy {
		v := l.legacy[id]
		v.Spent = false
		l.legacy[id] = v
	}
	return nil
}

func (l *memoryVoucherLedger) SetPositions(_ context.Context, otc uuid.UUID, position models.GeoPosition) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, v := range l.current {
		if v.GenerationRequestOtc == otc && v.Mode == models.CreationModeSetLocationOnRedeem && v.Position == nil {
			p := position
			v.Position = &p
			l.current[id] = v
		}
	}
	return nil
}
