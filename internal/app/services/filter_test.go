package services

import (
	"testing"
	"time"

	"github.com/womplatform/wom-registry/internal/app/models"
)

func testVoucher(aim string, position *models.GeoPosition, minted time.Time) *models.Voucher {
	return &models.Voucher{
		Aim:       aim,
		Secret:    "c2VjcmV0",
		Mode:      models.CreationModeStandard,
		Count:     1,
		Timestamp: minted,
		Position:  position,
	}
}

func TestMatchFilter_NilFilterAcceptsOrdinaryVouchers(t *testing.T) {
	v := testVoucher("H", &models.GeoPosition{Latitude: 43, Longitude: 12}, time.Now())
	if !MatchFilter(v, nil, time.Now()) {
		t.Error("nil filter should accept an ordinary voucher")
	}
}

func TestMatchFilter_DemoVouchersNeedExplicitDemoFilter(t *testing.T) {
	v := testVoucher("0H", nil, time.Now())

	if MatchFilter(v, nil, time.Now()) {
		t.Error("demo voucher must not match a nil filter")
	}
	if MatchFilter(v, &models.Filter{}, time.Now()) {
		t.Error("demo voucher must not match a filter without an aim clause")
	}
	if !MatchFilter(v, &models.Filter{Aim: strPtr("0")}, time.Now()) {
		t.Error("demo voucher should match an explicit demo filter")
	}
}

func TestMatchFilter_AimPrefix(t *testing.T) {
	now := time.Now()
	cases := []struct {
		aim    string
		prefix string
		want   bool
	}{
		{"H", "H", true},
		{"IM", "I", true},
		{"IM", "IM", true},
		{"H", "I", false},
		{"E", "EX", false},
	}
	for _, c := range cases {
		v := testVoucher(c.aim, nil, now)
		if got := MatchFilter(v, &models.Filter{Aim: strPtr(c.prefix)}, now); got != c.want {
			t.Errorf("aim %q against prefix %q: expected %v, got %v", c.aim, c.prefix, c.want, got)
		}
	}
}

func TestMatchFilter_Bounds(t *testing.T) {
	now := time.Now()
	bounds := &models.Bounds{
		LeftTop:     models.GeoPosition{Latitude: 47, Longitude: 6},
		RightBottom: models.GeoPosition{Latitude: 36, Longitude: 19},
	}
	filter := &models.Filter{Aim: strPtr("H"), Bounds: bounds}

	inside := testVoucher("H", &models.GeoPosition{Latitude: 43, Longitude: 12}, now)
	if !MatchFilter(inside, filter, now) {
		t.Error("expected position inside bounds to match")
	}

	outside := testVoucher("H", &models.GeoPosition{Latitude: 52, Longitude: 12}, now)
	if MatchFilter(outside, filter, now) {
		t.Error("expected position outside bounds to be rejected")
	}

	noPosition := testVoucher("H", nil, now)
	if MatchFilter(noPosition, filter, now) {
		t.Error("expected voucher without position to fail a bounds clause")
	}
}

func TestMatchFilter_BoundsAcrossAntimeridian(t *testing.T) {
	now := time.Now()
	// Box spanning from 170°E to -170°W across the date line
	filter := &models.Filter{
		Aim: strPtr("H"),
		Bounds: &models.Bounds{
			LeftTop:     models.GeoPosition{Latitude: 10, Longitude: 170},
			RightBottom: models.GeoPosition{Latitude: -10, Longitude: -170},
		},
	}

	inside := testVoucher("H", &models.GeoPosition{Latitude: 0, Longitude: 179}, now)
	if !MatchFilter(inside, filter, now) {
		t.Error("expected 179°E to fall inside the wrapped box")
	}
	alsoInside := testVoucher("H", &models.GeoPosition{Latitude: 0, Longitude: -175}, now)
	if !MatchFilter(alsoInside, filter, now) {
		t.Error("expected 175°W to fall inside the wrapped box")
	}
	outside := testVoucher("H", &models.GeoPosition{Latitude: 0, Longitude: 0}, now)
	if MatchFilter(outside, filter, now) {
		t.Error("expected 0° to fall outside the wrapped box")
	}
}

func TestMatchFilter_MaxAge(t *testing.T) {
	now := time.Now()
	filter := &models.Filter{Aim: strPtr("H"), MaxAge: intPtr(7)}

	fresh := testVoucher("H", nil, now.AddDate(0, 0, -3))
	if !MatchFilter(fresh, filter, now) {
		t.Error("expected 3-day-old voucher to match a 7-day max age")
	}

	stale := testVoucher("H", nil, now.AddDate(0, 0, -8))
	if MatchFilter(stale, filter, now) {
		t.Error("expected 8-day-old voucher to fail a 7-day max age")
	}
}

func TestMatchFilter_ClausesAreIndependent(t *testing.T) {
	now := time.Now()
	full := &models.Filter{
		Aim: strPtr("H"),
		Bounds: &models.Bounds{
			LeftTop:     models.GeoPosition{Latitude: 47, Longitude: 6},
			RightBottom: models.GeoPosition{Latitude: 36, Longitude: 19},
		},
		MaxAge: intPtr(30),
	}
	good := testVoucher("H", &models.GeoPosition{Latitude: 43, Longitude: 12}, now.AddDate(0, 0, -1))
	if !MatchFilter(good, full, now) {
		t.Fatal("expected voucher satisfying every clause to match")
	}

	// Breaking exactly one clause at a time must reject.
	badAim := testVoucher("X", good.Position, good.Timestamp)
	if MatchFilter(badAim, full, now) {
		t.Error("aim clause did not reject")
	}
	badPosition := testVoucher("H", &models.GeoPosition{Latitude: 0, Longitude: 0}, good.Timestamp)
	if MatchFilter(badPosition, full, now) {
		t.Error("bounds clause did not reject")
	}
	badAge := testVoucher("H", good.Position, now.AddDate(0, 0, -60))
	if MatchFilter(badAge, full, now) {
		t.Error("max-age clause did not reject")
	}
}
