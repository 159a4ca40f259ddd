package services

import (
	"strings"
	"time"

	"github.com/womplatform/wom-registry/internal/app/models"
)

// DemoAimPrefix marks demo vouchers, which only spend against a filter that
// explicitly asks for them.
const DemoAimPrefix = "0"

// MatchFilter reports whether a voucher satisfies every present clause of a
// payment filter. A nil filter behaves as a filter with no clauses.
func MatchFilter(v models.Spendable, f *models.Filter, now time.Time) bool {
	var empty models.Filter
	if f == nil {
		f = &empty
	}

	aim := v.AimCode()
	if f.Aim == nil {
		if strings.HasPrefix(aim, DemoAimPrefix) {
			return false
		}
	} else if !strings.HasPrefix(aim, *f.Aim) {
		return false
	}

	if f.Bounds != nil {
		position := v.SpendLocation()
		if position == nil || !f.Bounds.Contains(*position) {
			return false
		}
	}

	if f.MaxAge != nil {
		maxAge := time.Duration(*f.MaxAge) * 24 * time.Hour
		if now.Sub(v.MintedAt()) > maxAge {
			return false
		}
	}

	return true
}
