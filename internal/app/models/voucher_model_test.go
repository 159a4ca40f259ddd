package models

import (
	"testing"
	"time"
)

func TestParseClaimID_Legacy(t *testing.T) {
	ref, err := ParseClaimID("12345")
	if err != nil {
		t.Fatalf("parse legacy ID: %v", err)
	}
	if !ref.Legacy || ref.LegacyID != 12345 {
		t.Errorf("expected legacy ref with ID 12345, got %+v", ref)
	}
}

func TestParseClaimID_Current(t *testing.T) {
	ref, err := ParseClaimID("3f2b1a0c-9d8e-4f7a-b6c5-d4e3f2a1b0c9")
	if err != nil {
		t.Fatalf("parse current ID: %v", err)
	}
	if ref.Legacy {
		t.Error("UUID identifier must not parse as legacy")
	}
	if ref.BaseID.String() != "3f2b1a0c-9d8e-4f7a-b6c5-d4e3f2a1b0c9" {
		t.Errorf("unexpected base ID %s", ref.BaseID)
	}
	if ref.SubIndex != 0 {
		t.Errorf("expected sub-index 0, got %d", ref.SubIndex)
	}
}

func TestParseClaimID_CurrentWithSubIndex(t *testing.T) {
	ref, err := ParseClaimID("3f2b1a0c-9d8e-4f7a-b6c5-d4e3f2a1b0c9/3")
	if err != nil {
		t.Fatalf("parse qualified ID: %v", err)
	}
	if ref.Legacy || ref.SubIndex != 3 {
		t.Errorf("expected current ref with sub-index 3, got %+v", ref)
	}
}

func TestParseClaimID_Invalid(t *testing.T) {
	for _, id := range []string{"", "not-a-uuid", "3f2b1a0c-9d8e-4f7a-b6c5-d4e3f2a1b0c9/x", "12/34/56"} {
		if _, err := ParseClaimID(id); err == nil {
			t.Errorf("expected parse error for %q", id)
		}
	}
}

func TestVoucherTryReserve(t *testing.T) {
	v := &Voucher{Secret: "c2VjcmV0", Count: 2, InitialCount: 2}

	if v.TryReserve("d3Jvbmc=") {
		t.Error("wrong secret must not reserve")
	}
	if v.Count != 2 {
		t.Errorf("failed reserve must not change count, got %d", v.Count)
	}

	if !v.TryReserve("c2VjcmV0") || !v.TryReserve("c2VjcmV0") {
		t.Fatal("expected two reserves to succeed")
	}
	if v.Count != 0 {
		t.Errorf("expected count 0, got %d", v.Count)
	}
	if v.TryReserve("c2VjcmV0") {
		t.Error("exhausted voucher must not reserve")
	}
}

func TestLegacyVoucherTryReserve_SingleUse(t *testing.T) {
	lv := &LegacyVoucher{Secret: "c2VjcmV0", Timestamp: time.Now()}

	if lv.TryReserve("d3Jvbmc=") {
		t.Error("wrong secret must not reserve")
	}
	if !lv.TryReserve("c2VjcmV0") {
		t.Fatal("expected reserve to succeed")
	}
	if !lv.Spent {
		t.Error("expected spent flag after reserve")
	}
	if lv.TryReserve("c2VjcmV0") {
		t.Error("legacy voucher is single-use")
	}
}

func TestLegacyVoucherSpendLocation(t *testing.T) {
	lv := &LegacyVoucher{Latitude: 43.72, Longitude: 12.63}
	p := lv.SpendLocation()
	if p == nil || p.Latitude != 43.72 || p.Longitude != 12.63 {
		t.Errorf("unexpected spend location %+v", p)
	}
}
