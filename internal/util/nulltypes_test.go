// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"database/sql"
	"testing"
	"time"
)

func TestNullInt64Conversions(t *testing.T) {
	if got := NullInt64FromPtr(nil); got.Valid {
		t.Errorf("NullInt64FromPtr(nil) = %+v", got)
	}
	v := int64(42)
	if got := NullInt64FromPtr(&v); !got.Valid || got.Int64 != 42 {
		t.Errorf("NullInt64FromPtr(&42) = %+v", got)
	}

	if Int64Ptr(sql.NullInt64{}) != nil {
		t.Error("Int64Ptr(invalid) should be nil")
	}
	if p := Int64Ptr(sql.NullInt64{Int64: 7, Valid: true}); p == nil || *p != 7 {
		t.Errorf("Int64Ptr(7) = %v", p)
	}
}

func TestNullStringConversions(t *testing.T) {
	if got := NullStringFromValue(""); got.Valid {
		t.Errorf("NullStringFromValue(\"\") = %+v", got)
	}
	if got := NullStringFromValue("x"); !got.Valid || got.String != "x" {
		t.Errorf("NullStringFromValue(x) = %+v", got)
	}

	if StringPtr(sql.NullString{}) != nil {
		t.Error("StringPtr(invalid) should be nil")
	}
	if p := StringPtr(sql.NullString{String: "a", Valid: true}); p == nil || *p != "a" {
		t.Errorf("StringPtr(a) = %v", p)
	}
}

func TestNullTimeConversions(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if got := NullTimeFromPtr(nil); got.Valid {
		t.Error("NullTimeFromPtr(nil) should be invalid")
	}
	if got := NullTimeFromPtr(&now); !got.Valid || !got.Time.Equal(now) {
		t.Errorf("NullTimeFromPtr(&now) = %+v", got)
	}
	local := now.In(time.FixedZone("CET", 3600))
	if got := NullTimeFromPtr(&local); got.Time.Location() != time.UTC {
		t.Errorf("NullTimeFromPtr should convert to UTC, got %v", got.Time.Location())
	}
	if TimePtr(sql.NullTime{}) != nil {
		t.Error("TimePtr(invalid) should be nil")
	}
	if p := TimePtr(sql.NullTime{Time: now, Valid: true}); p == nil || !p.Equal(now) {
		t.Errorf("TimePtr(now) = %v", p)
	}
}
