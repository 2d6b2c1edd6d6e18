package models

import (
	"testing"
	"time"
)

func TestSelectionListRoundTrip(t *testing.T) {
	cases := [][]string{
		{"失眠", "頭痛"},
		{},
		nil,
	}
	for _, items := range cases {
		encoded := encodeSelectionList(items)
		if encoded == "" {
			t.Fatalf("encodeSelectionList(%v) produced empty string", items)
		}
		decoded := decodeSelectionList(encoded)
		if len(decoded) != len(items) {
			t.Fatalf("round trip of %v came back as %v", items, decoded)
		}
		for i := range items {
			if decoded[i] != items[i] {
				t.Fatalf("round trip of %v came back as %v", items, decoded)
			}
		}
	}
}

func TestDecodeSelectionListTolerant(t *testing.T) {
	for _, raw := range []string{"", "not json", "null", "{}"} {
		if got := decodeSelectionList(raw); len(got) != 0 {
			t.Errorf("decodeSelectionList(%q) = %v, want empty", raw, got)
		}
	}
}

func TestAnnotateNote(t *testing.T) {
	cases := []struct {
		note  string
		label string
		value string
		want  string
	}{
		{"", "轉帳碼", "1234", "轉帳碼: 1234"},
		{"VIP客戶", "轉帳碼", "1234", "轉帳碼: 1234, VIP客戶"},
		{"轉帳碼: 9999", "轉帳碼", "1234", "轉帳碼: 1234"},
		{"轉帳碼: 9999, 其他", "轉帳碼", "1234", "轉帳碼: 1234, 其他"},
	}
	for _, tc := range cases {
		if got := annotateNote(tc.note, tc.label, tc.value); got != tc.want {
			t.Errorf("annotateNote(%q, %q, %q) = %q, want %q", tc.note, tc.label, tc.value, got, tc.want)
		}
	}
}

func TestDatePtrRoundTrip(t *testing.T) {
	raw := "2026-08-28"
	parsed, err := ParseDatePtr(&raw)
	if err != nil {
		t.Fatalf("ParseDatePtr: %v", err)
	}
	if got := FormatDatePtr(parsed); got == nil || *got != raw {
		t.Fatalf("round trip of %q came back as %v", raw, got)
	}

	if parsed, err := ParseDatePtr(nil); err != nil || parsed != nil {
		t.Fatalf("ParseDatePtr(nil) = %v, %v", parsed, err)
	}
	if got := FormatDatePtr(nil); got != nil {
		t.Fatalf("FormatDatePtr(nil) = %v, want nil", got)
	}

	bad := "28/08/2026"
	if _, err := ParseDatePtr(&bad); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestFormatROCDate(t *testing.T) {
	d := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	if got := FormatROCDate(d); got != "115/08/28" {
		t.Fatalf("FormatROCDate = %q, want 115/08/28", got)
	}
}
