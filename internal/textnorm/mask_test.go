package textnorm

import (
	"strings"
	"testing"
)

func TestMaskSensitiveText_ResidentNumber(t *testing.T) {
	got := MaskSensitiveText("123456-1234567")
	if got != "123456-*******" {
		t.Errorf("got %q, want 123456-*******", got)
	}
}

func TestMaskSensitiveText_LongDigitRun(t *testing.T) {
	got := MaskSensitiveText("01012345678901")
	if got != strings.Repeat("*", 14) {
		t.Errorf("got %q, want 14 asterisks", got)
	}
}

func TestMaskSensitiveText_UnhyphenatedRRN(t *testing.T) {
	// 13 bare digits fall under the long-run rule and are fully redacted.
	got := MaskSensitiveText("9001011234567")
	if got != strings.Repeat("*", 13) {
		t.Errorf("got %q", got)
	}
}

func TestMaskSensitiveText_ShortNumbersUntouched(t *testing.T) {
	in := "사업자번호 123-45-67890 전화 02-1234-5678"
	if got := MaskSensitiveText(in); got != in {
		t.Errorf("short digit groups must survive: %q", got)
	}
}

func TestMaskSensitiveText_InContext(t *testing.T) {
	in := "성명 홍길동 주민등록번호 900101-2345678 주소 서울"
	want := "성명 홍길동 주민등록번호 900101-******* 주소 서울"
	if got := MaskSensitiveText(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMaskSensitiveText_Empty(t *testing.T) {
	if got := MaskSensitiveText(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
