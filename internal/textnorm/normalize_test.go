package textnorm

import "testing"

func TestNormalizeCertificateName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"milling misread", "컴퓨터응용일링기능사", "컴퓨터응용밀링기능사"},
		{"hydraulics misread", "공유암기능사", "공유압기능사"},
		{"industry misread eom", "정보처리산엄기사", "정보처리산업기사"},
		{"industry misread yeop", "전기산엽기사", "전기산업기사"},
		{"whitespace compaction", "  전기   기능사 ", "전기 기능사"},
		{"clean name untouched", "전기기능사", "전기기능사"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeCertificateName(tc.in)
			if got != tc.want {
				t.Errorf("NormalizeCertificateName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeCertificateName_Idempotent(t *testing.T) {
	inputs := []string{
		"컴퓨터응용일링기능사",
		"공유암기능사",
		"정보처리산엄기사",
		"전 기 기능사",
		"random latin text 123",
	}
	for _, in := range inputs {
		once := NormalizeCertificateName(in)
		twice := NormalizeCertificateName(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeCertificateName_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		if got := NormalizeCertificateName(in); got != "" {
			t.Errorf("expected empty string for %q, got %q", in, got)
		}
	}
}

func TestNormalizeCertificateBlob(t *testing.T) {
	t.Run("spaced milling inside context", func(t *testing.T) {
		in := "자격증명 컴퓨터응용 일 링 기능사 취득"
		want := "자격증명 컴퓨터응용밀링기능사 취득"
		if got := NormalizeCertificateBlob(in); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("spaced hydraulics inside context", func(t *testing.T) {
		in := "공 유 암 기능사"
		if got := NormalizeCertificateBlob(in); got != "공유압기능사" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("no context no correction", func(t *testing.T) {
		in := "일 링 작업 지시서"
		if got := NormalizeCertificateBlob(in); got != in {
			t.Errorf("blob corrected without context: %q", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := NormalizeCertificateBlob("  "); got != "" {
			t.Errorf("expected empty, got %q", got)
		}
	})
}

func TestNormalizeCompanyName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"leading table index", "1 (주) 이레특장", "(주) 이레특장"},
		{"stacked table indices", "1 2 이레특장", "이레특장"},
		{"index behind role prefix", "직장가입자 3 한빛물류", "한빛물류"},
		{"index exposed by date strip", "3 7 마트 2020-01-01", "마트"},
		{"role prefix stripped", "직장가입자 삼성전자", "삼성전자"},
		{"dependent prefix stripped", "피부양자 현대자동차", "현대자동차"},
		{"corporate word collapses", "주식회사 이레특장", "(주) 이레특장"},
		{"compat jamo marker collapses", "㈜이레특장", "(주)이레특장"},
		{"spaced paren marker collapses", "( 주 ) 이레특장", "(주) 이레특장"},
		{"embedded date stripped", "이레특장 2020-01-01", "이레특장"},
		{"header label leakage", "사업장명 이레특장", "이레특장"},
		{"charset restricted", "이레특장!!@#", "이레특장"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeCompanyName(tc.in)
			if got != tc.want {
				t.Errorf("NormalizeCompanyName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeCompanyName_Idempotent(t *testing.T) {
	inputs := []string{
		"1 (주) 이레특장 2020-01-01 2021-01-01",
		"직장가입자 주식회사 한빛물류",
		"㈜ 대성전기 1999.03.01",
		"이레특장",
		// Stacked leakage: each cleanup can expose the next, so these only
		// converge because normalization runs to a fixed point.
		"1 2 이레특장",
		"직장가입자 3 한빛물류",
		"3 7 마트 2020-01-01",
	}
	for _, in := range inputs {
		once := NormalizeCompanyName(in)
		twice := NormalizeCompanyName(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeCompanyName_Empty(t *testing.T) {
	if got := NormalizeCompanyName(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestCompact(t *testing.T) {
	if got := Compact("전 기 기능사"); got != "전기기능사" {
		t.Errorf("Compact = %q", got)
	}
	if got := Compact("  a\tb\nc "); got != "abc" {
		t.Errorf("Compact = %q", got)
	}
}
