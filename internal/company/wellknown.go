package company

// wellKnownCompanies are employers whose exact normalized name gets the top
// ranking boost. Matching is exact, after normalization.
var wellKnownCompanies = map[string]struct{}{
	"삼성전자":     {},
	"삼성전자(주)":  {},
	"현대자동차":    {},
	"현대자동차(주)": {},
	"기아":       {},
	"(주)기아":    {},
	"엘지전자":     {},
	"LG전자":     {},
	"포스코":      {},
	"(주)포스코":   {},
	"한국전력공사":   {},
	"네이버":      {},
	"(주)네이버":   {},
	"카카오":      {},
	"(주)카카오":   {},
	"현대중공업":    {},
	"대한항공":     {},
	"(주)대한항공":  {},
}

// knownCompanyTokens boost names containing a recognizable group or brand
// fragment. Compared case-insensitively.
var knownCompanyTokens = []string{
	"삼성", "현대", "기아", "엘지", "LG", "SK", "롯데", "한화",
	"포스코", "두산", "CJ", "GS", "KT", "네이버", "카카오",
	"중공업", "전자", "자동차", "건설", "물산",
}
