package contracts

import (
	"github.com/shopspring/decimal"
)

// StatementDivision identifies the statement a row belongs to (DART sj_div)
type StatementDivision string

const (
	DivisionBS  StatementDivision = "BS"  // 재무상태표
	DivisionIS  StatementDivision = "IS"  // 손익계산서
	DivisionCIS StatementDivision = "CIS" // 포괄손익계산서
	DivisionCF  StatementDivision = "CF"  // 현금흐름표
	DivisionSCE StatementDivision = "SCE" // 자본변동표
)

// statementNames is read-only after init
var statementNames = map[StatementDivision]string{
	DivisionBS:  "재무상태표",
	DivisionIS:  "손익계산서",
	DivisionCIS: "포괄손익계산서",
	DivisionCF:  "현금흐름표",
	DivisionSCE: "자본변동표",
}

// StatementDivisions returns every known division in display order
func StatementDivisions() []StatementDivision {
	return []StatementDivision{DivisionBS, DivisionIS, DivisionCIS, DivisionCF, DivisionSCE}
}

// Name returns the Korean statement name, or "" for an unknown division
func (d StatementDivision) Name() string {
	return statementNames[d]
}

// Valid reports whether d is a known division
func (d StatementDivision) Valid() bool {
	_, ok := statementNames[d]
	return ok
}

// RawStatementRow is one account line of an annual report as stored in financials.
// ⭐ SSOT: 원천 재무제표 행 (읽은 뒤에는 변경하지 않음)
type RawStatementRow struct {
	CompanyCode string `json:"corp_code"`
	CompanyName string `json:"corp_name"`
	StockCode   string `json:"stock_code,omitempty"`

	FiscalYear  string            `json:"bsns_year"` // 4자리 연도
	Division    StatementDivision `json:"sj_div"`
	AccountName string            `json:"account_nm"`

	CurrentAmount    decimal.NullDecimal `json:"thstrm_amount"`    // 당기
	PriorAmount      decimal.NullDecimal `json:"frmtrm_amount"`    // 전기
	PriorPriorAmount decimal.NullDecimal `json:"bfefrmtrm_amount"` // 전전기

	Ord       *int   `json:"ord,omitempty"`
	Currency  string `json:"currency"`
	ReceiptNo string `json:"rcept_no,omitempty"`
}

// Company is a DART registrant
type Company struct {
	CorpCode  string `json:"corp_code"`
	CorpName  string `json:"corp_name"`
	StockCode string `json:"stock_code"`
}

// Listed reports whether the company trades on KRX (6 digit stock code)
func (c Company) Listed() bool {
	if len(c.StockCode) != 6 {
		return false
	}
	for _, r := range c.StockCode {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// PeriodAmounts holds the three reporting columns of one account
type PeriodAmounts struct {
	Current    float64
	Prior      float64
	PriorPrior float64
}

// NormalizedYearData maps a raw account name to its amounts within one fiscal year
type NormalizedYearData map[string]PeriodAmounts

// NormalizedStatements maps fiscal year -> account name -> amounts
type NormalizedStatements map[string]NormalizedYearData
