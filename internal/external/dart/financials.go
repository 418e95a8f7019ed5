package dart

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/ratioservice/internal/contracts"
)

// ReportAnnual is the reprt_code of a 사업보고서
const ReportAnnual = "11011"

// Financial statement divisions (fs_div), in preference order
var fsDivisions = []string{"CFS", "OFS"} // 연결 우선, 없으면 별도

// FinancialResponse is the fnlttSinglAcnt.json envelope
type FinancialResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	List    []FinancialItem `json:"list"`
}

// FinancialItem is one key account line of a single-company report
type FinancialItem struct {
	ReceiptNo        string `json:"rcept_no"`
	BusinessYear     string `json:"bsns_year"`
	CorpCode         string `json:"corp_code"`
	StockCode        string `json:"stock_code"`
	ReportCode       string `json:"reprt_code"`
	AccountName      string `json:"account_nm"`
	FsDiv            string `json:"fs_div"`
	SjDiv            string `json:"sj_div"`
	CurrentAmount    string `json:"thstrm_amount"`
	PriorAmount      string `json:"frmtrm_amount"`
	PriorPriorAmount string `json:"bfefrmtrm_amount"`
	Ord              string `json:"ord"`
	Currency         string `json:"currency"`
}

// FinancialStatements is the first report found for a company
type FinancialStatements struct {
	CorpCode string
	Year     int
	FsDiv    string
	Items    []FinancialItem
}

// FetchFinancialStatements fetches the annual key accounts of a company.
// It tries year, year-1, year-2 (year <= 0 means last year) and CFS before OFS,
// returning the first report with data. No report at all is (nil, nil).
// ⭐ SSOT: DART 재무제표 호출은 이 함수에서만
func (c *Client) FetchFinancialStatements(ctx context.Context, corpCode string, year int) (*FinancialStatements, error) {
	if year <= 0 {
		year = time.Now().Year() - 1
	}

	for _, tryYear := range []int{year, year - 1, year - 2} {
		for _, fsDiv := range fsDivisions {
			items, err := c.fetchSingleAccounts(ctx, corpCode, tryYear, fsDiv)
			if err != nil {
				return nil, err
			}
			if len(items) == 0 {
				c.logger.WithFields(map[string]interface{}{
					"corp_code": corpCode,
					"year":      tryYear,
					"fs_div":    fsDiv,
				}).Debug("No DART report")
				continue
			}

			c.logger.WithFields(map[string]interface{}{
				"corp_code": corpCode,
				"year":      tryYear,
				"fs_div":    fsDiv,
				"items":     len(items),
			}).Info("Fetched DART financial statements")
			return &FinancialStatements{CorpCode: corpCode, Year: tryYear, FsDiv: fsDiv, Items: items}, nil
		}
	}

	c.logger.WithField("corp_code", corpCode).Warn("No annual report in the last 3 years")
	return nil, nil
}

func (c *Client) fetchSingleAccounts(ctx context.Context, corpCode string, year int, fsDiv string) ([]FinancialItem, error) {
	params := url.Values{}
	params.Set("corp_code", corpCode)
	params.Set("bsns_year", strconv.Itoa(year))
	params.Set("reprt_code", ReportAnnual)
	params.Set("fs_div", fsDiv)

	var result FinancialResponse
	if err := c.http.GetJSON(ctx, c.endpoint("fnlttSinglAcnt.json", params), &result); err != nil {
		return nil, fmt.Errorf("fetch financial statements %s/%d: %w", corpCode, year, err)
	}

	// Status codes:
	// 000 = success
	// 013 = no data (ok)
	// others = error
	switch result.Status {
	case StatusOK:
	case StatusNoData:
		return nil, nil
	default:
		return nil, &APIError{Status: result.Status, Message: result.Message}
	}

	// 한 응답에 CFS/OFS가 섞여 오는 경우가 있어 요청한 구분만 남김
	items := make([]FinancialItem, 0, len(result.List))
	for _, item := range result.List {
		if item.FsDiv == "" || item.FsDiv == fsDiv {
			items = append(items, item)
		}
	}
	return items, nil
}

// ParseAmount parses a DART amount string ("1,234,567", "-1,000").
// Empty and "-" are null.
func ParseAmount(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return decimal.NewNullDecimal(d), nil
}

// ToStatementRows converts report items into raw statement rows of a company
func (fs *FinancialStatements) ToStatementRows(company contracts.Company) ([]contracts.RawStatementRow, error) {
	if fs == nil {
		return nil, nil
	}

	rows := make([]contracts.RawStatementRow, 0, len(fs.Items))
	var errs []error
	for _, item := range fs.Items {
		row, err := item.toRow(company, fs.Year)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rows = append(rows, row)
	}
	return rows, errors.Join(errs...)
}

func (item FinancialItem) toRow(company contracts.Company, year int) (contracts.RawStatementRow, error) {
	row := contracts.RawStatementRow{
		CompanyCode: company.CorpCode,
		CompanyName: company.CorpName,
		StockCode:   company.StockCode,
		FiscalYear:  item.BusinessYear,
		Division:    contracts.StatementDivision(item.SjDiv),
		AccountName: strings.TrimSpace(item.AccountName),
		Currency:    item.Currency,
		ReceiptNo:   item.ReceiptNo,
	}
	if row.FiscalYear == "" {
		row.FiscalYear = strconv.Itoa(year)
	}

	var err error
	if row.CurrentAmount, err = ParseAmount(item.CurrentAmount); err != nil {
		return row, fmt.Errorf("%s %s: %w", item.SjDiv, item.AccountName, err)
	}
	if row.PriorAmount, err = ParseAmount(item.PriorAmount); err != nil {
		return row, fmt.Errorf("%s %s: %w", item.SjDiv, item.AccountName, err)
	}
	if row.PriorPriorAmount, err = ParseAmount(item.PriorPriorAmount); err != nil {
		return row, fmt.Errorf("%s %s: %w", item.SjDiv, item.AccountName, err)
	}
	if ord, err := strconv.Atoi(strings.TrimSpace(item.Ord)); err == nil {
		row.Ord = &ord
	}
	return row, nil
}
