package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/ratioservice/internal/contracts"
)

// Sheet names
const (
	SheetRatios = "재무비율"
	SheetGrowth = "성장률"
	SheetDebt   = "부채·유동성"
)

type series struct {
	label  string
	values []*float64
}

// WriteXLSX renders a MetricsResponse as a workbook with one sheet per section.
// Rows are metrics, columns are fiscal years (newest first); missing ratios stay blank.
func WriteXLSX(w io.Writer, resp *contracts.MetricsResponse) error {
	if resp == nil {
		return errors.New("export: nil response")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRatios); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetGrowth); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetDebt); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	fm := resp.FinancialMetrics
	gd := resp.GrowthData
	dl := resp.DebtLiquidityData

	sheets := []struct {
		name  string
		years []string
		rows  []series
	}{
		{SheetRatios, fm.Years, []series{
			{"영업이익률(%)", fm.OperatingMargin},
			{"순이익률(%)", fm.NetMargin},
			{"ROE(%)", fm.ROE},
			{"ROA(%)", fm.ROA},
		}},
		{SheetGrowth, gd.Years, []series{
			{"매출액 증가율(%)", toPtrs(gd.RevenueGrowth)},
			{"순이익 증가율(%)", toPtrs(gd.NetIncomeGrowth)},
		}},
		{SheetDebt, dl.Years, []series{
			{"부채비율(%)", dl.DebtRatio},
			{"유동비율(%)", dl.CurrentRatio},
		}},
	}

	for _, s := range sheets {
		if err := writeSheet(f, s.name, resp.CompanyName, s.years, s.rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the workbook to path
func SaveXLSX(path string, resp *contracts.MetricsResponse) error {
	if resp == nil {
		return errors.New("export: nil response")
	}

	f, err := createFile(path)
	if err != nil {
		return err
	}
	if err := WriteXLSX(f, resp); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSheet(f *excelize.File, sheet, company string, years []string, rows []series) error {
	header := make([]interface{}, 0, len(years)+1)
	header = append(header, company)
	for _, y := range years {
		header = append(header, y)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}

	for i, s := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		row := make([]interface{}, 0, len(s.values)+1)
		row = append(row, s.label)
		for _, v := range s.values {
			if v == nil {
				row = append(row, nil)
				continue
			}
			row = append(row, *v)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %s: %w", sheet, s.label, err)
		}
	}

	return f.SetColWidth(sheet, "A", "A", 20)
}

func toPtrs(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}
