package formatters

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"jobparser/internal/types"
)

const xlsxSheet = "Postings"

var xlsxHeaders = []string{
	"Title",
	"Company",
	"Location",
	"Job Type",
	"Experience",
	"Skills",
	"Salary Min",
	"Salary Max",
	"Currency",
	"Pay Rate",
	"Benefits",
	"Education",
	"Category",
	"Priority",
	"Work Authorization",
	"Description",
}

// XLSXFormatter writes records as rows of a spreadsheet
type XLSXFormatter struct{}

func (f *XLSXFormatter) Format(data any) ([]byte, error) {
	var records []types.Record
	switch v := data.(type) {
	case types.Record:
		records = []types.Record{v}
	case types.ParseResult:
		records = []types.Record{v.Record}
	case []types.Record:
		records = v
	default:
		return nil, fmt.Errorf("xlsx output supports records only, got %T", data)
	}
	return RecordsXLSX(records)
}

func (f *XLSXFormatter) SupportedType() string {
	return typeAny
}

// RecordsXLSX builds a workbook with one row per record
func RecordsXLSX(records []types.Record) ([]byte, error) {
	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	if err := wb.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = wb.SetCellValue(xlsxSheet, cell, h)
	}

	for i, rec := range records {
		row := i + 2
		values := []any{
			rec.JobTitle,
			rec.CompanyName,
			rec.JobLocation,
			strings.Join(rec.JobType, ", "),
			rec.ExperienceRange,
			strings.Join(rec.Skills, ", "),
			rec.Salary.Min,
			rec.Salary.Max,
			rec.Salary.Currency,
			rec.Salary.PayRate,
			strings.Join(rec.Benefits, ", "),
			rec.EducationLevel,
			rec.JobCategory,
			rec.Priority,
			strings.Join(rec.WorkAuth, ", "),
			rec.JobDescription,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = wb.SetCellValue(xlsxSheet, cell, v)
		}
	}

	_ = wb.SetColWidth(xlsxSheet, "A", "C", 28)
	_ = wb.SetColWidth(xlsxSheet, "F", "F", 40)
	_ = wb.SetColWidth(xlsxSheet, "P", "P", 60)

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
