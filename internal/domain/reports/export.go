package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX renders a consumption report as an xlsx workbook.
func ExportXLSX(rows []ConsumptionRow, f Filter) ([]byte, string, error) {
	x := excelize.NewFile()
	defer func() { _ = x.Close() }()

	sheet := x.GetSheetName(x.GetActiveSheetIndex())

	header := []interface{}{"material_id", "material_name", "usage_unit", "total_consumed"}
	if err := x.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, "", err
	}

	rowIdx := 2
	for _, r := range rows {
		line := []interface{}{
			r.MaterialID.String(),
			r.MaterialName,
			r.UsageUnit,
			r.Total,
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return nil, "", err
		}
		if err := x.SetSheetRow(sheet, cell, &line); err != nil {
			return nil, "", err
		}
		rowIdx++
	}

	buf := &bytes.Buffer{}
	if err := x.Write(buf); err != nil {
		return nil, "", err
	}

	period := f.Period
	if period == "" {
		period = PeriodMonth
	}
	name := fmt.Sprintf("consumo_%s_%s.xlsx", period, time.Now().Format("20060102_150405"))
	return buf.Bytes(), name, nil
}
