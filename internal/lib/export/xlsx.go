// Package export формирует печатные (HTML) и табличные (XLSX) представления
// текущего журнала и исторических отчётов.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/magabrotheeeer/commission-ledger/internal/lib/isodate"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

// ContentTypeXLSX: MIME-тип выгрузки.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheet = "Sheet1"

var headers = []string{"Data", "Plano", "Cliente", "Comissão (%)", "Comissão (R$)", "Observações"}

type row struct {
	date, description, client string
	percent, commission       float64
	notes                     *string
}

// WriteLiveXLSX выгружает текущий журнал в XLSX.
func WriteLiveXLSX(w io.Writer, live *models.LiveReport) error {
	const op = "export.WriteLiveXLSX"
	rows := make([]row, 0, len(live.Installations))
	for _, inst := range live.Installations {
		rows = append(rows, row{
			date:        inst.InstalledOn,
			description: inst.Description,
			client:      inst.ClientLogin,
			percent:     inst.CommissionPercent,
			commission:  inst.Commission,
			notes:       inst.Notes,
		})
	}
	if err := writeXLSX(w, "Relatório atual", rows, live.TotalCommission); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// WriteReportXLSX выгружает исторический отчёт в XLSX.
func WriteReportXLSX(w io.Writer, report *models.Report) error {
	const op = "export.WriteReportXLSX"
	rows := make([]row, 0, len(report.Snapshot))
	for _, item := range report.Snapshot {
		rows = append(rows, row{
			date:        item.InstalledOn,
			description: item.Description,
			client:      item.ClientLogin,
			percent:     item.CommissionPercent,
			commission:  item.Commission,
			notes:       item.Notes,
		})
	}
	title := fmt.Sprintf("Período %s a %s", isodate.Display(report.PeriodStart), isodate.Display(report.PeriodEnd))
	if err := writeXLSX(w, title, rows, report.TotalCommission); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func writeXLSX(w io.Writer, title string, rows []row, total float64) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, r := range rows {
		line := i + 3
		notes := ""
		if r.notes != nil {
			notes = *r.notes
		}
		values := []any{isodate.Display(r.date), r.description, r.client, r.percent, r.commission, notes}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, line)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	totalLine := len(rows) + 3
	if err := f.SetCellValue(sheet, fmt.Sprintf("D%d", totalLine), "Total"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, fmt.Sprintf("E%d", totalLine), total); err != nil {
		return err
	}

	return f.Write(w)
}
