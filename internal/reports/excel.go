package reports

import (
	"fmt"

	"acente-backend/internal/finance"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary   = "Özet"
	sheetFeed      = "İşlemler"
	sheetCustomers = "Müşteriler"
)

var rowTypeLabels = map[string]string{
	finance.RowTour:         "Tur",
	finance.RowTourExpenses: "Tur Giderleri",
	finance.RowIncome:       "Gelir",
	finance.RowExpense:      "Gider",
}

// Workbook yazdırılabilir raporun içeriği
type Workbook struct {
	Title     string
	Summary   finance.Summary
	Feed      finance.Feed
	Customers []finance.CustomerSummary
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeHeader(f *excelize.File, sheet string, style int, headers []any) error {
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

// Build özet, işlem akışı ve müşteri sayfalarından oluşan Excel dosyası üretir.
// Çağıran dosyayı kapatmalıdır.
func (w Workbook) Build() (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{sheetFeed, sheetCustomers} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	steps := []func(*excelize.File, int) error{w.writeSummary, w.writeFeed, w.writeCustomers}
	for _, step := range steps {
		if err := step(f, bold); err != nil {
			f.Close()
			return nil, fmt.Errorf("excel yazılamadı: %w", err)
		}
	}
	return f, nil
}

func (w Workbook) writeSummary(f *excelize.File, bold int) error {
	err := writeHeader(f, sheetSummary, bold, []any{
		"Para Birimi", "Gelir", "Tur Geliri", "Toplam Gelir",
		"Gider", "Tur Giderleri", "Diğer Giderler", "Net Kâr",
	})
	if err != nil {
		return err
	}

	for i, s := range w.Summary.Ordered() {
		err := writeRow(f, sheetSummary, i+2, []any{
			s.Currency,
			s.Income.InexactFloat64(),
			s.TourIncome.InexactFloat64(),
			s.TotalIncome.InexactFloat64(),
			s.Expense.InexactFloat64(),
			s.TourExpenses.InexactFloat64(),
			s.OtherExpenses.InexactFloat64(),
			s.TotalProfit.InexactFloat64(),
		})
		if err != nil {
			return err
		}
	}

	if w.Title != "" {
		row := len(w.Summary.Currencies) + 3
		if err := writeRow(f, sheetSummary, row, []any{w.Title}); err != nil {
			return err
		}
	}
	return nil
}

func (w Workbook) writeFeed(f *excelize.File, bold int) error {
	err := writeHeader(f, sheetFeed, bold, []any{
		"Tarih", "Referans", "Tip", "Müşteri", "Açıklama", "Durum", "Tutar", "Satış Bedeli",
	})
	if err != nil {
		return err
	}

	for i, r := range w.Feed.Rows {
		nominal := ""
		if r.Kind == finance.FeedKindTour {
			nominal = finance.FormatMoney(r.NominalAmount, r.Currency)
		}
		err := writeRow(f, sheetFeed, i+2, []any{
			r.Date.Format(finance.DateLayout),
			r.Reference,
			rowTypeLabels[r.Type],
			r.CustomerName,
			r.Description,
			string(r.Status),
			formatAmounts(r.Amounts),
			nominal,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w Workbook) writeCustomers(f *excelize.File, bold int) error {
	err := writeHeader(f, sheetCustomers, bold, []any{
		"Müşteri", "Telefon", "Tur Sayısı", "Tahsil Edilen", "Satış Toplamı",
	})
	if err != nil {
		return err
	}

	for i, cs := range w.Customers {
		err := writeRow(f, sheetCustomers, i+2, []any{
			cs.CustomerName,
			cs.Phone,
			cs.TourCount,
			formatAmounts(cs.Revenue),
			formatAmounts(cs.Nominal),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
