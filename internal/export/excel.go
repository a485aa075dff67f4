package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rusunawa/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Exporter writes tenant booking history to xlsx files for download.
type Exporter struct {
	dir    string
	logger *zerolog.Logger
}

func NewExporter(dir string, logger *zerolog.Logger) *Exporter {
	return &Exporter{dir: dir, logger: logger}
}

// BookingHistory создает Excel файл с историей бронирований арендатора
func (e *Exporter) BookingHistory(tenantID int64, bookings []models.Booking, payments []models.Payment) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Riwayat Booking"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Kamar", "Tipe Sewa", "Check-in", "Check-out", "Status", "Biaya", "Dibuat"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, b := range bookings {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), b.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), b.RoomName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), rentalTypeLabel(b.RentalType))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), b.StartDate.Format("02.01.2006"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), b.EndDate.Format("02.01.2006"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), b.Status)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), b.Amount)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), b.CreatedAt.Format("02.01.2006 15:04"))

		styleID, err := e.statusStyle(f, b.Status)
		if err == nil {
			_ = f.SetCellStyle(sheetName, fmt.Sprintf("F%d", row), fmt.Sprintf("F%d", row), styleID)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "B", 25)
	_ = f.SetColWidth(sheetName, "C", "F", 14)
	_ = f.SetColWidth(sheetName, "G", "H", 18)

	e.writePaymentsSheet(f, payments)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("riwayat_%d_%s.xlsx", tenantID, time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.dir, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Int64("tenant_id", tenantID).Msg("history export created")
	return filePath, nil
}

func (e *Exporter) writePaymentsSheet(f *excelize.File, payments []models.Payment) {
	if len(payments) == 0 {
		return
	}

	sheetName := "Pembayaran"
	if _, err := f.NewSheet(sheetName); err != nil {
		e.logger.Warn().Err(err).Msg("failed to create payments sheet")
		return
	}

	headers := []string{"ID", "Booking", "Jumlah", "Status", "Metode", "Dibayar"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	for i, p := range payments {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), p.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), p.BookingID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), p.Amount)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), p.Status)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), p.Method)
		if p.PaidAt != nil {
			_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), p.PaidAt.Format("02.01.2006 15:04"))
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 10)
	_ = f.SetColWidth(sheetName, "C", "F", 18)
}

func (e *Exporter) statusStyle(f *excelize.File, status string) (int, error) {
	var color string
	switch status {
	case "approved", "checked_in", "completed":
		color = "#C6EFCE"
	case "pending":
		color = "#FFEB9C"
	case "rejected", "cancelled":
		color = "#FFC7CE"
	default:
		color = "#FFFFFF"
	}

	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}

func rentalTypeLabel(rentalType string) string {
	switch rentalType {
	case models.RentalDaily:
		return "Harian"
	case models.RentalMonthly:
		return "Bulanan"
	default:
		return rentalType
	}
}
