package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hotel/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	bookingsSheet  = "Bookings"
	occupancySheet = "Occupancy"

	// maxOccupancyDays is the widest grid a sheet can hold: one column per day after the room column.
	maxOccupancyDays = excelize.MaxColumns - 1
)

// ErrRangeTooLong is returned for an export period longer than the exporter allows.
var ErrRangeTooLong = errors.New("export period is too long")

// LedgerReader is the read side of the ledger the exporter needs.
type LedgerReader interface {
	ListBookings(ctx context.Context) ([]models.Booking, error)
	ListBookingsInRange(ctx context.Context, r models.DateRange) ([]models.Booking, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type BillCalculator interface {
	ComputeBill(ctx context.Context, booking *models.Booking) (*models.Bill, error)
}

// Exporter writes the ledger to xlsx files.
type Exporter struct {
	ledger LedgerReader
	bills  BillCalculator
	dir     string
	maxDays int
	now     func() time.Time
	logger *zerolog.Logger
}

// NewExporter limits export periods to maxDays; zero or an oversized value means the sheet limit.
func NewExporter(ledger LedgerReader, bills BillCalculator, dir string, maxDays int, logger *zerolog.Logger) *Exporter {
	if maxDays <= 0 || maxDays > maxOccupancyDays {
		maxDays = maxOccupancyDays
	}
	return &Exporter{ledger: ledger, bills: bills, dir: dir, maxDays: maxDays, now: time.Now, logger: logger}
}

// ExportBookings writes every booking with its bill. When r is set only
// bookings overlapping r are exported and an occupancy grid is added.
func (e *Exporter) ExportBookings(ctx context.Context, r *models.DateRange) (string, error) {
	if r != nil && r.Days() > e.maxDays {
		return "", fmt.Errorf("%w: %d days, at most %d", ErrRangeTooLong, r.Days(), e.maxDays)
	}

	// Создаем папку для экспорта, если не существует
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	var (
		bookings []models.Booking
		err      error
	)
	if r != nil {
		bookings, err = e.ledger.ListBookingsInRange(ctx, *r)
	} else {
		bookings, err = e.ledger.ListBookings(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %w", err)
	}

	rooms, err := e.ledger.ListRooms(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting rooms: %w", err)
	}
	users, err := e.ledger.ListUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting users: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := e.writeBookings(ctx, f, bookings, roomIndex(rooms), userIndex(users)); err != nil {
		return "", err
	}

	if r != nil {
		if _, err := f.NewSheet(occupancySheet); err != nil {
			return "", fmt.Errorf("error creating sheet: %w", err)
		}
		if err := writeOccupancy(f, *r, rooms, bookings); err != nil {
			return "", err
		}
	}

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s.xlsx", e.now().Format("20060102_150405"))
	if r != nil {
		fileName = fmt.Sprintf("bookings_%s_to_%s.xlsx", r.From.Format(models.DateLayout), r.To.Format(models.DateLayout))
	}
	filePath := filepath.Join(e.dir, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel file created")
	return filePath, nil
}

var bookingHeaders = []string{"ID", "Room", "Guest", "From", "To", "Status", "Days", "Room cost", "Services", "Total"}

func (e *Exporter) writeBookings(
	ctx context.Context,
	f *excelize.File,
	bookings []models.Booking,
	rooms map[int64]models.Room,
	users map[int64]models.User,
) error {
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range bookingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(bookingsSheet, cell, h)
		_ = f.SetCellStyle(bookingsSheet, cell, cell, headerStyle)
	}

	for i := range bookings {
		b := bookings[i]
		bill, err := e.bills.ComputeBill(ctx, &b)
		if err != nil {
			return fmt.Errorf("error computing bill for booking %d: %w", b.ID, err)
		}

		row := i + 2
		values := []interface{}{
			b.ID,
			rooms[b.RoomID].Number,
			users[b.UserID].Login,
			b.DateFrom.Format(models.DateLayout),
			b.DateTo.Format(models.DateLayout),
			b.Status.String(),
			bill.Days,
			bill.RoomCost.InexactFloat64(),
			bill.ServicesCost.InexactFloat64(),
			bill.Total.InexactFloat64(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(bookingsSheet, cell, &values); err != nil {
			return fmt.Errorf("error writing row: %w", err)
		}
	}

	_ = f.SetColWidth(bookingsSheet, "A", "A", 8)
	_ = f.SetColWidth(bookingsSheet, "B", "J", 14)
	return nil
}

// writeOccupancy draws rooms against dates, marking active bookings by status.
func writeOccupancy(f *excelize.File, r models.DateRange, rooms []models.Room, bookings []models.Booking) error {
	_ = f.SetCellValue(occupancySheet, "A1", fmt.Sprintf("Period: %s", r.String()))

	dateCols := make(map[string]int)
	col := 2
	for d := models.Day(r.From); !d.After(models.Day(r.To)); d = d.AddDate(0, 0, 1) {
		cell, err := excelize.CoordinatesToCellName(col, 2)
		if err != nil {
			return fmt.Errorf("error placing date column: %w", err)
		}
		_ = f.SetCellValue(occupancySheet, cell, d.Format("02.01"))
		dateCols[d.Format(models.DateLayout)] = col
		col++
	}

	roomRows := make(map[int64]int, len(rooms))
	for i, room := range rooms {
		row := i + 3
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(occupancySheet, cell, fmt.Sprintf("%s (%s)", room.Number, room.Type))
		roomRows[room.ID] = row
	}

	busy, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FCE4D6"}, Pattern: 1},
	})
	for _, b := range bookings {
		if !b.Status.IsActive() {
			continue
		}
		row, ok := roomRows[b.RoomID]
		if !ok {
			continue
		}
		for d := models.Day(b.DateFrom); !d.After(models.Day(b.DateTo)); d = d.AddDate(0, 0, 1) {
			c, ok := dateCols[d.Format(models.DateLayout)]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c, row)
			_ = f.SetCellValue(occupancySheet, cell, fmt.Sprintf("#%d %s", b.ID, b.Status))
			_ = f.SetCellStyle(occupancySheet, cell, cell, busy)
		}
	}

	_ = f.SetColWidth(occupancySheet, "A", "A", 20)
	return nil
}

func roomIndex(rooms []models.Room) map[int64]models.Room {
	m := make(map[int64]models.Room, len(rooms))
	for _, r := range rooms {
		m[r.ID] = r
	}
	return m
}

func userIndex(users []models.User) map[int64]models.User {
	m := make(map[int64]models.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m
}
