package service

import (
	"context"
	"sort"

	"hotel/internal/config"
	"hotel/internal/models"

	"github.com/shopspring/decimal"
)

// BillableDays converts a booking range into charged days.
func BillableDays(r models.DateRange, mode string) int {
	switch mode {
	case config.DayCountFlat:
		return 1
	case config.DayCountNights:
		if n := r.Nights(); n > 0 {
			return n
		}
		return 1
	default:
		return r.Days()
	}
}

// ComputeBill prices the room for the billed days plus every attached service.
// Lines are ordered by service id so the same booking always prints the same bill.
func (s *BookingService) ComputeBill(ctx context.Context, booking *models.Booking) (*models.Bill, error) {
	if booking == nil {
		return nil, ErrNilBooking
	}

	room, err := s.repo.GetRoomByID(ctx, booking.RoomID)
	if err != nil {
		return nil, err
	}

	attached, err := s.repo.GetBookingServices(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(attached))
	for id := range attached {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	catalog, err := s.repo.GetServicesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	days := BillableDays(booking.Range(), s.opts.DayCount)
	bill := &models.Bill{
		Booking:      *booking,
		Room:         *room,
		Days:         days,
		RoomCost:     room.PricePerDay.Mul(decimal.NewFromInt(int64(days))),
		ServicesCost: decimal.Zero,
	}

	for _, id := range ids {
		svc, ok := catalog[id]
		if !ok {
			s.logger.Warn().Int64("booking_id", booking.ID).Int64("service_id", id).Msg("Attached service missing from catalog")
			continue
		}
		qty := attached[id]
		cost := svc.Price.Mul(decimal.NewFromInt(int64(qty)))
		bill.Lines = append(bill.Lines, models.BillLine{Service: svc, Quantity: qty, Cost: cost})
		bill.ServicesCost = bill.ServicesCost.Add(cost)
	}
	bill.Total = bill.RoomCost.Add(bill.ServicesCost)

	return bill, nil
}
