package service

import (
	"context"
	"time"

	"github.com/beharry-studio/ms-go-booking/app/entity"
	"github.com/beharry-studio/ms-go-booking/app/types"
)

// StatsService aggregates the admin dashboard numbers.
type StatsService struct {
	voucherRepo     voucherRepository
	reservationRepo reservationRepository
	now             func() time.Time
}

func NewStatsService(voucherRepo voucherRepository, reservationRepo reservationRepository) *StatsService {
	return &StatsService{
		voucherRepo:     voucherRepo,
		reservationRepo: reservationRepo,
		now:             time.Now,
	}
}

func (s *StatsService) Stats(ctx context.Context) (*types.StatsResponse, error) {
	vouchers, err := s.voucherRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	reservations, err := s.reservationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	response := &types.StatsResponse{
		Vouchers:     types.VoucherStats{Total: len(vouchers), ByStatus: map[string]int{}},
		Reservations: types.ReservationStats{Total: len(reservations), ByStatus: map[string]int{}},
	}

	for _, item := range vouchers {
		response.Vouchers.ByStatus[item.Status]++
		if item.Status == entity.VoucherStatusPaid {
			response.Vouchers.Active++
		}
		if item.Status == entity.VoucherStatusPaid || item.Status == entity.VoucherStatusUsed {
			response.Vouchers.RevenueBGN += item.AmountBGN
		}
	}

	today := s.now().Format("2006-01-02")
	for _, item := range reservations {
		response.Reservations.ByStatus[item.Status]++
		if item.Status == entity.ReservationStatusCancelled {
			response.Reservations.Cancelled++
			continue
		}
		if item.Date == today {
			response.Reservations.Today++
			response.Reservations.SeatsToday += len(item.Seats)
		}
	}
	return response, nil
}
