package mapper

import (
	"time"

	"github.com/beharry-studio/ms-go-booking/app/entity"
	"github.com/beharry-studio/ms-go-booking/app/types"
)

func ReservationToResponse(item *entity.Reservation) *types.ReservationResponse {
	if item == nil {
		return nil
	}

	seats := item.Seats
	if seats == nil {
		seats = []int{}
	}

	return &types.ReservationResponse{
		ID:            item.ID,
		Type:          item.Type,
		Date:          item.Date,
		Time:          item.Time,
		Seats:         seats,
		CustomerName:  item.CustomerName,
		CustomerEmail: item.CustomerEmail,
		CustomerPhone: item.CustomerPhone,
		Notes:         item.Notes,
		Status:        item.Status,
		CreatedAt:     item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ReservationsToResponse(items []*entity.Reservation) []*types.ReservationResponse {
	result := make([]*types.ReservationResponse, 0, len(items))
	for _, item := range items {
		result = append(result, ReservationToResponse(item))
	}
	return result
}
