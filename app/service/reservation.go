package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/beharry-studio/ms-go-booking/app/entity"
	"github.com/beharry-studio/ms-go-booking/app/repository"
	"github.com/beharry-studio/ms-go-booking/app/types"
)

type reservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	List(ctx context.Context) ([]*entity.Reservation, error)
	ListBySlot(ctx context.Context, date, slotTime string) ([]*entity.Reservation, error)
	FindByID(ctx context.Context, id string) (*entity.Reservation, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type ReservationService struct {
	repo   reservationRepository
	logger logrus.FieldLogger
}

func NewReservationService(repo reservationRepository, logger logrus.FieldLogger) *ReservationService {
	return &ReservationService{repo: repo, logger: logger}
}

func (s *ReservationService) CreateReservation(ctx context.Context, body *types.CreateReservationBody) (*entity.Reservation, error) {
	if body == nil {
		return nil, ErrInvalidRequest
	}
	if err := body.Validate(); err != nil {
		return nil, ErrInvalidRequest
	}

	if body.Type == entity.ReservationTypeSeats {
		taken, err := s.ReservedSeats(ctx, body.Date, body.Time)
		if err != nil {
			return nil, err
		}
		takenSet := make(map[int]struct{}, len(taken))
		for _, seat := range taken {
			takenSet[seat] = struct{}{}
		}
		for _, seat := range body.Seats {
			if _, ok := takenSet[seat]; ok {
				return nil, ErrSeatsTaken
			}
		}
	}

	reservation := &entity.Reservation{
		ID:            uuid.NewString(),
		Type:          body.Type,
		Date:          body.Date,
		Time:          body.Time,
		Seats:         body.Seats,
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
		CustomerPhone: body.CustomerPhone,
		Notes:         body.Notes,
		Status:        entity.ReservationStatusConfirmed,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"date":           reservation.Date,
		"time":           reservation.Time,
	}).Info("reservation created")

	return reservation, nil
}

func (s *ReservationService) ListReservations(ctx context.Context) ([]*entity.Reservation, error) {
	return s.repo.List(ctx)
}

// ReservedSeats returns the sorted union of seats held by non-cancelled
// reservations in a slot.
func (s *ReservationService) ReservedSeats(ctx context.Context, date, slotTime string) ([]int, error) {
	items, err := s.repo.ListBySlot(ctx, date, slotTime)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	seats := make([]int, 0)
	for _, item := range items {
		for _, seat := range item.Seats {
			if _, ok := seen[seat]; ok {
				continue
			}
			seen[seat] = struct{}{}
			seats = append(seats, seat)
		}
	}
	sort.Ints(seats)
	return seats, nil
}

func (s *ReservationService) UpdateStatus(ctx context.Context, id, status string) error {
	if !entity.ValidReservationStatus(status) {
		return ErrInvalidStatus
	}
	err := s.repo.UpdateStatus(ctx, id, status)
	if errors.Is(err, repository.ErrReservationNotFound) {
		return ErrReservationNotFound
	}
	return err
}
