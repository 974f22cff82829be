package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/beharry-studio/ms-go-booking/app/entity"
	"github.com/beharry-studio/ms-go-booking/app/repository"
	"github.com/beharry-studio/ms-go-booking/app/types"
)

type fakeReservationRepo struct {
	reservations map[string]*entity.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: map[string]*entity.Reservation{}}
}

func (r *fakeReservationRepo) Create(_ context.Context, reservation *entity.Reservation) error {
	copyItem := *reservation
	r.reservations[reservation.ID] = &copyItem
	return nil
}

func (r *fakeReservationRepo) List(_ context.Context) ([]*entity.Reservation, error) {
	items := make([]*entity.Reservation, 0, len(r.reservations))
	for _, item := range r.reservations {
		copyItem := *item
		items = append(items, &copyItem)
	}
	return items, nil
}

func (r *fakeReservationRepo) ListBySlot(_ context.Context, date, slotTime string) ([]*entity.Reservation, error) {
	items := make([]*entity.Reservation, 0)
	for _, item := range r.reservations {
		if item.Date == date && item.Time == slotTime && item.Status != entity.ReservationStatusCancelled {
			copyItem := *item
			items = append(items, &copyItem)
		}
	}
	return items, nil
}

func (r *fakeReservationRepo) FindByID(_ context.Context, id string) (*entity.Reservation, error) {
	item, ok := r.reservations[id]
	if !ok {
		return nil, nil
	}
	copyItem := *item
	return &copyItem, nil
}

func (r *fakeReservationRepo) UpdateStatus(_ context.Context, id, status string) error {
	item, ok := r.reservations[id]
	if !ok {
		return repository.ErrReservationNotFound
	}
	item.Status = status
	return nil
}

func seatsBody(seats []int) *types.CreateReservationBody {
	return &types.CreateReservationBody{
		Type:         entity.ReservationTypeSeats,
		Date:         "2026-10-03",
		Time:         "18:00",
		Seats:        seats,
		CustomerName: "Iva",
	}
}

func TestCreateReservation(t *testing.T) {
	repo := newFakeReservationRepo()
	svc := NewReservationService(repo, testLogger())

	reservation, err := svc.CreateReservation(context.Background(), seatsBody([]int{3, 4}))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if reservation.Status != entity.ReservationStatusConfirmed {
		t.Fatalf("expected confirmed status, got %q", reservation.Status)
	}
	if _, ok := repo.reservations[reservation.ID]; !ok {
		t.Fatal("reservation not persisted")
	}
}

func TestCreateReservationRejectsTakenSeats(t *testing.T) {
	repo := newFakeReservationRepo()
	svc := NewReservationService(repo, testLogger())

	if _, err := svc.CreateReservation(context.Background(), seatsBody([]int{1, 2})); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.CreateReservation(context.Background(), seatsBody([]int{2, 3})); !errors.Is(err, ErrSeatsTaken) {
		t.Fatalf("expected ErrSeatsTaken, got %v", err)
	}

	// A cancelled reservation frees its seats.
	for id := range repo.reservations {
		if err := svc.UpdateStatus(context.Background(), id, entity.ReservationStatusCancelled); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}
	}
	if _, err := svc.CreateReservation(context.Background(), seatsBody([]int{2, 3})); err != nil {
		t.Fatalf("create after cancel failed: %v", err)
	}
}

func TestCreateReservationRejectsBadInput(t *testing.T) {
	svc := NewReservationService(newFakeReservationRepo(), testLogger())

	if _, err := svc.CreateReservation(context.Background(), nil); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for nil body, got %v", err)
	}

	body := seatsBody([]int{1})
	body.CustomerName = ""
	if _, err := svc.CreateReservation(context.Background(), body); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for missing name, got %v", err)
	}
}

func TestReservedSeats(t *testing.T) {
	repo := newFakeReservationRepo()
	svc := NewReservationService(repo, testLogger())

	if _, err := svc.CreateReservation(context.Background(), seatsBody([]int{5, 2})); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.CreateReservation(context.Background(), seatsBody([]int{7})); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	seats, err := svc.ReservedSeats(context.Background(), "2026-10-03", "18:00")
	if err != nil {
		t.Fatalf("reserved seats failed: %v", err)
	}
	if !reflect.DeepEqual(seats, []int{2, 5, 7}) {
		t.Fatalf("unexpected seats: %v", seats)
	}

	other, err := svc.ReservedSeats(context.Background(), "2026-10-04", "18:00")
	if err != nil {
		t.Fatalf("reserved seats failed: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no seats for other date, got %v", other)
	}
}

func TestUpdateReservationStatus(t *testing.T) {
	repo := newFakeReservationRepo()
	svc := NewReservationService(repo, testLogger())

	if err := svc.UpdateStatus(context.Background(), "missing", entity.ReservationStatusCancelled); !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound, got %v", err)
	}
	if err := svc.UpdateStatus(context.Background(), "any", "lost"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
