package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/beharry-studio/ms-go-booking/app/entity"
)

var ErrReservationNotFound = errors.New("reservation not found")

type ReservationRepository struct {
	db DBTX
}

func NewReservationRepository(db DBTX) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	seatsJSON, err := serializeSeats(reservation.Seats)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO reservations (
			id, type, date, time, seats_json, customer_name, customer_email,
			customer_phone, notes, status, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		reservation.ID,
		reservation.Type,
		reservation.Date,
		reservation.Time,
		seatsJSON,
		reservation.CustomerName,
		reservation.CustomerEmail,
		reservation.CustomerPhone,
		reservation.Notes,
		reservation.Status,
		reservation.CreatedAt,
	)
	return err
}

func (r *ReservationRepository) List(ctx context.Context) ([]*entity.Reservation, error) {
	query := `
		SELECT id, type, date, time, seats_json, customer_name, customer_email,
			customer_phone, notes, status, created_at
		FROM reservations
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Reservation, 0)
	for rows.Next() {
		item, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListBySlot returns non-cancelled reservations for one date and time,
// used to compute which seats are taken.
func (r *ReservationRepository) ListBySlot(ctx context.Context, date, slotTime string) ([]*entity.Reservation, error) {
	query := `
		SELECT id, type, date, time, seats_json, customer_name, customer_email,
			customer_phone, notes, status, created_at
		FROM reservations
		WHERE date = ? AND time = ? AND status != ?
	`

	rows, err := r.db.QueryContext(ctx, query, date, slotTime, entity.ReservationStatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Reservation, 0)
	for rows.Next() {
		item, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*entity.Reservation, error) {
	query := `
		SELECT id, type, date, time, seats_json, customer_name, customer_email,
			customer_phone, notes, status, created_at
		FROM reservations
		WHERE id = ?
	`

	row := r.db.QueryRowContext(ctx, query, id)
	item, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE reservations SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		existing, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrReservationNotFound
		}
	}
	return nil
}

func scanReservation(row rowScanner) (*entity.Reservation, error) {
	var item entity.Reservation
	var seatsJSON string
	err := row.Scan(
		&item.ID,
		&item.Type,
		&item.Date,
		&item.Time,
		&seatsJSON,
		&item.CustomerName,
		&item.CustomerEmail,
		&item.CustomerPhone,
		&item.Notes,
		&item.Status,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	seats, err := parseSeats(seatsJSON)
	if err != nil {
		return nil, err
	}
	item.Seats = seats
	return &item, nil
}
