package entity

import "time"

const (
	ReservationTypeSeats = "seats"
	ReservationTypeEvent = "event"

	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

type Reservation struct {
	ID            string
	Type          string
	Date          string
	Time          string
	Seats         []int
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Notes         string
	Status        string
	CreatedAt     time.Time
}

func ValidReservationType(t string) bool {
	return t == ReservationTypeSeats || t == ReservationTypeEvent
}

func ValidReservationStatus(s string) bool {
	return s == ReservationStatusConfirmed || s == ReservationStatusCancelled
}
