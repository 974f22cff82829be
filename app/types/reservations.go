package types

import (
	"errors"
	"strings"

	"github.com/beharry-studio/ms-go-booking/app/entity"
	"github.com/labstack/echo/v4"
)

type ReservationResponse struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Seats         []int  `json:"seats"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	Notes         string `json:"notes"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
}

// CreateReservationBody is shared between the direct reservation endpoint
// and the payment initiation payload.
type CreateReservationBody struct {
	Type          string `json:"type"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Seats         []int  `json:"seats"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	Notes         string `json:"notes"`
}

func normalizeReservationBody(body *CreateReservationBody) {
	body.Type = strings.ToLower(strings.TrimSpace(body.Type))
	body.Date = strings.TrimSpace(body.Date)
	body.Time = strings.TrimSpace(body.Time)
	body.CustomerName = strings.TrimSpace(body.CustomerName)
	body.CustomerEmail = strings.TrimSpace(body.CustomerEmail)
	body.CustomerPhone = strings.TrimSpace(body.CustomerPhone)
	body.Notes = strings.TrimSpace(body.Notes)
}

func NewCreateReservationRequestFromContext(ctx echo.Context) (*CreateReservationBody, error) {
	var body CreateReservationBody
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	normalizeReservationBody(&body)
	return &body, nil
}

func (r *CreateReservationBody) Validate() error {
	if !entity.ValidReservationType(r.Type) {
		return errors.New("type must be seats or event")
	}
	if r.Date == "" {
		return errors.New("date is required")
	}
	if r.Time == "" {
		return errors.New("time is required")
	}
	if r.Type == entity.ReservationTypeSeats && len(r.Seats) == 0 {
		return errors.New("seats are required for a seats reservation")
	}
	if r.CustomerName == "" {
		return errors.New("customerName is required")
	}
	return nil
}

type ReservedSeatsRequest struct {
	Date string
	Time string
}

func NewReservedSeatsRequestFromContext(ctx echo.Context) (*ReservedSeatsRequest, error) {
	return &ReservedSeatsRequest{
		Date: strings.TrimSpace(ctx.QueryParam("date")),
		Time: strings.TrimSpace(ctx.QueryParam("time")),
	}, nil
}

func (r *ReservedSeatsRequest) Validate() error {
	if r.Date == "" {
		return errors.New("date is required")
	}
	if r.Time == "" {
		return errors.New("time is required")
	}
	return nil
}

type ReservedSeatsResponse struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Seats []int  `json:"seats"`
}

type UpdateReservationStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func NewUpdateReservationStatusRequestFromContext(ctx echo.Context) (*UpdateReservationStatusRequest, error) {
	var body UpdateReservationStatusRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.ID = strings.TrimSpace(ctx.Param("id"))
	body.Status = strings.ToLower(strings.TrimSpace(body.Status))
	return &body, nil
}

func (r *UpdateReservationStatusRequest) Validate() error {
	if r.ID == "" {
		return errors.New("reservation id is required")
	}
	if !entity.ValidReservationStatus(r.Status) {
		return errors.New("status must be confirmed or cancelled")
	}
	return nil
}
