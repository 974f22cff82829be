package types

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
)

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewAdminLoginRequestFromContext(ctx echo.Context) (*AdminLoginRequest, error) {
	var body AdminLoginRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Username = strings.TrimSpace(body.Username)
	return &body, nil
}

func (r *AdminLoginRequest) Validate() error {
	if r.Username == "" {
		return errors.New("username is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type AdminSessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

type StatsResponse struct {
	Vouchers     VoucherStats     `json:"vouchers"`
	Reservations ReservationStats `json:"reservations"`
}

type VoucherStats struct {
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	RevenueBGN float64        `json:"revenueBgn"`
	ByStatus   map[string]int `json:"byStatus"`
}

type ReservationStats struct {
	Total      int            `json:"total"`
	Today      int            `json:"today"`
	SeatsToday int            `json:"seatsToday"`
	Cancelled  int            `json:"cancelled"`
	ByStatus   map[string]int `json:"byStatus"`
}
