package service

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrVoucherNotFound     = errors.New("voucher not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrSeatsTaken          = errors.New("seats already reserved")
	ErrCallbackUnmatched   = errors.New("callback does not match a pending payment")
	ErrGatewayRejected     = errors.New("gateway rejected the payment request")
)
