package types

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	PaymentTypeVoucher     = "voucher"
	PaymentTypeGiftbox     = "giftbox"
	PaymentTypeReservation = "reservation"
)

// InitiatePaymentRequest carries everything needed to start a hosted-card
// payment: the amount plus the voucher or reservation to create once the
// gateway confirms.
type InitiatePaymentRequest struct {
	PaymentType     string                 `json:"paymentType"`
	AmountBGN       float64                `json:"amountBgn"`
	Description     string                 `json:"description"`
	VoucherData     *VoucherPayload        `json:"voucherData,omitempty"`
	ReservationData *CreateReservationBody `json:"reservationData,omitempty"`
}

type VoucherPayload struct {
	Type          string  `json:"type"`
	AmountBGN     float64 `json:"amountBgn"`
	RecipientName string  `json:"recipientName"`
	SenderName    string  `json:"senderName"`
	Message       string  `json:"message"`
	BuyerEmail    string  `json:"buyerEmail"`
	BuyerPhone    string  `json:"buyerPhone"`
}

func NewInitiatePaymentRequestFromContext(ctx echo.Context) (*InitiatePaymentRequest, error) {
	var body InitiatePaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.PaymentType = strings.ToLower(strings.TrimSpace(body.PaymentType))
	body.Description = strings.TrimSpace(body.Description)
	if body.VoucherData != nil {
		body.VoucherData.Type = strings.ToLower(strings.TrimSpace(body.VoucherData.Type))
		body.VoucherData.RecipientName = strings.TrimSpace(body.VoucherData.RecipientName)
		body.VoucherData.SenderName = strings.TrimSpace(body.VoucherData.SenderName)
		body.VoucherData.BuyerEmail = strings.TrimSpace(body.VoucherData.BuyerEmail)
		body.VoucherData.BuyerPhone = strings.TrimSpace(body.VoucherData.BuyerPhone)
	}
	if body.ReservationData != nil {
		normalizeReservationBody(body.ReservationData)
	}

	return &body, nil
}

func (r *InitiatePaymentRequest) Validate() error {
	switch r.PaymentType {
	case PaymentTypeVoucher, PaymentTypeGiftbox:
		if r.VoucherData == nil {
			return errors.New("voucherData is required")
		}
	case PaymentTypeReservation:
		if r.ReservationData == nil {
			return errors.New("reservationData is required")
		}
		if err := r.ReservationData.Validate(); err != nil {
			return err
		}
	default:
		return errors.New("paymentType must be voucher, giftbox, or reservation")
	}
	if r.AmountBGN <= 0 {
		return errors.New("amountBgn must be > 0")
	}
	return nil
}

// InitiatePaymentResponse is returned to the storefront. In gateway mode the
// form carries the fields to auto-submit to the payment page; in simulation
// mode the voucher or reservation is already committed.
type InitiatePaymentResponse struct {
	Mode        string               `json:"mode"`
	OrderID     string               `json:"orderId,omitempty"`
	GatewayURL  string               `json:"gatewayUrl,omitempty"`
	Fields      map[string]string    `json:"fields,omitempty"`
	Voucher     *VoucherResponse     `json:"voucher,omitempty"`
	Reservation *ReservationResponse `json:"reservation,omitempty"`
}
