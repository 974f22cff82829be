package types

import (
	"errors"
	"strings"

	"github.com/beharry-studio/ms-go-booking/app/entity"
	"github.com/labstack/echo/v4"
)

type VoucherResponse struct {
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	Type          string  `json:"type"`
	AmountBGN     float64 `json:"amountBgn"`
	RecipientName string  `json:"recipientName"`
	SenderName    string  `json:"senderName"`
	Message       string  `json:"message"`
	BuyerEmail    string  `json:"buyerEmail"`
	BuyerPhone    string  `json:"buyerPhone"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
}

type UpdateVoucherStatusRequest struct {
	ID     string `json:"-"`
	Status string `json:"status"`
}

func NewUpdateVoucherStatusRequestFromContext(ctx echo.Context) (*UpdateVoucherStatusRequest, error) {
	var body UpdateVoucherStatusRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.ID = strings.TrimSpace(ctx.Param("id"))
	body.Status = strings.ToLower(strings.TrimSpace(body.Status))
	return &body, nil
}

func (r *UpdateVoucherStatusRequest) Validate() error {
	if r.ID == "" {
		return errors.New("voucher id is required")
	}
	if !entity.ValidVoucherStatus(r.Status) {
		return errors.New("status must be paid, used, or expired")
	}
	return nil
}
