package entity

import "time"

const (
	VoucherTypeVoucher = "voucher"
	VoucherTypeGiftbox = "giftbox"

	VoucherStatusPaid    = "paid"
	VoucherStatusUsed    = "used"
	VoucherStatusExpired = "expired"
)

type Voucher struct {
	ID            string
	Code          string
	Type          string
	AmountBGN     float64
	RecipientName string
	SenderName    string
	Message       string
	BuyerEmail    string
	BuyerPhone    string
	Status        string
	CreatedAt     time.Time
}

func ValidVoucherType(t string) bool {
	return t == VoucherTypeVoucher || t == VoucherTypeGiftbox
}

func ValidVoucherStatus(s string) bool {
	switch s {
	case VoucherStatusPaid, VoucherStatusUsed, VoucherStatusExpired:
		return true
	default:
		return false
	}
}
