package mapper

import (
	"time"

	"github.com/beharry-studio/ms-go-booking/app/entity"
	"github.com/beharry-studio/ms-go-booking/app/types"
)

func VoucherToResponse(item *entity.Voucher) *types.VoucherResponse {
	if item == nil {
		return nil
	}

	return &types.VoucherResponse{
		ID:            item.ID,
		Code:          item.Code,
		Type:          item.Type,
		AmountBGN:     item.AmountBGN,
		RecipientName: item.RecipientName,
		SenderName:    item.SenderName,
		Message:       item.Message,
		BuyerEmail:    item.BuyerEmail,
		BuyerPhone:    item.BuyerPhone,
		Status:        item.Status,
		CreatedAt:     item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func VouchersToResponse(items []*entity.Voucher) []*types.VoucherResponse {
	result := make([]*types.VoucherResponse, 0, len(items))
	for _, item := range items {
		result = append(result, VoucherToResponse(item))
	}
	return result
}
