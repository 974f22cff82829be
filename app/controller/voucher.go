package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/beharry-studio/ms-go-booking/app/factory"
	"github.com/beharry-studio/ms-go-booking/app/mapper"
	"github.com/beharry-studio/ms-go-booking/app/service"
	"github.com/beharry-studio/ms-go-booking/app/types"
)

type VoucherController struct {
	voucherService *service.VoucherService
	logger         logrus.FieldLogger
}

func NewVoucherController(voucherService *service.VoucherService) *VoucherController {
	return &VoucherController{
		voucherService: voucherService,
		logger:         factory.NewModuleLogger("voucher-controller"),
	}
}

func (c *VoucherController) ListVouchers(ctx echo.Context) error {
	items, err := c.voucherService.ListVouchers(ctx.Request().Context())
	if err != nil {
		c.logger.WithError(err).Error("List vouchers failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
	return ctx.JSON(http.StatusOK, mapper.VouchersToResponse(items))
}

func (c *VoucherController) UpdateVoucherStatus(ctx echo.Context) error {
	req, err := types.NewUpdateVoucherStatusRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if err := c.voucherService.UpdateStatus(ctx.Request().Context(), req.ID, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrVoucherNotFound):
			return c.writeError(ctx, http.StatusNotFound, "voucher not found")
		case errors.Is(err, service.ErrInvalidStatus):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			c.logger.WithError(err).Error("Update voucher status failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Voucher updated"})
}

func (c *VoucherController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
