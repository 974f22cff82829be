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

type ReservationController struct {
	reservationService *service.ReservationService
	logger             logrus.FieldLogger
}

func NewReservationController(reservationService *service.ReservationService) *ReservationController {
	return &ReservationController{
		reservationService: reservationService,
		logger:             factory.NewModuleLogger("reservation-controller"),
	}
}

// CreateReservation books directly, without a payment. Paid reservations go
// through the payment initiation flow instead.
func (c *ReservationController) CreateReservation(ctx echo.Context) error {
	req, err := types.NewCreateReservationRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.reservationService.CreateReservation(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSeatsTaken):
			return c.writeError(ctx, http.StatusConflict, err.Error())
		default:
			c.logger.WithError(err).Error("Create reservation failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, mapper.ReservationToResponse(item))
}

func (c *ReservationController) ListReservations(ctx echo.Context) error {
	items, err := c.reservationService.ListReservations(ctx.Request().Context())
	if err != nil {
		c.logger.WithError(err).Error("List reservations failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
	return ctx.JSON(http.StatusOK, mapper.ReservationsToResponse(items))
}

func (c *ReservationController) ReservedSeats(ctx echo.Context) error {
	req, err := types.NewReservedSeatsRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	seats, err := c.reservationService.ReservedSeats(ctx.Request().Context(), req.Date, req.Time)
	if err != nil {
		c.logger.WithError(err).Error("Reserved seats lookup failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &types.ReservedSeatsResponse{
		Date:  req.Date,
		Time:  req.Time,
		Seats: seats,
	})
}

func (c *ReservationController) UpdateReservationStatus(ctx echo.Context) error {
	req, err := types.NewUpdateReservationStatusRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if err := c.reservationService.UpdateStatus(ctx.Request().Context(), req.ID, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrReservationNotFound):
			return c.writeError(ctx, http.StatusNotFound, "reservation not found")
		case errors.Is(err, service.ErrInvalidStatus):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		default:
			c.logger.WithError(err).Error("Update reservation status failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Reservation updated"})
}

func (c *ReservationController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
