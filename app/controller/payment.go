package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/beharry-studio/ms-go-booking/app/borica"
	"github.com/beharry-studio/ms-go-booking/app/factory"
	"github.com/beharry-studio/ms-go-booking/app/service"
	"github.com/beharry-studio/ms-go-booking/app/types"
)

type boricaDiagnoser interface {
	Diagnose() borica.Diagnosis
}

type PaymentController struct {
	paymentService *service.PaymentService
	diagnoser      boricaDiagnoser
	serviceName    string
	logger         logrus.FieldLogger
}

func NewPaymentController(paymentService *service.PaymentService, diagnoser boricaDiagnoser, serviceName string) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		diagnoser:      diagnoser,
		serviceName:    serviceName,
		logger:         factory.NewModuleLogger("payment-controller"),
	}
}

func (c *PaymentController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok", Service: c.serviceName})
}

func (c *PaymentController) InitiatePayment(ctx echo.Context) error {
	req, err := types.NewInitiatePaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	response, err := c.paymentService.InitiatePayment(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrInvalidAmount):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSeatsTaken):
			return c.writeError(ctx, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrGatewayRejected):
			return c.writeError(ctx, http.StatusBadGateway, err.Error())
		default:
			c.logger.WithError(err).Error("Initiate payment failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// HandleCallback receives the gateway's return. The gateway POSTs a form
// body, but some configurations send the customer back via GET with query
// parameters, so both verbs land here and both are answered with a redirect
// to the storefront result page.
func (c *PaymentController) HandleCallback(ctx echo.Context) error {
	values, err := ctx.FormParams()
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid callback body")
	}
	if len(values) == 0 {
		values = ctx.QueryParams()
	}

	outcome, err := c.paymentService.HandleCallback(ctx.Request().Context(), values)
	if err != nil && !errors.Is(err, service.ErrCallbackUnmatched) {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Handle callback failed")
	}

	return ctx.Redirect(http.StatusSeeOther, outcome.RedirectURL)
}

// Diagnose reports gateway configuration health without exposing secrets.
func (c *PaymentController) Diagnose(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.diagnoser.Diagnose())
}

func (c *PaymentController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
