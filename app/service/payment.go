package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/beharry-studio/ms-go-booking/app/borica"
	"github.com/beharry-studio/ms-go-booking/app/entity"
	"github.com/beharry-studio/ms-go-booking/app/mapper"
	"github.com/beharry-studio/ms-go-booking/app/pending"
	"github.com/beharry-studio/ms-go-booking/app/types"
)

const (
	PaymentModeSimulation = "simulation"
	PaymentModeBorica     = "borica"
)

type paymentGateway interface {
	IsConfigured() bool
	CreatePaymentRequest(input *borica.PaymentInput) (*borica.PaymentForm, error)
	VerifyCallback(result *borica.CallbackResult) error
}

type pendingRegistry interface {
	Put(orderID, kind string, payload any)
	Get(orderID string) (pending.Entry, bool)
	Remove(orderID string)
}

type PaymentService struct {
	gateway        paymentGateway
	orders         *borica.OrderSequence
	pendingReg     pendingRegistry
	voucherSvc     *VoucherService
	reservationSvc *ReservationService
	publicBaseURL  string
	logger         logrus.FieldLogger
}

func NewPaymentService(
	gateway paymentGateway,
	orders *borica.OrderSequence,
	pendingReg pendingRegistry,
	voucherSvc *VoucherService,
	reservationSvc *ReservationService,
	publicBaseURL string,
	logger logrus.FieldLogger,
) *PaymentService {
	return &PaymentService{
		gateway:        gateway,
		orders:         orders,
		pendingReg:     pendingReg,
		voucherSvc:     voucherSvc,
		reservationSvc: reservationSvc,
		publicBaseURL:  strings.TrimRight(publicBaseURL, "/"),
		logger:         logger,
	}
}

// InitiatePayment starts a payment. With gateway credentials present it
// parks the business payload in the pending registry and returns the signed
// form for the hosted payment page. Without credentials the voucher or
// reservation is committed immediately so the storefront keeps working in
// development.
func (s *PaymentService) InitiatePayment(ctx context.Context, req *types.InitiatePaymentRequest) (*types.InitiatePaymentResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	if req.AmountBGN <= 0 {
		return nil, ErrInvalidAmount
	}

	kind, payload, err := s.pendingPayload(req)
	if err != nil {
		return nil, err
	}

	if !s.gateway.IsConfigured() {
		return s.commitDirectly(ctx, kind, payload)
	}

	orderID := s.orders.Next()
	s.pendingReg.Put(orderID, kind, payload)

	form, err := s.gateway.CreatePaymentRequest(&borica.PaymentInput{
		OrderID:     orderID,
		AmountBGN:   req.AmountBGN,
		Description: req.Description,
		Backref:     s.publicBaseURL + "/api/payment/callback",
		Email:       contactEmail(kind, payload),
	})
	if err != nil {
		s.pendingReg.Remove(orderID)
		s.logger.WithError(err).WithField("order_id", orderID).Error("payment request rejected")
		return nil, ErrGatewayRejected
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"kind":     kind,
	}).Info("payment initiated")

	return &types.InitiatePaymentResponse{
		Mode:       PaymentModeBorica,
		OrderID:    orderID,
		GatewayURL: form.GatewayURL,
		Fields:     form.Fields,
	}, nil
}

// CallbackOutcome tells the HTTP layer where to send the customer after the
// gateway calls back.
type CallbackOutcome struct {
	RedirectURL string
	OrderID     string
	Approved    bool
}

// HandleCallback parses and verifies the gateway callback, finalizes the
// pending voucher or reservation on approval, and produces the storefront
// redirect. It never fails the request for business reasons: the customer
// always ends up on a success or failure page.
func (s *PaymentService) HandleCallback(ctx context.Context, values url.Values) (*CallbackOutcome, error) {
	result := borica.ParsePaymentResponse(values)
	logger := s.logger.WithField("order_id", result.OrderID)

	if err := s.gateway.VerifyCallback(result); err != nil {
		logger.WithError(err).Warn("callback signature rejected")
		return s.failureOutcome(result.OrderID, "", "verification failed"), nil
	}

	if !result.IsSuccessful {
		s.pendingReg.Remove(result.OrderID)
		logger.WithFields(logrus.Fields{
			"action": result.ActionCode,
			"rc":     result.ResponseCode,
		}).Info("payment declined")
		return s.failureOutcome(result.OrderID, result.ActionCode, declineMessage(result)), nil
	}

	entry, ok := s.pendingReg.Get(result.OrderID)
	if !ok {
		logger.Warn("callback for unknown order")
		return s.failureOutcome(result.OrderID, "", "unknown order"), ErrCallbackUnmatched
	}

	outcome := &CallbackOutcome{OrderID: result.OrderID, Approved: true}
	switch entry.Kind {
	case pending.KindVoucher:
		voucher, err := s.voucherSvc.CreateVoucher(ctx, entry.Payload.(*types.VoucherPayload))
		if err != nil {
			logger.WithError(err).Error("voucher finalization failed")
			return s.failureOutcome(result.OrderID, "", "processing failed"), err
		}
		outcome.RedirectURL = s.successURL(result.OrderID, voucher.Code)
	case pending.KindReservation:
		reservation, err := s.reservationSvc.CreateReservation(ctx, entry.Payload.(*types.CreateReservationBody))
		if err != nil {
			logger.WithError(err).Error("reservation finalization failed")
			return s.failureOutcome(result.OrderID, "", "processing failed"), err
		}
		outcome.RedirectURL = s.successURL(result.OrderID, reservation.ID)
	default:
		logger.WithField("kind", entry.Kind).Error("pending entry has unknown kind")
		return s.failureOutcome(result.OrderID, "", "processing failed"), ErrCallbackUnmatched
	}

	s.pendingReg.Remove(result.OrderID)
	logger.Info("payment completed")
	return outcome, nil
}

func (s *PaymentService) pendingPayload(req *types.InitiatePaymentRequest) (string, any, error) {
	switch req.PaymentType {
	case types.PaymentTypeVoucher, types.PaymentTypeGiftbox:
		if req.VoucherData == nil {
			return "", nil, ErrInvalidRequest
		}
		payload := *req.VoucherData
		if payload.Type == "" {
			payload.Type = req.PaymentType
		}
		if payload.AmountBGN <= 0 {
			payload.AmountBGN = req.AmountBGN
		}
		if !entity.ValidVoucherType(payload.Type) {
			return "", nil, ErrInvalidRequest
		}
		return pending.KindVoucher, &payload, nil
	case types.PaymentTypeReservation:
		if req.ReservationData == nil {
			return "", nil, ErrInvalidRequest
		}
		payload := *req.ReservationData
		return pending.KindReservation, &payload, nil
	default:
		return "", nil, ErrInvalidRequest
	}
}

func (s *PaymentService) commitDirectly(ctx context.Context, kind string, payload any) (*types.InitiatePaymentResponse, error) {
	response := &types.InitiatePaymentResponse{Mode: PaymentModeSimulation}

	switch kind {
	case pending.KindVoucher:
		voucher, err := s.voucherSvc.CreateVoucher(ctx, payload.(*types.VoucherPayload))
		if err != nil {
			return nil, err
		}
		response.Voucher = mapper.VoucherToResponse(voucher)
	case pending.KindReservation:
		reservation, err := s.reservationSvc.CreateReservation(ctx, payload.(*types.CreateReservationBody))
		if err != nil {
			return nil, err
		}
		response.Reservation = mapper.ReservationToResponse(reservation)
	default:
		return nil, ErrInvalidRequest
	}

	return response, nil
}

func (s *PaymentService) successURL(orderID, code string) string {
	query := url.Values{}
	query.Set("order", orderID)
	query.Set("code", code)
	return s.publicBaseURL + "/payment/success?" + query.Encode()
}

// failureOutcome builds the failure-page redirect. code is the gateway's
// action code verbatim; internal failures pass an empty code.
func (s *PaymentService) failureOutcome(orderID, code, message string) *CallbackOutcome {
	query := url.Values{}
	if orderID != "" {
		query.Set("order", orderID)
	}
	if code != "" {
		query.Set("code", code)
	}
	query.Set("msg", message)
	return &CallbackOutcome{
		RedirectURL: s.publicBaseURL + "/payment/failed?" + query.Encode(),
		OrderID:     orderID,
	}
}

func declineMessage(result *borica.CallbackResult) string {
	if result.StatusMessage != "" {
		return result.StatusMessage
	}
	if result.ResponseCode != "" {
		return "declined (RC " + result.ResponseCode + ")"
	}
	return "declined"
}

func contactEmail(kind string, payload any) string {
	switch kind {
	case pending.KindVoucher:
		if data, ok := payload.(*types.VoucherPayload); ok {
			return data.BuyerEmail
		}
	case pending.KindReservation:
		if data, ok := payload.(*types.CreateReservationBody); ok {
			return data.CustomerEmail
		}
	}
	return ""
}
