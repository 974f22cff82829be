package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/beharry-studio/ms-go-booking/app/borica"
	"github.com/beharry-studio/ms-go-booking/app/entity"
	"github.com/beharry-studio/ms-go-booking/app/pending"
	"github.com/beharry-studio/ms-go-booking/app/types"
)

type fakeGateway struct {
	configured bool
	createErr  error
	verifyErr  error
	lastInput  *borica.PaymentInput
}

func (g *fakeGateway) IsConfigured() bool {
	return g.configured
}

func (g *fakeGateway) CreatePaymentRequest(input *borica.PaymentInput) (*borica.PaymentForm, error) {
	g.lastInput = input
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &borica.PaymentForm{
		GatewayURL: "https://gateway.example/cgi_link",
		Fields: map[string]string{
			"ORDER":  input.OrderID,
			"AMOUNT": borica.FormatAmount(input.AmountBGN),
		},
	}, nil
}

func (g *fakeGateway) VerifyCallback(_ *borica.CallbackResult) error {
	return g.verifyErr
}

func newTestPaymentService(gateway *fakeGateway) (*PaymentService, *fakeVoucherRepo, *fakeReservationRepo, *pending.Registry) {
	voucherRepo := newFakeVoucherRepo()
	reservationRepo := newFakeReservationRepo()
	reg := pending.NewRegistry(time.Hour)

	svc := NewPaymentService(
		gateway,
		borica.NewOrderSequence(),
		reg,
		NewVoucherService(voucherRepo, testPaymentsConfig(), testLogger()),
		NewReservationService(reservationRepo, testLogger()),
		"https://studio.example/",
		testLogger(),
	)
	return svc, voucherRepo, reservationRepo, reg
}

func voucherInitiateRequest() *types.InitiatePaymentRequest {
	return &types.InitiatePaymentRequest{
		PaymentType: types.PaymentTypeVoucher,
		AmountBGN:   80,
		Description: "Gift voucher",
		VoucherData: &types.VoucherPayload{
			Type:          entity.VoucherTypeVoucher,
			AmountBGN:     80,
			RecipientName: "Maria",
			BuyerEmail:    "buyer@example.com",
		},
	}
}

func TestInitiatePaymentSimulationMode(t *testing.T) {
	svc, voucherRepo, _, reg := newTestPaymentService(&fakeGateway{configured: false})

	response, err := svc.InitiatePayment(context.Background(), voucherInitiateRequest())
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	if response.Mode != PaymentModeSimulation {
		t.Fatalf("expected simulation mode, got %q", response.Mode)
	}
	if response.Voucher == nil || response.Voucher.Code == "" {
		t.Fatal("expected committed voucher in simulation mode")
	}
	if len(voucherRepo.vouchers) != 1 {
		t.Fatalf("expected 1 stored voucher, got %d", len(voucherRepo.vouchers))
	}
	if reg.Len() != 0 {
		t.Fatal("simulation mode must not park a pending entry")
	}
}

func TestInitiatePaymentGatewayMode(t *testing.T) {
	gateway := &fakeGateway{configured: true}
	svc, voucherRepo, _, reg := newTestPaymentService(gateway)

	response, err := svc.InitiatePayment(context.Background(), voucherInitiateRequest())
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	if response.Mode != PaymentModeBorica {
		t.Fatalf("expected borica mode, got %q", response.Mode)
	}
	if len(response.OrderID) != 6 {
		t.Fatalf("expected 6-digit order id, got %q", response.OrderID)
	}
	if response.GatewayURL == "" || response.Fields["ORDER"] != response.OrderID {
		t.Fatalf("unexpected form: %v", response)
	}
	if gateway.lastInput.Backref != "https://studio.example/api/payment/callback" {
		t.Fatalf("unexpected backref: %q", gateway.lastInput.Backref)
	}
	if gateway.lastInput.Email != "buyer@example.com" {
		t.Fatalf("unexpected email: %q", gateway.lastInput.Email)
	}

	if _, ok := reg.Get(response.OrderID); !ok {
		t.Fatal("expected pending entry for order")
	}
	if len(voucherRepo.vouchers) != 0 {
		t.Fatal("voucher must not be committed before the callback")
	}
}

func TestInitiatePaymentGatewayRejection(t *testing.T) {
	gateway := &fakeGateway{configured: true, createErr: errors.New("boom")}
	svc, _, _, reg := newTestPaymentService(gateway)

	_, err := svc.InitiatePayment(context.Background(), voucherInitiateRequest())
	if !errors.Is(err, ErrGatewayRejected) {
		t.Fatalf("expected ErrGatewayRejected, got %v", err)
	}
	if reg.Len() != 0 {
		t.Fatal("pending entry must be removed when the gateway rejects")
	}
}

func TestInitiatePaymentValidation(t *testing.T) {
	svc, _, _, _ := newTestPaymentService(&fakeGateway{configured: true})

	if _, err := svc.InitiatePayment(context.Background(), nil); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}

	req := voucherInitiateRequest()
	req.AmountBGN = 0
	if _, err := svc.InitiatePayment(context.Background(), req); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	req = voucherInitiateRequest()
	req.VoucherData = nil
	if _, err := svc.InitiatePayment(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for missing payload, got %v", err)
	}
}

func callbackValues(orderID, action string) url.Values {
	values := url.Values{}
	values.Set("ORDER", orderID)
	values.Set("ACTION", action)
	values.Set("RC", "00")
	values.Set("AMOUNT", "40.90")
	values.Set("CURRENCY", "EUR")
	return values
}

func TestHandleCallbackApprovedVoucher(t *testing.T) {
	gateway := &fakeGateway{configured: true}
	svc, voucherRepo, _, reg := newTestPaymentService(gateway)

	response, err := svc.InitiatePayment(context.Background(), voucherInitiateRequest())
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	outcome, err := svc.HandleCallback(context.Background(), callbackValues(response.OrderID, "0"))
	if err != nil {
		t.Fatalf("callback failed: %v", err)
	}

	if !outcome.Approved {
		t.Fatal("expected approved outcome")
	}
	if !strings.Contains(outcome.RedirectURL, "/payment/success") {
		t.Fatalf("expected success redirect, got %q", outcome.RedirectURL)
	}
	if !strings.Contains(outcome.RedirectURL, "order="+response.OrderID) {
		t.Fatalf("redirect missing order id: %q", outcome.RedirectURL)
	}
	if len(voucherRepo.vouchers) != 1 {
		t.Fatalf("expected 1 voucher after approval, got %d", len(voucherRepo.vouchers))
	}
	if reg.Len() != 0 {
		t.Fatal("pending entry must be removed after finalization")
	}
}

func TestHandleCallbackApprovedReservation(t *testing.T) {
	gateway := &fakeGateway{configured: true}
	svc, _, reservationRepo, _ := newTestPaymentService(gateway)

	response, err := svc.InitiatePayment(context.Background(), &types.InitiatePaymentRequest{
		PaymentType:     types.PaymentTypeReservation,
		AmountBGN:       60,
		ReservationData: seatsBody([]int{1, 2}),
	})
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	outcome, err := svc.HandleCallback(context.Background(), callbackValues(response.OrderID, "0"))
	if err != nil {
		t.Fatalf("callback failed: %v", err)
	}
	if !outcome.Approved {
		t.Fatal("expected approved outcome")
	}
	if len(reservationRepo.reservations) != 1 {
		t.Fatalf("expected 1 reservation, got %d", len(reservationRepo.reservations))
	}
}

func TestHandleCallbackDeclined(t *testing.T) {
	gateway := &fakeGateway{configured: true}
	svc, voucherRepo, _, reg := newTestPaymentService(gateway)

	response, err := svc.InitiatePayment(context.Background(), voucherInitiateRequest())
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	outcome, err := svc.HandleCallback(context.Background(), callbackValues(response.OrderID, "3"))
	if err != nil {
		t.Fatalf("callback failed: %v", err)
	}

	if outcome.Approved {
		t.Fatal("expected declined outcome")
	}
	if !strings.Contains(outcome.RedirectURL, "/payment/failed") {
		t.Fatalf("expected failure redirect, got %q", outcome.RedirectURL)
	}
	if len(voucherRepo.vouchers) != 0 {
		t.Fatal("declined payment must not create a voucher")
	}
	if reg.Len() != 0 {
		t.Fatal("declined payment must clear the pending entry")
	}
}

func TestHandleCallbackDeclineRedirectCarriesGatewayCode(t *testing.T) {
	gateway := &fakeGateway{configured: true}
	svc, _, _, _ := newTestPaymentService(gateway)

	response, err := svc.InitiatePayment(context.Background(), voucherInitiateRequest())
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	values := url.Values{}
	values.Set("ORDER", response.OrderID)
	values.Set("ACTION", "3")
	values.Set("RC", "116")
	values.Set("STATUSMSG", "Insufficient funds")

	outcome, err := svc.HandleCallback(context.Background(), values)
	if err != nil {
		t.Fatalf("callback failed: %v", err)
	}

	redirect, err := url.Parse(outcome.RedirectURL)
	if err != nil {
		t.Fatalf("parse redirect: %v", err)
	}
	query := redirect.Query()
	if query.Get("code") != "3" {
		t.Fatalf("expected action code in redirect, got %q (url %q)", query.Get("code"), outcome.RedirectURL)
	}
	if query.Get("msg") != "Insufficient funds" {
		t.Fatalf("expected gateway message verbatim, got %q", query.Get("msg"))
	}
	if query.Get("order") != response.OrderID {
		t.Fatalf("expected order id in redirect, got %q", query.Get("order"))
	}
}

func TestHandleCallbackUnknownOrder(t *testing.T) {
	svc, _, _, _ := newTestPaymentService(&fakeGateway{configured: true})

	outcome, err := svc.HandleCallback(context.Background(), callbackValues("999999", "0"))
	if !errors.Is(err, ErrCallbackUnmatched) {
		t.Fatalf("expected ErrCallbackUnmatched, got %v", err)
	}
	if !strings.Contains(outcome.RedirectURL, "/payment/failed") {
		t.Fatalf("expected failure redirect, got %q", outcome.RedirectURL)
	}
}

func TestHandleCallbackVerificationFailure(t *testing.T) {
	gateway := &fakeGateway{configured: true, verifyErr: errors.New("bad signature")}
	svc, voucherRepo, _, _ := newTestPaymentService(gateway)

	response, err := svc.InitiatePayment(context.Background(), voucherInitiateRequest())
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	outcome, err := svc.HandleCallback(context.Background(), callbackValues(response.OrderID, "0"))
	if err != nil {
		t.Fatalf("callback failed: %v", err)
	}
	if !strings.Contains(outcome.RedirectURL, "/payment/failed") {
		t.Fatalf("expected failure redirect, got %q", outcome.RedirectURL)
	}
	if len(voucherRepo.vouchers) != 0 {
		t.Fatal("unverified callback must not create a voucher")
	}
}
