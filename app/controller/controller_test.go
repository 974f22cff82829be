package controller

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/beharry-studio/ms-go-booking/app/borica"
	"github.com/beharry-studio/ms-go-booking/app/entity"
	"github.com/beharry-studio/ms-go-booking/app/pending"
	"github.com/beharry-studio/ms-go-booking/app/service"
	"github.com/beharry-studio/ms-go-booking/config"
)

type controllerVoucherRepo struct {
	createFn       func(ctx context.Context, voucher *entity.Voucher) error
	listFn         func(ctx context.Context) ([]*entity.Voucher, error)
	findByIDFn     func(ctx context.Context, id string) (*entity.Voucher, error)
	updateStatusFn func(ctx context.Context, id, status string) error
	expireBatchFn  func(ctx context.Context, cutoff time.Time, limit int32) (int64, error)
}

func (r *controllerVoucherRepo) Create(ctx context.Context, voucher *entity.Voucher) error {
	if r.createFn != nil {
		return r.createFn(ctx, voucher)
	}
	return nil
}

func (r *controllerVoucherRepo) List(ctx context.Context) ([]*entity.Voucher, error) {
	if r.listFn != nil {
		return r.listFn(ctx)
	}
	return []*entity.Voucher{}, nil
}

func (r *controllerVoucherRepo) FindByID(ctx context.Context, id string) (*entity.Voucher, error) {
	if r.findByIDFn != nil {
		return r.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (r *controllerVoucherRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if r.updateStatusFn != nil {
		return r.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (r *controllerVoucherRepo) ExpireBatch(ctx context.Context, cutoff time.Time, limit int32) (int64, error) {
	if r.expireBatchFn != nil {
		return r.expireBatchFn(ctx, cutoff, limit)
	}
	return 0, nil
}

type controllerReservationRepo struct {
	createFn       func(ctx context.Context, reservation *entity.Reservation) error
	listFn         func(ctx context.Context) ([]*entity.Reservation, error)
	listBySlotFn   func(ctx context.Context, date, slotTime string) ([]*entity.Reservation, error)
	findByIDFn     func(ctx context.Context, id string) (*entity.Reservation, error)
	updateStatusFn func(ctx context.Context, id, status string) error
}

func (r *controllerReservationRepo) Create(ctx context.Context, reservation *entity.Reservation) error {
	if r.createFn != nil {
		return r.createFn(ctx, reservation)
	}
	return nil
}

func (r *controllerReservationRepo) List(ctx context.Context) ([]*entity.Reservation, error) {
	if r.listFn != nil {
		return r.listFn(ctx)
	}
	return []*entity.Reservation{}, nil
}

func (r *controllerReservationRepo) ListBySlot(ctx context.Context, date, slotTime string) ([]*entity.Reservation, error) {
	if r.listBySlotFn != nil {
		return r.listBySlotFn(ctx, date, slotTime)
	}
	return []*entity.Reservation{}, nil
}

func (r *controllerReservationRepo) FindByID(ctx context.Context, id string) (*entity.Reservation, error) {
	if r.findByIDFn != nil {
		return r.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (r *controllerReservationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if r.updateStatusFn != nil {
		return r.updateStatusFn(ctx, id, status)
	}
	return nil
}

func testControllerLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testPaymentsConfig() config.PaymentsConfig {
	return config.PaymentsConfig{
		PendingRetention: time.Hour,
		VoucherValidity:  365 * 24 * time.Hour,
		JobBatchSize:     100,
	}
}

func newTestServices(voucherRepo *controllerVoucherRepo, reservationRepo *controllerReservationRepo) (*service.VoucherService, *service.ReservationService) {
	logger := testControllerLogger()
	return service.NewVoucherService(voucherRepo, testPaymentsConfig(), logger),
		service.NewReservationService(reservationRepo, logger)
}

func newPaymentServiceForTest(gateway *borica.Client, voucherRepo *controllerVoucherRepo, reservationRepo *controllerReservationRepo) *service.PaymentService {
	voucherSvc, reservationSvc := newTestServices(voucherRepo, reservationRepo)
	return service.NewPaymentService(
		gateway,
		borica.NewOrderSequence(),
		pending.NewRegistry(time.Hour),
		voucherSvc,
		reservationSvc,
		"https://studio.example",
		testControllerLogger(),
	)
}

func newJSONRequest(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
