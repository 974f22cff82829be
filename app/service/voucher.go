package service

import (
	"context"
	cryptorand "crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/beharry-studio/ms-go-booking/app/entity"
	"github.com/beharry-studio/ms-go-booking/app/repository"
	"github.com/beharry-studio/ms-go-booking/app/types"
	"github.com/beharry-studio/ms-go-booking/config"
)

const defaultBatchSize = int32(100)

// Ambiguous glyphs (0/O, 1/I) are excluded so codes survive being read
// aloud over the phone.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type voucherRepository interface {
	Create(ctx context.Context, voucher *entity.Voucher) error
	List(ctx context.Context) ([]*entity.Voucher, error)
	FindByID(ctx context.Context, id string) (*entity.Voucher, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ExpireBatch(ctx context.Context, cutoff time.Time, limit int32) (int64, error)
}

type VoucherService struct {
	repo        voucherRepository
	paymentsCfg config.PaymentsConfig
	logger      logrus.FieldLogger
}

func NewVoucherService(repo voucherRepository, paymentsCfg config.PaymentsConfig, logger logrus.FieldLogger) *VoucherService {
	return &VoucherService{
		repo:        repo,
		paymentsCfg: paymentsCfg,
		logger:      logger,
	}
}

// CreateVoucher persists a paid voucher. It is called after the gateway has
// confirmed the payment, or directly in simulation mode.
func (s *VoucherService) CreateVoucher(ctx context.Context, payload *types.VoucherPayload) (*entity.Voucher, error) {
	if payload == nil {
		return nil, ErrInvalidRequest
	}
	if !entity.ValidVoucherType(payload.Type) {
		return nil, ErrInvalidRequest
	}
	if payload.AmountBGN <= 0 {
		return nil, ErrInvalidAmount
	}

	code, err := generateVoucherCode()
	if err != nil {
		return nil, err
	}

	voucher := &entity.Voucher{
		ID:            uuid.NewString(),
		Code:          code,
		Type:          payload.Type,
		AmountBGN:     payload.AmountBGN,
		RecipientName: payload.RecipientName,
		SenderName:    payload.SenderName,
		Message:       payload.Message,
		BuyerEmail:    payload.BuyerEmail,
		BuyerPhone:    payload.BuyerPhone,
		Status:        entity.VoucherStatusPaid,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, voucher); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"voucher_id": voucher.ID,
		"type":       voucher.Type,
	}).Info("voucher created")

	return voucher, nil
}

func (s *VoucherService) ListVouchers(ctx context.Context) ([]*entity.Voucher, error) {
	return s.repo.List(ctx)
}

func (s *VoucherService) UpdateStatus(ctx context.Context, id, status string) error {
	if !entity.ValidVoucherStatus(status) {
		return ErrInvalidStatus
	}
	err := s.repo.UpdateStatus(ctx, id, status)
	if errors.Is(err, repository.ErrVoucherNotFound) {
		return ErrVoucherNotFound
	}
	return err
}

// RunExpireVouchersBatch marks paid vouchers older than the validity window
// as expired and returns the number of rows changed.
func (s *VoucherService) RunExpireVouchersBatch(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.paymentsCfg.VoucherValidity)
	expired, err := s.repo.ExpireBatch(ctx, cutoff, s.batchSize())
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		s.logger.WithField("count", expired).Info("vouchers expired")
	}
	return expired, nil
}

func (s *VoucherService) batchSize() int32 {
	if s.paymentsCfg.JobBatchSize > 0 {
		return s.paymentsCfg.JobBatchSize
	}
	return defaultBatchSize
}

func generateVoucherCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := cryptorand.Read(buf); err != nil {
		return "", fmt.Errorf("generate voucher code: %w", err)
	}
	code := make([]byte, len(buf))
	for i, b := range buf {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return fmt.Sprintf("BCS-%s-%s", code[:4], code[4:]), nil
}
