package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/beharry-studio/ms-go-booking/app/entity"
)

var (
	ErrVoucherNotFound      = errors.New("voucher not found")
	ErrVoucherAlreadyExists = errors.New("voucher already exists")
)

type VoucherRepository struct {
	db DBTX
}

func NewVoucherRepository(db DBTX) *VoucherRepository {
	return &VoucherRepository{db: db}
}

func (r *VoucherRepository) Create(ctx context.Context, voucher *entity.Voucher) error {
	query := `
		INSERT INTO vouchers (
			id, code, type, amount_bgn, recipient_name, sender_name, message,
			buyer_email, buyer_phone, status, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		voucher.ID,
		voucher.Code,
		voucher.Type,
		voucher.AmountBGN,
		voucher.RecipientName,
		voucher.SenderName,
		voucher.Message,
		voucher.BuyerEmail,
		voucher.BuyerPhone,
		voucher.Status,
		voucher.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrVoucherAlreadyExists
		}
		return err
	}
	return nil
}

func (r *VoucherRepository) List(ctx context.Context) ([]*entity.Voucher, error) {
	query := `
		SELECT id, code, type, amount_bgn, recipient_name, sender_name, message,
			buyer_email, buyer_phone, status, created_at
		FROM vouchers
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Voucher, 0)
	for rows.Next() {
		item, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *VoucherRepository) FindByID(ctx context.Context, id string) (*entity.Voucher, error) {
	query := `
		SELECT id, code, type, amount_bgn, recipient_name, sender_name, message,
			buyer_email, buyer_phone, status, created_at
		FROM vouchers
		WHERE id = ?
	`

	row := r.db.QueryRowContext(ctx, query, id)
	item, err := scanVoucher(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *VoucherRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE vouchers SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Zero rows also covers an unchanged status; confirm existence.
		existing, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrVoucherNotFound
		}
	}
	return nil
}

// ExpireBatch marks paid vouchers created before the cutoff as expired and
// returns how many rows changed.
func (r *VoucherRepository) ExpireBatch(ctx context.Context, cutoff time.Time, limit int32) (int64, error) {
	query := `
		UPDATE vouchers
		SET status = ?
		WHERE status = ? AND created_at < ?
		LIMIT ?
	`

	result, err := r.db.ExecContext(ctx, query,
		entity.VoucherStatusExpired,
		entity.VoucherStatusPaid,
		cutoff,
		limit,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVoucher(row rowScanner) (*entity.Voucher, error) {
	var item entity.Voucher
	err := row.Scan(
		&item.ID,
		&item.Code,
		&item.Type,
		&item.AmountBGN,
		&item.RecipientName,
		&item.SenderName,
		&item.Message,
		&item.BuyerEmail,
		&item.BuyerPhone,
		&item.Status,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
