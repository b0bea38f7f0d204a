package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chrisdamba/comanda/internal/models"
	"github.com/chrisdamba/comanda/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `
    id, order_id, amount, payment_method, status, transaction_id, card_last_four,
    cash_received, change_amount, notes, processed_by, created_at, processed_at`

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	p := &models.Payment{}
	var cashReceived, changeAmount decimal.NullDecimal
	err := row.Scan(
		&p.ID,
		&p.OrderID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.TransactionID,
		&p.CardLastFour,
		&cashReceived,
		&changeAmount,
		&p.Notes,
		&p.ProcessedBy,
		&p.CreatedAt,
		&p.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}
	if cashReceived.Valid {
		p.CashReceived = &cashReceived.Decimal
	}
	if changeAmount.Valid {
		p.ChangeAmount = &changeAmount.Decimal
	}
	return p, nil
}

func (r *PaymentRepository) Save(ctx context.Context, p *models.Payment) error {
	if p.ID == 0 {
		query := `
            INSERT INTO payments (
                order_id, amount, payment_method, status, transaction_id, card_last_four,
                cash_received, change_amount, notes, processed_by, processed_at
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
            RETURNING id, created_at
        `
		return r.pool.QueryRow(ctx, query,
			p.OrderID,
			p.Amount,
			p.Method,
			p.Status,
			p.TransactionID,
			p.CardLastFour,
			nullDecimal(p.CashReceived),
			nullDecimal(p.ChangeAmount),
			p.Notes,
			p.ProcessedBy,
			p.ProcessedAt,
		).Scan(&p.ID, &p.CreatedAt)
	}

	query := `
        UPDATE payments SET
            amount = $2, payment_method = $3, status = $4, transaction_id = $5,
            card_last_four = $6, cash_received = $7, change_amount = $8,
            notes = $9, processed_by = $10, processed_at = $11
        WHERE id = $1
    `
	tag, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Amount,
		p.Method,
		p.Status,
		p.TransactionID,
		p.CardLastFour,
		nullDecimal(p.CashReceived),
		nullDecimal(p.ChangeAmount),
		p.Notes,
		p.ProcessedBy,
		p.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound(models.EntityPayment, p.ID)
	}
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.NewNotFound(models.EntityPayment, id)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	p, err := scanPayment(r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NewNotFound(models.EntityPayment, id)
	}
	return p, err
}

func (r *PaymentRepository) Find(ctx context.Context, f repositories.PaymentFilter) ([]*models.Payment, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.OrderID != 0 {
		where = append(where, "order_id = "+arg(f.OrderID))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if f.Method != "" {
		where = append(where, "payment_method = "+arg(f.Method))
	}
	if f.ProcessedBy != "" {
		where = append(where, "processed_by = "+arg(f.ProcessedBy))
	}
	if !f.From.IsZero() {
		where = append(where, "created_at >= "+arg(f.From))
	}
	if !f.To.IsZero() {
		where = append(where, "created_at <= "+arg(f.To))
	}

	sql := `SELECT ` + paymentColumns + ` FROM payments`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	if f.ProcessedBy != "" {
		sql += " ORDER BY processed_at DESC NULLS LAST, id"
	} else {
		sql += " ORDER BY id"
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*models.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) HasCompleted(ctx context.Context, orderID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM payments WHERE order_id = $1 AND status = 'COMPLETED')
    `, orderID).Scan(&exists)
	return exists, err
}
