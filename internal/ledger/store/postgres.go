package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"reratrack/internal/ledger/models"
	id "reratrack/pkg/domain"
	"reratrack/pkg/platform/sentinel"
	"reratrack/pkg/platform/tx"
)

// PostgresStore persists payment records in PostgreSQL. Receipts live in
// payment_transactions, ordered by seq.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectPayments = `
	SELECT id, client_id, owner_id, amount, description, due_date, paid_amount, version, date_created
	FROM payments
`

func (s *PostgresStore) Create(ctx context.Context, record *models.PaymentRecord) error {
	_, err := tx.Using(ctx, s.db).ExecContext(ctx, `
		INSERT INTO payments (id, client_id, owner_id, amount, description, due_date, paid_amount, version, date_created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, uuid.UUID(record.ID), uuid.UUID(record.ClientID), uuid.UUID(record.OwnerID),
		record.Amount, record.Description, record.DueDate, record.PaidAmount, record.Version, record.DateCreated)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("payment %s: %w", record.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, paymentID id.PaymentID) (*models.PaymentRecord, error) {
	return findByID(ctx, tx.Using(ctx, s.db), paymentID)
}

func (s *PostgresStore) ListByClient(ctx context.Context, ownerID id.UserID, clientID id.ClientID) ([]*models.PaymentRecord, error) {
	return s.loadMany(ctx, tx.Using(ctx, s.db),
		selectPayments+` WHERE owner_id = $1 AND client_id = $2 ORDER BY date_created, id`,
		uuid.UUID(ownerID), uuid.UUID(clientID))
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.PaymentRecord, error) {
	return s.loadMany(ctx, tx.Using(ctx, s.db),
		selectPayments+` WHERE owner_id = $1 ORDER BY date_created, id`,
		uuid.UUID(ownerID))
}

// Execute locks the payment row, validates and mutates it, then writes the
// new paid amount and appended receipts and bumps version.
func (s *PostgresStore) Execute(ctx context.Context, paymentID id.PaymentID, validate func(*models.PaymentRecord) error, mutate func(*models.PaymentRecord)) (*models.PaymentRecord, error) {
	var result *models.PaymentRecord
	err := tx.Run(ctx, s.db, func(q tx.Querier) error {
		current, err := lockAndLoad(ctx, q, paymentID)
		if err != nil {
			return err
		}
		if err := validate(current); err != nil {
			return err
		}
		recorded := len(current.Transactions)
		mutate(current)

		res, err := q.ExecContext(ctx, `
			UPDATE payments SET paid_amount = $2, version = version + 1
			WHERE id = $1 AND version = $3
		`, uuid.UUID(paymentID), current.PaidAmount, current.Version)
		if err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("payment %s changed concurrently: %w", paymentID, sentinel.ErrConflict)
		}
		for seq := recorded; seq < len(current.Transactions); seq++ {
			if err := insertTransaction(ctx, q, paymentID, seq, current.Transactions[seq]); err != nil {
				return err
			}
		}
		current.Version++
		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteIf locks the payment row and deletes it when validate accepts it.
// Receipts go with it through ON DELETE CASCADE.
func (s *PostgresStore) DeleteIf(ctx context.Context, paymentID id.PaymentID, validate func(*models.PaymentRecord) error) (*models.PaymentRecord, error) {
	var deleted *models.PaymentRecord
	err := tx.Run(ctx, s.db, func(q tx.Querier) error {
		current, err := lockAndLoad(ctx, q, paymentID)
		if err != nil {
			return err
		}
		if err := validate(current); err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, uuid.UUID(paymentID)); err != nil {
			return fmt.Errorf("delete payment: %w", err)
		}
		deleted = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (s *PostgresStore) DeleteByClient(ctx context.Context, clientID id.ClientID) error {
	_, err := tx.Using(ctx, s.db).ExecContext(ctx, `DELETE FROM payments WHERE client_id = $1`, uuid.UUID(clientID))
	if err != nil {
		return fmt.Errorf("delete client payments: %w", err)
	}
	return nil
}

func lockAndLoad(ctx context.Context, q tx.Querier, paymentID id.PaymentID) (*models.PaymentRecord, error) {
	var version int64
	err := q.QueryRowContext(ctx, `SELECT version FROM payments WHERE id = $1 FOR UPDATE`,
		uuid.UUID(paymentID)).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", paymentID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock payment: %w", err)
	}
	return findByID(ctx, q, paymentID)
}

func findByID(ctx context.Context, q tx.Querier, paymentID id.PaymentID) (*models.PaymentRecord, error) {
	record, err := scanPayment(q.QueryRowContext(ctx, selectPayments+` WHERE id = $1`, uuid.UUID(paymentID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", paymentID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := attachTransactions(ctx, q, []*models.PaymentRecord{record}); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *PostgresStore) loadMany(ctx context.Context, q tx.Querier, query string, args ...any) ([]*models.PaymentRecord, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	out := make([]*models.PaymentRecord, 0)
	for rows.Next() {
		record, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	if err := attachTransactions(ctx, q, out); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*models.PaymentRecord, error) {
	var (
		paymentID, clientID, ownerID uuid.UUID
		record                       models.PaymentRecord
		dueDate                      sql.NullTime
	)
	err := row.Scan(&paymentID, &clientID, &ownerID, &record.Amount, &record.Description,
		&dueDate, &record.PaidAmount, &record.Version, &record.DateCreated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	record.ID = id.PaymentID(paymentID)
	record.ClientID = id.ClientID(clientID)
	record.OwnerID = id.UserID(ownerID)
	record.Transactions = []models.Transaction{}
	if dueDate.Valid {
		due := dueDate.Time.UTC()
		record.DueDate = &due
	}
	return &record, nil
}

func attachTransactions(ctx context.Context, q tx.Querier, records []*models.PaymentRecord) error {
	if len(records) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*models.PaymentRecord, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		byID[uuid.UUID(r.ID)] = r
		ids = append(ids, r.ID.String())
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, payment_id, amount, paid_on, notes, recorded_at
		FROM payment_transactions
		WHERE payment_id = ANY($1::uuid[])
		ORDER BY payment_id, seq
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load payment transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			txID, paymentID uuid.UUID
			amount          decimal.Decimal
			paidOn, at      time.Time
			notes           string
		)
		if err := rows.Scan(&txID, &paymentID, &amount, &paidOn, &notes, &at); err != nil {
			return fmt.Errorf("scan payment transaction: %w", err)
		}
		if r, ok := byID[paymentID]; ok {
			r.Transactions = append(r.Transactions, models.Transaction{
				ID:        id.TransactionID(txID),
				Amount:    amount,
				Date:      paidOn,
				Notes:     notes,
				Timestamp: at,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate payment transactions: %w", err)
	}
	return nil
}

func insertTransaction(ctx context.Context, q tx.Querier, paymentID id.PaymentID, seq int, t models.Transaction) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO payment_transactions (id, payment_id, seq, amount, paid_on, notes, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.UUID(t.ID), uuid.UUID(paymentID), seq, t.Amount, t.Date, t.Notes, t.Timestamp)
	if err != nil {
		return fmt.Errorf("insert payment transaction: %w", err)
	}
	return nil
}
