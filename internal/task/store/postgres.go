package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"reratrack/internal/task/models"
	id "reratrack/pkg/domain"
	"reratrack/pkg/platform/sentinel"
	"reratrack/pkg/platform/tx"
)

// PostgresStore persists tasks in PostgreSQL. The free-text fields live in
// one JSONB column. Writes join the transaction carried by ctx, if any.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectTasks = `
	SELECT id, client_id, owner_id, details, created_at, updated_at
	FROM tasks
`

func (s *PostgresStore) Create(ctx context.Context, t *models.Task) error {
	details, err := json.Marshal(t.Details)
	if err != nil {
		return fmt.Errorf("encode task details: %w", err)
	}
	_, err = tx.Using(ctx, s.db).ExecContext(ctx, `
		INSERT INTO tasks (id, client_id, owner_id, details, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.UUID(t.ID), uuid.UUID(t.ClientID), uuid.UUID(t.OwnerID), details, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("task %s: %w", t.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, taskID id.TaskID) (*models.Task, error) {
	return findTask(ctx, tx.Using(ctx, s.db), taskID, "")
}

func findTask(ctx context.Context, q tx.Querier, taskID id.TaskID, suffix string) (*models.Task, error) {
	t, err := scanTask(q.QueryRowContext(ctx, selectTasks+` WHERE id = $1`+suffix, uuid.UUID(taskID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", taskID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *PostgresStore) ListByClient(ctx context.Context, clientID id.ClientID) ([]*models.Task, error) {
	rows, err := tx.Using(ctx, s.db).QueryContext(ctx,
		selectTasks+` WHERE client_id = $1 ORDER BY created_at, id`, uuid.UUID(clientID))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}

// Execute locks the task row, applies mutate and writes the result back.
func (s *PostgresStore) Execute(ctx context.Context, taskID id.TaskID, mutate func(*models.Task) error) (*models.Task, error) {
	var result *models.Task
	err := tx.Run(ctx, s.db, func(q tx.Querier) error {
		current, err := findTask(ctx, q, taskID, ` FOR UPDATE`)
		if err != nil {
			return err
		}
		if err := mutate(current); err != nil {
			return err
		}
		details, err := json.Marshal(current.Details)
		if err != nil {
			return fmt.Errorf("encode task details: %w", err)
		}
		if _, err := q.ExecContext(ctx, `UPDATE tasks SET details = $2, updated_at = $3 WHERE id = $1`,
			uuid.UUID(taskID), details, current.UpdatedAt); err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore) Delete(ctx context.Context, taskID id.TaskID) error {
	res, err := tx.Using(ctx, s.db).ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, uuid.UUID(taskID))
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("task %s: %w", taskID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) DeleteByClient(ctx context.Context, clientID id.ClientID) error {
	_, err := tx.Using(ctx, s.db).ExecContext(ctx, `DELETE FROM tasks WHERE client_id = $1`, uuid.UUID(clientID))
	if err != nil {
		return fmt.Errorf("delete client tasks: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		taskID, clientID, ownerID uuid.UUID
		details                   []byte
		t                         models.Task
	)
	err := row.Scan(&taskID, &clientID, &ownerID, &details, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	if err := json.Unmarshal(details, &t.Details); err != nil {
		return nil, fmt.Errorf("decode task details: %w", err)
	}
	t.ID = id.TaskID(taskID)
	t.ClientID = id.ClientID(clientID)
	t.OwnerID = id.UserID(ownerID)
	return &t, nil
}
