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

	"reratrack/internal/checklist/models"
	id "reratrack/pkg/domain"
	"reratrack/pkg/platform/sentinel"
	"reratrack/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists checklists in PostgreSQL. Items live in their own
// table ordered by position, so mutations only touch the rows that change.
// When the context carries a transaction (see pkg/platform/tx) every
// statement joins it.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed checklist store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, checklist *models.Checklist) error {
	return tx.Run(ctx, s.db, func(q tx.Querier) error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO checklists (id, client_id, owner_id, created_at, last_updated)
			VALUES ($1, $2, $3, $4, $5)
		`,
			uuid.UUID(checklist.ID),
			uuid.UUID(checklist.ClientID),
			uuid.UUID(checklist.OwnerID),
			checklist.CreatedAt,
			checklist.LastUpdated,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return fmt.Errorf("checklist for client %s: %w", checklist.ClientID, sentinel.ErrConflict)
			}
			return fmt.Errorf("insert checklist: %w", err)
		}
		return insertItems(ctx, q, checklist.ID, 0, checklist.Items)
	})
}

// insertItems writes items starting at position offset in one round trip.
func insertItems(ctx context.Context, q tx.Querier, checklistID id.ChecklistID, offset int, items models.Items) error {
	if len(items) == 0 {
		return nil
	}
	positions := make([]int64, len(items))
	names := make([]string, len(items))
	statuses := make([]string, len(items))
	for i, item := range items {
		positions[i] = int64(offset + i)
		names[i] = item.Name
		statuses[i] = string(item.Status)
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO checklist_items (checklist_id, position, name, status)
		SELECT $1, t.position, t.name, t.status
		FROM unnest($2::int[], $3::text[], $4::text[]) AS t(position, name, status)
	`, uuid.UUID(checklistID), pq.Array(positions), pq.Array(names), pq.Array(statuses))
	if err != nil {
		return fmt.Errorf("insert checklist items: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByClient(ctx context.Context, clientID id.ClientID) (*models.Checklist, error) {
	found, err := s.load(ctx, tx.Using(ctx, s.db), []id.ClientID{clientID})
	if err != nil {
		return nil, err
	}
	c, ok := found[clientID]
	if !ok {
		return nil, fmt.Errorf("checklist for client %s: %w", clientID, sentinel.ErrNotFound)
	}
	return c, nil
}

// FindByClients returns the checklists that exist among clientIDs.
func (s *PostgresStore) FindByClients(ctx context.Context, clientIDs []id.ClientID) (map[id.ClientID]*models.Checklist, error) {
	if len(clientIDs) == 0 {
		return map[id.ClientID]*models.Checklist{}, nil
	}
	return s.load(ctx, tx.Using(ctx, s.db), clientIDs)
}

// Execute locks the checklist row with SELECT ... FOR UPDATE, runs validate
// and mutate, then writes back the changed items inside one transaction.
func (s *PostgresStore) Execute(ctx context.Context, clientID id.ClientID, validate func(*models.Checklist) error, mutate func(*models.Checklist)) (*models.Checklist, error) {
	var result *models.Checklist
	err := tx.Run(ctx, s.db, func(q tx.Querier) error {
		// Lock first, then read: a fresh statement sees items appended by
		// whoever held the lock before us.
		var locked uuid.UUID
		err := q.QueryRowContext(ctx, `SELECT id FROM checklists WHERE client_id = $1 FOR UPDATE`,
			uuid.UUID(clientID)).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checklist for client %s: %w", clientID, sentinel.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock checklist: %w", err)
		}
		found, err := s.load(ctx, q, []id.ClientID{clientID})
		if err != nil {
			return err
		}
		current, ok := found[clientID]
		if !ok {
			return fmt.Errorf("checklist for client %s: %w", clientID, sentinel.ErrNotFound)
		}
		if err := validate(current); err != nil {
			return err
		}
		before := current.Clone()
		mutate(current)
		if err := saveChanges(ctx, q, before, current); err != nil {
			return err
		}
		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// saveChanges persists the difference between before and after. Items are
// only ever updated in place or appended, so positions stay stable.
func saveChanges(ctx context.Context, q tx.Querier, before, after *models.Checklist) error {
	for i := 0; i < len(before.Items) && i < len(after.Items); i++ {
		if before.Items[i] == after.Items[i] {
			continue
		}
		_, err := q.ExecContext(ctx, `
			UPDATE checklist_items SET status = $3
			WHERE checklist_id = $1 AND name = $2
		`, uuid.UUID(after.ID), after.Items[i].Name, string(after.Items[i].Status))
		if err != nil {
			return fmt.Errorf("update checklist item: %w", err)
		}
	}
	if len(after.Items) > len(before.Items) {
		if err := insertItems(ctx, q, after.ID, len(before.Items), after.Items[len(before.Items):]); err != nil {
			return err
		}
	}
	_, err := q.ExecContext(ctx, `UPDATE checklists SET last_updated = $2 WHERE id = $1`,
		uuid.UUID(after.ID), after.LastUpdated)
	if err != nil {
		return fmt.Errorf("touch checklist: %w", err)
	}
	return nil
}

func (s *PostgresStore) load(ctx context.Context, q tx.Querier, clientIDs []id.ClientID) (map[id.ClientID]*models.Checklist, error) {
	ids := make([]string, len(clientIDs))
	for i, clientID := range clientIDs {
		ids[i] = clientID.String()
	}
	const query = `
		SELECT c.id, c.client_id, c.owner_id, c.created_at, c.last_updated, i.name, i.status
		FROM checklists c
		LEFT JOIN checklist_items i ON i.checklist_id = c.id
		WHERE c.client_id = ANY($1::uuid[])
		ORDER BY c.client_id, i.position
	`
	rows, err := q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("load checklists: %w", err)
	}
	defer rows.Close()

	out := make(map[id.ClientID]*models.Checklist, len(clientIDs))
	for rows.Next() {
		var (
			checklistID, clientID, ownerID uuid.UUID
			createdAt, lastUpdated         time.Time
			name, status                   sql.NullString
		)
		if err := rows.Scan(&checklistID, &clientID, &ownerID, &createdAt, &lastUpdated, &name, &status); err != nil {
			return nil, fmt.Errorf("scan checklist: %w", err)
		}
		key := id.ClientID(clientID)
		c, ok := out[key]
		if !ok {
			c = &models.Checklist{
				ID:          id.ChecklistID(checklistID),
				ClientID:    key,
				OwnerID:     id.UserID(ownerID),
				Items:       models.Items{},
				CreatedAt:   createdAt,
				LastUpdated: lastUpdated,
			}
			out[key] = c
		}
		if name.Valid {
			c.Items = append(c.Items, models.Item{Name: name.String, Status: models.Status(status.String)})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checklists: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DeleteByClient(ctx context.Context, clientID id.ClientID) error {
	_, err := tx.Using(ctx, s.db).ExecContext(ctx, `DELETE FROM checklists WHERE client_id = $1`, uuid.UUID(clientID))
	if err != nil {
		return fmt.Errorf("delete checklist: %w", err)
	}
	return nil
}
