package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"reratrack/internal/client/models"
	id "reratrack/pkg/domain"
	"reratrack/pkg/platform/sentinel"
	"reratrack/pkg/platform/tx"
)

// PostgresStore persists clients in PostgreSQL. Writes join the transaction
// carried by ctx, if any.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectClients = `
	SELECT id, owner_id, type, name, promoter_name, location, rera_number, mobile, email, created_at
	FROM clients
`

func (s *PostgresStore) Create(ctx context.Context, c *models.Client) error {
	_, err := tx.Using(ctx, s.db).ExecContext(ctx, `
		INSERT INTO clients (id, owner_id, type, name, promoter_name, location, rera_number, mobile, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, uuid.UUID(c.ID), uuid.UUID(c.OwnerID), string(c.Type), c.Name, c.PromoterName,
		c.Location, c.ReraNumber, c.Mobile, c.Email, c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("client %s: %w", c.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, clientID id.ClientID) (*models.Client, error) {
	c, err := scanClient(tx.Using(ctx, s.db).QueryRowContext(ctx, selectClients+` WHERE id = $1`, uuid.UUID(clientID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %s: %w", clientID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Client, error) {
	return s.query(ctx, "list clients",
		selectClients+` WHERE owner_id = $1 ORDER BY created_at, id`, uuid.UUID(ownerID))
}

// Search matches query as a literal substring of name, promoter name or
// location, ignoring case.
func (s *PostgresStore) Search(ctx context.Context, ownerID id.UserID, query string) ([]*models.Client, error) {
	return s.query(ctx, "search clients", selectClients+`
		WHERE owner_id = $1
		  AND (name ILIKE $2 ESCAPE '\' OR promoter_name ILIKE $2 ESCAPE '\' OR location ILIKE $2 ESCAPE '\')
		ORDER BY created_at, id`, uuid.UUID(ownerID), containsPattern(query))
}

func (s *PostgresStore) query(ctx context.Context, action, query string, args ...any) ([]*models.Client, error) {
	rows, err := tx.Using(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	defer rows.Close()

	out := make([]*models.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

func (s *PostgresStore) Delete(ctx context.Context, clientID id.ClientID) error {
	res, err := tx.Using(ctx, s.db).ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, uuid.UUID(clientID))
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("client %s: %w", clientID, sentinel.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*models.Client, error) {
	var (
		clientID, ownerID uuid.UUID
		clientType        string
		c                 models.Client
	)
	err := row.Scan(&clientID, &ownerID, &clientType, &c.Name, &c.PromoterName,
		&c.Location, &c.ReraNumber, &c.Mobile, &c.Email, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan client: %w", err)
	}
	c.ID = id.ClientID(clientID)
	c.OwnerID = id.UserID(ownerID)
	c.Type = models.Type(clientType)
	return &c, nil
}
