// client_repository.go implements ClientRepository, providing database queries
// for client CRUD.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/orgdesk/orgdesk/internal/db/models"
)

const clientColumns = `id, name, org_id, created_at, updated_at`

// ClientRepository handles database operations for clients
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// CreateClient inserts a new client and fills in its ID and timestamps
func (r *ClientRepository) CreateClient(ctx context.Context, client *models.Client) error {
	now := models.Now()
	client.CreatedAt = now
	client.UpdatedAt = now

	query := `
		INSERT INTO clients (name, org_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowxContext(ctx, query, client.Name, client.OrgID, client.CreatedAt, client.UpdatedAt).Scan(&client.ID)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", mapConstraintError(err))
	}

	return nil
}

// GetClientByID retrieves a client by ID
func (r *ClientRepository) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	err := r.db.GetContext(ctx, &client, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

// GetClientByName retrieves a client by its unique name
func (r *ClientRepository) GetClientByName(ctx context.Context, name string) (*models.Client, error) {
	var client models.Client
	err := r.db.GetContext(ctx, &client, `SELECT `+clientColumns+` FROM clients WHERE name = $1`, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

// UpdateClient persists the client's name and org
func (r *ClientRepository) UpdateClient(ctx context.Context, client *models.Client) error {
	client.UpdatedAt = models.Now()

	query := `
		UPDATE clients
		SET name = $1, org_id = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query, client.Name, client.OrgID, client.UpdatedAt, client.ID)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", mapConstraintError(err))
	}

	return requireRow(result, "client")
}

// DeleteClient removes a client
func (r *ClientRepository) DeleteClient(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	return requireRow(result, "client")
}
