// org_repository.go implements OrgRepository, providing database queries for
// organization CRUD and owner listing.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/orgdesk/orgdesk/internal/db/models"
)

const orgColumns = `id, name, owner_id, created_at, updated_at`

// OrgRepository handles database operations for organizations
type OrgRepository struct {
	db *sqlx.DB
}

// NewOrgRepository creates a new organization repository
func NewOrgRepository(db *sqlx.DB) *OrgRepository {
	return &OrgRepository{db: db}
}

// CreateOrg inserts a new organization and fills in its ID and timestamps
func (r *OrgRepository) CreateOrg(ctx context.Context, org *models.Org) error {
	now := models.Now()
	org.CreatedAt = now
	org.UpdatedAt = now

	query := `
		INSERT INTO orgs (name, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowxContext(ctx, query, org.Name, org.OwnerID, org.CreatedAt, org.UpdatedAt).Scan(&org.ID)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", mapConstraintError(err))
	}

	return nil
}

// GetOrgByID retrieves an organization by ID
func (r *OrgRepository) GetOrgByID(ctx context.Context, id int64) (*models.Org, error) {
	var org models.Org
	err := r.db.GetContext(ctx, &org, `SELECT `+orgColumns+` FROM orgs WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}

// GetOrgByName retrieves an organization by its unique name
func (r *OrgRepository) GetOrgByName(ctx context.Context, name string) (*models.Org, error) {
	var org models.Org
	err := r.db.GetContext(ctx, &org, `SELECT `+orgColumns+` FROM orgs WHERE name = $1`, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}

// ListOrgsByOwner returns the organizations owned by a user, oldest first
func (r *OrgRepository) ListOrgsByOwner(ctx context.Context, ownerID int64) ([]models.Org, error) {
	orgs := []models.Org{}
	query := `SELECT ` + orgColumns + ` FROM orgs WHERE owner_id = $1 ORDER BY id ASC`
	if err := r.db.SelectContext(ctx, &orgs, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

// UpdateOrg persists the organization's name
func (r *OrgRepository) UpdateOrg(ctx context.Context, org *models.Org) error {
	org.UpdatedAt = models.Now()

	query := `
		UPDATE orgs
		SET name = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, org.Name, org.UpdatedAt, org.ID)
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", mapConstraintError(err))
	}

	return requireRow(result, "organization")
}

// DeleteOrg removes an organization. Its clients go with it (ON DELETE CASCADE).
func (r *OrgRepository) DeleteOrg(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orgs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	return requireRow(result, "organization")
}

// requireRow turns a zero-row update or delete into ErrNotFound
func requireRow(result sql.Result, entity string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows for %s: %w", entity, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}
