package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/orgdesk/orgdesk/internal/auth"
	"github.com/orgdesk/orgdesk/internal/db/models"
	"github.com/orgdesk/orgdesk/internal/db/repositories"
	"github.com/orgdesk/orgdesk/internal/validation"
)

const resourceOrg = "org"

// OrgService implements the organization use-cases
type OrgService struct {
	orgs repositories.OrgStore
	// enforceReadOwnership restricts Read to the org's owner
	enforceReadOwnership bool
}

// NewOrgService creates a new OrgService
func NewOrgService(orgs repositories.OrgStore, enforceReadOwnership bool) *OrgService {
	return &OrgService{orgs: orgs, enforceReadOwnership: enforceReadOwnership}
}

func (s *OrgService) idSchema() *validation.Schema {
	return validation.NewSchema(validation.Number("id").Exists(orgExists(s.orgs)))
}

var orgNameConstraint = map[string]func() *validation.Error{
	repositories.OrgsNameKey: func() *validation.Error { return validation.Unique("name") },
}

// load fetches an org that validation just saw; a concurrent delete is
// reported as a failed database.exists on id
func (s *OrgService) load(ctx context.Context, id int64) (*models.Org, error) {
	org, err := s.orgs.GetOrgByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load organization: %w", err)
	}
	if org == nil {
		return nil, validation.Exists("id")
	}
	return org, nil
}

// List returns the requester's orgs, oldest first
func (s *OrgService) List(ctx context.Context, id *auth.Identity) ([]models.Org, error) {
	if err := requireIdentity(resourceOrg, id); err != nil {
		return nil, err
	}
	orgs, err := s.orgs.ListOrgsByOwner(ctx, id.UserID())
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	if orgs == nil {
		orgs = []models.Org{}
	}
	return orgs, nil
}

// Create adds an org owned by the requester
func (s *OrgService) Create(ctx context.Context, id *auth.Identity, input map[string]any) (*models.Org, error) {
	if err := requireIdentity(resourceOrg, id); err != nil {
		return nil, err
	}

	schema := validation.NewSchema(validation.String("name").Unique(orgNameTaken(s.orgs, 0)))
	values, err := schema.Validate(ctx, input)
	if err != nil {
		return nil, err
	}

	org := &models.Org{Name: values.String("name"), OwnerID: id.UserID()}
	if err := s.orgs.CreateOrg(ctx, org); err != nil {
		return nil, constraintToValidation(err, "failed to create organization", orgNameConstraint)
	}
	return org, nil
}

// Read returns one org. Ownership is checked only when enforceReadOwnership is set.
func (s *OrgService) Read(ctx context.Context, id *auth.Identity, input map[string]any) (*models.Org, error) {
	values, err := s.idSchema().Validate(ctx, input)
	if err != nil {
		return nil, err
	}

	org, err := s.load(ctx, values.Int64("id"))
	if err != nil {
		return nil, err
	}

	if s.enforceReadOwnership {
		if err := authorize(resourceOrg, id, auth.OrgOwner(org)); err != nil {
			return nil, err
		}
	} else if err := requireIdentity(resourceOrg, id); err != nil {
		return nil, err
	}
	return org, nil
}

// Update renames an org. The id is validated before the name so that the
// uniqueness check can exclude the org itself.
func (s *OrgService) Update(ctx context.Context, id *auth.Identity, input map[string]any) (*models.Org, error) {
	idValues, err := s.idSchema().Validate(ctx, input)
	if err != nil {
		return nil, err
	}
	orgID := idValues.Int64("id")

	nameSchema := validation.NewSchema(validation.String("name").Unique(orgNameTaken(s.orgs, orgID)))
	values, err := nameSchema.Validate(ctx, input)
	if err != nil {
		return nil, err
	}

	org, err := s.load(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := authorize(resourceOrg, id, auth.OrgOwner(org)); err != nil {
		return nil, err
	}

	org.Name = values.String("name")
	if err := s.orgs.UpdateOrg(ctx, org); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, validation.Exists("id")
		}
		return nil, constraintToValidation(err, "failed to update organization", orgNameConstraint)
	}
	return org, nil
}

// Delete removes an org and, through the schema's cascade, its clients
func (s *OrgService) Delete(ctx context.Context, id *auth.Identity, input map[string]any) error {
	values, err := s.idSchema().Validate(ctx, input)
	if err != nil {
		return err
	}

	org, err := s.load(ctx, values.Int64("id"))
	if err != nil {
		return err
	}
	if err := authorize(resourceOrg, id, auth.OrgOwner(org)); err != nil {
		return err
	}

	if err := s.orgs.DeleteOrg(ctx, org.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return validation.Exists("id")
		}
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	return nil
}
