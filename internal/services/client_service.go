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

const resourceClient = "client"

// ClientService implements the client use-cases. Clients have no owner of
// their own; every check goes through auth.ClientOwner.
type ClientService struct {
	orgs    repositories.OrgStore
	clients repositories.ClientStore
	// requireTargetOrgOwner additionally gates re-parenting on the new org's owner
	requireTargetOrgOwner bool
}

// NewClientService creates a new ClientService
func NewClientService(orgs repositories.OrgStore, clients repositories.ClientStore, requireTargetOrgOwner bool) *ClientService {
	return &ClientService{orgs: orgs, clients: clients, requireTargetOrgOwner: requireTargetOrgOwner}
}

var clientConstraints = map[string]func() *validation.Error{
	repositories.ClientsNameKey:   func() *validation.Error { return validation.Unique("name") },
	repositories.ClientsOrgIDFkey: func() *validation.Error { return validation.Exists("orgId") },
}

func (s *ClientService) idSchema() *validation.Schema {
	return validation.NewSchema(validation.Number("id").Exists(clientExists(s.clients)))
}

// loadOwned fetches a client and runs the gate against its org's owner
func (s *ClientService) loadOwned(ctx context.Context, id *auth.Identity, clientID int64) (*models.Client, error) {
	client, err := s.clients.GetClientByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	if client == nil {
		return nil, validation.Exists("id")
	}

	owner, err := auth.ClientOwner(ctx, s.orgs, client)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, validation.Exists("id")
		}
		return nil, err
	}
	if err := authorize(resourceClient, id, owner); err != nil {
		return nil, err
	}
	return client, nil
}

// Create adds a client to an org the requester owns
func (s *ClientService) Create(ctx context.Context, id *auth.Identity, input map[string]any) (*models.Client, error) {
	schema := validation.NewSchema(
		validation.String("name").Unique(clientNameTaken(s.clients, 0)),
		validation.Number("orgId").Exists(orgExists(s.orgs)),
	)
	values, err := schema.Validate(ctx, input)
	if err != nil {
		return nil, err
	}

	org, err := s.orgs.GetOrgByID(ctx, values.Int64("orgId"))
	if err != nil {
		return nil, fmt.Errorf("failed to load organization: %w", err)
	}
	if org == nil {
		return nil, validation.Exists("orgId")
	}
	if err := authorize(resourceClient, id, auth.OrgOwner(org)); err != nil {
		return nil, err
	}

	client := &models.Client{Name: values.String("name"), OrgID: org.ID}
	if err := s.clients.CreateClient(ctx, client); err != nil {
		return nil, constraintToValidation(err, "failed to create client", clientConstraints)
	}
	return client, nil
}

// Read returns a client whose org the requester owns
func (s *ClientService) Read(ctx context.Context, id *auth.Identity, input map[string]any) (*models.Client, error) {
	values, err := s.idSchema().Validate(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.loadOwned(ctx, id, values.Int64("id"))
}

// Update changes the provided fields of a client. The gate runs against the
// owner of the client's current org. An update with no fields is a no-op.
func (s *ClientService) Update(ctx context.Context, id *auth.Identity, input map[string]any) (*models.Client, error) {
	// The id is read ahead of validation only to exclude the client from its
	// own name uniqueness check; the schema still validates it.
	selfID, _ := validation.ToInt64(input["id"])

	schema := validation.NewSchema(
		validation.Number("id").Exists(clientExists(s.clients)),
		validation.String("name").Optional().Unique(clientNameTaken(s.clients, selfID)),
		validation.Number("orgId").Optional().Exists(orgExists(s.orgs)),
	)
	values, err := schema.Validate(ctx, input)
	if err != nil {
		return nil, err
	}

	client, err := s.loadOwned(ctx, id, values.Int64("id"))
	if err != nil {
		return nil, err
	}

	patch := models.ClientPatch{
		Name:  values.OptionalString("name"),
		OrgID: values.OptionalInt64("orgId"),
	}
	if patch.IsEmpty() {
		return client, nil
	}

	if s.requireTargetOrgOwner && patch.OrgID != nil && *patch.OrgID != client.OrgID {
		target, err := s.orgs.GetOrgByID(ctx, *patch.OrgID)
		if err != nil {
			return nil, fmt.Errorf("failed to load organization: %w", err)
		}
		if target == nil {
			return nil, validation.Exists("orgId")
		}
		if err := authorize(resourceClient, id, auth.OrgOwner(target)); err != nil {
			return nil, err
		}
	}

	patch.Apply(client)
	if err := s.clients.UpdateClient(ctx, client); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, validation.Exists("id")
		}
		return nil, constraintToValidation(err, "failed to update client", clientConstraints)
	}
	return client, nil
}

// Delete removes a client whose org the requester owns
func (s *ClientService) Delete(ctx context.Context, id *auth.Identity, input map[string]any) error {
	values, err := s.idSchema().Validate(ctx, input)
	if err != nil {
		return err
	}

	client, err := s.loadOwned(ctx, id, values.Int64("id"))
	if err != nil {
		return err
	}

	if err := s.clients.DeleteClient(ctx, client.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return validation.Exists("id")
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}
