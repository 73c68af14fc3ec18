package services

import (
	"context"

	"github.com/orgdesk/orgdesk/internal/db/repositories"
	"github.com/orgdesk/orgdesk/internal/validation"
)

// Lookup functions backing database.unique and database.exists rules.
// Values arrive already coerced: string for names and emails, int64 for ids.

func emailTaken(users repositories.UserStore) validation.LookupFunc {
	return func(ctx context.Context, v any) (bool, error) {
		u, err := users.GetUserByEmail(ctx, v.(string))
		return u != nil, err
	}
}

func orgExists(orgs repositories.OrgStore) validation.LookupFunc {
	return func(ctx context.Context, v any) (bool, error) {
		o, err := orgs.GetOrgByID(ctx, v.(int64))
		return o != nil, err
	}
}

// orgNameTaken reports a name held by any org other than exceptID (0 for none)
func orgNameTaken(orgs repositories.OrgStore, exceptID int64) validation.LookupFunc {
	return func(ctx context.Context, v any) (bool, error) {
		o, err := orgs.GetOrgByName(ctx, v.(string))
		return o != nil && o.ID != exceptID, err
	}
}

func clientExists(clients repositories.ClientStore) validation.LookupFunc {
	return func(ctx context.Context, v any) (bool, error) {
		c, err := clients.GetClientByID(ctx, v.(int64))
		return c != nil, err
	}
}

// clientNameTaken reports a name held by any client other than exceptID
func clientNameTaken(clients repositories.ClientStore, exceptID int64) validation.LookupFunc {
	return func(ctx context.Context, v any) (bool, error) {
		c, err := clients.GetClientByName(ctx, v.(string))
		return c != nil && c.ID != exceptID, err
	}
}
