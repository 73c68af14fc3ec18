// factory.go implements the store backend registry, mapping database driver
// names (postgres, memory) to constructor functions.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/orgdesk/orgdesk/internal/config"
	"github.com/orgdesk/orgdesk/internal/db/repositories"
)

// Backend bundles the three stores the use-cases need
type Backend struct {
	Users   repositories.UserStore
	Orgs    repositories.OrgStore
	Clients repositories.ClientStore

	// SQL is the underlying pool; nil for backends that are not SQL-backed
	SQL *sql.DB

	ping  func(ctx context.Context) error
	close func() error
}

// NewBackend assembles a Backend. ping and closeFn may be nil.
func NewBackend(users repositories.UserStore, orgs repositories.OrgStore, clients repositories.ClientStore,
	ping func(ctx context.Context) error, closeFn func() error) *Backend {
	return &Backend{Users: users, Orgs: orgs, Clients: clients, ping: ping, close: closeFn}
}

// Ping checks that the backend is reachable
func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

// Close releases the backend's resources
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// FactoryFunc creates a store backend from database configuration
type FactoryFunc func(ctx context.Context, cfg *config.DatabaseConfig) (*Backend, error)

var factories = make(map[string]FactoryFunc)

// Register registers a backend factory under a driver name
func Register(name string, factory FactoryFunc) {
	factories[name] = factory
}

// Open creates the backend selected by cfg.Driver
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*Backend, error) {
	factory, ok := factories[cfg.Driver]
	if !ok {
		names := make([]string, 0, len(factories))
		for name := range factories {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unsupported database driver: %s (registered: %s)", cfg.Driver, strings.Join(names, ", "))
	}

	return factory(ctx, cfg)
}

func init() {
	Register("postgres", openPostgres)
}

func openPostgres(ctx context.Context, cfg *config.DatabaseConfig) (*Backend, error) {
	sqlDB, err := Connect(ctx, cfg.GetDSN(), cfg.MaxConnections, cfg.MinIdleConnections)
	if err != nil {
		return nil, err
	}
	return NewSQLBackend(sqlDB), nil
}

// NewSQLBackend wraps an open PostgreSQL pool in the repository stores
func NewSQLBackend(sqlDB *sql.DB) *Backend {
	xdb := sqlx.NewDb(sqlDB, "postgres")
	b := NewBackend(
		repositories.NewUserRepository(sqlDB),
		repositories.NewOrgRepository(xdb),
		repositories.NewClientRepository(xdb),
		sqlDB.PingContext,
		sqlDB.Close,
	)
	b.SQL = sqlDB
	return b
}
