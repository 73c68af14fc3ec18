package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/orgdesk/orgdesk/internal/db/models"
)

var clientCols = []string{"id", "name", "org_id", "created_at", "updated_at"}

func sampleClientRow() *sqlmock.Rows {
	return sqlmock.NewRows(clientCols).
		AddRow(int64(5), "widget", int64(1), time.Now(), time.Now())
}

func newClientRepo(t *testing.T) (*ClientRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewClientRepository(sqlx.NewDb(db, "sqlmock")), mock
}

// ---------------------------------------------------------------------------
// CreateClient
// ---------------------------------------------------------------------------

func TestCreateClient_Success(t *testing.T) {
	repo, mock := newClientRepo(t)
	mock.ExpectQuery("INSERT INTO clients").
		WithArgs("widget", int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	client := &models.Client{Name: "widget", OrgID: 1}
	if err := repo.CreateClient(context.Background(), client); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.ID != 5 {
		t.Errorf("ID = %d, want 5", client.ID)
	}
}

func TestCreateClient_OrgGone(t *testing.T) {
	repo, mock := newClientRepo(t)
	mock.ExpectQuery("INSERT INTO clients").
		WillReturnError(&pq.Error{Code: "23503", Constraint: ClientsOrgIDFkey})

	err := repo.CreateClient(context.Background(), &models.Client{Name: "widget", OrgID: 1})
	var ce *ConstraintError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConstraintError, got %v", err)
	}
	if ce.Kind != ConstraintForeignKey || ce.Constraint != ClientsOrgIDFkey {
		t.Errorf("ConstraintError = %+v", ce)
	}
}

func TestCreateClient_OtherPQError(t *testing.T) {
	repo, mock := newClientRepo(t)
	mock.ExpectQuery("INSERT INTO clients").
		WillReturnError(&pq.Error{Code: "57014"})

	err := repo.CreateClient(context.Background(), &models.Client{Name: "widget", OrgID: 1})
	var ce *ConstraintError
	if errors.As(err, &ce) {
		t.Errorf("query_canceled should not map to a constraint error: %v", err)
	}
}

// ---------------------------------------------------------------------------
// GetClientByID / GetClientByName
// ---------------------------------------------------------------------------

func TestGetClientByID_Found(t *testing.T) {
	repo, mock := newClientRepo(t)
	mock.ExpectQuery("SELECT.*FROM clients WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(sampleClientRow())

	client, err := repo.GetClientByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil || client.OrgID != 1 || client.Name != "widget" {
		t.Errorf("client = %+v", client)
	}
}

func TestGetClientByName_NotFound(t *testing.T) {
	repo, mock := newClientRepo(t)
	mock.ExpectQuery("SELECT.*FROM clients WHERE name").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(clientCols))

	client, err := repo.GetClientByName(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != nil {
		t.Errorf("expected nil, got %+v", client)
	}
}

// ---------------------------------------------------------------------------
// UpdateClient / DeleteClient
// ---------------------------------------------------------------------------

func TestUpdateClient_Success(t *testing.T) {
	repo, mock := newClientRepo(t)
	mock.ExpectExec("UPDATE clients").
		WithArgs("widget", int64(2), sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	client := &models.Client{ID: 5, Name: "widget", OrgID: 2}
	if err := repo.UpdateClient(context.Background(), client); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}
}

func TestUpdateClient_DuplicateName(t *testing.T) {
	repo, mock := newClientRepo(t)
	mock.ExpectExec("UPDATE clients").
		WillReturnError(&pq.Error{Code: "23505", Constraint: ClientsNameKey})

	err := repo.UpdateClient(context.Background(), &models.Client{ID: 5, Name: "taken", OrgID: 1})
	if !IsConstraint(err, ClientsNameKey) {
		t.Errorf("expected clients_name_key violation, got %v", err)
	}
}

func TestDeleteClient_DBError(t *testing.T) {
	repo, mock := newClientRepo(t)
	mock.ExpectExec("DELETE FROM clients WHERE id").
		WithArgs(int64(5)).
		WillReturnError(errDB)

	if err := repo.DeleteClient(context.Background(), 5); !errors.Is(err, errDB) {
		t.Errorf("expected wrapped errDB, got %v", err)
	}
}

func TestDeleteClient_NotFound(t *testing.T) {
	repo, mock := newClientRepo(t)
	mock.ExpectExec("DELETE FROM clients WHERE id").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteClient(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
