package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/collabpack/internal/common"
	"github.com/dmitrijs2005/collabpack/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func accountRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "email", "username", "password", "phone", "user_group", "account_type"})
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+accounts\s*\(email,\s*username,\s*password,\s*phone,\s*user_group,\s*account_type\)`

	rows := accountRows().AddRow("u-1", "alice@x.com", "alice", "hash", "111", "research", "user")
	mock.ExpectQuery(q).
		WithArgs("alice@x.com", "alice", "hash", "111", "research", "user").
		WillReturnRows(rows)

	got, err := repo.Create(context.Background(), &models.AccountCreation{
		Email: "alice@x.com", Username: "alice", Password: "hash",
		Phone: "111", UserGroup: "research", AccountType: "user",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-1" || got.Email != "alice@x.com" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+accounts`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.AccountCreation{Email: "a@x.com"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1\s*$`

	rows := accountRows().AddRow("u-1", "alice@x.com", "alice", "hash", "111", "research", "admin")
	mock.ExpectQuery(q).WithArgs("alice@x.com").WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "alice@x.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.AccountType != "admin" || got.Username != "alice" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+accounts`).
		WithArgs("nobody@x.com").
		WillReturnRows(accountRows())

	_, err := repo.GetByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestList_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := accountRows().
		AddRow("u-1", "alice@x.com", "alice", "h1", "", "", "admin").
		AddRow("u-2", "bob@x.com", "bob", "h2", "", "", "user")
	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+accounts\s+ORDER\s+BY\s+email`).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[1].Email != "bob@x.com" {
		t.Fatalf("unexpected accounts: %+v", got)
	}
}

func TestUpdateDetail_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := accountRows().AddRow("u-1", "alice@x.com", "alice2", "hash", "222", "ops", "user")
	mock.ExpectQuery(`(?s)^UPDATE\s+accounts\s+SET\s+username\s*=\s*\$2`).
		WithArgs("alice@x.com", "alice2", "222", "ops").
		WillReturnRows(rows)

	got, err := repo.UpdateDetail(context.Background(), "alice@x.com", "alice2", "222", "ops")
	if err != nil {
		t.Fatalf("UpdateDetail error: %v", err)
	}
	if got.Username != "alice2" || got.Phone != "222" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestUpdatePassword_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+accounts\s+SET\s+password`).
		WithArgs("nobody@x.com", "hash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword(context.Background(), "nobody@x.com", "hash")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("alice@x.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "alice@x.com"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
