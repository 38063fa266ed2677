package database

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockCreator(t *testing.T) (*Creator, sqlmock.Sqlmock, *string) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}

	var gotDSN string
	c := NewCreator(Options{
		Net:       "unix",
		Address:   "/run/mysqld/mysqld.sock",
		Charset:   "utf8mb4",
		Collation: "utf8mb4_unicode_ci",
	})
	c.open = func(driverName, dsn string) (*sql.DB, error) {
		if driverName != "mysql" {
			t.Errorf("expected mysql driver, got %s", driverName)
		}
		gotDSN = dsn
		return db, nil
	}
	return c, mock, &gotDSN
}

func TestStatement(t *testing.T) {
	tests := []struct {
		name      string
		db        string
		charset   string
		collation string
		want      string
		wantErr   bool
	}{
		{
			name:      "domain derived",
			db:        "example_com",
			charset:   "utf8mb4",
			collation: "utf8mb4_unicode_ci",
			want:      "CREATE DATABASE IF NOT EXISTS `example_com` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci",
		},
		{
			name:      "hyphen kept",
			db:        "my-site_local",
			charset:   "utf8mb4",
			collation: "utf8mb4_unicode_ci",
			want:      "CREATE DATABASE IF NOT EXISTS `my-site_local` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci",
		},
		{name: "empty", db: "", charset: "utf8mb4", collation: "utf8mb4_unicode_ci", wantErr: true},
		{name: "backtick", db: "a`b", charset: "utf8mb4", collation: "utf8mb4_unicode_ci", wantErr: true},
		{name: "too long", db: strings.Repeat("a", 65), charset: "utf8mb4", collation: "utf8mb4_unicode_ci", wantErr: true},
		{name: "bad charset", db: "x", charset: "utf8mb4;", collation: "utf8mb4_unicode_ci", wantErr: true},
		{name: "bad collation", db: "x", charset: "utf8mb4", collation: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Statement(tt.db, tt.charset, tt.collation)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Statement() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Statement() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateDatabase(t *testing.T) {
	c, mock, dsn := newMockCreator(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE DATABASE IF NOT EXISTS `example_com` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectClose()

	creds := Credentials{User: "root", Password: "s3cret"}
	if err := c.CreateDatabase(context.Background(), creds, "example_com"); err != nil {
		t.Fatalf("CreateDatabase failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
	if !strings.HasPrefix(*dsn, "root:s3cret@unix(/run/mysqld/mysqld.sock)/") {
		t.Errorf("unexpected DSN %s", *dsn)
	}
}

func TestCreateDatabaseExecError(t *testing.T) {
	c, mock, _ := newMockCreator(t)

	mock.ExpectExec("CREATE DATABASE").
		WillReturnError(errors.New("Error 1045: Access denied for user 'bob'@'localhost'"))
	mock.ExpectClose()

	err := c.CreateDatabase(context.Background(), Credentials{User: "bob"}, "example_com")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Access denied") {
		t.Errorf("error should carry the server message: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateDatabaseInvalidName(t *testing.T) {
	c, mock, _ := newMockCreator(t)

	opened := false
	c.open = func(string, string) (*sql.DB, error) {
		opened = true
		return nil, errors.New("should not open")
	}

	if err := c.CreateDatabase(context.Background(), Credentials{}, "drop`table"); err == nil {
		t.Error("expected error for invalid name")
	}
	if opened {
		t.Error("connection should not be opened for an invalid name")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateDatabaseOpenError(t *testing.T) {
	c := NewCreator(Options{Net: "tcp", Address: "127.0.0.1:3306", Charset: "utf8mb4", Collation: "utf8mb4_unicode_ci"})
	c.open = func(string, string) (*sql.DB, error) {
		return nil, errors.New("unknown driver")
	}

	if err := c.CreateDatabase(context.Background(), Credentials{User: "root"}, "example_com"); err == nil {
		t.Error("expected error when the connection cannot be opened")
	}
}

func TestDSN(t *testing.T) {
	c := NewCreator(Options{Net: "tcp", Address: "db.internal:3306"})

	dsn := c.DSN(Credentials{User: "admin", Password: "p@ss:word"})
	if !strings.Contains(dsn, "@tcp(db.internal:3306)/") {
		t.Errorf("unexpected DSN %s", dsn)
	}
	if !strings.Contains(dsn, "timeout=10s") {
		t.Errorf("DSN should carry the default timeout: %s", dsn)
	}
}
