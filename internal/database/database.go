// Package database creates the site database on a MySQL or MariaDB server.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/ksyq12/wpvhost/internal/logger"
)

// MaxNameLength is the MySQL identifier limit.
const MaxNameLength = 64

var (
	namePattern   = regexp.MustCompile(`^[a-z0-9_-]+$`)
	optionPattern = regexp.MustCompile(`^[a-z0-9_]+$`)
)

// Credentials authenticate the statement issued for a run.
type Credentials struct {
	User     string
	Password string
}

// Options describe how to reach the server and which encoding to create databases with.
type Options struct {
	Net       string // unix or tcp
	Address   string
	Charset   string
	Collation string
	Timeout   time.Duration
}

// Creator issues CREATE DATABASE statements.
type Creator struct {
	opts Options
	open func(driverName, dsn string) (*sql.DB, error)
}

// NewCreator creates a Creator backed by the mysql driver.
func NewCreator(opts Options) *Creator {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Creator{opts: opts, open: sql.Open}
}

// DSN returns the data source name for creds.
func (c *Creator) DSN(creds Credentials) string {
	cfg := mysql.NewConfig()
	cfg.User = creds.User
	cfg.Passwd = creds.Password
	cfg.Net = c.opts.Net
	cfg.Addr = c.opts.Address
	cfg.Timeout = c.opts.Timeout
	return cfg.FormatDSN()
}

// Statement returns the idempotent CREATE DATABASE statement for name.
func Statement(name, charset, collation string) (string, error) {
	if len(name) == 0 || len(name) > MaxNameLength || !namePattern.MatchString(name) {
		return "", fmt.Errorf("invalid database name %q", name)
	}
	if !optionPattern.MatchString(charset) {
		return "", fmt.Errorf("invalid character set %q", charset)
	}
	if !optionPattern.MatchString(collation) {
		return "", fmt.Errorf("invalid collation %q", collation)
	}
	return fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET %s COLLATE %s", name, charset, collation), nil
}

// CreateDatabase creates name unless it already exists.
func (c *Creator) CreateDatabase(ctx context.Context, creds Credentials, name string) error {
	stmt, err := Statement(name, c.opts.Charset, c.opts.Collation)
	if err != nil {
		return err
	}

	db, err := c.open("mysql", c.DSN(creds))
	if err != nil {
		return fmt.Errorf("open database connection: %w", err)
	}
	defer db.Close()

	logger.DebugFields("Creating database", map[string]interface{}{
		"name":    name,
		"user":    creds.User,
		"address": c.opts.Address,
	})
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create database %s: %w", name, err)
	}
	return db.Close()
}
