package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Supported values of DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Params identifies the database to connect to.
type Params struct {
	Driver string
	User   string
	Pass   string
	Host   string
	Port   string
	Name   string
}

// DSN builds the driver-specific connection string together with the
// database/sql driver name to open it with.
func DSN(p Params) (driverName, dsn string, err error) {
	switch p.Driver {
	case "", DriverMySQL:
		auth := p.User
		if p.Pass != "" {
			auth = fmt.Sprintf("%s:%s", p.User, p.Pass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		return "mysql", fmt.Sprintf("%s@tcp(%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, net.JoinHostPort(p.Host, p.Port), p.Name), nil
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(p.User, p.Pass),
			Host:     net.JoinHostPort(p.Host, p.Port),
			Path:     "/" + p.Name,
			RawQuery: "sslmode=disable&timezone=UTC",
		}
		if p.Pass == "" {
			u.User = url.User(p.User)
		}
		return "pgx", u.String(), nil
	default:
		return "", "", fmt.Errorf("unsupported db driver %q", p.Driver)
	}
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, p Params) (*sql.DB, error) {
	driverName, dsn, err := DSN(p)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
