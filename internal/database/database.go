package database

import (
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// registers the "sqlite" database/sql driver the dialector opens
	_ "modernc.org/sqlite"
)

// Connect opens a gorm handle. Postgres DSNs go to the pgx-backed driver;
// anything else is treated as a sqlite path (modernc driver, no CGO) for
// local development and tests.
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// SQLX wraps gorm's underlying *sql.DB for the repositories that speak
// raw SQL. The dialector name picks the placeholder style for Rebind;
// anything non-postgres keeps ? placeholders untouched.
func SQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, db.Dialector.Name()), nil
}
