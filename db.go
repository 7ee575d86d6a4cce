package translations

import (
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Driver names accepted by NewDB.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// NewDB wraps an opened database handle in a bun.DB with the dialect for the
// named driver. Query sets emit dialect-native JSON path SQL, so the dialect
// must match the server the handle points at.
func NewDB(sqldb *sql.DB, driver string) *bun.DB {
	switch driver {
	case DriverPostgres:
		return bun.NewDB(sqldb, pgdialect.New())
	default:
		return bun.NewDB(sqldb, sqlitedialect.New())
	}
}
