package testsupport

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var dbSerial atomic.Int64

// NewBunSQLite opens an isolated in-memory SQLite database wrapped in bun.
// Each call gets its own shared-cache namespace so parallel tests do not
// collide. Cleanup is registered on the test.
func NewBunSQLite(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:translations_test_%d?mode=memory&cache=shared&_fk=1", dbSerial.Add(1))
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}
