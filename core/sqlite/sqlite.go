// Package sqlite selects the SQLite driver the score catalog runs on.
//
// Build modes:
//   - Default (CGO_ENABLED=0): pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): mattn/go-sqlite3 via
//     contrib/sqlite-external
//
// The registered driver name differs between the two ("sqlite" vs
// "sqlite3"); use Open() instead of sql.Open() so the right one is picked.
package sqlite

import (
	"database/sql"
	"fmt"
)

// DriverName returns the SQL driver name the selected implementation
// registers under.
func DriverName() string {
	return driverName
}

// DriverType returns a string identifying the underlying implementation:
// "cgo" for mattn/go-sqlite3, "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO reports whether the CGO implementation is in use.
func IsCGO() bool {
	return driverType == "cgo"
}

// Open opens a SQLite database using the selected driver.
func Open(dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

// OpenReadOnly opens a SQLite database in read-only mode.
func OpenReadOnly(path string) (*sql.DB, error) {
	dsn := path + "?mode=ro"
	return Open(dsn)
}

// MustOpen opens a SQLite database and panics on error. Intended for tests
// and initialization code where database access failure is unrecoverable.
func MustOpen(dataSourceName string) *sql.DB {
	db, err := Open(dataSourceName)
	if err != nil {
		panic(fmt.Sprintf("sqlite: failed to open %s: %v", dataSourceName, err))
	}
	return db
}

// Info describes the SQLite driver configuration.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	IsCGO      bool   `json:"is_cgo"`
	Package    string `json:"package"`
}

// GetInfo returns the current SQLite configuration.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		IsCGO:      IsCGO(),
		Package:    driverPackage,
	}
}
