// Package sqliteexternal provides the optional CGO SQLite driver.
//
// # CGO SQLite Driver
//
// To use the CGO driver (github.com/mattn/go-sqlite3):
//
//	import _ "github.com/tactus/partita/contrib/sqlite-external"
//
// Build with:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite
//
// # Default Pure Go Driver
//
// By default the score catalog runs on modernc.org/sqlite, which requires
// no CGO. See github.com/tactus/partita/core/sqlite for the selection
// logic.
//
// # When to Use
//
// Use this package when:
//   - Performance is critical on large catalogs
//   - You need specific SQLite extensions
//   - You already have CGO in your build pipeline
//
// Use the default pure Go driver when:
//   - Portability is important
//   - Cross-compilation is required
//   - You want simpler deployment (single binary)
package sqliteexternal
