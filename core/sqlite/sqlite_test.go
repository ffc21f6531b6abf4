package sqlite

import (
	"path/filepath"
	"testing"
)

func TestDriverSelection(t *testing.T) {
	info := GetInfo()
	if info.DriverName != DriverName() {
		t.Errorf("Info.DriverName = %q, DriverName() = %q", info.DriverName, DriverName())
	}
	if info.IsCGO != IsCGO() {
		t.Errorf("Info.IsCGO = %v, IsCGO() = %v", info.IsCGO, IsCGO())
	}
	switch DriverType() {
	case "purego":
		if DriverName() != "sqlite" {
			t.Errorf("purego driver registers as %q, want sqlite", DriverName())
		}
	case "cgo":
		if DriverName() != "sqlite3" {
			t.Errorf("cgo driver registers as %q, want sqlite3", DriverName())
		}
	default:
		t.Errorf("unexpected driver type %q", DriverType())
	}
	if info.Package == "" {
		t.Error("driver package not reported")
	}
}

func TestOpenAndQuery(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO kv (k, v) VALUES (?, ?)`, "title", "Gavotte"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var v string
	if err := db.QueryRow(`SELECT v FROM kv WHERE k = ?`, "title").Scan(&v); err != nil {
		t.Fatalf("select: %v", err)
	}
	if v != "Gavotte" {
		t.Errorf("v = %q, want Gavotte", v)
	}
}

func TestOpenReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.db")

	db := MustOpen(path)
	if _, err := db.Exec(`CREATE TABLE t (n INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO t (n) VALUES (7)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	db.Close()

	ro, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("OpenReadOnly() error = %v", err)
	}
	defer ro.Close()

	var n int
	if err := ro.QueryRow(`SELECT n FROM t`).Scan(&n); err != nil {
		t.Fatalf("read on read-only handle: %v", err)
	}
	if n != 7 {
		t.Errorf("n = %d, want 7", n)
	}
}
