package migrations

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/golang-migrate/migrate/v4"
)

// -------------------------
// Fake migrator
// -------------------------

type fakeMigrator struct {
	upErr      error
	downErr    error
	version    uint
	versionErr error
	closeSrc   error
	closeDB    error

	upCalls int
	closed  bool
}

func (f *fakeMigrator) Up() error   { f.upCalls++; return f.upErr }
func (f *fakeMigrator) Down() error { return f.downErr }
func (f *fakeMigrator) Version() (uint, bool, error) {
	return f.version, false, f.versionErr
}
func (f *fakeMigrator) Close() (error, error) {
	f.closed = true
	return f.closeSrc, f.closeDB
}

func engineFor(f *fakeMigrator, gotURL *string) Engine {
	return func(files fs.FS, dir, databaseURL string) (Migrator, error) {
		if gotURL != nil {
			*gotURL = databaseURL
		}
		return f, nil
	}
}

var testFiles = fstest.MapFS{
	"sql/000001_init.up.sql":   {Data: []byte("SELECT 1;")},
	"sql/000001_init.down.sql": {Data: []byte("SELECT 1;")},
}

func TestRunner_UpSuccessAndNoChange(t *testing.T) {
	var url string
	f := &fakeMigrator{}
	r := NewRunner(testFiles, "sql", "sqlite3://test.db", engineFor(f, &url))

	if err := r.Up(); err != nil {
		t.Fatalf("Up: %v", err)
	}
	if url != "sqlite3://test.db" || f.upCalls != 1 || !f.closed {
		t.Fatalf("unexpected engine use url=%q calls=%d closed=%v", url, f.upCalls, f.closed)
	}

	f.upErr = migrate.ErrNoChange
	if err := r.Up(); err != nil {
		t.Fatalf("ErrNoChange must not fail, got %v", err)
	}
}

func TestRunner_UpErrorIncludesCloseErrors(t *testing.T) {
	f := &fakeMigrator{upErr: errors.New("syntax error"), closeDB: errors.New("conn reset")}
	r := NewRunner(testFiles, "sql", "x", engineFor(f, nil))

	err := r.Up()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "syntax error") || !strings.Contains(err.Error(), "conn reset") {
		t.Fatalf("expected both errors, got %v", err)
	}
}

func TestRunner_EngineError(t *testing.T) {
	boom := errors.New("no driver")
	r := NewRunner(testFiles, "sql", "x", func(fs.FS, string, string) (Migrator, error) {
		return nil, boom
	})
	if err := r.Up(); !errors.Is(err, boom) {
		t.Fatalf("expected engine error, got %v", err)
	}
}

func TestRunner_VersionNilIsZero(t *testing.T) {
	f := &fakeMigrator{versionErr: migrate.ErrNilVersion}
	r := NewRunner(testFiles, "sql", "x", engineFor(f, nil))

	v, dirty, err := r.Version()
	if err != nil || v != 0 || dirty {
		t.Fatalf("expected clean zero version, got %d %v %v", v, dirty, err)
	}

	f.versionErr = nil
	f.version = 2
	if v, _, _ := r.Version(); v != 2 {
		t.Fatalf("expected version 2, got %d", v)
	}
}

func TestDefaultEngine_BadDir(t *testing.T) {
	if _, err := DefaultEngine(testFiles, "missing", "sqlite3://x.db"); err == nil {
		t.Fatalf("expected source error for missing dir")
	}
}
