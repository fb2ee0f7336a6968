package state

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/PythonNut/vimish-fold/pkg/foldpath"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "folds")
	fs, err := NewFileStore(foldpath.Codec{Dir: dir}, nil)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return fs, dir
}

func TestNewFileStore_InvalidCodec(t *testing.T) {
	if _, err := NewFileStore(foldpath.Codec{}, nil); err == nil {
		t.Error("NewFileStore() with empty dir expected error, got nil")
	}
}

func TestFileStore_WriteRead(t *testing.T) {
	fs, dir := newTestStore(t)
	set := Set{{Start: 120, End: 340}, {Start: 512, End: 600}}

	if err := fs.Write("/home/u/notes.txt", set); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := fs.Read("/home/u/notes.txt")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !reflect.DeepEqual(got, set) {
		t.Errorf("Read() = %v, want %v", got, set)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat(dir) error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("state dir perm = %o, want 700", perm)
	}

	finfo, err := os.Stat(fs.Path("/home/u/notes.txt"))
	if err != nil {
		t.Fatalf("Stat(file) error = %v", err)
	}
	if perm := finfo.Mode().Perm(); perm != 0o600 {
		t.Errorf("state file perm = %o, want 600", perm)
	}
}

func TestFileStore_WriteReplaces(t *testing.T) {
	fs, _ := newTestStore(t)

	if err := fs.Write("/doc", Set{{Start: 1, End: 2}, {Start: 3, End: 4}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := fs.Write("/doc", Set{{Start: 9, End: 12}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := fs.Read("/doc")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := Set{{Start: 9, End: 12}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Read() = %v, want %v", got, want)
	}
}

func TestFileStore_LazyDirCreation(t *testing.T) {
	fs, dir := newTestStore(t)

	// No write yet: the directory must not exist, reads miss, and
	// listing is empty rather than an error.
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("state dir exists before first write (stat err = %v)", err)
	}
	if _, err := fs.Read("/doc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() error = %v, want ErrNotFound", err)
	}
	entries, err := fs.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() = %v, want empty", entries)
	}

	if err := fs.Write("/doc", Set{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("state dir missing after first write: %v", err)
	}
}

func TestFileStore_ReadMalformed(t *testing.T) {
	fs, dir := newTestStore(t)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(fs.Path("/doc"), []byte("not a fold set"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := fs.Read("/doc"); !errors.Is(err, ErrMalformed) {
		t.Errorf("Read() error = %v, want ErrMalformed", err)
	}
}

func TestFileStore_Remove(t *testing.T) {
	fs, _ := newTestStore(t)

	if err := fs.Write("/doc", Set{{Start: 1, End: 2}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := fs.Remove("/doc"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := fs.Read("/doc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() after Remove() error = %v, want ErrNotFound", err)
	}

	// Removing a document with no record is not an error.
	if err := fs.Remove("/doc"); err != nil {
		t.Errorf("Remove() of missing record error = %v", err)
	}
	if err := fs.Remove("/never/written"); err != nil {
		t.Errorf("Remove() of never-written record error = %v", err)
	}
}

func TestFileStore_List(t *testing.T) {
	fs, dir := newTestStore(t)

	docs := []string{"/home/u/notes.txt", "/etc/motd", "/home/u/a.go"}
	for _, doc := range docs {
		if err := fs.Write(doc, Set{{Start: 0, End: 5}}); err != nil {
			t.Fatalf("Write(%q) error = %v", doc, err)
		}
	}

	// Subdirectories are not fold sets and must be skipped.
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0o700); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	entries, err := fs.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != len(docs) {
		t.Fatalf("List() returned %d entries, want %d", len(entries), len(docs))
	}

	wantOrder := []string{"/etc/motd", "/home/u/a.go", "/home/u/notes.txt"}
	for i, entry := range entries {
		if entry.DocPath != wantOrder[i] {
			t.Errorf("entries[%d].DocPath = %q, want %q", i, entry.DocPath, wantOrder[i])
		}
		if entry.File != fs.Path(entry.DocPath) {
			t.Errorf("entries[%d].File = %q, want %q", i, entry.File, fs.Path(entry.DocPath))
		}
		if entry.Size == 0 {
			t.Errorf("entries[%d].Size = 0, want > 0", i)
		}
		if entry.ModTime.IsZero() {
			t.Errorf("entries[%d].ModTime is zero", i)
		}
	}
}

func TestFileStore_Path(t *testing.T) {
	fs, dir := newTestStore(t)

	want := filepath.Join(dir, "!home!u!notes.txt")
	if got := fs.Path("/home/u/notes.txt"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
