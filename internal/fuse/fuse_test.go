package fuse

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/systemshift/gitlet/internal/config"
	"github.com/systemshift/gitlet/internal/dag"
	"github.com/systemshift/gitlet/internal/repo"
)

func TestStableIno(t *testing.T) {
	if stableIno("commits") != stableIno("commits") {
		t.Error("stableIno is not deterministic")
	}
	if stableIno("commits") == stableIno("branches") {
		t.Error("distinct paths share an inode")
	}
	if stableIno("") == 0 {
		t.Error("inode 0 is reserved")
	}
}

func TestWindow(t *testing.T) {
	data := []byte("hello world")
	tests := []struct {
		n    int
		off  int64
		want string
	}{
		{n: 5, off: 0, want: "hello"},
		{n: 100, off: 6, want: "world"},
		{n: 4, off: 11, want: ""},
		{n: 4, off: 50, want: ""},
		{n: 4, off: -1, want: ""},
	}
	for _, tt := range tests {
		if got := string(window(data, tt.n, tt.off)); got != tt.want {
			t.Errorf("window(%d, %d) = %q, want %q", tt.n, tt.off, got, tt.want)
		}
	}
}

func newRepo(t *testing.T) *repo.Repository {
	t.Helper()
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cfg := config.Default()
	cfg.Log.UTC = true
	r, err := repo.Init(t.TempDir(), repo.Options{
		Config: cfg,
		Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func commit(t *testing.T, r *repo.Repository, name, content, msg string) *dag.Commit {
	t.Helper()
	if err := os.WriteFile(filepath.Join(r.Root(), name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := r.Add(name); err != nil {
		t.Fatal(err)
	}
	c, err := r.Commit(msg)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func readAll(t *testing.T, f *ContentFile) string {
	t.Helper()
	res, errno := f.Read(context.Background(), nil, make([]byte, 4096), 0)
	if errno != 0 {
		t.Fatalf("Read errno = %v", errno)
	}
	data, status := res.Bytes(make([]byte, 4096))
	if status != fuse.OK {
		t.Fatalf("Bytes status = %v", status)
	}
	return string(data)
}

func TestHeadAndLogContent(t *testing.T) {
	r := newRepo(t)
	c := commit(t, r, "A", "x", "first")

	head, err := headBytes(r)
	if err != nil || string(head) != "master\n" {
		t.Errorf("HEAD = %q, %v", head, err)
	}

	log, err := logBytes(r)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(log), "===\ncommit "+dag.Hex(c.ID)+"\n") {
		t.Errorf("log starts with %q", log)
	}
	if strings.Count(string(log), "===\n") != 2 {
		t.Errorf("log should hold two entries:\n%s", log)
	}
}

func TestTreeDir_BlobFile(t *testing.T) {
	r := newRepo(t)
	c := commit(t, r, "A", "contents of A", "first")

	d := &TreeDir{repo: r, commit: c, ino: stableIno("commits/" + dag.Hex(c.ID))}
	f := d.blobFile(c.Blob("A"))
	if got := readAll(t, f); got != "contents of A" {
		t.Errorf("blob read = %q", got)
	}

	var out fuse.AttrOut
	if errno := f.Getattr(context.Background(), nil, &out); errno != 0 {
		t.Fatal(errno)
	}
	if out.Size != uint64(len("contents of A")) || out.Mode != 0444 {
		t.Errorf("attr size=%d mode=%o", out.Size, out.Mode)
	}
}

func TestContentFile_RejectsWrites(t *testing.T) {
	f := &ContentFile{load: func() ([]byte, error) { return []byte("x"), nil }}
	if _, _, errno := f.Open(context.Background(), syscall.O_WRONLY); errno != syscall.EROFS {
		t.Errorf("Open(O_WRONLY) = %v, want EROFS", errno)
	}
	if _, _, errno := f.Open(context.Background(), syscall.O_RDONLY); errno != 0 {
		t.Errorf("Open(O_RDONLY) = %v", errno)
	}
}

func TestBranchIno_ChangesWhenBranchMoves(t *testing.T) {
	r := newRepo(t)
	a := commit(t, r, "A", "1", "one")
	b := commit(t, r, "A", "2", "two")
	if branchIno("master", dag.Hex(a.ID)) == branchIno("master", dag.Hex(b.ID)) {
		t.Error("moved branch kept its inode")
	}
}
