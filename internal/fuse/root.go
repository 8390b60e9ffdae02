package fuse

import (
	"bytes"
	"context"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/systemshift/gitlet/internal/repo"
)

// RootNode is the mountpoint directory. Contains "HEAD", "log", "branches/"
// and "commits/".
type RootNode struct {
	fs.Inode
	repo *repo.Repository
}

var _ = (fs.NodeOnAdder)((*RootNode)(nil))
var _ = (fs.NodeGetattrer)((*RootNode)(nil))

func (r *RootNode) OnAdd(ctx context.Context) {
	head := &ContentFile{ino: stableIno("HEAD"), load: func() ([]byte, error) {
		return headBytes(r.repo)
	}}
	r.AddChild("HEAD", r.NewPersistentInode(ctx, head, fs.StableAttr{
		Mode: syscall.S_IFREG,
		Ino:  head.ino,
	}), true)

	logFile := &ContentFile{ino: stableIno("log"), load: func() ([]byte, error) {
		return logBytes(r.repo)
	}}
	r.AddChild("log", r.NewPersistentInode(ctx, logFile, fs.StableAttr{
		Mode: syscall.S_IFREG,
		Ino:  logFile.ino,
	}), true)

	branches := &BranchesDir{repo: r.repo}
	r.AddChild("branches", r.NewPersistentInode(ctx, branches, fs.StableAttr{
		Mode: syscall.S_IFDIR,
		Ino:  stableIno("branches"),
	}), true)

	commits := &CommitsDir{repo: r.repo}
	r.AddChild("commits", r.NewPersistentInode(ctx, commits, fs.StableAttr{
		Mode: syscall.S_IFDIR,
		Ino:  stableIno("commits"),
	}), true)
}

func (r *RootNode) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = stableIno("/")
	return fs.OK
}

func headBytes(r *repo.Repository) ([]byte, error) {
	name, err := r.Refs.HeadBranch()
	if err != nil {
		return nil, err
	}
	return []byte(name + "\n"), nil
}

func logBytes(r *repo.Repository) ([]byte, error) {
	commits, err := r.Log()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for _, c := range commits {
		buf.WriteString(r.FormatLog(c))
	}
	return buf.Bytes(), nil
}
