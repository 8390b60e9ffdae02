package fuse

import (
	"context"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	gocid "github.com/ipfs/go-cid"

	"github.com/systemshift/gitlet/internal/dag"
	"github.com/systemshift/gitlet/internal/repo"
)

// blobIno is shared by every path showing the same content.
func blobIno(blob gocid.Cid) uint64 {
	return stableIno("blob/" + dag.Hex(blob))
}

// TreeDir shows the files a commit tracks.
type TreeDir struct {
	fs.Inode
	repo   *repo.Repository
	commit *dag.Commit
	ino    uint64
}

var _ = (fs.NodeLookuper)((*TreeDir)(nil))
var _ = (fs.NodeReaddirer)((*TreeDir)(nil))
var _ = (fs.NodeGetattrer)((*TreeDir)(nil))

func (d *TreeDir) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = d.ino
	out.SetTimes(nil, &d.commit.Time, &d.commit.Time)
	return fs.OK
}

func (d *TreeDir) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	names := d.commit.Files()
	entries := make([]fuse.DirEntry, len(names))
	for i, name := range names {
		entries[i] = fuse.DirEntry{
			Name: name,
			Mode: syscall.S_IFREG,
			Ino:  blobIno(d.commit.Blob(name)),
		}
	}
	return fs.NewListDirStream(entries), fs.OK
}

func (d *TreeDir) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	if !d.commit.Tracks(name) {
		return nil, syscall.ENOENT
	}
	f := d.blobFile(d.commit.Blob(name))
	child := d.NewInode(ctx, f, fs.StableAttr{
		Mode: syscall.S_IFREG,
		Ino:  f.ino,
	})
	return child, fs.OK
}

func (d *TreeDir) blobFile(blob gocid.Cid) *ContentFile {
	store := d.repo.Store
	return &ContentFile{
		ino:       blobIno(blob),
		immutable: true,
		load: func() ([]byte, error) {
			return store.Get(blob)
		},
	}
}
