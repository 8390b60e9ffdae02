package fuse

import (
	"context"
	"errors"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/systemshift/gitlet/internal/dag"
	"github.com/systemshift/gitlet/internal/repo"
)

// branchIno keys a branch directory by the commit it shows, so a moved
// branch gets a fresh inode instead of a stale cached one.
func branchIno(name, hex string) uint64 {
	return stableIno("branches/" + name + "@" + hex)
}

// BranchesDir lists every branch as a directory of its head commit's files.
type BranchesDir struct {
	fs.Inode
	repo *repo.Repository
}

var _ = (fs.NodeLookuper)((*BranchesDir)(nil))
var _ = (fs.NodeReaddirer)((*BranchesDir)(nil))
var _ = (fs.NodeGetattrer)((*BranchesDir)(nil))

func (d *BranchesDir) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = stableIno("branches")
	return fs.OK
}

func (d *BranchesDir) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	names, err := d.repo.Refs.List()
	if err != nil {
		return nil, syscall.EIO
	}
	entries := make([]fuse.DirEntry, 0, len(names))
	for _, name := range names {
		id, err := d.repo.Refs.Get(name)
		if err != nil {
			continue
		}
		entries = append(entries, fuse.DirEntry{
			Name: name,
			Mode: syscall.S_IFDIR,
			Ino:  branchIno(name, dag.Hex(id)),
		})
	}
	return fs.NewListDirStream(entries), fs.OK
}

func (d *BranchesDir) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	c, err := d.repo.BranchCommit(name)
	if errors.Is(err, dag.ErrNoSuchBranch) {
		return nil, syscall.ENOENT
	}
	if err != nil {
		return nil, syscall.EIO
	}
	ino := branchIno(name, dag.Hex(c.ID))
	child := d.NewInode(ctx, &TreeDir{repo: d.repo, commit: c, ino: ino}, fs.StableAttr{
		Mode: syscall.S_IFDIR,
		Ino:  ino,
	})
	return child, fs.OK
}

// CommitsDir lists every stored commit by its full hex id.
type CommitsDir struct {
	fs.Inode
	repo *repo.Repository
}

var _ = (fs.NodeLookuper)((*CommitsDir)(nil))
var _ = (fs.NodeReaddirer)((*CommitsDir)(nil))
var _ = (fs.NodeGetattrer)((*CommitsDir)(nil))

func (d *CommitsDir) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = 0555
	out.Ino = stableIno("commits")
	return fs.OK
}

func (d *CommitsDir) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	ids, err := d.repo.Graph.CommitIDs()
	if err != nil {
		return nil, syscall.EIO
	}
	entries := make([]fuse.DirEntry, len(ids))
	for i, id := range ids {
		hex := dag.Hex(id)
		entries[i] = fuse.DirEntry{
			Name: hex,
			Mode: syscall.S_IFDIR,
			Ino:  stableIno("commits/" + hex),
		}
	}
	return fs.NewListDirStream(entries), fs.OK
}

// Lookup accepts full ids only; one directory per commit keeps the kernel
// from seeing aliased directories.
func (d *CommitsDir) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	id, err := dag.CommitID(name)
	if err != nil || name != dag.Hex(id) {
		return nil, syscall.ENOENT
	}
	c, err := d.repo.Graph.Get(id)
	if errors.Is(err, dag.ErrNoSuchCommit) {
		return nil, syscall.ENOENT
	}
	if err != nil {
		return nil, syscall.EIO
	}
	ino := stableIno("commits/" + name)
	child := d.NewInode(ctx, &TreeDir{repo: d.repo, commit: c, ino: ino}, fs.StableAttr{
		Mode: syscall.S_IFDIR,
		Ino:  ino,
	})
	return child, fs.OK
}
