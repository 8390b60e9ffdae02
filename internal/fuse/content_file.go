package fuse

import (
	"context"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// ContentFile is a read-only file whose bytes are produced on each access.
// Immutable files (blobs) let the kernel keep their pages cached.
type ContentFile struct {
	fs.Inode
	ino       uint64
	immutable bool
	load      func() ([]byte, error)
}

var _ = (fs.NodeGetattrer)((*ContentFile)(nil))
var _ = (fs.NodeOpener)((*ContentFile)(nil))
var _ = (fs.NodeReader)((*ContentFile)(nil))

func (f *ContentFile) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	data, err := f.load()
	if err != nil {
		return syscall.EIO
	}
	out.Mode = 0444
	out.Size = uint64(len(data))
	out.Ino = f.ino
	return fs.OK
}

func (f *ContentFile) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	if flags&syscall.O_ACCMODE != syscall.O_RDONLY || flags&syscall.O_TRUNC != 0 {
		return nil, 0, syscall.EROFS
	}
	if f.immutable {
		return nil, fuse.FOPEN_KEEP_CACHE, fs.OK
	}
	return nil, fuse.FOPEN_DIRECT_IO, fs.OK
}

func (f *ContentFile) Read(ctx context.Context, fh fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	data, err := f.load()
	if err != nil {
		return nil, syscall.EIO
	}
	return fuse.ReadResultData(window(data, len(dest), off)), fs.OK
}

// window returns the slice of data a read of n bytes at off sees.
func window(data []byte, n int, off int64) []byte {
	if off < 0 || off >= int64(len(data)) {
		return nil
	}
	end := off + int64(n)
	if end > int64(len(data)) {
		end = int64(len(data))
	}
	return data[off:end]
}
