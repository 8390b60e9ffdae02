package fuse

import "github.com/zeebo/xxh3"

// stableIno returns a stable inode number for a given path string.
func stableIno(path string) uint64 {
	ino := xxh3.HashString(path)
	if ino == 0 {
		// 0 asks go-fuse to pick one, which would make the inode unstable.
		ino = 1
	}
	return ino
}
