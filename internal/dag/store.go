package dag

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gocid "github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"

	"github.com/systemshift/gitlet/internal/errs"
)

// ErrObjectNotFound is returned by Get when no object has the requested CID.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore manages CID-addressed immutable objects on disk.
// Blobs are stored under the raw codec, commits under dag-json.
type ObjectStore struct {
	dir string // path to objects/ directory
}

// NewObjectStore creates an ObjectStore at the given directory.
func NewObjectStore(dir string) (*ObjectStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create objects dir: %w", err)
	}
	return &ObjectStore{dir: dir}, nil
}

func computeCID(codec uint64, data []byte) (gocid.Cid, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return gocid.Undef, fmt.Errorf("multihash: %w", err)
	}
	return gocid.NewCidV1(codec, mh), nil
}

// ComputeCID computes the blob CID (raw codec, SHA2-256) for data.
func ComputeCID(data []byte) (gocid.Cid, error) {
	return computeCID(gocid.Raw, data)
}

// CIDToFilename returns the base32lower encoding of a CID for use as a filename.
func CIDToFilename(c gocid.Cid) string {
	encoded, _ := multibase.Encode(multibase.Base32, c.Bytes())
	return encoded
}

// FilenameToCID is the inverse of CIDToFilename.
func FilenameToCID(name string) (gocid.Cid, error) {
	_, raw, err := multibase.Decode(strings.TrimSpace(name))
	if err != nil {
		return gocid.Undef, fmt.Errorf("decode CID %q: %w", name, err)
	}
	return gocid.Cast(raw)
}

// Hex returns the lowercase hex SHA2-256 digest carried by c. This is the
// identity shown to users; unlike the multibase form it has no constant
// prefix, so short prefixes are useful.
func Hex(c gocid.Cid) string {
	if !c.Defined() {
		return ""
	}
	dmh, err := multihash.Decode(c.Hash())
	if err != nil {
		return ""
	}
	return hex.EncodeToString(dmh.Digest)
}

// Short returns the first n characters of c's hex identity.
func Short(c gocid.Cid, n int) string {
	h := Hex(c)
	if len(h) > n {
		return h[:n]
	}
	return h
}

func fromHex(codec uint64, s string) (gocid.Cid, error) {
	digest, err := hex.DecodeString(s)
	if err != nil {
		return gocid.Undef, err
	}
	mh, err := multihash.Encode(digest, multihash.SHA2_256)
	if err != nil {
		return gocid.Undef, err
	}
	return gocid.NewCidV1(codec, mh), nil
}

// CommitID rebuilds a commit CID from a full hex digest.
func CommitID(s string) (gocid.Cid, error) {
	return fromHex(gocid.DagJSON, s)
}

// BlobID rebuilds a blob CID from a full hex digest.
func BlobID(s string) (gocid.Cid, error) {
	return fromHex(gocid.Raw, s)
}

func (s *ObjectStore) put(codec uint64, data []byte) (gocid.Cid, error) {
	c, err := computeCID(codec, data)
	if err != nil {
		return gocid.Undef, err
	}
	path := filepath.Join(s.dir, CIDToFilename(c))
	if _, err := os.Stat(path); err == nil {
		return c, nil // already exists
	}
	if err := SafeWrite(path, data, 0644); err != nil {
		return gocid.Undef, fmt.Errorf("write object: %w", err)
	}
	return c, nil
}

// Put writes blob data to the object store, returning its CID.
// If the object already exists, this is a no-op.
func (s *ObjectStore) Put(data []byte) (gocid.Cid, error) {
	return s.put(gocid.Raw, data)
}

// PutCommit writes a serialized commit under the dag-json codec.
func (s *ObjectStore) PutCommit(data []byte) (gocid.Cid, error) {
	return s.put(gocid.DagJSON, data)
}

// Get reads an object by CID.
func (s *ObjectStore) Get(c gocid.Cid) ([]byte, error) {
	if !c.Defined() {
		return nil, ErrObjectNotFound
	}
	path := filepath.Join(s.dir, CIDToFilename(c))
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read object %s: %w", Hex(c), ErrObjectNotFound)
	}
	if err != nil {
		return nil, errs.Fatalf(err, "read object %s", Hex(c))
	}
	return data, nil
}

// Has checks if an object exists.
func (s *ObjectStore) Has(c gocid.Cid) bool {
	if !c.Defined() {
		return false
	}
	path := filepath.Join(s.dir, CIDToFilename(c))
	_, err := os.Stat(path)
	return err == nil
}

// List returns the CIDs of every stored object. Files whose names do not
// decode as CIDs (leftover temp files) are skipped.
func (s *ObjectStore) List() ([]gocid.Cid, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	cids := make([]gocid.Cid, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		c, err := FilenameToCID(e.Name())
		if err != nil {
			continue
		}
		cids = append(cids, c)
	}
	return cids, nil
}
