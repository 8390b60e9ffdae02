package dag

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	gocid "github.com/ipfs/go-cid"

	"github.com/systemshift/gitlet/internal/errs"
)

var (
	ErrBranchExists  = errs.New(errs.Precondition, "A branch with that name already exists.")
	ErrNoSuchBranch  = errs.New(errs.Precondition, "A branch with that name does not exist.")
	ErrCurrentBranch = errs.New(errs.Precondition, "Cannot remove the current branch.")
	ErrInvalidBranch = errs.New(errs.Precondition, "Invalid branch name.")
	ErrDetachedHead  = errs.New(errs.Fatal, "HEAD does not name a branch.")
)

// RefStore manages branch name -> commit CID mappings as files, plus the
// HEAD file naming the active branch.
// Each branch is a file in the refs/ directory whose content is the
// base32 CID of its head commit.
type RefStore struct {
	dir      string
	headPath string
}

// NewRefStore creates a RefStore over dir, with HEAD kept at headPath.
func NewRefStore(dir, headPath string) (*RefStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create refs dir: %w", err)
	}
	return &RefStore{dir: dir, headPath: headPath}, nil
}

// ValidBranchName reports whether name can be stored as a single ref file.
func ValidBranchName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}

func (r *RefStore) path(name string) string {
	return filepath.Join(r.dir, name)
}

// Set points branch name at c, creating it if needed.
func (r *RefStore) Set(name string, c gocid.Cid) error {
	if !ValidBranchName(name) {
		return ErrInvalidBranch
	}
	if err := SafeWrite(r.path(name), []byte(CIDToFilename(c)+"\n"), 0644); err != nil {
		return fmt.Errorf("write ref %s: %w", name, err)
	}
	return nil
}

// Create adds a new branch pointing at c.
func (r *RefStore) Create(name string, c gocid.Cid) error {
	if !ValidBranchName(name) {
		return ErrInvalidBranch
	}
	if r.Has(name) {
		return ErrBranchExists
	}
	return r.Set(name, c)
}

// Get resolves a branch name to its head commit CID.
func (r *RefStore) Get(name string) (gocid.Cid, error) {
	if !ValidBranchName(name) {
		return gocid.Undef, ErrNoSuchBranch
	}
	data, err := os.ReadFile(r.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return gocid.Undef, ErrNoSuchBranch
	}
	if err != nil {
		return gocid.Undef, errs.Fatalf(err, "read ref %s", name)
	}
	c, err := FilenameToCID(string(data))
	if err != nil {
		return gocid.Undef, errs.Fatalf(err, "decode ref %s", name)
	}
	return c, nil
}

// Delete removes a branch. The active branch cannot be removed.
func (r *RefStore) Delete(name string) error {
	if !r.Has(name) {
		return ErrNoSuchBranch
	}
	head, err := r.HeadBranch()
	if err != nil {
		return err
	}
	if head == name {
		return ErrCurrentBranch
	}
	return SafeRemove(r.path(name))
}

// Has checks if a branch exists.
func (r *RefStore) Has(name string) bool {
	if !ValidBranchName(name) {
		return false
	}
	info, err := os.Stat(r.path(name))
	return err == nil && info.Mode().IsRegular()
}

// List returns all branch names, sorted.
func (r *RefStore) List() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !ValidBranchName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

// SetHead makes name the active branch.
func (r *RefStore) SetHead(name string) error {
	if !ValidBranchName(name) {
		return ErrInvalidBranch
	}
	if err := SafeWrite(r.headPath, []byte(name+"\n"), 0644); err != nil {
		return fmt.Errorf("write HEAD: %w", err)
	}
	return nil
}

// HeadBranch returns the name of the active branch.
func (r *RefStore) HeadBranch() (string, error) {
	data, err := os.ReadFile(r.headPath)
	if err != nil {
		return "", errs.Fatalf(err, "read HEAD")
	}
	name := strings.TrimSpace(string(data))
	if !ValidBranchName(name) {
		return "", ErrDetachedHead
	}
	return name, nil
}

// Head resolves HEAD through its branch to a commit CID.
func (r *RefStore) Head() (string, gocid.Cid, error) {
	name, err := r.HeadBranch()
	if err != nil {
		return "", gocid.Undef, err
	}
	c, err := r.Get(name)
	if err != nil {
		if errors.Is(err, ErrNoSuchBranch) {
			return "", gocid.Undef, errs.Fatalf(err, "HEAD branch %s", name)
		}
		return "", gocid.Undef, err
	}
	return name, c, nil
}
