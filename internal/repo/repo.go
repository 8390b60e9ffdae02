// Package repo composes the object store, commit graph, refs, staging index
// and working tree into the gitlet operations. Every operation returns typed
// errors from internal/errs; nothing here prints or exits.
package repo

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	gocid "github.com/ipfs/go-cid"

	"github.com/systemshift/gitlet/internal/config"
	"github.com/systemshift/gitlet/internal/dag"
	"github.com/systemshift/gitlet/internal/errs"
	"github.com/systemshift/gitlet/internal/stage"
	"github.com/systemshift/gitlet/internal/worktree"
)

// DirName is the metadata directory inside the working directory.
const DirName = ".gitlet"

// Options tune how a repository is opened.
type Options struct {
	// Logger receives trace lines; nil discards them.
	Logger *log.Logger
	// Now stamps new commits; nil means time.Now.
	Now func() time.Time
	// Config overrides config.Load.
	Config *config.Config
}

// Repository is the explicit context every operation runs against.
type Repository struct {
	root   string
	dir    string
	Config *config.Config
	Store  *dag.ObjectStore
	Graph  *dag.Graph
	Refs   *dag.RefStore
	Index  *stage.Index
	Tree   *worktree.Tree
	log    *log.Logger

	// messages is built on first use and kept current by commitOn.
	msgMu    sync.Mutex
	messages *dag.MessageIndex
}

func metaDir(root string) string {
	return filepath.Join(root, DirName)
}

// Init creates a repository in root with the initial commit on the default
// branch. An existing repository is left untouched, and a failed Init leaves
// no .gitlet behind.
func Init(root string, opts Options) (*Repository, error) {
	dir := metaDir(root)
	if _, err := os.Stat(dir); err == nil {
		return nil, ErrAlreadyInitialized
	}

	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(""); err != nil {
			return nil, err
		}
	}
	branch := cfg.Init.DefaultBranch
	if !dag.ValidBranchName(branch) {
		return nil, dag.ErrInvalidBranch
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errs.Fatalf(err, "create %s", DirName)
	}
	r, err := initIn(root, dir, branch, cfg, opts)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	r.log.Printf("initialized %s on branch %s", dir, branch)
	return r, nil
}

func initIn(root, dir, branch string, cfg *config.Config, opts Options) (*Repository, error) {
	r, err := open(root, cfg, opts)
	if err != nil {
		return nil, err
	}
	initial, err := r.Graph.Initial()
	if err != nil {
		return nil, err
	}
	if err := r.Refs.Create(branch, initial.ID); err != nil {
		return nil, err
	}
	if err := r.Refs.SetHead(branch); err != nil {
		return nil, err
	}
	if err := r.Index.Save(); err != nil {
		return nil, err
	}
	local := &config.Config{Init: config.InitConfig{DefaultBranch: branch}}
	if err := local.Save(filepath.Join(dir, config.FileName)); err != nil {
		return nil, err
	}
	return r, nil
}

// Open loads the repository in root.
func Open(root string, opts Options) (*Repository, error) {
	dir := metaDir(root)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, ErrNotInitialized
	}
	cfg := opts.Config
	if cfg == nil {
		if cfg, err = config.Load(dir); err != nil {
			return nil, err
		}
	}
	r, err := open(root, cfg, opts)
	if err != nil {
		return nil, err
	}
	if err := r.sweep(); err != nil {
		return nil, err
	}
	return r, nil
}

// sweep clears files left by writes that a crash interrupted.
func (r *Repository) sweep() error {
	for _, d := range []string{r.root, r.dir, filepath.Join(r.dir, "objects"), filepath.Join(r.dir, "refs")} {
		n, err := dag.SweepTemp(d)
		if err != nil {
			return errs.Fatalf(err, "open repository")
		}
		if n > 0 {
			r.log.Printf("swept %d interrupted writes from %s", n, d)
		}
	}
	return nil
}

func open(root string, cfg *config.Config, opts Options) (*Repository, error) {
	dir := metaDir(root)
	store, err := dag.NewObjectStore(filepath.Join(dir, "objects"))
	if err != nil {
		return nil, err
	}
	refs, err := dag.NewRefStore(filepath.Join(dir, "refs"), filepath.Join(dir, "HEAD"))
	if err != nil {
		return nil, err
	}
	index, err := stage.Load(filepath.Join(dir, "index"), store)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Repository{
		root:   root,
		dir:    dir,
		Config: cfg,
		Store:  store,
		Graph:  dag.NewGraph(store, opts.Now),
		Refs:   refs,
		Index:  index,
		Tree:   worktree.New(root, DirName),
		log:    logger,
	}, nil
}

// Root returns the working directory.
func (r *Repository) Root() string {
	return r.root
}

// Dir returns the path to the .gitlet/ metadata directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Head returns the active branch and its commit.
func (r *Repository) Head() (string, *dag.Commit, error) {
	name, id, err := r.Refs.Head()
	if err != nil {
		return "", nil, err
	}
	c, err := r.branchCommit(name, id)
	if err != nil {
		return "", nil, err
	}
	return name, c, nil
}

// HeadCommit returns the commit the active branch points at.
func (r *Repository) HeadCommit() (*dag.Commit, error) {
	_, c, err := r.Head()
	return c, err
}

// BranchCommit returns the commit branch name points at.
func (r *Repository) BranchCommit(name string) (*dag.Commit, error) {
	id, err := r.Refs.Get(name)
	if err != nil {
		return nil, err
	}
	return r.branchCommit(name, id)
}

// branchCommit loads a commit a ref points at. A dangling ref is corruption.
func (r *Repository) branchCommit(name string, id gocid.Cid) (*dag.Commit, error) {
	c, err := r.Graph.Get(id)
	if errors.Is(err, dag.ErrNoSuchCommit) {
		return nil, errs.Fatalf(err, "branch %s points at a missing commit", name)
	}
	return c, err
}

// blob loads a tracked blob. Missing blobs are corruption.
func (r *Repository) blob(name string, c *dag.Commit) ([]byte, error) {
	data, err := r.Store.Get(c.Blob(name))
	if err != nil {
		return nil, errs.Fatalf(err, "load %s from commit %s", name, dag.Short(c.ID, 7))
	}
	return data, nil
}
