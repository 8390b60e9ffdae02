package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/systemshift/gitlet/internal/config"
	"github.com/systemshift/gitlet/internal/dag"
	"github.com/systemshift/gitlet/internal/repo"
)

// --- Test helpers ---

func makeTestRepo(t *testing.T) *repo.Repository {
	t.Helper()
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r, err := repo.Init(t.TempDir(), repo.Options{
		Config: config.Default(),
		Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	return r
}

// opener reopens r's directory the way gitlet serve does on every call.
func opener(r *repo.Repository) Opener {
	return func() (*repo.Repository, error) {
		return repo.Open(r.Root(), repo.Options{Config: config.Default()})
	}
}

func commitFile(t *testing.T, r *repo.Repository, name, content, msg string) *dag.Commit {
	t.Helper()
	if err := os.WriteFile(filepath.Join(r.Root(), name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := r.Add(name); err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	c, err := r.Commit(msg)
	if err != nil {
		t.Fatalf("commit %q: %v", msg, err)
	}
	return c
}

func TestNewServer(t *testing.T) {
	if NewServer("test", opener(makeTestRepo(t))) == nil {
		t.Fatal("NewServer returned nil")
	}
}

// --- Status handler tests ---

func TestHandleStatus(t *testing.T) {
	r := makeTestRepo(t)
	commitFile(t, r, "A", "x", "first")
	os.WriteFile(filepath.Join(r.Root(), "junk"), []byte("j"), 0644)

	_, out, err := handleStatus(opener(r))(context.Background(), &mcp.CallToolRequest{}, StatusInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Branch != "master" {
		t.Errorf("Branch = %q", out.Branch)
	}
	if len(out.Untracked) != 1 || out.Untracked[0] != "junk" {
		t.Errorf("Untracked = %v", out.Untracked)
	}
}

// --- Log handler tests ---

func TestHandleLog(t *testing.T) {
	r := makeTestRepo(t)
	commitFile(t, r, "A", "x", "first")
	second := commitFile(t, r, "A", "y", "second")

	_, out, err := handleLog(opener(r))(context.Background(), &mcp.CallToolRequest{}, LogInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Count != 3 {
		t.Fatalf("Count = %d, want 3", out.Count)
	}
	if out.Commits[0].ID != dag.Hex(second.ID) || out.Commits[0].Short != dag.Hex(second.ID)[:7] {
		t.Errorf("newest = %+v", out.Commits[0])
	}
	if out.Commits[2].Message != dag.InitialMessage || len(out.Commits[2].Parents) != 0 {
		t.Errorf("oldest = %+v", out.Commits[2])
	}

	_, out, err = handleLog(opener(r))(context.Background(), &mcp.CallToolRequest{}, LogInput{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 {
		t.Errorf("limited Count = %d, want 1", out.Count)
	}
}

func TestHandleGlobalLog(t *testing.T) {
	r := makeTestRepo(t)
	commitFile(t, r, "A", "x", "first")
	r.CreateBranch("b")
	r.CheckoutBranch("b")
	commitFile(t, r, "A", "y", "on b")
	r.CheckoutBranch("master")

	_, out, err := handleGlobalLog(opener(r))(context.Background(), &mcp.CallToolRequest{}, GlobalLogInput{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Count != 3 {
		t.Errorf("Count = %d, want 3", out.Count)
	}
}

// --- Find and search handler tests ---

func TestHandleFind(t *testing.T) {
	r := makeTestRepo(t)
	c := commitFile(t, r, "A", "x", "fix parser")

	_, out, err := handleFind(opener(r))(context.Background(), &mcp.CallToolRequest{}, FindInput{Message: "fix parser"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || out.Commits[0].ID != dag.Hex(c.ID) {
		t.Errorf("out = %+v", out)
	}

	_, _, err = handleFind(opener(r))(context.Background(), &mcp.CallToolRequest{}, FindInput{Message: "nope"})
	if err == nil || err.Error() != "Found no commit with that message." {
		t.Errorf("err = %v", err)
	}
}

func TestHandleSearch(t *testing.T) {
	r := makeTestRepo(t)
	commitFile(t, r, "A", "1", "fix parser crash")
	commitFile(t, r, "A", "2", "parser docs")
	commitFile(t, r, "A", "3", "unrelated")

	_, out, err := handleSearch(opener(r))(context.Background(), &mcp.CallToolRequest{}, SearchInput{Query: "parser crash"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 {
		t.Fatalf("Count = %d, want 2", out.Count)
	}
	if out.Commits[0].Message != "fix parser crash" {
		t.Errorf("best match = %q", out.Commits[0].Message)
	}

	if _, _, err := handleSearch(opener(r))(context.Background(), &mcp.CallToolRequest{}, SearchInput{}); err == nil {
		t.Error("empty query should error")
	}
}

// --- Branches and show handler tests ---

func TestHandleBranches(t *testing.T) {
	r := makeTestRepo(t)
	c := commitFile(t, r, "A", "x", "first")
	r.CreateBranch("feature")

	_, out, err := handleBranches(opener(r))(context.Background(), &mcp.CallToolRequest{}, BranchesInput{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Current != "master" || len(out.Branches) != 2 {
		t.Fatalf("out = %+v", out)
	}
	if out.Branches[0].Name != "feature" || out.Branches[0].Commit != dag.Hex(c.ID) {
		t.Errorf("Branches[0] = %+v", out.Branches[0])
	}
}

func TestHandleShow(t *testing.T) {
	r := makeTestRepo(t)
	c := commitFile(t, r, "A", "x", "first")

	_, out, err := handleShow(opener(r))(context.Background(), &mcp.CallToolRequest{}, ShowInput{ID: dag.Hex(c.ID)[:10]})
	if err != nil {
		t.Fatal(err)
	}
	if out.Commit.ID != dag.Hex(c.ID) {
		t.Errorf("ID = %s", out.Commit.ID)
	}
	if out.Files["A"] != dag.Hex(c.Blob("A")) {
		t.Errorf("Files = %v", out.Files)
	}

	_, _, err = handleShow(opener(r))(context.Background(), &mcp.CallToolRequest{}, ShowInput{ID: "zzz"})
	if err == nil || err.Error() != "No commit with that id exists." {
		t.Errorf("err = %v", err)
	}
}

// --- Freshness across handles ---

func TestHandlers_SeeChangesFromOtherHandles(t *testing.T) {
	served := makeTestRepo(t)
	commitFile(t, served, "A", "x", "first")
	open := opener(served)

	// Build the served message index before anything changes.
	if _, _, err := handleFind(open)(context.Background(), &mcp.CallToolRequest{}, FindInput{Message: "first"}); err != nil {
		t.Fatal(err)
	}

	cli, err := repo.Open(served.Root(), repo.Options{Config: config.Default()})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cli.Root(), "a"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := cli.Add("a"); err != nil {
		t.Fatal(err)
	}

	_, st, err := handleStatus(open)(context.Background(), &mcp.CallToolRequest{}, StatusInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(st.Staged) != 1 || st.Staged[0] != "a" || len(st.Untracked) != 0 {
		t.Errorf("status after external add: staged=%v untracked=%v", st.Staged, st.Untracked)
	}

	second, err := cli.Commit("second")
	if err != nil {
		t.Fatal(err)
	}
	_, out, err := handleFind(open)(context.Background(), &mcp.CallToolRequest{}, FindInput{Message: "second"})
	if err != nil {
		t.Fatalf("find after external commit: %v", err)
	}
	if out.Count != 1 || out.Commits[0].ID != dag.Hex(second.ID) {
		t.Errorf("find after external commit = %+v", out)
	}

	_, found, err := handleSearch(open)(context.Background(), &mcp.CallToolRequest{}, SearchInput{Query: "second"})
	if err != nil {
		t.Fatal(err)
	}
	if found.Count != 1 {
		t.Errorf("search after external commit: Count = %d, want 1", found.Count)
	}
}

func TestHandlers_ReportOpenFailure(t *testing.T) {
	missing := func() (*repo.Repository, error) {
		return repo.Open(t.TempDir(), repo.Options{Config: config.Default()})
	}
	_, _, err := handleStatus(missing)(context.Background(), &mcp.CallToolRequest{}, StatusInput{})
	if err == nil || err.Error() != "Not in an initialized Gitlet directory." {
		t.Errorf("err = %v", err)
	}
}
