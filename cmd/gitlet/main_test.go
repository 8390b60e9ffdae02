package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/systemshift/gitlet/internal/output"
)

// newWorkdir returns an empty working directory with an isolated global
// config.
func newWorkdir(t *testing.T) string {
	t.Helper()
	t.Setenv("GITLET_CONFIG_HOME", t.TempDir())
	return t.TempDir()
}

// gitlet runs one command against dir and returns everything it printed.
func gitlet(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	if len(args) > 0 {
		args = append([]string{args[0], "-C", dir}, args[1:]...)
	} else {
		args = []string{"-C", dir}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// mustGitlet runs a command that should succeed silently or with output.
func mustGitlet(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := gitlet(t, dir, args...)
	if err != nil {
		t.Fatalf("gitlet %v: %v (output %q)", args, err, out)
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRootCommand_Version(t *testing.T) {
	version = "1.2.3"
	defer func() { version = "dev" }()

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "1.2.3") {
		t.Errorf("--version output should contain version: %q", buf.String())
	}
}

func TestRootCommand_Help(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, expected := range []string{"gitlet", "Usage:", "--json", "checkout", "global-log", "Branch Commands:"} {
		if !strings.Contains(buf.String(), expected) {
			t.Errorf("--help output should contain %q", expected)
		}
	}
}

func TestRootCommand_NoCommand(t *testing.T) {
	dir := newWorkdir(t)
	if out := mustGitlet(t, dir); out != "Please enter a command.\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRootCommand_UnknownCommand(t *testing.T) {
	dir := newWorkdir(t)
	if out := mustGitlet(t, dir, "glorp"); out != "No command with that name exists.\n" {
		t.Errorf("output = %q", out)
	}
}

func TestCommands_RequireRepository(t *testing.T) {
	dir := newWorkdir(t)
	for _, args := range [][]string{
		{"status"},
		{"log"},
		{"add", "f"},
		{"branch", "b"},
		{"checkout", "--", "f"},
	} {
		out := mustGitlet(t, dir, args...)
		if out != "Not in an initialized Gitlet directory.\n" {
			t.Errorf("gitlet %v: output = %q", args, out)
		}
	}
}

func TestCommands_OperandsCheckedFirst(t *testing.T) {
	dir := newWorkdir(t)
	for _, args := range [][]string{
		{"init", "extra"},
		{"add"},
		{"add", "a", "b"},
		{"rm"},
		{"commit", "a", "b"},
		{"log", "x"},
		{"status", "x"},
		{"find"},
		{"branch"},
		{"rm-branch"},
		{"reset"},
		{"merge"},
		{"checkout"},
		{"checkout", "a", "b"},
		{"checkout", "a", "b", "c"},
		{"checkout", "a", "--", "b", "c"},
	} {
		out := mustGitlet(t, dir, args...)
		if out != "Incorrect operands.\n" {
			t.Errorf("gitlet %v: output = %q", args, out)
		}
	}
}

func TestInit_Twice(t *testing.T) {
	dir := newWorkdir(t)
	if out := mustGitlet(t, dir, "init"); out != "" {
		t.Errorf("first init output = %q", out)
	}
	out := mustGitlet(t, dir, "init")
	if out != "A Gitlet version-control system already exists in the current directory.\n" {
		t.Errorf("second init output = %q", out)
	}
}

func TestCommit_Messages(t *testing.T) {
	dir := newWorkdir(t)
	mustGitlet(t, dir, "init")

	if out := mustGitlet(t, dir, "commit"); out != "Please enter a commit message.\n" {
		t.Errorf("no operand: %q", out)
	}
	if out := mustGitlet(t, dir, "commit", ""); out != "Please enter a commit message.\n" {
		t.Errorf("empty message: %q", out)
	}
	if out := mustGitlet(t, dir, "commit", "nothing"); out != "No changes added to the commit.\n" {
		t.Errorf("nothing staged: %q", out)
	}
}

func TestScenario_AddCommitLog(t *testing.T) {
	dir := newWorkdir(t)
	mustGitlet(t, dir, "init")
	writeFile(t, dir, "wug.txt", "This is a wug.\n")
	mustGitlet(t, dir, "add", "wug.txt")
	mustGitlet(t, dir, "commit", "added wug")

	out := mustGitlet(t, dir, "log")
	if strings.Count(out, "===\n") != 2 {
		t.Fatalf("log should list two commits: %q", out)
	}
	first := strings.Index(out, "added wug")
	initial := strings.Index(out, "initial commit")
	if first < 0 || initial < 0 || first > initial {
		t.Errorf("log order wrong: %q", out)
	}

	out = mustGitlet(t, dir, "find", "added wug")
	if len(strings.TrimSpace(out)) != 64 {
		t.Errorf("find should print one full id: %q", out)
	}
	if out := mustGitlet(t, dir, "find", "never"); out != "Found no commit with that message.\n" {
		t.Errorf("find miss: %q", out)
	}

	global := mustGitlet(t, dir, "global-log")
	if strings.Count(global, "===\n") != 2 {
		t.Errorf("global-log: %q", global)
	}
}

func TestStatus_Output(t *testing.T) {
	dir := newWorkdir(t)
	mustGitlet(t, dir, "init")
	writeFile(t, dir, "a.txt", "a")
	mustGitlet(t, dir, "add", "a.txt")
	writeFile(t, dir, "junk", "j")

	want := "=== Branches ===\n*master\n\n" +
		"=== Staged Files ===\na.txt\n\n" +
		"=== Removed Files ===\n\n" +
		"=== Modifications Not Staged For Commit ===\n\n" +
		"=== Untracked Files ===\njunk\n\n"
	if out := mustGitlet(t, dir, "status"); out != want {
		t.Errorf("status =\n%s\nwant\n%s", out, want)
	}
}

func TestStatus_JSON(t *testing.T) {
	dir := newWorkdir(t)
	mustGitlet(t, dir, "init")
	writeFile(t, dir, "junk", "j")

	out := mustGitlet(t, dir, "status", "--json")
	var result map[string]any
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("status --json is not JSON: %v (%q)", err, out)
	}
	if result["branch"] != "master" {
		t.Errorf("branch = %v", result["branch"])
	}
}

func TestFail_JSON(t *testing.T) {
	dir := newWorkdir(t)
	out := mustGitlet(t, dir, "status", "--json")

	var result map[string]any
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("error is not JSON: %v (%q)", err, out)
	}
	if result["error"] != "Not in an initialized Gitlet directory." || result["kind"] != "precondition" {
		t.Errorf("result = %v", result)
	}
}

func TestCheckout_Forms(t *testing.T) {
	dir := newWorkdir(t)
	mustGitlet(t, dir, "init")
	writeFile(t, dir, "f.txt", "v1")
	mustGitlet(t, dir, "add", "f.txt")
	mustGitlet(t, dir, "commit", "v1")
	id := strings.TrimSpace(mustGitlet(t, dir, "find", "v1"))

	writeFile(t, dir, "f.txt", "v2")
	mustGitlet(t, dir, "add", "f.txt")
	mustGitlet(t, dir, "commit", "v2")

	writeFile(t, dir, "f.txt", "scribble")
	mustGitlet(t, dir, "checkout", "--", "f.txt")
	if got := readFile(t, dir, "f.txt"); got != "v2" {
		t.Errorf("checkout -- f.txt: %q", got)
	}

	mustGitlet(t, dir, "checkout", id[:8], "--", "f.txt")
	if got := readFile(t, dir, "f.txt"); got != "v1" {
		t.Errorf("checkout id -- f.txt: %q", got)
	}

	if out := mustGitlet(t, dir, "checkout", "--", "missing"); out != "File does not exist in that commit.\n" {
		t.Errorf("missing file: %q", out)
	}
	if out := mustGitlet(t, dir, "checkout", "abcdef0", "--", "f.txt"); out != "No commit with that id exists.\n" {
		t.Errorf("bad id: %q", out)
	}
	if out := mustGitlet(t, dir, "checkout", "nobranch"); out != "No such branch exists.\n" {
		t.Errorf("bad branch: %q", out)
	}
	if out := mustGitlet(t, dir, "checkout", "master"); out != "No need to checkout the current branch.\n" {
		t.Errorf("current branch: %q", out)
	}
}

func TestScenario_BranchAndMergeConflict(t *testing.T) {
	dir := newWorkdir(t)
	mustGitlet(t, dir, "init")
	writeFile(t, dir, "f.txt", "base\n")
	mustGitlet(t, dir, "add", "f.txt")
	mustGitlet(t, dir, "commit", "base")

	mustGitlet(t, dir, "branch", "other")
	if out := mustGitlet(t, dir, "branch", "other"); out != "A branch with that name already exists.\n" {
		t.Errorf("duplicate branch: %q", out)
	}

	writeFile(t, dir, "f.txt", "master\n")
	mustGitlet(t, dir, "add", "f.txt")
	mustGitlet(t, dir, "commit", "on master")

	mustGitlet(t, dir, "checkout", "other")
	writeFile(t, dir, "f.txt", "other\n")
	mustGitlet(t, dir, "add", "f.txt")
	mustGitlet(t, dir, "commit", "on other")
	mustGitlet(t, dir, "checkout", "master")

	if out := mustGitlet(t, dir, "merge", "master"); out != "Cannot merge a branch with itself.\n" {
		t.Errorf("self merge: %q", out)
	}
	if out := mustGitlet(t, dir, "merge", "other"); out != "Encountered a merge conflict.\n" {
		t.Fatalf("merge output = %q", out)
	}

	want := "<<<<<<< HEAD\nmaster\n=======\nother\n>>>>>>>\n"
	if got := readFile(t, dir, "f.txt"); got != want {
		t.Errorf("conflict file = %q, want %q", got, want)
	}

	log := mustGitlet(t, dir, "log")
	if !strings.Contains(log, "Merged other into master.") || !strings.Contains(log, "Merge: ") {
		t.Errorf("log after merge: %q", log)
	}

	if out := mustGitlet(t, dir, "rm-branch", "master"); out != "Cannot remove the current branch.\n" {
		t.Errorf("rm current: %q", out)
	}
	mustGitlet(t, dir, "rm-branch", "other")
	if out := mustGitlet(t, dir, "rm-branch", "other"); out != "A branch with that name does not exist.\n" {
		t.Errorf("rm missing: %q", out)
	}
}

func TestMerge_FastForwardJSON(t *testing.T) {
	dir := newWorkdir(t)
	mustGitlet(t, dir, "init")
	mustGitlet(t, dir, "branch", "ahead")
	mustGitlet(t, dir, "checkout", "ahead")
	writeFile(t, dir, "g.txt", "g")
	mustGitlet(t, dir, "add", "g.txt")
	mustGitlet(t, dir, "commit", "ahead")
	mustGitlet(t, dir, "checkout", "master")

	out := mustGitlet(t, dir, "merge", "ahead", "--json")
	var result mergeView
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("merge --json: %v (%q)", err, out)
	}
	if result.Outcome != "fast-forward" || len(result.Conflicts) != 0 {
		t.Errorf("result = %+v", result)
	}
	if got := readFile(t, dir, "g.txt"); got != "g" {
		t.Errorf("g.txt = %q", got)
	}
}

func TestRmAndReset(t *testing.T) {
	dir := newWorkdir(t)
	mustGitlet(t, dir, "init")
	writeFile(t, dir, "a.txt", "a")
	mustGitlet(t, dir, "add", "a.txt")
	mustGitlet(t, dir, "commit", "a")
	base := strings.TrimSpace(mustGitlet(t, dir, "find", "a"))

	if out := mustGitlet(t, dir, "rm", "nope"); out != "No reason to remove the file.\n" {
		t.Errorf("rm untracked: %q", out)
	}
	mustGitlet(t, dir, "rm", "a.txt")
	if _, err := os.Stat(filepath.Join(dir, "a.txt")); !os.IsNotExist(err) {
		t.Errorf("rm should delete the tracked file, stat err = %v", err)
	}
	mustGitlet(t, dir, "commit", "removed a")

	mustGitlet(t, dir, "reset", base)
	if got := readFile(t, dir, "a.txt"); got != "a" {
		t.Errorf("after reset a.txt = %q", got)
	}
	if out := mustGitlet(t, dir, "reset", "0000000"); out != "No commit with that id exists.\n" {
		t.Errorf("reset bad id: %q", out)
	}
}

func TestShow_JSON(t *testing.T) {
	dir := newWorkdir(t)
	mustGitlet(t, dir, "init")
	writeFile(t, dir, "a.txt", "a")
	mustGitlet(t, dir, "add", "a.txt")
	out := mustGitlet(t, dir, "commit", "a", "--json")

	var committed commitView
	if err := json.Unmarshal([]byte(out), &committed); err != nil {
		t.Fatalf("commit --json: %v (%q)", err, out)
	}

	out = mustGitlet(t, dir, "show", committed.ID[:10], "--json")
	var shown commitView
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("show --json: %v (%q)", err, out)
	}
	if shown.ID != committed.ID || shown.Message != "a" || len(shown.Files) != 1 {
		t.Errorf("shown = %+v", shown)
	}
}

func TestReport_FatalBecomesSystemError(t *testing.T) {
	printer := output.NewPrinter(new(bytes.Buffer), false, false)
	err := report(printer, os.ErrPermission)
	if got := output.GetExitCode(err); got != output.ExitSystemError {
		t.Errorf("exit code = %d, want %d", got, output.ExitSystemError)
	}
	if report(printer, nil) != nil {
		t.Error("nil error should stay nil")
	}
}
