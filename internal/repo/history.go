package repo

import (
	"fmt"
	"strings"
	"time"

	"github.com/systemshift/gitlet/internal/dag"
)

// Log returns the first-parent history of the head commit, newest first.
func (r *Repository) Log() ([]*dag.Commit, error) {
	head, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	var out []*dag.Commit
	for c, err := range r.Graph.FirstParentHistory(head.ID) {
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// GlobalLog returns every commit ever made, ordered by identity.
func (r *Repository) GlobalLog() ([]*dag.Commit, error) {
	return r.Graph.AllCommits()
}

func (r *Repository) messageIndex() (*dag.MessageIndex, error) {
	r.msgMu.Lock()
	defer r.msgMu.Unlock()
	if r.messages == nil {
		idx, err := dag.BuildMessageIndex(r.Graph)
		if err != nil {
			return nil, err
		}
		r.messages = idx
	}
	return r.messages, nil
}

// Find returns the commits whose message is exactly message.
func (r *Repository) Find(message string) ([]*dag.Commit, error) {
	idx, err := r.messageIndex()
	if err != nil {
		return nil, err
	}
	ids := idx.Exact(message)
	if len(ids) == 0 {
		return nil, ErrNoCommitWithMessage
	}
	out := make([]*dag.Commit, 0, len(ids))
	for _, id := range ids {
		c, err := r.Graph.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Search ranks commits by how many query terms their message contains.
// limit <= 0 means no limit.
func (r *Repository) Search(query string, limit int) ([]*dag.Commit, error) {
	idx, err := r.messageIndex()
	if err != nil {
		return nil, err
	}
	var out []*dag.Commit
	for _, id := range idx.Search(query, limit) {
		c, err := r.Graph.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Show resolves ref (full id, unique prefix or CID string) to a commit.
func (r *Repository) Show(ref string) (*dag.Commit, error) {
	return r.Graph.Resolve(ref)
}

// FormatLogEntry renders c as one log block:
//
//	===
//	commit <id>
//	Merge: <p1> <p2>     (merge commits only)
//	Date: <date>
//	<message>
//	<blank>
func FormatLogEntry(c *dag.Commit, layout string, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("===\n")
	fmt.Fprintf(&b, "commit %s\n", dag.Hex(c.ID))
	if c.IsMerge() {
		fmt.Fprintf(&b, "Merge: %s %s\n", dag.Short(c.Parents[0], 7), dag.Short(c.Parents[1], 7))
	}
	fmt.Fprintf(&b, "Date: %s\n", c.Time.In(loc).Format(layout))
	b.WriteString(c.Message)
	b.WriteString("\n\n")
	return b.String()
}

// FormatLog renders c with the repository's configured date settings.
func (r *Repository) FormatLog(c *dag.Commit) string {
	return FormatLogEntry(c, r.Config.Log.DateFormat, r.Config.Location())
}
