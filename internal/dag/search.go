package dag

import (
	"slices"
	"strings"
	"sync"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	gocid "github.com/ipfs/go-cid"
)

// MessageIndex is an in-memory index over commit messages. It answers exact
// message lookups (find) and ranked term queries (find --search).
type MessageIndex struct {
	mu    sync.RWMutex
	exact map[string]mapset.Set[gocid.Cid] // message -> commits
	terms map[string]mapset.Set[gocid.Cid] // term -> commits
}

// NewMessageIndex creates an empty MessageIndex.
func NewMessageIndex() *MessageIndex {
	return &MessageIndex{
		exact: make(map[string]mapset.Set[gocid.Cid]),
		terms: make(map[string]mapset.Set[gocid.Cid]),
	}
}

// BuildMessageIndex indexes every commit in g.
func BuildMessageIndex(g *Graph) (*MessageIndex, error) {
	commits, err := g.AllCommits()
	if err != nil {
		return nil, err
	}
	idx := NewMessageIndex()
	for _, c := range commits {
		idx.Add(c)
	}
	return idx, nil
}

// tokenize splits text into lowercase, deduplicated terms of two or more
// characters.
func tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool)
	var result []string
	for _, w := range words {
		if len(w) < 2 || seen[w] {
			continue
		}
		seen[w] = true
		result = append(result, w)
	}
	return result
}

func addTo(m map[string]mapset.Set[gocid.Cid], key string, id gocid.Cid) {
	set, ok := m[key]
	if !ok {
		set = mapset.NewThreadUnsafeSet[gocid.Cid]()
		m[key] = set
	}
	set.Add(id)
}

// Add indexes a commit's message.
func (x *MessageIndex) Add(c *Commit) {
	x.mu.Lock()
	defer x.mu.Unlock()

	addTo(x.exact, c.Message, c.ID)
	for _, term := range tokenize(c.Message) {
		addTo(x.terms, term, c.ID)
	}
}

func sortByHex(ids []gocid.Cid) []gocid.Cid {
	slices.SortFunc(ids, func(a, b gocid.Cid) int {
		return strings.Compare(Hex(a), Hex(b))
	})
	return ids
}

// Exact returns the commits whose message equals message, sorted by identity.
func (x *MessageIndex) Exact(message string) []gocid.Cid {
	x.mu.RLock()
	defer x.mu.RUnlock()

	set, ok := x.exact[message]
	if !ok {
		return nil
	}
	return sortByHex(set.ToSlice())
}

// Search returns commits ranked by the number of query terms their message
// contains. Ties are broken by identity.
func (x *MessageIndex) Search(query string, limit int) []gocid.Cid {
	x.mu.RLock()
	defer x.mu.RUnlock()

	terms := tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	scores := make(map[gocid.Cid]int)
	for _, term := range terms {
		if set, ok := x.terms[term]; ok {
			for id := range set.Iter() {
				scores[id]++
			}
		}
	}

	type scored struct {
		id    gocid.Cid
		hex   string
		score int
	}
	results := make([]scored, 0, len(scores))
	for id, score := range scores {
		results = append(results, scored{id, Hex(id), score})
	}
	slices.SortFunc(results, func(a, b scored) int {
		if a.score != b.score {
			return b.score - a.score
		}
		return strings.Compare(a.hex, b.hex)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	ids := make([]gocid.Cid, len(results))
	for i, r := range results {
		ids[i] = r.id
	}
	return ids
}
