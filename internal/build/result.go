package build

import (
	"sort"
	"time"

	"git.home.luguber.info/inful/sitecfg/internal/collection"
	"git.home.luguber.info/inful/sitecfg/internal/site"
)

// Status represents the outcome of an assembly.
type Status string

const (
	StatusSuccess Status = "success"
	StatusInvalid Status = "invalid"
)

// Result is an assembled site. Accessors return copies; a Result is safe to
// share between goroutines.
type Result struct {
	runID     string
	status    Status
	site      *site.Config
	resolved  []site.NavNode
	issues    site.Issues
	dropped   []string
	registry  *collection.Registry
	documents map[string][]collection.Document

	StartTime time.Time
	Duration  time.Duration
}

// RunID identifies the assembly in logs.
func (r *Result) RunID() string { return r.runID }

// Status returns the assembly outcome.
func (r *Result) Status() Status { return r.status }

// Site returns the validated site definition, after duplicate handling.
func (r *Result) Site() *site.Config { return r.site.Clone() }

// Sidebar returns the resolved sidebar when resolution was requested,
// otherwise the declared one.
func (r *Result) Sidebar() []site.NavNode {
	if r.resolved != nil {
		return site.CloneNodes(r.resolved)
	}
	return site.CloneNodes(r.site.Sidebar)
}

// Resolved reports whether Sidebar has autogenerate groups expanded.
func (r *Result) Resolved() bool { return r.resolved != nil }

// Issues returns all findings in reporting order.
func (r *Result) Issues() site.Issues { return append(site.Issues(nil), r.issues...) }

// Dropped lists top-level sidebar sections removed by the dedupe policy.
func (r *Result) Dropped() []string { return append([]string(nil), r.dropped...) }

// Registry returns the collection bindings the site was assembled with.
func (r *Result) Registry() *collection.Registry { return r.registry }

// Documents returns the parsed documents of one collection in load order.
func (r *Result) Documents(name string) []collection.Document {
	return append([]collection.Document(nil), r.documents[name]...)
}

// DocumentCounts maps collection names to the number of documents loaded.
func (r *Result) DocumentCounts() map[string]int {
	out := make(map[string]int, len(r.documents))
	for name, docs := range r.documents {
		out[name] = len(docs)
	}
	return out
}

// Loaded reports whether collections were loaded.
func (r *Result) Loaded() bool { return r.documents != nil }

func sortIssues(is site.Issues) {
	sort.SliceStable(is, func(i, j int) bool {
		return is[i].Severity == site.SeverityError && is[j].Severity != site.SeverityError
	})
}

// Digests maps "<collection>/<id>" to each loaded document's content
// fingerprint. It is nil when collections were not loaded.
func (r *Result) Digests() map[string]string {
	if r.documents == nil {
		return nil
	}
	out := make(map[string]string)
	for name, docs := range r.documents {
		for _, d := range docs {
			out[name+"/"+d.ID] = d.Digest
		}
	}
	return out
}

// ChangedEntries lists the keys added, removed or re-fingerprinted between
// two Digests snapshots, sorted.
func ChangedEntries(prev, next map[string]string) []string {
	var out []string
	for k, v := range next {
		if old, ok := prev[k]; !ok || old != v {
			out = append(out, k)
		}
	}
	for k := range prev {
		if _, ok := next[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
