// Package redmine describes the CSV layout understood by the Redmine Importer
// plug-in and the vocabulary Bitbucket values are translated into.
package redmine

import "maps"

var priorities = map[string]string{
	"trivial":  "Low",
	"minor":    "Normal",
	"major":    "High",
	"critical": "Urgent",
	"blocker":  "Immediate",
}

var trackers = map[string]string{
	"bug":         "Bug",
	"enhancement": "Feature",
	"proposal":    "Feature",
	"task":        "Task",
}

var statuses = map[string]string{
	"new":       "New",
	"open":      "In Progress",
	"on hold":   "New",
	"resolved":  "Resolved",
	"duplicate": "Rejected",
	"invalid":   "Rejected",
	"wontfix":   "Rejected",
	"closed":    "Closed",
}

// TranslatePriority converts a Bitbucket priority to a Redmine priority.
// Unknown priorities translate to the empty string.
func TranslatePriority(p string) string {
	return priorities[p]
}

// TranslateTracker converts a Bitbucket issue kind to a Redmine tracker.
func TranslateTracker(kind string) string {
	return trackers[kind]
}

// TranslateStatus converts a Bitbucket status to a Redmine status.
func TranslateStatus(s string) string {
	return statuses[s]
}

// Vocabulary holds the three translation tables used when building rows.
type Vocabulary struct {
	Priority map[string]string `mapstructure:"priority"`
	Tracker  map[string]string `mapstructure:"tracker"`
	Status   map[string]string `mapstructure:"status"`
}

// DefaultVocabulary returns a copy of the built-in translation tables.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Priority: maps.Clone(priorities),
		Tracker:  maps.Clone(trackers),
		Status:   maps.Clone(statuses),
	}
}

// Merge returns a new Vocabulary with the entries of overrides added to, or
// replacing, the entries of v. Neither v nor overrides is modified.
func (v Vocabulary) Merge(overrides Vocabulary) Vocabulary {
	merge := func(base, extra map[string]string) map[string]string {
		out := make(map[string]string, len(base)+len(extra))
		maps.Copy(out, base)
		maps.Copy(out, extra)
		return out
	}
	return Vocabulary{
		Priority: merge(v.Priority, overrides.Priority),
		Tracker:  merge(v.Tracker, overrides.Tracker),
		Status:   merge(v.Status, overrides.Status),
	}
}

// PriorityOf translates a priority with this vocabulary.
func (v Vocabulary) PriorityOf(p string) string { return v.Priority[p] }

// TrackerOf translates an issue kind with this vocabulary.
func (v Vocabulary) TrackerOf(kind string) string { return v.Tracker[kind] }

// StatusOf translates s with this vocabulary.
func (v Vocabulary) StatusOf(s string) string { return v.Status[s] }
