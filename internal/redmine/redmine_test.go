package redmine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslatePriority(t *testing.T) {
	tests := map[string]string{
		"trivial":  "Low",
		"minor":    "Normal",
		"major":    "High",
		"critical": "Urgent",
		"blocker":  "Immediate",
		"Major":    "",
		"":         "",
		"urgent":   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, TranslatePriority(in), "TranslatePriority(%q)", in)
	}
}

func TestTranslateTracker(t *testing.T) {
	tests := map[string]string{
		"bug":         "Bug",
		"enhancement": "Feature",
		"proposal":    "Feature",
		"task":        "Task",
		"epic":        "",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, TranslateTracker(in), "TranslateTracker(%q)", in)
	}
}

func TestTranslateStatus(t *testing.T) {
	tests := map[string]string{
		"new":       "New",
		"open":      "In Progress",
		"on hold":   "New",
		"resolved":  "Resolved",
		"duplicate": "Rejected",
		"invalid":   "Rejected",
		"wontfix":   "Rejected",
		"closed":    "Closed",
		"onhold":    "",
		"\x00":      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, TranslateStatus(in), "TranslateStatus(%q)", in)
	}
}

func TestDefaultVocabularyMatchesTranslators(t *testing.T) {
	v := DefaultVocabulary()
	for _, p := range []string{"trivial", "minor", "major", "critical", "blocker", "nope"} {
		assert.Equal(t, TranslatePriority(p), v.PriorityOf(p))
	}
	for _, k := range []string{"bug", "enhancement", "proposal", "task", "nope"} {
		assert.Equal(t, TranslateTracker(k), v.TrackerOf(k))
	}
	for _, s := range []string{"new", "open", "on hold", "resolved", "duplicate", "invalid", "wontfix", "closed", "nope"} {
		assert.Equal(t, TranslateStatus(s), v.StatusOf(s))
	}
}

func TestVocabularyMerge(t *testing.T) {
	base := DefaultVocabulary()
	merged := base.Merge(Vocabulary{
		Priority: map[string]string{"major": "Hoch"},
		Status:   map[string]string{"on hold": "Feedback"},
	})

	assert.Equal(t, "Hoch", merged.PriorityOf("major"))
	assert.Equal(t, "Low", merged.PriorityOf("trivial"))
	assert.Equal(t, "Feedback", merged.StatusOf("on hold"))
	assert.Equal(t, "Bug", merged.TrackerOf("bug"))

	// The receiver and the package tables are untouched.
	assert.Equal(t, "High", base.PriorityOf("major"))
	assert.Equal(t, "High", TranslatePriority("major"))
	assert.Equal(t, "New", TranslateStatus("on hold"))
}

func TestDefaultVocabularyIsACopy(t *testing.T) {
	v := DefaultVocabulary()
	v.Tracker["bug"] = "Defect"
	assert.Equal(t, "Bug", TranslateTracker("bug"))
}

func TestHeader(t *testing.T) {
	minimal := Header(false)
	require.Len(t, minimal, 14)
	assert.Equal(t, "Subject", minimal[ColSubject])
	assert.Equal(t, "Watchers", minimal[ColWatchers])

	full := Header(true)
	require.Len(t, full, 23)
	assert.Equal(t, minimal, full[:14])
	assert.Equal(t, []string{
		"blocked by", "blocks", "duplicated by", "duplicates", "follows",
		"precedes", "related to", "Parent Issue", "Id",
	}, full[14:])

	// Callers may modify the returned slice.
	minimal[0] = "changed"
	assert.Equal(t, "Subject", Header(false)[0])
}

func TestIsRelationColumn(t *testing.T) {
	for i := 0; i < 23; i++ {
		assert.Equal(t, i >= 14, IsRelationColumn(i), "column %d", i)
	}
	assert.False(t, IsRelationColumn(23))
}
