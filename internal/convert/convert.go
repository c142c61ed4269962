// Package convert turns a Bitbucket export into Redmine importer rows.
package convert

import (
	"fmt"
	"strings"

	"github.com/ALT-F4-LLC/bbredmine/internal/dataset"
	"github.com/ALT-F4-LLC/bbredmine/internal/model"
	"github.com/ALT-F4-LLC/bbredmine/internal/redmine"
)

// Resolver maps a Bitbucket identity to a Redmine login. *usermap.Mapper
// implements it.
type Resolver interface {
	Resolve(name model.Text) (string, error)
}

// Options control the shape of the produced rows.
type Options struct {
	// IncludeRelations adds the relation columns, Parent Issue and Id. They
	// are always left empty.
	IncludeRelations bool
	// Vocabulary entries replace or extend the built-in translations.
	Vocabulary redmine.Vocabulary
}

// Stats describes one conversion.
type Stats struct {
	Issues   int `json:"issues"`
	Comments int `json:"comments"`
	Orphans  int `json:"orphan_comments"`
}

// Build produces one row per issue, in document order. Comments are appended
// to the description of their issue; comments for unknown issues are dropped.
// Any missing field or failed identity lookup aborts the whole document.
func Build(doc *model.Document, ids Resolver, opts Options) (*dataset.Dataset, Stats, error) {
	if err := doc.Validate(); err != nil {
		return nil, Stats{}, err
	}

	vocab := redmine.DefaultVocabulary().Merge(opts.Vocabulary)
	header := redmine.Header(opts.IncludeRelations)
	byIssue := doc.CommentsByIssue()

	ds := &dataset.Dataset{
		Header: header,
		Rows:   make([][]string, 0, len(doc.Issues)),
	}
	stats := Stats{Issues: len(doc.Issues)}
	known := make(map[model.ID]bool, len(doc.Issues))

	for n, issue := range doc.Issues {
		comments := byIssue[issue.ID]
		row, err := buildRow(issue, comments, ids, vocab, len(header))
		if err != nil {
			return nil, Stats{}, fmt.Errorf("issues[%d] (id %s): %w", n, issue.ID, err)
		}
		ds.Rows = append(ds.Rows, row)
		stats.Comments += len(comments)
		known[issue.ID] = true
	}

	for _, c := range doc.Comments {
		if !known[c.Issue] {
			stats.Orphans++
		}
	}

	return ds, stats, nil
}

func buildRow(issue *model.Issue, comments []*model.Comment, ids Resolver, vocab redmine.Vocabulary, width int) ([]string, error) {
	assignee, err := ids.Resolve(issue.Assignee)
	if err != nil {
		return nil, fmt.Errorf("assignee: %w", err)
	}
	reporter, err := ids.Resolve(issue.Reporter)
	if err != nil {
		return nil, fmt.Errorf("reporter: %w", err)
	}

	watchers := make([]string, 0, len(issue.Watchers))
	for _, w := range issue.Watchers {
		name, err := ids.Resolve(w)
		if err != nil {
			return nil, fmt.Errorf("watcher: %w", err)
		}
		watchers = append(watchers, name)
	}

	var desc strings.Builder
	desc.WriteString(issue.Content.String())
	for _, c := range comments {
		user, err := ids.Resolve(c.User)
		if err != nil {
			return nil, fmt.Errorf("comment author: %w", err)
		}
		fmt.Fprintf(&desc, "\n\nComment: %s - %s: %s", c.CreatedOn, user, c.Content)
	}

	// Columns not set here (Category, Due date, Done Ratio, Estimated hours
	// and every relation column) stay empty.
	row := make([]string, width)
	row[redmine.ColSubject] = issue.Title.String()
	row[redmine.ColDescription] = desc.String()
	row[redmine.ColAssignedTo] = assignee
	row[redmine.ColFixedVersion] = issue.Version.String()
	row[redmine.ColAuthor] = reporter
	row[redmine.ColPriority] = vocab.PriorityOf(issue.Priority.String())
	row[redmine.ColTracker] = vocab.TrackerOf(issue.Kind.String())
	row[redmine.ColStatus] = vocab.StatusOf(issue.Status.String())
	row[redmine.ColStartDate] = issue.CreatedOn.String()
	row[redmine.ColWatchers] = strings.Join(watchers, ",")

	for i := range row {
		row[i] = toText(row[i])
	}
	return row, nil
}

// toText is applied to every field before it leaves the builder: the output
// is always valid UTF-8, with invalid byte sequences replaced by U+FFFD.
func toText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
