package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/ALT-F4-LLC/bbredmine/internal/failure"
)

// Document is the top-level structure of a Bitbucket issue export.
type Document struct {
	Issues   []*Issue   `json:"issues"`
	Comments []*Comment `json:"comments"`
}

// Load parses an export document. It fails with failure.ErrMalformedInput if
// the input is not a JSON object holding "issues" and "comments" arrays.
// Missing keys inside issues and comments are reported by Validate.
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, failure.Wrap(failure.ErrMalformedInput, err, "reading document")
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, failure.Wrap(failure.ErrMalformedInput, err, "parsing JSON")
	}
	if top == nil {
		return nil, failure.New(failure.ErrMalformedInput, "document is null")
	}

	doc := &Document{}
	for _, c := range []struct {
		key string
		dst any
	}{
		{"issues", &doc.Issues},
		{"comments", &doc.Comments},
	} {
		raw, ok := top[c.key]
		if !ok {
			return nil, failure.New(failure.ErrMalformedInput, "missing top-level %q", c.key)
		}
		if strings.TrimSpace(string(raw)) == "null" {
			return nil, failure.New(failure.ErrMalformedInput, "top-level %q is null", c.key)
		}
		if err := json.Unmarshal(raw, c.dst); err != nil {
			return nil, failure.Wrap(failure.ErrMalformedInput, err, "decoding %q", c.key)
		}
	}

	for n, issue := range doc.Issues {
		if issue == nil {
			return nil, failure.New(failure.ErrMalformedInput, "issues[%d] is null", n)
		}
	}
	for n, c := range doc.Comments {
		if c == nil {
			return nil, failure.New(failure.ErrMalformedInput, "comments[%d] is null", n)
		}
	}

	return doc, nil
}

// LoadFile reads and parses the export at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, failure.WithPath(failure.Wrap(failure.ErrInputNotFound, err, "opening document"), path)
		}
		return nil, failure.WithPath(failure.Wrap(failure.ErrMalformedInput, err, "opening document"), path)
	}
	defer f.Close()

	doc, err := Load(f)
	if err != nil {
		return nil, failure.WithPath(err, path)
	}
	return doc, nil
}

// Validate checks that every issue carries all of its keys and that every
// comment names its issue. Comments that belong to an issue of the document
// must also carry their remaining keys; comments for unknown issues are never
// emitted, so nothing else is required of them. All problems are reported in
// a single failure.ErrMissingField error.
func (d *Document) Validate() error {
	var problems []string

	ids := make(map[ID]bool, len(d.Issues))
	for n, issue := range d.Issues {
		for _, key := range issue.Missing() {
			problems = append(problems, fmt.Sprintf("issues[%d]: missing %q", n, key))
		}
		if !issue.ID.IsZero() {
			ids[issue.ID] = true
		}
	}

	for n, c := range d.Comments {
		if !c.HasIssue() {
			problems = append(problems, fmt.Sprintf("comments[%d]: missing %q", n, "issue"))
			continue
		}
		if !ids[c.Issue] {
			continue
		}
		for _, key := range c.Missing() {
			problems = append(problems, fmt.Sprintf("comments[%d]: missing %q", n, key))
		}
	}

	if len(problems) == 0 {
		return nil
	}

	msg := fmt.Sprintf("%d problem(s):", len(problems))
	for _, p := range problems {
		msg += "\n  - " + p
	}
	return failure.New(failure.ErrMissingField, "%s", msg)
}

// CommentsByIssue groups comments by the issue they belong to, keeping
// document order within each group.
func (d *Document) CommentsByIssue() map[ID][]*Comment {
	byIssue := make(map[ID][]*Comment)
	for _, c := range d.Comments {
		if !c.HasIssue() {
			continue
		}
		byIssue[c.Issue] = append(byIssue[c.Issue], c)
	}
	return byIssue
}
