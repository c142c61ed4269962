package model

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ALT-F4-LLC/bbredmine/internal/failure"
)

const fullIssue = `{
	"assignee": "alice", "component": null, "content": "desc",
	"content_updated_on": null, "created_on": "2020-01-01", "edited_on": null,
	"id": 1, "kind": "bug", "milestone": null, "priority": "major",
	"reporter": "bob", "status": "open", "title": "Bug A",
	"updated_on": "2020-01-03", "version": "1.0", "voters": [],
	"watchers": ["alice", "carol"]
}`

func TestTextUnmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  Text
	}{
		{`"hello"`, T("hello")},
		{`""`, T("")},
		{`null`, Text{}},
		{`42`, T("42")},
		{`1.5`, T("1.5")},
		{`true`, T("true")},
		{`[1, 2]`, T("[1,2]")},
		{`{"a": "b"}`, T(`{"a":"b"}`)},
		{`"caf\u00e9"`, T("café")},
	}

	for _, tt := range tests {
		var got Text
		if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
			t.Errorf("Unmarshal(%s) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestTextString(t *testing.T) {
	if got := (Text{}).String(); got != "" {
		t.Errorf("null String() = %q, want empty", got)
	}
	if got := T("x").String(); got != "x" {
		t.Errorf("String() = %q, want %q", got, "x")
	}
}

func TestIDEquality(t *testing.T) {
	var a, b, c ID
	if err := json.Unmarshal([]byte(`1`), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(` 1 `), &b); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`"1"`), &c); err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Error("expected 1 and 1 to be equal IDs")
	}
	if a == c {
		t.Error("expected 1 and \"1\" to be different IDs")
	}
	if a != IntID(1) {
		t.Error("expected IntID(1) to equal decoded 1")
	}
	if c != StringID("1") {
		t.Error("expected StringID(\"1\") to equal decoded \"1\"")
	}
	if c.String() != "1" || a.String() != "1" {
		t.Errorf("String() = %q / %q, want 1", a.String(), c.String())
	}
	if !(ID{}).IsZero() || a.IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestIDNumericForms(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`1`, "1"},
		{`1.0`, "1"},
		{`1e0`, "1"},
		{`10E-1`, "1"},
		{`-0`, "0"},
		{`1.50`, "1.5"},
		{`0.05`, "0.05"},
		{`2.5e-3`, "0.0025"},
		{`12345678901234567890123`, "12345678901234567890123"},
	}

	for _, tt := range tests {
		var id ID
		if err := json.Unmarshal([]byte(tt.input), &id); err != nil {
			t.Errorf("Unmarshal(%s) error: %v", tt.input, err)
			continue
		}
		if id.String() != tt.want {
			t.Errorf("Unmarshal(%s).String() = %q, want %q", tt.input, id.String(), tt.want)
		}
	}

	var one, oneFloat, oneString ID
	for in, dst := range map[string]*ID{`1`: &one, `1.0`: &oneFloat, `"1.0"`: &oneString} {
		if err := json.Unmarshal([]byte(in), dst); err != nil {
			t.Fatal(err)
		}
	}
	if one != oneFloat {
		t.Error("expected 1 and 1.0 to be equal IDs")
	}
	if oneString.String() != "1.0" || oneString == one {
		t.Errorf("string ID %q should be kept verbatim and distinct", oneString.String())
	}
}

func TestIssueUnmarshal(t *testing.T) {
	var issue Issue
	if err := json.Unmarshal([]byte(fullIssue), &issue); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(issue.Missing()) != 0 {
		t.Errorf("Missing() = %v, want none", issue.Missing())
	}
	if issue.ID != IntID(1) {
		t.Errorf("ID = %v, want 1", issue.ID)
	}
	if issue.Title != T("Bug A") || issue.Content != T("desc") {
		t.Errorf("title/content = %+v / %+v", issue.Title, issue.Content)
	}
	if issue.Component.Valid {
		t.Error("component should be null")
	}
	if len(issue.Watchers) != 2 || issue.Watchers[1] != T("carol") {
		t.Errorf("watchers = %+v", issue.Watchers)
	}
}

func TestIssueUnmarshalRecordsMissingKeys(t *testing.T) {
	var issue Issue
	if err := json.Unmarshal([]byte(`{"id": 7, "title": "x"}`), &issue); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	missing := issue.Missing()
	if len(missing) != len(issueKeys)-2 {
		t.Fatalf("Missing() = %v, want %d keys", missing, len(issueKeys)-2)
	}
	for _, k := range missing {
		if k == "id" || k == "title" {
			t.Errorf("key %q reported missing", k)
		}
	}
}

func TestIssueUnmarshalNullWatchers(t *testing.T) {
	data := strings.Replace(fullIssue, `["alice", "carol"]`, `null`, 1)
	var issue Issue
	if err := json.Unmarshal([]byte(data), &issue); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(issue.Watchers) != 0 {
		t.Errorf("watchers = %v, want empty", issue.Watchers)
	}
}

func TestIssueUnmarshalRejectsBadWatchers(t *testing.T) {
	data := strings.Replace(fullIssue, `["alice", "carol"]`, `"alice"`, 1)
	var issue Issue
	if err := json.Unmarshal([]byte(data), &issue); err == nil {
		t.Error("expected error for non-array watchers")
	}
}

func TestIssueMarshalRoundTrip(t *testing.T) {
	var issue Issue
	if err := json.Unmarshal([]byte(fullIssue), &issue); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(issue)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var again Issue
	if err := json.Unmarshal(data, &again); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(again.Missing()) != 0 {
		t.Errorf("Missing() after round trip = %v", again.Missing())
	}
	if again.ID != issue.ID || again.Title != issue.Title || again.Status != issue.Status {
		t.Errorf("round trip mismatch: %+v vs %+v", again, issue)
	}
}

func TestLoad(t *testing.T) {
	input := `{"issues": [` + fullIssue + `], "comments": [
		{"issue": 1, "created_on": "2020-01-02", "user": "bob", "content": "fix it"}
	], "meta": {"default_kind": "bug"}}`

	doc, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Issues) != 1 || len(doc.Comments) != 1 {
		t.Fatalf("got %d issues, %d comments", len(doc.Issues), len(doc.Comments))
	}
	if doc.Comments[0].Issue != IntID(1) {
		t.Errorf("comment issue = %v", doc.Comments[0].Issue)
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"issues": [`},
		{"array root", `[]`},
		{"null root", `null`},
		{"missing issues", `{"comments": []}`},
		{"missing comments", `{"issues": []}`},
		{"null issues", `{"issues": null, "comments": []}`},
		{"issues not array", `{"issues": {}, "comments": []}`},
		{"null issue entry", `{"issues": [null], "comments": []}`},
		{"null comment entry", `{"issues": [], "comments": [null]}`},
		{"trailing data", `{"issues": [], "comments": []} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			if !errors.Is(err, failure.ErrMalformedInput) {
				t.Errorf("Load error = %v, want ErrMalformedInput", err)
			}
		})
	}
}

func TestLoadFileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	_, err := LoadFile(path)
	if !errors.Is(err, failure.ErrInputNotFound) {
		t.Fatalf("LoadFile error = %v, want ErrInputNotFound", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issues.json")
	if err := os.WriteFile(path, []byte(`{"issues": [], "comments": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(doc.Issues) != 0 || len(doc.Comments) != 0 {
		t.Errorf("expected empty document, got %+v", doc)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	input := `{"issues": [
		{"id": 1, "title": "only title"},
		` + fullIssue + `
	], "comments": [
		{"created_on": "x", "user": "u", "content": "no issue key"},
		{"issue": 1, "user": "u"},
		{"issue": 99}
	]}`

	doc, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	err = doc.Validate()
	if !errors.Is(err, failure.ErrMissingField) {
		t.Fatalf("Validate error = %v, want ErrMissingField", err)
	}

	msg := err.Error()
	for _, want := range []string{
		`issues[0]: missing "content"`,
		`issues[0]: missing "watchers"`,
		`comments[0]: missing "issue"`,
		`comments[1]: missing "content"`,
		`comments[1]: missing "created_on"`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "comments[2]") {
		t.Errorf("orphan comment should not be validated:\n%s", msg)
	}
	if strings.Contains(msg, "issues[1]") {
		t.Errorf("complete issue reported:\n%s", msg)
	}
}

func TestCommentsByIssue(t *testing.T) {
	doc := &Document{
		Comments: []*Comment{
			{Issue: IntID(1), Content: T("a")},
			{Issue: IntID(2), Content: T("b")},
			{Issue: IntID(1), Content: T("c")},
		},
	}

	got := doc.CommentsByIssue()
	if len(got[IntID(1)]) != 2 || got[IntID(1)][0].Content != T("a") || got[IntID(1)][1].Content != T("c") {
		t.Errorf("issue 1 comments = %+v", got[IntID(1)])
	}
	if len(got[IntID(2)]) != 1 {
		t.Errorf("issue 2 comments = %+v", got[IntID(2)])
	}
}

func TestIdentities(t *testing.T) {
	doc := &Document{
		Issues: []*Issue{
			{Assignee: T("alice"), Reporter: T("bob"), Watchers: []Text{T("alice"), T("carol")}},
			{Assignee: Text{}, Reporter: T("bob")},
		},
		Comments: []*Comment{
			{User: T("dave")},
			{User: Text{}},
		},
	}

	got := doc.Identities()
	want := []Identity{{"alice", 2}, {"bob", 2}, {"carol", 1}, {"dave", 1}}
	if len(got) != len(want) {
		t.Fatalf("Identities() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Identities()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMergeIdentities(t *testing.T) {
	got := MergeIdentities(
		[]Identity{{"bob", 1}, {"alice", 2}},
		[]Identity{{"carol", 1}, {"bob", 3}},
	)
	want := []Identity{{"bob", 4}, {"alice", 2}, {"carol", 1}}
	if len(got) != len(want) {
		t.Fatalf("MergeIdentities() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MergeIdentities()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
