package model

import "encoding/json"

// Comment is a comment attached to an issue by its ID.
type Comment struct {
	Issue     ID
	CreatedOn Text
	User      Text
	Content   Text

	missing []string
}

var commentKeys = []string{"content", "created_on", "issue", "user"}

func (c *Comment) fields() map[string]any {
	return map[string]any{
		"content":    &c.Content,
		"created_on": &c.CreatedOn,
		"issue":      &c.Issue,
		"user":       &c.User,
	}
}

// Missing returns the required keys that were absent from the export.
func (c *Comment) Missing() []string {
	return c.missing
}

// HasIssue reports whether the comment names the issue it belongs to.
func (c *Comment) HasIssue() bool {
	for _, k := range c.missing {
		if k == "issue" {
			return false
		}
	}
	return true
}

// UnmarshalJSON decodes an exported comment, recording absent keys.
func (c *Comment) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Comment{}
	missing, err := decodeFields(raw, commentKeys, c.fields())
	if err != nil {
		return err
	}
	c.missing = missing
	return nil
}

// MarshalJSON writes the comment back in export form.
func (c Comment) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.fields())
}
