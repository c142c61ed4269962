package model

import (
	"encoding/json"
	"fmt"
)

// Issue is one issue of a Bitbucket export.
type Issue struct {
	ID        ID
	Title     Text
	Content   Text
	Assignee  Text
	Reporter  Text
	Watchers  []Text
	Version   Text
	Priority  Text
	Kind      Text
	Status    Text
	CreatedOn Text

	// Carried from the export but not part of the Redmine row.
	Component        Text
	ContentUpdatedOn Text
	EditedOn         Text
	Milestone        Text
	UpdatedOn        Text
	Voters           json.RawMessage

	missing []string
}

// issueKeys lists the keys every exported issue must have, in export order.
var issueKeys = []string{
	"assignee", "component", "content", "content_updated_on", "created_on",
	"edited_on", "id", "kind", "milestone", "priority", "reporter", "status",
	"title", "updated_on", "version", "voters", "watchers",
}

func (i *Issue) fields() map[string]any {
	return map[string]any{
		"assignee":           &i.Assignee,
		"component":          &i.Component,
		"content":            &i.Content,
		"content_updated_on": &i.ContentUpdatedOn,
		"created_on":         &i.CreatedOn,
		"edited_on":          &i.EditedOn,
		"id":                 &i.ID,
		"kind":               &i.Kind,
		"milestone":          &i.Milestone,
		"priority":           &i.Priority,
		"reporter":           &i.Reporter,
		"status":             &i.Status,
		"title":              &i.Title,
		"updated_on":         &i.UpdatedOn,
		"version":            &i.Version,
		"voters":             &i.Voters,
		"watchers":           &i.Watchers,
	}
}

// Missing returns the required keys that were absent from the export.
func (i *Issue) Missing() []string {
	return i.missing
}

// UnmarshalJSON decodes an exported issue, recording absent keys instead of
// failing so that a document can report all of them at once.
func (i *Issue) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*i = Issue{}
	missing, err := decodeFields(raw, issueKeys, i.fields())
	if err != nil {
		return err
	}
	i.missing = missing
	return nil
}

// MarshalJSON writes the issue back in export form.
func (i Issue) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(issueKeys))
	for k, v := range i.fields() {
		out[k] = v
	}
	if i.Watchers == nil {
		out["watchers"] = []Text{}
	}
	if i.Voters == nil {
		out["voters"] = json.RawMessage("[]")
	}
	return json.Marshal(out)
}

// decodeFields decodes each key of keys from raw into the matching
// destination and returns the keys that were not present.
func decodeFields(raw map[string]json.RawMessage, keys []string, dst map[string]any) ([]string, error) {
	var missing []string
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			missing = append(missing, key)
			continue
		}
		if err := json.Unmarshal(v, dst[key]); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
	}
	return missing, nil
}
