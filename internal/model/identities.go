package model

// Identity is a user name referenced by a document and how often it occurs.
type Identity struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Identities lists every non-null user name referenced by the issues
// (assignee, reporter, watchers) and comments of d, in order of first
// appearance.
func (d *Document) Identities() []Identity {
	var out []Identity
	index := make(map[string]int)

	add := func(t Text) {
		if !t.Valid {
			return
		}
		if i, ok := index[t.Value]; ok {
			out[i].Count++
			return
		}
		index[t.Value] = len(out)
		out = append(out, Identity{Name: t.Value, Count: 1})
	}

	for _, issue := range d.Issues {
		add(issue.Assignee)
		add(issue.Reporter)
		for _, w := range issue.Watchers {
			add(w)
		}
	}
	for _, c := range d.Comments {
		add(c.User)
	}
	return out
}

// MergeIdentities combines identity lists from several documents, keeping
// first-appearance order and summing counts.
func MergeIdentities(lists ...[]Identity) []Identity {
	var out []Identity
	index := make(map[string]int)
	for _, list := range lists {
		for _, id := range list {
			if i, ok := index[id.Name]; ok {
				out[i].Count += id.Count
				continue
			}
			index[id.Name] = len(out)
			out = append(out, id)
		}
	}
	return out
}
