package model

// UserMapping is one row of an identity map: a Bitbucket username and the
// Redmine login it becomes.
type UserMapping struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}
