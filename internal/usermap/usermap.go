// Package usermap translates Bitbucket usernames into Redmine logins.
//
// A Mapper is built once per run from an optional mapping source and is safe
// for concurrent use: it is never modified after construction. Without a
// source every name maps to itself. With a source, names missing from the
// table are handled according to the Mapper's Policy.
package usermap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ALT-F4-LLC/bbredmine/internal/db"
	"github.com/ALT-F4-LLC/bbredmine/internal/failure"
	"github.com/ALT-F4-LLC/bbredmine/internal/model"
)

// Policy decides what happens when a name is absent from the mapping table.
type Policy int

const (
	// Permissive maps unknown names to the empty string, leaving the
	// Redmine field blank.
	Permissive Policy = iota
	// Strict fails with failure.ErrIdentityLookup on unknown names.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "permissive"
}

// Mapper resolves source identities to destination identities.
type Mapper struct {
	table  map[string]string
	order  []string
	policy Policy
}

// Identity returns a Mapper that maps every name to itself.
func Identity() *Mapper {
	return &Mapper{}
}

// New builds a Mapper from mappings. When a source appears more than once the
// last destination wins.
func New(mappings []model.UserMapping, policy Policy) *Mapper {
	m := &Mapper{
		table:  make(map[string]string, len(mappings)),
		policy: policy,
	}
	for _, um := range mappings {
		if _, seen := m.table[um.Source]; !seen {
			m.order = append(m.order, um.Source)
		}
		m.table[um.Source] = um.Destination
	}
	return m
}

// IsIdentity reports whether the Mapper was built without a mapping table.
func (m *Mapper) IsIdentity() bool {
	return m.table == nil
}

// Policy returns the policy applied to unknown names.
func (m *Mapper) Policy() Policy {
	return m.policy
}

// Len returns the number of distinct source names in the table.
func (m *Mapper) Len() int {
	return len(m.table)
}

// Mappings returns the table in first-seen source order.
func (m *Mapper) Mappings() []model.UserMapping {
	out := make([]model.UserMapping, 0, len(m.order))
	for _, src := range m.order {
		out = append(out, model.UserMapping{Source: src, Destination: m.table[src]})
	}
	return out
}

// Has reports whether name has an entry in the table. An identity Mapper has
// an entry for every name.
func (m *Mapper) Has(name string) bool {
	if m.IsIdentity() {
		return true
	}
	_, ok := m.table[name]
	return ok
}

// Lookup returns the destination identity for name.
func (m *Mapper) Lookup(name string) (string, error) {
	if m.IsIdentity() {
		return name, nil
	}
	if dst, ok := m.table[name]; ok {
		return dst, nil
	}
	if m.policy == Strict {
		return "", failure.New(failure.ErrIdentityLookup, "user %q has no entry in the user map", name)
	}
	return "", nil
}

// Resolve looks up a nullable identity field. A null identity resolves to
// the empty string under every policy.
func (m *Mapper) Resolve(t model.Text) (string, error) {
	if !t.Valid {
		return "", nil
	}
	return m.Lookup(t.Value)
}

// ReadMappings parses a two-column CSV mapping with no header row. Spaces
// after the comma are ignored and a leading UTF-8 byte order mark is dropped.
func ReadMappings(r io.Reader) ([]model.UserMapping, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var mappings []model.UserMapping
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, failure.Wrap(failure.ErrMalformedInput, err, "reading user map")
		}
		if len(mappings) == 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
		}
		mappings = append(mappings, model.UserMapping{Source: rec[0], Destination: rec[1]})
	}
	return mappings, nil
}

// Parse builds a Mapper from a CSV mapping.
func Parse(r io.Reader, policy Policy) (*Mapper, error) {
	mappings, err := ReadMappings(r)
	if err != nil {
		return nil, err
	}
	return New(mappings, policy), nil
}

// IsStore reports whether path names a SQLite mapping store rather than a
// CSV file, judged by its extension.
func IsStore(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Load builds a Mapper from the mapping at path: a SQLite store created by
// "usermap import" or a CSV file. An empty path yields the identity Mapper.
func Load(path string, policy Policy) (*Mapper, error) {
	if path == "" {
		return Identity(), nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, failure.WithPath(failure.Wrap(failure.ErrInputNotFound, err, "opening user map"), path)
		}
		return nil, failure.WithPath(failure.Wrap(failure.ErrMalformedInput, err, "opening user map"), path)
	}

	var (
		mappings []model.UserMapping
		err      error
	)
	if IsStore(path) {
		mappings, err = loadStore(path)
	} else {
		mappings, err = loadCSV(path)
	}
	if err != nil {
		return nil, failure.WithPath(err, path)
	}
	return New(mappings, policy), nil
}

func loadCSV(path string) ([]model.UserMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, failure.Wrap(failure.ErrMalformedInput, err, "opening user map")
	}
	defer f.Close()
	return ReadMappings(f)
}

func loadStore(path string) ([]model.UserMapping, error) {
	conn, err := db.OpenReadOnly(path)
	if err != nil {
		return nil, failure.Wrap(failure.ErrMalformedInput, err, "opening user map store")
	}
	defer conn.Close()

	if _, err := db.SchemaVersion(conn); err != nil {
		return nil, failure.Wrap(failure.ErrMalformedInput, err, "not a user map store")
	}
	mappings, err := db.ListUserMap(conn)
	if err != nil {
		return nil, failure.Wrap(failure.ErrMalformedInput, err, "reading user map store")
	}
	return mappings, nil
}

// SaveStore writes mappings to the SQLite store at path, creating it if
// needed and replacing any mappings it already holds. It returns the number
// of distinct sources stored.
func SaveStore(path string, mappings []model.UserMapping) (int, error) {
	conn, err := db.Open(path)
	if err != nil {
		return 0, failure.WithPath(failure.Wrap(failure.ErrIOWrite, err, "opening user map store"), path)
	}
	defer conn.Close()

	if err := db.Initialize(conn); err != nil {
		return 0, failure.WithPath(failure.Wrap(failure.ErrIOWrite, err, "initializing user map store"), path)
	}
	n, err := db.ReplaceUserMap(conn, mappings)
	if err != nil {
		return 0, failure.WithPath(failure.Wrap(failure.ErrIOWrite, err, "storing user map"), path)
	}
	if err := db.Seal(conn); err != nil {
		return 0, failure.WithPath(failure.Wrap(failure.ErrIOWrite, err, "storing user map"), path)
	}
	return n, nil
}

// WriteTemplate writes a CSV mapping in which every name maps to itself,
// ready to be edited into a real user map.
func WriteTemplate(w io.Writer, names []string) error {
	cw := csv.NewWriter(w)
	for _, n := range names {
		if err := cw.Write([]string{n, n}); err != nil {
			return failure.Wrap(failure.ErrIOWrite, err, "writing user map template")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return failure.Wrap(failure.ErrIOWrite, err, "writing user map template")
	}
	return nil
}

// Describe returns a short human description of the Mapper's source.
func (m *Mapper) Describe() string {
	if m.IsIdentity() {
		return "identity (no user map)"
	}
	return fmt.Sprintf("%d user(s), %s", m.Len(), m.policy)
}
