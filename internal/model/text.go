package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
)

// Text is a nullable scalar field of a Bitbucket export. Exports are loosely
// typed: most fields are strings, but any of them may be null, and a few
// (versions, components) show up as numbers in older exports.
type Text struct {
	Value string
	Valid bool
}

// T returns a valid Text holding s.
func T(s string) Text {
	return Text{Value: s, Valid: true}
}

// String converts the field to text. Null becomes the empty string.
func (t Text) String() string {
	if !t.Valid {
		return ""
	}
	return t.Value
}

// UnmarshalJSON accepts any JSON value. Strings are taken verbatim, other
// scalars keep their JSON literal form and composite values are compacted.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}

	switch data[0] {
	case 'n':
		*t = Text{}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = T(s)
		return nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*t = T(buf.String())
		return nil
	default:
		if !json.Valid(data) {
			return fmt.Errorf("invalid value %q", data)
		}
		*t = T(string(data))
		return nil
	}
}

// MarshalJSON writes null for an invalid Text and a JSON string otherwise.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

// ID is the opaque identifier of an issue. It keeps the compact JSON literal
// it was decoded from, so the number 1 and the string "1" are different IDs.
// Numbers are kept in canonical form, so 1, 1.0 and 1e0 are the same ID.
type ID struct {
	raw string
}

// IntID returns the ID for a numeric identifier.
func IntID(n int) ID {
	return ID{raw: fmt.Sprintf("%d", n)}
}

// StringID returns the ID for a string identifier.
func StringID(s string) ID {
	b, _ := json.Marshal(s)
	return ID{raw: string(b)}
}

// IsZero reports whether the ID was never set.
func (id ID) IsZero() bool {
	return id.raw == ""
}

// String returns the identifier for display. String identifiers are unquoted.
func (id ID) String() string {
	if len(id.raw) > 0 && id.raw[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(id.raw), &s); err == nil {
			return s
		}
	}
	return id.raw
}

// UnmarshalJSON stores the compact form of any JSON value.
func (id *ID) UnmarshalJSON(data []byte) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	id.raw = buf.String()
	if c := id.raw[0]; c == '-' || (c >= '0' && c <= '9') {
		id.raw = canonicalNumber(id.raw)
	}
	return nil
}

// canonicalNumber rewrites a JSON number as an integer or as the shortest
// exact decimal. JSON numbers are decimal, so the value always has one.
func canonicalNumber(lit string) string {
	r, ok := new(big.Rat).SetString(lit)
	if !ok {
		return lit
	}
	if r.IsInt() {
		return r.Num().String()
	}

	// The denominator is 2^a * 5^b; max(a, b) digits are exact.
	d := new(big.Int).Set(r.Denom())
	twos := int(d.TrailingZeroBits())
	d.Rsh(d, uint(twos))
	fives := 0
	five := big.NewInt(5)
	q, m := new(big.Int), new(big.Int)
	for d.Cmp(big.NewInt(1)) > 0 {
		q.DivMod(d, five, m)
		if m.Sign() != 0 {
			return lit
		}
		d.Set(q)
		fives++
	}
	return r.FloatString(max(twos, fives))
}

// MarshalJSON writes the identifier back as the JSON literal it was read from.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.raw == "" {
		return []byte("null"), nil
	}
	return []byte(id.raw), nil
}
