// Package records models the loosely typed documents that the catalog reads
// from its backing store, and the identifier normalization and filter
// matching rules that every reader shares.
package records

import (
	"fmt"
	"math"
	"strconv"
)

const (
	// IDField is the canonical identifier field on a normalized record.
	IDField = "id"
	// InternalIDField holds the backing store's own row identifier.
	InternalIDField = "_id"
)

// Record is a single document: field names mapped to whatever the store
// returned. No schema is enforced.
type Record map[string]any

// Table is an ordered sequence of records, display ready after normalization.
type Table []Record

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// HasField reports whether any record in the table carries the named field.
func (t Table) HasField(name string) bool {
	for _, r := range t {
		if _, ok := r[name]; ok {
			return true
		}
	}
	return false
}

// StringForm converts an arbitrary field value to its canonical string form.
// Integral floats render without a decimal part, since JSON decoding turns
// every stored number into a float64.
func StringForm(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		// only render as an integer while float64 can still represent
		// integers exactly; beyond that int64 conversion would wrap
		if value == math.Trunc(value) && math.Abs(value) < 1<<53 {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return StringForm(float64(value))
	case int:
		return strconv.Itoa(value)
	case int32:
		return strconv.FormatInt(int64(value), 10)
	case int64:
		return strconv.FormatInt(value, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Normalize turns raw scan results into a table where every record holds a
// canonical string identifier. The identifier is derived with priority:
// existing id field, the store's internal id, and finally the record's
// position in the sequence. The input records are left untouched.
func Normalize(recs []Record) Table {
	if len(recs) == 0 {
		return Table{}
	}

	t := make(Table, 0, len(recs))

	for idx, rec := range recs {
		r := rec.Clone()

		if _, ok := r[IDField]; !ok {
			if internal, ok := r[InternalIDField]; ok {
				r[IDField] = StringForm(internal)
			} else {
				r[IDField] = strconv.Itoa(idx)
			}
		}

		r[IDField] = StringForm(r[IDField])

		t = append(t, r)
	}

	return t
}

// FieldFilter matches records whose named field equals a value in any of its
// three forms: the value as given, its string form, and (when the string
// form is all digits) its integer form.
type FieldFilter struct {
	Field string
	Value any
}

// Matches reports whether the record's field equals any form of the filter
// value. Records lacking the field never match.
func (f FieldFilter) Matches(r Record) bool {
	stored, ok := r[f.Field]
	if !ok {
		return false
	}

	for _, candidate := range f.candidates() {
		if looseEqual(stored, candidate) {
			return true
		}
	}

	return false
}

// Apply filters a record sequence, returning the records that match. A nil
// filter matches everything.
func (f *FieldFilter) Apply(recs []Record) []Record {
	if f == nil {
		return recs
	}

	matched := make([]Record, 0, len(recs))
	for _, r := range recs {
		if f.Matches(r) {
			matched = append(matched, r)
		}
	}

	return matched
}

func (f FieldFilter) candidates() []any {
	s := StringForm(f.Value)
	c := []any{f.Value, s}

	if n, ok := digitsToInt(s); ok {
		c = append(c, n)
	}

	return c
}

func digitsToInt(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}

	return n, true
}

func looseEqual(stored, candidate any) bool {
	if sn, ok := asNumber(stored); ok {
		if cn, ok := asNumber(candidate); ok {
			return sn == cn
		}
		return false
	}

	if ss, ok := stored.(string); ok {
		cs, ok := candidate.(string)
		return ok && ss == cs
	}

	return stored == candidate
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Project reduces each record to the requested fields. Fields a record does
// not have are simply absent from the projection.
func Project(recs []Record, fields []string) []Record {
	if len(fields) == 0 {
		return recs
	}

	projected := make([]Record, 0, len(recs))

	for _, r := range recs {
		p := make(Record, len(fields))
		for _, f := range fields {
			if v, ok := r[f]; ok {
				p[f] = v
			}
		}
		projected = append(projected, p)
	}

	return projected
}
