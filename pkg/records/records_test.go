package records

import (
	"strconv"
	"testing"

	"github.com/matryer/is"
)

func TestNormalizeEmptyInput(t *testing.T) {
	is := is.New(t)

	is.Equal(len(Normalize(nil)), 0)
	is.Equal(len(Normalize([]Record{})), 0)
}

func TestNormalizePromotesInternalID(t *testing.T) {
	is := is.New(t)

	tbl := Normalize([]Record{
		{InternalIDField: "65f1c0ffee", "name": "Alpha"},
		{InternalIDField: float64(42), "name": "Beta"},
	})

	is.Equal(tbl[0][IDField], "65f1c0ffee")
	is.Equal(tbl[1][IDField], "42")
}

func TestNormalizeCoercesExistingIDToString(t *testing.T) {
	is := is.New(t)

	tbl := Normalize([]Record{
		{IDField: float64(7)},
		{IDField: "F1"},
	})

	is.Equal(tbl[0][IDField], "7")
	is.Equal(tbl[1][IDField], "F1")
}

func TestNormalizeFallsBackToRowIndex(t *testing.T) {
	is := is.New(t)

	tbl := Normalize([]Record{
		{"name": "no identifiers at all"},
		{"name": "second"},
	})

	is.Equal(tbl[0][IDField], "0")
	is.Equal(tbl[1][IDField], "1")
}

func TestNormalizeIsIdempotent(t *testing.T) {
	is := is.New(t)

	once := Normalize([]Record{
		{InternalIDField: "abc", "name": "Alpha"},
		{IDField: float64(3), "name": "Beta"},
	})
	twice := Normalize(once)

	is.Equal(len(once), len(twice))
	for i := range once {
		is.Equal(once[i], twice[i])
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	is := is.New(t)

	raw := []Record{{InternalIDField: "abc"}}
	Normalize(raw)

	_, hasID := raw[0][IDField]
	is.True(!hasID) // source record must stay untouched
}

func TestFieldFilterMatchesAllThreeForms(t *testing.T) {
	is := is.New(t)

	f := FieldFilter{Field: "franchise_id", Value: "7"}

	is.True(f.Matches(Record{"franchise_id": float64(7)})) // stored as number
	is.True(f.Matches(Record{"franchise_id": "7"}))        // stored as string
	is.True(!f.Matches(Record{"franchise_id": "seven"}))
	is.True(!f.Matches(Record{"franchise_id": "007"}))
	is.True(!f.Matches(Record{"other_field": "7"}))
}

func TestFieldFilterNumericValue(t *testing.T) {
	is := is.New(t)

	f := FieldFilter{Field: "franchise_id", Value: 7}

	is.True(f.Matches(Record{"franchise_id": float64(7)}))
	is.True(f.Matches(Record{"franchise_id": "7"}))
	is.True(!f.Matches(Record{"franchise_id": float64(8)}))
}

func TestFieldFilterOpaqueIDNeverAttemptsIntegerForm(t *testing.T) {
	is := is.New(t)

	f := FieldFilter{Field: "franchise_id", Value: "65f1c0ffee"}

	is.True(f.Matches(Record{"franchise_id": "65f1c0ffee"}))
	is.True(!f.Matches(Record{"franchise_id": "65f1"}))
}

func TestFieldFilterApply(t *testing.T) {
	is := is.New(t)

	recs := []Record{
		{"franchise_id": "F1", "name": "a"},
		{"franchise_id": "F2", "name": "b"},
		{"name": "c"},
	}

	f := &FieldFilter{Field: "franchise_id", Value: "F1"}
	is.Equal(len(f.Apply(recs)), 1)

	var nilFilter *FieldFilter
	is.Equal(len(nilFilter.Apply(recs)), 3)
}

func TestStringForm(t *testing.T) {
	is := is.New(t)

	is.Equal(StringForm("x"), "x")
	is.Equal(StringForm(float64(12)), "12")
	is.Equal(StringForm(float64(1.5)), "1.5")
	is.Equal(StringForm(int64(9)), "9")
	is.Equal(StringForm(nil), "")
}

func TestStringFormHugeFloatsDoNotWrap(t *testing.T) {
	is := is.New(t)

	is.Equal(StringForm(1e300), strconv.FormatFloat(1e300, 'f', -1, 64))
	is.Equal(StringForm(-1e300), strconv.FormatFloat(-1e300, 'f', -1, 64))
	is.Equal(StringForm(float64(1<<53-1)), "9007199254740991")
}

func TestProject(t *testing.T) {
	is := is.New(t)

	recs := []Record{
		{"id": "I1", "name": "Ana", "species": "human"},
		{"id": "I2", "species": "droid"},
	}

	p := Project(recs, []string{"id", "name"})

	is.Equal(len(p), 2)
	is.Equal(p[0], Record{"id": "I1", "name": "Ana"})
	is.Equal(p[1], Record{"id": "I2"})
}

func TestTableHasField(t *testing.T) {
	is := is.New(t)

	tbl := Table{{"id": "1"}, {"id": "2", "franchise_id": "F1"}}

	is.True(tbl.HasField("franchise_id"))
	is.True(!tbl.HasField("commander_id"))
}
