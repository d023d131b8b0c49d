package catalog

import (
	"github.com/angsant/trabalho-2-bd-2/pkg/records"
)

// buildLookup keys a table by the string form of the named field. Records
// lacking the field are skipped; on duplicate keys the last record wins.
func buildLookup(tbl records.Table, keyField string) map[string]records.Record {
	lookup := make(map[string]records.Record, len(tbl))

	for _, rec := range tbl {
		key, ok := rec[keyField]
		if !ok {
			continue
		}
		lookup[records.StringForm(key)] = rec
	}

	return lookup
}

// buildNameLookup maps the string form of the key field to the string form
// of the name field.
func buildNameLookup(tbl records.Table, keyField, nameField string) map[string]string {
	lookup := make(map[string]string, len(tbl))

	for _, rec := range tbl {
		key, ok := rec[keyField]
		if !ok {
			continue
		}

		name, ok := rec[nameField]
		if !ok {
			continue
		}

		lookup[records.StringForm(key)] = records.StringForm(name)
	}

	return lookup
}
