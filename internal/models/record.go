// Package models contains the data types shared by the loaders and the web layer
package models

// CallNumberField is the column used to select a single record
const CallNumberField = "callNumber"

// Record is one row of the source table as field name -> value.
// Header keeps the column order of the source so pages can list
// fields the way they appear in the file.
type Record struct {
	Header []string
	Values map[string]string
}

// Field is a name/value pair in column order
type Field struct {
	Name  string
	Value string
}

// Collection is the ordered list of records read from one source
type Collection struct {
	Header  []string
	Records []*Record
}

// NewRecord builds a record from a header and the matching row cells.
// Duplicate header names keep the last cell.
func NewRecord(header []string, row []string) *Record {
	r := &Record{
		Header: header,
		Values: make(map[string]string, len(header)),
	}
	for i, name := range header {
		if i < len(row) {
			r.Values[name] = row[i]
		} else {
			r.Values[name] = ""
		}
	}
	return r
}

// Get returns the value of a field and whether the field exists
func (r *Record) Get(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r.Values[name]
	return v, ok
}

// CallNumber returns the lookup key of the record ("" if the column is absent)
func (r *Record) CallNumber() string {
	v, _ := r.Get(CallNumberField)
	return v
}

// Fields returns the record's fields in header order, each name once
func (r *Record) Fields() []Field {
	if r == nil {
		return nil
	}
	names := uniqueNames(r.Header)
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{Name: name, Value: r.Values[name]})
	}
	return fields
}

// uniqueNames drops repeated header names, keeping the first position
func uniqueNames(header []string) []string {
	seen := make(map[string]bool, len(header))
	names := make([]string, 0, len(header))
	for _, name := range header {
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Len returns the number of records
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}

// FieldNames returns the column names the way Record.Fields orders them
func (c *Collection) FieldNames() []string {
	if c == nil {
		return nil
	}
	return uniqueNames(c.Header)
}

// FindByCallNumber scans the records in order and returns the first one
// whose callNumber equals id, or nil.
func (c *Collection) FindByCallNumber(id string) *Record {
	if c == nil {
		return nil
	}
	for _, r := range c.Records {
		if v, ok := r.Get(CallNumberField); ok && v == id {
			return r
		}
	}
	return nil
}
