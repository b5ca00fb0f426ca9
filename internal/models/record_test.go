package models

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	r := NewRecord([]string{"callNumber", "location"}, []string{"A1", "Main St"})

	v, ok := r.Get("location")
	assert.True(t, ok)
	assert.Equal(t, "Main St", v)
	assert.Equal(t, "A1", r.CallNumber())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRecordFieldsKeepHeaderOrder(t *testing.T) {
	header := []string{"title", "callNumber", "title", "year"}
	r := NewRecord(header, []string{"first", "QA76", "second", "1999"})

	fields := r.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, Field{Name: "title", Value: "second"}, fields[0])
	assert.Equal(t, Field{Name: "callNumber", Value: "QA76"}, fields[1])
	assert.Equal(t, Field{Name: "year", Value: "1999"}, fields[2])
}

func TestCollectionFieldNamesMatchRecordFields(t *testing.T) {
	header := []string{"callNumber", "title", "title"}
	col := &Collection{
		Header:  header,
		Records: []*Record{NewRecord(header, []string{"QA76", "first", "second"})},
	}

	assert.Equal(t, []string{"callNumber", "title"}, col.FieldNames())
	var names []string
	for _, f := range col.Records[0].Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, col.FieldNames(), names)

	var empty *Collection
	assert.Nil(t, empty.FieldNames())
}

func TestFindByCallNumber(t *testing.T) {
	header := []string{"callNumber", "location"}
	col := &Collection{
		Header: header,
		Records: []*Record{
			NewRecord(header, []string{"A1", "Main St"}),
			NewRecord(header, []string{"B2", "2nd Ave"}),
			NewRecord(header, []string{"A1", "duplicate"}),
		},
	}

	tests := []struct {
		id           string
		wantLocation string
		wantNil      bool
	}{
		{id: "A1", wantLocation: "Main St"},
		{id: "B2", wantLocation: "2nd Ave"},
		{id: "C3", wantNil: true},
		{id: "a1", wantNil: true},
		{id: "", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			r := col.FindByCallNumber(tt.id)
			if tt.wantNil {
				assert.Nil(t, r)
				return
			}
			require.NotNil(t, r)
			loc, _ := r.Get("location")
			assert.Equal(t, tt.wantLocation, loc)
		})
	}
}

func TestFindByCallNumberWithoutColumn(t *testing.T) {
	header := []string{"title"}
	col := &Collection{Header: header, Records: []*Record{NewRecord(header, []string{""})}}

	assert.Nil(t, col.FindByCallNumber(""))
	assert.Equal(t, 0, (*Collection)(nil).Len())
}

func TestNewCharsetReader(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		charset string
		want    string
	}{
		{name: "utf8 passthrough", input: []byte("Straße"), charset: "utf-8", want: "Straße"},
		{name: "utf8 bom stripped", input: []byte("\xef\xbb\xbfcallNumber"), charset: "UTF8", want: "callNumber"},
		{name: "latin1", input: []byte("Stra\xdfe"), charset: "latin1", want: "Straße"},
		{name: "empty charset means utf8", input: []byte("plain"), charset: "", want: "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewCharsetReader(strings.NewReader(string(tt.input)), tt.charset)
			require.NoError(t, err)
			out, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestNewCharsetReaderUnsupported(t *testing.T) {
	_, err := NewCharsetReader(strings.NewReader(""), "klingon-8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported charset")
}
