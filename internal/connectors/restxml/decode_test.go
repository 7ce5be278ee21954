package restxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecode_TextOnlyElements tests that leaf elements become plain strings
func TestDecode_TextOnlyElements(t *testing.T) {
	doc, err := Decode([]byte(`<movie><title>Night Train</title><year>2019</year></movie>`))

	require.NoError(t, err)
	movie := doc["movie"].(map[string]any)
	assert.Equal(t, "Night Train", movie["title"])
	assert.Equal(t, "2019", movie["year"])
}

// TestDecode_AttributesAndText tests the @attr / #text convention
func TestDecode_AttributesAndText(t *testing.T) {
	doc, err := Decode([]byte(`<actor order="1" guest="true">Jane Actor</actor>`))

	require.NoError(t, err)
	actor := doc["actor"].(map[string]any)
	assert.Equal(t, "1", actor["@order"])
	assert.Equal(t, "true", actor["@guest"])
	assert.Equal(t, "Jane Actor", actor["#text"])
}

// TestDecode_RepeatedSiblings tests promotion to a list on repetition
func TestDecode_RepeatedSiblings(t *testing.T) {
	doc, err := Decode([]byte(`<actors>
		<actor order="1">Jane Actor</actor>
		<actor order="2">John Smith</actor>
		<actor order="3">Ana Lopez</actor>
	</actors>`))

	require.NoError(t, err)
	actors := doc["actors"].(map[string]any)
	list, ok := actors["actor"].([]any)
	require.True(t, ok, "repeated siblings should become a list")
	require.Len(t, list, 3)

	first := list[0].(map[string]any)
	assert.Equal(t, "Jane Actor", first["#text"])
	assert.Equal(t, "1", first["@order"])
	assert.Equal(t, "Ana Lopez", list[2].(map[string]any)["#text"])
}

// TestDecode_SingleChildStaysScalar tests that one child is not wrapped in a list
func TestDecode_SingleChildStaysScalar(t *testing.T) {
	doc, err := Decode([]byte(`<actors><actor>Jane Actor</actor></actors>`))

	require.NoError(t, err)
	actors := doc["actors"].(map[string]any)
	_, isList := actors["actor"].([]any)
	assert.False(t, isList)
	assert.Equal(t, "Jane Actor", actors["actor"])
}

// TestDecode_NestedStructure tests deep nesting with mixed conventions
func TestDecode_NestedStructure(t *testing.T) {
	doc, err := Decode([]byte(`<?xml version="1.0" encoding="UTF-8"?>
	<record id="tt0111161">
		<titles>
			<title lang="en">Night Train</title>
			<title lang="de">Nachtzug</title>
		</titles>
		<runtime unit="minutes">96</runtime>
	</record>`))

	require.NoError(t, err)
	record := doc["record"].(map[string]any)
	assert.Equal(t, "tt0111161", record["@id"])

	titles := record["titles"].(map[string]any)
	list := titles["title"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "Nachtzug", list[1].(map[string]any)["#text"])
	assert.Equal(t, "de", list[1].(map[string]any)["@lang"])

	runtime := record["runtime"].(map[string]any)
	assert.Equal(t, "96", runtime["#text"])
	assert.Equal(t, "minutes", runtime["@unit"])
}

// TestDecode_EmptyElement tests that an empty leaf decodes to ""
func TestDecode_EmptyElement(t *testing.T) {
	doc, err := Decode([]byte(`<movie><tagline/></movie>`))

	require.NoError(t, err)
	movie := doc["movie"].(map[string]any)
	assert.Equal(t, "", movie["tagline"])
}

// TestDecode_WhitespaceAroundText tests trimming of formatting whitespace
func TestDecode_WhitespaceAroundText(t *testing.T) {
	doc, err := Decode([]byte("<movie><title>\n\t  Night Train  \n</title></movie>"))

	require.NoError(t, err)
	movie := doc["movie"].(map[string]any)
	assert.Equal(t, "Night Train", movie["title"])
}

// TestDecode_Malformed tests rejection of broken documents
func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty input", body: ""},
		{name: "truncated element", body: "<movie><title>Night"},
		{name: "mismatched tags", body: "<movie><title>x</movie></title>"},
		{name: "not XML at all", body: `{"title":"Night Train"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

// TestDecode_EntityEscapes tests builtin entity handling
func TestDecode_EntityEscapes(t *testing.T) {
	doc, err := Decode([]byte(`<movie><title>Fast &amp; Loose &lt;uncut&gt;</title></movie>`))

	require.NoError(t, err)
	movie := doc["movie"].(map[string]any)
	assert.Equal(t, "Fast & Loose <uncut>", movie["title"])
}
