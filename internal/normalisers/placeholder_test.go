package normalisers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// TestPlaceholder_SourceType tests the fixed identifier.
func TestPlaceholder_SourceType(t *testing.T) {
	assert.Equal(t, "placeholder", Placeholder{}.SourceType())
}

// TestPlaceholder_Normalise tests the fallback mapping: candidate
// fields fill the title block, everything lands in the custom bucket.
func TestPlaceholder_Normalise(t *testing.T) {
	fetched := time.Date(2026, 5, 2, 16, 0, 0, 0, time.UTC)
	record := map[string]any{
		"title":    "Night Ferry",
		"synopsis": "Two strangers share the last crossing.",
		"guid":     "NF-883",
		"runtime":  float64(92),
	}

	doc, err := Placeholder{}.Normalise(context.Background(), driven.NormaliseInput{
		Record:        record,
		SourceSystem:  "restjson:apikey",
		CorrelationID: "NF-883",
		FetchedAt:     fetched,
	})
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "Night Ferry", doc.LocalisedInfo.TitleDisplay)
	assert.Equal(t, "Two strangers share the last crossing.", doc.LocalisedInfo.SummaryLong)

	require.Len(t, doc.Custom.Other, 4)
	assert.Equal(t, "Night Ferry", doc.Custom.Other["title"])
	assert.Equal(t, float64(92), doc.Custom.Other["runtime"])

	assert.Equal(t, "restjson:apikey", doc.Attribution.SourceSystem)
	assert.Equal(t, fetched, doc.Attribution.FetchedAt)
	assert.Equal(t, "NF-883", doc.Attribution.CorrelationID)
	assert.Equal(t, "NF-883", doc.Attribution.SourceRecordID)
}

// TestPlaceholder_CandidateOrder tests that earlier candidate fields
// win and later ones fill in when absent.
func TestPlaceholder_CandidateOrder(t *testing.T) {
	t.Run("title beats name", func(t *testing.T) {
		doc, err := Placeholder{}.Normalise(context.Background(), driven.NormaliseInput{
			Record: map[string]any{"title": "Primary", "name": "Secondary"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Primary", doc.LocalisedInfo.TitleDisplay)
	})

	t.Run("falls through to headline", func(t *testing.T) {
		doc, err := Placeholder{}.Normalise(context.Background(), driven.NormaliseInput{
			Record: map[string]any{"headline": "Last Resort"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Last Resort", doc.LocalisedInfo.TitleDisplay)
	})

	t.Run("numeric id coerced", func(t *testing.T) {
		doc, err := Placeholder{}.Normalise(context.Background(), driven.NormaliseInput{
			Record: map[string]any{"id": float64(42)},
		})
		require.NoError(t, err)
		assert.Equal(t, "42", doc.Attribution.SourceRecordID)
	})

	t.Run("blank candidate skipped", func(t *testing.T) {
		doc, err := Placeholder{}.Normalise(context.Background(), driven.NormaliseInput{
			Record: map[string]any{"title": "  ", "name": "Fallback"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Fallback", doc.LocalisedInfo.TitleDisplay)
	})
}

// TestPlaceholder_EmptyRecord tests that an empty record still yields
// a document with attribution.
func TestPlaceholder_EmptyRecord(t *testing.T) {
	doc, err := Placeholder{}.Normalise(context.Background(), driven.NormaliseInput{
		Record:       map[string]any{},
		SourceSystem: "restxml:basic",
	})
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Empty(t, doc.LocalisedInfo.TitleDisplay)
	assert.Nil(t, doc.Custom.Other)
	assert.True(t, doc.Custom.Empty())
	assert.Equal(t, "restxml:basic", doc.Attribution.SourceSystem)
}
