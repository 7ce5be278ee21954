package mec

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
	"github.com/strand-media/enricher/internal/normalisers/fieldmap"
)

func testConfig() *fieldmap.MappingConfig {
	cfg := &fieldmap.MappingConfig{
		NamespacePrefix: "org:studio",
		Identifiers: map[string]string{
			"guid": "-episode",
			"imdb": "imdb",
		},
		LocalisedInfo: fieldmap.LocalisedFields{
			TitleDisplay: "title",
			SummaryLong:  "synopsis",
		},
		People: fieldmap.PeopleFields{
			Fields: map[string]string{"actors": "Actor"},
		},
		Ratings: fieldmap.RatingsFields{
			Field: "ratings",
		},
		Custom: fieldmap.CustomBuckets{
			Genres: map[string]string{"genres": "org:studio:genres"},
		},
		SourceRecordIDField: "guid",
	}
	cfg.ApplyDefaults()
	return cfg
}

// TestNew_Validation tests constructor argument checks.
func TestNew_Validation(t *testing.T) {
	t.Run("requires source type", func(t *testing.T) {
		_, err := New("", Static(testConfig()))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("requires config source", func(t *testing.T) {
		_, err := New("studio-api", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMissingConfig)
	})

	t.Run("valid", func(t *testing.T) {
		n, err := New("studio-api", Static(testConfig()))
		require.NoError(t, err)
		assert.Equal(t, "studio-api", n.SourceType())
	})
}

// TestNormaliser_Normalise tests a clean record mapping end to end.
func TestNormaliser_Normalise(t *testing.T) {
	n, err := New("studio-api", Static(testConfig()))
	require.NoError(t, err)

	fetched := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	record := map[string]any{
		"title":    "The Long Quiet",
		"synopsis": "A lighthouse keeper rides out a winter storm.",
		"guid":     "EP-4471",
		"imdb":     "tt0944947",
		"actors": map[string]any{
			"actor": []any{
				map[string]any{"#text": "Jane Actor", "@order": "1"},
				map[string]any{"#text": "John Supporting", "@order": "2", "@guest": "true"},
			},
		},
		"ratings": map[string]any{
			"rating": map[string]any{"@system": "us-tv", "#text": "TV-14", "@reason": "V"},
		},
		"genres":  "Drama, Thriller",
		"runtime": "58",
	}

	doc, err := n.Normalise(context.Background(), driven.NormaliseInput{
		Record:        record,
		SourceSystem:  "studio-api",
		CorrelationID: "EP-4471",
		FetchedAt:     fetched,
	})
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "The Long Quiet", doc.LocalisedInfo.TitleDisplay)
	assert.Equal(t, "A lighthouse keeper rides out a winter storm.", doc.LocalisedInfo.SummaryLong)

	require.Len(t, doc.Identifiers, 2)
	assert.Equal(t, domain.Identifier{Namespace: "org:studio-episode", Identifier: "EP-4471"}, doc.Identifiers[0])
	assert.Equal(t, domain.Identifier{Namespace: "imdb", Identifier: "tt0944947"}, doc.Identifiers[1])

	require.Len(t, doc.Credits, 2)
	assert.Equal(t, "Jane Actor", doc.Credits[0].DisplayName)
	assert.Equal(t, "Actor", doc.Credits[0].Role)
	require.NotNil(t, doc.Credits[0].BillingBlockOrder)
	assert.Equal(t, 1, *doc.Credits[0].BillingBlockOrder)
	assert.False(t, doc.Credits[0].Guest)
	assert.Equal(t, "John Supporting", doc.Credits[1].DisplayName)
	assert.True(t, doc.Credits[1].Guest)

	require.Len(t, doc.Ratings, 1)
	assert.Equal(t, domain.Rating{Region: "US", System: "us-tv", Value: "TV-14", Reason: "V"}, doc.Ratings[0])

	assert.Equal(t, []string{"Drama", "Thriller"}, doc.Custom.Genres["org:studio:genres"])
	assert.Equal(t, "58", doc.Custom.Other["runtime"])
	assert.NotContains(t, doc.Custom.Other, "title")
	assert.NotContains(t, doc.Custom.Other, "guid")

	assert.Equal(t, "studio-api", doc.Attribution.SourceSystem)
	assert.Equal(t, fetched, doc.Attribution.FetchedAt)
	assert.Equal(t, "EP-4471", doc.Attribution.CorrelationID)
	assert.Equal(t, "EP-4471", doc.Attribution.SourceRecordID)
}

// TestNormaliser_Normalise_MinimalRecord tests the smallest record that
// still maps: a title and a single nested credit.
func TestNormaliser_Normalise_MinimalRecord(t *testing.T) {
	n, err := New("studio-api", Static(testConfig()))
	require.NoError(t, err)

	record := map[string]any{
		"title": "Episode 1",
		"actors": map[string]any{
			"actor": []any{
				map[string]any{"#text": "Jane Actor", "@order": "1"},
			},
		},
	}

	doc, err := n.Normalise(context.Background(), driven.NormaliseInput{
		Record:        record,
		SourceSystem:  "studio-api",
		CorrelationID: "ep-001",
		FetchedAt:     time.Now().UTC(),
	})
	require.NoError(t, err)

	assert.Equal(t, "Episode 1", doc.LocalisedInfo.TitleDisplay)
	require.Len(t, doc.Credits, 1)
	assert.Equal(t, "Jane Actor", doc.Credits[0].DisplayName)
	require.NotNil(t, doc.Credits[0].BillingBlockOrder)
	assert.Equal(t, 1, *doc.Credits[0].BillingBlockOrder)
	assert.Empty(t, doc.Identifiers)
	assert.Empty(t, doc.Ratings)
	assert.Equal(t, "", doc.Attribution.SourceRecordID)
}

// TestNormaliser_Normalise_Issues tests that mapper issues aggregate
// into a single NormalisationError and suppress the document.
func TestNormaliser_Normalise_Issues(t *testing.T) {
	n, err := New("studio-api", Static(testConfig()))
	require.NoError(t, err)

	record := map[string]any{
		"title": "Broken Record",
		"actors": map[string]any{
			"actor": map[string]any{"#text": "Jane Actor", "@order": "top billing"},
		},
		"ratings": map[string]any{
			"rating": map[string]any{"@system": "galactic", "#text": "G-7"},
		},
	}

	doc, err := n.Normalise(context.Background(), driven.NormaliseInput{
		Record:       record,
		SourceSystem: "studio-api",
	})
	require.Error(t, err)
	assert.Nil(t, doc)

	var normErr *domain.NormalisationError
	require.ErrorAs(t, err, &normErr)
	assert.Equal(t, "studio-api", normErr.SourceType)
	require.Len(t, normErr.Issues, 2)
	assert.Contains(t, normErr.Issues[0], "top billing")
	assert.Contains(t, normErr.Issues[1], "galactic")
}

// TestNormaliser_Normalise_ConfigError tests that a failing config
// source aborts normalisation.
func TestNormaliser_Normalise_ConfigError(t *testing.T) {
	boom := errors.New("mapping store offline")
	n, err := New("studio-api", ConfigSourceFunc(func(context.Context) (*fieldmap.MappingConfig, error) {
		return nil, boom
	}))
	require.NoError(t, err)

	doc, err := n.Normalise(context.Background(), driven.NormaliseInput{
		Record: map[string]any{"title": "x"},
	})
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "studio-api")
}

// TestNormaliser_Normalise_FreshConfig tests that the config source is
// consulted on every call, so reloads take effect between records.
func TestNormaliser_Normalise_FreshConfig(t *testing.T) {
	calls := 0
	n, err := New("studio-api", ConfigSourceFunc(func(context.Context) (*fieldmap.MappingConfig, error) {
		calls++
		return testConfig(), nil
	}))
	require.NoError(t, err)

	input := driven.NormaliseInput{Record: map[string]any{"title": "x"}, SourceSystem: "studio-api"}
	_, err = n.Normalise(context.Background(), input)
	require.NoError(t, err)
	_, err = n.Normalise(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
