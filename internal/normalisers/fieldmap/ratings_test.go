package fieldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strand-media/enricher/internal/core/domain"
)

func ratingsConfig(field string) *MappingConfig {
	cfg := &MappingConfig{Ratings: RatingsFields{Field: field}}
	cfg.ApplyDefaults()
	return cfg
}

// TestMapRatings_ElementConvention tests a wrapped list of rating entries
func TestMapRatings_ElementConvention(t *testing.T) {
	cfg := ratingsConfig("ratings")
	record := map[string]any{
		"ratings": map[string]any{
			"rating": []any{
				map[string]any{"@system": "mpaa", "#text": "PG-13", "@reason": "violence"},
				map[string]any{"@system": "bbfc", "#text": "12A"},
			},
		},
	}

	var issues Issues
	ratings := MapRatings(record, cfg, &issues)

	require.True(t, issues.Empty(), "issues: %v", issues.List())
	require.Len(t, ratings, 2)
	assert.Equal(t, domain.Rating{Region: "US", System: "mpaa", Value: "PG-13", Reason: "violence"}, ratings[0])
	assert.Equal(t, domain.Rating{Region: "GB", System: "bbfc", Value: "12A"}, ratings[1])
}

// TestMapRatings_SingleEntry tests an unwrapped single rating
func TestMapRatings_SingleEntry(t *testing.T) {
	cfg := ratingsConfig("rating")
	record := map[string]any{
		"rating": map[string]any{"@system": "us-tv", "#text": "TV-14"},
	}

	var issues Issues
	ratings := MapRatings(record, cfg, &issues)

	require.True(t, issues.Empty())
	require.Len(t, ratings, 1)
	assert.Equal(t, "us-tv", ratings[0].System)
	assert.Equal(t, "US", ratings[0].Region)
	assert.Equal(t, "TV-14", ratings[0].Value)
}

// TestMapRatings_Hierarchical tests level resolution, most specific first
func TestMapRatings_Hierarchical(t *testing.T) {
	cfg := ratingsConfig("ratings")
	episode := map[string]any{"@system": "us-tv", "#text": "TV-14"}
	series := map[string]any{"@system": "us-tv", "#text": "TV-PG"}

	t.Run("episode wins over series", func(t *testing.T) {
		record := map[string]any{
			"ratings": map[string]any{
				"episode": map[string]any{"rating": episode},
				"series":  map[string]any{"rating": series},
			},
		}

		var issues Issues
		ratings := MapRatings(record, cfg, &issues)

		require.Len(t, ratings, 1)
		assert.Equal(t, "TV-14", ratings[0].Value)
	})

	t.Run("falls through to series", func(t *testing.T) {
		record := map[string]any{
			"ratings": map[string]any{
				"series": map[string]any{"rating": series},
			},
		}

		var issues Issues
		ratings := MapRatings(record, cfg, &issues)

		require.Len(t, ratings, 1)
		assert.Equal(t, "TV-PG", ratings[0].Value)
	})
}

// TestMapRatings_CaseInsensitiveType tests the lookup normalises case
func TestMapRatings_CaseInsensitiveType(t *testing.T) {
	cfg := ratingsConfig("rating")
	record := map[string]any{
		"rating": map[string]any{"@system": "MPAA", "#text": "R"},
	}

	var issues Issues
	ratings := MapRatings(record, cfg, &issues)

	require.True(t, issues.Empty())
	require.Len(t, ratings, 1)
	assert.Equal(t, "mpaa", ratings[0].System)
}

// TestMapRatings_ConfiguredOverride tests custom systems over defaults
func TestMapRatings_ConfiguredOverride(t *testing.T) {
	cfg := &MappingConfig{Ratings: RatingsFields{
		Field: "rating",
		Systems: map[string]RatingSystem{
			"mpaa":  {System: "us-movie", Region: "US"},
			"house": {System: "house-internal", Region: "ZZ"},
		},
	}}
	cfg.ApplyDefaults()
	record := map[string]any{
		"rating": []any{
			map[string]any{"@system": "mpaa", "#text": "R"},
			map[string]any{"@system": "house", "#text": "H-18"},
			map[string]any{"@system": "bbfc", "#text": "15"},
		},
	}

	var issues Issues
	ratings := MapRatings(record, cfg, &issues)

	require.True(t, issues.Empty())
	require.Len(t, ratings, 3)
	assert.Equal(t, "us-movie", ratings[0].System)
	assert.Equal(t, "house-internal", ratings[1].System)
	// Defaults still available underneath the overrides.
	assert.Equal(t, "bbfc", ratings[2].System)
}

// TestMapRatings_Issues tests collection of malformed entries
func TestMapRatings_Issues(t *testing.T) {
	cfg := ratingsConfig("ratings")
	record := map[string]any{
		"ratings": map[string]any{
			"rating": []any{
				map[string]any{"#text": "TV-14"},
				map[string]any{"@system": "mpaa"},
				map[string]any{"@system": "galactic", "#text": "G-7"},
				map[string]any{"@system": "mpaa", "#text": "PG"},
			},
		},
	}

	var issues Issues
	ratings := MapRatings(record, cfg, &issues)

	require.Len(t, ratings, 1, "only the well-formed entry maps")
	assert.Equal(t, "PG", ratings[0].Value)

	list := issues.List()
	require.Len(t, list, 3)
	assert.Contains(t, list[0], "@system")
	assert.Contains(t, list[1], "no value")
	assert.Contains(t, list[2], "galactic")
}

// TestMapRatings_Unconfigured tests the disabled and absent paths
func TestMapRatings_Unconfigured(t *testing.T) {
	var issues Issues

	assert.Nil(t, MapRatings(map[string]any{"rating": "x"}, &MappingConfig{}, &issues))

	cfg := ratingsConfig("rating")
	assert.Nil(t, MapRatings(map[string]any{"title": "x"}, cfg, &issues))
	assert.True(t, issues.Empty())
}
