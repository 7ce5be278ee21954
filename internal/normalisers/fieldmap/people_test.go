package fieldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func peopleConfig(fields map[string]string) *MappingConfig {
	cfg := &MappingConfig{People: PeopleFields{Fields: fields}}
	cfg.ApplyDefaults()
	return cfg
}

// TestMapPeople_ElementConvention tests the container-wrapped entry shape
func TestMapPeople_ElementConvention(t *testing.T) {
	cfg := peopleConfig(map[string]string{"actors": "actor"})
	record := map[string]any{
		"actors": map[string]any{
			"actor": []any{
				map[string]any{"#text": "Jane Actor", "@order": "2"},
				map[string]any{"#text": "John Smith", "@order": "1"},
			},
		},
	}

	var issues Issues
	credits := MapPeople(record, cfg, &issues)

	require.True(t, issues.Empty())
	require.Len(t, credits, 2)
	assert.Equal(t, "John Smith", credits[0].DisplayName)
	require.NotNil(t, credits[0].BillingBlockOrder)
	assert.Equal(t, 1, *credits[0].BillingBlockOrder)
	assert.Equal(t, "Jane Actor", credits[1].DisplayName)
	assert.Equal(t, "actor", credits[1].Role)
}

// TestMapPeople_SingleEntry tests that one unrepeated entry still maps
func TestMapPeople_SingleEntry(t *testing.T) {
	cfg := peopleConfig(map[string]string{"actors": "actor"})
	record := map[string]any{
		"actors": map[string]any{
			"actor": map[string]any{"#text": "Jane Actor", "@order": "1"},
		},
	}

	var issues Issues
	credits := MapPeople(record, cfg, &issues)

	require.Len(t, credits, 1)
	assert.Equal(t, "Jane Actor", credits[0].DisplayName)
	require.NotNil(t, credits[0].BillingBlockOrder)
	assert.Equal(t, 1, *credits[0].BillingBlockOrder)
}

// TestMapPeople_PlainStrings tests string entries and string lists
func TestMapPeople_PlainStrings(t *testing.T) {
	cfg := peopleConfig(map[string]string{
		"director": "director",
		"writers":  "writer",
	})
	record := map[string]any{
		"director": "Sam Director",
		"writers":  []any{"Ann Writer", "Bob Writer"},
	}

	var issues Issues
	credits := MapPeople(record, cfg, &issues)

	require.Len(t, credits, 3)
	// No billing orders, so roles decide the order.
	assert.Equal(t, "Sam Director", credits[0].DisplayName)
	assert.Equal(t, "director", credits[0].Role)
	assert.Equal(t, "writer", credits[1].Role)
	assert.Nil(t, credits[0].BillingBlockOrder)
}

// TestMapPeople_ComposedName tests first/last name composition
func TestMapPeople_ComposedName(t *testing.T) {
	cfg := &MappingConfig{People: PeopleFields{
		Fields:         map[string]string{"cast": "actor"},
		NameField:      "display_name",
		FirstNameField: "first_name",
		LastNameField:  "last_name",
		OrderAttribute: "billing",
	}}
	cfg.ApplyDefaults()
	record := map[string]any{
		"cast": []any{
			map[string]any{"first_name": "Jane", "last_name": "Actor", "billing": float64(1)},
			map[string]any{"display_name": "Mononym", "billing": float64(2)},
			map[string]any{"first_name": "Solo"},
		},
	}

	var issues Issues
	credits := MapPeople(record, cfg, &issues)

	require.Len(t, credits, 3)
	assert.Equal(t, "Jane Actor", credits[0].DisplayName)
	assert.Equal(t, "Mononym", credits[1].DisplayName)
	assert.Equal(t, "Solo", credits[2].DisplayName)
}

// TestMapPeople_UnknownFallback tests the display name floor
func TestMapPeople_UnknownFallback(t *testing.T) {
	cfg := peopleConfig(map[string]string{"actors": "actor"})
	record := map[string]any{
		"actors": map[string]any{"@order": "1"},
	}

	var issues Issues
	credits := MapPeople(record, cfg, &issues)

	require.Len(t, credits, 1)
	assert.Equal(t, "Unknown", credits[0].DisplayName)
	require.NotNil(t, credits[0].BillingBlockOrder)
	assert.Equal(t, 1, *credits[0].BillingBlockOrder)
}

// TestMapPeople_GuestFlag tests guest detection across value shapes
func TestMapPeople_GuestFlag(t *testing.T) {
	cfg := peopleConfig(map[string]string{"actors": "actor"})
	record := map[string]any{
		"actors": []any{
			map[string]any{"#text": "A Guest", "@guest": "true"},
			map[string]any{"#text": "B Guest", "@guest": true},
			map[string]any{"#text": "C Regular", "@guest": "no"},
			map[string]any{"#text": "D Regular"},
		},
	}

	var issues Issues
	credits := MapPeople(record, cfg, &issues)

	require.Len(t, credits, 4)
	byName := make(map[string]bool, 4)
	for _, c := range credits {
		byName[c.DisplayName] = c.Guest
	}
	assert.True(t, byName["A Guest"])
	assert.True(t, byName["B Guest"])
	assert.False(t, byName["C Regular"])
	assert.False(t, byName["D Regular"])
}

// TestMapPeople_SortOrder tests billing order with nils last, then role
func TestMapPeople_SortOrder(t *testing.T) {
	cfg := peopleConfig(map[string]string{
		"actors":    "actor",
		"directors": "director",
	})
	record := map[string]any{
		"actors": []any{
			map[string]any{"#text": "Unordered Actor"},
			map[string]any{"#text": "Third", "@order": "3"},
			map[string]any{"#text": "First", "@order": "1"},
		},
		"directors": []any{
			map[string]any{"#text": "Unordered Director"},
		},
	}

	var issues Issues
	credits := MapPeople(record, cfg, &issues)

	require.Len(t, credits, 4)
	assert.Equal(t, "First", credits[0].DisplayName)
	assert.Equal(t, "Third", credits[1].DisplayName)
	// Nil orders come last, sorted by role name.
	assert.Equal(t, "Unordered Actor", credits[2].DisplayName)
	assert.Equal(t, "Unordered Director", credits[3].DisplayName)
}

// TestMapPeople_BadBillingOrder tests issue collection on garbage orders
func TestMapPeople_BadBillingOrder(t *testing.T) {
	cfg := peopleConfig(map[string]string{"actors": "actor"})
	record := map[string]any{
		"actors": []any{
			map[string]any{"#text": "Jane Actor", "@order": "top"},
		},
	}

	var issues Issues
	credits := MapPeople(record, cfg, &issues)

	require.Len(t, credits, 1)
	assert.Nil(t, credits[0].BillingBlockOrder)
	require.False(t, issues.Empty())
	assert.Contains(t, issues.List()[0], "top")
}

// TestMapPeople_MissingField tests that absent source fields are skipped
func TestMapPeople_MissingField(t *testing.T) {
	cfg := peopleConfig(map[string]string{"actors": "actor"})

	var issues Issues
	credits := MapPeople(map[string]any{"title": "x"}, cfg, &issues)

	assert.Nil(t, credits)
	assert.True(t, issues.Empty())
}
