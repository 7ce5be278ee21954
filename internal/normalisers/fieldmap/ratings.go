package fieldmap

import (
	"strings"

	"github.com/strand-media/enricher/internal/core/domain"
)

// MapRatings walks the configured ratings container and emits one rating
// per entry through the type lookup table. A hierarchical container
// resolves to the first configured level present (most specific first).
// Entries missing a type, a value, or a system mapping are collected as
// issues, never silently skipped.
func MapRatings(record map[string]any, cfg *MappingConfig, issues *Issues) []domain.Rating {
	ratings := cfg.Ratings
	if ratings.Field == "" {
		return nil
	}
	raw, ok := record[ratings.Field]
	if !ok || raw == nil {
		return nil
	}

	var out []domain.Rating
	for _, entry := range ratingEntries(raw, ratings) {
		m, ok := entry.(map[string]any)
		if !ok {
			issues.Addf("ratings field %q: entry %v carries no rating type", ratings.Field, entry)
			continue
		}
		typeName, ok := StringValue(m[ratings.TypeField])
		if !ok {
			issues.Addf("ratings field %q: entry is missing its %q key", ratings.Field, ratings.TypeField)
			continue
		}
		value, ok := StringValue(m[ratings.ValueField])
		if !ok {
			issues.Addf("ratings field %q: %q entry has no value", ratings.Field, typeName)
			continue
		}
		system, ok := ratings.Systems[strings.ToLower(typeName)]
		if !ok {
			issues.Addf("ratings field %q: no system mapping for rating type %q", ratings.Field, typeName)
			continue
		}
		reason, _ := StringValue(m[ratings.ReasonField])
		out = append(out, domain.Rating{
			Region: system.Region,
			System: system.System,
			Value:  value,
			Reason: reason,
		})
	}
	return out
}

// ratingEntries resolves hierarchical containers to the first configured
// level present, unwraps single-key wrapper elements, and flattens single
// entries into a list.
func ratingEntries(raw any, ratings RatingsFields) []any {
	m, ok := raw.(map[string]any)
	if !ok {
		return entryList(raw)
	}
	for _, level := range ratings.Levels {
		if held, ok := m[level]; ok {
			return ratingEntries(held, ratings)
		}
	}
	if len(m) == 1 {
		for key, inner := range m {
			if !isRatingEntryKey(key, ratings) {
				return ratingEntries(inner, ratings)
			}
		}
	}
	return []any{m}
}

// isRatingEntryKey reports whether a lone map key marks an entry rather
// than a wrapper element.
func isRatingEntryKey(key string, ratings RatingsFields) bool {
	return strings.HasPrefix(key, "@") || key == "#text" ||
		key == ratings.TypeField || key == ratings.ValueField || key == ratings.ReasonField
}
