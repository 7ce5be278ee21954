package fieldmap

import "github.com/strand-media/enricher/internal/core/domain"

// MapCustom buckets source fields by configured category and sweeps every
// top-level field no mapper claimed into the Other bucket, so no source
// data is silently dropped.
func MapCustom(record map[string]any, cfg *MappingConfig) domain.CustomFields {
	out := domain.CustomFields{
		Advertising: bucket(record, cfg.Custom.Advertising),
		Timing:      bucket(record, cfg.Custom.Timing),
		Technical:   bucket(record, cfg.Custom.Technical),
		Rights:      bucket(record, cfg.Custom.Rights),
	}

	if len(cfg.Custom.Genres) > 0 {
		genres := make(map[string][]string, len(cfg.Custom.Genres))
		for platform, field := range cfg.Custom.Genres {
			if list := stringList(record[field]); len(list) > 0 {
				genres[platform] = list
			}
		}
		if len(genres) > 0 {
			out.Genres = genres
		}
	}

	claimed := cfg.claimedFields()
	var other map[string]any
	for field, value := range record {
		if claimed[field] {
			continue
		}
		if other == nil {
			other = make(map[string]any)
		}
		other[field] = value
	}
	out.Other = other
	return out
}

func bucket(record map[string]any, fields []string) map[string]any {
	var out map[string]any
	for _, field := range fields {
		value, ok := record[field]
		if !ok || value == nil {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[field] = value
	}
	return out
}

// claimedFields returns every top-level field some mapper consumes.
func (c *MappingConfig) claimedFields() map[string]bool {
	claimed := make(map[string]bool)
	for field := range c.Identifiers {
		claimed[field] = true
	}
	for field := range c.People.Fields {
		claimed[field] = true
	}
	for _, field := range []string{
		c.LocalisedInfo.TitleDisplay,
		c.LocalisedInfo.TitleShort,
		c.LocalisedInfo.TitleAlias,
		c.LocalisedInfo.SummaryShort,
		c.LocalisedInfo.SummaryLong,
		c.LocalisedInfo.Copyright,
		c.LocalisedInfo.Keywords,
		c.Ratings.Field,
		c.SourceRecordIDField,
	} {
		if field != "" {
			claimed[field] = true
		}
	}
	for _, fields := range [][]string{
		c.Custom.Advertising,
		c.Custom.Timing,
		c.Custom.Technical,
		c.Custom.Rights,
	} {
		for _, field := range fields {
			claimed[field] = true
		}
	}
	for _, field := range c.Custom.Genres {
		claimed[field] = true
	}
	return claimed
}
