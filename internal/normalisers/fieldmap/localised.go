package fieldmap

import "github.com/strand-media/enricher/internal/core/domain"

// MapLocalisedInfo builds the title and description block from the
// configured source fields. Unconfigured and missing fields stay blank.
func MapLocalisedInfo(record map[string]any, cfg *MappingConfig) domain.LocalisedInfo {
	fields := cfg.LocalisedInfo
	info := domain.LocalisedInfo{
		TitleDisplay: lookupString(record, fields.TitleDisplay),
		TitleShort:   lookupString(record, fields.TitleShort),
		TitleAlias:   lookupString(record, fields.TitleAlias),
		SummaryShort: lookupString(record, fields.SummaryShort),
		SummaryLong:  lookupString(record, fields.SummaryLong),
		Copyright:    lookupString(record, fields.Copyright),
	}
	if fields.Keywords != "" {
		info.Keywords = stringList(record[fields.Keywords])
	}
	return info
}

// lookupString reads one configured field as a string, tolerating an
// unconfigured field name.
func lookupString(record map[string]any, field string) string {
	if field == "" {
		return ""
	}
	s, _ := StringValue(record[field])
	return s
}
