package fieldmap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/strand-media/enricher/internal/core/domain"
)

// MappingConfig drives every mapper family for one source type. No
// customer field name is hardcoded anywhere in the mappers; everything
// flows from this structure.
type MappingConfig struct {
	// NamespacePrefix anchors relative identifier namespaces, for example
	// "org:catalog".
	NamespacePrefix string `json:"namespace_prefix" yaml:"namespace_prefix" toml:"namespace_prefix"`

	// Identifiers maps a source field name to a namespace suffix. A
	// suffix starting with "-" appends to NamespacePrefix, an empty
	// suffix uses the prefix directly, anything else is an absolute
	// namespace.
	Identifiers map[string]string `json:"identifiers" yaml:"identifiers" toml:"identifiers"`

	// LocalisedInfo names the source fields for the title block.
	LocalisedInfo LocalisedFields `json:"localised_info" yaml:"localised_info" toml:"localised_info"`

	// People configures the credit mappers.
	People PeopleFields `json:"people" yaml:"people" toml:"people"`

	// Ratings configures the ratings container walk.
	Ratings RatingsFields `json:"ratings" yaml:"ratings" toml:"ratings"`

	// Custom assigns source fields to custom buckets.
	Custom CustomBuckets `json:"custom" yaml:"custom" toml:"custom"`

	// SourceRecordIDField names the field carrying the remote system's
	// own primary key, recorded on the attribution block.
	SourceRecordIDField string `json:"source_record_id_field" yaml:"source_record_id_field" toml:"source_record_id_field"`
}

// LocalisedFields names the source fields feeding the title and
// description block. Empty values leave the output field blank.
type LocalisedFields struct {
	TitleDisplay string `json:"title_display" yaml:"title_display" toml:"title_display"`
	TitleShort   string `json:"title_short" yaml:"title_short" toml:"title_short"`
	TitleAlias   string `json:"title_alias" yaml:"title_alias" toml:"title_alias"`
	SummaryShort string `json:"summary_short" yaml:"summary_short" toml:"summary_short"`
	SummaryLong  string `json:"summary_long" yaml:"summary_long" toml:"summary_long"`
	Copyright    string `json:"copyright" yaml:"copyright" toml:"copyright"`

	// Keywords accepts a native list or one comma-separated string.
	Keywords string `json:"keywords" yaml:"keywords" toml:"keywords"`
}

// PeopleFields configures the credit mapper.
type PeopleFields struct {
	// Fields maps a source field name to the role its entries carry,
	// for example "actors" -> "actor", "directed_by" -> "director".
	Fields map[string]string `json:"fields" yaml:"fields" toml:"fields"`

	// NameField is the key holding the display name inside an entry map.
	// Default "#text".
	NameField string `json:"name_field" yaml:"name_field" toml:"name_field"`

	// FirstNameField and LastNameField compose a display name when
	// NameField is absent from an entry. Both optional.
	FirstNameField string `json:"first_name_field" yaml:"first_name_field" toml:"first_name_field"`
	LastNameField  string `json:"last_name_field" yaml:"last_name_field" toml:"last_name_field"`

	// OrderAttribute is the key holding the billing position.
	// Default "@order".
	OrderAttribute string `json:"order_attribute" yaml:"order_attribute" toml:"order_attribute"`

	// GuestField is the key flagging guest appearances. Default "@guest".
	GuestField string `json:"guest_field" yaml:"guest_field" toml:"guest_field"`
}

// RatingsFields configures the ratings mapper.
type RatingsFields struct {
	// Field names the ratings container in the raw record. Empty
	// disables ratings mapping.
	Field string `json:"field" yaml:"field" toml:"field"`

	// TypeField, ValueField and ReasonField are the keys inside one
	// rating entry. Defaults "@system", "#text" and "@reason".
	TypeField   string `json:"type_field" yaml:"type_field" toml:"type_field"`
	ValueField  string `json:"value_field" yaml:"value_field" toml:"value_field"`
	ReasonField string `json:"reason_field" yaml:"reason_field" toml:"reason_field"`

	// Levels orders the keys of a hierarchical container from most to
	// least specific; the first level present wins. Default
	// ["episode", "season", "series"].
	Levels []string `json:"levels" yaml:"levels" toml:"levels"`

	// Systems maps a source rating type (lowercase) to its system and
	// region. Merged over DefaultRatingSystems, configured entries
	// winning.
	Systems map[string]RatingSystem `json:"systems" yaml:"systems" toml:"systems"`
}

// RatingSystem is the (system, region) pair one rating type resolves to.
type RatingSystem struct {
	System string `json:"system" yaml:"system" toml:"system"`
	Region string `json:"region" yaml:"region" toml:"region"`
}

// CustomBuckets assigns source fields to custom categories. Fields no
// mapper claims end up in the Other bucket automatically.
type CustomBuckets struct {
	Advertising []string `json:"advertising" yaml:"advertising" toml:"advertising"`
	Timing      []string `json:"timing" yaml:"timing" toml:"timing"`
	Technical   []string `json:"technical" yaml:"technical" toml:"technical"`
	Rights      []string `json:"rights" yaml:"rights" toml:"rights"`

	// Genres maps a platform name to the source field holding that
	// platform's genre list (native list or comma-separated string).
	Genres map[string]string `json:"genres" yaml:"genres" toml:"genres"`
}

// DefaultRatingSystems maps common source rating types to their system
// and region. Configured entries override these.
func DefaultRatingSystems() map[string]RatingSystem {
	return map[string]RatingSystem{
		"mpaa":  {System: "mpaa", Region: "US"},
		"us-tv": {System: "us-tv", Region: "US"},
		"vchip": {System: "us-tv", Region: "US"},
		"bbfc":  {System: "bbfc", Region: "GB"},
		"fsk":   {System: "fsk", Region: "DE"},
		"csa":   {System: "csa", Region: "FR"},
		"acb":   {System: "acb", Region: "AU"},
	}
}

// ApplyDefaults fills the documented defaults for unset lookup keys. The
// defaults follow the generic record convention: attributes carry an "@"
// prefix and element text sits under "#text".
func (c *MappingConfig) ApplyDefaults() {
	if c.People.NameField == "" {
		c.People.NameField = "#text"
	}
	if c.People.OrderAttribute == "" {
		c.People.OrderAttribute = "@order"
	}
	if c.People.GuestField == "" {
		c.People.GuestField = "@guest"
	}
	if c.Ratings.TypeField == "" {
		c.Ratings.TypeField = "@system"
	}
	if c.Ratings.ValueField == "" {
		c.Ratings.ValueField = "#text"
	}
	if c.Ratings.ReasonField == "" {
		c.Ratings.ReasonField = "@reason"
	}
	if len(c.Ratings.Levels) == 0 {
		c.Ratings.Levels = []string{"episode", "season", "series"}
	}
	systems := DefaultRatingSystems()
	for typeName, system := range c.Ratings.Systems {
		systems[strings.ToLower(typeName)] = system
	}
	c.Ratings.Systems = systems
}

// Validate reports configuration problems. Call after ApplyDefaults so
// documented defaults are in place before checking.
func (c *MappingConfig) Validate() error {
	var errs []error
	if c.NamespacePrefix == "" {
		for field, suffix := range c.Identifiers {
			if suffix == "" || strings.HasPrefix(suffix, "-") {
				errs = append(errs, fmt.Errorf(
					"identifier field %q uses a relative namespace but namespace_prefix is empty: %w",
					field, domain.ErrInvalidInput))
			}
		}
	}
	for field, role := range c.People.Fields {
		if strings.TrimSpace(role) == "" {
			errs = append(errs, fmt.Errorf("people field %q has a blank role: %w",
				field, domain.ErrInvalidInput))
		}
	}
	for platform, field := range c.Custom.Genres {
		if strings.TrimSpace(field) == "" {
			errs = append(errs, fmt.Errorf("genre platform %q has a blank source field: %w",
				platform, domain.ErrInvalidInput))
		}
	}
	for typeName, system := range c.Ratings.Systems {
		if strings.TrimSpace(system.System) == "" {
			errs = append(errs, fmt.Errorf("rating type %q maps to a blank system: %w",
				typeName, domain.ErrInvalidInput))
		}
	}
	return errors.Join(errs...)
}

// Merge overlays the non-zero fields of overlay onto base and returns the
// result. Scalar fields merge individually; map and list valued families
// replace wholesale, so an overlay can redefine one family without
// inheriting stray entries from beneath it.
func Merge(base, overlay MappingConfig) MappingConfig {
	out := base
	if overlay.NamespacePrefix != "" {
		out.NamespacePrefix = overlay.NamespacePrefix
	}
	if overlay.Identifiers != nil {
		out.Identifiers = overlay.Identifiers
	}
	out.LocalisedInfo = mergeLocalised(base.LocalisedInfo, overlay.LocalisedInfo)
	out.People = mergePeople(base.People, overlay.People)
	out.Ratings = mergeRatings(base.Ratings, overlay.Ratings)
	out.Custom = mergeCustom(base.Custom, overlay.Custom)
	if overlay.SourceRecordIDField != "" {
		out.SourceRecordIDField = overlay.SourceRecordIDField
	}
	return out
}

func mergeLocalised(base, overlay LocalisedFields) LocalisedFields {
	out := base
	if overlay.TitleDisplay != "" {
		out.TitleDisplay = overlay.TitleDisplay
	}
	if overlay.TitleShort != "" {
		out.TitleShort = overlay.TitleShort
	}
	if overlay.TitleAlias != "" {
		out.TitleAlias = overlay.TitleAlias
	}
	if overlay.SummaryShort != "" {
		out.SummaryShort = overlay.SummaryShort
	}
	if overlay.SummaryLong != "" {
		out.SummaryLong = overlay.SummaryLong
	}
	if overlay.Copyright != "" {
		out.Copyright = overlay.Copyright
	}
	if overlay.Keywords != "" {
		out.Keywords = overlay.Keywords
	}
	return out
}

func mergePeople(base, overlay PeopleFields) PeopleFields {
	out := base
	if overlay.Fields != nil {
		out.Fields = overlay.Fields
	}
	if overlay.NameField != "" {
		out.NameField = overlay.NameField
	}
	if overlay.FirstNameField != "" {
		out.FirstNameField = overlay.FirstNameField
	}
	if overlay.LastNameField != "" {
		out.LastNameField = overlay.LastNameField
	}
	if overlay.OrderAttribute != "" {
		out.OrderAttribute = overlay.OrderAttribute
	}
	if overlay.GuestField != "" {
		out.GuestField = overlay.GuestField
	}
	return out
}

func mergeRatings(base, overlay RatingsFields) RatingsFields {
	out := base
	if overlay.Field != "" {
		out.Field = overlay.Field
	}
	if overlay.TypeField != "" {
		out.TypeField = overlay.TypeField
	}
	if overlay.ValueField != "" {
		out.ValueField = overlay.ValueField
	}
	if overlay.ReasonField != "" {
		out.ReasonField = overlay.ReasonField
	}
	if overlay.Levels != nil {
		out.Levels = overlay.Levels
	}
	if overlay.Systems != nil {
		out.Systems = overlay.Systems
	}
	return out
}

func mergeCustom(base, overlay CustomBuckets) CustomBuckets {
	out := base
	if overlay.Advertising != nil {
		out.Advertising = overlay.Advertising
	}
	if overlay.Timing != nil {
		out.Timing = overlay.Timing
	}
	if overlay.Technical != nil {
		out.Technical = overlay.Technical
	}
	if overlay.Rights != nil {
		out.Rights = overlay.Rights
	}
	if overlay.Genres != nil {
		out.Genres = overlay.Genres
	}
	return out
}
