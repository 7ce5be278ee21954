package fieldmap

import (
	"sort"
	"strings"

	"github.com/strand-media/enricher/internal/core/domain"
)

// ResolveNamespace resolves a configured namespace suffix against the
// prefix: a suffix starting with "-" appends to the prefix, an empty
// suffix is the prefix itself, anything else is used verbatim as an
// absolute namespace.
func ResolveNamespace(prefix, suffix string) string {
	switch {
	case strings.HasPrefix(suffix, "-"):
		return prefix + suffix
	case suffix == "":
		return prefix
	default:
		return suffix
	}
}

// SourceRecordID reads the configured field carrying the remote system's
// own primary key. Empty when unconfigured or absent.
func SourceRecordID(record map[string]any, cfg *MappingConfig) string {
	if cfg.SourceRecordIDField == "" {
		return ""
	}
	s, _ := StringValue(record[cfg.SourceRecordIDField])
	return s
}

// MapIdentifiers emits one (namespace, identifier) pair per configured
// field whose source value is non-empty. Output is sorted by namespace
// then identifier so documents are deterministic.
func MapIdentifiers(record map[string]any, cfg *MappingConfig) []domain.Identifier {
	if len(cfg.Identifiers) == 0 {
		return nil
	}
	out := make([]domain.Identifier, 0, len(cfg.Identifiers))
	for field, suffix := range cfg.Identifiers {
		value, ok := StringValue(record[field])
		if !ok {
			continue
		}
		out = append(out, domain.Identifier{
			Namespace:  ResolveNamespace(cfg.NamespacePrefix, suffix),
			Identifier: value,
		})
	}
	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Namespace != out[j].Namespace {
			return out[i].Namespace < out[j].Namespace
		}
		return out[i].Identifier < out[j].Identifier
	})
	return out
}
