package fieldmap

import (
	"sort"
	"strconv"
	"strings"

	"github.com/strand-media/enricher/internal/core/domain"
)

// MapPeople builds the credit list from the configured field-to-role
// pairs. An entry may be a plain string, a map in the generic record
// convention, or a single-key container map wrapping either shape. A
// credit whose name cannot be constructed is kept with the display name
// "Unknown" rather than dropped. Output sorts by billing order with nil
// orders last, then role.
func MapPeople(record map[string]any, cfg *MappingConfig, issues *Issues) []domain.Credit {
	people := cfg.People
	if len(people.Fields) == 0 {
		return nil
	}

	var credits []domain.Credit
	for _, field := range sortedKeys(people.Fields) {
		raw, ok := record[field]
		if !ok || raw == nil {
			continue
		}
		for _, entry := range personEntries(raw, people) {
			credits = append(credits, buildCredit(entry, people.Fields[field], field, people, issues))
		}
	}
	if len(credits) == 0 {
		return nil
	}

	sort.SliceStable(credits, func(i, j int) bool {
		oi, oj := credits[i].BillingBlockOrder, credits[j].BillingBlockOrder
		switch {
		case oi != nil && oj == nil:
			return true
		case oi == nil && oj != nil:
			return false
		case oi != nil && oj != nil && *oi != *oj:
			return *oi < *oj
		}
		return credits[i].Role < credits[j].Role
	})
	return credits
}

// personEntries unwraps container maps (a single non-entry key holding
// the real entries) and flattens single entries into a list.
func personEntries(raw any, people PeopleFields) []any {
	switch t := raw.(type) {
	case []any:
		return t
	case map[string]any:
		if isPersonEntry(t, people) {
			return []any{t}
		}
		if len(t) == 1 {
			for key, inner := range t {
				if !strings.HasPrefix(key, "@") && key != "#text" {
					return personEntries(inner, people)
				}
			}
		}
		return []any{t}
	default:
		return []any{raw}
	}
}

// isPersonEntry distinguishes an entry map from a wrapping container map
// by the presence of a configured name key.
func isPersonEntry(m map[string]any, people PeopleFields) bool {
	if _, ok := m[people.NameField]; ok {
		return true
	}
	if people.FirstNameField != "" {
		if _, ok := m[people.FirstNameField]; ok {
			return true
		}
	}
	if people.LastNameField != "" {
		if _, ok := m[people.LastNameField]; ok {
			return true
		}
	}
	return false
}

func buildCredit(entry any, role, field string, people PeopleFields, issues *Issues) domain.Credit {
	credit := domain.Credit{Role: role, DisplayName: "Unknown"}
	switch t := entry.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			credit.DisplayName = s
		}
	case map[string]any:
		if name := displayName(t, people); name != "" {
			credit.DisplayName = name
		}
		credit.BillingBlockOrder = billingOrder(t[people.OrderAttribute], field, issues)
		credit.Guest = guestFlag(t[people.GuestField])
	default:
		if s, ok := StringValue(entry); ok {
			credit.DisplayName = s
		}
	}
	return credit
}

// displayName resolves the configured name key, falling back to composing
// first and last name fields.
func displayName(m map[string]any, people PeopleFields) string {
	if s, ok := StringValue(m[people.NameField]); ok {
		return s
	}
	var first, last string
	if people.FirstNameField != "" {
		first, _ = StringValue(m[people.FirstNameField])
	}
	if people.LastNameField != "" {
		last, _ = StringValue(m[people.LastNameField])
	}
	return strings.TrimSpace(first + " " + last)
}

func billingOrder(raw any, field string, issues *Issues) *int {
	switch t := raw.(type) {
	case nil:
		return nil
	case float64:
		n := int(t)
		return &n
	case int:
		n := t
		return &n
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			issues.Addf("people field %q: billing order %q is not a number", field, t)
			return nil
		}
		return &n
	default:
		issues.Addf("people field %q: billing order has unsupported type %T", field, raw)
		return nil
	}
}

func guestFlag(raw any) bool {
	switch t := raw.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "y":
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
