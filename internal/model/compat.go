package model

// compat.go carries the snake_case↔camelCase field mapping inherited
// from the stored data.  Persisted rows and canonical JSON use
// snake_case, but a subset of attributes has always travelled with a
// camelCase mirror alongside, and deployed clients read either
// spelling.  The mapping below must stay exactly as-is to remain
// compatible with existing stored data.

// mirrors maps each mirrored snake_case key to its camelCase alias.
var mirrors = map[string]string{
	"is_active":       "isActive",
	"all_you_can_eat": "allYouCanEat",
	"cover_charge":    "coverCharge",
	"customer_count":  "customerCount",
	"table_number":    "tableNumber",
}

// WithMirrors adds the camelCase alias next to every mirrored
// snake_case key present in m and returns m.  Keys outside the
// mapping are left untouched.
func WithMirrors(m map[string]any) map[string]any {
	for snake, camel := range mirrors {
		if v, ok := m[snake]; ok {
			m[camel] = v
		}
	}
	return m
}

// Canonical collapses camelCase aliases back onto their snake_case
// originals in m and returns m.  The snake_case value wins when both
// spellings are present; the alias key is always removed.  Incoming
// payloads are passed through this before field extraction so that
// old clients writing only camelCase keep working.
func Canonical(m map[string]any) map[string]any {
	for snake, camel := range mirrors {
		v, ok := m[camel]
		if !ok {
			continue
		}
		if _, exists := m[snake]; !exists {
			m[snake] = v
		}
		delete(m, camel)
	}
	return m
}
