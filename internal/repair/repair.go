// Package repair applies ordered, idempotent structural corrections to
// candidate documents produced by the extraction capability, before
// schema validation. Every pass is total: absent or oddly typed fields
// are skipped, never an error.
package repair

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Pass is one structural correction over a candidate document.
// Applying a pass to an already-repaired document is a no-op.
type Pass func(doc map[string]any)

// Passes is the fixed repair sequence, in application order.
var Passes = []Pass{
	HoistParticipants,
	FoldPeriodAliases,
	StripOptionalStatus,
	CoerceTextFields,
	MapAirlineKeys,
	CoerceNumericFields,
}

// Apply runs the full repair sequence in place and returns doc.
func Apply(doc map[string]any) map[string]any {
	if doc == nil {
		return doc
	}
	for _, pass := range Passes {
		pass(doc)
	}
	return doc
}

// HoistParticipants moves a participants list that the producer nested
// inside period up to the course level. An existing course-level list
// is never overwritten.
func HoistParticipants(doc map[string]any) {
	for _, course := range courses(doc) {
		period, ok := course["period"].(map[string]any)
		if !ok {
			continue
		}
		p, nested := period["participants"]
		if !nested {
			continue
		}
		if _, has := course["participants"]; !has {
			course["participants"] = p
			delete(period, "participants")
		}
	}
}

// periodAliases lists the course-level key pairs that stand in for
// period.start/period.end, in priority order.
var periodAliases = []struct{ start, end string }{
	{"periodFrom", "periodTo"},
	{"from", "to"},
	{"startDate", "endDate"},
}

// FoldPeriodAliases folds alias start/end keys into the canonical
// period object. For each of start and end, the first non-empty value
// across the canonical key and the aliases wins; all alias keys are
// removed regardless of whether they contributed.
func FoldPeriodAliases(doc map[string]any) {
	for _, course := range courses(doc) {
		var start, end any
		for _, al := range periodAliases {
			if v, ok := course[al.start]; ok {
				if start == nil && nonEmpty(v) {
					start = v
				}
				delete(course, al.start)
			}
			if v, ok := course[al.end]; ok {
				if end == nil && nonEmpty(v) {
					end = v
				}
				delete(course, al.end)
			}
		}
		if start == nil && end == nil {
			continue
		}

		period, ok := course["period"].(map[string]any)
		if !ok {
			period = map[string]any{"start": "", "end": ""}
			course["period"] = period
		}
		if start != nil && !nonEmpty(period["start"]) {
			period["start"] = start
		}
		if end != nil && !nonEmpty(period["end"]) {
			period["end"] = end
		}
	}
}

// StripOptionalStatus removes the status key from optionalRQ entries.
// The producer often attaches one, but it is not part of the contract.
func StripOptionalStatus(doc map[string]any) {
	for _, p := range participants(doc) {
		for _, entry := range mapList(p["optionalRQ"]) {
			delete(entry, "status")
		}
	}
}

// textFields are participant scalars forced to string representation.
var textFields = []string{"meal_allergy", "medical", "scheduleImpact"}

// CoerceTextFields forces specific scalar fields to strings when
// present and non-null.
func CoerceTextFields(doc map[string]any) {
	for _, p := range participants(doc) {
		for _, f := range textFields {
			v, ok := p[f]
			if !ok || v == nil {
				continue
			}
			if _, isStr := v.(string); !isStr {
				p[f] = stringify(v)
			}
		}
	}
}

// airlineCanonical is the closed key set of the airline sub-object.
var airlineCanonical = []string{"meal", "assist", "carryOn", "arrivalImpact"}

// airlineSynonyms maps known producer aliases onto canonical airline
// keys, in fold priority order.
var airlineSynonyms = []struct{ alias, canonical string }{
	{"inflightMeal", "meal"},
	{"mealRequest", "meal"},
	{"specialMeal", "meal"},
	{"assistance", "assist"},
	{"support", "assist"},
	{"wheelchair", "assist"},
	{"carry_on", "carryOn"},
	{"cabinBaggage", "carryOn"},
	{"handLuggage", "carryOn"},
	{"arrival", "arrivalImpact"},
	{"arrivalDelay", "arrivalImpact"},
	{"delayImpact", "arrivalImpact"},
}

// MapAirlineKeys folds alias keys into the four canonical airline keys,
// coerces the values to strings, and drops every key outside the
// canonical set.
func MapAirlineKeys(doc map[string]any) {
	for _, p := range participants(doc) {
		al, ok := p["airline"].(map[string]any)
		if !ok {
			continue
		}

		folded := make(map[string]any, len(airlineCanonical))
		for _, k := range airlineCanonical {
			if v, ok := al[k]; ok && v != nil {
				folded[k] = stringify(v)
			}
		}
		for _, syn := range airlineSynonyms {
			v, ok := al[syn.alias]
			if !ok || v == nil {
				continue
			}
			if !nonEmpty(folded[syn.canonical]) {
				folded[syn.canonical] = stringify(v)
			}
		}
		p["airline"] = folded
	}
}

// CoerceNumericFields converts participants[].no and optionalRQ[].pax
// to integers when they are purely digit strings. Anything else is
// left untouched: the schema validator is the authority on type
// mismatches.
func CoerceNumericFields(doc map[string]any) {
	for _, p := range participants(doc) {
		if v, ok := p["no"]; ok {
			p["no"] = coerceDigits(v)
		}
		for _, entry := range mapList(p["optionalRQ"]) {
			if v, ok := entry["pax"]; ok {
				entry["pax"] = coerceDigits(v)
			}
		}
	}
}

// courses returns the course maps of doc, skipping non-map entries.
func courses(doc map[string]any) []map[string]any {
	var out []map[string]any
	for _, c := range anyList(doc["courses"]) {
		if m, ok := c.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// participants returns every participant map across all courses.
func participants(doc map[string]any) []map[string]any {
	var out []map[string]any
	for _, course := range courses(doc) {
		out = append(out, mapList(course["participants"])...)
	}
	return out
}

func anyList(v any) []any {
	list, _ := v.([]any)
	return list
}

func mapList(v any) []map[string]any {
	var out []map[string]any
	for _, e := range anyList(v) {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// nonEmpty reports whether v is neither nil nor an empty string.
func nonEmpty(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}

// coerceDigits converts an all-digit string to int; everything else is
// returned unchanged.
func coerceDigits(v any) any {
	s, ok := v.(string)
	if !ok || s == "" {
		return v
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return v
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return v
	}
	return n
}

// stringify renders a decoded JSON scalar as a string. JSON numbers
// arrive as float64; integral values drop the fraction.
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == math.Trunc(x) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
