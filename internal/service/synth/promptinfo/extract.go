// Package promptinfo derives structured hints from a free-text
// generation prompt: the resort name, its location, keyword material
// for fallback copy, and explicit override fields supplied through
// "headline:" / "description:" / "amenities:" markers.
package promptinfo

import (
	"regexp"
	"strings"

	"prospekt/internal/config"
	"prospekt/internal/domain/services"
)

const (
	fallbackName     = "Luxury Resort"
	fallbackLocation = "Amalfi Coast, Italy"
)

// verbBlacklist filters imperative words that regularly leak into name
// candidates ("design a brochure for ...").
var verbBlacklist = map[string]bool{
	"design": true, "create": true, "generate": true, "make": true,
	"build": true, "craft": true, "produce": true,
}

var (
	locationRe   = regexp.MustCompile(`(?i)\b(?:in|at|near|on)\s+([A-Za-z ,.'\-]{3,60})`)
	locationCut  = regexp.MustCompile(`(?i)\b(with|featuring|that|which|for|and)\b`)
	forNameRe    = regexp.MustCompile(`(?i)\bfor\s+([A-Za-z0-9'&\- ,]{3,80})`)
	quotedNameRe = regexp.MustCompile(`"([^"]{3,80})"`)
	suffixNameRe = regexp.MustCompile(`([A-Z][A-Za-z0-9'&\- ]+\b(?:Hotel|Resort|Lodge|Suites|Inn|Retreat|Palace|Villas|Spa|Club|Estate))`)
	capWordRe    = regexp.MustCompile(`\b[A-Z][A-Za-z'&\-]+\b`)
	trailingLoc  = regexp.MustCompile(`(?i)\s+\b(in|at|near|on)\b\s+.+$`)
	wordRe       = regexp.MustCompile(`[A-Za-z'&\-]+`)

	markerRe = regexp.MustCompile(`(?im)^\s*(headline|description|amenities)\s*:\s*(.+)$`)
)

// Extract parses the prompt into a PromptInfo. It never fails: missing
// pieces fall back to neutral defaults so downstream copy generation
// always has something to work with.
func Extract(prompt string) services.PromptInfo {
	body, overrides := splitOverrides(prompt)

	info := overrides
	info.Location = extractLocation(body)
	if info.Location == "" {
		info.Location = fallbackLocation
	}

	info.ResortName = extractName(body, info.Location)
	if info.ResortName == "" {
		info.ResortName = capitalizedFallback(body, info.Location)
	}
	if info.ResortName == "" {
		info.ResortName = fallbackName
	}

	info.Keywords = keywords(body)
	return info
}

// splitOverrides strips marker lines out of the prompt and collects
// their values. The remaining text is what name/location extraction and
// AI generation see.
func splitOverrides(prompt string) (string, services.PromptInfo) {
	var info services.PromptInfo

	matches := markerRe.FindAllStringSubmatch(prompt, -1)
	for _, m := range matches {
		value := strings.TrimSpace(m[2])
		if value == "" {
			continue
		}
		switch strings.ToLower(m[1]) {
		case "headline":
			info.HeadlineOverride = value
		case "description":
			info.DescriptionOverride = value
		case "amenities":
			info.AmenitiesOverride = splitAmenities(value)
		}
	}

	body := markerRe.ReplaceAllString(prompt, "")
	return strings.TrimSpace(body), info
}

func splitAmenities(value string) []string {
	parts := regexp.MustCompile(`[|,\n]+`).Split(value, -1)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		items = append(items, TrimWords(p, config.MaxAmenityWords))
	}
	return items
}

func extractLocation(text string) string {
	m := locationRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	loc := m[1]
	if cut := locationCut.FindStringIndex(loc); cut != nil {
		loc = loc[:cut[0]]
	}
	return strings.Trim(loc, " ,.")
}

func extractName(text, location string) string {
	if m := forNameRe.FindStringSubmatch(text); m != nil {
		if candidate := cleanName(m[1], location); validName(candidate, location) {
			return candidate
		}
	}
	if m := quotedNameRe.FindStringSubmatch(text); m != nil {
		if candidate := cleanName(m[1], location); validName(candidate, location) {
			return candidate
		}
	}
	if m := suffixNameRe.FindStringSubmatch(text); m != nil {
		if candidate := cleanName(m[1], location); validName(candidate, location) {
			return candidate
		}
	}
	return ""
}

// cleanName strips a trailing location clause and the location itself
// from a name candidate.
func cleanName(name, location string) string {
	name = strings.Trim(trailingLoc.ReplaceAllString(name, ""), " ,.-")
	if location != "" {
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(location))
		if err == nil {
			name = strings.Trim(re.ReplaceAllString(name, ""), " ,.-")
		}
	}
	return strings.Join(strings.Fields(name), " ")
}

func validName(name, location string) bool {
	if name == "" || len(strings.Fields(name)) > 6 {
		return false
	}
	lowered := strings.ToLower(name)
	for _, w := range strings.Fields(lowered) {
		if verbBlacklist[strings.Trim(w, ",.")] {
			return false
		}
	}
	if location != "" && strings.Contains(lowered, strings.ToLower(location)) {
		return false
	}
	return true
}

// capitalizedFallback assembles a name from capitalized words that are
// neither imperative verbs nor part of the location.
func capitalizedFallback(text, location string) string {
	locationTokens := map[string]bool{}
	for _, t := range wordRe.FindAllString(location, -1) {
		locationTokens[t] = true
	}

	var cleaned []string
	for _, w := range capWordRe.FindAllString(text, -1) {
		if verbBlacklist[strings.ToLower(w)] || locationTokens[w] {
			continue
		}
		cleaned = append(cleaned, w)
		if len(cleaned) == 5 {
			break
		}
	}
	return strings.Join(cleaned, " ")
}

// keywords returns the distinct non-blacklisted words of the prompt,
// longest first, for deterministic fallback copy.
func keywords(text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range wordRe.FindAllString(text, -1) {
		lower := strings.ToLower(w)
		if len(lower) < 4 || verbBlacklist[lower] || seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, lower)
	}
	return out
}

// TrimWords caps text at max words, preserving original spacing rules.
func TrimWords(text string, max int) string {
	fields := strings.Fields(text)
	if len(fields) <= max {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:max], " ")
}

// ClampText trims text to maxLen without cutting mid-word when a word
// boundary exists.
func ClampText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	cut := text[:maxLen]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		trimmed := strings.TrimSpace(cut[:idx])
		if trimmed != "" {
			return trimmed
		}
	}
	return cut
}
