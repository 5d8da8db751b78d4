package patch

import (
	"context"
	"regexp"
	"strings"

	"prospekt/internal/domain/models"
)

// Matcher is the deterministic fallback interpreter: a small set of
// phrasing patterns that covers the common edit requests when the AI
// classifier is unavailable. Anything it cannot place is ErrNoMatch,
// never a guess.
type Matcher struct {
	presetKeys []string
}

// NewMatcher creates a matcher aware of the given preset keys.
func NewMatcher(presetKeys []string) *Matcher {
	return &Matcher{presetKeys: presetKeys}
}

var (
	headlineRe    = regexp.MustCompile(`(?i)\bheadline\b(?:\s+to\b|\s*[:=])?\s*["']?([^"']+?)["']?\s*$`)
	descriptionRe = regexp.MustCompile(`(?i)\bdescription\b(?:\s+to\b|\s*[:=])?\s*["']?([^"']+?)["']?\s*$`)
	toneRe        = regexp.MustCompile(`(?i)\b(?:make\s+(?:it|the\s+text)|tone|sound|rewrite\s+(?:it|the\s+description))\b`)
	amenitiesRe   = regexp.MustCompile(`(?i)\bamenities\b(?:\s+to\b|\s*[:=])?\s*(.+)$`)
	hideRe        = regexp.MustCompile(`(?i)\b(hide|remove|drop)\b.*\bamenit`)
	contactRe     = regexp.MustCompile(`(?i)\b(email|phone|website|address)\b(?:\s+to\b|\s*[:=])?\s*["']?(\S[^"']*?)["']?\s*$`)
	altRe         = regexp.MustCompile(`(?i)\balt(?:\s+text)?\b(?:\s+to\b|\s*[:=])?\s*["']?([^"']+?)["']?\s*$`)
	presetRe      = regexp.MustCompile(`(?i)\b(?:preset|style|theme)\b`)
	heroRegenRe   = regexp.MustCompile(`(?i)\b(?:regenerate|redo|refresh|reset)\b[^.]*?\bhero(?:\s+(?:image|photo|shot))?\b(?:[^.]*?\b(?:with|using)\s+(.+?))?\s*$`)
	presetValueRe = regexp.MustCompile(`(?i)\b(?:preset|style|theme)\b(?:\s+to\b|\s*[:=])\s*["']?([a-z0-9_ \-]+?)["']?\s*$`)
)

// toneWords bounds what the pattern matcher will treat as a tone
// request. Anything outside it is a no-match, not a guessed rewrite.
var toneWords = map[string]bool{
	"playful": true, "luxurious": true, "elegant": true, "formal": true,
	"casual": true, "professional": true, "warm": true, "friendly": true,
	"romantic": true, "adventurous": true, "serene": true, "bold": true,
	"minimalist": true, "sophisticated": true, "relaxed": true,
	"inviting": true, "exclusive": true, "modern": true,
}

// Interpret classifies instruction against the pattern set. The first
// matching rule wins; rules are ordered most- to least-specific.
func (m *Matcher) Interpret(_ context.Context, _ *models.Schema, instruction string) ([]Op, error) {
	text := strings.TrimSpace(instruction)

	if hideRe.MatchString(text) {
		return []Op{{Kind: KindHideAmenities}}, nil
	}
	if match := amenitiesRe.FindStringSubmatch(text); match != nil && strings.Contains(match[1], ",") {
		return []Op{{Kind: KindReplaceAmenities, Items: splitList(match[1])}}, nil
	}
	if match := heroRegenRe.FindStringSubmatch(text); match != nil {
		return []Op{{Kind: KindRegenerateHero, Value: strings.TrimSpace(match[1])}}, nil
	}
	if match := headlineRe.FindStringSubmatch(text); match != nil {
		return []Op{{Kind: KindSetHeadline, Value: strings.TrimSpace(match[1])}}, nil
	}
	if match := descriptionRe.FindStringSubmatch(text); match != nil {
		return []Op{{Kind: KindSetDescription, Value: strings.TrimSpace(match[1])}}, nil
	}
	if match := contactRe.FindStringSubmatch(text); match != nil {
		return []Op{{
			Kind:  KindSetContact,
			Field: strings.ToLower(match[1]),
			Value: strings.TrimSpace(match[2]),
		}}, nil
	}
	if match := altRe.FindStringSubmatch(text); match != nil {
		return []Op{{Kind: KindSetHeroAlt, Value: strings.TrimSpace(match[1])}}, nil
	}
	if presetRe.MatchString(text) {
		if key := m.findPreset(text); key != "" {
			return []Op{{Kind: KindSetPreset, Value: key}}, nil
		}
		// An explicitly named but unrecognized preset still becomes an
		// op, so validation rejects it instead of reporting no-match.
		if match := presetValueRe.FindStringSubmatch(text); match != nil {
			value := strings.ToLower(strings.TrimSpace(match[1]))
			return []Op{{Kind: KindSetPreset, Value: strings.ReplaceAll(value, " ", "_")}}, nil
		}
	}
	if toneRe.MatchString(text) {
		if tone := findTone(text); tone != "" {
			return []Op{{Kind: KindSetTone, Value: tone}}, nil
		}
	}

	return nil, ErrNoMatch
}

// findTone returns the first recognized tone word anywhere in the
// instruction, so trailing filler ("make it more playful please") does
// not defeat the match.
func findTone(text string) string {
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, `,.!?;:"'`)
		if toneWords[w] {
			return w
		}
	}
	return ""
}

// findPreset matches a preset key mentioned in the instruction, either
// verbatim or by any of its underscore-separated words.
func (m *Matcher) findPreset(text string) string {
	lowered := strings.ToLower(text)
	for _, key := range m.presetKeys {
		if strings.Contains(lowered, key) {
			return key
		}
		for _, part := range strings.Split(key, "_") {
			if len(part) >= 5 && strings.Contains(lowered, part) {
				return key
			}
		}
	}
	return ""
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
