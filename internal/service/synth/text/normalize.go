package text

import (
	"fmt"
	"regexp"
	"strings"

	"prospekt/internal/config"
	"prospekt/internal/domain/services"
	"prospekt/internal/service/synth/promptinfo"
)

var sentenceRe = regexp.MustCompile(`(?s)(.*?[.!?])\s+`)

// normalizeBundle clamps provider output into the shape the schema
// accepts. Returns an error when the output is too incomplete to use,
// which sends the synthesizer down the fallback path.
func normalizeBundle(b *services.CopyBundle) (*services.CopyBundle, error) {
	headline := strings.TrimSpace(b.Headline)
	description := trimSentences(strings.TrimSpace(b.Description), 2)
	amenities := normalizeAmenities(b.Amenities)

	if headline == "" || description == "" || len(amenities) < config.MinAmenities {
		return nil, fmt.Errorf("generated copy incomplete: headline=%d chars, amenities=%d", len(headline), len(amenities))
	}

	return &services.CopyBundle{
		Headline:    promptinfo.ClampText(headline, config.MaxHeadlineLength),
		Description: promptinfo.ClampText(description, config.MaxDescriptionLength),
		Amenities:   amenities[:min(len(amenities), config.MaxAmenities)],
	}, nil
}

// normalizeHeadline trims and length-caps a single headline.
func normalizeHeadline(headline string) string {
	return promptinfo.ClampText(strings.TrimSpace(headline), config.MaxHeadlineLength)
}

// normalizeDescription trims, sentence-caps, and length-caps a
// description.
func normalizeDescription(description string) string {
	description = trimSentences(strings.TrimSpace(description), 2)
	return promptinfo.ClampText(description, config.MaxDescriptionLength)
}

// normalizeAmenities trims, de-blanks, and word-caps each label.
func normalizeAmenities(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		item = promptinfo.TrimWords(strings.TrimSpace(item), config.MaxAmenityWords)
		if item == "" {
			continue
		}
		cleaned = append(cleaned, item)
	}
	return cleaned
}

// trimSentences keeps at most max sentences of text.
func trimSentences(text string, max int) string {
	var out []string
	rest := text
	for len(out) < max {
		m := sentenceRe.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}
		out = append(out, strings.TrimSpace(rest[m[2]:m[3]]))
		rest = rest[m[1]:]
	}
	if len(out) < max && strings.TrimSpace(rest) != "" {
		out = append(out, strings.TrimSpace(rest))
	}
	return strings.Join(out, " ")
}
