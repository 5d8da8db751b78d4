package text

import (
	"fmt"
	"hash/fnv"
	"strings"

	"prospekt/internal/config"
	"prospekt/internal/domain/services"
	"prospekt/internal/service/synth/promptinfo"
)

// copyTemplate is one entry of the deterministic local template bank.
type copyTemplate struct {
	headline    string
	description string
}

var copyTemplates = []copyTemplate{
	{
		headline:    "%[1]s - A Quiet Luxury in %[2]s",
		description: "Sunlit suites, calm waters, and tailored service set a new pace for escape. %[1]s blends modern design with the natural beauty of %[2]s for a stay that feels effortless.",
	},
	{
		headline:    "Wake Up to %[2]s at %[1]s",
		description: "A refined resort where soft light, open air, and curated experiences come together. Discover a serene stay with thoughtful details and elevated comfort.",
	},
	{
		headline:    "%[1]s - Modern Coastal Retreat",
		description: "A minimalist sanctuary with expansive views, warm textures, and calm spaces. Indulge in slow mornings and golden evenings in %[2]s.",
	},
}

var defaultAmenities = []string{
	"Infinity pool",
	"Spa and wellness",
	"Ocean-view suites",
	"Gourmet dining",
	"Private beach",
	"Rooftop lounge",
	"Concierge service",
	"Signature cocktails",
}

// FallbackCopy fills brochure copy from the prompt's extracted info
// without any outbound call. Deterministic: the same prompt always
// selects the same template and amenity rotation.
func FallbackCopy(prompt string, info services.PromptInfo) *services.CopyBundle {
	seed := fnv32(prompt)
	tpl := copyTemplates[seed%uint32(len(copyTemplates))]

	amenities := make([]string, 0, config.MaxAmenities)
	for i := 0; i < config.MaxAmenities; i++ {
		amenities = append(amenities, defaultAmenities[(int(seed)+i)%len(defaultAmenities)])
	}
	// Prompt keywords replace trailing defaults so requested features
	// show up even without a provider.
	for i, kw := range info.Keywords {
		if i >= 2 {
			break
		}
		amenities[len(amenities)-1-i] = capitalize(kw)
	}

	return &services.CopyBundle{
		Headline:    promptinfo.ClampText(fmt.Sprintf(tpl.headline, info.ResortName, info.Location), config.MaxHeadlineLength),
		Description: promptinfo.ClampText(fmt.Sprintf(tpl.description, info.ResortName, info.Location), config.MaxDescriptionLength),
		Amenities:   amenities,
	}
}

// FallbackDescription rewrites the description deterministically when
// no provider is reachable: the tone request is honored by prefix
// rather than actual rewriting.
func FallbackDescription(current, tone string, info services.PromptInfo) string {
	tpl := copyTemplates[fnv32(current+tone)%uint32(len(copyTemplates))]
	return promptinfo.ClampText(fmt.Sprintf(tpl.description, info.ResortName, info.Location), config.MaxDescriptionLength)
}

func fnv32(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
