package config

const (
	// MaxPromptLength bounds the free-text generation prompt. Long prompts
	// degrade both copy quality and provider latency.
	MaxPromptLength = 2000

	// MinPromptLength rejects prompts too short to describe a property.
	MinPromptLength = 5

	// MinInstructionLength rejects refinement instructions that cannot
	// possibly carry an edit intent.
	MinInstructionLength = 3

	// MaxHeadlineLength matches the widest headline the brochure layout
	// can set without overflowing the hero block.
	MaxHeadlineLength = 80

	// MaxDescriptionLength keeps the description inside the copy column.
	MaxDescriptionLength = 320

	// MinAmenities and MaxAmenities bound the visible amenity strip.
	// An empty list is also valid and hides the strip entirely.
	MinAmenities = 4
	MaxAmenities = 6

	// MaxAmenityWords keeps each amenity label scannable.
	MaxAmenityWords = 6

	// MaxGalleryImages is the fixed gallery capacity per brochure.
	MaxGalleryImages = 5

	// MaxUploadBytes is the per-file cap for hero and gallery uploads.
	MaxUploadBytes = 12 << 20

	// MaxImageDimension is the longest edge uploads are downscaled to.
	// Larger sources are resized, never rejected for size alone.
	MaxImageDimension = 2048

	// MaxContactFieldLength bounds each contact field.
	MaxContactFieldLength = 255

	// QRCodeSize is the pixel edge of generated website QR codes.
	QRCodeSize = 256
)
