package economy

const (
	// Schema paths
	ItemsSchemaPath = "configs/schemas/items.schema.json"

	// Error message formats
	ErrMsgReadConfigFileFailed = "failed to read items config: %w"
	ErrMsgParseConfigFailed    = "failed to parse items config: %w"
)

// Attribute policy bounds. These mirror the game client's accepted ranges;
// anything outside is rejected before it reaches the inventory.
const (
	MaxNametagLength = 20

	MinSeed = 1
	MaxSeed = 1000

	MinWear = 0.000001
	MaxWear = 0.999999

	MaxStatTrak = 999999

	// Scraping advances a sticker's wear by this step; past MaxStickerWear
	// the sticker comes off.
	StickerWearStep = 0.1
	MaxStickerWear  = 0.9
)
