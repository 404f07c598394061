package economy

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/loadoutlab/armory/internal/domain"
)

// NormalizeNametag NFC-normalizes and trims a client-supplied nametag.
func NormalizeNametag(nametag string) string {
	return strings.TrimSpace(norm.NFC.String(nametag))
}

// ValidateNametag checks a normalized nametag against the nametag policy.
// The empty string is valid and means "no nametag".
func ValidateNametag(nametag string) error {
	if len([]rune(nametag)) > MaxNametagLength {
		return fmt.Errorf("%w: nametag exceeds %d characters", domain.ErrInvalidInput, MaxNametagLength)
	}
	for _, r := range nametag {
		if !unicode.IsPrint(r) {
			return fmt.Errorf("%w: nametag contains non-printable characters", domain.ErrInvalidInput)
		}
	}
	return nil
}

// ValidateSeed checks a pattern seed. Zero means "no seed".
func ValidateSeed(seed int) error {
	if seed == 0 {
		return nil
	}
	if seed < MinSeed || seed > MaxSeed {
		return fmt.Errorf("%w: seed %d out of range", domain.ErrInvalidInput, seed)
	}
	return nil
}

// ValidateWear checks a wear float. Zero means "no wear".
func ValidateWear(wear float64) error {
	if wear == 0 {
		return nil
	}
	if wear < MinWear || wear > MaxWear {
		return fmt.Errorf("%w: wear %v out of range", domain.ErrInvalidInput, wear)
	}
	return nil
}

// ValidateStatTrak checks a StatTrak counter value.
func ValidateStatTrak(stattrak int) error {
	if stattrak < 0 || stattrak > MaxStatTrak {
		return fmt.Errorf("%w: stattrak %d out of range", domain.ErrInvalidInput, stattrak)
	}
	return nil
}

// ValidateStickerIndex checks a sticker slot index.
func ValidateStickerIndex(index int) error {
	if index < 0 || index >= domain.StickerSlots {
		return fmt.Errorf("%w: %d", domain.ErrInvalidStickerIndex, index)
	}
	return nil
}

// ValidateStickers checks the sticker id and wear arrays of a client item.
// Arrays may be shorter than the slot count; missing entries are empty
// slots. When both are present they must be index-aligned.
func ValidateStickers(stickers []int, wears []float64) error {
	if len(stickers) > domain.StickerSlots {
		return fmt.Errorf("%w: more than %d sticker slots", domain.ErrInvalidInput, domain.StickerSlots)
	}
	if len(wears) > len(stickers) {
		return fmt.Errorf("%w: stickerswear longer than stickers", domain.ErrInvalidInput)
	}
	for i, id := range stickers {
		if id < 0 {
			return fmt.Errorf("%w: negative sticker id", domain.ErrInvalidInput)
		}
		if id == domain.NoSticker {
			continue
		}
		if i < len(wears) {
			if w := wears[i]; w < 0 || w > MaxStickerWear {
				return fmt.Errorf("%w: sticker wear %v out of range", domain.ErrInvalidInput, w)
			}
		}
	}
	return nil
}
