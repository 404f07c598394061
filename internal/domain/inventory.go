package domain

import "encoding/json"

// StickerSlots is the number of sticker slots a weapon carries.
const StickerSlots = 4

// NoSticker is the sentinel catalog id for an empty sticker slot.
const NoSticker = 0

// NoStickerWear is the wear value of an empty or freshly applied slot.
const NoStickerWear = 0.0

// InventoryItem is one owned item instance. The same shape is used
// in-memory, on the wire and in the JSONB column; absent optional fields
// are omitted, never null.
type InventoryItem struct {
	UID        int    `json:"uid"`
	ID         int    `json:"id"`
	Equipped   bool   `json:"equipped,omitempty"`
	EquippedCT bool   `json:"equippedCT,omitempty"`
	EquippedT  bool   `json:"equippedT,omitempty"`
	Nametag    string `json:"nametag,omitempty"`
	Seed       int    `json:"seed,omitempty"`
	// StatTrak is a pointer so a zero counter survives round-trips while
	// non-StatTrak items omit the field entirely.
	StatTrak     *int      `json:"stattrak,omitempty"`
	Stickers     []int     `json:"stickers,omitempty"`
	StickersWear []float64 `json:"stickerswear,omitempty"`
	Wear         float64   `json:"wear,omitempty"`
	// ContainedItems lists the uids deposited into this storage unit.
	ContainedItems []int `json:"containedItems,omitempty"`
}

// Clone returns a deep copy of the item.
func (it *InventoryItem) Clone() *InventoryItem {
	cp := *it
	if it.StatTrak != nil {
		v := *it.StatTrak
		cp.StatTrak = &v
	}
	if it.Stickers != nil {
		cp.Stickers = append([]int(nil), it.Stickers...)
	}
	if it.StickersWear != nil {
		cp.StickersWear = append([]float64(nil), it.StickersWear...)
	}
	if it.ContainedItems != nil {
		cp.ContainedItems = append([]int(nil), it.ContainedItems...)
	}
	return &cp
}

// HasSticker reports whether any slot holds a sticker.
func (it *InventoryItem) HasSticker() bool {
	for _, id := range it.Stickers {
		if id != NoSticker {
			return true
		}
	}
	return false
}

// User is an account row. Inventory and SyncedAt are both nil until the
// first successful sync commits.
type User struct {
	ID        string          `json:"id"`
	Inventory json.RawMessage `json:"inventory,omitempty"`
	SyncedAt  *int64          `json:"syncedAt,omitempty"` // ms since epoch
}
