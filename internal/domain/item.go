package domain

// ItemType categorizes what an economy item fundamentally is.
type ItemType string

const (
	TypeWeapon   ItemType = "weapon"
	TypeMelee    ItemType = "melee"
	TypeGlove    ItemType = "glove"
	TypeAgent    ItemType = "agent"
	TypeSticker  ItemType = "sticker"
	TypeTool     ItemType = "tool"
	TypeMusicKit ItemType = "musickit"
	TypeCase     ItemType = "case"
)

// Tool models recognized by inventory operations.
const (
	ModelNameTag      = "name-tag"
	ModelStatTrakSwap = "stattrak-swap-tool"
	ModelStorageUnit  = "storage-unit"
)

// ItemDef is a static economy item definition from the read-only catalog.
// Definitions never change at runtime; owned item instances reference them
// by ID.
type ItemDef struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"` // e.g. "rifle", "pistol", "equipment"
	Type     ItemType `json:"type"`
	Model    string   `json:"model,omitempty"` // e.g. "ak-47", "name-tag"
	Free     bool     `json:"free,omitempty"`  // stock items that cannot be owned
	StatTrak bool     `json:"stattrak,omitempty"`
	NameTag  bool     `json:"nametag,omitempty"` // accepts a name tag
	Stickers int      `json:"stickers,omitempty"`
}

// IsStorageUnit reports whether the definition is the storage unit tool.
func (d *ItemDef) IsStorageUnit() bool {
	return d.Type == TypeTool && d.Model == ModelStorageUnit
}

// IsNameTagTool reports whether the definition is the name tag tool.
func (d *ItemDef) IsNameTagTool() bool {
	return d.Type == TypeTool && d.Model == ModelNameTag
}

// IsStatTrakSwapTool reports whether the definition is the StatTrak swap tool.
func (d *ItemDef) IsStatTrakSwapTool() bool {
	return d.Type == TypeTool && d.Model == ModelStatTrakSwap
}

// Equippable reports whether items of this definition occupy an equip slot.
func (d *ItemDef) Equippable() bool {
	switch d.Type {
	case TypeWeapon, TypeMelee, TypeGlove, TypeAgent, TypeMusicKit:
		return true
	}
	return false
}
