package sync

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/loadoutlab/armory/internal/domain"
)

// Action type tags as the client submits them.
const (
	ActionAdd                     = "add"
	ActionAddFromCache            = "add-from-cache"
	ActionAddWithNametag          = "add-with-nametag"
	ActionAddWithSticker          = "add-with-sticker"
	ActionApplyItemSticker        = "apply-item-sticker"
	ActionDepositToStorageUnit    = "deposit-to-storage-unit"
	ActionEdit                    = "edit"
	ActionEquip                   = "equip"
	ActionRemove                  = "remove"
	ActionRemoveAllItems          = "remove-all-items"
	ActionRenameItem              = "rename-item"
	ActionRenameStorageUnit       = "rename-storage-unit"
	ActionRetrieveFromStorageUnit = "retrieve-from-storage-unit"
	ActionScrapeItemSticker       = "scrape-item-sticker"
	ActionSwapItemsStatTrak       = "swap-items-stattrak"
	ActionUnequip                 = "unequip"
)

// ClientItem is the item shape the client may submit when adding or
// editing. It is stricter than the persisted shape: a client can only ever
// claim a zero StatTrak counter.
type ClientItem struct {
	ID           int       `json:"id" validate:"min=0"`
	Equipped     bool      `json:"equipped,omitempty"`
	EquippedCT   bool      `json:"equippedCT,omitempty"`
	EquippedT    bool      `json:"equippedT,omitempty"`
	Nametag      string    `json:"nametag,omitempty"`
	Seed         int       `json:"seed,omitempty" validate:"omitempty,min=1,max=1000"`
	StatTrak     *int      `json:"stattrak,omitempty" validate:"omitempty,eq=0"`
	Stickers     []int     `json:"stickers,omitempty" validate:"omitempty,max=4,dive,min=0"`
	StickersWear []float64 `json:"stickerswear,omitempty" validate:"omitempty,max=4,dive,min=0,max=1"`
	Wear         float64   `json:"wear,omitempty" validate:"omitempty,min=0,max=1"`
}

// ToInventoryItem converts the client shape into the aggregate's shape.
func (c ClientItem) ToInventoryItem() domain.InventoryItem {
	return domain.InventoryItem{
		ID:           c.ID,
		Equipped:     c.Equipped,
		EquippedCT:   c.EquippedCT,
		EquippedT:    c.EquippedT,
		Nametag:      c.Nametag,
		Seed:         c.Seed,
		StatTrak:     c.StatTrak,
		Stickers:     c.Stickers,
		StickersWear: c.StickersWear,
		Wear:         c.Wear,
	}
}

// Action is one typed mutation request from the sync batch.
type Action interface {
	// Kind returns the wire type tag.
	Kind() string
}

type AddAction struct {
	Type string     `json:"type"`
	Item ClientItem `json:"item" validate:"required"`
}

type AddFromCacheAction struct {
	Type string `json:"type"`
	// Items uses the persisted shape: a previously exported inventory may
	// legitimately carry non-zero StatTrak counters. Uids are ignored on
	// import.
	Items []domain.InventoryItem `json:"items"`
}

type AddWithNametagAction struct {
	Type    string `json:"type"`
	ToolUID int    `json:"toolUid" validate:"min=0"`
	ItemID  int    `json:"itemId" validate:"min=0"`
	Nametag string `json:"nametag" validate:"required"`
}

type AddWithStickerAction struct {
	Type         string `json:"type"`
	StickerUID   int    `json:"stickerUid" validate:"min=0"`
	ItemID       int    `json:"itemId" validate:"min=0"`
	StickerIndex int    `json:"stickerIndex" validate:"min=0,max=3"`
}

type ApplyItemStickerAction struct {
	Type         string `json:"type"`
	TargetUID    int    `json:"targetUid" validate:"min=0"`
	StickerUID   int    `json:"stickerUid" validate:"min=0"`
	StickerIndex int    `json:"stickerIndex" validate:"min=0,max=3"`
}

type DepositToStorageUnitAction struct {
	Type        string `json:"type"`
	UID         int    `json:"uid" validate:"min=0"`
	DepositUIDs []int  `json:"depositUids" validate:"max=1,dive,min=0"`
}

type EditAction struct {
	Type       string     `json:"type"`
	UID        int        `json:"uid" validate:"min=0"`
	Attributes ClientItem `json:"attributes" validate:"required"`
}

type EquipAction struct {
	Type string `json:"type"`
	UID  int    `json:"uid" validate:"min=0"`
	Team *int   `json:"team,omitempty" validate:"omitempty,oneof=0 2 3"`
}

type RemoveAction struct {
	Type string `json:"type"`
	UID  int    `json:"uid" validate:"min=0"`
}

type RemoveAllItemsAction struct {
	Type string `json:"type"`
}

type RenameItemAction struct {
	Type      string  `json:"type"`
	ToolUID   int     `json:"toolUid" validate:"min=0"`
	TargetUID int     `json:"targetUid" validate:"min=0"`
	Nametag   *string `json:"nametag,omitempty"`
}

type RenameStorageUnitAction struct {
	Type    string `json:"type"`
	UID     int    `json:"uid" validate:"min=0"`
	Nametag string `json:"nametag" validate:"required"`
}

type RetrieveFromStorageUnitAction struct {
	Type         string `json:"type"`
	UID          int    `json:"uid" validate:"min=0"`
	RetrieveUIDs []int  `json:"retrieveUids" validate:"max=1,dive,min=0"`
}

type ScrapeItemStickerAction struct {
	Type         string `json:"type"`
	TargetUID    int    `json:"targetUid" validate:"min=0"`
	StickerIndex int    `json:"stickerIndex" validate:"min=0,max=3"`
}

type SwapItemsStatTrakAction struct {
	Type    string `json:"type"`
	ToolUID int    `json:"toolUid" validate:"min=0"`
	FromUID int    `json:"fromUid" validate:"min=0"`
	ToUID   int    `json:"toUid" validate:"min=0"`
}

type UnequipAction struct {
	Type string `json:"type"`
	UID  int    `json:"uid" validate:"min=0"`
	Team *int   `json:"team,omitempty" validate:"omitempty,oneof=0 2 3"`
}

func (a *AddAction) Kind() string                     { return ActionAdd }
func (a *AddFromCacheAction) Kind() string            { return ActionAddFromCache }
func (a *AddWithNametagAction) Kind() string          { return ActionAddWithNametag }
func (a *AddWithStickerAction) Kind() string          { return ActionAddWithSticker }
func (a *ApplyItemStickerAction) Kind() string        { return ActionApplyItemSticker }
func (a *DepositToStorageUnitAction) Kind() string    { return ActionDepositToStorageUnit }
func (a *EditAction) Kind() string                    { return ActionEdit }
func (a *EquipAction) Kind() string                   { return ActionEquip }
func (a *RemoveAction) Kind() string                  { return ActionRemove }
func (a *RemoveAllItemsAction) Kind() string          { return ActionRemoveAllItems }
func (a *RenameItemAction) Kind() string              { return ActionRenameItem }
func (a *RenameStorageUnitAction) Kind() string       { return ActionRenameStorageUnit }
func (a *RetrieveFromStorageUnitAction) Kind() string { return ActionRetrieveFromStorageUnit }
func (a *ScrapeItemStickerAction) Kind() string       { return ActionScrapeItemSticker }
func (a *SwapItemsStatTrakAction) Kind() string       { return ActionSwapItemsStatTrak }
func (a *UnequipAction) Kind() string                 { return ActionUnequip }

var validate = validator.New()

// ParseActions decodes and validates a raw action batch. Unknown type tags
// and unknown fields reject the whole batch; nothing is applied when any
// element is malformed.
func ParseActions(raw []json.RawMessage) ([]Action, error) {
	actions := make([]Action, 0, len(raw))
	for i, msg := range raw {
		action, err := parseAction(msg)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func parseAction(msg json.RawMessage) (Action, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &tag); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	var action Action
	switch tag.Type {
	case ActionAdd:
		action = &AddAction{}
	case ActionAddFromCache:
		action = &AddFromCacheAction{}
	case ActionAddWithNametag:
		action = &AddWithNametagAction{}
	case ActionAddWithSticker:
		action = &AddWithStickerAction{}
	case ActionApplyItemSticker:
		action = &ApplyItemStickerAction{}
	case ActionDepositToStorageUnit:
		action = &DepositToStorageUnitAction{}
	case ActionEdit:
		action = &EditAction{}
	case ActionEquip:
		action = &EquipAction{}
	case ActionRemove:
		action = &RemoveAction{}
	case ActionRemoveAllItems:
		action = &RemoveAllItemsAction{}
	case ActionRenameItem:
		action = &RenameItemAction{}
	case ActionRenameStorageUnit:
		action = &RenameStorageUnitAction{}
	case ActionRetrieveFromStorageUnit:
		action = &RetrieveFromStorageUnitAction{}
	case ActionScrapeItemSticker:
		action = &ScrapeItemStickerAction{}
	case ActionSwapItemsStatTrak:
		action = &SwapItemsStatTrakAction{}
	case ActionUnequip:
		action = &UnequipAction{}
	default:
		return nil, fmt.Errorf("%w: unknown action type %q", domain.ErrInvalidInput, tag.Type)
	}

	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.DisallowUnknownFields()
	if err := dec.Decode(action); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := validate.Struct(action); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return action, nil
}

func teamValue(team *int) domain.Team {
	if team == nil {
		return domain.TeamNone
	}
	return domain.Team(*team)
}
