package inventory

import (
	"fmt"
	"math"

	"github.com/loadoutlab/armory/internal/domain"
	"github.com/loadoutlab/armory/internal/economy"
)

// Inventory is the in-memory aggregate for one user's items. It owns uid
// assignment and every mutation invariant; callers route operations here
// and never poke item fields directly.
//
// Deposited items stay in the uid map (and in Export) but leave the
// top-level list; the top-level capacity check ignores them.
//
// Not safe for concurrent use. The sync coordinator serializes access per
// user.
type Inventory struct {
	catalog             economy.Catalog
	maxItems            int
	storageUnitMaxItems int

	items     map[int]*domain.InventoryItem
	order     []int       // all uids, insertion order
	deposited map[int]int // item uid -> storage unit uid
	nextUID   int
}

// New builds an aggregate from persisted items. A nil or empty slice is a
// fresh inventory. Persisted uids are kept; new uids continue after the
// highest seen.
func New(catalog economy.Catalog, items []domain.InventoryItem, maxItems, storageUnitMaxItems int) (*Inventory, error) {
	inv := &Inventory{
		catalog:             catalog,
		maxItems:            maxItems,
		storageUnitMaxItems: storageUnitMaxItems,
		items:               make(map[int]*domain.InventoryItem, len(items)),
		deposited:           make(map[int]int),
	}

	for i := range items {
		it := items[i].Clone()
		if _, exists := inv.items[it.UID]; exists {
			return nil, fmt.Errorf("%w: duplicate uid %d", domain.ErrInvalidInput, it.UID)
		}
		inv.items[it.UID] = it
		inv.order = append(inv.order, it.UID)
		if it.UID >= inv.nextUID {
			inv.nextUID = it.UID + 1
		}
	}

	for _, uid := range inv.order {
		unit := inv.items[uid]
		if len(unit.ContainedItems) == 0 {
			continue
		}
		kept := unit.ContainedItems[:0]
		for _, contained := range unit.ContainedItems {
			if _, ok := inv.items[contained]; !ok {
				// Dangling reference in persisted state; drop it.
				continue
			}
			inv.deposited[contained] = uid
			kept = append(kept, contained)
		}
		unit.ContainedItems = kept
	}

	return inv, nil
}

// TopLevelCount returns the number of items outside storage units.
func (inv *Inventory) TopLevelCount() int {
	return len(inv.order) - len(inv.deposited)
}

// Get returns the item at uid.
func (inv *Inventory) Get(uid int) (*domain.InventoryItem, error) {
	it, ok := inv.items[uid]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrUIDNotFound, uid)
	}
	return it, nil
}

// getTopLevel returns the item at uid, failing for deposited items: an
// item inside a storage unit is not addressable until retrieved.
func (inv *Inventory) getTopLevel(uid int) (*domain.InventoryItem, error) {
	it, err := inv.Get(uid)
	if err != nil {
		return nil, err
	}
	if _, isDeposited := inv.deposited[uid]; isDeposited {
		return nil, fmt.Errorf("%w: %d is deposited", domain.ErrUIDNotFound, uid)
	}
	return it, nil
}

func (inv *Inventory) def(id int) (*domain.ItemDef, error) {
	return inv.catalog.Get(id)
}

// Add validates and inserts a client-supplied item under a fresh uid.
// Equip flags and containment are server-decided and stripped.
func (inv *Inventory) Add(item domain.InventoryItem) (int, error) {
	if inv.TopLevelCount() >= inv.maxItems {
		return 0, domain.ErrInventoryFull
	}
	return inv.insert(item)
}

// insert performs Add without the capacity check. Used by the tool-consuming
// add variants, which free a slot before inserting.
func (inv *Inventory) insert(item domain.InventoryItem) (int, error) {
	def, err := inv.def(item.ID)
	if err != nil {
		return 0, err
	}
	if def.Free {
		return 0, fmt.Errorf("%w: free items cannot be owned", domain.ErrWrongItemType)
	}

	it := item.Clone()
	it.UID = inv.nextUID
	it.Equipped = false
	it.EquippedCT = false
	it.EquippedT = false
	it.ContainedItems = nil

	if it.Nametag != "" {
		it.Nametag = economy.NormalizeNametag(it.Nametag)
		if err := economy.ValidateNametag(it.Nametag); err != nil {
			return 0, err
		}
	}
	if err := economy.ValidateSeed(it.Seed); err != nil {
		return 0, err
	}
	if err := economy.ValidateWear(it.Wear); err != nil {
		return 0, err
	}
	if !def.StatTrak {
		it.StatTrak = nil
	} else if it.StatTrak != nil {
		if err := economy.ValidateStatTrak(*it.StatTrak); err != nil {
			return 0, err
		}
	}
	if def.Stickers == 0 {
		it.Stickers = nil
		it.StickersWear = nil
	} else {
		if err := economy.ValidateStickers(it.Stickers, it.StickersWear); err != nil {
			return 0, err
		}
		normalizeStickers(it)
	}

	inv.items[it.UID] = it
	inv.order = append(inv.order, it.UID)
	inv.nextUID++
	return it.UID, nil
}

// AddWithNametag consumes the name tag tool at toolUid and creates a new
// item of itemID carrying the nametag.
func (inv *Inventory) AddWithNametag(toolUid, itemID int, nametag string) (int, error) {
	tool, err := inv.getTopLevel(toolUid)
	if err != nil {
		return 0, err
	}
	toolDef, err := inv.def(tool.ID)
	if err != nil {
		return 0, err
	}
	if !toolDef.IsNameTagTool() {
		return 0, fmt.Errorf("%w: uid %d is not a name tag", domain.ErrInvalidTool, toolUid)
	}

	nametag = economy.NormalizeNametag(nametag)
	if nametag == "" {
		return 0, fmt.Errorf("%w: nametag is required", domain.ErrInvalidInput)
	}
	if err := economy.ValidateNametag(nametag); err != nil {
		return 0, err
	}
	def, err := inv.def(itemID)
	if err != nil {
		return 0, err
	}
	if !def.NameTag {
		return 0, fmt.Errorf("%w: item %d does not accept a nametag", domain.ErrWrongItemType, itemID)
	}
	// Consuming the tool frees a slot, so the count stays within bounds.
	if inv.TopLevelCount()-1 >= inv.maxItems {
		return 0, domain.ErrInventoryFull
	}

	inv.removeItem(toolUid)
	return inv.insert(domain.InventoryItem{ID: itemID, Nametag: nametag})
}

// AddWithSticker consumes the sticker item at stickerUid and creates a new
// item of itemID with that sticker applied at stickerIndex.
func (inv *Inventory) AddWithSticker(stickerUid, itemID, stickerIndex int) (int, error) {
	sticker, err := inv.getTopLevel(stickerUid)
	if err != nil {
		return 0, err
	}
	stickerDef, err := inv.def(sticker.ID)
	if err != nil {
		return 0, err
	}
	if stickerDef.Type != domain.TypeSticker {
		return 0, fmt.Errorf("%w: uid %d is not a sticker", domain.ErrInvalidTool, stickerUid)
	}
	if err := economy.ValidateStickerIndex(stickerIndex); err != nil {
		return 0, err
	}
	def, err := inv.def(itemID)
	if err != nil {
		return 0, err
	}
	if def.Stickers == 0 {
		return 0, fmt.Errorf("%w: item %d does not take stickers", domain.ErrWrongItemType, itemID)
	}
	if inv.TopLevelCount()-1 >= inv.maxItems {
		return 0, domain.ErrInventoryFull
	}

	stickers := make([]int, domain.StickerSlots)
	wears := make([]float64, domain.StickerSlots)
	stickers[stickerIndex] = sticker.ID

	inv.removeItem(stickerUid)
	return inv.insert(domain.InventoryItem{ID: itemID, Stickers: stickers, StickersWear: wears})
}

// ApplyItemSticker moves a sticker from the sticker item onto the target's
// slot at stickerIndex with fresh wear, consuming the sticker item.
func (inv *Inventory) ApplyItemSticker(targetUid, stickerUid, stickerIndex int) error {
	target, err := inv.getTopLevel(targetUid)
	if err != nil {
		return err
	}
	sticker, err := inv.getTopLevel(stickerUid)
	if err != nil {
		return err
	}
	targetDef, err := inv.def(target.ID)
	if err != nil {
		return err
	}
	if targetDef.Stickers == 0 {
		return fmt.Errorf("%w: item %d does not take stickers", domain.ErrWrongItemType, target.ID)
	}
	stickerDef, err := inv.def(sticker.ID)
	if err != nil {
		return err
	}
	if stickerDef.Type != domain.TypeSticker {
		return fmt.Errorf("%w: uid %d is not a sticker", domain.ErrInvalidTool, stickerUid)
	}
	if err := economy.ValidateStickerIndex(stickerIndex); err != nil {
		return err
	}

	ensureStickerSlots(target)
	if target.Stickers[stickerIndex] != domain.NoSticker {
		return fmt.Errorf("%w: slot %d", domain.ErrStickerSlotOccupied, stickerIndex)
	}

	target.Stickers[stickerIndex] = sticker.ID
	target.StickersWear[stickerIndex] = domain.NoStickerWear
	inv.removeItem(stickerUid)
	return nil
}

// ScrapeItemSticker advances the wear of the sticker at stickerIndex. Once
// wear would pass the maximum the sticker comes off and the slot frees.
func (inv *Inventory) ScrapeItemSticker(targetUid, stickerIndex int) error {
	target, err := inv.getTopLevel(targetUid)
	if err != nil {
		return err
	}
	if err := economy.ValidateStickerIndex(stickerIndex); err != nil {
		return err
	}
	if stickerIndex >= len(target.Stickers) || target.Stickers[stickerIndex] == domain.NoSticker {
		return fmt.Errorf("%w: slot %d", domain.ErrStickerSlotEmpty, stickerIndex)
	}
	ensureStickerSlots(target)

	next := math.Round((target.StickersWear[stickerIndex]+economy.StickerWearStep)*10) / 10
	if next > economy.MaxStickerWear {
		target.Stickers[stickerIndex] = domain.NoSticker
		target.StickersWear[stickerIndex] = domain.NoStickerWear
		if !target.HasSticker() {
			target.Stickers = nil
			target.StickersWear = nil
		}
		return nil
	}
	target.StickersWear[stickerIndex] = next
	return nil
}

// Equip marks the item as equipped for the given team, unequipping any
// other item of the same equip slot first. Equipping an already equipped
// item is a no-op.
func (inv *Inventory) Equip(uid int, team domain.Team) error {
	it, err := inv.getTopLevel(uid)
	if err != nil {
		return err
	}
	def, err := inv.def(it.ID)
	if err != nil {
		return err
	}
	if !def.Equippable() {
		return fmt.Errorf("%w: item %d cannot be equipped", domain.ErrWrongItemType, it.ID)
	}

	for _, otherUID := range inv.order {
		if otherUID == uid {
			continue
		}
		if _, isDeposited := inv.deposited[otherUID]; isDeposited {
			continue
		}
		other := inv.items[otherUID]
		otherDef, err := inv.def(other.ID)
		if err != nil {
			return err
		}
		if otherDef.Type == def.Type && otherDef.Category == def.Category {
			setEquipped(other, team, false)
		}
	}

	setEquipped(it, team, true)
	return nil
}

// Unequip clears the equip flag for the given team.
func (inv *Inventory) Unequip(uid int, team domain.Team) error {
	it, err := inv.getTopLevel(uid)
	if err != nil {
		return err
	}
	setEquipped(it, team, false)
	return nil
}

// RenameItem consumes the name tag tool and sets or clears the target's
// nametag. An empty nametag clears it.
func (inv *Inventory) RenameItem(toolUid, targetUid int, nametag string) error {
	tool, err := inv.getTopLevel(toolUid)
	if err != nil {
		return err
	}
	toolDef, err := inv.def(tool.ID)
	if err != nil {
		return err
	}
	if !toolDef.IsNameTagTool() {
		return fmt.Errorf("%w: uid %d is not a name tag", domain.ErrInvalidTool, toolUid)
	}
	target, err := inv.getTopLevel(targetUid)
	if err != nil {
		return err
	}
	targetDef, err := inv.def(target.ID)
	if err != nil {
		return err
	}
	if !targetDef.NameTag {
		return fmt.Errorf("%w: item %d does not accept a nametag", domain.ErrWrongItemType, target.ID)
	}

	nametag = economy.NormalizeNametag(nametag)
	if err := economy.ValidateNametag(nametag); err != nil {
		return err
	}

	target.Nametag = nametag
	inv.removeItem(toolUid)
	return nil
}

// RenameStorageUnit names a storage unit directly; no tool is consumed.
func (inv *Inventory) RenameStorageUnit(uid int, nametag string) error {
	unit, err := inv.getTopLevel(uid)
	if err != nil {
		return err
	}
	def, err := inv.def(unit.ID)
	if err != nil {
		return err
	}
	if !def.IsStorageUnit() {
		return fmt.Errorf("%w: uid %d is not a storage unit", domain.ErrWrongItemType, uid)
	}

	nametag = economy.NormalizeNametag(nametag)
	if nametag == "" {
		return fmt.Errorf("%w: nametag is required", domain.ErrInvalidInput)
	}
	if err := economy.ValidateNametag(nametag); err != nil {
		return err
	}

	unit.Nametag = nametag
	return nil
}

// Remove deletes the item. Removing a storage unit removes its contents;
// removing a deposited item detaches it from its unit.
func (inv *Inventory) Remove(uid int) error {
	if _, err := inv.Get(uid); err != nil {
		return err
	}
	inv.removeItem(uid)
	return nil
}

// RemoveAll clears the inventory unconditionally.
func (inv *Inventory) RemoveAll() {
	inv.items = make(map[int]*domain.InventoryItem)
	inv.order = nil
	inv.deposited = make(map[int]int)
}

// DepositToStorageUnit moves the listed items into the storage unit at uid.
// The unit must be named before first use.
func (inv *Inventory) DepositToStorageUnit(uid int, depositUids []int) error {
	unit, err := inv.getTopLevel(uid)
	if err != nil {
		return err
	}
	def, err := inv.def(unit.ID)
	if err != nil {
		return err
	}
	if !def.IsStorageUnit() {
		return fmt.Errorf("%w: uid %d is not a storage unit", domain.ErrWrongItemType, uid)
	}
	if unit.Nametag == "" {
		return domain.ErrStorageUnitNotNamed
	}
	if len(unit.ContainedItems)+len(depositUids) > inv.storageUnitMaxItems {
		return domain.ErrStorageUnitFull
	}
	for _, depositUid := range depositUids {
		item, err := inv.getTopLevel(depositUid)
		if err != nil {
			return err
		}
		itemDef, err := inv.def(item.ID)
		if err != nil {
			return err
		}
		if itemDef.IsStorageUnit() {
			return fmt.Errorf("%w: storage units cannot be nested", domain.ErrWrongItemType)
		}
	}

	for _, depositUid := range depositUids {
		item := inv.items[depositUid]
		item.Equipped = false
		item.EquippedCT = false
		item.EquippedT = false
		inv.deposited[depositUid] = uid
		unit.ContainedItems = append(unit.ContainedItems, depositUid)
	}
	return nil
}

// RetrieveFromStorageUnit moves the listed items from the storage unit at
// uid back into the top-level inventory.
func (inv *Inventory) RetrieveFromStorageUnit(uid int, retrieveUids []int) error {
	unit, err := inv.getTopLevel(uid)
	if err != nil {
		return err
	}
	def, err := inv.def(unit.ID)
	if err != nil {
		return err
	}
	if !def.IsStorageUnit() {
		return fmt.Errorf("%w: uid %d is not a storage unit", domain.ErrWrongItemType, uid)
	}
	if inv.TopLevelCount()+len(retrieveUids) > inv.maxItems {
		return domain.ErrInventoryFull
	}
	for _, retrieveUid := range retrieveUids {
		unitUID, isDeposited := inv.deposited[retrieveUid]
		if !isDeposited || unitUID != uid {
			return fmt.Errorf("%w: %d is not in storage unit %d", domain.ErrUIDNotFound, retrieveUid, uid)
		}
	}

	for _, retrieveUid := range retrieveUids {
		delete(inv.deposited, retrieveUid)
		unit.ContainedItems = removeUID(unit.ContainedItems, retrieveUid)
	}
	return nil
}

// EditAttributes carries the editable fields for Edit. StatTrak must
// already be policy-resolved by the caller: the aggregate never takes a
// counter from client input.
type EditAttributes struct {
	Nametag      string
	Seed         int
	Wear         float64
	Stickers     []int
	StickersWear []float64
	StatTrak     *int
}

// Edit replaces editable attributes on an existing item. Identity and
// equip state are preserved.
func (inv *Inventory) Edit(uid int, attrs EditAttributes) error {
	it, err := inv.getTopLevel(uid)
	if err != nil {
		return err
	}
	def, err := inv.def(it.ID)
	if err != nil {
		return err
	}

	nametag := economy.NormalizeNametag(attrs.Nametag)
	if nametag != "" && !def.NameTag {
		return fmt.Errorf("%w: item %d does not accept a nametag", domain.ErrWrongItemType, it.ID)
	}
	if err := economy.ValidateNametag(nametag); err != nil {
		return err
	}
	if err := economy.ValidateSeed(attrs.Seed); err != nil {
		return err
	}
	if err := economy.ValidateWear(attrs.Wear); err != nil {
		return err
	}
	if def.Stickers == 0 && len(attrs.Stickers) > 0 {
		return fmt.Errorf("%w: item %d does not take stickers", domain.ErrWrongItemType, it.ID)
	}
	if err := economy.ValidateStickers(attrs.Stickers, attrs.StickersWear); err != nil {
		return err
	}

	it.Nametag = nametag
	it.Seed = attrs.Seed
	it.Wear = attrs.Wear
	it.Stickers = append([]int(nil), attrs.Stickers...)
	it.StickersWear = append([]float64(nil), attrs.StickersWear...)
	normalizeStickers(it)
	if def.StatTrak {
		it.StatTrak = attrs.StatTrak
	} else {
		it.StatTrak = nil
	}
	return nil
}

// SwapItemsStatTrak consumes the swap tool and exchanges the StatTrak
// counters of the two items.
func (inv *Inventory) SwapItemsStatTrak(toolUid, fromUid, toUid int) error {
	tool, err := inv.getTopLevel(toolUid)
	if err != nil {
		return err
	}
	toolDef, err := inv.def(tool.ID)
	if err != nil {
		return err
	}
	if !toolDef.IsStatTrakSwapTool() {
		return fmt.Errorf("%w: uid %d is not a swap tool", domain.ErrInvalidTool, toolUid)
	}
	from, err := inv.getTopLevel(fromUid)
	if err != nil {
		return err
	}
	to, err := inv.getTopLevel(toUid)
	if err != nil {
		return err
	}
	if from.StatTrak == nil || to.StatTrak == nil {
		return domain.ErrNotStatTrak
	}

	from.StatTrak, to.StatTrak = to.StatTrak, from.StatTrak
	inv.removeItem(toolUid)
	return nil
}

// Export produces all items (top-level and deposited) in insertion order,
// ready for persistence.
func (inv *Inventory) Export() []domain.InventoryItem {
	out := make([]domain.InventoryItem, 0, len(inv.order))
	for _, uid := range inv.order {
		out = append(out, *inv.items[uid].Clone())
	}
	return out
}

// removeItem unlinks uid from every structure. Storage unit contents are
// removed with their unit.
func (inv *Inventory) removeItem(uid int) {
	it, ok := inv.items[uid]
	if !ok {
		return
	}
	for _, contained := range it.ContainedItems {
		delete(inv.deposited, contained)
		delete(inv.items, contained)
		inv.order = removeUID(inv.order, contained)
	}
	if unitUID, isDeposited := inv.deposited[uid]; isDeposited {
		delete(inv.deposited, uid)
		if unit, ok := inv.items[unitUID]; ok {
			unit.ContainedItems = removeUID(unit.ContainedItems, uid)
		}
	}
	delete(inv.items, uid)
	inv.order = removeUID(inv.order, uid)
}

func removeUID(uids []int, uid int) []int {
	for i, v := range uids {
		if v == uid {
			return append(uids[:i], uids[i+1:]...)
		}
	}
	return uids
}

func setEquipped(it *domain.InventoryItem, team domain.Team, equipped bool) {
	switch team {
	case domain.TeamCT:
		it.EquippedCT = equipped
	case domain.TeamT:
		it.EquippedT = equipped
	default:
		it.Equipped = equipped
	}
}

// ensureStickerSlots materializes the fixed-size sticker arrays.
func ensureStickerSlots(it *domain.InventoryItem) {
	if len(it.Stickers) < domain.StickerSlots {
		padded := make([]int, domain.StickerSlots)
		copy(padded, it.Stickers)
		it.Stickers = padded
	}
	if len(it.StickersWear) < domain.StickerSlots {
		padded := make([]float64, domain.StickerSlots)
		copy(padded, it.StickersWear)
		it.StickersWear = padded
	}
}

// normalizeStickers drops empty sticker arrays and pads occupied ones to
// the fixed slot count.
func normalizeStickers(it *domain.InventoryItem) {
	if !it.HasSticker() {
		it.Stickers = nil
		it.StickersWear = nil
		return
	}
	ensureStickerSlots(it)
}
