package sync

import (
	"context"
	"fmt"

	"github.com/loadoutlab/armory/internal/domain"
	"github.com/loadoutlab/armory/internal/economy"
	"github.com/loadoutlab/armory/internal/inventory"
	"github.com/loadoutlab/armory/internal/logger"
	"github.com/loadoutlab/armory/internal/rule"
)

// Dispatcher applies a parsed action batch to an inventory aggregate. It
// owns the checks that sit above the aggregate: craft visibility rules,
// the edit permission, and the one-shot cache import allowed on a user's
// first sync.
type Dispatcher struct {
	catalog economy.Catalog
	rules   rule.Provider
}

func NewDispatcher(catalog economy.Catalog, rules rule.Provider) *Dispatcher {
	return &Dispatcher{catalog: catalog, rules: rules}
}

// Dispatch runs every action in order against inv. The batch is validated
// up front; once the apply loop starts, the first failing action aborts the
// batch and the caller discards the aggregate. firstSync reports whether
// the user had no server-side inventory before this batch.
func (d *Dispatcher) Dispatch(ctx context.Context, inv *inventory.Inventory, userID string, firstSync bool, actions []Action) error {
	if err := d.validateBatch(actions); err != nil {
		return err
	}

	addedFromCache := false
	for i, action := range actions {
		var err error
		switch a := action.(type) {
		case *AddAction:
			err = d.applyAdd(ctx, inv, userID, a)
		case *AddFromCacheAction:
			if firstSync && !addedFromCache {
				d.importCache(ctx, inv, userID, a.Items)
				addedFromCache = true
			}
		case *AddWithNametagAction:
			err = d.applyAddWithNametag(ctx, inv, userID, a)
		case *AddWithStickerAction:
			err = d.applyAddWithSticker(ctx, inv, userID, a)
		case *ApplyItemStickerAction:
			err = inv.ApplyItemSticker(a.TargetUID, a.StickerUID, a.StickerIndex)
		case *DepositToStorageUnitAction:
			err = inv.DepositToStorageUnit(a.UID, a.DepositUIDs)
		case *EditAction:
			err = d.applyEdit(ctx, inv, userID, a)
		case *EquipAction:
			err = inv.Equip(a.UID, teamValue(a.Team))
		case *RemoveAction:
			err = inv.Remove(a.UID)
		case *RemoveAllItemsAction:
			inv.RemoveAll()
		case *RenameItemAction:
			nametag := ""
			if a.Nametag != nil {
				nametag = *a.Nametag
			}
			err = inv.RenameItem(a.ToolUID, a.TargetUID, nametag)
		case *RenameStorageUnitAction:
			err = inv.RenameStorageUnit(a.UID, a.Nametag)
		case *RetrieveFromStorageUnitAction:
			err = inv.RetrieveFromStorageUnit(a.UID, a.RetrieveUIDs)
		case *ScrapeItemStickerAction:
			err = inv.ScrapeItemSticker(a.TargetUID, a.StickerIndex)
		case *SwapItemsStatTrakAction:
			err = inv.SwapItemsStatTrak(a.ToolUID, a.FromUID, a.ToUID)
		case *UnequipAction:
			err = inv.Unequip(a.UID, teamValue(a.Team))
		default:
			err = fmt.Errorf("%w: unhandled action type %q", domain.ErrInvalidInput, action.Kind())
		}
		if err != nil {
			return fmt.Errorf("action %d (%s): %w", i, action.Kind(), err)
		}
	}
	return nil
}

// validateBatch runs the catalog-dependent checks that must all pass
// before any action mutates state.
func (d *Dispatcher) validateBatch(actions []Action) error {
	for i, action := range actions {
		var err error
		switch a := action.(type) {
		case *AddAction:
			err = d.checkCraftable(a.Item.ID)
		case *AddWithNametagAction:
			err = d.checkCraftable(a.ItemID)
		case *AddWithStickerAction:
			err = d.checkCraftable(a.ItemID)
		case *EditAction:
			err = d.checkCraftable(a.Attributes.ID)
		}
		if err != nil {
			return fmt.Errorf("action %d (%s): %w", i, action.Kind(), err)
		}
	}
	return nil
}

// checkCraftable rejects ids the client must never submit directly:
// unknown ids and free base items, which exist on every client already.
func (d *Dispatcher) checkCraftable(id int) error {
	def, err := d.catalog.Get(id)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if def.Free {
		return fmt.Errorf("%w: item %d is a free base item", domain.ErrInvalidInput, id)
	}
	return nil
}

// enforceCraftRules applies the per-user hide lists to an item about to be
// crafted into the inventory.
func (d *Dispatcher) enforceCraftRules(ctx context.Context, userID string, id int) error {
	def, err := d.catalog.Get(id)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := rule.ExpectNotContainInt(ctx, d.rules, rule.CraftHideID, def.ID, userID); err != nil {
		return err
	}
	if def.Category != "" {
		if err := rule.ExpectNotContainString(ctx, d.rules, rule.CraftHideCategory, def.Category, userID); err != nil {
			return err
		}
	}
	if err := rule.ExpectNotContainString(ctx, d.rules, rule.CraftHideType, string(def.Type), userID); err != nil {
		return err
	}
	if def.Model != "" {
		if err := rule.ExpectNotContainString(ctx, d.rules, rule.CraftHideModel, def.Model, userID); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) applyAdd(ctx context.Context, inv *inventory.Inventory, userID string, a *AddAction) error {
	if err := d.enforceCraftRules(ctx, userID, a.Item.ID); err != nil {
		return err
	}
	_, err := inv.Add(a.Item.ToInventoryItem())
	return err
}

func (d *Dispatcher) applyAddWithNametag(ctx context.Context, inv *inventory.Inventory, userID string, a *AddWithNametagAction) error {
	if err := d.enforceCraftRules(ctx, userID, a.ItemID); err != nil {
		return err
	}
	_, err := inv.AddWithNametag(a.ToolUID, a.ItemID, a.Nametag)
	return err
}

func (d *Dispatcher) applyAddWithSticker(ctx context.Context, inv *inventory.Inventory, userID string, a *AddWithStickerAction) error {
	if err := d.enforceCraftRules(ctx, userID, a.ItemID); err != nil {
		return err
	}
	_, err := inv.AddWithSticker(a.StickerUID, a.ItemID, a.StickerIndex)
	return err
}

func (d *Dispatcher) applyEdit(ctx context.Context, inv *inventory.Inventory, userID string, a *EditAction) error {
	allowed, err := d.rules.Bool(ctx, rule.InventoryItemAllowEdit, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return domain.ErrEditForbidden
	}

	existing, err := inv.Get(a.UID)
	if err != nil {
		return err
	}

	attrs := inventory.EditAttributes{
		Nametag:      a.Attributes.Nametag,
		Seed:         a.Attributes.Seed,
		Wear:         a.Attributes.Wear,
		Stickers:     a.Attributes.Stickers,
		StickersWear: a.Attributes.StickersWear,
	}
	// The client flags StatTrak presence but never supplies the counter:
	// presence keeps the server-held value, absence clears it.
	if a.Attributes.StatTrak != nil {
		counter := 0
		if existing.StatTrak != nil {
			counter = *existing.StatTrak
		}
		attrs.StatTrak = &counter
	}
	return inv.Edit(a.UID, attrs)
}

// importCache imports a client-cached inventory item by item. A bad item
// skips, it never fails the batch: the cache is untrusted leftovers from
// before the user's first sync.
func (d *Dispatcher) importCache(ctx context.Context, inv *inventory.Inventory, userID string, items []domain.InventoryItem) {
	log := logger.FromContext(ctx)
	imported := 0
	for _, item := range items {
		if err := d.enforceCraftRules(ctx, userID, item.ID); err != nil {
			log.Debug("skipping cached item", "itemId", item.ID, "error", err)
			continue
		}
		if _, err := inv.Add(item); err != nil {
			log.Debug("skipping cached item", "itemId", item.ID, "error", err)
			continue
		}
		imported++
	}
	log.Info("imported cached inventory", "userId", userID, "imported", imported, "submitted", len(items))
}
