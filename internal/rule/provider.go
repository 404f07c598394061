package rule

import (
	"context"
	"fmt"
	"slices"

	"github.com/loadoutlab/armory/internal/config"
	"github.com/loadoutlab/armory/internal/domain"
)

// Rule keys understood by the inventory core.
const (
	InventoryMaxItems            = "InventoryMaxItems"
	InventoryStorageUnitMaxItems = "InventoryStorageUnitMaxItems"
	InventoryItemAllowEdit       = "InventoryItemAllowEdit"
	CraftHideID                  = "CraftHideID"
	CraftHideCategory            = "CraftHideCategory"
	CraftHideType                = "CraftHideType"
	CraftHideModel               = "CraftHideModel"
)

// Provider returns configured business rule values, globally or per user.
// Implementations are read-only and safe for concurrent use.
type Provider interface {
	Bool(ctx context.Context, key, userID string) (bool, error)
	Int(ctx context.Context, key, userID string) (int, error)
	IntList(ctx context.Context, key, userID string) ([]int, error)
	StringList(ctx context.Context, key, userID string) ([]string, error)
}

// configProvider serves rules from the loaded application config. Per-user
// overrides are not supported here; every user sees the global values.
type configProvider struct {
	cfg *config.Config
}

// NewConfigProvider creates a Provider backed by application config.
func NewConfigProvider(cfg *config.Config) Provider {
	return &configProvider{cfg: cfg}
}

func (p *configProvider) Bool(ctx context.Context, key, userID string) (bool, error) {
	switch key {
	case InventoryItemAllowEdit:
		return p.cfg.InventoryItemAllowEdit, nil
	}
	return false, fmt.Errorf("%w: unknown bool rule %q", domain.ErrInvalidInput, key)
}

func (p *configProvider) Int(ctx context.Context, key, userID string) (int, error) {
	switch key {
	case InventoryMaxItems:
		return p.cfg.InventoryMaxItems, nil
	case InventoryStorageUnitMaxItems:
		return p.cfg.InventoryStorageUnitMaxItems, nil
	}
	return 0, fmt.Errorf("%w: unknown int rule %q", domain.ErrInvalidInput, key)
}

func (p *configProvider) IntList(ctx context.Context, key, userID string) ([]int, error) {
	switch key {
	case CraftHideID:
		return p.cfg.CraftHideID, nil
	}
	return nil, fmt.Errorf("%w: unknown int list rule %q", domain.ErrInvalidInput, key)
}

func (p *configProvider) StringList(ctx context.Context, key, userID string) ([]string, error) {
	switch key {
	case CraftHideCategory:
		return p.cfg.CraftHideCategory, nil
	case CraftHideType:
		return p.cfg.CraftHideType, nil
	case CraftHideModel:
		return p.cfg.CraftHideModel, nil
	}
	return nil, fmt.Errorf("%w: unknown string list rule %q", domain.ErrInvalidInput, key)
}

// ExpectNotContainInt fails with ErrRuleViolation when the int list rule
// contains the given value.
func ExpectNotContainInt(ctx context.Context, p Provider, key string, value int, userID string) error {
	list, err := p.IntList(ctx, key, userID)
	if err != nil {
		return err
	}
	if slices.Contains(list, value) {
		return fmt.Errorf("%w: %s contains %d", domain.ErrRuleViolation, key, value)
	}
	return nil
}

// ExpectNotContainString fails with ErrRuleViolation when the string list
// rule contains the given value.
func ExpectNotContainString(ctx context.Context, p Provider, key, value, userID string) error {
	list, err := p.StringList(ctx, key, userID)
	if err != nil {
		return err
	}
	if slices.Contains(list, value) {
		return fmt.Errorf("%w: %s contains %q", domain.ErrRuleViolation, key, value)
	}
	return nil
}
