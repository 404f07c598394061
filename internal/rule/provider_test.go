package rule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadoutlab/armory/internal/config"
	"github.com/loadoutlab/armory/internal/domain"
)

const anyUser = "some-user"

func testProvider() Provider {
	return NewConfigProvider(&config.Config{
		InventoryMaxItems:            256,
		InventoryStorageUnitMaxItems: 32,
		InventoryItemAllowEdit:       true,
		CraftHideID:                  []int{10, 11},
		CraftHideCategory:            []string{"rifle"},
		CraftHideType:                []string{"case"},
		CraftHideModel:               []string{"ak-47"},
	})
}

func TestConfigProvider(t *testing.T) {
	ctx := context.Background()
	p := testProvider()

	allowed, err := p.Bool(ctx, InventoryItemAllowEdit, anyUser)
	require.NoError(t, err)
	assert.True(t, allowed)

	maxItems, err := p.Int(ctx, InventoryMaxItems, anyUser)
	require.NoError(t, err)
	assert.Equal(t, 256, maxItems)

	unitMax, err := p.Int(ctx, InventoryStorageUnitMaxItems, anyUser)
	require.NoError(t, err)
	assert.Equal(t, 32, unitMax)

	hidden, err := p.IntList(ctx, CraftHideID, anyUser)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11}, hidden)

	models, err := p.StringList(ctx, CraftHideModel, anyUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"ak-47"}, models)
}

func TestConfigProvider_UnknownKeys(t *testing.T) {
	ctx := context.Background()
	p := testProvider()

	_, err := p.Bool(ctx, "NoSuchRule", anyUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = p.Int(ctx, "NoSuchRule", anyUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = p.IntList(ctx, "NoSuchRule", anyUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = p.StringList(ctx, "NoSuchRule", anyUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExpectNotContainInt(t *testing.T) {
	ctx := context.Background()
	p := testProvider()

	assert.NoError(t, ExpectNotContainInt(ctx, p, CraftHideID, 12, anyUser))
	assert.ErrorIs(t, ExpectNotContainInt(ctx, p, CraftHideID, 10, anyUser), domain.ErrRuleViolation)
}

func TestExpectNotContainString(t *testing.T) {
	ctx := context.Background()
	p := testProvider()

	assert.NoError(t, ExpectNotContainString(ctx, p, CraftHideCategory, "pistol", anyUser))
	assert.ErrorIs(t, ExpectNotContainString(ctx, p, CraftHideCategory, "rifle", anyUser), domain.ErrRuleViolation)
}
