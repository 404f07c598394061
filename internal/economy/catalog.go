package economy

import (
	"fmt"

	"github.com/loadoutlab/armory/internal/domain"
)

// Catalog resolves catalog item ids to their static definitions. It is
// read-only and safe for concurrent use.
type Catalog interface {
	Get(id int) (*domain.ItemDef, error)
}

type catalog struct {
	defs map[int]*domain.ItemDef
}

// NewCatalog builds a Catalog from a list of definitions.
func NewCatalog(defs []domain.ItemDef) (Catalog, error) {
	m := make(map[int]*domain.ItemDef, len(defs))
	for i := range defs {
		def := &defs[i]
		if _, ok := m[def.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate id %d", domain.ErrInvalidInput, def.ID)
		}
		m[def.ID] = def
	}
	return &catalog{defs: m}, nil
}

func (c *catalog) Get(id int) (*domain.ItemDef, error) {
	def, ok := c.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrItemNotFound, id)
	}
	return def, nil
}
