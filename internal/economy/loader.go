package economy

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/loadoutlab/armory/internal/domain"
	"github.com/loadoutlab/armory/internal/validation"
)

// Config represents the JSON configuration for economy items
type Config struct {
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`

	Items []domain.ItemDef `json:"items"`
}

// Loader handles loading and validating the economy item configuration
type Loader interface {
	Load(path string) (*Config, error)
	Validate(config *Config) error
}

type itemLoader struct {
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a new Loader instance
func NewLoader() Loader {
	return &itemLoader{
		schemaValidator: validation.NewSchemaValidator(),
	}
}

// Load reads and parses an items JSON file
func (l *itemLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadConfigFileFailed, err)
	}

	// Validate against schema first
	if err := l.schemaValidator.ValidateBytes(data, ItemsSchemaPath); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(ErrMsgParseConfigFailed, err)
	}

	return &config, nil
}

// Validate performs semantic checks the schema cannot express
func (l *itemLoader) Validate(config *Config) error {
	seen := make(map[int]bool, len(config.Items))
	for _, def := range config.Items {
		if seen[def.ID] {
			return fmt.Errorf("%w: duplicate item id %d", domain.ErrInvalidInput, def.ID)
		}
		seen[def.ID] = true

		if def.Type == domain.TypeWeapon && def.Stickers == 0 {
			return fmt.Errorf("%w: weapon %d must declare sticker slots", domain.ErrInvalidInput, def.ID)
		}
		if def.Type == domain.TypeTool && def.Model == "" {
			return fmt.Errorf("%w: tool %d must declare a model", domain.ErrInvalidInput, def.ID)
		}
	}
	return nil
}

// LoadCatalog is the startup helper: load, validate and index the catalog.
func LoadCatalog(path string) (Catalog, error) {
	loader := NewLoader()
	cfg, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	if err := loader.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid items config: %w", err)
	}
	return NewCatalog(cfg.Items)
}
