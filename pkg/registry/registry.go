// Package registry holds the block-type palette: per-type factories
// supplying the default settings payload (and optional seed children)
// for newly inserted blocks. The engine consumes the registry on
// insert and otherwise treats settings as opaque data.
package registry

import (
	"fmt"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/lattice/pkg/domain"
)

// Definition is the seed payload for a new block of one type.
type Definition struct {
	Settings map[string]any
	Children []*domain.Node
}

// Factory produces the default definition for a block type.
// It is invoked once per insert triggered by "add a new block".
type Factory func() Definition

// Registry manages the available block types.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a block type to the registry.
// If a type with the same name exists, it is overwritten.
func (r *Registry) Register(blockType string, fn Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[blockType] = fn
}

// Types returns the registered block type names.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	return types
}

// CreateDefault builds a fresh node of the given type with a newly
// minted id and the type's default settings. Returns
// domain.ErrUnknownBlockType when no factory is registered.
func (r *Registry) CreateDefault(blockType string) (*domain.Node, error) {
	r.mu.RLock()
	fn, ok := r.factories[blockType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownBlockType, blockType)
	}

	def := fn()
	node := &domain.Node{
		ID:       domain.NewID(),
		Type:     blockType,
		Settings: def.Settings,
	}
	for _, child := range def.Children {
		c := child.Clone()
		c.ID = domain.NewID()
		node.Children = append(node.Children, c)
	}
	return node, nil
}

// DecodeSettings maps an opaque settings bag onto a typed struct, for
// block renderers that want a schema-checked view. Unknown keys are
// ignored; type mismatches surface as an error.
func DecodeSettings(settings map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "settings",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build settings decoder: %w", err)
	}
	if err := dec.Decode(settings); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}
	return nil
}

// Defaults returns a registry preloaded with the common block types.
// Hosts typically start from this and register their own types on top.
func Defaults() *Registry {
	r := New()
	r.Register(domain.BlockTypeHeading, func() Definition {
		return Definition{Settings: map[string]any{"text": "", "level": 2}}
	})
	r.Register(domain.BlockTypeParagraph, func() Definition {
		return Definition{Settings: map[string]any{"text": ""}}
	})
	r.Register(domain.BlockTypeImage, func() Definition {
		return Definition{Settings: map[string]any{"src": "", "alt": ""}}
	})
	r.Register(domain.BlockTypeContainer, func() Definition {
		return Definition{Settings: map[string]any{"direction": "column"}}
	})
	r.Register(domain.BlockTypeColumns, func() Definition {
		return Definition{
			Settings: map[string]any{"gap": 16},
			Children: []*domain.Node{
				{Type: domain.BlockTypeContainer, Settings: map[string]any{"direction": "column"}},
				{Type: domain.BlockTypeContainer, Settings: map[string]any{"direction": "column"}},
			},
		}
	})
	return r
}
