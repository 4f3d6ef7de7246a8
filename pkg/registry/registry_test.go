package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/registry"
)

func TestCreateDefault(t *testing.T) {
	r := registry.New()
	r.Register("quote", func() registry.Definition {
		return registry.Definition{Settings: map[string]any{"text": "", "cite": ""}}
	})

	node, err := r.CreateDefault("quote")
	require.NoError(t, err)
	assert.NotEmpty(t, node.ID)
	assert.Equal(t, "quote", node.Type)
	assert.Equal(t, "", node.Settings["cite"])
}

func TestCreateDefault_UnknownType(t *testing.T) {
	r := registry.New()

	_, err := r.CreateDefault("hologram")
	assert.ErrorIs(t, err, domain.ErrUnknownBlockType)
}

func TestCreateDefault_MintsUniqueIDs(t *testing.T) {
	r := registry.Defaults()

	a, err := r.CreateDefault(domain.BlockTypeColumns)
	require.NoError(t, err)
	b, err := r.CreateDefault(domain.BlockTypeColumns)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)

	// Seed children get their own fresh ids per creation.
	require.Len(t, a.Children, 2)
	require.Len(t, b.Children, 2)
	assert.NotEqual(t, a.Children[0].ID, b.Children[0].ID)
	assert.NotEqual(t, a.Children[0].ID, a.Children[1].ID)
}

func TestDefaults_CoverCommonTypes(t *testing.T) {
	r := registry.Defaults()

	for _, blockType := range []string{
		domain.BlockTypeHeading,
		domain.BlockTypeParagraph,
		domain.BlockTypeImage,
		domain.BlockTypeContainer,
		domain.BlockTypeColumns,
	} {
		node, err := r.CreateDefault(blockType)
		require.NoError(t, err, blockType)
		assert.Equal(t, blockType, node.Type)
	}
	assert.Len(t, r.Types(), 5)
}

func TestRegister_Overwrites(t *testing.T) {
	r := registry.Defaults()
	r.Register(domain.BlockTypeHeading, func() registry.Definition {
		return registry.Definition{Settings: map[string]any{"level": 1}}
	})

	node, err := r.CreateDefault(domain.BlockTypeHeading)
	require.NoError(t, err)
	assert.Equal(t, 1, node.Settings["level"])
}

func TestDecodeSettings(t *testing.T) {
	type headingSettings struct {
		Text  string `settings:"text"`
		Level int    `settings:"level"`
	}

	var out headingSettings
	err := registry.DecodeSettings(map[string]any{
		"text":  "Welcome",
		"level": 3,
		"extra": "ignored",
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Welcome", out.Text)
	assert.Equal(t, 3, out.Level)
}
