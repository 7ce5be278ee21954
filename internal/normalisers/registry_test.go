package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strand-media/enricher/internal/core/domain"
	"github.com/strand-media/enricher/internal/core/ports/driven"
)

// stubNormaliser is a minimal Normaliser for registry tests.
type stubNormaliser struct {
	sourceType string
	marker     string
}

func (s stubNormaliser) SourceType() string { return s.sourceType }

func (s stubNormaliser) Normalise(context.Context, driven.NormaliseInput) (*domain.NormalisedMetadata, error) {
	return &domain.NormalisedMetadata{
		LocalisedInfo: domain.LocalisedInfo{TitleDisplay: s.marker},
	}, nil
}

// TestRegistry_Get tests lookup of registered and unknown source types.
func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	r.Register(stubNormaliser{sourceType: "studio-api"})

	t.Run("registered type", func(t *testing.T) {
		n, err := r.Get("studio-api")
		require.NoError(t, err)
		assert.Equal(t, "studio-api", n.SourceType())
	})

	t.Run("unknown type", func(t *testing.T) {
		n, err := r.Get("teletext")
		require.Error(t, err)
		assert.Nil(t, n)
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
		assert.Contains(t, err.Error(), "teletext")
	})
}

// TestRegistry_Register tests that re-registration replaces the
// earlier normaliser.
func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register(stubNormaliser{sourceType: "studio-api", marker: "old"})
	r.Register(stubNormaliser{sourceType: "studio-api", marker: "new"})

	n, err := r.Get("studio-api")
	require.NoError(t, err)
	doc, err := n.Normalise(context.Background(), driven.NormaliseInput{})
	require.NoError(t, err)
	assert.Equal(t, "new", doc.LocalisedInfo.TitleDisplay)
}

// TestRegistry_SupportedTypes tests the sorted type listing.
func TestRegistry_SupportedTypes(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.SupportedTypes())

	r.Register(stubNormaliser{sourceType: "vendor-feed"})
	r.Register(stubNormaliser{sourceType: "studio-api"})
	r.Register(Placeholder{})

	assert.Equal(t, []string{"placeholder", "studio-api", "vendor-feed"}, r.SupportedTypes())
}
