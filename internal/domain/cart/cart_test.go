//go:build unit

package cart_test

import (
	"testing"

	"storefront/internal/domain/cart"
	"storefront/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddItem(t *testing.T) {
	t.Run("appends a new line with quantity one", func(t *testing.T) {
		c := cart.New(20)
		p := builder.NewProductBuilder().BuildDomain()

		require.NoError(t, c.AddItem(p, nil))

		require.Equal(t, 1, c.Len())
		line := c.Lines()[0]
		assert.Equal(t, p.ID, line.Product.ID)
		assert.Equal(t, int32(1), line.Quantity)
	})

	t.Run("adding the same key again increments instead of appending", func(t *testing.T) {
		c := cart.New(20)
		p := builder.NewProductBuilder().BuildDomain()

		require.NoError(t, c.AddItem(p, nil))
		require.NoError(t, c.AddItem(p, nil))

		require.Equal(t, 1, c.Len())
		assert.Equal(t, int32(2), c.Lines()[0].Quantity)
	})

	t.Run("same product with different variations are distinct lines", func(t *testing.T) {
		c := cart.New(20)
		pb := builder.NewProductBuilder()
		p := pb.BuildDomain()
		v1 := builder.NewVariationBuilder(pb.ID).BuildDomain()
		v2 := builder.NewVariationBuilder(pb.ID).BuildDomain()

		require.NoError(t, c.AddItem(p, v1))
		require.NoError(t, c.AddItem(p, v2))
		require.NoError(t, c.AddItem(p, nil))

		assert.Equal(t, 3, c.Len())
	})

	t.Run("line cap refuses new lines but not increments", func(t *testing.T) {
		c := cart.New(2)
		first := builder.NewProductBuilder().BuildDomain()
		second := builder.NewProductBuilder().BuildDomain()
		third := builder.NewProductBuilder().BuildDomain()

		require.NoError(t, c.AddItem(first, nil))
		require.NoError(t, c.AddItem(second, nil))

		err := c.AddItem(third, nil)
		assert.ErrorIs(t, err, cart.ErrLimitExceeded)
		assert.Equal(t, 2, c.Len())

		// an existing line still grows at the cap
		require.NoError(t, c.AddItem(first, nil))
		assert.Equal(t, int32(2), c.Lines()[0].Quantity)
	})

	t.Run("zero cap means unlimited", func(t *testing.T) {
		c := cart.New(0)
		for range 50 {
			require.NoError(t, c.AddItem(builder.NewProductBuilder().BuildDomain(), nil))
		}
		assert.Equal(t, 50, c.Len())
	})
}

func TestCart_RemoveItem(t *testing.T) {
	c := cart.New(20)
	p := builder.NewProductBuilder().BuildDomain()
	other := builder.NewProductBuilder().BuildDomain()
	require.NoError(t, c.AddItem(p, nil))
	require.NoError(t, c.AddItem(other, nil))

	c.RemoveItem(cart.NewKey(p.ID, nil))

	require.Equal(t, 1, c.Len())
	assert.Equal(t, other.ID, c.Lines()[0].Product.ID)

	// removing an absent key is a no-op
	c.RemoveItem(cart.NewKey(p.ID, nil))
	assert.Equal(t, 1, c.Len())
}

func TestCart_Quantity(t *testing.T) {
	t.Run("increment adds one unit", func(t *testing.T) {
		c := cart.New(20)
		p := builder.NewProductBuilder().BuildDomain()
		require.NoError(t, c.AddItem(p, nil))

		assert.True(t, c.IncrementQuantity(cart.NewKey(p.ID, nil)))
		assert.Equal(t, int32(2), c.Lines()[0].Quantity)
	})

	t.Run("decrement floors at one", func(t *testing.T) {
		c := cart.New(20)
		p := builder.NewProductBuilder().BuildDomain()
		require.NoError(t, c.AddItem(p, nil))
		require.NoError(t, c.AddItem(p, nil))

		key := cart.NewKey(p.ID, nil)
		assert.True(t, c.DecrementQuantity(key))
		assert.Equal(t, int32(1), c.Lines()[0].Quantity)

		assert.True(t, c.DecrementQuantity(key))
		assert.Equal(t, int32(1), c.Lines()[0].Quantity)
	})

	t.Run("absent key reports no match", func(t *testing.T) {
		c := cart.New(20)
		key := cart.NewKey(builder.NewProductBuilder().ID, nil)

		assert.False(t, c.IncrementQuantity(key))
		assert.False(t, c.DecrementQuantity(key))
	})
}

func TestCart_Restore(t *testing.T) {
	p := builder.NewProductBuilder().BuildDomain()
	other := builder.NewProductBuilder().BuildDomain()
	lines := []cart.Line{
		builder.BuildLine(p, nil, 3),
		builder.BuildLine(other, nil, 1),
	}

	c := cart.Restore(lines, 20)

	require.Equal(t, 2, c.Len())
	assert.Equal(t, p.ID, c.Lines()[0].Product.ID)
	assert.Equal(t, int32(3), c.Lines()[0].Quantity)
}

func TestCart_Clear(t *testing.T) {
	c := cart.New(20)
	require.NoError(t, c.AddItem(builder.NewProductBuilder().BuildDomain(), nil))

	c.Clear()

	assert.True(t, c.IsEmpty())
}
