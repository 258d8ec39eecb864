package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexesDeclareUniqueConstraints(t *testing.T) {
	indexes := Indexes()

	cartItems := indexes[CartItemsCollection]
	require.Len(t, cartItems, 1)
	require.NotNil(t, cartItems[0].Options)
	require.NotNil(t, cartItems[0].Options.Unique)
	assert.True(t, *cartItems[0].Options.Unique)

	customers := indexes[CustomersCollection]
	require.Len(t, customers, 1)
	require.NotNil(t, customers[0].Options.Unique)
	assert.True(t, *customers[0].Options.Unique)
}
