// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_GetOrLoad(t *testing.T) {
	c, err := NewLRU[string, int](2)
	require.NoError(t, err)

	loads := 0
	loader := func(k string) (int, error) {
		loads++
		return len(k), nil
	}

	v, err := c.GetOrLoad("abc", loader)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = c.GetOrLoad("abc", loader)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, loads)

	hit, miss := c.Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)
}

func TestLRU_LoadErrorNotCached(t *testing.T) {
	c, err := NewLRU[string, int](2)
	require.NoError(t, err)

	_, err = c.GetOrLoad("k", func(string) (int, error) { return 0, errors.New("boom") })
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 0, c.Len())
}

func TestLRU_Evicts(t *testing.T) {
	c, err := NewLRU[int, int](2)
	require.NoError(t, err)

	c.Add(1, 1)
	c.Add(2, 2)
	c.Add(3, 3)

	_, ok := c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestNewLRU_InvalidSize(t *testing.T) {
	_, err := NewLRU[int, int](0)
	assert.Error(t, err)
}
