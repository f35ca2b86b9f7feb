// Copyright (c) 2025 The Hoard developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoard-network/hoard/stackedmap"
)

func newTestMap(src map[string]string) *stackedmap.StackedMap {
	return stackedmap.New(func(key any) (any, bool, error) {
		v, ok := src[key.(string)]
		return v, ok, nil
	})
}

func TestStackedMap(t *testing.T) {
	sm := newTestMap(map[string]string{"base": "b"})
	sm.Push()

	v, found, err := sm.Get("base")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "b", v)

	sm.Put("k", "v1")
	rev := sm.Push()
	sm.Put("k", "v2")

	v, _, err = sm.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)

	sm.PopTo(rev)
	v, _, err = sm.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
}

func TestRepeatedPutSameLevel(t *testing.T) {
	sm := newTestMap(nil)
	sm.Push()
	sm.Put("k", "v1")

	rev := sm.Push()
	sm.Put("k", "v2")
	sm.Put("k", "v3")
	sm.Put("k", "v4")
	sm.PopTo(rev)

	v, found, err := sm.Get("k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v1", v)
}

func TestJournalOrder(t *testing.T) {
	sm := newTestMap(nil)
	sm.Push()
	sm.Put("a", "1")
	sm.Push()
	sm.Put("b", "2")
	sm.Put("a", "3")

	var got []string
	sm.Journal(func(key, value any) bool {
		got = append(got, key.(string)+"="+value.(string))
		return true
	})
	assert.Equal(t, []string{"a=1", "b=2", "a=3"}, got)
}

func TestDepth(t *testing.T) {
	sm := newTestMap(nil)
	assert.Zero(t, sm.Depth())
	rev := sm.Push()
	assert.Zero(t, rev)
	assert.Equal(t, 1, sm.Depth())
	sm.Pop()
	assert.Zero(t, sm.Depth())
}
