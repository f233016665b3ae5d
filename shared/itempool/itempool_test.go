/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package itempool

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockItem struct {
	value int
	data  []int
}

func (i *mockItem) Scrub() {
	i.value = 0
	i.data = nil
}

func initItem() *mockItem {
	return &mockItem{
		data: make([]int, rand.Intn(100)),
	}
}

func TestItemPoolNewWithoutRecycleUsesInit(t *testing.T) {
	pool := New[*mockItem](10, initItem)

	item := pool.New()
	assert.Equal(t, 0, item.value)
}

func TestItemPoolRecycleScrubsAndReuses(t *testing.T) {
	pool := New[*mockItem](10, initItem)

	item := pool.New()
	item.value = 42
	item.data = []int{1, 2, 3}

	pool.Recycle(item)
	assert.Equal(t, 0, item.value)
	assert.Nil(t, item.data)

	reused := pool.New()
	assert.Same(t, item, reused)
}

func TestItemPoolDropsRecycleBeyondCapacity(t *testing.T) {
	pool := New[*mockItem](1, initItem)

	a := pool.New()
	b := pool.New()

	pool.Recycle(a)
	pool.Recycle(b) // queue already holds a, capacity 1 - this one is dropped, not blocked

	first := pool.New()
	assert.Same(t, a, first)
}
