/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelCheckPassword(t *testing.T) {
	open := NewChannel("#nerds", "")
	assert.True(t, open.CheckPassword(""))
	assert.True(t, open.CheckPassword("anything"))

	protected := NewChannel("#nerds", "secret")
	assert.False(t, protected.CheckPassword(""))
	assert.False(t, protected.CheckPassword("wrong"))
	assert.True(t, protected.CheckPassword("secret"))
}

func TestChannelMembership(t *testing.T) {
	c := NewChannel("#nerds", "")
	foo := NewUser("foo@example.com", "foo")
	bar := NewUser("bar@example.com", "bar")

	assert.Equal(t, 0, c.Len())

	c.addUser(foo)
	assert.True(t, c.Has(foo))
	assert.False(t, c.Has(bar))
	assert.Equal(t, 1, c.Len())

	c.addUser(foo) // idempotent
	assert.Equal(t, 1, c.Len())

	c.removeUser(foo)
	assert.False(t, c.Has(foo))
	assert.Equal(t, 0, c.Len())
}

func TestChannelMembersSortedByNick(t *testing.T) {
	c := NewChannel("#nerds", "")
	c.addUser(NewUser("z@example.com", "zebra"))
	c.addUser(NewUser("a@example.com", "apple"))

	members := c.Members()
	assert.Len(t, members, 2)
	assert.Equal(t, "apple", members[0].Nick())
	assert.Equal(t, "zebra", members[1].Nick())
}

func TestChannelScoring(t *testing.T) {
	c := NewChannel("#nerds", "")

	_, ok := c.Score("coffee")
	assert.False(t, ok)

	assert.Equal(t, 1, c.bumpScoreUp("coffee"))
	assert.Equal(t, 2, c.bumpScoreUp("coffee"))
	v, ok := c.Score("coffee")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	assert.Equal(t, 1, c.bumpScoreDown("coffee"))

	assert.False(t, c.resetScore("tea")) // never touched
	assert.True(t, c.resetScore("coffee"))
	assert.False(t, c.resetScore("coffee")) // already zero

	entries := c.Scores()
	assert.Empty(t, entries) // zero-valued scores are omitted
}

func TestScoreLine(t *testing.T) {
	assert.Equal(t, "Hooray! coffee -> 1", scoreLine("Hooray!", "coffee", 1, ""))
	assert.Equal(t, "Hooray! coffee -> 1 (mornings)", scoreLine("Hooray!", "coffee", 1, "mornings"))
}

func TestChannelSerialize(t *testing.T) {
	c := NewChannel("#nerds", "secret")
	c.bumpScoreUp("coffee")
	c.bumpScoreUp("coffee")

	snap := c.serialize()
	assert.Equal(t, "#nerds", snap.Name)
	assert.Equal(t, "secret", snap.Password)
	assert.Equal(t, map[string]int{"coffee": 2}, snap.Scores)
}
