/*
   Copyright (c) 2023, btnmasher
   All rights reserved.

   Redistribution and use in source and binary forms, with or without modification, are permitted provided that
   the following conditions are met:

   1. Redistributions of source code must retain the above copyright notice, this list of conditions and the
      following disclaimer.

   2. Redistributions in binary form must reproduce the above copyright notice, this list of conditions and
      the following disclaimer in the documentation and/or other materials provided with the distribution.

   3. Neither the name of the copyright holder nor the names of its contributors may be used to endorse or
      promote products derived from this software without specific prior written permission.

   THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED
   WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A
   PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE FOR
   ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED
   TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION)
   HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
   NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
   POSSIBILITY OF SUCH DAMAGE.
*/

package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngineForState() *ChatEngine {
	e := &ChatEngine{
		users:    NewUserRegistry(),
		nicks:    NewUserRegistry(),
		channels: NewChannelRegistry(),
		log:      testLogger(),
	}
	return e
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	e := newTestEngineForState()

	ch := NewChannel("#nerds", "secret")
	ch.bumpScoreUp("coffee")
	_ = e.channels.Add("#nerds", ch)

	foo := NewUser("foo@example.com", "foo")
	ch.addUser(foo)
	foo.setChannel(ch)
	_ = e.users.Add("foo@example.com", foo)
	_ = e.nicks.Add("foo", foo)

	bar := NewUser("bar@example.com", "bar") // not in any channel
	_ = e.users.Add("bar@example.com", bar)
	_ = e.nicks.Add("bar", bar)

	snap := e.serialize()
	stream, err := encodeSnapshot(snap)
	require.NoError(t, err)

	loaded := newTestEngineForState()
	require.NoError(t, loaded.deserialize(stream))

	loadedChan, err := loaded.channels.Get("#nerds")
	require.NoError(t, err)
	assert.Equal(t, "secret", loadedChan.Password())
	score, ok := loadedChan.Score("coffee")
	require.True(t, ok)
	assert.Equal(t, 1, score)

	loadedFoo, err := loaded.users.Get("foo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "foo", loadedFoo.Nick())
	assert.NotNil(t, loadedFoo.Channel())
	assert.Equal(t, "#nerds", loadedFoo.Channel().Name())
	assert.True(t, loadedChan.Has(loadedFoo))

	loadedBar, err := loaded.users.Get("bar@example.com")
	require.NoError(t, err)
	assert.Nil(t, loadedBar.Channel())
}

func TestDeserializeDropsEmptyChannels(t *testing.T) {
	e := newTestEngineForState()
	_ = e.channels.Add("#ghost", NewChannel("#ghost", ""))

	snap := e.serialize()
	stream, err := encodeSnapshot(snap)
	require.NoError(t, err)

	loaded := newTestEngineForState()
	require.NoError(t, loaded.deserialize(stream))

	_, err = loaded.channels.Get("#ghost")
	assert.Error(t, err)
}

func TestDeserializeRejectsDuplicateNick(t *testing.T) {
	stream := []byte(`
channels: []
users:
  - jid: foo@example.com
    nick: shared
  - jid: bar@example.com
    nick: shared
`)

	loaded := newTestEngineForState()
	err := loaded.deserialize(stream)
	assert.ErrorIs(t, err, ErrNickCollisionOnLoad)
}

func TestDeserializeRejectsMalformedYAML(t *testing.T) {
	loaded := newTestEngineForState()
	err := loaded.deserialize([]byte("not: [valid"))
	assert.ErrorIs(t, err, ErrStateDecode)
}
