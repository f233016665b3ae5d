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
	"fmt"

	"gopkg.in/yaml.v3"
)

// engineSnapshot is the top-level persisted document shape: an ordered
// sequence of channels and an ordered sequence of users.
type engineSnapshot struct {
	Channels []channelSnapshot `yaml:"channels"`
	Users    []userSnapshot    `yaml:"users"`
}

// serialize produces a full snapshot of the engine's current model.
// Must be called with stateMutex held — the only caller is
// StatePersister, which already holds it at this step of its loop.
func (e *ChatEngine) serialize() engineSnapshot {
	var snap engineSnapshot

	e.channels.ForEach(func(c *Channel) {
		snap.Channels = append(snap.Channels, c.serialize())
	})
	e.users.ForEach(func(u *User) {
		snap.Users = append(snap.Users, u.serialize())
	})

	return snap
}

// encodeSnapshot marshals snap to its on-disk form.
func encodeSnapshot(snap engineSnapshot) ([]byte, error) {
	return yaml.Marshal(snap)
}

// deserialize replaces the engine's users/channels registries with the
// contents of stream. Channels left with no members after load are
// dropped, and a snapshot that violates nick uniqueness is rejected
// outright (see DESIGN.md, "Open questions resolved") rather than
// silently auto-renamed. Returns ErrStateDecode wrapping the underlying
// parse error, or ErrNickCollisionOnLoad, on failure.
func (e *ChatEngine) deserialize(stream []byte) error {
	var snap engineSnapshot
	if err := yaml.Unmarshal(stream, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrStateDecode, err)
	}

	channels := NewChannelRegistry()
	for _, cs := range snap.Channels {
		c := NewChannel(cs.Name, cs.Password)
		for item, score := range cs.Scores {
			c.scores[item] = score
		}
		if err := channels.Add(cs.Name, c); err != nil {
			return fmt.Errorf("%w: duplicate channel %q", ErrStateDecode, cs.Name)
		}
	}

	users := NewUserRegistry()
	nicks := NewUserRegistry()
	for _, us := range snap.Users {
		if nicks.Exists(us.Nick) {
			e.log.WithField("nick", us.Nick).WithField("jid", us.JID).Warn("rejecting snapshot: duplicate nick on load")
			return ErrNickCollisionOnLoad
		}

		u := NewUser(us.JID, us.Nick)
		if us.ChannelName != "" {
			if c, err := channels.Get(us.ChannelName); err == nil {
				c.addUser(u)
				u.setChannel(c)
			}
		}

		if err := users.Add(us.JID, u); err != nil {
			return fmt.Errorf("%w: duplicate jid %q", ErrStateDecode, us.JID)
		}
		_ = nicks.Add(us.Nick, u)
	}

	// Drop channels that ended up with no members.
	var empty []string
	channels.ForEach(func(c *Channel) {
		if c.Len() == 0 {
			empty = append(empty, c.Name())
		}
	})
	for _, name := range empty {
		_ = channels.Del(name)
	}

	e.stateMutex.Lock()
	e.channels = channels
	e.users = users
	e.nicks = nicks
	e.stateMutex.Unlock()

	return nil
}
