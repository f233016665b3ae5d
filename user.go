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

import "sync"

// welcomeLines is the two-line greeting sent to a user the first time
// they speak without having joined a channel.
var welcomeLines = []string{
	italic("Welcome! I relay chat between members of a channel."),
	italic(`Try "/join #somechannel" to get started, or /help for a command list.`),
}

// User holds all of the state in the context of a subscribed chat
// member. Every method that mutates a serialized field (nick, channel)
// is called only from under the owning ChatEngine's stateMutex;
// sendWelcome is not. User itself still carries its own
// RWMutex so a field can be read without that wider lock, via
// per-field getters.
type User struct {
	sync.RWMutex

	jid         string
	nick        string
	channel     *Channel
	welcomeSent bool
}

// NewUser returns a new User for the given bare jid with the given
// initial nick. It is never joined to a channel.
func NewUser(jid, nick string) *User {
	return &User{jid: jid, nick: nick}
}

// JID returns the user's jid in a concurrency-safe manner.
func (u *User) JID() string {
	u.RLock()
	defer u.RUnlock()
	return u.jid
}

// Nick returns the user's nick in a concurrency-safe manner.
func (u *User) Nick() string {
	u.RLock()
	defer u.RUnlock()
	return u.nick
}

// Channel returns the channel the user currently occupies, or nil if
// none, in a concurrency-safe manner.
func (u *User) Channel() *Channel {
	u.RLock()
	defer u.RUnlock()
	return u.channel
}

// WelcomeSent reports whether the first-time greeting has already been
// delivered to this user.
func (u *User) WelcomeSent() bool {
	u.RLock()
	defer u.RUnlock()
	return u.welcomeSent
}

// setChannel sets the weak channel reference directly. Unexported:
// callers must go through ChatEngine.moveUserToChannel so the symmetric
// User.channel / Channel.users link never desyncs.
func (u *User) setChannel(c *Channel) {
	u.Lock()
	defer u.Unlock()
	u.channel = c
}

// changeNick validates and applies a nick change in place. It checks
// only the nick's own formatting; uniqueness against other
// users is the caller's responsibility under the engine's stateMutex.
func (u *User) changeNick(proposed string) bool {
	if !nickPattern.MatchString(proposed) {
		return false
	}

	u.Lock()
	defer u.Unlock()
	u.nick = proposed
	return true
}

// sendWelcome enqueues the two-line greeting to the user and marks it
// delivered.
func (u *User) sendWelcome(batcher *OutboundBatcher) {
	u.Lock()
	u.welcomeSent = true
	jid := u.jid
	u.Unlock()

	for _, line := range welcomeLines {
		batcher.Enqueue(jid, line)
	}
}

// userSnapshot is the serializable shape of a User: jid, nick, and the
// name of the channel they're in, if any.
type userSnapshot struct {
	JID         string `yaml:"jid"`
	Nick        string `yaml:"nick"`
	ChannelName string `yaml:"channel_name,omitempty"`
}

// serialize produces the round-trippable snapshot of this user.
func (u *User) serialize() userSnapshot {
	u.RLock()
	defer u.RUnlock()

	snap := userSnapshot{JID: u.jid, Nick: u.nick}
	if u.channel != nil {
		snap.ChannelName = u.channel.Name()
	}
	return snap
}
