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
	"sort"
	"sync"
)

// hoorayExclamations and zingExclamations are the random picks
// ChatEngine.incrementScore/decrementScore draw from.
var (
	hoorayExclamations = []string{"Hooray!", "Yay!"}
	zingExclamations   = []string{"Ouch!", "Zing!"}
)

// Channel represents a named chat room. Membership is flat: every
// member is a peer, there is no op/voice concept.
type Channel struct {
	sync.RWMutex

	name     string
	password string
	users    map[string]*User // keyed by jid
	scores   map[string]int
}

// NewChannel initializes a Channel with the given name and password.
// An empty password means the channel is unprotected.
func NewChannel(name, password string) *Channel {
	return &Channel{
		name:     name,
		password: password,
		users:    make(map[string]*User),
		scores:   make(map[string]int),
	}
}

// Name returns the channel's name in a concurrency-safe manner.
func (c *Channel) Name() string {
	c.RLock()
	defer c.RUnlock()
	return c.name
}

// Password returns the channel's password in a concurrency-safe
// manner. An empty string means the channel is unprotected.
func (c *Channel) Password() string {
	c.RLock()
	defer c.RUnlock()
	return c.password
}

// CheckPassword reports whether attempt satisfies the channel's join
// requirement: any attempt is accepted if the channel has no password,
// otherwise attempt must match exactly.
func (c *Channel) CheckPassword(attempt string) bool {
	c.RLock()
	defer c.RUnlock()
	return c.password == "" || c.password == attempt
}

// Len returns the number of members currently joined.
func (c *Channel) Len() int {
	c.RLock()
	defer c.RUnlock()
	return len(c.users)
}

// Has reports whether u is currently a member.
func (c *Channel) Has(u *User) bool {
	c.RLock()
	defer c.RUnlock()
	_, ok := c.users[u.JID()]
	return ok
}

// addUser is an idempotent set-add of u to the membership. Unexported:
// callers must go through ChatEngine.moveUserToChannel.
func (c *Channel) addUser(u *User) {
	c.Lock()
	defer c.Unlock()
	c.users[u.JID()] = u
}

// removeUser is an idempotent set-remove of u from the membership.
func (c *Channel) removeUser(u *User) {
	c.Lock()
	defer c.Unlock()
	delete(c.users, u.JID())
}

// Members returns the current members sorted by nick, for /list.
func (c *Channel) Members() []*User {
	c.RLock()
	defer c.RUnlock()

	members := make([]*User, 0, len(c.users))
	for _, u := range c.users {
		members = append(members, u)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Nick() < members[j].Nick() })
	return members
}

// repeatMessage enqueues "*senderNick*: body" to every member except
// sender.
func (c *Channel) repeatMessage(batcher *OutboundBatcher, sender *User, body string) {
	line := renderRepeated(sender.Nick(), body)
	senderJID := sender.JID()

	c.RLock()
	defer c.RUnlock()

	for jid, u := range c.users {
		if jid == senderJID {
			continue
		}
		batcher.Enqueue(u.JID(), line)
	}
}

// broadcastMessage enqueues text to every member including the actor,
// used for status lines like joins, parts, and score changes.
func (c *Channel) broadcastMessage(batcher *OutboundBatcher, text string) {
	c.RLock()
	defer c.RUnlock()

	for _, u := range c.users {
		batcher.Enqueue(u.JID(), text)
	}
}

// Score returns the current score for item and whether it has ever been
// touched (as opposed to implicitly zero).
func (c *Channel) Score(item string) (int, bool) {
	c.RLock()
	defer c.RUnlock()
	v, ok := c.scores[item]
	return v, ok
}

// Scores returns a copy of the non-zero scoreboard, sorted by item, for
// /scores.
func (c *Channel) Scores() []ScoreEntry {
	c.RLock()
	defer c.RUnlock()

	entries := make([]ScoreEntry, 0, len(c.scores))
	for item, score := range c.scores {
		if score == 0 {
			continue
		}
		entries = append(entries, ScoreEntry{Item: item, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Item < entries[j].Item })
	return entries
}

// ScoreEntry is one row of a channel's scoreboard.
type ScoreEntry struct {
	Item  string
	Score int
}

// bumpScoreUp nudges scores[item] up by one and returns the new value.
// Unexported: callers must go through ChatEngine so the change happens
// inside stateMutex.
func (c *Channel) bumpScoreUp(item string) int {
	c.Lock()
	defer c.Unlock()
	c.scores[item]++
	return c.scores[item]
}

// bumpScoreDown nudges scores[item] down by one and returns the new
// value. Unexported, same reason as bumpScoreUp.
func (c *Channel) bumpScoreDown(item string) int {
	c.Lock()
	defer c.Unlock()
	c.scores[item]--
	return c.scores[item]
}

// resetScore zeroes scores[item] if it is currently non-zero. Returns
// false (and leaves the scoreboard untouched) if the item has no score
// or is already zero.
func (c *Channel) resetScore(item string) bool {
	c.Lock()
	defer c.Unlock()

	current, ok := c.scores[item]
	if !ok || current == 0 {
		return false
	}
	c.scores[item] = 0
	return true
}

// scoreLine renders "Exclaim! item -> score[ (note)]" for broadcast by
// incrementScore/decrementScore/resetScore-adjacent callers.
func scoreLine(exclaim, item string, score int, note string) string {
	if note == "" {
		return fmt.Sprintf("%s %s -> %d", exclaim, item, score)
	}
	return fmt.Sprintf("%s %s -> %d (%s)", exclaim, item, score, note)
}

// channelSnapshot is the serializable shape of a Channel: name,
// password, and non-zero scores only.
type channelSnapshot struct {
	Name     string         `yaml:"name"`
	Password string         `yaml:"password,omitempty"`
	Scores   map[string]int `yaml:"scores,omitempty"`
}

// serialize produces the round-trippable snapshot of this channel.
func (c *Channel) serialize() channelSnapshot {
	c.RLock()
	defer c.RUnlock()

	snap := channelSnapshot{Name: c.name, Password: c.password}
	if len(c.scores) > 0 {
		snap.Scores = make(map[string]int, len(c.scores))
		for item, score := range c.scores {
			if score != 0 {
				snap.Scores[item] = score
			}
		}
	}
	return snap
}
