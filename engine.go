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
	"math/rand/v2"
	"sync"

	"github.com/sirupsen/logrus"
)

// ChatEngine owns the membership model, the state mutex, the version
// counter, and the callback wiring into the injected Client and Roster.
// It is the only thing in this package that ever takes stateMutex, so
// every other component reaches the model only through ChatEngine
// methods.
type ChatEngine struct {
	stateMutex     sync.Mutex
	versionCond    *sync.Cond
	currentVersion uint64
	savedVersion   uint64

	users    *UserRegistry    // keyed by jid
	nicks    *UserRegistry    // keyed by nick, same *User values as users
	channels *ChannelRegistry // keyed by name

	client Client
	roster Roster

	batcher    *OutboundBatcher
	dispatcher *CommandDispatcher
	persister  *StatePersister

	log *logrus.Entry
}

// NewEngine constructs a ChatEngine, applying any functional options
// (see options.go). WithClient and WithRoster are required; NewEngine
// panics if either is missing, since a chat engine with nothing to
// send to or receive from is a programming error, not a runtime
// condition. The OutboundBatcher and StatePersister background
// workers are constructed here but must be started by the caller via
// Run, which is expected to run for the lifetime of the process.
func NewEngine(opts ...Option) *ChatEngine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.client == nil {
		panic("relay: NewEngine requires WithClient")
	}
	if cfg.roster == nil {
		panic("relay: NewEngine requires WithRoster")
	}

	e := &ChatEngine{
		users:    NewUserRegistry(),
		nicks:    NewUserRegistry(),
		channels: NewChannelRegistry(),
		client:   cfg.client,
		roster:   cfg.roster,
		log:      cfg.logger.WithField("component", "engine"),
	}
	e.versionCond = sync.NewCond(&e.stateMutex)

	base := logrus.NewEntry(cfg.logger)
	e.batcher = NewOutboundBatcher(cfg.client, cfg.batchInterval, cfg.useSeparateMessages, base)
	e.dispatcher = NewCommandDispatcher(e, base)
	e.persister = NewStatePersister(e, cfg.stateFile, cfg.saveInterval, base)

	cfg.client.RegisterMessageCallback(e.handleMessage)
	cfg.roster.RegisterSubscriptionRequestCallback(e.handleSubscriptionRequest)

	return e
}

// Run starts the OutboundBatcher and StatePersister background workers
// and blocks until both exit. Intended to be supervised by a
// conc.WaitGroup from the boot shim so a panic in either worker is
// fatal.
func (e *ChatEngine) Run() {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		e.batcher.Run()
	}()
	go func() {
		defer wg.Done()
		e.persister.Run()
	}()
	wg.Wait()
}

// Shutdown stops the background workers and performs one final
// synchronous save, mirroring the boot shim's signal-handler path.
func (e *ChatEngine) Shutdown() {
	e.persister.Stop()
	e.SaveStateIfChanged()
	e.batcher.Stop()
}

// mutate runs fn with stateMutex held, then bumps currentVersion and
// wakes the persister. Every mutation that changes a serializable field
// must go through this.
func (e *ChatEngine) mutate(fn func()) {
	e.stateMutex.Lock()
	fn()
	e.currentVersion++
	e.versionCond.Broadcast()
	e.stateMutex.Unlock()
}

// getUser looks up a user by bare jid, optionally creating one with an
// invented nick if absent. Creation counts as a mutation.
func (e *ChatEngine) getUser(jid string, create bool) (*User, bool) {
	if u, err := e.users.Get(jid); err == nil {
		return u, true
	}
	if !create {
		return nil, false
	}

	var u *User
	e.mutate(func() {
		// Re-check under the lock: another goroutine may have created
		// this user between the unlocked Get above and here.
		if existing, err := e.users.Get(jid); err == nil {
			u = existing
			return
		}
		nick := e.inventNickLocked(jid)
		u = NewUser(jid, nick)
		_ = e.users.Add(jid, u)
		_ = e.nicks.Add(nick, u)
	})
	return u, true
}

// getChannel looks up a channel by name, optionally creating an
// unprotected one if absent. Prefer addChannel when the caller already
// knows the channel doesn't exist and wants to set a password (as
// /join does); this is the plain lookup-or-create primitive.
func (e *ChatEngine) getChannel(name string, create bool) (*Channel, bool) {
	if c, err := e.channels.Get(name); err == nil {
		return c, true
	}
	if !create {
		return nil, false
	}

	var c *Channel
	e.mutate(func() {
		if existing, err := e.channels.Get(name); err == nil {
			c = existing
			return
		}
		c = NewChannel(name, "")
		_ = e.channels.Add(name, c)
	})
	return c, true
}

// addChannel creates and registers a new channel with the given
// password, inside a single mutation. Returns the existing channel and
// false if name was created concurrently between the caller's existence
// check and this call; the single engine mutex makes this race safe to
// detect and handle.
func (e *ChatEngine) addChannel(name, password string) (*Channel, bool) {
	var c *Channel
	created := false
	e.mutate(func() {
		if existing, err := e.channels.Get(name); err == nil {
			c = existing
			return
		}
		c = NewChannel(name, password)
		_ = e.channels.Add(name, c)
		created = true
	})
	return c, created
}

// getUserWithNick looks up a user by their current nick.
func (e *ChatEngine) getUserWithNick(nick string) (*User, bool) {
	u, err := e.nicks.Get(nick)
	return u, err == nil
}

// deleteChannel removes name from the registry if, and only if, it has
// no members. A no-op otherwise.
func (e *ChatEngine) deleteChannel(name string) {
	c, err := e.channels.Get(name)
	if err != nil {
		return
	}
	if c.Len() > 0 {
		return
	}
	e.mutate(func() {
		// Re-check membership under the lock: moveUserToChannel always
		// runs inside mutate too, so this sees a consistent count.
		if c.Len() > 0 {
			return
		}
		_ = e.channels.Del(name)
	})
}

// moveUserToChannel enforces the symmetric User.channel <-> Channel.users
// link in one critical section.
// Passing a nil target channel parts the user from wherever they are;
// the caller is responsible for running deleteChannel afterward if that
// leaves the old channel empty.
func (e *ChatEngine) moveUserToChannel(u *User, target *Channel) {
	e.mutate(func() {
		if old := u.Channel(); old != nil {
			old.removeUser(u)
		}
		if target != nil {
			target.addUser(u)
		}
		u.setChannel(target)
	})
}

// changeNick validates and applies proposed as u's new nick, updating
// the nick registry to match. Returns false (no mutation) if proposed
// is invalid or already taken by a different user.
func (e *ChatEngine) changeNick(u *User, proposed string) bool {
	if !nickPattern.MatchString(proposed) {
		return false
	}
	if existing, ok := e.getUserWithNick(proposed); ok && existing != u {
		return false
	}

	ok := false
	e.mutate(func() {
		old := u.Nick()
		if !u.changeNick(proposed) {
			return
		}
		ok = e.nicks.Rekey(old, proposed)
	})
	return ok
}

// inventNickLocked derives an initial nick for jid. Must be
// called with stateMutex held.
func (e *ChatEngine) inventNickLocked(jid string) string {
	base := localpart(jid)
	if !nickPattern.MatchString(base) {
		return jid
	}
	if _, err := e.nicks.Get(base); err != nil {
		return base
	}

	for suffix := 2; suffix <= InventedNickSuffixMax; suffix++ {
		candidate := fmt.Sprintf("%s%d", base, suffix)
		if _, err := e.nicks.Get(candidate); err != nil {
			return candidate
		}
	}
	return jid
}

// incrementScore bumps ch.scores[item] up by one inside a mutation,
// then broadcasts the randomized exclamation line.
func (e *ChatEngine) incrementScore(ch *Channel, item, note string) {
	var newScore int
	e.mutate(func() { newScore = ch.bumpScoreUp(item) })

	exclaim := hoorayExclamations[rand.IntN(len(hoorayExclamations))]
	ch.broadcastMessage(e.batcher, italic(scoreLine(exclaim, item, newScore, note)))
}

// decrementScore bumps ch.scores[item] down by one inside a mutation,
// then broadcasts the randomized exclamation line.
func (e *ChatEngine) decrementScore(ch *Channel, item, note string) {
	var newScore int
	e.mutate(func() { newScore = ch.bumpScoreDown(item) })

	exclaim := zingExclamations[rand.IntN(len(zingExclamations))]
	ch.broadcastMessage(e.batcher, italic(scoreLine(exclaim, item, newScore, note)))
}

// resetScore zeroes ch.scores[item] inside a mutation, if it is
// currently non-zero. Returns false if the item has no score or is
// already zero, leaving the scoreboard untouched; the version is
// bumped either way, as for every call that goes through mutate.
func (e *ChatEngine) resetScore(ch *Channel, item string) bool {
	ok := false
	e.mutate(func() { ok = ch.resetScore(item) })
	return ok
}

// handleSubscriptionRequest unconditionally accepts a roster
// subscription request).
func (e *ChatEngine) handleSubscriptionRequest(req SubscriptionRequest) {
	if err := e.roster.AcceptSubscription(req.JID); err != nil {
		e.log.WithError(err).WithField("jid", req.JID).Warn("failed to accept subscription")
	}
}

// handleMessage is the entry point for every inbound chat stanza. It
// drops error-typed or bodyless stanzas, normalizes the sender to a
// bare jid, looks up or creates the User, and dispatches. A command
// body is dispatched directly; a non-command body sent while in a
// channel is first repeated to the rest of the membership.
func (e *ChatEngine) handleMessage(msg InboundMessage) {
	if msg.Type == "error" || !msg.HasBody {
		return
	}

	jid := bareJID(msg.From)
	u, _ := e.getUser(jid, true)

	ch := u.Channel()
	isCommand := len(msg.Body) > 0 && msg.Body[0] == '/'

	switch {
	case isCommand:
		e.dispatcher.Dispatch(u, msg.Body)
	case ch != nil:
		ch.repeatMessage(e.batcher, u, msg.Body)
		e.dispatcher.Dispatch(u, msg.Body)
	case !u.WelcomeSent():
		u.sendWelcome(e.batcher)
	default:
		e.dispatcher.reply(u, string(errNeedChannelFirst))
	}
}

// errNeedChannelFirst is the reply to a non-command message from a user
// with no channel who has already been welcomed.
const errNeedChannelFirst Error = "You need to join a channel first."
