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
	"strings"
	"sync"
	"time"

	"github.com/btnmasher/random"
	"github.com/sirupsen/logrus"
)

// OutboundBatcher is the per-recipient send-rate pump: a queue guarded
// by a mutex, a background loop that wakes on new work, paces itself
// against a last-send timestamp, then hands a snapshot to the
// transport outside the lock.
type OutboundBatcher struct {
	mu   sync.Mutex
	cond *sync.Cond

	queued   map[string][]string
	lastSend time.Time
	busy     bool

	interval            time.Duration
	useSeparateMessages bool

	client Client
	log    *logrus.Entry

	stop chan struct{}
	done chan struct{}
}

// NewOutboundBatcher constructs a batcher that flushes through client no
// more than once per interval per recipient. If useSeparateMessages is
// true, each queued line for a recipient is sent as its own stanza
// instead of being newline-joined into one.
func NewOutboundBatcher(client Client, interval time.Duration, useSeparateMessages bool, log *logrus.Entry) *OutboundBatcher {
	b := &OutboundBatcher{
		queued:              make(map[string][]string),
		interval:            interval,
		useSeparateMessages: useSeparateMessages,
		client:              client,
		log:                 log.WithField("component", "batcher"),
		stop:                make(chan struct{}),
		done:                make(chan struct{}),
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Enqueue appends text to jid's pending line queue and wakes the
// worker. It never blocks.
func (b *OutboundBatcher) Enqueue(jid, text string) {
	b.mu.Lock()
	b.queued[jid] = append(b.queued[jid], text)
	b.mu.Unlock()
	b.cond.Broadcast()
}

// Run drives the worker loop until Stop is called. It is meant to be
// run in its own goroutine, supervised by a conc.WaitGroup so a panic
// here is fatal to the process rather than silently dropping delivery.
func (b *OutboundBatcher) Run() {
	defer close(b.done)

	for {
		b.mu.Lock()
		for len(b.queued) == 0 && !b.stopRequested() {
			b.cond.Wait()
		}
		if len(b.queued) == 0 && b.stopRequested() {
			b.mu.Unlock()
			return
		}
		b.mu.Unlock()

		sleep := b.sleepDuration()
		if sleep > 0 {
			time.Sleep(sleep)
		}

		snapshot := b.takeSnapshot()
		b.flush(snapshot)

		b.mu.Lock()
		b.lastSend = time.Now()
		b.busy = false
		b.cond.Broadcast()
		b.mu.Unlock()
	}
}

// Stop signals the worker loop to exit once its current queue drains,
// and blocks until it has.
func (b *OutboundBatcher) Stop() {
	b.mu.Lock()
	select {
	case <-b.stop:
	default:
		close(b.stop)
	}
	b.mu.Unlock()
	b.cond.Broadcast()
	<-b.done
}

func (b *OutboundBatcher) stopRequested() bool {
	select {
	case <-b.stop:
		return true
	default:
		return false
	}
}

func (b *OutboundBatcher) sleepDuration() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := time.Since(b.lastSend)
	if elapsed >= b.interval {
		return 0
	}
	return b.interval - elapsed
}

func (b *OutboundBatcher) takeSnapshot() map[string][]string {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := b.queued
	b.queued = make(map[string][]string)
	b.busy = true
	return snapshot
}

// flush delivers one snapshot to the transport, outside the lock. Each
// recipient's lines are concatenated into a single stanza, or sent one
// stanza per line, depending on useSeparateMessages. A correlation id
// ties every Send in this flush together in the logs.
func (b *OutboundBatcher) flush(snapshot map[string][]string) {
	if len(snapshot) == 0 {
		return
	}

	flushID := random.String(8)
	log := b.log.WithField("flush", flushID)

	for jid, lines := range snapshot {
		if len(lines) == 0 {
			continue
		}

		if b.useSeparateMessages {
			for _, line := range lines {
				if err := b.client.Send(Stanza{To: jid, Body: line}); err != nil {
					log.WithError(err).WithField("to", jid).Warn("failed to send outbound stanza")
				}
			}
			continue
		}

		body := strings.Join(lines, "\n")
		if err := b.client.Send(Stanza{To: jid, Body: body}); err != nil {
			log.WithError(err).WithField("to", jid).Warn("failed to send outbound stanza")
		}
	}
}

// WaitUntilDrained blocks until there is no queued work and no flush in
// flight. It exists only for tests.
func (b *OutboundBatcher) WaitUntilDrained() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for len(b.queued) > 0 || b.busy {
		b.cond.Wait()
	}
}
