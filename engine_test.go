/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package relay_test

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relay "github.com/smartychat/relay"
)

// engineFakeTransport is a mock Client/Roster for the end-to-end
// scenarios; newTestEngine pairs it with zero batch and save intervals.
type engineFakeTransport struct {
	mu   sync.Mutex
	sent map[string][]string

	accepted []string

	messageCallback func(relay.InboundMessage)
	subCallback     func(relay.SubscriptionRequest)
}

func (t *engineFakeTransport) Send(s relay.Stanza) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sent == nil {
		t.sent = make(map[string][]string)
	}
	t.sent[s.To] = append(t.sent[s.To], s.Body)
	return nil
}

func (t *engineFakeTransport) RegisterMessageCallback(fn func(relay.InboundMessage)) {
	t.messageCallback = fn
}

func (t *engineFakeTransport) RegisterSubscriptionRequestCallback(fn func(relay.SubscriptionRequest)) {
	t.subCallback = fn
}

func (t *engineFakeTransport) AcceptSubscription(jid string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accepted = append(t.accepted, jid)
	return nil
}

func (t *engineFakeTransport) send(jid, body string) {
	t.messageCallback(relay.InboundMessage{From: jid, Body: body, HasBody: true})
}

// drain returns and clears whatever has been sent to jid so far, split
// back into individual lines, polling briefly since delivery happens on
// the batcher's worker goroutine. The batcher may newline-join several
// queued lines into one stanza, so splitting keeps the result
// independent of how the lines were grouped into flushes.
func (t *engineFakeTransport) drain(jid string) []string {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		t.mu.Lock()
		stanzas := t.sent[jid]
		if len(stanzas) > 0 {
			delete(t.sent, jid)
			t.mu.Unlock()
			var lines []string
			for _, s := range stanzas {
				lines = append(lines, strings.Split(s, "\n")...)
			}
			return lines
		}
		t.mu.Unlock()
		time.Sleep(time.Millisecond)
	}
	return nil
}

func newTestEngine(t *testing.T, opts ...relay.Option) (*relay.ChatEngine, *engineFakeTransport) {
	t.Helper()

	transport := &engineFakeTransport{}
	log := logrus.New()
	log.SetOutput(discard{})

	stateFile := filepath.Join(t.TempDir(), "state.yaml")
	allOpts := append([]relay.Option{
		relay.WithClient(transport),
		relay.WithRoster(transport),
		relay.WithLogger(log),
		relay.WithBatchInterval(0),
		relay.WithSaveInterval(0),
		relay.WithStateFile(stateFile),
	}, opts...)

	engine := relay.NewEngine(allOpts...)
	go engine.Run()
	t.Cleanup(engine.Shutdown)

	return engine, transport
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestEngineSubscribe(t *testing.T) {
	_, transport := newTestEngine(t)
	transport.subCallback(relay.SubscriptionRequest{JID: "foo@example.com"})
	assert.Contains(t, transport.accepted, "foo@example.com")
}

func TestEngineCreateJoinChatPart(t *testing.T) {
	_, transport := newTestEngine(t)

	transport.send("foo@example.com", "/join #nerds")
	require.Equal(t, []string{`_Created "#nerds"._`, `_Joined "#nerds" with 1 user total._`}, transport.drain("foo@example.com"))

	transport.send("bar@example.com", "/join #nerds")
	assert.Equal(t, []string{`_*bar* <bar@example.com> has joined "#nerds"._`}, transport.drain("foo@example.com"))
	assert.Equal(t, []string{`_Joined "#nerds" with 2 users total._`}, transport.drain("bar@example.com"))

	transport.send("foo@example.com", "hi bar!")
	assert.Equal(t, []string{"*foo*: hi bar!"}, transport.drain("bar@example.com"))
	assert.Empty(t, transport.drain("foo@example.com"))

	transport.send("bar@example.com", "howdy")
	assert.Equal(t, []string{"*bar*: howdy"}, transport.drain("foo@example.com"))

	transport.send("foo@example.com", "/part")
	assert.Equal(t, []string{`_Left "#nerds"._`}, transport.drain("foo@example.com"))
	assert.Equal(t, []string{`_*foo* <foo@example.com> has left "#nerds"._`}, transport.drain("bar@example.com"))
}

func TestEngineCommandsAreNotRepeatedAsChat(t *testing.T) {
	_, transport := newTestEngine(t)

	transport.send("foo@example.com", "/join #nerds")
	transport.drain("foo@example.com")

	transport.send("bar@example.com", "/join #nerds")
	transport.drain("foo@example.com")
	transport.drain("bar@example.com")

	transport.send("foo@example.com", "/scores")
	assert.Empty(t, transport.drain("bar@example.com"), "a command from a channel member must not be repeated as chat")
	assert.Equal(t, []string{`Scores for "#nerds":`}, transport.drain("foo@example.com"))
}

func TestEnginePasswordProtection(t *testing.T) {
	_, transport := newTestEngine(t)

	transport.send("foo@example.com", "/join #nerds password")
	transport.drain("foo@example.com")

	transport.send("bar@example.com", "/join #nerds")
	assert.Equal(t, []string{`_Incorrect or missing password for "#nerds"._`}, transport.drain("bar@example.com"))
	assert.Empty(t, transport.drain("foo@example.com"))

	transport.send("bar@example.com", `/join #nerds password`)
	assert.Contains(t, transport.drain("foo@example.com"), `_*bar* <bar@example.com> has joined "#nerds"._`)
}

func TestEngineAliasUniqueness(t *testing.T) {
	_, transport := newTestEngine(t)

	transport.send("foo@example.com", "/help") // creates foo@example.com with its default nick "foo"
	transport.drain("foo@example.com")

	transport.send("bar@example.com", "/alias foo")
	assert.Equal(t, []string{`_Alias "foo" already in use by foo@example.com._`}, transport.drain("bar@example.com"))
}

func TestEngineScoring(t *testing.T) {
	_, transport := newTestEngine(t)

	transport.send("foo@example.com", "/join #nerds")
	transport.drain("foo@example.com")

	transport.send("foo@example.com", "coffee++ because mornings")
	lines := transport.drain("foo@example.com")
	require.Len(t, lines, 1)
	assert.Contains(t, []string{
		"_Hooray! coffee -> 1 (because mornings)_",
		"_Yay! coffee -> 1 (because mornings)_",
	}, lines[0])

	transport.send("foo@example.com", "/scores")
	assert.Equal(t, []string{`Scores for "#nerds":`, "*coffee*: 1"}, transport.drain("foo@example.com"))
}

func TestEnginePersistenceRoundTrip(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "state.yaml")

	engineA, transportA := newTestEngine(t, relay.WithStateFile(stateFile))
	transportA.send("foo@example.com", "/join #nerds")
	transportA.drain("foo@example.com")
	transportA.send("bar@example.com", "/join #nerds")
	transportA.drain("bar@example.com")
	transportA.drain("foo@example.com")
	transportA.send("foo@example.com", "/part")
	transportA.drain("foo@example.com")
	transportA.drain("bar@example.com")

	engineA.SaveStateIfChanged()

	engineB, transportB := newTestEngine(t, relay.WithStateFile(stateFile))
	require.NoError(t, engineB.LoadState())

	transportB.send("bar@example.com", "/list")
	assert.Equal(t, []string{`1 user in "#nerds":`, "*bar* <bar@example.com>"}, transportB.drain("bar@example.com"))

	transportB.send("foo@example.com", "/list")
	assert.Equal(t, []string{"_you are not in a channel_"}, transportB.drain("foo@example.com"))
}
