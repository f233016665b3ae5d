/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package relay

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// newDispatcherTestEngine builds a fully wired ChatEngine over a
// fakeTransport with zero batch/save intervals, for assertions
// directly against CommandDispatcher.Dispatch.
func newDispatcherTestEngine(t *testing.T) (*ChatEngine, *fakeTransport) {
	t.Helper()

	transport := &fakeTransport{}
	log := logrus.New()
	log.SetOutput(noopWriter{})

	e := NewEngine(
		WithClient(transport),
		WithRoster(transport),
		WithLogger(log),
		WithBatchInterval(0),
		WithSaveInterval(0),
		WithStateFile(filepath.Join(t.TempDir(), "state.yaml")),
	)
	go e.Run()
	t.Cleanup(e.Shutdown)

	return e, transport
}

// repliesTo reconstructs everything sent to jid so far as one
// newline-joined blob. The batcher may coalesce consecutively queued
// lines into a single stanza or flush them separately depending on
// timing; joining whatever arrived with "\n" reproduces the original
// line sequence either way, so tests can assert against it without
// depending on flush granularity.
func repliesTo(transport *fakeTransport, jid string) string {
	return strings.Join(transport.linesFor(jid), "\n")
}

func TestDispatchMeBroadcastsActionAndRejectsEmptyBody(t *testing.T) {
	e, transport := newDispatcherTestEngine(t)

	u, _ := e.getUser("foo@example.com", true)
	other, _ := e.getUser("bar@example.com", true)
	ch, _ := e.addChannel("#nerds", "")
	e.moveUserToChannel(u, ch)
	e.moveUserToChannel(other, ch)

	e.dispatcher.Dispatch(u, "/me dances")
	e.batcher.WaitUntilDrained()

	want := renderAction("foo", "dances")
	assert.Contains(t, repliesTo(transport, "foo@example.com"), want)
	assert.Contains(t, repliesTo(transport, "bar@example.com"), want)

	e.dispatcher.Dispatch(u, `/me ""`)
	e.batcher.WaitUntilDrained()
	assert.Contains(t, repliesTo(transport, "foo@example.com"), italic(string(ErrEmptyMessage)))
}

func TestDispatchMeRequiresChannel(t *testing.T) {
	e, transport := newDispatcherTestEngine(t)

	u, _ := e.getUser("foo@example.com", true)
	e.dispatcher.Dispatch(u, "/me waves")
	e.batcher.WaitUntilDrained()

	assert.Contains(t, repliesTo(transport, "foo@example.com"), italic(string(ErrNotInChannel)))
}

func TestDispatchResetScore(t *testing.T) {
	e, transport := newDispatcherTestEngine(t)

	u, _ := e.getUser("foo@example.com", true)
	ch, _ := e.addChannel("#nerds", "")
	e.moveUserToChannel(u, ch)

	bar, _ := e.getUser("bar@example.com", true)
	e.dispatcher.Dispatch(bar, "/reset coffee")
	e.batcher.WaitUntilDrained()
	assert.Contains(t, repliesTo(transport, "bar@example.com"), italic(string(ErrNotInChannel)))

	e.dispatcher.Dispatch(u, "/reset coffee")
	e.batcher.WaitUntilDrained()
	assert.Contains(t, repliesTo(transport, "foo@example.com"), italic(string(ErrNoSuchScore)))

	e.incrementScore(ch, "coffee", "")
	e.batcher.WaitUntilDrained()

	e.dispatcher.Dispatch(u, `/reset coffee "too much"`)
	e.batcher.WaitUntilDrained()
	assert.Contains(t, repliesTo(transport, "foo@example.com"),
		italicf("*%s* reset %s's score to 0 (%s).", "foo", "coffee", "too much"))

	e.dispatcher.Dispatch(u, "/reset coffee")
	e.batcher.WaitUntilDrained()
	assert.Contains(t, repliesTo(transport, "foo@example.com"), italic(string(ErrScoreAlreadyZero)))
}

func TestDispatchHelpListsCommands(t *testing.T) {
	e, transport := newDispatcherTestEngine(t)
	u, _ := e.getUser("foo@example.com", true)

	e.dispatcher.Dispatch(u, "/help")
	e.batcher.WaitUntilDrained()

	want := strings.Join([]string{
		"*/alias name* - change your nick",
		"*/help* - list available commands",
		"*/join name [password]* - join or create a channel",
		"*/list* - list members of your current channel",
		"*/me text* - broadcast an action to your channel",
		"*/part* - leave your current channel",
		"*/reset thing [reason]* - reset a score to zero",
		`*/scores* - show your channel's scoreboard`,
	}, "\n")
	assert.Equal(t, want, repliesTo(transport, "foo@example.com"))
}

func TestDispatchRejectsWrongArity(t *testing.T) {
	e, transport := newDispatcherTestEngine(t)
	u, _ := e.getUser("foo@example.com", true)

	e.dispatcher.Dispatch(u, "/join")
	e.batcher.WaitUntilDrained()
	assert.Contains(t, repliesTo(transport, "foo@example.com"), italic(string(ErrWrongArity)))

	e.dispatcher.Dispatch(u, "/join a b c")
	e.batcher.WaitUntilDrained()
	assert.Contains(t, repliesTo(transport, "foo@example.com"), italic(string(ErrWrongArity)))
}

func TestDispatchUnknownCommand(t *testing.T) {
	e, transport := newDispatcherTestEngine(t)
	u, _ := e.getUser("foo@example.com", true)

	e.dispatcher.Dispatch(u, "/bogus")
	e.batcher.WaitUntilDrained()
	assert.Contains(t, repliesTo(transport, "foo@example.com"), italicf(string(errUnknownCommandFmt), "bogus"))
}

func TestDispatchUnparsableCommand(t *testing.T) {
	e, transport := newDispatcherTestEngine(t)
	u, _ := e.getUser("foo@example.com", true)

	e.dispatcher.Dispatch(u, "/123")
	e.batcher.WaitUntilDrained()
	assert.Contains(t, repliesTo(transport, "foo@example.com"), italic(string(errUnparsableCommand)))
}
