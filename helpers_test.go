/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package relay

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// testLogger returns a logger discarding output, for use across the
// package's tests.
func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(noopWriter{})
	return log.WithField("test", true)
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }

// recordingClient is a minimal Client that appends every sent stanza
// per recipient, for assertions in tests that don't need a full
// fakeTransport.
type recordingClient struct {
	mu   sync.Mutex
	sent map[string][]string

	messageCallback func(InboundMessage)
}

func (c *recordingClient) Send(s Stanza) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sent == nil {
		c.sent = make(map[string][]string)
	}
	c.sent[s.To] = append(c.sent[s.To], s.Body)
	return nil
}

func (c *recordingClient) RegisterMessageCallback(fn func(InboundMessage)) {
	c.messageCallback = fn
}

func (c *recordingClient) linesFor(jid string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent[jid]...)
}

// fakeTransport is a Client and Roster used by the dispatcher tests.
type fakeTransport struct {
	recordingClient

	accepted []string

	subCallback func(SubscriptionRequest)
}

func (t *fakeTransport) RegisterSubscriptionRequestCallback(fn func(SubscriptionRequest)) {
	t.subCallback = fn
}

func (t *fakeTransport) AcceptSubscription(jid string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accepted = append(t.accepted, jid)
	return nil
}

func (t *fakeTransport) deliver(msg InboundMessage) {
	t.messageCallback(msg)
}
