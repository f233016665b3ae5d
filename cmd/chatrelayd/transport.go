/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package main

import (
	relay "github.com/smartychat/relay"

	"github.com/sirupsen/logrus"
)

// stubTransport is a placeholder Client/Roster backed by a logger
// instead of a live XMPP stream. Wiring a real connection (SASL auth,
// TLS, stanza codec) is out of scope here; a deployment swaps this for
// an adapter over a real XMPP client library without touching
// relay.ChatEngine.
type stubTransport struct {
	jid      string
	password string
	log      *logrus.Entry

	messageCallback func(relay.InboundMessage)
	subCallback     func(relay.SubscriptionRequest)
}

func newStubTransport(jid, password string, logger *logrus.Logger) (relay.Client, relay.Roster) {
	t := &stubTransport{
		jid:      jid,
		password: password,
		log:      logger.WithField("component", "transport"),
	}
	return t, t
}

func (t *stubTransport) Send(stanza relay.Stanza) error {
	t.log.WithField("to", stanza.To).Debug(stanza.Body)
	return nil
}

func (t *stubTransport) RegisterMessageCallback(fn func(relay.InboundMessage)) {
	t.messageCallback = fn
}

func (t *stubTransport) RegisterSubscriptionRequestCallback(fn func(relay.SubscriptionRequest)) {
	t.subCallback = fn
}

func (t *stubTransport) AcceptSubscription(jid string) error {
	t.log.WithField("jid", jid).Info("accepted subscription")
	return nil
}
