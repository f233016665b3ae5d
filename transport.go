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

import "strings"

// Stanza is a chat-type message the engine hands to the Client for
// delivery. The transport is responsible for turning this into whatever
// wire representation XMPP requires; the core only ever produces chat
// messages addressed to a single bare or full JID.
type Stanza struct {
	To   string
	Body string
}

// InboundMessage is the shape of an incoming one-to-one chat message, as
// delivered by the Client's registered callback. From may carry a
// /resource suffix and Body may be absent; Type is inspected only to
// drop stanzas of type "error".
type InboundMessage struct {
	Type string
	From string
	Body string
	// HasBody distinguishes an empty body from a genuinely absent one,
	// since "" is a legal (if useless) chat body.
	HasBody bool
}

// SubscriptionRequest is the shape of an incoming roster subscription
// request, as delivered by the Roster's registered callback. The core
// does not inspect Presence; only JID is passed to the accept call.
type SubscriptionRequest struct {
	JID      string
	Presence any
}

// Client abstracts the injected XMPP client session. The core never
// constructs or owns one; it is handed one at NewEngine time and only
// ever calls Send and RegisterMessageCallback.
type Client interface {
	// Send delivers a single chat stanza. Implementations own retry and
	// reconnection policy; failures are logged by the caller and never
	// retried here.
	Send(stanza Stanza) error

	// RegisterMessageCallback installs the function invoked once per
	// inbound chat message.
	RegisterMessageCallback(fn func(InboundMessage))
}

// Roster abstracts the injected XMPP roster/presence session.
type Roster interface {
	// RegisterSubscriptionRequestCallback installs the function invoked
	// once per incoming subscription request.
	RegisterSubscriptionRequestCallback(fn func(SubscriptionRequest))

	// AcceptSubscription unconditionally approves a pending
	// subscription request for the given bare JID.
	AcceptSubscription(jid string) error
}

// bareJID strips a trailing "/resource" suffix from a JID. Only the
// bare localpart@domain form is ever used as a user key.
func bareJID(jid string) string {
	if i := strings.IndexByte(jid, '/'); i >= 0 {
		return jid[:i]
	}
	return jid
}

// localpart returns the portion of a bare or full JID before the '@',
// used by inventNickLocked to derive a starting nickname.
func localpart(jid string) string {
	bare := bareJID(jid)
	if i := strings.IndexByte(bare, '@'); i >= 0 {
		return bare[:i]
	}
	return bare
}
