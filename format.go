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
	"bytes"
	"fmt"

	"github.com/smartychat/relay/shared/pool"
)

// String constants for the lightweight chat-client markup the core
// emits literally in message bodies.
const (
	boldMark   = "*"
	italicMark = "_"
)

// linePool recycles the bytes.Buffer used to build a single outbound
// line. bytes.Buffer already satisfies pool.Resettable, so no wrapper
// type is needed.
var linePool = pool.New(func() *bytes.Buffer { return &bytes.Buffer{} })

// italic wraps text in the chat client's italic markup. Used for every
// system reply and notice.
func italic(text string) string {
	return italicMark + text + italicMark
}

// bold wraps text in the chat client's bold markup.
func bold(text string) string {
	return boldMark + text + boldMark
}

// italicf is italic(fmt.Sprintf(format, args...)).
func italicf(format string, args ...any) string {
	return italic(fmt.Sprintf(format, args...))
}

// renderRepeated builds the "*sender*: body" form a Channel uses when
// relaying a plain chat line from one member to the rest
// (Channel.repeatMessage).
func renderRepeated(senderNick, body string) string {
	buf := linePool.New()
	defer linePool.Recycle(buf)

	buf.WriteString(boldMark)
	buf.WriteString(senderNick)
	buf.WriteString(boldMark)
	buf.WriteString(": ")
	buf.WriteString(body)

	return buf.String()
}

// renderAction builds the "_* nick text_" form /me produces.
func renderAction(nick, text string) string {
	buf := linePool.New()
	defer linePool.Recycle(buf)

	buf.WriteString(italicMark)
	buf.WriteString("* ")
	buf.WriteString(nick)
	buf.WriteString(" ")
	buf.WriteString(text)
	buf.WriteString(italicMark)

	return buf.String()
}
