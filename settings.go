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
	"regexp"
	"time"
)

// Defaults for the background workers. Both are overridable via
// functional options on NewEngine.
const (
	// DefaultSaveInterval is the minimum spacing between state snapshot
	// writes.
	DefaultSaveInterval = 10 * time.Second

	// DefaultBatchInterval is the minimum spacing between outbound
	// flushes to a single recipient.
	DefaultBatchInterval = 2 * time.Second
)

// Reply formatting limits.
const (
	// MaxReplyLineLength bounds the length of a single chunked /list or
	// /scores line before ChunkJoinStrings starts a new one.
	MaxReplyLineLength = 900

	// InventedNickSuffixMax is the largest numeric suffix inventNickLocked
	// will try before falling back to the full JID.
	InventedNickSuffixMax = 100
)

// nickPattern is the validity regex for nicknames.
var nickPattern = regexp.MustCompile(`^[-_.a-zA-Z0-9]+$`)

// commandPattern is the grammar for a command line.
var commandPattern = regexp.MustCompile(`^/([a-z]+)(?:$|\s+(.*))`)

// plusPlusPattern matches an item++/-- score nudge embedded anywhere in
// a message body.
var plusPlusPattern = regexp.MustCompile(`\b(\S{2,})(\+\+|--)(?:\s*[.,]?\s+(.*)|\.\s*$|$)`)

// vamosQuestionPattern matches a rhetorical "vamos?" at the end of a
// message body (trailing whitespace allowed), case-insensitively.
var vamosQuestionPattern = regexp.MustCompile(`(?i)\b(?:¿)?vamos\?\s*$`)
