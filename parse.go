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

// parsedCommand is the result of parsing a "/name tail" message body: a
// lowercase command name plus a raw, not-yet-tokenized argument tail.
type parsedCommand struct {
	Name string
	Tail string
}

// Scrub clears a parsedCommand for reuse, satisfying
// shared/itempool.ScrubbableItem.
func (p *parsedCommand) Scrub() {
	p.Name = ""
	p.Tail = ""
}

// parseCommand matches body against the command grammar
// ^/([a-z]+)(?:$|\s+(.*)) and fills cmd in place. It returns false if
// body is not a command at all (doesn't start with "/"), and reports ok
// = false with an empty cmd if it starts with "/" but doesn't match the
// grammar.
func parseCommand(body string, cmd *parsedCommand) (isCommand, ok bool) {
	if !strings.HasPrefix(body, "/") {
		return false, false
	}

	groups := commandPattern.FindStringSubmatch(body)
	if groups == nil {
		return true, false
	}

	cmd.Name = groups[1]
	if len(groups) > 2 {
		cmd.Tail = strings.TrimSpace(groups[2])
	}
	return true, true
}

// splitArgs tokenizes an argument tail on space characters with
// double-quote grouping; tabs and other whitespace stay inside tokens. An empty tail yields an empty (not nil) slice.
func splitArgs(tail string) []string {
	args := []string{}
	if tail == "" {
		return args
	}

	var current strings.Builder
	inQuotes := false
	hasToken := false

	flush := func() {
		if hasToken {
			args = append(args, current.String())
			current.Reset()
			hasToken = false
		}
	}

	for _, r := range tail {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			hasToken = true
		case r == ' ' && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
			hasToken = true
		}
	}
	flush()

	return args
}
