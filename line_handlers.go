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

// registerLineHandlers installs the two LineHandlers into d.
func registerLineHandlers(d *CommandDispatcher) {
	d.registerLine(LineHandler{
		Name:    "PlusPlusHandler",
		Pattern: plusPlusPattern,
		Action:  handlePlusPlus,
	})
	d.registerLine(LineHandler{
		Name:    "VamosQuestionHandler",
		Pattern: vamosQuestionPattern,
		Action:  handleVamosQuestion,
	})
}

// errVamosIsAStatement is VamosQuestionHandler's private reply.
const errVamosIsAStatement Error = `"vamos" is a statement, not a question!`

// handlePlusPlus implements PlusPlusHandler: capture 1 is the scored
// item, capture 2 is "++" or "--", capture 3 is an optional note.
func handlePlusPlus(d *CommandDispatcher, u *User, groups []string) {
	ch := u.Channel()
	if ch == nil {
		return
	}

	item := groups[1]
	op := groups[2]
	note := ""
	if len(groups) > 3 {
		note = groups[3]
	}

	if op == "++" {
		d.engine.incrementScore(ch, item, note)
	} else {
		d.engine.decrementScore(ch, item, note)
	}
}

// handleVamosQuestion implements VamosQuestionHandler: a private,
// italicized correction, never broadcast.
func handleVamosQuestion(d *CommandDispatcher, u *User, _ []string) {
	d.reply(u, string(errVamosIsAStatement))
}
