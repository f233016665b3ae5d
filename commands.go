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
	"fmt"
	"strings"

	"github.com/smartychat/relay/shared/stringutils"
)

// registerCommands installs the command table into d.
func registerCommands(d *CommandDispatcher) {
	d.register(CommandDescriptor{
		Name: "alias", MinArgs: 1, MaxArgs: 1,
		Usage: "name", Desc: "change your nick",
		Action: cmdAlias,
	})
	d.register(CommandDescriptor{
		Name: "help", MinArgs: 0, MaxArgs: 0,
		Usage: "", Desc: "list available commands",
		Action: cmdHelp,
	})
	d.register(CommandDescriptor{
		Name: "join", MinArgs: 1, MaxArgs: 2,
		Usage: "name [password]", Desc: "join or create a channel",
		Action: cmdJoin,
	})
	d.register(CommandDescriptor{
		Name: "list", MinArgs: 0, MaxArgs: 0,
		Usage: "", Desc: "list members of your current channel",
		Action: cmdList,
	})
	d.register(CommandDescriptor{
		Name: "me", MinArgs: 1, MaxArgs: -1,
		Usage: "text", Desc: "broadcast an action to your channel",
		Action: cmdMe,
	})
	d.register(CommandDescriptor{
		Name: "part", MinArgs: 0, MaxArgs: 0,
		Usage: "", Desc: "leave your current channel",
		Action: cmdPart,
	})
	d.register(CommandDescriptor{
		Name: "reset", MinArgs: 1, MaxArgs: 2,
		Usage: "thing [reason]", Desc: "reset a score to zero",
		Action: cmdReset,
	})
	d.register(CommandDescriptor{
		Name: "scores", MinArgs: 0, MaxArgs: 0,
		Usage: "", Desc: "show your channel's scoreboard",
		Action: cmdScores,
	})
}

// errAliasTakenFmt is the /alias-specific collision reply, distinct
// from the generic ErrNickTaken used elsewhere.
const errAliasTakenFmt Error = `Alias "%s" already in use by %s.`

func cmdAlias(d *CommandDispatcher, u *User, args []string) {
	proposed := args[0]

	if proposed == u.Nick() {
		d.reply(u, string(ErrNickUnchanged))
		return
	}
	if !nickPattern.MatchString(proposed) {
		d.reply(u, string(ErrInvalidNick))
		return
	}
	if holder, ok := d.engine.getUserWithNick(proposed); ok && holder != u {
		d.replyf(u, string(errAliasTakenFmt), proposed, holder.JID())
		return
	}

	old := u.Nick()
	if !d.engine.changeNick(u, proposed) {
		d.reply(u, string(ErrNickTaken))
		return
	}

	if ch := u.Channel(); ch != nil {
		ch.broadcastMessage(d.engine.batcher, italicf("*%s* %s is now known as *%s*.", old, u.JID(), proposed))
	}
}

func cmdHelp(d *CommandDispatcher, u *User, _ []string) {
	for _, desc := range d.sortedCommands() {
		usage := desc.Name
		if desc.Usage != "" {
			usage = desc.Name + " " + desc.Usage
		}
		d.replyRaw(u, fmt.Sprintf("*/%s* - %s", usage, desc.Desc))
	}
}

func cmdJoin(d *CommandDispatcher, u *User, args []string) {
	name := args[0]
	password := ""
	if len(args) == 2 {
		password = args[1]
	}

	target, existed := d.engine.getChannel(name, false)
	if !existed {
		target, _ = d.engine.addChannel(name, password)
		d.replyf(u, `Created "%s".`, name)
	} else if !target.CheckPassword(password) {
		d.replyf(u, `Incorrect or missing password for "%s".`, name)
		return
	}

	if current := u.Channel(); current != nil {
		if current == target {
			d.replyf(u, `Already a member of "%s".`, name)
			return
		}
		partChannel(d, u, current)
	}

	target.broadcastMessage(d.engine.batcher, italicf("*%s* <%s> has joined \"%s\".", u.Nick(), u.JID(), name))
	d.engine.moveUserToChannel(u, target)

	n := target.Len()
	d.replyf(u, `Joined "%s" with %d user%s total.`, name, n, plural(n))
}

func cmdList(d *CommandDispatcher, u *User, _ []string) {
	ch := u.Channel()
	if ch == nil {
		d.reply(u, string(ErrNotInChannel))
		return
	}

	members := ch.Members()
	lines := make([]string, 0, len(members))
	for _, m := range members {
		lines = append(lines, fmt.Sprintf("*%s* <%s>", m.Nick(), m.JID()))
	}

	header := fmt.Sprintf("%d user%s in \"%s\":", len(members), plural(len(members)), ch.Name())
	sendChunked(d, u, header, lines)
}

func cmdMe(d *CommandDispatcher, u *User, args []string) {
	ch := u.Channel()
	if ch == nil {
		d.reply(u, string(ErrNotInChannel))
		return
	}
	text := strings.Join(args, " ")
	if text == "" {
		d.reply(u, string(ErrEmptyMessage))
		return
	}
	ch.broadcastMessage(d.engine.batcher, renderAction(u.Nick(), text))
}

func cmdPart(d *CommandDispatcher, u *User, _ []string) {
	ch := u.Channel()
	if ch == nil {
		d.reply(u, string(ErrNotInChannel))
		return
	}
	partChannel(d, u, ch)
	d.replyf(u, `Left "%s".`, ch.Name())
}

// partChannel removes u from ch, broadcasts the departure, and garbage
// collects ch if it is now empty. Shared by /part and /join's implicit
// part-before-rejoin.
func partChannel(d *CommandDispatcher, u *User, ch *Channel) {
	name := ch.Name()
	nick := u.Nick()
	jid := u.JID()

	d.engine.moveUserToChannel(u, nil)
	ch.broadcastMessage(d.engine.batcher, italicf("*%s* <%s> has left \"%s\".", nick, jid, name))
	d.engine.deleteChannel(name)
}

func cmdReset(d *CommandDispatcher, u *User, args []string) {
	ch := u.Channel()
	if ch == nil {
		d.reply(u, string(ErrNotInChannel))
		return
	}
	item := args[0]
	reason := ""
	if len(args) == 2 {
		reason = args[1]
	}

	if _, ok := ch.Score(item); !ok {
		d.reply(u, string(ErrNoSuchScore))
		return
	}
	if !d.engine.resetScore(ch, item) {
		d.reply(u, string(ErrScoreAlreadyZero))
		return
	}

	note := ""
	if reason != "" {
		note = fmt.Sprintf(" (%s)", reason)
	}
	ch.broadcastMessage(d.engine.batcher, italicf("*%s* reset %s's score to 0%s.", u.Nick(), item, note))
}

func cmdScores(d *CommandDispatcher, u *User, _ []string) {
	ch := u.Channel()
	if ch == nil {
		d.reply(u, string(ErrNotInChannel))
		return
	}

	entries := ch.Scores()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("*%s*: %d", e.Item, e.Score))
	}

	header := fmt.Sprintf(`Scores for "%s":`, ch.Name())
	sendChunked(d, u, header, lines)
}

// sendChunked sends header as its own line, then lines packed with
// shared/stringutils.ChunkJoinStrings so no single packed chunk exceeds
// MaxReplyLineLength. The batcher may still join several queued chunks
// into one stanza.
func sendChunked(d *CommandDispatcher, u *User, header string, lines []string) {
	d.replyRaw(u, header)
	for _, chunk := range stringutils.ChunkJoinStrings(MaxReplyLineLength, "\n", lines...) {
		d.replyRaw(u, chunk)
	}
}

// plural returns "s" unless n == 1, matching the "N user[s]" shape used
// throughout these replies.
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
