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
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/smartychat/relay/shared/itempool"
)

// CommandAction is the function signature of a registered command's
// implementation. It receives the dispatcher (for replying and for
// reaching the engine), the issuing user, and the already-tokenized
// argument list.
type CommandAction func(d *CommandDispatcher, u *User, args []string)

// CommandDescriptor is a single entry in the command registry:
// {name, arity, usage, action}. MinArgs/MaxArgs bound the tokenized
// argument count; MaxArgs < 0 means unbounded.
type CommandDescriptor struct {
	Name    string
	MinArgs int
	MaxArgs int
	Usage   string
	Desc    string
	Action  CommandAction
}

// LineHandlerAction is the function signature of a registered line
// handler's implementation, invoked with the regex submatches.
type LineHandlerAction func(d *CommandDispatcher, u *User, groups []string)

// LineHandler matches a regex against every non-command channel message
// body, after the channel has already repeated it.
type LineHandler struct {
	Name    string
	Pattern patternMatcher
	Action  LineHandlerAction
}

// patternMatcher is the subset of *regexp.Regexp the dispatcher needs;
// narrowed to ease testing with handwritten matchers if ever needed.
type patternMatcher interface {
	FindStringSubmatch(string) []string
}

// CommandDispatcher parses each inbound message body and routes it to a
// registered command or, for plain channel chat, to every registered
// LineHandler. A single map lookup plus one action per command, with no
// middleware chain (see DESIGN.md) and per-dispatch structured logging.
type CommandDispatcher struct {
	engine       *ChatEngine
	commands     map[string]*CommandDescriptor
	order        []string
	lineHandlers []*LineHandler
	cmdPool      itempool.Pool[*parsedCommand]
	log          *logrus.Entry
}

// NewCommandDispatcher builds a dispatcher bound to engine and populates
// the command table and line handlers.
func NewCommandDispatcher(engine *ChatEngine, log *logrus.Entry) *CommandDispatcher {
	d := &CommandDispatcher{
		engine:   engine,
		commands: make(map[string]*CommandDescriptor),
		cmdPool:  itempool.New[*parsedCommand](64, func() *parsedCommand { return &parsedCommand{} }),
		log:      log.WithField("component", "dispatcher"),
	}
	registerCommands(d)
	registerLineHandlers(d)
	return d
}

// register adds a command descriptor to the table. Panics on a
// duplicate name: a dispatch table with two actions for the same
// command is a programming error, not a runtime condition.
func (d *CommandDispatcher) register(desc CommandDescriptor) {
	if _, exists := d.commands[desc.Name]; exists {
		panic(fmt.Sprintf("dispatcher: command already registered: %s", desc.Name))
	}
	d.commands[desc.Name] = &desc
	d.order = append(d.order, desc.Name)
}

// registerLine appends a LineHandler, matched against every
// non-command body in the order registered.
func (d *CommandDispatcher) registerLine(h LineHandler) {
	handler := h
	d.lineHandlers = append(d.lineHandlers, &handler)
}

// sortedCommands returns the registered descriptors sorted by name, for
// /help.
func (d *CommandDispatcher) sortedCommands() []*CommandDescriptor {
	names := make([]string, len(d.order))
	copy(names, d.order)
	sort.Strings(names)

	out := make([]*CommandDescriptor, 0, len(names))
	for _, name := range names {
		out = append(out, d.commands[name])
	}
	return out
}

// reply enqueues a single italicized line to u, the shape used for
// every error and single-line confirmation.
func (d *CommandDispatcher) reply(u *User, text string) {
	d.engine.batcher.Enqueue(u.JID(), italic(text))
}

// replyf is reply(u, fmt.Sprintf(format, args...)).
func (d *CommandDispatcher) replyf(u *User, format string, args ...any) {
	d.reply(u, fmt.Sprintf(format, args...))
}

// replyRaw enqueues a single unwrapped line to u — used by listing
// commands (/list, /scores, /help) whose lines are not individually
// italicized.
func (d *CommandDispatcher) replyRaw(u *User, text string) {
	d.engine.batcher.Enqueue(u.JID(), text)
}

// Dispatch parses body and routes it. Called by ChatEngine.handleMessage
// after u has already been looked up/created. A command is routed to
// its action directly; a non-command body is routed to dispatchLine,
// and if u is in a channel the channel has already repeated it to the
// rest of the membership by the time Dispatch is called.
func (d *CommandDispatcher) Dispatch(u *User, body string) {
	cmd := d.cmdPool.New()
	defer d.cmdPool.Recycle(cmd)

	isCommand, ok := parseCommand(body, cmd)
	if !isCommand {
		d.dispatchLine(u, body)
		return
	}
	if !ok {
		d.reply(u, string(errUnparsableCommand))
		return
	}

	desc, exists := d.commands[cmd.Name]
	if !exists {
		d.replyf(u, string(errUnknownCommandFmt), cmd.Name)
		return
	}

	args := splitArgs(cmd.Tail)
	log := d.log.WithField("command", cmd.Name)

	if len(args) < desc.MinArgs || (desc.MaxArgs >= 0 && len(args) > desc.MaxArgs) {
		log.Debug("rejected command for wrong arity")
		d.reply(u, string(ErrWrongArity))
		return
	}

	log.Debug("dispatching command")
	desc.Action(d, u, args)
}

// dispatchLine runs every registered LineHandler against a non-command
// body. This only fires for channel chat, after the channel has
// already repeated it; a user with no channel never reaches here
// (ChatEngine routes that case to the welcome/"join first" reply
// instead).
func (d *CommandDispatcher) dispatchLine(u *User, body string) {
	for _, h := range d.lineHandlers {
		groups := h.Pattern.FindStringSubmatch(body)
		if groups == nil {
			continue
		}
		h.Action(d, u, groups)
	}
}

// Reply-text constants for the two dispatcher-level errors, as opposed
// to the command-level Error constants in errors.go.
const (
	errUnparsableCommand Error = "Unparsable command; try */help*."
	errUnknownCommandFmt Error = `Unknown command "%s"; try */help*.`
)
