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
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"

	"github.com/smartychat/relay/shared/logfmt"
)

// config collects NewEngine's tunables, set via the functional options
// below (see DESIGN.md).
type config struct {
	client              Client
	roster              Roster
	logger              *logrus.Logger
	stateFile           string
	saveInterval        time.Duration
	batchInterval       time.Duration
	useSeparateMessages bool
}

// Option configures a ChatEngine at construction time.
type Option func(*config)

func defaultConfig() *config {
	log := logrus.New()
	log.SetFormatter(&nested.Formatter{
		HideKeys:        true,
		TimestampFormat: time.RFC3339,
	})

	return &config{
		logger:        log,
		stateFile:     "chatrelay.state",
		saveInterval:  DefaultSaveInterval,
		batchInterval: DefaultBatchInterval,
	}
}

// WithClient sets the Client NewEngine wires its inbound message
// callback into. Required: NewEngine panics if no WithClient option is
// given.
func WithClient(client Client) Option {
	return func(c *config) { c.client = client }
}

// WithRoster sets the Roster NewEngine wires its subscription-request
// callback into. Required: NewEngine panics if no WithRoster option is
// given.
func WithRoster(roster Roster) Option {
	return func(c *config) { c.roster = roster }
}

// WithLogger overrides the default nested-logrus-formatter logger with
// one of the caller's choosing.
func WithLogger(log *logrus.Logger) Option {
	return func(c *config) { c.logger = log }
}

// WithStyledLogging swaps the default formatter for the repo's own
// shared/logfmt.Formatter, which adds termenv color styling — an
// alternative the boot shim can opt into for interactive terminals.
func WithStyledLogging() Option {
	return func(c *config) {
		c.logger.SetFormatter(logfmt.New())
	}
}

// WithStateFile sets the path the StatePersister reads at boot and
// writes to thereafter. Default "chatrelay.state".
func WithStateFile(path string) Option {
	return func(c *config) { c.stateFile = path }
}

// WithSaveInterval overrides DefaultSaveInterval.
func WithSaveInterval(d time.Duration) Option {
	return func(c *config) { c.saveInterval = d }
}

// WithBatchInterval overrides DefaultBatchInterval.
func WithBatchInterval(d time.Duration) Option {
	return func(c *config) { c.batchInterval = d }
}

// WithSeparateMessages makes the OutboundBatcher send each queued line
// to a recipient as its own stanza instead of newline-joining them.
func WithSeparateMessages() Option {
	return func(c *config) { c.useSeparateMessages = true }
}
