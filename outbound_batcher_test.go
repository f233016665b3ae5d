/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package relay_test

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	relay "github.com/smartychat/relay"
)

type batcherFakeClient struct {
	mu   sync.Mutex
	sent map[string][]string
}

func (c *batcherFakeClient) Send(s relay.Stanza) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sent == nil {
		c.sent = make(map[string][]string)
	}
	c.sent[s.To] = append(c.sent[s.To], s.Body)
	return nil
}

func (c *batcherFakeClient) RegisterMessageCallback(func(relay.InboundMessage)) {}

func (c *batcherFakeClient) linesFor(jid string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent[jid]...)
}

var _ = Describe("OutboundBatcher", func() {
	var (
		client *batcherFakeClient
		b      *relay.OutboundBatcher
		log    *logrus.Entry
	)

	BeforeEach(func() {
		client = &batcherFakeClient{}
		log = logrus.New().WithField("test", true)
	})

	AfterEach(func() {
		if b != nil {
			b.Stop()
		}
	})

	Context("with zero batching interval", func() {
		BeforeEach(func() {
			b = relay.NewOutboundBatcher(client, 0, false, log)
			go b.Run()
		})

		It("delivers every enqueued line in FIFO order, joined with newlines", func() {
			b.Enqueue("foo@example.com", "one")
			b.Enqueue("foo@example.com", "two")
			b.Enqueue("foo@example.com", "three")
			b.WaitUntilDrained()

			Eventually(func() []string {
				return client.linesFor("foo@example.com")
			}).Should(Equal([]string{"one\ntwo\nthree"}))
		})

		It("keeps each recipient's queue independent", func() {
			b.Enqueue("foo@example.com", "hi foo")
			b.Enqueue("bar@example.com", "hi bar")
			b.WaitUntilDrained()

			Eventually(func() []string { return client.linesFor("foo@example.com") }).Should(Equal([]string{"hi foo"}))
			Eventually(func() []string { return client.linesFor("bar@example.com") }).Should(Equal([]string{"hi bar"}))
		})
	})

	Context("with useSeparateMessages enabled", func() {
		BeforeEach(func() {
			b = relay.NewOutboundBatcher(client, 0, true, log)
			go b.Run()
		})

		It("sends each queued line as its own stanza", func() {
			b.Enqueue("foo@example.com", "one")
			b.Enqueue("foo@example.com", "two")
			b.WaitUntilDrained()

			Eventually(func() []string {
				return client.linesFor("foo@example.com")
			}).Should(Equal([]string{"one", "two"}))
		})
	})

	Context("Stop", func() {
		It("drains any queued work before the worker loop exits", func() {
			b = relay.NewOutboundBatcher(client, 0, false, log)
			go b.Run()

			b.Enqueue("foo@example.com", "last words")
			b.Stop()

			Expect(client.linesFor("foo@example.com")).To(Equal([]string{"last words"}))
			b = nil // already stopped; skip AfterEach's Stop
		})
	})

	Context("pacing", func() {
		It("does not flush more often than the configured interval", func() {
			b = relay.NewOutboundBatcher(client, 200*time.Millisecond, false, log)
			go b.Run()

			start := time.Now()
			b.Enqueue("foo@example.com", "one")
			b.WaitUntilDrained()
			first := time.Since(start)

			b.Enqueue("foo@example.com", "two")
			b.WaitUntilDrained()
			total := time.Since(start)

			Expect(total - first).To(BeNumerically(">=", 150*time.Millisecond))
		})
	})
})
