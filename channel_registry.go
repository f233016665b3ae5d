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

	"github.com/smartychat/relay/shared/concurrentmap"
)

// ChannelRegistry is a concurrency-safe name -> *Channel map.
type ChannelRegistry struct {
	data concurrentmap.ConcurrentMap[string, *Channel]
}

// NewChannelRegistry initializes an empty ChannelRegistry.
func NewChannelRegistry() *ChannelRegistry {
	return &ChannelRegistry{data: concurrentmap.New[string, *Channel]()}
}

// ForEach calls do once for every Channel currently registered.
func (r *ChannelRegistry) ForEach(do func(*Channel)) {
	_ = r.data.ForEach(func(_ string, c *Channel) error {
		do(c)
		return nil
	})
}

// Length returns the number of registered channels.
func (r *ChannelRegistry) Length() int {
	return r.data.Length()
}

// Add registers a channel under key. Returns an error if key is already
// taken.
func (r *ChannelRegistry) Add(key string, c *Channel) error {
	if r.data.Exists(key) {
		return fmt.Errorf("ChannelRegistry: cannot add entry, key already exists: %q", key)
	}
	r.data.Set(key, c)
	return nil
}

// Del removes a channel by key. Returns an error if the key does not
// exist.
func (r *ChannelRegistry) Del(key string) error {
	if !r.data.Delete(key) {
		return fmt.Errorf("ChannelRegistry: cannot delete entry, key does not exist: %q", key)
	}
	return nil
}

// Get fetches a channel by key. Returns an error if the key does not
// exist.
func (r *ChannelRegistry) Get(key string) (*Channel, error) {
	c, ok := r.data.Get(key)
	if !ok {
		return nil, fmt.Errorf("ChannelRegistry: cannot get value, key does not exist: %q", key)
	}
	return c, nil
}

// Exists reports whether key is currently registered.
func (r *ChannelRegistry) Exists(key string) bool {
	return r.data.Exists(key)
}
