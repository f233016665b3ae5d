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

// UserRegistry is a concurrency-safe jid -> *User map: a thin named
// wrapper around shared/concurrentmap's generic
// Add/Del/Get/Exists/ForEach shape.
type UserRegistry struct {
	data concurrentmap.ConcurrentMap[string, *User]
}

// NewUserRegistry initializes an empty UserRegistry.
func NewUserRegistry() *UserRegistry {
	return &UserRegistry{data: concurrentmap.New[string, *User]()}
}

// ForEach calls do once for every User currently registered.
func (r *UserRegistry) ForEach(do func(*User)) {
	_ = r.data.ForEach(func(_ string, u *User) error {
		do(u)
		return nil
	})
}

// Length returns the number of registered users.
func (r *UserRegistry) Length() int {
	return r.data.Length()
}

// Add registers a user under key. Returns an error if key is already
// taken.
func (r *UserRegistry) Add(key string, u *User) error {
	if r.data.Exists(key) {
		return fmt.Errorf("UserRegistry: cannot add entry, key already exists: %q", key)
	}
	r.data.Set(key, u)
	return nil
}

// Del removes a user by key. Returns an error if the key does not
// exist.
func (r *UserRegistry) Del(key string) error {
	if !r.data.Delete(key) {
		return fmt.Errorf("UserRegistry: cannot delete entry, key does not exist: %q", key)
	}
	return nil
}

// Get fetches a user by key. Returns an error if the key does not
// exist.
func (r *UserRegistry) Get(key string) (*User, error) {
	u, ok := r.data.Get(key)
	if !ok {
		return nil, fmt.Errorf("UserRegistry: cannot get value, key does not exist: %q", key)
	}
	return u, nil
}

// Exists reports whether key is currently registered.
func (r *UserRegistry) Exists(key string) bool {
	return r.data.Exists(key)
}

// Rekey moves the entry at oldKey to newKey, used when a user's nick
// changes (the Nicks registry is keyed by nick). Returns false if
// oldKey was not present.
func (r *UserRegistry) Rekey(oldKey, newKey string) bool {
	return r.data.ChangeKey(oldKey, newKey)
}
