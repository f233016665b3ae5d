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

// Package concurrentmap backs UserRegistry and ChannelRegistry: a
// generic, mutex-guarded map keyed by jid or channel name. Trimmed to
// the surface those two registries actually call — bulk snapshot reads
// (Keys/Values/iterator variants) and Clear never found a caller here,
// since both registries walk their contents with ForEach instead.
package concurrentmap

import (
	"errors"
	"sync"
)

// ConcurrentMap is a thread-safe map, the shape both UserRegistry and
// ChannelRegistry store their jid/name-keyed entries in.
type ConcurrentMap[K comparable, V any] interface {
	Length() int
	Get(K) (V, bool)
	Set(K, V)
	ChangeKey(K, K) bool
	Delete(K) bool
	Exists(K) bool
	ForEach(func(K, V) error) error
}

func New[K comparable, V any]() ConcurrentMap[K, V] {
	return &concurrentMapImpl[K, V]{
		m: make(map[K]V),
	}
}

type concurrentMapImpl[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

func (cm *concurrentMapImpl[K, V]) Length() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.m)
}

func (cm *concurrentMapImpl[K, V]) Get(key K) (V, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	value, ok := cm.m[key]
	return value, ok
}

func (cm *concurrentMapImpl[K, V]) Set(key K, value V) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.m[key] = value
}

// ChangeKey moves a value from oldKey to newKey in one critical
// section, used by UserRegistry when a user's nick changes so a reader
// never observes the value under neither key.
func (cm *concurrentMapImpl[K, V]) ChangeKey(oldKey K, newKey K) bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if value, exists := cm.m[oldKey]; exists {
		delete(cm.m, oldKey)
		cm.m[newKey] = value
		return true
	}
	return false
}

func (cm *concurrentMapImpl[K, V]) Delete(key K) bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if _, exists := cm.m[key]; exists {
		delete(cm.m, key)
		return true
	}
	return false
}

func (cm *concurrentMapImpl[K, V]) Exists(key K) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	_, ok := cm.m[key]
	return ok
}

// ForEach calls do for every entry under the read lock, joining any
// errors it returns rather than aborting early - a snapshot loop
// walking every user or channel wants to see every entry regardless of
// one failing.
func (cm *concurrentMapImpl[K, V]) ForEach(do func(K, V) error) error {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	var errs error
	for k, v := range cm.m {
		if err := do(k, v); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
