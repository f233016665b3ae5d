/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

// Package pool provides a small typed wrapper over sync.Pool for
// reusable, resettable values - format.go's rendered-line builders are
// the only pooled type in this repo.
package pool

import (
	"sync"
)

// Resettable is implemented by pooled values that need their state
// cleared before reuse - format.go's pooled *bytes.Buffer resets
// itself this way between rendered lines.
type Resettable interface {
	Reset()
}

// Pool is a generic, typed wrapper around sync.Pool, so callers like
// format.go's linePool get a T back from New instead of an any.
type Pool[T Resettable] struct {
	pool sync.Pool
}

// New creates a Pool backed by the given factory function.
//
// The equivalent sync.Pool construct is "sync.Pool{New: fn}"
func New[T Resettable](factory func() T) Pool[T] {
	return Pool[T]{
		pool: sync.Pool{New: func() any { return factory() }},
	}
}

// New is a generic wrapper around sync.Pool's Get method.
func (p *Pool[T]) New() T {
	return p.pool.Get().(T)
}

// Recycle resets item before returning it to the underlying sync.Pool.
func (p *Pool[T]) Recycle(item T) {
	item.Reset()
	p.pool.Put(item)
}
