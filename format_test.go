/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItalicAndBold(t *testing.T) {
	assert.Equal(t, "_hello_", italic("hello"))
	assert.Equal(t, "*hello*", bold("hello"))
	assert.Equal(t, "_count: 3_", italicf("count: %d", 3))
}

func TestRenderRepeated(t *testing.T) {
	assert.Equal(t, "*foo*: hi bar!", renderRepeated("foo", "hi bar!"))
}

func TestRenderAction(t *testing.T) {
	assert.Equal(t, "_* foo waves_", renderAction("foo", "waves"))
}
