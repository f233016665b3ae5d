/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package logfmt

import "github.com/muesli/termenv"

// StyleConfig maps each logrus level to the color and TextStyle
// Formatter renders its tag and fields in.
type StyleConfig struct {
	PanicForeground termenv.Color
	PanicBackground termenv.Color
	PanicStyle      TextStyle
	FatalForeground termenv.Color
	FatalStyle      TextStyle
	ErrorForeground termenv.Color
	ErrorStyle      TextStyle
	WarnForeground  termenv.Color
	WarnStyle       TextStyle
	InfoForeground  termenv.Color
	InfoStyle       TextStyle
	DebugForeground termenv.Color
	DebugStyle      TextStyle
	TraceForeground termenv.Color
	TraceStyle      TextStyle
}

// defaultStyle is the only StyleConfig this package ever constructs -
// chatrelayd has no flag wiring an alternate one in, so the per-field
// options a styled-logging library like this would normally expose
// never found a caller and were cut rather than carried as dead API.
var defaultStyle = StyleConfig{
	PanicForeground: termenv.ANSIBrightWhite,
	PanicBackground: termenv.ANSIBrightRed,
	PanicStyle:      TextStyle{}.Bold().Blink(),
	FatalForeground: termenv.ANSIBrightRed,
	FatalStyle:      TextStyle{}.Bold(),
	ErrorForeground: termenv.ANSIRed,
	ErrorStyle:      TextStyle{}.Bold(),
	WarnForeground:  termenv.ANSIYellow,
	WarnStyle:       TextStyle{}.Bold(),
	InfoForeground:  termenv.ANSICyan,
	InfoStyle:       TextStyle{}.Bold(),
	DebugForeground: termenv.ANSIGreen,
	DebugStyle:      TextStyle{}.Bold(),
	TraceForeground: termenv.ANSIWhite,
	TraceStyle:      TextStyle{}.Bold(),
}
