/*
   Copyright (c) 2023, btnmasher
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

// Package logfmt is the alternative to nested-logrus-formatter that
// options.go's WithStyledLogging swaps in: a logrus.Formatter that
// colors each level's tag and fields with termenv instead of nesting
// them under indentation. chatrelayd never calls New with any
// configuration, so the option surface the upstream formatter this was
// patterned on exposes (field ordering, caller info, per-field style
// overrides, and the rest) was never exercised here and has been cut
// down to the fixed rendering WithStyledLogging actually drives -
// fields render as values only, sorted by key, the same shape
// options.go's nested.Formatter{HideKeys: true} already uses, so
// switching between the two mid-flight doesn't change the shape of a
// log line, only its coloring.
package logfmt

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
)

// Formatter implements logrus.Formatter, rendering one colored line per
// entry: timestamp, a bracketed level tag, sorted "[value]" fields,
// then the message.
type Formatter struct {
	styleConfig *StyleConfig
}

// New builds a Formatter with the package's default level styling.
func New() *Formatter {
	style := defaultStyle
	return &Formatter{styleConfig: &style}
}

// Format renders a single log entry.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	profile := termenv.NewOutput(entry.Logger.Out).ColorProfile()
	levelStyle := f.getStyleByLevel(entry.Level)
	if profile == termenv.Ascii {
		levelStyle = TextStyle{}
	}

	buff := &bytes.Buffer{}
	out := termenv.NewOutput(buff, termenv.WithProfile(profile))

	out.WriteString(entry.Time.Format(time.RFC3339))
	out.WriteString(" ")

	f.writeFields(out, entry, &levelStyle)

	out.WriteString(" ")
	out.WriteString(entry.Message)
	out.WriteString("\n")

	return buff.Bytes(), nil
}

func (f *Formatter) formatLevel(entry *logrus.Entry) string {
	return fmt.Sprintf("[%s]", strings.ToUpper(entry.Level.String())[:4])
}

// formatField renders a field's value only - engine.go's WithField
// calls all use self-describing values (a jid, a channel name, a
// component), so the key adds noise a bracketed value doesn't need.
func (f *Formatter) formatField(entry *logrus.Entry, field string) string {
	return fmt.Sprintf("[%v]", entry.Data[field])
}

func (f *Formatter) writeFields(out io.Writer, entry *logrus.Entry, levelStyle *TextStyle) {
	fields := make([]string, 1, len(entry.Data)+1)
	fields[0] = f.formatLevel(entry)

	if len(entry.Data) != 0 {
		names := make([]string, 0, len(entry.Data))
		for field := range entry.Data {
			names = append(names, field)
		}
		sort.Strings(names)

		for _, field := range names {
			fields = append(fields, f.formatField(entry, field))
		}
	}

	joined := strings.Join(fields, " ")
	levelStyle.WriteStyled(out, joined)
}

func (f *Formatter) getStyleByLevel(level logrus.Level) TextStyle {
	switch level {
	case logrus.PanicLevel:
		return f.styleConfig.PanicStyle.
			background(f.styleConfig.PanicBackground).
			foreground(f.styleConfig.PanicForeground)
	case logrus.FatalLevel:
		return f.styleConfig.FatalStyle.
			foreground(f.styleConfig.FatalForeground)
	case logrus.ErrorLevel:
		return f.styleConfig.ErrorStyle.
			foreground(f.styleConfig.ErrorForeground)
	case logrus.WarnLevel:
		return f.styleConfig.WarnStyle.
			foreground(f.styleConfig.WarnForeground)
	case logrus.InfoLevel:
		return f.styleConfig.InfoStyle.
			foreground(f.styleConfig.InfoForeground)
	case logrus.DebugLevel:
		return f.styleConfig.DebugStyle.
			foreground(f.styleConfig.DebugForeground)
	case logrus.TraceLevel:
		return f.styleConfig.TraceStyle.
			foreground(f.styleConfig.TraceForeground)
	default:
		return TextStyle{}
	}
}
