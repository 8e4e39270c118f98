package testutil

import (
	"strings"

	"github.com/orcastack/dummy-agent/core"
)

// FramesOfKind filters frames to those whose kind label matches.
func FramesOfKind(frames []core.Frame, kind string) []core.Frame {
	var out []core.Frame
	for _, f := range frames {
		if core.FrameKind(f) == kind {
			out = append(out, f)
		}
	}
	return out
}

// CountKind returns how many frames carry the given kind label.
func CountKind(frames []core.Frame, kind string) int {
	return len(FramesOfKind(frames, kind))
}

// JoinedText concatenates the text of all text frames in delivery order.
func JoinedText(frames []core.Frame) string {
	var sb strings.Builder
	for _, f := range frames {
		if tf, ok := f.(core.TextFrame); ok {
			sb.WriteString(tf.Text)
		}
	}
	return sb.String()
}
