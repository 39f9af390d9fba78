package server

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/df07/go-stratified-raytracer/pkg/core"
)

// ConsoleMessage is one log line streamed to the preview client
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger mirrors a render's log lines to the server log, tagged with the
// render ID, and to the client's console stream
type WebLogger struct {
	prefix string
	out    io.Writer
	lines  chan<- ConsoleMessage
}

// NewWebLogger returns a logger for renderID. A nil channel logs server-side only.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		prefix: "[" + renderID + "] ",
		out:    os.Stdout,
		lines:  consoleChan,
	}
}

func (wl *WebLogger) Printf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	fmt.Fprint(wl.out, wl.prefix+line)

	if wl.lines == nil {
		return
	}
	msg := ConsoleMessage{Message: line, Timestamp: time.Now(), Level: levelOf(line)}
	select {
	case wl.lines <- msg:
	default:
		// a slow client loses console lines, never render time
	}
}

// levelOf classifies a line by its leading word
func levelOf(line string) string {
	switch {
	case strings.HasPrefix(line, "Error"), strings.HasPrefix(line, "Failed"):
		return "error"
	case strings.HasPrefix(line, "Warning"):
		return "warning"
	default:
		return "info"
	}
}
