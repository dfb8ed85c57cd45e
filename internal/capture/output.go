package capture

import (
	"regexp"
	"strings"
)

// maxOutputBytes caps stored command output. Truncation is applied to
// raw bytes before lossy decoding, so a multi-byte sequence split at
// the cap is dropped rather than stored broken.
const maxOutputBytes = 10 * 1024

// ansiEscape matches CSI sequences, OSC sequences, and other two-byte
// escapes left behind by a PTY capture.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(\x07|\x1b\\)|\x1b[@-_]`)

// sanitizeOutput strips ANSI escapes and control noise from captured
// terminal output and byte-truncates it to the storage cap.
func sanitizeOutput(raw []byte) string {
	text := ansiEscape.ReplaceAllString(string(raw), "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if len(text) > maxOutputBytes {
		text = text[:maxOutputBytes]
	}
	// Lossy decode: drop any multi-byte rune split by the byte cap.
	text = strings.ToValidUTF8(text, "")
	return strings.TrimSpace(text)
}
