package commsutil

import "strings"

// Default COMMS subjects.
const (
	// SubjectDiagnostic serves the request/reply diagnostic surface
	// (setChannel, listChannels).
	SubjectDiagnostic = "tracelight.diagnostic.v1"
	// SubjectEntries carries every streamed entry regardless of channel.
	SubjectEntries = "tracelight.entries"
)

// BuildEntrySubject builds the per-channel entry stream subject. Dots in the
// channel name would create extra subject tokens, so they are replaced.
func BuildEntrySubject(channel string) string {
	safe := strings.ReplaceAll(channel, ".", "_")
	return SubjectEntries + "." + safe
}
