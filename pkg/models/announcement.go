package models

// Announcement frame types exchanged on the realtime channel.
const (
	// FrameChanged is sent server to client when the canonical task list may
	// have changed. It is an invalidation signal: the message text is
	// informational only and never carries the new data.
	FrameChanged = "changed"
	// FrameAnnounce is sent client to server after a mutation; the server
	// rebroadcasts the message verbatim to every connected client.
	FrameAnnounce = "announce"
)

// Announcement is a frame on the realtime channel. Recipients must treat it
// as a dirty flag and re-query the server for the authoritative list.
type Announcement struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
