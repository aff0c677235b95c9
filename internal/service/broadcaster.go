package service

// Broadcaster pushes events to the websocket connections of one login
// (avoids import cycle)
type Broadcaster interface {
	BroadcastToOwner(owner string, msgType string, payload interface{})
	DisconnectOwner(owner string)
}

// Message types pushed to interview clients
const (
	MsgSnapshot       = "snapshot"
	MsgCredits        = "credits"
	MsgNavigate       = "navigate"
	MsgSessionExpired = "session_expired"
)
