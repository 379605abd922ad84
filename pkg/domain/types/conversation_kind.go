package types

// ConversationKind classifies a source conversation and determines how it is
// mapped onto a destination room.
type ConversationKind string

const (
	// KindDirect is a one-to-one direct message (Slack "im")
	KindDirect ConversationKind = "direct"
	// KindMultiDirect is a multi-party direct message (Slack "mpim")
	KindMultiDirect ConversationKind = "multi_direct"
	// KindPrivateChannel is a private channel (Slack "private_channel")
	KindPrivateChannel ConversationKind = "private_channel"
	// KindUnknown covers everything the bridge does not route
	KindUnknown ConversationKind = "unknown"
)

func (x ConversationKind) String() string { return string(x) }
