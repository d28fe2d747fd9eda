package common

// Notice is a single text message addressed to a participant.
type Notice struct {
	Recipient string
	Text      string
}

// Reporter delivers notices to participants. Implementations decide how and
// when the text reaches the recipient.
type Reporter interface {
	Report(notice Notice) error
}
