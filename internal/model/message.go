package model

// Media describes an attachment referenced by a message.
type Media struct {
	Type string `json:"type"` // "image" or "video"
	URL  string `json:"url"`
}

// Message is one entry in the persisted chat log.
// A message's identity for edit/delete purposes is its zero-based index in
// the log, not a stable id; the index is only meaningful against the log
// state the client last observed.
type Message struct {
	Sender string `json:"sender"`
	Body   string `json:"message"`
	Media  *Media `json:"media,omitempty"`
	Time   string `json:"time"` // client-supplied, stored verbatim
}
