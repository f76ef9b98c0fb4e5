package model

import "encoding/json"

// Relay event types. Inbound and outbound events share the same envelope;
// call/typing/webrtc events are relayed with their payload untouched.
const (
	EventSendMessage     = "send_message"
	EventReceiveMessage  = "receive_message"
	EventTyping          = "typing"
	EventStopTyping      = "stop_typing"
	EventEditMessage     = "edit_message"
	EventDeleteMessage   = "delete_message"
	EventUpdateMessages  = "update_messages"
	EventCallInvite      = "call_invite"
	EventCallAccept      = "call_accept"
	EventCallReject      = "call_reject"
	EventWebRTCOffer     = "webrtc_offer"
	EventWebRTCAnswer    = "webrtc_answer"
	EventWebRTCCandidate = "webrtc_ice_candidate"
)

// Event is the wire envelope for every relay message.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// EditPayload carries an edit_message request. Index is a pointer so a
// missing field is distinguishable from index 0; a missing or non-numeric
// index is treated as out of range.
type EditPayload struct {
	Index      *int   `json:"index"`
	NewMessage string `json:"new_message"`
}

// DeletePayload carries a delete_message request.
type DeletePayload struct {
	Index *int `json:"index"`
}
