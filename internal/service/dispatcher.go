package service

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/AnikethTS/citadel-backend-v2/internal/metrics"
	"github.com/AnikethTS/citadel-backend-v2/internal/model"
	"github.com/AnikethTS/citadel-backend-v2/internal/repository"
)

// Dispatcher applies inbound relay events: it mutates the message log where
// the event calls for it and fans the resulting broadcast out through the
// hub. It keeps no per-connection state; every event stands on its own.
//
// Broadcast policy: every relayed event skips the client it came from,
// except update_messages which goes to all clients (the mutator included)
// so everyone converges on the same log.
type Dispatcher struct {
	messages *repository.MessageLog
	hub      *Hub
	notifier Notifier
	log      zerolog.Logger
}

func NewDispatcher(messages *repository.MessageLog, hub *Hub, notifier Notifier, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{messages: messages, hub: hub, notifier: notifier, log: log}
}

// Dispatch handles one inbound event from a connected client. Storage
// failures are logged and end the event; they never reach the sender or
// any other connection.
func (d *Dispatcher) Dispatch(sender *Client, event model.Event) {
	switch event.Type {
	case model.EventSendMessage:
		d.handleChat(sender, event.Data)

	case model.EventEditMessage:
		d.handleEdit(event.Data)

	case model.EventDeleteMessage:
		d.handleDelete(event.Data)

	case model.EventTyping, model.EventStopTyping,
		model.EventCallInvite, model.EventCallAccept, model.EventCallReject,
		model.EventWebRTCOffer, model.EventWebRTCAnswer, model.EventWebRTCCandidate:
		// Pure relay: payload passes through untouched, from/to hints and all.
		d.hub.BroadcastExcept(sender, event)

	default:
		d.log.Warn().Str("type", event.Type).Msg("unknown event type")
	}
}

// PublishMedia appends an upload-created message and broadcasts it to every
// client, exactly like a chat message. The uploader talks HTTP, not the
// relay, so there is no sender connection to exclude.
func (d *Dispatcher) PublishMedia(msg model.Message) error {
	return d.publish(nil, msg, nil)
}

func (d *Dispatcher) handleChat(sender *Client, data json.RawMessage) {
	var msg model.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		d.log.Warn().Err(err).Msg("malformed chat payload")
		return
	}
	if err := d.publish(sender, msg, data); err != nil {
		d.log.Error().Err(err).Msg("store chat message")
	}
}

// publish is the shared append-then-broadcast path. The broadcast only
// happens after the log write succeeded, so no client ever sees a message
// that a following history fetch would not return.
func (d *Dispatcher) publish(sender *Client, msg model.Message, payload json.RawMessage) error {
	if err := d.messages.Append(msg); err != nil {
		metrics.StorageErrors.Inc()
		return err
	}
	metrics.MessagesStored.Inc()

	if payload == nil {
		payload, _ = json.Marshal(msg)
	}
	d.hub.BroadcastExcept(sender, model.Event{Type: model.EventReceiveMessage, Data: payload})

	go func() {
		if err := d.notifier.Notify(msg.Sender, msg.Body); err != nil {
			metrics.NotifyFailures.Inc()
			d.log.Warn().Err(err).Msg("push notification failed")
		}
	}()
	return nil
}

func (d *Dispatcher) handleEdit(data json.RawMessage) {
	var p model.EditPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Index == nil {
		// Missing or non-numeric index counts as out of range: silent no-op.
		return
	}

	msgs, ok, err := d.messages.UpdateAt(*p.Index, p.NewMessage)
	if err != nil {
		metrics.StorageErrors.Inc()
		d.log.Error().Err(err).Int("index", *p.Index).Msg("edit message")
		return
	}
	if ok {
		d.broadcastLog(msgs)
	}
}

func (d *Dispatcher) handleDelete(data json.RawMessage) {
	var p model.DeletePayload
	if err := json.Unmarshal(data, &p); err != nil || p.Index == nil {
		return
	}

	msgs, ok, err := d.messages.DeleteAt(*p.Index)
	if err != nil {
		metrics.StorageErrors.Inc()
		d.log.Error().Err(err).Int("index", *p.Index).Msg("delete message")
		return
	}
	if ok {
		d.broadcastLog(msgs)
	}
}

func (d *Dispatcher) broadcastLog(msgs []model.Message) {
	data, err := json.Marshal(msgs)
	if err != nil {
		d.log.Error().Err(err).Msg("marshal message log")
		return
	}
	d.hub.Broadcast(model.Event{Type: model.EventUpdateMessages, Data: data})
}
