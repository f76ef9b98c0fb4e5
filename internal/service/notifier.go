package service

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Notifier delivers a push notification for a newly stored message. Delivery
// is best-effort: callers log and count failures but never retry or surface
// them to any client.
type Notifier interface {
	Notify(sender, body string) error
}

// PushNotifier posts to an ntfy-compatible topic. The sender label becomes
// the notification title and the message text the body.
type PushNotifier struct {
	url    string // server base URL
	topic  string
	token  string // optional bearer token
	client *http.Client
}

func NewPushNotifier(url, topic, token string) *PushNotifier {
	return &PushNotifier{
		url:    strings.TrimRight(url, "/"),
		topic:  topic,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *PushNotifier) Notify(sender, body string) error {
	req, err := http.NewRequest(http.MethodPost, n.url+"/"+n.topic, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Title", sender)
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("push provider returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// NoopNotifier is used when no push provider is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(string, string) error { return nil }
