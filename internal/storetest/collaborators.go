package storetest

import (
	"context"
	"sync"

	"github.com/WarriorSushi/supaviewer/internal/model"
)

// Notification is one recorded Notify call.
type Notification struct {
	Recipient string
	Subject   string
	Body      string
}

// Notifier records notifications and optionally fails them.
type Notifier struct {
	mu   sync.Mutex
	Err  error
	Sent []Notification
}

func (n *Notifier) Notify(ctx context.Context, recipient, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, Notification{Recipient: recipient, Subject: subject, Body: body})
	return n.Err
}

func (n *Notifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Sent)
}

// Metadata is a fixed-answer metadata fetcher.
type Metadata struct {
	Meta model.VideoMetadata
	Err  error
}

func (m *Metadata) Fetch(ctx context.Context, videoID string) (*model.VideoMetadata, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	meta := m.Meta
	if meta.ThumbnailURL == "" {
		meta.ThumbnailURL = "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg"
	}
	return &meta, nil
}
