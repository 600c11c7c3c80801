package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github-issues-notice/models"
)

// MessageSettings は投稿メッセージの文言設定
type MessageSettings struct {
	Username       string
	IconEmoji      string
	TextSuffix     string
	TextEmpty      string // 「すべて片付いた」メッセージ。更新対象の目印にもなる
	TextDefault    string
	ProactiveLabel string
}

// Notification はタスク1件分の通知内容
type Notification struct {
	Channels    []string
	Mention     string
	Text        string
	Attachments []models.Attachment
	Empty       bool
}

// 配信結果
const (
	DeliveryPosted  = "posted"
	DeliveryUpdated = "updated"
	DeliveryFailed  = "failed"
)

// Delivery はチャンネル1つへの配信結果
type Delivery struct {
	Channel string `json:"channel"`
	Action  string `json:"action"`
	Error   string `json:"error,omitempty"`
}

// Compose は集計済みタスクから通知内容を組み立てる
func Compose(task models.Task, s MessageSettings) Notification {
	builder := NewAttachmentBuilder()
	if task.StatsEnabled {
		builder.AddStats(task.RepositoryCount(), task.Stats, s.ProactiveLabel)
	}

	empty := true
	for _, rule := range task.LabelRules {
		if len(rule.MatchedItems) > 0 {
			empty = false
		}
		builder.AddLabel(rule)
	}
	if len(task.Idle.ClosedItems) > 0 {
		empty = false
	}
	builder.AddIdle(task.Idle)

	n := Notification{
		Channels:    task.Channels,
		Attachments: builder.Build(),
		Empty:       empty,
	}

	if empty {
		n.Text = s.TextEmpty + s.TextSuffix
		return n
	}

	if len(task.Mentions) > 0 {
		n.Mention = strings.Join(task.Mentions, " ") + " "
	}
	n.Text = n.Mention + s.TextDefault + s.TextSuffix
	return n
}

// Composer は通知をチャンネルへ配信する
type Composer struct {
	Chat     ChatClient
	Settings MessageSettings
}

// Deliver はチャンネルごとに投稿する
// 空の通知は直前の「片付いた」メッセージがあればそれを更新し、連投しない
func (c *Composer) Deliver(ctx context.Context, n Notification, now time.Time) []Delivery {
	deliveries := make([]Delivery, 0, len(n.Channels))

	for _, ch := range n.Channels {
		var d Delivery
		if n.Empty {
			d = c.deliverEmpty(ctx, ch, n, now)
		} else {
			d = c.post(ctx, ch, n)
		}

		if d.Action == DeliveryFailed {
			log.Printf("notification error (channel: %s): %s", ch, d.Error)
		} else {
			log.Printf("notification %s (channel: %s)", d.Action, ch)
		}
		deliveries = append(deliveries, d)
	}

	return deliveries
}

func (c *Composer) deliverEmpty(ctx context.Context, channel string, n Notification, now time.Time) Delivery {
	last, err := c.Chat.LastMessage(ctx, channel)
	if err != nil {
		// 履歴が取れなくても新規投稿は試みる
		log.Printf("last message lookup error (channel: %s): %v", channel, err)
	}

	if last != nil && c.isEmptyMessage(last) {
		text := fmt.Sprintf("%s (last updated at %s)", n.Text, now.Format("2006-01-02 15:04"))
		if err := c.Chat.UpdateMessage(ctx, channel, last.TS, text, n.Attachments); err != nil {
			return Delivery{Channel: channel, Action: DeliveryFailed, Error: err.Error()}
		}
		return Delivery{Channel: channel, Action: DeliveryUpdated}
	}

	return c.post(ctx, channel, n)
}

func (c *Composer) post(ctx context.Context, channel string, n Notification) Delivery {
	err := c.Chat.PostMessage(ctx, channel, models.Message{
		Username:    c.Settings.Username,
		IconEmoji:   c.Settings.IconEmoji,
		Text:        n.Text,
		Attachments: n.Attachments,
	})
	if err != nil {
		return Delivery{Channel: channel, Action: DeliveryFailed, Error: err.Error()}
	}
	return Delivery{Channel: channel, Action: DeliveryPosted}
}

// isEmptyMessage は自分が投稿した「片付いた」メッセージか
func (c *Composer) isEmptyMessage(m *models.ChannelMessage) bool {
	if c.Settings.TextEmpty == "" {
		return false
	}
	return m.Username == c.Settings.Username && strings.Contains(m.Text, c.Settings.TextEmpty)
}
