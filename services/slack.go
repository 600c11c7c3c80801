package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github-issues-notice/models"
)

// ChatClient はチャットへの投稿・更新・履歴参照
type ChatClient interface {
	PostMessage(ctx context.Context, channel string, msg models.Message) error
	UpdateMessage(ctx context.Context, channel, ts, text string, attachments []models.Attachment) error
	LastMessage(ctx context.Context, channel string) (*models.ChannelMessage, error)
}

// SlackChat は slack-go を使った ChatClient
type SlackChat struct {
	api *slack.Client
}

// NewSlackChat は Bot トークンで Slack クライアントを作る
func NewSlackChat(token string, options ...slack.Option) *SlackChat {
	return &SlackChat{api: slack.New(token, options...)}
}

// PostMessage はチャンネルに参加してから投稿する
func (s *SlackChat) PostMessage(ctx context.Context, channel string, msg models.Message) error {
	if err := s.ensureJoined(ctx, channel); err != nil {
		return err
	}

	options := []slack.MsgOption{
		slack.MsgOptionText(msg.Text, false),
		slack.MsgOptionAttachments(toSlackAttachments(msg.Attachments)...),
	}
	if msg.Username != "" {
		options = append(options, slack.MsgOptionUsername(msg.Username))
	}
	if msg.IconEmoji != "" {
		options = append(options, slack.MsgOptionIconEmoji(msg.IconEmoji))
	}

	if _, _, err := s.api.PostMessageContext(ctx, channel, options...); err != nil {
		return fmt.Errorf("slack post error (channel: %s): %w", channel, err)
	}
	return nil
}

// UpdateMessage は既存メッセージの本文と添付を差し替える
// chat.update は添付を省略すると前回のものを残すため、毎回送り直す
func (s *SlackChat) UpdateMessage(ctx context.Context, channel, ts, text string, attachments []models.Attachment) error {
	if err := s.ensureJoined(ctx, channel); err != nil {
		return err
	}

	options := []slack.MsgOption{
		slack.MsgOptionText(text, false),
		slack.MsgOptionAttachments(toSlackAttachments(attachments)...),
	}
	if _, _, _, err := s.api.UpdateMessageContext(ctx, channel, ts, options...); err != nil {
		return fmt.Errorf("slack update error (channel: %s, ts: %s): %w", channel, ts, err)
	}
	return nil
}

// LastMessage はチャンネルの最新メッセージを返す（履歴が空なら nil）
func (s *SlackChat) LastMessage(ctx context.Context, channel string) (*models.ChannelMessage, error) {
	if err := s.ensureJoined(ctx, channel); err != nil {
		return nil, err
	}

	history, err := s.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channel,
		Limit:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("slack history error (channel: %s): %w", channel, err)
	}
	if len(history.Messages) == 0 {
		return nil, nil
	}

	m := history.Messages[0]
	return &models.ChannelMessage{
		Username: m.Username,
		Text:     m.Text,
		TS:       m.Timestamp,
	}, nil
}

func toSlackAttachments(attachments []models.Attachment) []slack.Attachment {
	converted := make([]slack.Attachment, 0, len(attachments))
	for _, a := range attachments {
		fields := make([]slack.AttachmentField, 0, len(a.Fields))
		for _, f := range a.Fields {
			fields = append(fields, slack.AttachmentField{Title: f.Title, Value: f.Value, Short: f.Short})
		}
		converted = append(converted, slack.Attachment{
			Title:  a.Title,
			Color:  slackColor(a.Color),
			Text:   a.Text,
			Fields: fields,
			Footer: a.Footer,
		})
	}
	return converted
}

// slackColor は GitHub のラベル色 (d73a4a) を Slack の形式 (#d73a4a) にする
func slackColor(color string) string {
	switch {
	case color == "":
		return ""
	case strings.HasPrefix(color, "#"):
		return color
	case color == "good" || color == "warning" || color == "danger":
		return color
	default:
		return "#" + color
	}
}
