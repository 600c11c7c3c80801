package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/slack-go/slack"
)

// ErrChannelArchived はアーカイブ済みチャンネルへの投稿
var ErrChannelArchived = errors.New("channel is archived")

// ensureJoined はチャンネルに参加済みでなければ参加する
func (s *SlackChat) ensureJoined(ctx context.Context, channelID string) error {
	info, err := s.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{
		ChannelID: channelID,
	})
	if err != nil {
		return fmt.Errorf("channel status check error (channel: %s): %w", channelID, err)
	}

	if info.IsArchived {
		return fmt.Errorf("%w: %s", ErrChannelArchived, channelID)
	}
	if info.IsMember {
		return nil
	}

	if _, _, _, err := s.api.JoinConversationContext(ctx, channelID); err != nil {
		return fmt.Errorf("channel join error (channel: %s): %w", channelID, err)
	}
	log.Printf("joined channel %s", channelID)
	return nil
}
