package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github-issues-notice/models"
)

var errTrackerDown = errors.New("tracker down")

// fakeTracker はテスト用の IssueTracker
type fakeTracker struct {
	issues     map[string][]models.Issue       // key: repo
	pulls      map[string][]models.PullRequest // key: repo
	counts     map[string]int                  // key: repo + "|" + kind + "|" + label
	failIssues map[string]bool                 // key: repo + "|" + label
	failPulls  map[string]bool                 // key: repo + "|" + label
	failCount  map[string]bool                 // key: repo
	failClose  map[int]bool
	issueCalls []IssueQuery
	pullCalls  []PullQuery
	closed     []string
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		issues:     map[string][]models.Issue{},
		pulls:      map[string][]models.PullRequest{},
		counts:     map[string]int{},
		failIssues: map[string]bool{},
		failPulls:  map[string]bool{},
		failCount:  map[string]bool{},
		failClose:  map[int]bool{},
	}
}

func (f *fakeTracker) ListIssues(_ context.Context, repo string, q IssueQuery) ([]models.Issue, error) {
	f.issueCalls = append(f.issueCalls, q)
	label := strings.Join(q.Labels, ",")
	if f.failIssues[repo+"|"+label] {
		return nil, errTrackerDown
	}

	var result []models.Issue
	for _, issue := range f.issues[repo] {
		if q.State == "open" && issue.State == "closed" {
			continue
		}
		if label != "" {
			if _, ok := models.HasLabel(issue.Labels, label); !ok {
				continue
			}
		}
		result = append(result, issue)
	}
	return result, nil
}

func (f *fakeTracker) ListPulls(_ context.Context, repo string, q PullQuery) ([]models.PullRequest, error) {
	f.pullCalls = append(f.pullCalls, q)
	if f.failPulls[repo+"|"+q.Label] {
		return nil, errTrackerDown
	}

	var result []models.PullRequest
	for _, pr := range f.pulls[repo] {
		if _, ok := models.HasLabel(pr.Labels, q.Label); ok {
			result = append(result, pr)
		}
	}
	return result, nil
}

func (f *fakeTracker) CloseIssue(_ context.Context, repo string, number int) error {
	if f.failClose[number] {
		return errTrackerDown
	}
	f.closed = append(f.closed, fmt.Sprintf("%s#%d", repo, number))
	return nil
}

func (f *fakeTracker) CountIssues(_ context.Context, repo string, q CountQuery) (int, error) {
	if f.failCount[repo] {
		return 0, errTrackerDown
	}
	return f.counts[repo+"|"+q.Kind+"|"+q.Label], nil
}

// fakeChat はテスト用の ChatClient
type fakeChat struct {
	last     map[string]*models.ChannelMessage
	posted   map[string][]models.Message
	updated  map[string][]string
	failPost map[string]bool
	failLast map[string]bool
	nextTS   int

	updatedAttachments map[string][][]models.Attachment // updated と同じ順
}

func newFakeChat() *fakeChat {
	return &fakeChat{
		last:     map[string]*models.ChannelMessage{},
		posted:   map[string][]models.Message{},
		updated:  map[string][]string{},
		failPost: map[string]bool{},
		failLast: map[string]bool{},

		updatedAttachments: map[string][][]models.Attachment{},
	}
}

func (f *fakeChat) PostMessage(_ context.Context, channel string, msg models.Message) error {
	if f.failPost[channel] {
		return errors.New("channel_not_found")
	}
	f.nextTS++
	f.posted[channel] = append(f.posted[channel], msg)
	f.last[channel] = &models.ChannelMessage{
		Username: msg.Username,
		Text:     msg.Text,
		TS:       fmt.Sprintf("1700000000.%06d", f.nextTS),
	}
	return nil
}

func (f *fakeChat) UpdateMessage(_ context.Context, channel, ts, text string, attachments []models.Attachment) error {
	f.updated[channel] = append(f.updated[channel], ts)
	f.updatedAttachments[channel] = append(f.updatedAttachments[channel], attachments)
	if last := f.last[channel]; last != nil && last.TS == ts {
		last.Text = text
	}
	return nil
}

func (f *fakeChat) LastMessage(_ context.Context, channel string) (*models.ChannelMessage, error) {
	if f.failLast[channel] {
		return nil, errors.New("not_in_channel")
	}
	return f.last[channel], nil
}

func labeledIssue(number int, label, color string) models.Issue {
	return models.Issue{
		Number: number,
		URL:    fmt.Sprintf("https://github.com/org/a/issues/%d", number),
		Title:  fmt.Sprintf("Issue %d", number),
		Author: "alice",
		State:  "open",
		Labels: []models.Label{{Name: label, Color: color}},
	}
}
