package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github-issues-notice/models"
)

func bugTask() models.Task {
	return models.Task{
		Channels:     []string{"C1"},
		Repositories: []string{"org/a"},
		LabelRules:   []models.LabelRule{{Name: "bug", Threshold: 1, Message: "check!"}},
	}
}

func TestAggregate_CollectsIssuesAndPulls(t *testing.T) {
	tracker := newFakeTracker()
	tracker.issues["org/a"] = []models.Issue{
		labeledIssue(1, "bug", "d73a4a"),
		labeledIssue(2, "feature", "a2eeef"),
		{
			Number:        3,
			URL:           "https://github.com/org/a/pull/3",
			Title:         "PR as issue",
			Author:        "bob",
			State:         "open",
			Labels:        []models.Label{{Name: "bug", Color: "d73a4a"}},
			IsPullRequest: true,
		},
	}
	tracker.pulls["org/a"] = []models.PullRequest{
		{Number: 3, URL: "https://github.com/org/a/pull/3", Title: "PR as issue", Author: "bob", Labels: []models.Label{{Name: "bug", Color: "d73a4a"}}},
		{Number: 4, URL: "https://github.com/org/a/pull/4", Title: "Draft", Author: "bob", Draft: true, Labels: []models.Label{{Name: "bug", Color: "d73a4a"}}},
	}

	task := bugTask()
	NewAggregator(tracker, "proactive").Aggregate(context.Background(), &task, time.Now())

	rule := task.LabelRules[0]
	assert.Equal(t, "d73a4a", rule.Color)
	assert.Equal(t, []string{
		"<https://github.com/org/a/issues/1|Issue 1>(org/a) by alice",
		"<https://github.com/org/a/pull/3|PR as issue>(org/a) by bob",
	}, rule.MatchedItems)
	assert.Equal(t, "open", tracker.issueCalls[0].State)
}

func TestAggregate_OnlyPullRequests(t *testing.T) {
	tracker := newFakeTracker()
	tracker.issues["org/a"] = []models.Issue{labeledIssue(1, "bug", "d73a4a")}
	tracker.pulls["org/a"] = []models.PullRequest{
		{Number: 3, URL: "https://github.com/org/a/pull/3", Title: "Fix", Author: "bob", Labels: []models.Label{{Name: "bug", Color: "ee0701"}}},
	}

	task := bugTask()
	task.OnlyPullRequests = true
	NewAggregator(tracker, "proactive").Aggregate(context.Background(), &task, time.Now())

	assert.Empty(t, tracker.issueCalls)
	assert.Equal(t, []string{"<https://github.com/org/a/pull/3|Fix>(org/a) by bob"}, task.LabelRules[0].MatchedItems)
	assert.Equal(t, "ee0701", task.LabelRules[0].Color)
}

func TestAggregate_LabelProtectionQueriesAllStates(t *testing.T) {
	tracker := newFakeTracker()
	closed := labeledIssue(1, "bug", "d73a4a")
	closed.State = "closed"
	tracker.issues["org/a"] = []models.Issue{closed}

	task := bugTask()
	task.LabelProtection = true
	NewAggregator(tracker, "proactive").Aggregate(context.Background(), &task, time.Now())

	assert.Equal(t, "all", tracker.issueCalls[0].State)
	assert.Len(t, task.LabelRules[0].MatchedItems, 1)
}

func TestAggregate_ShowRelations(t *testing.T) {
	tracker := newFakeTracker()
	issue := labeledIssue(1, "bug", "d73a4a")
	issue.Assignees = []string{"carol"}
	tracker.issues["org/a"] = []models.Issue{issue}
	tracker.pulls["org/a"] = []models.PullRequest{
		{Number: 2, URL: "https://github.com/org/a/pull/2", Title: "Fix", Author: "bob", RequestedReviewers: []string{"dave"}, Labels: []models.Label{{Name: "bug"}}},
	}

	task := bugTask()
	task.ShowRelations = true
	NewAggregator(tracker, "proactive").Aggregate(context.Background(), &task, time.Now())

	assert.Equal(t, []string{
		"<https://github.com/org/a/issues/1|Issue 1>(org/a) by alice [assignees: carol]",
		"<https://github.com/org/a/pull/2|Fix>(org/a) by bob [reviewers: dave]",
	}, task.LabelRules[0].MatchedItems)
}

func TestAggregate_ColorIsLastWriterWins(t *testing.T) {
	tracker := newFakeTracker()
	tracker.issues["org/a"] = []models.Issue{
		labeledIssue(1, "bug", "111111"),
		labeledIssue(2, "bug", "222222"),
	}

	task := bugTask()
	NewAggregator(tracker, "proactive").Aggregate(context.Background(), &task, time.Now())

	// 同名ラベルの色が食い違う場合は最後に見た色になる
	assert.Equal(t, "222222", task.LabelRules[0].Color)
}

func TestAggregate_PartialFailureContinues(t *testing.T) {
	tracker := newFakeTracker()
	tracker.issues["org/a"] = []models.Issue{labeledIssue(1, "bug", "d73a4a"), labeledIssue(2, "feature", "a2eeef")}
	tracker.issues["org/b"] = []models.Issue{labeledIssue(3, "bug", "d73a4a")}
	tracker.failIssues["org/a|bug"] = true

	task := bugTask()
	task.Repositories = []string{"org/a", "", "org/b"}
	task.LabelRules = append(task.LabelRules, models.LabelRule{Name: "feature"})
	NewAggregator(tracker, "proactive").Aggregate(context.Background(), &task, time.Now())

	assert.Len(t, task.LabelRules[0].MatchedItems, 1)
	assert.Contains(t, task.LabelRules[0].MatchedItems[0], "(org/b)")
	assert.Len(t, task.LabelRules[1].MatchedItems, 1)
}

func TestAggregate_Stats(t *testing.T) {
	tracker := newFakeTracker()
	tracker.counts["org/a||"] = 10
	tracker.counts["org/a|pr|"] = 2
	tracker.counts["org/a|issue|proactive"] = 4
	tracker.counts["org/b||"] = 5
	tracker.failCount["org/c"] = true

	task := bugTask()
	task.Repositories = []string{"org/a", "org/b", "org/c"}
	task.StatsEnabled = true
	NewAggregator(tracker, "proactive").Aggregate(context.Background(), &task, time.Now())

	assert.Equal(t, models.Stats{IssuesTotal: 15, PullsTotal: 2, ProactiveTotal: 4}, task.Stats)
}

func TestAggregate_StatsDisabled(t *testing.T) {
	tracker := newFakeTracker()
	tracker.counts["org/a||"] = 10

	task := bugTask()
	NewAggregator(tracker, "proactive").Aggregate(context.Background(), &task, time.Now())

	assert.Equal(t, models.Stats{}, task.Stats)
}

func TestAggregate_RunsIdleReaper(t *testing.T) {
	now := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	tracker := newFakeTracker()
	stale := labeledIssue(1, "question", "")
	stale.UpdatedAt = now.AddDate(0, 0, -40)
	tracker.issues["org/a"] = []models.Issue{stale}

	task := bugTask()
	task.Idle.PeriodDays = 30
	NewAggregator(tracker, "proactive").Aggregate(context.Background(), &task, now)

	assert.Equal(t, []string{"org/a#1"}, tracker.closed)
	assert.Len(t, task.Idle.ClosedItems, 1)
}
