package services

import (
	"context"
	"log"
	"time"

	"github-issues-notice/models"
)

// Aggregator はタスクのリポジトリ×ラベルごとに Issue / PR を集める
type Aggregator struct {
	Tracker        IssueTracker
	Reaper         *IdleReaper
	ProactiveLabel string
}

// NewAggregator は tracker を共有する Aggregator を作る
func NewAggregator(tracker IssueTracker, proactiveLabel string) *Aggregator {
	return &Aggregator{
		Tracker:        tracker,
		Reaper:         &IdleReaper{Tracker: tracker},
		ProactiveLabel: proactiveLabel,
	}
}

// Aggregate は task のラベルルール、統計、放置クローズ結果を埋める
// トラッカーのエラーは最小単位で記録して処理を続ける
func (a *Aggregator) Aggregate(ctx context.Context, task *models.Task, now time.Time) {
	for _, repo := range task.Repositories {
		if repo == "" {
			continue
		}

		if task.Idle.PeriodDays > 0 {
			if err := a.Reaper.Reap(ctx, repo, &task.Idle, now); err != nil {
				log.Printf("idle reap error (repo: %s): %v", repo, err)
			}
		}

		if task.StatsEnabled {
			if err := a.collectStats(ctx, repo, &task.Stats); err != nil {
				log.Printf("stats error (repo: %s): %v", repo, err)
			}
		}

		for i := range task.LabelRules {
			a.collectLabel(ctx, repo, task, &task.LabelRules[i])
		}
	}
}

// collectStats は3つの件数がすべて取れた場合のみ加算する
func (a *Aggregator) collectStats(ctx context.Context, repo string, stats *models.Stats) error {
	issues, err := a.Tracker.CountIssues(ctx, repo, CountQuery{})
	if err != nil {
		return err
	}
	pulls, err := a.Tracker.CountIssues(ctx, repo, CountQuery{Kind: "pr"})
	if err != nil {
		return err
	}
	proactive, err := a.Tracker.CountIssues(ctx, repo, CountQuery{Kind: "issue", Label: a.ProactiveLabel})
	if err != nil {
		return err
	}

	stats.IssuesTotal += issues
	stats.PullsTotal += pulls
	stats.ProactiveTotal += proactive
	return nil
}

func (a *Aggregator) collectLabel(ctx context.Context, repo string, task *models.Task, rule *models.LabelRule) {
	if !task.OnlyPullRequests {
		state := "open"
		if task.LabelProtection {
			state = "all"
		}

		issues, err := a.Tracker.ListIssues(ctx, repo, IssueQuery{
			Labels: []string{rule.Name},
			State:  state,
		})
		if err != nil {
			log.Printf("issue list error (repo: %s, label: %s): %v", repo, rule.Name, err)
			return
		}

		for _, issue := range issues {
			// PR は下の pulls 側で数える
			if issue.IsPullRequest {
				continue
			}
			observeColor(rule, issue.Labels)
			rule.MatchedItems = append(rule.MatchedItems, FormatIssue(issue, repo, task.ShowRelations))
		}
	}

	pulls, err := a.Tracker.ListPulls(ctx, repo, PullQuery{Label: rule.Name})
	if err != nil {
		log.Printf("pull request list error (repo: %s, label: %s): %v", repo, rule.Name, err)
		return
	}

	for _, pr := range pulls {
		if pr.Draft {
			continue
		}
		observeColor(rule, pr.Labels)
		rule.MatchedItems = append(rule.MatchedItems, FormatPullRequest(pr, repo, task.ShowRelations))
	}
}

// observeColor は同名ラベルの色をルールに写す（後勝ち）
func observeColor(rule *models.LabelRule, labels []models.Label) {
	if l, ok := models.HasLabel(labels, rule.Name); ok {
		rule.Color = l.Color
	}
}
