package services

import (
	"context"
	"fmt"
	"time"

	"github-issues-notice/models"
)

const (
	millisecond = time.Millisecond
	second      = 1000 * millisecond
	hour        = 3600 * second
	day         = 24 * hour
)

// IdleCutoff は now から days 日前の時刻
// 暦は考慮せず 1日 = 24時間 で計算する
func IdleCutoff(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * day)
}

// IdleReaper は一定期間更新のない Issue をクローズする
type IdleReaper struct {
	Tracker IssueTracker
}

// Reap は repo の放置 Issue をクローズし、idle.ClosedItems に記録する
// エラー時はこのリポジトリの処理だけを中断する（それまでにクローズした分は記録済み）
func (r *IdleReaper) Reap(ctx context.Context, repo string, idle *models.Idle, now time.Time) error {
	cutoff := IdleCutoff(now, idle.PeriodDays)

	issues, err := r.Tracker.ListIssues(ctx, repo, IssueQuery{
		State:     "open",
		Sort:      "updated",
		Direction: "asc",
	})
	if err != nil {
		return fmt.Errorf("idle issue list error: %w", err)
	}

	// 昇順だが途中で打ち切らず全件確認する
	for _, issue := range issues {
		if issue.IsPullRequest {
			continue
		}
		if issue.UpdatedAt.After(cutoff) {
			continue
		}

		if err := r.Tracker.CloseIssue(ctx, repo, issue.Number); err != nil {
			return fmt.Errorf("idle issue close error: %w", err)
		}
		idle.ClosedItems = append(idle.ClosedItems, FormatItem(issue.URL, issue.Title, repo, issue.Author))
	}

	return nil
}
