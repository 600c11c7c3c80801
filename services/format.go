package services

import (
	"fmt"
	"strings"

	"github-issues-notice/models"
)

var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// FormatItem は Slack 用の1行表示 <url|title>(repo) by author を作る
func FormatItem(url, title, repo, author string) string {
	return fmt.Sprintf("<%s|%s>(%s) by %s", url, mrkdwnEscaper.Replace(title), repo, author)
}

// FormatIssue は Issue の1行表示
func FormatIssue(issue models.Issue, repo string, showRelations bool) string {
	line := FormatItem(issue.URL, issue.Title, repo, issue.Author)
	if showRelations {
		line += relationSuffix(issue.Assignees, nil)
	}
	return line
}

// FormatPullRequest は PR の1行表示
// relations 表示時はアサイン先に加えてレビュー依頼先も付ける
func FormatPullRequest(pr models.PullRequest, repo string, showRelations bool) string {
	line := FormatItem(pr.URL, pr.Title, repo, pr.Author)
	if showRelations {
		line += relationSuffix(pr.Assignees, pr.RequestedReviewers)
	}
	return line
}

func relationSuffix(assignees, reviewers []string) string {
	var parts []string
	if len(assignees) > 0 {
		parts = append(parts, "assignees: "+strings.Join(assignees, ", "))
	}
	if len(reviewers) > 0 {
		parts = append(parts, "reviewers: "+strings.Join(reviewers, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, " / ") + "]"
}
