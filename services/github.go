package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/go-github/v71/github"
	"golang.org/x/oauth2"

	"github-issues-notice/models"
)

const perPage = 100

// IssueQuery は Issue 一覧の検索条件
type IssueQuery struct {
	Labels    []string
	State     string // open / closed / all
	Sort      string // created / updated / comments
	Direction string // asc / desc
}

// PullQuery は PR 一覧の検索条件
type PullQuery struct {
	Label string
}

// CountQuery は件数取得の条件
type CountQuery struct {
	Kind  string // "" は Issue と PR の両方、"issue" または "pr"
	Label string
}

// IssueTracker は Issue トラッカーへの操作
type IssueTracker interface {
	ListIssues(ctx context.Context, repo string, q IssueQuery) ([]models.Issue, error)
	ListPulls(ctx context.Context, repo string, q PullQuery) ([]models.PullRequest, error)
	CloseIssue(ctx context.Context, repo string, number int) error
	CountIssues(ctx context.Context, repo string, q CountQuery) (int, error)
}

// GitHubTracker は go-github を使った IssueTracker
type GitHubTracker struct {
	client *github.Client
}

// NewGitHubTracker はトークン認証の GitHub クライアントを作る
// apiEndpoint を指定すると GitHub Enterprise として扱う
func NewGitHubTracker(ctx context.Context, token, apiEndpoint string) (*GitHubTracker, error) {
	var client *github.Client
	if token == "" {
		log.Println("GITHUB_ACCESS_TOKEN is not set")
		client = github.NewClient(nil) // 認証なしのクライアント
	} else {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		client = github.NewClient(oauth2.NewClient(ctx, ts))
	}

	if apiEndpoint != "" {
		enterprise, err := client.WithEnterpriseURLs(apiEndpoint, apiEndpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid github api endpoint: %w", err)
		}
		client = enterprise
	}

	return &GitHubTracker{client: client}, nil
}

// SplitRepository は "owner/repo" をオーナーとリポジトリ名に分割する
func SplitRepository(repo string) (string, string, error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format: %s", repo)
	}
	return parts[0], parts[1], nil
}

func (c *GitHubTracker) ListIssues(ctx context.Context, repo string, q IssueQuery) ([]models.Issue, error) {
	owner, name, err := SplitRepository(repo)
	if err != nil {
		return nil, err
	}

	opts := &github.IssueListByRepoOptions{
		State:     q.State,
		Labels:    q.Labels,
		Sort:      q.Sort,
		Direction: q.Direction,
		ListOptions: github.ListOptions{
			PerPage: perPage,
		},
	}

	var all []models.Issue
	for {
		issues, resp, err := c.client.Issues.ListByRepo(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues of %s: %w", repo, err)
		}

		for _, issue := range issues {
			all = append(all, convertIssue(issue))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// ListPulls は open な PR を取得し、ラベルで絞り込む
// pulls API はラベル指定できないため手元で絞り込む
func (c *GitHubTracker) ListPulls(ctx context.Context, repo string, q PullQuery) ([]models.PullRequest, error) {
	owner, name, err := SplitRepository(repo)
	if err != nil {
		return nil, err
	}

	opts := &github.PullRequestListOptions{
		State: "open",
		ListOptions: github.ListOptions{
			PerPage: perPage,
		},
	}

	var all []models.PullRequest
	for {
		pulls, resp, err := c.client.PullRequests.List(ctx, owner, name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull requests of %s: %w", repo, err)
		}

		for _, pr := range pulls {
			converted := convertPullRequest(pr)
			if q.Label != "" {
				if _, ok := models.HasLabel(converted.Labels, q.Label); !ok {
					continue
				}
			}
			all = append(all, converted)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (c *GitHubTracker) CloseIssue(ctx context.Context, repo string, number int) error {
	owner, name, err := SplitRepository(repo)
	if err != nil {
		return err
	}

	_, _, err = c.client.Issues.Edit(ctx, owner, name, number, &github.IssueRequest{
		State: github.Ptr("closed"),
	})
	if err != nil {
		return fmt.Errorf("failed to close %s#%d: %w", repo, number, err)
	}

	log.Printf("issue closed: %s#%d", repo, number)
	return nil
}

// CountIssues は検索 API の total_count で件数を取得する
func (c *GitHubTracker) CountIssues(ctx context.Context, repo string, q CountQuery) (int, error) {
	result, _, err := c.client.Search.Issues(ctx, buildCountQuery(repo, q), &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count issues of %s: %w", repo, err)
	}
	return result.GetTotal(), nil
}

func buildCountQuery(repo string, q CountQuery) string {
	parts := []string{fmt.Sprintf("repo:%s", repo), "is:open"}
	switch q.Kind {
	case "issue":
		parts = append(parts, "is:issue")
	case "pr":
		parts = append(parts, "is:pr")
	}
	if q.Label != "" {
		parts = append(parts, fmt.Sprintf("label:\"%s\"", q.Label))
	}
	return strings.Join(parts, " ")
}

func convertLabels(labels []*github.Label) []models.Label {
	converted := make([]models.Label, 0, len(labels))
	for _, l := range labels {
		converted = append(converted, models.Label{Name: l.GetName(), Color: l.GetColor()})
	}
	return converted
}

func convertIssue(issue *github.Issue) models.Issue {
	return models.Issue{
		Number:        issue.GetNumber(),
		URL:           issue.GetHTMLURL(),
		Title:         issue.GetTitle(),
		Author:        UserLogin(issue.GetUser()),
		Labels:        convertLabels(issue.Labels),
		State:         issue.GetState(),
		UpdatedAt:     issue.GetUpdatedAt().Time,
		Assignees:     UserLogins(issue.Assignees),
		IsPullRequest: issue.IsPullRequest(),
	}
}

func convertPullRequest(pr *github.PullRequest) models.PullRequest {
	return models.PullRequest{
		Number:             pr.GetNumber(),
		URL:                pr.GetHTMLURL(),
		Title:              pr.GetTitle(),
		Author:             UserLogin(pr.GetUser()),
		Labels:             convertLabels(pr.Labels),
		State:              pr.GetState(),
		UpdatedAt:          pr.GetUpdatedAt().Time,
		Assignees:          UserLogins(pr.Assignees),
		RequestedReviewers: UserLogins(pr.RequestedReviewers),
		Draft:              pr.GetDraft(),
	}
}
