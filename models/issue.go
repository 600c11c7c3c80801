package models

import "time"

// Label はIssueに付いているラベル
type Label struct {
	Name  string
	Color string
}

// Issue はトラッカーから取得したIssue
type Issue struct {
	Number        int
	URL           string
	Title         string
	Author        string
	Labels        []Label
	State         string
	UpdatedAt     time.Time
	Assignees     []string
	IsPullRequest bool
}

// PullRequest はトラッカーから取得したPR
type PullRequest struct {
	Number             int
	URL                string
	Title              string
	Author             string
	Labels             []Label
	State              string
	UpdatedAt          time.Time
	Assignees          []string
	RequestedReviewers []string
	Draft              bool
}

// HasLabel はラベル名の完全一致で検索する
func HasLabel(labels []Label, name string) (Label, bool) {
	for _, l := range labels {
		if l.Name == name {
			return l, true
		}
	}
	return Label{}, false
}
