package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github-issues-notice/models"
)

// Notice は1回分の通知ジョブ
type Notice struct {
	Rows     RowSource
	Tracker  IssueTracker
	Chat     ChatClient
	Holidays HolidayChecker // nil なら毎日実行する
	Settings MessageSettings
	Location *time.Location
}

// RunResult は1回の実行結果
type RunResult struct {
	ID           uuid.UUID    `json:"id"`
	StartedAt    time.Time    `json:"started_at"`
	Skipped      bool         `json:"skipped"`
	ConfigErrors []string     `json:"config_errors"`
	Tasks        []TaskResult `json:"tasks"`
}

// TaskResult はタスク1件分の集計と配信結果
type TaskResult struct {
	Time            string         `json:"time"`
	Channels        []string       `json:"channels"`
	Repositories    []string       `json:"repositories"`
	Empty           bool           `json:"empty"`
	Attachments     int            `json:"attachments"`
	Matched         map[string]int `json:"matched"`
	Closed          int            `json:"closed"`
	ReactivePercent *int           `json:"reactive_percent,omitempty"`
	Deliveries      []Delivery     `json:"deliveries"`
}

// Run は now の時刻に該当するタスクを集計して通知する
// 設定行の構造が壊れている場合のみエラーを返し、それ以外は記録して続行する
func (n *Notice) Run(ctx context.Context, now time.Time) (*RunResult, error) {
	if n.Location != nil {
		now = now.In(n.Location)
	}

	result := &RunResult{
		ID:           uuid.New(),
		StartedAt:    now,
		ConfigErrors: make([]string, 0),
		Tasks:        make([]TaskResult, 0),
	}
	log.Printf("notice run started (id: %s, at: %s)", result.ID, now.Format(time.RFC3339))

	if n.Holidays != nil && n.Holidays.IsNonWorkingDay(now) {
		log.Printf("notice run skipped: non-working day (id: %s)", result.ID)
		result.Skipped = true
		return result, nil
	}

	rows, err := n.Rows.Rows(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load schedule rows: %w", err)
	}

	tasks, problems, err := ExpandTasks(rows, now)
	for _, p := range problems {
		result.ConfigErrors = append(result.ConfigErrors, p.Error())
	}
	if err != nil {
		log.Printf("notice run aborted (id: %s): %v", result.ID, err)
		return result, err
	}

	aggregator := NewAggregator(n.Tracker, n.Settings.ProactiveLabel)
	composer := &Composer{Chat: n.Chat, Settings: n.Settings}

	for i := range tasks {
		task := &tasks[i]
		aggregator.Aggregate(ctx, task, now)

		notification := Compose(*task, n.Settings)
		deliveries := composer.Deliver(ctx, notification, now)

		result.Tasks = append(result.Tasks, summarizeTask(*task, notification, deliveries))
	}

	log.Printf("notice run finished (id: %s, tasks: %d)", result.ID, len(result.Tasks))
	return result, nil
}

func summarizeTask(task models.Task, n Notification, deliveries []Delivery) TaskResult {
	matched := make(map[string]int, len(task.LabelRules))
	for _, rule := range task.LabelRules {
		matched[rule.Name] += len(rule.MatchedItems)
	}

	tr := TaskResult{
		Time:         task.Time,
		Channels:     task.Channels,
		Repositories: task.Repositories,
		Empty:        n.Empty,
		Attachments:  len(n.Attachments),
		Matched:      matched,
		Closed:       len(task.Idle.ClosedItems),
		Deliveries:   deliveries,
	}
	if task.StatsEnabled {
		percent := ComputeReactive(task.Stats).Percent
		tr.ReactivePercent = &percent
	}
	return tr
}
