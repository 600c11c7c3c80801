package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// ParseSchedule は5フィールドの cron 式を解析する
func ParseSchedule(expr string) (cron.Schedule, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	return schedule, nil
}

// Scheduler は serve 中に通知ジョブを定期実行する
// 前回の実行が終わっていなければ次の起動はスキップする
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	loc      *time.Location
}

func NewScheduler(expr string, loc *time.Location, run func(ctx context.Context)) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	schedule, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	c.Schedule(schedule, cron.FuncJob(func() {
		run(context.Background())
	}))

	return &Scheduler{cron: c, schedule: schedule, loc: loc}, nil
}

// NextRun は after 以降の次回実行時刻
func (s *Scheduler) NextRun(after time.Time) time.Time {
	return s.schedule.Next(after.In(s.loc))
}

func (s *Scheduler) Start() {
	log.Printf("scheduler started (next run: %s)", s.NextRun(time.Now()).Format(time.RFC3339))
	s.cron.Start()
}

// Stop は実行中のジョブの終了を待つ
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
