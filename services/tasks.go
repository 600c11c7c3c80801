package services

import (
	"log"
	"time"

	"github-issues-notice/models"
)

// ExpandTasks は設定行から今回の時刻に実行するタスクを作る
// 一致する時刻指定ごとに1タスク作るため、同じ時刻が重複していればタスクも重複する
func ExpandTasks(rows []RawRow, now time.Time) ([]models.Task, []ConfigError, error) {
	tasks := make([]models.Task, 0)
	var problems []ConfigError

	for i, row := range rows {
		entry, rowProblems, err := ParseScheduleRow(i, row)
		if err != nil {
			return nil, problems, err
		}
		problems = append(problems, rowProblems...)

		if !entry.Enabled {
			continue
		}

		if len(entry.Repositories) == 0 {
			log.Printf("row %d has no repository. skip", i)
			continue
		}

		for _, spec := range entry.Times {
			if !MatchesTime(spec, now) {
				continue
			}
			tasks = append(tasks, models.NewTask(entry, spec))
		}
	}

	return tasks, problems, nil
}
