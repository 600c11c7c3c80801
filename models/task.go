package models

// ScheduleEntry は設定シートの1行を型付けしたもの
type ScheduleEntry struct {
	Enabled          bool
	Channels         []string
	Times            []string
	Mentions         []string
	Repositories     []string
	LabelRules       []LabelRule
	StatsEnabled     bool
	IdlePeriodDays   int // 0 は無効
	ShowRelations    bool
	OnlyPullRequests bool
	LabelProtection  bool
}

// LabelRule は通知対象ラベルとしきい値
// Color と MatchedItems は集計中に埋まる
type LabelRule struct {
	Name         string
	Threshold    int
	Message      string
	Color        string
	MatchedItems []string
}

// Stats はタスク単位で集計するIssue数
type Stats struct {
	IssuesTotal    int
	PullsTotal     int
	ProactiveTotal int
}

// Idle は放置Issueの自動クローズ結果
type Idle struct {
	PeriodDays  int
	ClosedItems []string
}

// Task は ScheduleEntry を今回の実行時刻で実体化したもの
type Task struct {
	Time             string
	Channels         []string
	Mentions         []string
	Repositories     []string
	LabelRules       []LabelRule
	StatsEnabled     bool
	ShowRelations    bool
	OnlyPullRequests bool
	LabelProtection  bool
	Stats            Stats
	Idle             Idle
}

// NewTask はエントリからタスクを作る
// ラベルルールはタスクごとに複製し、他のタスクと共有しない
func NewTask(entry ScheduleEntry, timeSpec string) Task {
	rules := make([]LabelRule, len(entry.LabelRules))
	for i, r := range entry.LabelRules {
		rules[i] = LabelRule{
			Name:      r.Name,
			Threshold: r.Threshold,
			Message:   r.Message,
		}
	}

	return Task{
		Time:             timeSpec,
		Channels:         append([]string(nil), entry.Channels...),
		Mentions:         append([]string(nil), entry.Mentions...),
		Repositories:     append([]string(nil), entry.Repositories...),
		LabelRules:       rules,
		StatsEnabled:     entry.StatsEnabled,
		ShowRelations:    entry.ShowRelations,
		OnlyPullRequests: entry.OnlyPullRequests,
		LabelProtection:  entry.LabelProtection,
		Idle:             Idle{PeriodDays: entry.IdlePeriodDays},
	}
}

// RepositoryCount は空文字を除いたリポジトリ数
func (t Task) RepositoryCount() int {
	n := 0
	for _, r := range t.Repositories {
		if r != "" {
			n++
		}
	}
	return n
}
