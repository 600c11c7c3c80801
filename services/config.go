package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github-issues-notice/models"
)

// シートの列順
const (
	columnEnabled = iota
	columnChannels
	columnTimes
	columnMentions
	columnRepositories
	columnLabels
	columnIdlePeriod
	columnRelations
	columnOnlyPulls
	columnLabelProtection
	columnStats
)

// 必須列数（labels まで）
const minRowCells = columnLabels + 1

var columnNames = map[int]string{
	columnEnabled:         "enabled",
	columnChannels:        "channels",
	columnTimes:           "times",
	columnMentions:        "mentions",
	columnRepositories:    "repositories",
	columnLabels:          "labels",
	columnIdlePeriod:      "idlePeriodDays",
	columnRelations:       "relations",
	columnOnlyPulls:       "onlyPulls",
	columnLabelProtection: "labelProtection",
	columnStats:           "stats",
}

// ErrMalformedRow は行の構造自体が壊れている場合のエラー
var ErrMalformedRow = errors.New("malformed config row")

// RawRow はシートから読み込んだ型の緩い1行
type RawRow []any

// ConfigError はセルの型不一致など、デフォルト値で続行できる設定エラー
type ConfigError struct {
	Row     int
	Column  string
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("row %d column %s: %s", e.Row, e.Column, e.Message)
}

// NormalizeCell はセルを改行で分割し、trim して空要素を捨てる
func NormalizeCell(cell any) []string {
	values := make([]string, 0)
	for _, v := range strings.Split(cellString(cell), "\n") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// ParseScheduleRow は1行を ScheduleEntry に変換する
// 列数が足りない行は ErrMalformedRow を返す
func ParseScheduleRow(index int, row RawRow) (models.ScheduleEntry, []ConfigError, error) {
	var entry models.ScheduleEntry
	var problems []ConfigError

	if len(row) < minRowCells {
		return entry, nil, fmt.Errorf("%w: row %d has %d cells, want at least %d", ErrMalformedRow, index, len(row), minRowCells)
	}

	report := func(column int, format string, args ...any) {
		problems = append(problems, ConfigError{
			Row:     index,
			Column:  columnNames[column],
			Message: fmt.Sprintf(format, args...),
		})
	}

	enabled, ok := row[columnEnabled].(bool)
	if !ok {
		report(columnEnabled, "expected boolean, got %T; treated as disabled", row[columnEnabled])
	}
	entry.Enabled = enabled

	entry.Channels = NormalizeCell(row[columnChannels])
	entry.Times = NormalizeCell(row[columnTimes])
	for _, t := range entry.Times {
		if len(t) != hourSpecLength && len(t) != hourMinuteSpecLength {
			report(columnTimes, "time %q is neither HH nor HHMM", t)
		}
	}
	entry.Mentions = NormalizeCell(row[columnMentions])
	entry.Repositories = NormalizeCell(row[columnRepositories])

	rules, ruleProblems := ParseLabelRules(row[columnLabels])
	entry.LabelRules = rules
	for _, p := range ruleProblems {
		report(columnLabels, "%s", p)
	}

	idle, err := cellInt(cellAt(row, columnIdlePeriod))
	if err != nil {
		report(columnIdlePeriod, "%v; treated as 0", err)
	}
	entry.IdlePeriodDays = idle

	flag := func(column int) bool {
		v, err := cellBool(cellAt(row, column))
		if err != nil {
			report(column, "%v; treated as false", err)
		}
		return v
	}
	entry.ShowRelations = flag(columnRelations)
	entry.OnlyPullRequests = flag(columnOnlyPulls)
	entry.LabelProtection = flag(columnLabelProtection)
	entry.StatsEnabled = flag(columnStats)

	for _, p := range problems {
		log.Printf("config row error: %v", p)
	}

	return entry, problems, nil
}

// ParseLabelRules は "name/threshold/message" を改行区切りで解析する
// name は "kind/bug" のように "/" を含んでよい。最初に数値になる区切りを threshold とみなす
// 数値の区切りがなく2区切りだけの行は、全体をラベル名とする
func ParseLabelRules(cell any) ([]models.LabelRule, []string) {
	rules := make([]models.LabelRule, 0)
	var problems []string

	for _, line := range NormalizeCell(cell) {
		rule, problem := parseLabelRule(line)
		if problem != "" {
			problems = append(problems, problem)
		}
		if rule.Name == "" {
			continue
		}
		rules = append(rules, rule)
	}

	return rules, problems
}

func parseLabelRule(line string) (models.LabelRule, string) {
	parts := strings.Split(line, "/")

	thresholdAt := -1
	for i := 1; i < len(parts); i++ {
		if _, err := strconv.Atoi(strings.TrimSpace(parts[i])); err == nil {
			thresholdAt = i
			break
		}
	}

	var rule models.LabelRule
	var problem string
	switch {
	case thresholdAt > 0:
		rule.Name = strings.TrimSpace(strings.Join(parts[:thresholdAt], "/"))
		rule.Threshold, _ = strconv.Atoi(strings.TrimSpace(parts[thresholdAt]))
		rule.Message = strings.TrimSpace(strings.Join(parts[thresholdAt+1:], "/"))
	case len(parts) <= 2:
		rule.Name = strings.TrimSpace(line)
	default:
		rule.Name = strings.TrimSpace(parts[0])
		rule.Message = strings.TrimSpace(strings.Join(parts[2:], "/"))
		problem = fmt.Sprintf("label rule %q threshold is not a number; treated as 0", line)
	}

	if rule.Name == "" {
		return rule, fmt.Sprintf("label rule %q has no name", line)
	}
	return rule, problem
}

func cellAt(row RawRow, column int) any {
	if column >= len(row) {
		return nil
	}
	return row[column]
}

func cellString(cell any) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprint(cell)
}

func isBlank(cell any) bool {
	return cell == nil || strings.TrimSpace(cellString(cell)) == ""
}

func cellBool(cell any) (bool, error) {
	if b, ok := cell.(bool); ok {
		return b, nil
	}
	if isBlank(cell) {
		return false, nil
	}
	return false, fmt.Errorf("expected boolean, got %T", cell)
}

func cellInt(cell any) (int, error) {
	switch v := cell.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected whole number, got %v", v)
		}
		return int(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", v)
		}
		return n, nil
	case nil:
		return 0, nil
	}
	return 0, fmt.Errorf("expected number, got %T", cell)
}
