package models

import (
	"time"

	"gorm.io/gorm"
)

// ScheduleRow は設定シートの1行を保持する
// 複数値のセルは改行区切りで保存する
type ScheduleRow struct {
	ID              string         `gorm:"primaryKey" json:"id"`
	Position        int            `gorm:"index" json:"position"` // シート上の並び順
	Enabled         bool           `json:"enabled"`
	Channels        string         `json:"channels"`              // 通知先チャンネルID（改行区切り）
	Times           string         `json:"times"`                 // HH または HHMM（改行区切り）
	Mentions        string         `json:"mentions"`              // メンション先（改行区切り）
	Repositories    string         `json:"repositories"`          // owner/repo（改行区切り）
	Labels          string         `json:"labels"`                // name/threshold/message（改行区切り）
	IdlePeriodDays  int            `json:"idle_period_days"`
	Relations       bool           `json:"relations"`
	OnlyPulls       bool           `json:"only_pulls"`
	LabelProtection bool           `json:"label_protection"`
	Stats           bool           `json:"stats"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// Cells はシートの列順に並べたセル値を返す
func (r ScheduleRow) Cells() []any {
	return []any{
		r.Enabled,
		r.Channels,
		r.Times,
		r.Mentions,
		r.Repositories,
		r.Labels,
		r.IdlePeriodDays,
		r.Relations,
		r.OnlyPulls,
		r.LabelProtection,
		r.Stats,
	}
}
