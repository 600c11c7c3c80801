package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github-issues-notice/models"
)

// RowSource は設定行の読み込み元
type RowSource interface {
	Rows(ctx context.Context) ([]RawRow, error)
}

// ErrRowNotFound は指定IDの設定行がない場合のエラー
var ErrRowNotFound = errors.New("schedule row not found")

// RowStore は schedule_rows テーブルを設定シートとして扱う
type RowStore struct {
	db *gorm.DB
}

// OpenRowStore は sqlite を開いてマイグレーションする
func OpenRowStore(path string) (*RowStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&models.ScheduleRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return NewRowStore(db), nil
}

func NewRowStore(db *gorm.DB) *RowStore {
	return &RowStore{db: db}
}

// Rows はシートの並び順でセル値を返す
func (s *RowStore) Rows(ctx context.Context) ([]RawRow, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	raw := make([]RawRow, 0, len(rows))
	for _, r := range rows {
		raw = append(raw, r.Cells())
	}
	return raw, nil
}

func (s *RowStore) List(ctx context.Context) ([]models.ScheduleRow, error) {
	var rows []models.ScheduleRow
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list schedule rows: %w", err)
	}
	return rows, nil
}

// Create は行を末尾に追加する
func (s *RowStore) Create(ctx context.Context, row *models.ScheduleRow) error {
	db := s.db.WithContext(ctx)

	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.Position == 0 {
		var last int
		if err := db.Model(&models.ScheduleRow{}).Select("COALESCE(MAX(position), 0)").Scan(&last).Error; err != nil {
			return fmt.Errorf("failed to read last position: %w", err)
		}
		row.Position = last + 1
	}

	if err := db.Create(row).Error; err != nil {
		return fmt.Errorf("failed to create schedule row: %w", err)
	}
	return nil
}

func (s *RowStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ScheduleRow{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete schedule row: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRowNotFound
	}
	return nil
}

// Replace は全行を入れ替える。途中で失敗した場合は元のまま
func (s *RowStore) Replace(ctx context.Context, rows []models.ScheduleRow) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&models.ScheduleRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear schedule rows: %w", err)
		}

		for i := range rows {
			if rows[i].ID == "" {
				rows[i].ID = uuid.NewString()
			}
			rows[i].Position = i + 1
			if err := tx.Create(&rows[i]).Error; err != nil {
				return fmt.Errorf("failed to create schedule row %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// ScheduleRowFromRaw は緩い型の行を保存用の行に変換する
// 取り込み時は型の不一致をエラーとして扱う
func ScheduleRowFromRaw(index int, row RawRow) (models.ScheduleRow, error) {
	if len(row) < minRowCells {
		return models.ScheduleRow{}, fmt.Errorf("row %d has %d cells, want at least %d: %w", index, len(row), minRowCells, ErrMalformedRow)
	}

	var problems []string
	boolAt := func(column int) bool {
		v, err := cellBool(cellAt(row, column))
		if err != nil {
			problems = append(problems, ConfigError{Row: index, Column: columnNames[column], Message: err.Error()}.Error())
		}
		return v
	}
	lines := func(column int) string {
		return strings.Join(NormalizeCell(cellAt(row, column)), "\n")
	}

	idle, err := cellInt(cellAt(row, columnIdlePeriod))
	if err != nil {
		problems = append(problems, ConfigError{Row: index, Column: columnNames[columnIdlePeriod], Message: err.Error()}.Error())
	}

	r := models.ScheduleRow{
		Enabled:         boolAt(columnEnabled),
		Channels:        lines(columnChannels),
		Times:           lines(columnTimes),
		Mentions:        lines(columnMentions),
		Repositories:    lines(columnRepositories),
		Labels:          lines(columnLabels),
		IdlePeriodDays:  idle,
		Relations:       boolAt(columnRelations),
		OnlyPulls:       boolAt(columnOnlyPulls),
		LabelProtection: boolAt(columnLabelProtection),
		Stats:           boolAt(columnStats),
	}

	if len(problems) > 0 {
		return models.ScheduleRow{}, errors.New(strings.Join(problems, "; "))
	}
	return r, nil
}
