package services

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SheetFile は YAML に書き出した設定シートを読む
//
//	rows:
//	  - [true, "C12345", "09\n18", "@here", "org/repo", "bug/1/check!", 30, false, false, false, true]
type SheetFile struct {
	Path string
}

type sheetDocument struct {
	Rows [][]any `yaml:"rows"`
}

func (f *SheetFile) Rows(_ context.Context) ([]RawRow, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet file: %w", err)
	}
	return ParseSheet(data)
}

// ParseSheet は YAML の rows をそのままの型で返す
func ParseSheet(data []byte) ([]RawRow, error) {
	var doc sheetDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse sheet: %w", err)
	}

	rows := make([]RawRow, 0, len(doc.Rows))
	for _, r := range doc.Rows {
		rows = append(rows, RawRow(r))
	}
	return rows, nil
}
