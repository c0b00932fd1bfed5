package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shouni/go-portrait-kit/pkg/domain"
)

// nameColumn は入力CSVに必須のヘッダー列名です。
const nameColumn = "name"

// ParseSubjects は CSV を読み込み、ポートレート生成対象のバッチを構築するのだ。
// ヘッダー行に 'name' 列が存在しない場合はエラー（起動時致命）となり、
// 名前が空白のみの行は黙ってスキップされるのだ。
func ParseSubjects(r io.Reader) ([]domain.Subject, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// 列数が揃っていない行も許容する（名前列さえ読めればよい）
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("CSVが空です。'%s' 列を含むヘッダー行が必要です", nameColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("CSVヘッダーの読み込みに失敗しました: %w", err)
	}

	nameIdx := -1
	for i, col := range header {
		if strings.TrimSpace(col) == nameColumn {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("CSVのヘッダーに '%s' 列が見つかりません", nameColumn)
	}

	var subjects []domain.Subject
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV行の読み込みに失敗しました: %w", err)
		}
		if nameIdx >= len(record) {
			continue
		}
		name := strings.TrimSpace(record[nameIdx])
		if name == "" {
			continue
		}
		subjects = append(subjects, domain.Subject{Name: name})
	}

	return subjects, nil
}
