package runner

import (
	"context"
	"io"
	"strings"

	"github.com/shouni/go-portrait-kit/pkg/domain"
	"github.com/shouni/go-portrait-kit/pkg/imagegen"
)

// --- Mocks ---

type mockGenerator struct {
	generateReqs []domain.PortraitRequest
	editReqs     []domain.PortraitEditRequest
	failNames    map[string]error // プロンプトにこの名前を含むリクエストを失敗させる
	resp         *domain.ImageResponse
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.PortraitRequest) (*domain.ImageResponse, error) {
	m.generateReqs = append(m.generateReqs, req)
	if err := m.failFor(req.Prompt); err != nil {
		return nil, err
	}
	return m.resp, nil
}

func (m *mockGenerator) Edit(ctx context.Context, req domain.PortraitEditRequest) (*domain.ImageResponse, error) {
	m.editReqs = append(m.editReqs, req)
	if err := m.failFor(req.Prompt); err != nil {
		return nil, err
	}
	return m.resp, nil
}

func (m *mockGenerator) failFor(prompt string) error {
	for name, err := range m.failNames {
		if strings.Contains(prompt, name) {
			return err
		}
	}
	return nil
}

var _ imagegen.PortraitGenerator = (*mockGenerator)(nil)

type writeRecord struct {
	path     string
	mimeType string
	data     []byte
}

type mockWriter struct {
	writes []writeRecord
	err    error
}

func (w *mockWriter) Write(ctx context.Context, path string, r io.Reader, mimeType string) error {
	if w.err != nil {
		return w.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	w.writes = append(w.writes, writeRecord{path: path, mimeType: mimeType, data: data})
	return nil
}
