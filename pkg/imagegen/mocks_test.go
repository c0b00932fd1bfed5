package imagegen

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

// --- Mocks ---

type mockImagesAPI struct {
	generateParams []openai.ImageGenerateParams
	editParams     []openai.ImageEditParams
	generateErrs   []error // 呼び出しごとに先頭から1つずつ消費される
	editErr        error
	resp           *openai.ImagesResponse
}

func (m *mockImagesAPI) Generate(ctx context.Context, body openai.ImageGenerateParams, opts ...option.RequestOption) (*openai.ImagesResponse, error) {
	m.generateParams = append(m.generateParams, body)
	if len(m.generateErrs) > 0 {
		err := m.generateErrs[0]
		m.generateErrs = m.generateErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return m.resp, nil
}

func (m *mockImagesAPI) Edit(ctx context.Context, body openai.ImageEditParams, opts ...option.RequestOption) (*openai.ImagesResponse, error) {
	m.editParams = append(m.editParams, body)
	if m.editErr != nil {
		return nil, m.editErr
	}
	return m.resp, nil
}

type mockContentAPI struct {
	lastModel    string
	lastContents []*genai.Content
	lastConfig   *genai.GenerateContentConfig
	resp         *genai.GenerateContentResponse
	err          error
}

func (m *mockContentAPI) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.lastModel = model
	m.lastContents = contents
	m.lastConfig = config
	return m.resp, m.err
}

type mockReader struct {
	data   []byte
	err    error
	opened []string
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.opened = append(m.opened, uri)
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	return nil
}

type mockHTTPClient struct {
	data  []byte
	err   error
	calls int
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls++
	return m.data, m.err
}

type mockCache struct {
	data map[string]any
}

func (m *mockCache) Get(key string) (any, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockCache) Set(key string, value any, d time.Duration) {
	m.data[key] = value
}

// pngBytes は MIME スニッフィングで image/png と判定される最小のバイト列を返す。
func pngBytes() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)
}
