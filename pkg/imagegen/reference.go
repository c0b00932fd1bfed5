package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/shouni/go-portrait-kit/pkg/domain"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const cacheKeyStyleRef = "styleref:"

// ReferenceLoader は画風参照画像の読み込みを担当するコンポーネントです。
// ローカルパスと gs:// は InputReader 経由で、http(s) は HTTPClient 経由で
// 取得し、取得結果を TTL つきでキャッシュします。
type ReferenceLoader struct {
	reader     remoteio.InputReader
	httpClient HTTPClient
	cache      ImageCacher
	expiration time.Duration
}

// NewReferenceLoader は依存関係を注入して ReferenceLoader を初期化します。
func NewReferenceLoader(reader remoteio.InputReader, httpClient HTTPClient, cache ImageCacher, cacheTTL time.Duration) (*ReferenceLoader, error) {
	// どの依存関係が不足しているか具体的に示す
	if reader == nil {
		return nil, fmt.Errorf("reader is required")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	// cache は nil を許容（キャッシュなし動作）

	return &ReferenceLoader{
		reader:     reader,
		httpClient: httpClient,
		cache:      cache,
		expiration: cacheTTL,
	}, nil
}

// Load は参照画像を読み込み、StyleReference として返します。
// 画像以外のバイト列（MIMEスニッフィングで判定）はエラーになります。
func (l *ReferenceLoader) Load(ctx context.Context, uri string) (*domain.StyleReference, error) {
	if l.cache != nil {
		if val, ok := l.cache.Get(cacheKeyStyleRef + uri); ok {
			if ref, ok := val.(*domain.StyleReference); ok {
				return ref, nil
			}
		}
	}

	data, err := l.fetch(ctx, uri)
	if err != nil {
		return nil, err
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("参照ファイルが画像ではありません (MIME: %s): %s", mimeType, uri)
	}

	ref := &domain.StyleReference{
		FileName: filepath.Base(uri),
		MimeType: mimeType,
		Data:     data,
	}

	if l.cache != nil {
		l.cache.Set(cacheKeyStyleRef+uri, ref, l.expiration)
	}

	return ref, nil
}

func (l *ReferenceLoader) fetch(ctx context.Context, uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		if err := validateRemoteHost(uri); err != nil {
			return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
		}
		return l.httpClient.FetchBytes(ctx, uri)
	}

	rc, err := l.reader.Open(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("参照画像 '%s' を開けませんでした: %w", uri, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
