package imagegen

import (
	"context"
	"time"

	"github.com/shouni/go-portrait-kit/pkg/domain"
)

// PortraitGenerator はビジネスロジック層が利用する画像生成の統合窓口です。
// Generate はテキストのみ、Edit は参照画像つきの生成を行います。
type PortraitGenerator interface {
	Generate(ctx context.Context, req domain.PortraitRequest) (*domain.ImageResponse, error)
	Edit(ctx context.Context, req domain.PortraitEditRequest) (*domain.ImageResponse, error)
}

// ImageCacher は、取得済みの参照画像をキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

// HTTPClient は、HTTPリクエストを実行し、URLからデータを取得するためのインターフェースです。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}
