package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-portrait-kit/internal/config"
	"github.com/shouni/go-portrait-kit/internal/runner"
	"github.com/shouni/go-portrait-kit/pkg/imagegen"

	gocache "github.com/patrickmn/go-cache"
)

// InitializePortraitGenerator は、選択されたプロバイダーの画像生成クライアントを初期化します。
// クライアントは起動時に一度だけ構築され、バッチ全体で共有されます。
func InitializePortraitGenerator(ctx context.Context, cfg *config.Config) (imagegen.PortraitGenerator, error) {
	model := cfg.ResolveImageModel()

	switch cfg.Options.Provider {
	case config.ProviderGemini:
		gen, err := imagegen.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, model)
		if err != nil {
			return nil, fmt.Errorf("Geminiジェネレーターの初期化に失敗したのだ: %w", err)
		}
		return gen, nil
	default:
		gen, err := imagegen.NewOpenAIGenerator(cfg.OpenAIAPIKey, model)
		if err != nil {
			return nil, fmt.Errorf("OpenAIジェネレーターの初期化に失敗したのだ: %w", err)
		}
		return gen, nil
	}
}

// BuildReferenceLoader は画風参照画像の読み込みを担当するローダーを構築します。
// 取得結果は TTL つきのインメモリキャッシュに保持されます。
func BuildReferenceLoader(appCtx *AppContext) (*imagegen.ReferenceLoader, error) {
	cache := gocache.New(config.DefaultReferenceTTL, 2*config.DefaultReferenceTTL)

	loader, err := imagegen.NewReferenceLoader(appCtx.Reader, appCtx.httpClient, cache, config.DefaultReferenceTTL)
	if err != nil {
		return nil, fmt.Errorf("ReferenceLoaderの初期化に失敗したのだ: %w", err)
	}
	return loader, nil
}

// BuildBatchRunner はポートレート生成のバッチ処理を担当する Runner を構築します。
func BuildBatchRunner(appCtx *AppContext) (runner.BatchRunner, error) {
	if appCtx.Generator == nil {
		return nil, fmt.Errorf("画像生成クライアントが初期化されていません")
	}
	if appCtx.Writer == nil {
		return nil, fmt.Errorf("出力先ライターが初期化されていません")
	}

	return runner.NewPortraitBatchRunner(appCtx.Generator, appCtx.Writer, appCtx.Options), nil
}
