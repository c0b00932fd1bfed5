package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shouni/go-portrait-kit/internal/builder"
	"github.com/shouni/go-portrait-kit/internal/config"
	"github.com/shouni/go-portrait-kit/pkg/domain"
	"github.com/shouni/go-portrait-kit/pkg/parser"

	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// Execute は、CSVの読み込みからポートレートの一括生成・保存までを実行するのだ。
// 入力の不備（name列の欠落など）は起動時エラーとして即座に返し、
// 被写体ごとの失敗は Runner 側で隔離されてバッチは最後まで走るのだ。
func Execute(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	// 出力先が使えない場合、リクエストを1件も投げる前に止めるのだ
	if err := ensureOutputRoot(cfg.Options.OutputDir); err != nil {
		return err
	}

	// --- Phase 1: 入力の読み込み ---
	subjects, err := loadSubjects(ctx, appCtx, cfg.Options.CSVFile)
	if err != nil {
		return err
	}

	ref, err := loadStyleReference(ctx, appCtx, cfg.Options)
	if err != nil {
		return err
	}

	// --- Phase 2: バッチ実行 ---
	batchRunner, err := builder.BuildBatchRunner(appCtx)
	if err != nil {
		return fmt.Errorf("BatchRunnerの構築に失敗したのだ: %w", err)
	}

	result, err := batchRunner.Run(ctx, subjects, ref)
	if err != nil {
		return fmt.Errorf("バッチ実行が中断されたのだ: %w", err)
	}

	slog.Info("すべての処理が完了したのだ！",
		"output_dir", cfg.Options.OutputDir,
		"processed", result.Processed,
		"failed", result.Failed)
	return nil
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
// 画像生成クライアントはここで一度だけ構築され、以降は参照で引き回されるのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	httpClient := httpkit.New(cfg.Options.HTTPTimeout)

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	generator, err := builder.InitializePortraitGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, reader, writer, generator)
	return &appCtx, nil
}

// ensureOutputRoot は、ローカルの出力ディレクトリを起動時に作成するのだ。
// 作成できない（同名のファイルが既にある等）場合は致命エラーになるのだ。
// gs:// にはディレクトリの概念がないため、そのまま Writer に委ねるのだ。
func ensureOutputRoot(dir string) error {
	if strings.HasPrefix(dir, "gs://") {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("出力ディレクトリ '%s' を作成できませんでした: %w", dir, err)
	}
	return nil
}

// loadSubjects は CSV を読み込んでバッチを構築するのだ。読めない・列がない場合は致命なのだ。
func loadSubjects(ctx context.Context, appCtx *builder.AppContext, csvFile string) ([]domain.Subject, error) {
	rc, err := appCtx.Reader.Open(ctx, csvFile)
	if err != nil {
		return nil, fmt.Errorf("CSVファイル '%s' の読み込みに失敗しました: %w", csvFile, err)
	}
	defer rc.Close()

	subjects, err := parser.ParseSubjects(rc)
	if err != nil {
		return nil, fmt.Errorf("CSVファイル '%s' の解析に失敗しました: %w", csvFile, err)
	}

	if len(subjects) == 0 {
		slog.Info("処理対象の被写体が1件もないのだ", "csv", csvFile)
	} else {
		slog.Info("バッチを構築したのだ", "csv", csvFile, "subjects", len(subjects))
	}
	return subjects, nil
}

// loadStyleReference は参照画像を一度だけ読み込むのだ。
// 指定がなければ nil を返し、全リクエストが generate モードになるのだ。
func loadStyleReference(ctx context.Context, appCtx *builder.AppContext, opts config.GenerateOptions) (*domain.StyleReference, error) {
	if opts.StylePath == "" {
		slog.Info("モード: TEXT-ONLY (generate)", "quality", opts.Quality)
		return nil, nil
	}

	loader, err := builder.BuildReferenceLoader(appCtx)
	if err != nil {
		return nil, err
	}

	ref, err := loader.Load(ctx, opts.StylePath)
	if err != nil {
		return nil, fmt.Errorf("参照画像の読み込みに失敗したのだ: %w", err)
	}

	slog.Info("モード: STYLE-REF (edit)。品質ヒントは無視されるのだ",
		"style", opts.StylePath, "mime", ref.MimeType)
	return ref, nil
}
