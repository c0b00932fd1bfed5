package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-portrait-kit/internal/config"
	"github.com/shouni/go-portrait-kit/internal/prompt"
	"github.com/shouni/go-portrait-kit/pkg/domain"
	"github.com/shouni/go-portrait-kit/pkg/imagegen"

	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/go-utils/urlpath"
	"golang.org/x/time/rate"
)

// BatchRunner は、被写体のバッチに対してポートレート生成を実行するためのインターフェース。
type BatchRunner interface {
	// Run は全被写体を順番に処理し、成功・失敗の集計を返す。
	Run(ctx context.Context, subjects []domain.Subject, ref *domain.StyleReference) (*BatchResult, error)
}

// BatchResult は1回のバッチ実行の集計です。
type BatchResult struct {
	Processed int // 出力ファイルの書き込みまで完了した件数
	Failed    int // エラーをログに残してスキップした件数
}

// PortraitBatchRunner は外部レート制限を尊重しながら逐次処理を行う実体。
// 被写体ごとの失敗は隔離され、バッチ全体を止めることはない。
type PortraitBatchRunner struct {
	generator imagegen.PortraitGenerator // 画像生成プロバイダーへのアダプター
	writer    remoteio.OutputWriter      // 生成結果の保存先（ローカル or gs://）
	options   config.GenerateOptions     // 実行時パラメータ
}

// NewPortraitBatchRunner は、PortraitBatchRunnerの新しいインスタンスを生成して返す。
func NewPortraitBatchRunner(generator imagegen.PortraitGenerator, writer remoteio.OutputWriter, options config.GenerateOptions) *PortraitBatchRunner {
	return &PortraitBatchRunner{
		generator: generator,
		writer:    writer,
		options:   options,
	}
}

// Run は各被写体を順番に処理するメインロジックなのだ。
// 参照画像が設定されていれば全リクエストが edit、なければ全リクエストが generate になるのだ。
func (r *PortraitBatchRunner) Run(ctx context.Context, subjects []domain.Subject, ref *domain.StyleReference) (*BatchResult, error) {
	result := &BatchResult{}
	size := config.SquareSize(r.options.Size)

	// 設定された間隔で、レートリミット（流量制限）をかけるのだ。
	// 成功・失敗を問わず、リクエストの間隔は常に一定なのだ。
	// 待機が入るのはリクエストとリクエストの間だけで、
	// 最後の被写体を処理した後に余分に待つことはないのだ。
	limiter := rate.NewLimiter(rate.Every(r.options.Sleep), 1)

	for i, subject := range subjects {
		// 1. レートリミットに従って、自分の番が来るまで待機するのだ
		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}

		fileName := subject.FileName(r.options.Format)
		slog.Info("ポートレートを生成中...",
			"index", i+1, "total", len(subjects), "subject", subject.Name, "file", fileName)

		// 2. 生成から保存までを1被写体の単位として実行するのだ
		if err := r.processSubject(ctx, subject, ref, size, fileName); err != nil {
			// 失敗は隔離：ログに残して次の被写体へ進むのだ
			slog.Error("ポートレート生成に失敗したのだ", "subject", subject.Name, "error", err)
			result.Failed++
			continue
		}
		result.Processed++
	}

	return result, nil
}

// processSubject は、プロンプト構築 → 生成リクエスト → デコード済みバイト列の保存、
// という1被写体分の処理を行うのだ。途中で失敗した場合、部分的なファイルは書かれないのだ。
func (r *PortraitBatchRunner) processSubject(ctx context.Context, subject domain.Subject, ref *domain.StyleReference, size, fileName string) error {
	promptText := prompt.Build(subject.Name)

	resp, err := r.requestImage(ctx, promptText, ref, size)
	if err != nil {
		return err
	}

	outPath, err := urlpath.ResolveOutputPath(r.options.OutputDir, fileName)
	if err != nil {
		return fmt.Errorf("出力パスの解決に失敗しました: %w", err)
	}

	if err := r.writer.Write(ctx, outPath, bytes.NewReader(resp.Data), resp.MimeType); err != nil {
		return fmt.Errorf("'%s' への書き込みに失敗しました: %w", outPath, err)
	}
	return nil
}

// requestImage はリクエストの形（generate / edit）を選択して実行するのだ。
// edit モードに品質ヒントは載らないのだ。
func (r *PortraitBatchRunner) requestImage(ctx context.Context, promptText string, ref *domain.StyleReference, size string) (*domain.ImageResponse, error) {
	if ref != nil {
		return r.generator.Edit(ctx, domain.PortraitEditRequest{
			Prompt:       promptText,
			Size:         size,
			OutputFormat: r.options.Format,
			Reference:    ref,
		})
	}
	return r.generator.Generate(ctx, domain.PortraitRequest{
		Prompt:       promptText,
		Size:         size,
		Quality:      r.options.Quality,
		OutputFormat: r.options.Format,
	})
}
