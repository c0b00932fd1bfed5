package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-portrait-kit/internal/config"
	"github.com/shouni/go-portrait-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、CSVの名前リストからポートレート画像を一括生成するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "CSVの名前リストからポートレートを一括生成するのだ。",
	Long: `'name' 列を持つCSVを読み込み、1行につき1枚のポートレート画像を生成して保存するのだ。
参照画像 (--style) を指定すると、その画風に寄せた image-to-image (edit) モードになるのだよ。`,
	RunE: generateCommand,
}

func init() {
}

// generateCommand は、generate サブコマンドの実行ロジック本体なのだ。
// 設定のバリデーションを行い、pipeline.Execute を呼び出して一連の処理をキックするのだ。
func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 必須チェック
	if opts.CSVFile == "" {
		return fmt.Errorf("入力CSV（--csv）を指定してほしいのだ")
	}

	// 2. 列挙系フラグの検証（不正値はリクエスト前に弾くのだ）
	if err := opts.Validate(); err != nil {
		return err
	}

	// 3. 環境変数等から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.Options = opts

	slog.Info("ポートレート一括生成を起動するのだ！",
		"csv", opts.CSVFile,
		"provider", opts.Provider,
		"model", cfg.ResolveImageModel(),
		"output", opts.OutputDir)

	// 4. パイプライン実行
	if err := pipeline.Execute(ctx, cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	return nil
}
