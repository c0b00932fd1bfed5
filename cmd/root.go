package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-portrait-kit/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は CLI フラグの値を集約する実行時オプションなのだ。
var opts config.GenerateOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.CSVFile, "csv", "f", "", "'name' 列を持つ入力CSVのパス（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.StylePath, "style", "s", "", "画風参照画像（PNG/JPEG）。指定すると image-to-image (edit) になるのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "out", "o", config.DefaultOutputDir, "生成された画像を保存するディレクトリ（ローカル or gs://...）なのだ。")

	// --- 生成パラメータ ---
	rootCmd.PersistentFlags().IntVar(&opts.Size, "size", config.DefaultSize, "正方形画像の一辺ピクセル数 (1024/1536/2048) なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Format, "format", config.DefaultFormat, "出力フォーマット (png/jpeg/webp) なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Quality, "quality", config.DefaultQuality, "品質ヒント (low/medium/high/auto)。generateモード専用なのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.Provider, "provider", config.DefaultProvider, "画像生成プロバイダー (openai/gemini) なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", "", "使用する画像生成モデル名（省略時はプロバイダーのデフォルト）なのだ。")

	// --- 実行制御 ---
	rootCmd.PersistentFlags().DurationVar(&opts.Sleep, "sleep", config.DefaultSleep, "リクエスト間の待機時間なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// 選択されたプロバイダーのAPIキーがなければ、リクエストを投げる前に止めるのだ！
	switch opts.Provider {
	case config.ProviderGemini:
		if os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
		}
	default:
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("エラー: 環境変数 OPENAI_API_KEY が設定されていません。OpenAI APIの利用には必須なのだ")
		}
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"portrait-kit",
		addAppFlags,
		preRunAppE,
		generateCmd,
	)
}
