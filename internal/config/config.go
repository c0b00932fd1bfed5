package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shouni/go-utils/envutil"
)

// プロバイダー識別子の定義なのだ
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// デフォルト値の定義なのだ
const (
	DefaultOpenAIImageModel = "gpt-image-1"
	DefaultGeminiImageModel = "gemini-3-pro-image-preview"
	DefaultOutputDir        = "out"
	DefaultSize             = 1024
	DefaultFormat           = "png"
	DefaultQuality          = "high"
	DefaultProvider         = ProviderOpenAI
	DefaultSleep            = 500 * time.Millisecond
	DefaultHTTPTimeout      = 30 * time.Second
	DefaultReferenceTTL     = 1 * time.Hour // 参照画像キャッシュの有効期限
)

// 許容される列挙値なのだ。バリデーションとヘルプ表示の両方で使うのだ。
var (
	AllowedSizes     = []int{1024, 1536, 2048}
	AllowedFormats   = []string{"png", "jpeg", "webp"}
	AllowedQualities = []string{"low", "medium", "high", "auto"}
	AllowedProviders = []string{ProviderOpenAI, ProviderGemini}
)

// Config はアプリケーション全体の環境設定（APIキーやモデル名）を保持する構造体なのだ。
type Config struct {
	OpenAIAPIKey string
	GeminiAPIKey string
	ImageModel   string // 空の場合はプロバイダーごとのデフォルトを使う

	Options GenerateOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	return &Config{
		OpenAIAPIKey: envutil.GetEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey: envutil.GetEnv("GEMINI_API_KEY", ""),
		ImageModel:   envutil.GetEnv("PORTRAIT_IMAGE_MODEL", ""),
	}
}

// ResolveImageModel は実際に使用するモデル名を決定するのだ。
// 明示指定（フラグ・環境変数）がなければプロバイダーごとのデフォルトに落ちるのだ。
func (c *Config) ResolveImageModel() string {
	if c.Options.ImageModel != "" {
		return c.Options.ImageModel
	}
	if c.ImageModel != "" {
		return c.ImageModel
	}
	if c.Options.Provider == ProviderGemini {
		return DefaultGeminiImageModel
	}
	return DefaultOpenAIImageModel
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// ソース入力関連
	CSVFile   string // --csv: 'name' 列を持つCSV（ローカル or gs://...）
	StylePath string // --style: 画風参照画像（ローカル / gs:// / http(s)）
	OutputDir string // --out: 出力先ディレクトリ（ローカル or gs://...）

	// 生成パラメータ
	Size    int    // --size: 正方形の一辺ピクセル数
	Format  string // --format: 出力画像フォーマット
	Quality string // --quality: generateモード専用の品質ヒント

	// AI挙動設定
	Provider   string // --provider: openai / gemini
	ImageModel string // --image-model: モデル名の明示指定

	// 実行制御
	Sleep       time.Duration // --sleep: リクエスト間の待機時間
	HTTPTimeout time.Duration // --http-timeout
}

// Validate は列挙系フラグの値を検証するのだ。不正値は起動時エラーになるのだ。
func (o GenerateOptions) Validate() error {
	if !containsInt(AllowedSizes, o.Size) {
		return fmt.Errorf("サイズ %d は使えません。指定できるのは %s のいずれかです", o.Size, joinInts(AllowedSizes))
	}
	if !containsString(AllowedFormats, o.Format) {
		return fmt.Errorf("フォーマット '%s' は使えません。指定できるのは [%s] のいずれかです", o.Format, strings.Join(AllowedFormats, ", "))
	}
	if !containsString(AllowedQualities, o.Quality) {
		return fmt.Errorf("品質 '%s' は使えません。指定できるのは [%s] のいずれかです", o.Quality, strings.Join(AllowedQualities, ", "))
	}
	if !containsString(AllowedProviders, o.Provider) {
		return fmt.Errorf("プロバイダー '%s' は使えません。指定できるのは [%s] のいずれかです", o.Provider, strings.Join(AllowedProviders, ", "))
	}
	if o.Sleep < 0 {
		return fmt.Errorf("待機時間に負の値は指定できません: %s", o.Sleep)
	}
	return nil
}

// SquareSize は一辺のピクセル数を "1024x1024" 形式のAPI用文字列に変換するのだ。
func SquareSize(px int) string {
	return fmt.Sprintf("%dx%d", px, px)
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func joinInts(list []int) string {
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
