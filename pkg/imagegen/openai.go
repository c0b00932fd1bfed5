package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shouni/go-portrait-kit/pkg/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// imagesAPI は openai-go の ImageService のうち、本パッケージが利用する操作の抽象です。
type imagesAPI interface {
	Generate(ctx context.Context, body openai.ImageGenerateParams, opts ...option.RequestOption) (*openai.ImagesResponse, error)
	Edit(ctx context.Context, body openai.ImageEditParams, opts ...option.RequestOption) (*openai.ImagesResponse, error)
}

// OpenAIGenerator は OpenAI の画像API (gpt-image 系) を使う PortraitGenerator 実装です。
type OpenAIGenerator struct {
	images imagesAPI
	model  string
}

// NewOpenAIGenerator は OpenAIGenerator を初期化するのだ。
// apiKey が空の場合、SDK が環境変数 OPENAI_API_KEY を自分で読むのだよ。
func NewOpenAIGenerator(apiKey, model string) (*OpenAIGenerator, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := openai.NewClient(opts...)

	return &OpenAIGenerator{
		images: &client.Images,
		model:  model,
	}, nil
}

// Generate はテキストのみのポートレート生成を実行するのだ。
// 品質ヒントがプロバイダー側で未対応の場合は、一度だけ外して再試行するのだ
// （失敗時のリトライではなく、能力ネゴシエーションなのだ）。
func (g *OpenAIGenerator) Generate(ctx context.Context, req domain.PortraitRequest) (*domain.ImageResponse, error) {
	params := openai.ImageGenerateParams{
		Model:        openai.ImageModel(g.model),
		Prompt:       req.Prompt,
		Size:         openai.ImageGenerateParamsSize(req.Size),
		OutputFormat: openai.ImageGenerateParamsOutputFormat(req.OutputFormat),
		N:            openai.Int(1),
	}
	if req.Quality != "" {
		params.Quality = openai.ImageGenerateParamsQuality(req.Quality)
	}

	resp, err := g.images.Generate(ctx, params)
	if err != nil && req.Quality != "" && isUnsupportedQuality(err) {
		slog.WarnContext(ctx, "品質パラメータが拒否されたため、外して再試行するのだ",
			"quality", req.Quality, "error", err)
		params.Quality = ""
		resp, err = g.images.Generate(ctx, params)
	}
	if err != nil {
		return nil, fmt.Errorf("OpenAI画像生成エラー: %w", err)
	}

	return decodePayload(resp, req.OutputFormat)
}

// Edit は参照画像つきのポートレート生成を実行するのだ。
// このモードに品質ヒントはないのだ。
func (g *OpenAIGenerator) Edit(ctx context.Context, req domain.PortraitEditRequest) (*domain.ImageResponse, error) {
	if req.Reference == nil || len(req.Reference.Data) == 0 {
		return nil, fmt.Errorf("参照画像が空です")
	}

	params := openai.ImageEditParams{
		Model: openai.ImageModel(g.model),
		Image: openai.ImageEditParamsImageUnion{
			OfFile: openai.File(bytes.NewReader(req.Reference.Data), req.Reference.FileName, req.Reference.MimeType),
		},
		Prompt:       req.Prompt,
		Size:         openai.ImageEditParamsSize(req.Size),
		OutputFormat: openai.ImageEditParamsOutputFormat(req.OutputFormat),
	}

	resp, err := g.images.Edit(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("OpenAI画像編集エラー: %w", err)
	}

	return decodePayload(resp, req.OutputFormat)
}

// decodePayload は b64_json ペイロードを検証して生バイト列にデコードするのだ。
func decodePayload(resp *openai.ImagesResponse, format string) (*domain.ImageResponse, error) {
	if resp == nil || len(resp.Data) == 0 {
		return nil, fmt.Errorf("レスポンスに画像データがありません")
	}
	b64 := resp.Data[0].B64JSON
	if b64 == "" {
		return nil, fmt.Errorf("レスポンスに b64_json ペイロードがありません")
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("画像ペイロードのデコードに失敗しました: %w", err)
	}

	return &domain.ImageResponse{
		Data:     data,
		MimeType: MimeForFormat(format),
	}, nil
}

// isUnsupportedQuality は「品質パラメータ未対応」を示すAPIエラーかどうかを判定するのだ。
// それ以外のエラー種別は再試行せず、そのまま呼び出し元に返すのだ。
func isUnsupportedQuality(err error) bool {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		return false
	}
	return apiErr.Param == "quality" || apiErr.Code == "unknown_parameter"
}
