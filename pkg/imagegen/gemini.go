package imagegen

import (
	"context"
	"fmt"

	"github.com/shouni/go-portrait-kit/pkg/domain"

	"google.golang.org/genai"
)

// contentAPI は genai の Models サービスのうち、本パッケージが利用する操作の抽象です。
type contentAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator は Gemini の画像生成モデルを使う PortraitGenerator 実装です。
// Gemini に品質ヒントの概念はないため、Quality は送信されません。
// サイズはアスペクト比 1:1 として扱われます（ピクセル指定はモデル側が決めます）。
type GeminiGenerator struct {
	models contentAPI
	model  string
}

// NewGeminiGenerator は Gemini API クライアントを初期化して GeminiGenerator を返すのだ。
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}

	return &GeminiGenerator{
		models: client.Models,
		model:  model,
	}, nil
}

// Generate はテキストのみのポートレート生成を実行するのだ。
func (g *GeminiGenerator) Generate(ctx context.Context, req domain.PortraitRequest) (*domain.ImageResponse, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}

	resp, err := g.generateParts(ctx, parts)
	if err != nil {
		return nil, fmt.Errorf("Geminiポートレート生成エラー: %w", err)
	}
	return resp, nil
}

// Edit は参照画像を先頭パートに載せたポートレート生成を実行するのだ。
func (g *GeminiGenerator) Edit(ctx context.Context, req domain.PortraitEditRequest) (*domain.ImageResponse, error) {
	if req.Reference == nil || len(req.Reference.Data) == 0 {
		return nil, fmt.Errorf("参照画像が空です")
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(req.Reference.Data, req.Reference.MimeType),
		genai.NewPartFromText(req.Prompt),
	}

	resp, err := g.generateParts(ctx, parts)
	if err != nil {
		return nil, fmt.Errorf("Geminiポートレート編集エラー: %w", err)
	}
	return resp, nil
}

// generateParts は通信と応答解析の共通ロジックなのだ。
func (g *GeminiGenerator) generateParts(ctx context.Context, parts []*genai.Part) (*domain.ImageResponse, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		ImageConfig:        &genai.ImageConfig{AspectRatio: "1:1"},
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, err
	}

	return parseGeminiResponse(resp)
}

// parseGeminiResponse は最初の候補から InlineData の画像パートを取り出すのだ。
func parseGeminiResponse(resp *genai.GenerateContentResponse) (*domain.ImageResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("Geminiからの有効な応答がありませんでした")
	}

	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &domain.ImageResponse{
					Data:     part.InlineData.Data,
					MimeType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}

	// 安全フィルター等によるブロックの確認
	if candidate.FinishReason != genai.FinishReasonUnspecified && candidate.FinishReason != genai.FinishReasonStop {
		return nil, fmt.Errorf("画像生成がブロックされました (FinishReason: %s)", candidate.FinishReason)
	}
	return nil, fmt.Errorf("応答に画像データが含まれていませんでした")
}
