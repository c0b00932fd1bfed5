package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/shouni/go-portrait-kit/pkg/domain"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// b64Response は生バイト列を b64_json ペイロードに包んだレスポンスを作る。
func b64Response(raw []byte) *openai.ImagesResponse {
	return &openai.ImagesResponse{
		Data: []openai.Image{{B64JSON: base64.StdEncoding.EncodeToString(raw)}},
	}
}

// unsupportedQualityError は「品質パラメータ未対応」を表すAPIエラーを組み立てる。
// Error() がリクエスト情報を参照するため、Request/Response も埋めておく。
func unsupportedQualityError(t *testing.T) *openai.Error {
	t.Helper()
	httpReq, err := http.NewRequest(http.MethodPost, "https://api.openai.com/v1/images/generations", nil)
	require.NoError(t, err)
	return &openai.Error{
		StatusCode: http.StatusBadRequest,
		Param:      "quality",
		Request:    httpReq,
		Response:   &http.Response{StatusCode: http.StatusBadRequest, Request: httpReq},
	}
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	raw := pngBytes()

	req := domain.PortraitRequest{
		Prompt:       "portrait of Keanu Reeves",
		Size:         "1024x1024",
		Quality:      "high",
		OutputFormat: "png",
	}

	t.Run("品質つきで1回だけリクエストされ、ペイロードがデコードされる", func(t *testing.T) {
		api := &mockImagesAPI{resp: b64Response(raw)}
		gen := &OpenAIGenerator{images: api, model: "gpt-image-1"}

		resp, err := gen.Generate(ctx, req)

		require.NoError(t, err)
		require.Len(t, api.generateParams, 1)
		sent := api.generateParams[0]
		assert.Equal(t, openai.ImageModel("gpt-image-1"), sent.Model)
		assert.Equal(t, openai.ImageGenerateParamsSize("1024x1024"), sent.Size)
		assert.Equal(t, openai.ImageGenerateParamsQuality("high"), sent.Quality)
		assert.Equal(t, openai.ImageGenerateParamsOutputFormat("png"), sent.OutputFormat)

		// デコードは完全に可逆
		assert.Equal(t, raw, resp.Data)
		assert.Equal(t, "image/png", resp.MimeType)
	})

	t.Run("品質未対応エラーなら一度だけ品質なしで再試行する", func(t *testing.T) {
		api := &mockImagesAPI{
			resp:         b64Response(raw),
			generateErrs: []error{unsupportedQualityError(t)},
		}
		gen := &OpenAIGenerator{images: api, model: "gpt-image-1"}

		resp, err := gen.Generate(ctx, req)

		require.NoError(t, err)
		require.Len(t, api.generateParams, 2)
		assert.Equal(t, openai.ImageGenerateParamsQuality("high"), api.generateParams[0].Quality)
		assert.Equal(t, openai.ImageGenerateParamsQuality(""), api.generateParams[1].Quality, "再試行には品質を載せない")
		assert.Equal(t, raw, resp.Data)
	})

	t.Run("品質と無関係なエラーは再試行せずに返す", func(t *testing.T) {
		api := &mockImagesAPI{
			resp:         b64Response(raw),
			generateErrs: []error{errors.New("quota exceeded")},
		}
		gen := &OpenAIGenerator{images: api, model: "gpt-image-1"}

		_, err := gen.Generate(ctx, req)

		require.Error(t, err)
		assert.Len(t, api.generateParams, 1, "能力ネゴシエーション以外で再試行してはいけない")
	})

	t.Run("フォールバックも失敗したらエラーを返す", func(t *testing.T) {
		api := &mockImagesAPI{
			generateErrs: []error{unsupportedQualityError(t), errors.New("server error")},
		}
		gen := &OpenAIGenerator{images: api, model: "gpt-image-1"}

		_, err := gen.Generate(ctx, req)

		require.Error(t, err)
		assert.Len(t, api.generateParams, 2)
	})

	t.Run("画像データのないレスポンスはエラーになる", func(t *testing.T) {
		api := &mockImagesAPI{resp: &openai.ImagesResponse{}}
		gen := &OpenAIGenerator{images: api, model: "gpt-image-1"}

		_, err := gen.Generate(ctx, req)

		require.Error(t, err)
	})
}

func TestOpenAIGenerator_Edit(t *testing.T) {
	ctx := context.Background()
	raw := pngBytes()

	ref := &domain.StyleReference{
		FileName: "style.png",
		MimeType: "image/png",
		Data:     pngBytes(),
	}

	t.Run("参照画像つきの edit リクエストが組み立てられる", func(t *testing.T) {
		api := &mockImagesAPI{resp: b64Response(raw)}
		gen := &OpenAIGenerator{images: api, model: "gpt-image-1"}

		resp, err := gen.Edit(ctx, domain.PortraitEditRequest{
			Prompt:       "portrait of Jane Doe",
			Size:         "1024x1024",
			OutputFormat: "png",
			Reference:    ref,
		})

		require.NoError(t, err)
		require.Len(t, api.editParams, 1)
		sent := api.editParams[0]
		assert.Equal(t, openai.ImageModel("gpt-image-1"), sent.Model)
		assert.Equal(t, "portrait of Jane Doe", sent.Prompt)
		assert.Equal(t, openai.ImageEditParamsSize("1024x1024"), sent.Size)
		assert.NotNil(t, sent.Image.OfFile, "参照画像がマルチパートに載っていること")
		assert.Equal(t, raw, resp.Data)
	})

	t.Run("参照画像が空ならリクエストせずにエラー", func(t *testing.T) {
		api := &mockImagesAPI{resp: b64Response(raw)}
		gen := &OpenAIGenerator{images: api, model: "gpt-image-1"}

		_, err := gen.Edit(ctx, domain.PortraitEditRequest{Prompt: "x"})

		require.Error(t, err)
		assert.Empty(t, api.editParams)
	})

	t.Run("プロバイダーエラーはラップして返す", func(t *testing.T) {
		api := &mockImagesAPI{editErr: errors.New("provider exploded")}
		gen := &OpenAIGenerator{images: api, model: "gpt-image-1"}

		_, err := gen.Edit(ctx, domain.PortraitEditRequest{
			Prompt:       "portrait of Jane Doe",
			Size:         "1024x1024",
			OutputFormat: "png",
			Reference:    ref,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "OpenAI画像編集エラー")
		assert.Len(t, api.editParams, 1, "再試行はしない")
	})
}

func TestIsUnsupportedQuality(t *testing.T) {
	t.Run("400かつparam=qualityのAPIエラーで真", func(t *testing.T) {
		assert.True(t, isUnsupportedQuality(unsupportedQualityError(t)))
	})

	t.Run("APIエラー以外は偽", func(t *testing.T) {
		assert.False(t, isUnsupportedQuality(errors.New("network down")))
	})

	t.Run("400でも別パラメータなら偽", func(t *testing.T) {
		apiErr := unsupportedQualityError(t)
		apiErr.Param = "size"
		assert.False(t, isUnsupportedQuality(apiErr))
	})
}
