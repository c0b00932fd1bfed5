package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Run("被写体名がそのまま埋め込まれる", func(t *testing.T) {
		result := Build("Keanu Reeves")

		assert.Contains(t, result, "Keanu Reeves")
		assert.NotContains(t, result, subjectPlaceholder, "プレースホルダーが残っていてはいけない")
	})

	t.Run("同じ名前なら常に同じプロンプトになる", func(t *testing.T) {
		assert.Equal(t, Build("Jane Doe"), Build("Jane Doe"))
	})

	t.Run("名前以外の構造は被写体によらず同一", func(t *testing.T) {
		a := strings.ReplaceAll(Build("Keanu Reeves"), "Keanu Reeves", "X")
		b := strings.ReplaceAll(Build("Jane Doe"), "Jane Doe", "X")

		assert.Equal(t, a, b)
	})

	t.Run("テンプレートが埋め込まれている", func(t *testing.T) {
		require.NotEmpty(t, portraitTemplate, "embed設定を確認してほしいのだ")
		assert.Contains(t, portraitTemplate, subjectPlaceholder)
	})
}
