package prompt

import (
	_ "embed"
	"strings"
)

// subjectPlaceholder はテンプレート内で被写体名に差し替わる印なのだ。
const subjectPlaceholder = "{{SUBJECT_NAME}}"

//go:embed portrait.md
var portraitTemplate string

// Build は、被写体名を埋め込んだポートレート生成用プロンプトを返すのだ。
// テンプレートは固定なので、同じ名前に対する出力は常に同一になるのだよ。
// 名前はパース段階で非空が保証されているため、エラーは発生しないのだ。
func Build(name string) string {
	return strings.ReplaceAll(portraitTemplate, subjectPlaceholder, name)
}
