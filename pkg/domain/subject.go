package domain

import "strings"

// Subject は入力CSVの1行、つまりポートレートを描く対象人物です。
// パース時に名前の前後空白は除去済みであり、空の名前はバッチに入りません。
type Subject struct {
	Name string
}

// FileName は被写体名から出力ファイル名を導出します。
// 空白をアンダースコアに置換するだけで、それ以外の文字はそのまま通します
// （パス区切り文字などを含む名前は呼び出し側の責任になります）。
// 例: "Jane Doe", "png" -> "Jane_Doe.png"
func (s Subject) FileName(format string) string {
	return strings.ReplaceAll(s.Name, " ", "_") + "." + strings.ToLower(format)
}
