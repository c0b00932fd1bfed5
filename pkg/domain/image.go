package domain

// StyleReference は画風の参照画像です。起動時に一度だけ読み込まれ、
// バッチ全体で読み取り専用として共有されます。
type StyleReference struct {
	FileName string // マルチパート送信時に使うファイル名
	MimeType string // バイト列から判定した MIME タイプ
	Data     []byte
}

// PortraitRequest はテキストのみの生成（generate モード）の要求です。
type PortraitRequest struct {
	Prompt       string
	Size         string // "1024x1024" 形式の正方形サイズ
	Quality      string // low / medium / high / auto
	OutputFormat string // png / jpeg / webp
}

// PortraitEditRequest は参照画像つき生成（edit モード）の要求です。
// このモードでは品質ヒントは適用されません。
type PortraitEditRequest struct {
	Prompt       string
	Size         string
	OutputFormat string
	Reference    *StyleReference
}

// ImageResponse はデコード済みの生成画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
}
