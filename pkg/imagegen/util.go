package imagegen

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// MimeForFormat は出力フォーマット名から Content-Type を導出するのだ。
func MimeForFormat(format string) string {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

// validateRemoteHost は、SSRF (Server-Side Request Forgery) 対策として
// http(s) の取得先ホストを検証するのだ。スキームの振り分けは呼び出し側が
// 済ませている前提で、ここではプライベートIPやループバックアドレスを
// ターゲットにしていないことだけを確認するのだ。
func validateRemoteHost(rawURL string) error {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return fmt.Errorf("URLパース失敗: %w", err)
	}

	ips, err := net.LookupIP(parsedURL.Hostname())
	if err != nil {
		return fmt.Errorf("ホスト '%s' の名前解決に失敗しました: %w", parsedURL.Hostname(), err)
	}

	for _, ip := range ips {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			return fmt.Errorf("制限されたネットワークへのアクセスを検知: %s", ip.String())
		}
	}

	return nil
}
