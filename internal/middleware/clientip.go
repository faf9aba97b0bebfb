// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP はリクエストの送信元クライアントIPを返す。
// リバースプロキシ経由の場合はX-Forwarded-Forの先頭エントリを採用し、
// それ以外はRemoteAddrのホスト部を返す。
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// "client, proxy1, proxy2" 形式の先頭が元のクライアント
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}

	if xrip := strings.TrimSpace(r.Header.Get("X-Real-IP")); xrip != "" {
		return xrip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
