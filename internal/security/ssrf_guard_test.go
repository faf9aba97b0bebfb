package security

import (
	"testing"
	"time"
)

// TestValidateURLAllowed は正常なURLが検証を通過することを確認する
func TestValidateURLAllowed(t *testing.T) {
	g := NewSSRFGuard()

	tests := []string{
		"https://example.com/outfit.png",
		"http://images.example.org/photo.jpg",
		"https://93.184.216.34/a.png", // パブリックIP
	}
	for _, rawURL := range tests {
		if err := g.ValidateURL(rawURL); err != nil {
			t.Errorf("ValidateURL(%s) error = %v", rawURL, err)
		}
	}
}

// TestValidateURLBlockedSchemes は危険なスキームが拒否されることを確認する
func TestValidateURLBlockedSchemes(t *testing.T) {
	g := NewSSRFGuard()

	tests := []string{
		"ftp://example.com/a.png",
		"file:///etc/passwd",
		"javascript:alert(1)",
		"data:image/png;base64,AAAA",
	}
	for _, rawURL := range tests {
		if err := g.ValidateURL(rawURL); err == nil {
			t.Errorf("ValidateURL(%s) がエラーを返さない", rawURL)
		}
	}
}

// TestValidateURLBlockedAddresses は内部アドレスが拒否されることを確認する
func TestValidateURLBlockedAddresses(t *testing.T) {
	g := NewSSRFGuard()

	tests := []string{
		"http://127.0.0.1/a.png",
		"http://localhost/a.png",
		"http://10.0.0.5/a.png",
		"http://172.16.1.1/a.png",
		"http://192.168.1.1/a.png",
		"http://169.254.169.254/latest/meta-data/", // クラウドメタデータ
		"http://[::1]/a.png",
	}
	for _, rawURL := range tests {
		if err := g.ValidateURL(rawURL); err == nil {
			t.Errorf("ValidateURL(%s) がエラーを返さない", rawURL)
		}
	}
}

// TestValidateURLMalformed は不正な入力が拒否されることを確認する
func TestValidateURLMalformed(t *testing.T) {
	g := NewSSRFGuard()

	tests := []string{
		"",
		"https://",
		"not a url",
	}
	for _, rawURL := range tests {
		if err := g.ValidateURL(rawURL); err == nil {
			t.Errorf("ValidateURL(%q) がエラーを返さない", rawURL)
		}
	}
}

// TestNewSafeClient はSSRF防止クライアントの生成を確認する
func TestNewSafeClient(t *testing.T) {
	g := NewSSRFGuard()

	client := g.NewSafeClient(10*time.Second, 5*1024*1024)
	if client == nil {
		t.Fatal("NewSafeClient() = nil")
	}
	if client.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, 期待値 10s", client.Timeout)
	}
}
