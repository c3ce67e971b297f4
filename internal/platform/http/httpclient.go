package http

import (
	"net"
	"net/http"
	"time"
)

// defaultUserAgent は提供元APIへのリクエストで名乗るUA文字列です。
// UAが空のリクエストを弾く提供元があるため必ず付与します。
const defaultUserAgent = "Mozilla/5.0 (compatible; stock-insight/1.0)"

// headerTransport は全リクエストに既定ヘッダーを補います。
// 呼び出し側が明示的に設定したヘッダーは上書きしません。
type headerTransport struct {
	base http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", defaultUserAgent)
	}
	return t.base.RoundTrip(req)
}

// NewHTTPClient は提供元API呼び出し用に設定されたHTTPクライアントを作成します。
// http.DefaultClientは全体タイムアウトを持たないため、外部呼び出しには
// 常にこちらを使います。接続プールとハンドシェイクの上限も明示します。
func NewHTTPClient(timeout time.Duration) *http.Client {
	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &headerTransport{base: base},
	}
}
