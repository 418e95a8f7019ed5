package dart

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wonny/ratioservice/pkg/config"
	"github.com/wonny/ratioservice/pkg/httputil"
	"github.com/wonny/ratioservice/pkg/logger"
	"github.com/wonny/ratioservice/pkg/redis"
)

// DART status codes
const (
	StatusOK     = "000"
	StatusNoData = "013" // 조회된 데이터 없음 (에러 아님)
)

// APIError is a non-success DART status other than "no data"
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dart api error: %s - %s", e.Status, e.Message)
}

// Client handles communication with DART (Data Analysis, Retrieval and Transfer System) API
// ⭐ SSOT: DART API 호출은 이 클라이언트에서만
type Client struct {
	http    *httputil.Client
	logger  *logger.Logger
	apiKey  string
	baseURL string
}

// NewClient creates a new DART API client.
// quota may be nil; when set, every request also counts against the shared daily quota.
// DART API requires legacy TLS configuration (RSA key exchange)
func NewClient(cfg *config.Config, quota *redis.RateLimiter, log *logger.Logger) *Client {
	hc := httputil.New(cfg, log).
		WithTransport(newLegacyCompatibleTransport()).
		WithRateLimit(cfg.DART.RatePerSec)
	if quota != nil {
		hc = hc.WithQuota(quota, redis.DARTDailyQuota)
	}

	baseURL := cfg.DART.BaseURL
	if baseURL == "" {
		baseURL = "https://opendart.fss.or.kr/api"
	}

	return &Client{
		http:    hc,
		logger:  log.Module("dart"),
		apiKey:  cfg.DART.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// newLegacyCompatibleTransport creates a transport compatible with legacy TLS servers
// DART server requires RSA key exchange cipher suites which Go 1.22+ no longer offers by default
func newLegacyCompatibleTransport() *http.Transport {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,

		CipherSuites: []uint16{
			// ECDHE (modern) - will be used if server supports
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,

			// RSA KEX (legacy) - required for DART API
			tls.TLS_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_RSA_WITH_AES_128_CBC_SHA,
			tls.TLS_RSA_WITH_AES_256_CBC_SHA,
		},
	}

	return &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: false, // Disable HTTP/2 for legacy server compatibility

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		TLSHandshakeTimeout:   10 * time.Second,
		TLSClientConfig:       tlsCfg,
		MaxIdleConns:          20,
		MaxConnsPerHost:       5, // Reduced to avoid overwhelming DART API
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// endpoint builds an API URL with crtfc_key plus params
func (c *Client) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("crtfc_key", c.apiKey)
	return c.baseURL + "/" + path + "?" + params.Encode()
}
