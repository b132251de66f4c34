// Package config は環境変数ベースのアプリケーション設定を提供する。
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// DefaultAnilistEndpoint はAniList GraphQL APIの本番エンドポイント。
const DefaultAnilistEndpoint = "https://graphql.anilist.co"

// Config はアプリケーション全体の設定を保持する。
// 起動時に環境変数から1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Server
	ServerPort string

	// Upstream (AniList GraphQL)
	AnilistEndpoint string
	UpstreamTimeout time.Duration

	// Rate Limit
	RateLimitGeneral int // req/min/クライアントIP

	// Compare
	MaxCompareUsers int
}

// Load は環境変数からConfigを読み込む。
// すべての項目にデフォルト値があるため、未設定でも起動できる。
// ANILIST_ENDPOINTが不正なURLの場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:       getEnvString("SERVER_PORT", "8080"),
		AnilistEndpoint:  getEnvString("ANILIST_ENDPOINT", DefaultAnilistEndpoint),
		UpstreamTimeout:  getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		RateLimitGeneral: getEnvInt("RATE_LIMIT_GENERAL", 60),
		MaxCompareUsers:  getEnvInt("MAX_COMPARE_USERS", 6),
	}

	u, err := url.Parse(cfg.AnilistEndpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid ANILIST_ENDPOINT: %q", cfg.AnilistEndpoint)
	}

	if cfg.MaxCompareUsers < 2 {
		return nil, fmt.Errorf("MAX_COMPARE_USERS must be at least 2, got %d", cfg.MaxCompareUsers)
	}

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
