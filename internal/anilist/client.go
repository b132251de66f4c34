// Package anilist はAniList GraphQL APIとの連携を提供する。
// バッチクエリの構築、HTTPクライアント、型付きレスポンス、
// エラー位置からのユーザー帰属を含む。
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// UpstreamRecorder はアップストリーム呼び出しのメトリクス記録インターフェース。
type UpstreamRecorder interface {
	RecordUpstreamStatus(statusCode int)
	RecordUpstreamLatency(duration time.Duration)
}

// Client はAniList GraphQL APIのクライアント。
// 1リクエストにつきネットワーク往復は1回（全ユーザーをバッチしたクエリ）。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	recorder   UpstreamRecorder // nilの場合は記録しない
	endpoint   string           // テスト用に差し替え可能
}

// NewClient はClientの新しいインスタンスを生成する。
// endpointが空文字の場合は本番エンドポイントを使用する。
// recorderはnilでもよい。
func NewClient(httpClient *http.Client, logger *slog.Logger, endpoint string, recorder UpstreamRecorder) *Client {
	if endpoint == "" {
		endpoint = "https://graphql.anilist.co"
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		recorder:   recorder,
		endpoint:   endpoint,
	}
}

// FetchLists はバッチクエリをPOSTし、型付きレスポンスを返す。
// AniListはユーザー不在時にHTTP 404でエラーペイロードを返すため、
// ステータスコードでは失敗と判定せず、ボディのデコード可否のみで判定する。
// GraphQLエラーの解釈（Errorsフィールド）は呼び出し側が行う。
func (c *Client) FetchLists(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "anicmp/1.0")

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("anilist request failed",
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	defer httpResp.Body.Close()

	if c.recorder != nil {
		c.recorder.RecordUpstreamStatus(httpResp.StatusCode)
		c.recorder.RecordUpstreamLatency(time.Since(start))
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		c.logger.Error("anilist returned an undecodable body",
			slog.Int("http_status", httpResp.StatusCode),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("anilist returned status %d with an undecodable body: %w", httpResp.StatusCode, err)
	}

	return &resp, nil
}
