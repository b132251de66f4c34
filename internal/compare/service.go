package compare

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/anicmp/internal/anilist"
	"github.com/hitoshi/anicmp/internal/model"
)

// ListFetcher は比較サービスが必要とするアップストリーム呼び出しの
// インターフェース。
type ListFetcher interface {
	// FetchLists はバッチクエリを送信し型付きレスポンスを返す。
	FetchLists(ctx context.Context, req anilist.Request) (*anilist.Response, error)
}

// OutcomeRecorder は比較処理の結果メトリクスを記録するインターフェース。
type OutcomeRecorder interface {
	RecordCompareOutcome(outcome string)
	RecordCommonEntries(count int)
}

// Result は比較の成功結果を表す。
type Result struct {
	Users   []string           // 正規化済みユーザー名（リクエスト順）
	Status  model.Status       // 解決済みステータス
	Entries []model.MediaEntry // 共通作品（メディアID昇順）
}

// Service はユーザー名の検証からレスポンスの集約までを束ねる比較サービス。
// リクエストをまたぐ状態は持たない。
type Service struct {
	fetcher  ListFetcher
	logger   *slog.Logger
	recorder OutcomeRecorder // nilの場合は記録しない
}

// NewService はServiceを生成する。recorderはnilでもよい。
func NewService(fetcher ListFetcher, logger *slog.Logger, recorder OutcomeRecorder) *Service {
	return &Service{
		fetcher:  fetcher,
		logger:   logger,
		recorder: recorder,
	}
}

// Compare は生のユーザー名列とステータス文字列から共通作品を求める。
//
// 失敗はすべて型付きエラーで返す:
//   - *model.TooFewUsersError / *model.InvalidUsernameError（検証）
//   - *model.UnknownStatusError（ステータス解決）
//   - *model.UserNotFoundError（アップストリームの404をユーザーに帰属）
//   - *model.EmptyListError（あるユーザーのリストが空）
//
// リトライは行わない。ネットワーク失敗や不正なペイロードはラップして返す。
func (s *Service) Compare(ctx context.Context, rawUsers []string, statusText string) (*Result, error) {
	users, err := NormalizeUsernames(rawUsers)
	if err != nil {
		s.recordOutcome(err)
		return nil, err
	}

	status, err := model.ParseStatus(statusText)
	if err != nil {
		s.recordOutcome(err)
		return nil, err
	}

	req := anilist.BuildQuery(users, status)

	resp, err := s.fetcher.FetchLists(ctx, req)
	if err != nil {
		if s.recorder != nil {
			s.recorder.RecordCompareOutcome("upstream_error")
		}
		return nil, fmt.Errorf("failed to fetch user lists: %w", err)
	}

	if len(resp.Errors) > 0 {
		if missing := anilist.MissingUsers(resp.Errors, users); len(missing) > 0 {
			err := &model.UserNotFoundError{Usernames: dedupe(missing)}
			s.recordOutcome(err)
			return nil, err
		}
		if s.recorder != nil {
			s.recorder.RecordCompareOutcome("upstream_error")
		}
		return nil, fmt.Errorf("anilist returned an error: %s", resp.Errors[0].Message)
	}

	entries, err := Aggregate(resp, users, status)
	if err != nil {
		s.recordOutcome(err)
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordCompareOutcome("success")
		s.recorder.RecordCommonEntries(len(entries))
	}

	s.logger.Info("compare completed",
		slog.Int("users", len(users)),
		slog.String("status", status.String()),
		slog.Int("common_entries", len(entries)),
	)

	return &Result{
		Users:   users,
		Status:  status,
		Entries: SortedEntries(entries),
	}, nil
}

// recordOutcome は型付きエラーをメトリクスの結果ラベルに対応づける。
func (s *Service) recordOutcome(err error) {
	if s.recorder == nil {
		return
	}

	var (
		tooFew    *model.TooFewUsersError
		invalid   *model.InvalidUsernameError
		unknown   *model.UnknownStatusError
		notFound  *model.UserNotFoundError
		emptyList *model.EmptyListError
	)
	switch {
	case errors.As(err, &tooFew), errors.As(err, &invalid), errors.As(err, &unknown):
		s.recorder.RecordCompareOutcome("validation_error")
	case errors.As(err, &notFound):
		s.recorder.RecordCompareOutcome("user_not_found")
	case errors.As(err, &emptyList):
		s.recorder.RecordCompareOutcome("empty_list")
	default:
		s.recorder.RecordCompareOutcome("upstream_error")
	}
}

// dedupe は順序を保ったまま重複を除去する。
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
