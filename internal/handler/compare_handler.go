// Package handler はHTTPルーティングとプレゼンテーションを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/hitoshi/anicmp/internal/compare"
	"github.com/hitoshi/anicmp/internal/middleware"
	"github.com/hitoshi/anicmp/internal/model"
)

// defaultStatus はstatusクエリパラメータ省略時のステータス名。
const defaultStatus = "planning"

// CompareServiceInterface は比較ハンドラーが必要とするサービスインターフェース。
type CompareServiceInterface interface {
	// Compare は生のユーザー名列とステータス文字列から共通作品を求める。
	Compare(ctx context.Context, rawUsers []string, statusText string) (*compare.Result, error)
}

// CompareHandler は比較エンドポイントのHTTPハンドラー。
type CompareHandler struct {
	service   CompareServiceInterface
	maxUsers  int
	sanitizer *bluemonday.Policy
}

// NewCompareHandler はCompareHandlerを生成する。
// アップストリーム由来のタイトル文字列はStrictPolicyでサニタイズする。
func NewCompareHandler(service CompareServiceInterface, maxUsers int) *CompareHandler {
	return &CompareHandler{
		service:   service,
		maxUsers:  maxUsers,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Index はパスパラメータ無しのアクセスに使い方のヒントを返す。
// GET /
func (h *CompareHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "Did you forget to add path parameters? Like /User1/User2?")
}

// compareResponse は比較成功時のJSONレスポンス。
type compareResponse struct {
	Users   []string           `json:"users"`
	Status  string             `json:"status"`
	Count   int                `json:"count"`
	Entries []model.MediaEntry `json:"entries"`
}

// Compare は共通作品の比較を処理する。
// GET /{user1}/{user2}[/{userN}...]?status=planning&format=json&exclude=native,url
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	usernames, err := splitUsernames(chi.URLParam(r, "*"))
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeInvalidUsername,
			Message:  "The request path could not be decoded.",
			Category: "validation",
			Action:   "Use plain alphanumeric usernames in the path.",
		})
		return
	}

	if len(usernames) > h.maxUsers {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "TOO_MANY_USERS",
			Message:  fmt.Sprintf("At most %d usernames can be compared at once (got %d).", h.maxUsers, len(usernames)),
			Category: "validation",
			Action:   "Reduce the number of usernames in the path.",
		})
		return
	}

	columns, err := parseColumns(r.URL.Query().Get("exclude"))
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     model.ErrCodeInvalidColumn,
			Message:  err.Error(),
			Category: "validation",
			Action:   "Valid exclude values are: romaji, english, native, url.",
		})
		return
	}

	statusText := r.URL.Query().Get("status")
	if statusText == "" {
		statusText = defaultStatus
	}

	result, err := h.service.Compare(r.Context(), usernames, statusText)
	if err != nil {
		writeCompareError(w, err)
		return
	}

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(compareResponse{
			Users:   result.Users,
			Status:  result.Status.String(),
			Count:   len(result.Entries),
			Entries: result.Entries,
		})
		return
	}

	h.renderHTML(w, result, columns)
}

// renderHTML は比較結果をHTMLページとして描画する。
// 共通作品が無い場合も200で空状態のメッセージを返す。
func (h *CompareHandler) renderHTML(w http.ResponseWriter, result *compare.Result, columns columnSet) {
	page := comparePage{
		UsersLabel: joinNatural(result.Users),
		StatusName: result.Status.String(),
		Count:      len(result.Entries),
		Columns:    columns,
		Rows:       make([]compareRow, 0, len(result.Entries)),
	}

	for _, entry := range result.Entries {
		page.Rows = append(page.Rows, compareRow{
			ID:      entry.ID,
			Romaji:  h.sanitizeTitle(entry.Title.Romaji),
			English: h.sanitizeTitle(entry.Title.English),
			Native:  h.sanitizeTitle(entry.Title.Native),
			SiteURL: entry.SiteURL,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, page); err != nil {
		slog.Error("failed to render compare page", slog.String("error", err.Error()))
	}
}

// sanitizeTitle はnull許容のタイトル文字列をサニタイズ済みの表示文字列にする。
func (h *CompareHandler) sanitizeTitle(title *string) string {
	if title == nil {
		return ""
	}
	return h.sanitizer.Sanitize(*title)
}

// writeCompareError は比較サービスの型付きエラーをHTTPレスポンスに対応づける。
// 検証系は400、ユーザー不在・空リストは404、それ以外は500（詳細はログのみ）。
func writeCompareError(w http.ResponseWriter, err error) {
	var (
		tooFew    *model.TooFewUsersError
		invalid   *model.InvalidUsernameError
		unknown   *model.UnknownStatusError
		notFound  *model.UserNotFoundError
		emptyList *model.EmptyListError
	)

	switch {
	case errors.As(err, &tooFew):
		middleware.WriteErrorResponse(w, http.StatusBadRequest, tooFew.APIError())
	case errors.As(err, &invalid):
		middleware.WriteErrorResponse(w, http.StatusBadRequest, invalid.APIError())
	case errors.As(err, &unknown):
		middleware.WriteErrorResponse(w, http.StatusBadRequest, unknown.APIError())
	case errors.As(err, &notFound):
		middleware.WriteErrorResponse(w, http.StatusNotFound, notFound.APIError())
	case errors.As(err, &emptyList):
		middleware.WriteErrorResponse(w, http.StatusNotFound, emptyList.APIError())
	default:
		slog.Error("compare failed", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
	}
}

// splitUsernames はワイルドカードパスをユーザー名の列に分解する。
// 各セグメントはパーセントデコードする。空セグメントは無視する。
func splitUsernames(wildcard string) ([]string, error) {
	segments := strings.Split(wildcard, "/")
	usernames := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return nil, err
		}
		usernames = append(usernames, decoded)
	}
	return usernames, nil
}

// parseColumns はexcludeパラメータ（カンマ区切り）から表示カラムを決める。
// 未知のカラム名はエラー。
func parseColumns(exclude string) (columnSet, error) {
	columns := columnSet{Romaji: true, English: true, Native: true, URL: true}
	if exclude == "" {
		return columns, nil
	}

	for _, name := range strings.Split(exclude, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "romaji":
			columns.Romaji = false
		case "english":
			columns.English = false
		case "native":
			columns.Native = false
		case "url":
			columns.URL = false
		case "":
		default:
			return columnSet{}, fmt.Errorf("unknown display column: %q", name)
		}
	}
	return columns, nil
}

// wantsJSON はレスポンス形式としてJSONが要求されているかを返す。
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// joinNatural はユーザー名列を英語の自然な列挙（"a and b"、"a, b and c"）にする。
func joinNatural(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
