package model

import (
	"fmt"
	"strings"
)

// APIError は統一エラーフォーマットを表す。
// HTTPレスポンスに載せる原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, compare, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeTooFewUsers     = "TOO_FEW_USERS"
	ErrCodeInvalidUsername = "INVALID_USERNAME"
	ErrCodeUnknownStatus   = "UNKNOWN_STATUS"
	ErrCodeUserNotFound    = "USER_NOT_FOUND"
	ErrCodeEmptyList       = "EMPTY_LIST"
	ErrCodeInvalidColumn   = "INVALID_COLUMN"
)

// TooFewUsersError は重複除去後のユーザー数が2未満の場合の失敗。
type TooFewUsersError struct {
	Count int // 重複除去後に残ったユニークユーザー数
}

func (e *TooFewUsersError) Error() string {
	return fmt.Sprintf("at least 2 unique usernames are required, got %d", e.Count)
}

// APIError は統一エラーフォーマットに変換する。
func (e *TooFewUsersError) APIError() *APIError {
	return &APIError{
		Code:     ErrCodeTooFewUsers,
		Message:  fmt.Sprintf("At least 2 unique usernames are required (got %d after deduplication).", e.Count),
		Category: "validation",
		Action:   "Supply two or more distinct usernames in the path, like /UserA/UserB.",
	}
}

// InvalidUsernameError は形式不正のユーザー名に対する失敗。
// 英数字のみ・20文字以下という制約を元の（大文字小文字を畳む前の）文字列で検査する。
type InvalidUsernameError struct {
	Username string
}

func (e *InvalidUsernameError) Error() string {
	return fmt.Sprintf("invalid username: %q", e.Username)
}

// APIError は統一エラーフォーマットに変換する。
func (e *InvalidUsernameError) APIError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidUsername,
		Message:  fmt.Sprintf("Invalid username: %q.", e.Username),
		Category: "validation",
		Action:   "Usernames must be alphanumeric and at most 20 characters long.",
	}
}

// UnknownStatusError は6つの既知ステータスに解決できなかった場合の失敗。
// Allowedには受理されるステータス名をすべて含める。
type UnknownStatusError struct {
	Input   string
	Allowed []string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown status: %q", e.Input)
}

// APIError は統一エラーフォーマットに変換する。
func (e *UnknownStatusError) APIError() *APIError {
	return &APIError{
		Code:     ErrCodeUnknownStatus,
		Message:  fmt.Sprintf("Unknown status: %q.", e.Input),
		Category: "validation",
		Action:   fmt.Sprintf("Choose one of: %s.", strings.Join(e.Allowed, ", ")),
	}
}

// UserNotFoundError はアップストリームが404で返したユーザーに帰属された失敗。
// Usernamesは重複除去済み。
type UserNotFoundError struct {
	Usernames []string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user(s) not found: %s", strings.Join(e.Usernames, ", "))
}

// APIError は統一エラーフォーマットに変換する。
func (e *UserNotFoundError) APIError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("User(s) not found on AniList: %s.", strings.Join(e.Usernames, ", ")),
		Category: "compare",
		Action:   "Check the spelling of the usernames.",
	}
}

// EmptyListError はあるユーザーの選択ステータスのリストが空だった場合の失敗。
// Indexはリクエストで与えられた順序におけるユーザーの位置。
type EmptyListError struct {
	Index    int
	Username string
	Status   Status
}

func (e *EmptyListError) Error() string {
	return fmt.Sprintf("user %q (index %d) has no %s entries", e.Username, e.Index, e.Status)
}

// APIError は統一エラーフォーマットに変換する。
func (e *EmptyListError) APIError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyList,
		Message:  fmt.Sprintf("%s has no %s entries.", e.Username, e.Status),
		Category: "compare",
		Action:   "Pick another status or another user.",
	}
}
