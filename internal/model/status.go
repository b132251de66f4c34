// Package model はドメインモデルを定義する。
package model

import "strings"

// Status はAniListのリストステータスを表す閉じた列挙型。
// 小文字の表示名と大文字のワイヤー値（MediaListStatus）を持つ。
type Status int

const (
	StatusPlanning Status = iota
	StatusCurrent
	StatusCompleted
	StatusDropped
	StatusPaused
	StatusRepeating
)

// statusNames は列挙メンバー名（表示名）。Statusの値がインデックスになる。
var statusNames = [...]string{
	"planning",
	"current",
	"completed",
	"dropped",
	"paused",
	"repeating",
}

// statusWireValues はAniList APIに送るMediaListStatusのワイヤー値。
var statusWireValues = [...]string{
	"PLANNING",
	"CURRENT",
	"COMPLETED",
	"DROPPED",
	"PAUSED",
	"REPEATING",
}

// String は小文字の表示名を返す。
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// WireValue はGraphQLクエリ変数に渡す大文字のワイヤー値を返す。
func (s Status) WireValue() string {
	if s < 0 || int(s) >= len(statusWireValues) {
		return ""
	}
	return statusWireValues[s]
}

// StatusNames は受理される6つのステータス名を定義順で返す。
// エラーメッセージの列挙に使う。
func StatusNames() []string {
	names := make([]string, len(statusNames))
	copy(names, statusNames[:])
	return names
}

// ParseStatus はフリーテキストをステータスに解決する。
// メンバー名（ワイヤー値ではない）と大文字小文字を無視して照合し、
// 一致しない場合はUnknownStatusErrorを返す。
func ParseStatus(text string) (Status, error) {
	folded := strings.ToLower(text)
	for i, name := range statusNames {
		if folded == name {
			return Status(i), nil
		}
	}
	return 0, &UnknownStatusError{Input: text, Allowed: StatusNames()}
}
