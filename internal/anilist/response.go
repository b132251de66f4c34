package anilist

import "github.com/hitoshi/anicmp/internal/model"

// Response はAniList GraphQL APIのレスポンス全体。
// 成功時はDataにエイリアス（user0, user1, ...）ごとのコレクションが入り、
// 失敗時（または部分失敗時）はErrorsが埋まる。
type Response struct {
	Data   map[string]*MediaListCollection `json:"data"`
	Errors []ResponseError                 `json:"errors,omitempty"`
}

// MediaListCollection は1ユーザー分のフィルタ済みリスト群。
// 選択ステータスのエントリが存在しない場合、Listsは空になる。
type MediaListCollection struct {
	Lists []MediaList `json:"lists"`
}

// MediaList はリストグループ1つ分のエントリ集合。
type MediaList struct {
	Entries []ListEntry `json:"entries"`
}

// ListEntry はリスト内の1エントリ。メディア情報のみを要求している。
type ListEntry struct {
	Media model.MediaEntry `json:"media"`
}

// ResponseError はGraphQLエラー1件。
// Locationsは生成クエリ本文中のエラー発生位置を指す。
type ResponseError struct {
	Message   string          `json:"message"`
	Status    int             `json:"status"`
	Locations []ErrorLocation `json:"locations"`
}

// ErrorLocation はクエリ本文中の位置（1始まり）。
type ErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}
