package model

// LocalizedTitle は作品タイトルの3表記を保持する。
// どの表記もAniList側でnullの場合がある。
type LocalizedTitle struct {
	Romaji  *string `json:"romaji"`
	English *string `json:"english"`
	Native  *string `json:"native"`
}

// MediaEntry は1作品のメディア情報を表す。
// アップストリームのレスポンスから構築された後は変更しない。
type MediaEntry struct {
	ID      int            `json:"id"`
	Title   LocalizedTitle `json:"title"`
	SiteURL string         `json:"siteUrl"`
}
