package anilist

import "net/http"

// notFoundMessage はAniListがユーザー不在時に返すエラーメッセージ（完全一致で判定）。
const notFoundMessage = "User not found"

// MissingUsers はGraphQLエラーのうち「User not found」(404)をリクエストした
// ユーザー名に帰属させて返す。それ以外のエラーはここでは扱わない。
//
// 帰属はエラー位置の行番号から逆算する。クエリ本文はユーザーごとに固定行数の
// サブクエリブロックを並べた形なので、ヘッダー行数を引いてブロック行数で割れば
// ユーザーインデックスが得られる。複数のlocationが同じユーザーを指す場合は
// 重複して返る。重複除去は呼び出し側の責務。
func MissingUsers(errs []ResponseError, users []string) []string {
	var missing []string
	for _, e := range errs {
		if e.Message != notFoundMessage || e.Status != http.StatusNotFound {
			continue
		}
		for _, loc := range e.Locations {
			idx := userIndexForLine(loc.Line)
			if idx >= 0 && idx < len(users) {
				missing = append(missing, users[idx])
			}
		}
	}
	return missing
}

// userIndexForLine はクエリ本文の行番号（1始まり）から対象ユーザーの
// インデックスを逆算する。ヘッダー部分を指す行には-1を返す。
// 除数・オフセットはBuildQueryと同じテンプレートから導出された定数を使う。
func userIndexForLine(line int) int {
	offset := line - headerLineCount - 1
	if offset < 0 {
		return -1
	}
	return offset / blockLineCount
}
