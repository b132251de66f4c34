package compare

import (
	"sort"

	"github.com/hitoshi/anicmp/internal/anilist"
	"github.com/hitoshi/anicmp/internal/model"
)

// Aggregate はアップストリームのレスポンスを集約し、全ユーザーに共通する
// 作品のマップ（メディアID→エントリ）を返す。
//
// ユーザーブロックはusersに与えられた順に検査する。ブロックが欠落
// （null）またはリスト群が空の場合、最初の該当ユーザーに対する
// EmptyListErrorを返す。共通作品が1つもない空マップは正常な結果。
//
// 同じメディアIDは全ユーザーで同内容のデータを指すため、どのユーザーの
// エントリを採用しても等価（コピーせず共有する）。
func Aggregate(resp *anilist.Response, users []string, status model.Status) (map[int]model.MediaEntry, error) {
	perUser := make([]map[int]model.MediaEntry, 0, len(users))

	for i, user := range users {
		collection := resp.Data[anilist.AliasFor(i)]
		if collection == nil || len(collection.Lists) == 0 {
			return nil, &model.EmptyListError{Index: i, Username: user, Status: status}
		}
		perUser = append(perUser, restructure(collection.Lists[0].Entries))
	}

	// 先頭ユーザーのマップから、他のユーザーに無いIDを順に落としていく
	common := perUser[0]
	for _, entries := range perUser[1:] {
		for id := range common {
			if _, ok := entries[id]; !ok {
				delete(common, id)
			}
		}
	}

	return common, nil
}

// restructure は1ユーザー分のエントリ列をメディアIDをキーとする
// マップに組み替える。IDは1ユーザーのリスト内で一意。
func restructure(entries []anilist.ListEntry) map[int]model.MediaEntry {
	m := make(map[int]model.MediaEntry, len(entries))
	for _, e := range entries {
		m[e.Media.ID] = e.Media
	}
	return m
}

// SortedEntries はマップの値をメディアID昇順で返す。
// 表示の再現性のため、プレゼンテーション層はこの順序を使う。
func SortedEntries(entries map[int]model.MediaEntry) []model.MediaEntry {
	sorted := make([]model.MediaEntry, 0, len(entries))
	for _, e := range entries {
		sorted = append(sorted, e)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
