package anilist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hitoshi/anicmp/internal/model"
)

// queryHeader はバッチクエリの先頭行。%sに変数宣言のリストが入る。
const queryHeader = "query (%s) {\n"

// subqueryBlock は1ユーザー分のエイリアス付きサブクエリ。
// %[1]sにエイリアス、%[2]sにユーザー名変数が入る。
//
// このテンプレートの行数はエラー位置からのユーザー帰属（userIndexForLine）の
// 除数になっている。行を増減する場合も定数は下で自動的に導出されるため、
// テンプレート以外を触る必要はない。
const subqueryBlock = `  %[1]s: MediaListCollection(userName: $%[2]s, status: $status, type: ANIME) {
    lists {
      entries {
        media {
          id
          title {
            romaji
            english
            native
          }
          siteUrl
        }
      }
    }
  }
`

// headerLineCount / blockLineCount はクエリ本文の行配置をエラーマッパーと
// 共有するための定数。テンプレート文字列そのものから導出する。
var (
	headerLineCount = strings.Count(queryHeader, "\n")
	blockLineCount  = strings.Count(subqueryBlock, "\n")
)

// Request はアップストリームに送る1回分のGraphQLリクエストボディ。
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// AliasFor はi番目のユーザーのサブクエリエイリアスを返す。
func AliasFor(i int) string {
	return "user" + strconv.Itoa(i)
}

// BuildQuery はN人分のユーザー取得を1往復にまとめたクエリを構築する。
// ユーザーは与えられた順に0..N-1のインデックスを持ち、同じ入力順に対して
// バイト単位で同一のクエリ本文を生成する（エラー帰属が行位置に依存するため）。
func BuildQuery(users []string, status model.Status) Request {
	decls := make([]string, 0, len(users)+1)
	for i := range users {
		decls = append(decls, fmt.Sprintf("$username%d: String", i))
	}
	decls = append(decls, "$status: MediaListStatus")

	variables := make(map[string]any, len(users)+1)

	var b strings.Builder
	fmt.Fprintf(&b, queryHeader, strings.Join(decls, ", "))
	for i, user := range users {
		varName := "username" + strconv.Itoa(i)
		fmt.Fprintf(&b, subqueryBlock, AliasFor(i), varName)
		variables[varName] = user
	}
	b.WriteString("}\n")

	variables["status"] = status.WireValue()

	return Request{Query: b.String(), Variables: variables}
}
