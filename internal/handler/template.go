package handler

import "html/template"

// comparePageHTML は比較結果ページのテンプレート。
// OpenGraphメタとテーブルの構成は旧サービスの出力を踏襲している。
const comparePageHTML = `<!DOCTYPE html>
<html prefix="og: https://ogp.me/ns#">
<head>
<meta charset="UTF-8" />
<title>anicmp</title>
<meta property="og:title" content="{{.UsersLabel}}'s mutual '{{.StatusName}}' AniList entries." />
<meta property="og:description" content="They have {{.Count}} mutual entries." />
<meta property="og:locale" content="en_GB" />
<meta property="og:type" content="website" />
</head>
<body>
{{- if .Rows}}
<table>
<thead>
<tr>
<th>Media ID</th>
{{- if .Columns.Romaji}}
<th>Romaji</th>
{{- end}}
{{- if .Columns.English}}
<th>English</th>
{{- end}}
{{- if .Columns.Native}}
<th>Japanese</th>
{{- end}}
{{- if .Columns.URL}}
<th>URL</th>
{{- end}}
</tr>
</thead>
<tbody>
{{- range .Rows}}
<tr>
<td>{{.ID}}</td>
{{- if $.Columns.Romaji}}
<td>{{.Romaji}}</td>
{{- end}}
{{- if $.Columns.English}}
<td>{{.English}}</td>
{{- end}}
{{- if $.Columns.Native}}
<td>{{.Native}}</td>
{{- end}}
{{- if $.Columns.URL}}
<td><a href="{{.SiteURL}}">AniList</a></td>
{{- end}}
</tr>
{{- end}}
</tbody>
</table>
{{- else}}
<p>No {{.StatusName}} anime in common :(</p>
{{- end}}
</body>
</html>
`

// comparePage はテンプレートに渡す表示データ。
type comparePage struct {
	UsersLabel string
	StatusName string
	Count      int
	Columns    columnSet
	Rows       []compareRow
}

// columnSet は表示するカラムの選択状態。
type columnSet struct {
	Romaji  bool
	English bool
	Native  bool
	URL     bool
}

// compareRow はテーブル1行分の表示データ。タイトルはサニタイズ済み。
type compareRow struct {
	ID      int
	Romaji  string
	English string
	Native  string
	SiteURL string
}

var pageTemplate = template.Must(template.New("compare").Parse(comparePageHTML))
