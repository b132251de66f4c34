// Package compare はユーザー名の正規化、リストの集約、比較処理の
// オーケストレーションを提供する。
package compare

import (
	"strings"

	"github.com/hitoshi/anicmp/internal/model"
)

// maxUsernameLength はAniListのユーザー名の最大長。
const maxUsernameLength = 20

// NormalizeUsernames はリクエストされたユーザー名列を正規化して返す。
//   - 英数字のみ・20文字以下の制約は元の文字列で検査し、最初の違反で
//     InvalidUsernameErrorを返す
//   - 大文字小文字を畳んだうえで重複を除去する（初出順を保つ。
//     この順序がクエリビルダーのインデックスになる）
//   - 重複除去後に2人未満ならTooFewUsersErrorを返す
func NormalizeUsernames(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	users := make([]string, 0, len(raw))

	for _, name := range raw {
		if !isValidUsername(name) {
			return nil, &model.InvalidUsernameError{Username: name}
		}
		folded := strings.ToLower(name)
		if _, ok := seen[folded]; ok {
			continue
		}
		seen[folded] = struct{}{}
		users = append(users, folded)
	}

	if len(users) < 2 {
		return nil, &model.TooFewUsersError{Count: len(users)}
	}

	return users, nil
}

// isValidUsername は英数字のみ・1文字以上20文字以下かどうかを返す。
func isValidUsername(name string) bool {
	if len(name) == 0 || len(name) > maxUsernameLength {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
