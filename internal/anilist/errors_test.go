package anilist

import (
	"reflect"
	"testing"

	"github.com/hitoshi/anicmp/internal/model"
)

func notFoundAt(line int) ResponseError {
	return ResponseError{
		Message:   "User not found",
		Status:    404,
		Locations: []ErrorLocation{{Line: line, Column: 3}},
	}
}

func TestMissingUsers_RoundTrip(t *testing.T) {
	// クエリを実際に構築し、barのサブクエリブロックに対応する行位置の
	// 404エラーがbarだけに帰属されること
	users := []string{"foo", "bar", "baz"}
	req := BuildQuery(users, model.StatusCurrent)

	line := aliasLineOf(t, req.Query, AliasFor(1))
	missing := MissingUsers([]ResponseError{notFoundAt(line)}, users)

	if !reflect.DeepEqual(missing, []string{"bar"}) {
		t.Errorf("missing = %v, want [bar]", missing)
	}
}

func TestMissingUsers_EveryUserAttributable(t *testing.T) {
	users := []string{"foo", "bar", "baz"}
	req := BuildQuery(users, model.StatusPlanning)

	for i, user := range users {
		line := aliasLineOf(t, req.Query, AliasFor(i))
		missing := MissingUsers([]ResponseError{notFoundAt(line)}, users)
		if !reflect.DeepEqual(missing, []string{user}) {
			t.Errorf("行%dのエラーは%qに帰属されるべき: got %v", line, user, missing)
		}
	}
}

func TestMissingUsers_MultipleErrors(t *testing.T) {
	users := []string{"foo", "bar"}
	req := BuildQuery(users, model.StatusPlanning)

	errs := []ResponseError{
		notFoundAt(aliasLineOf(t, req.Query, AliasFor(0))),
		notFoundAt(aliasLineOf(t, req.Query, AliasFor(1))),
	}
	missing := MissingUsers(errs, users)
	if !reflect.DeepEqual(missing, []string{"foo", "bar"}) {
		t.Errorf("missing = %v, want [foo bar]", missing)
	}
}

func TestMissingUsers_DuplicateLocationsProduceDuplicates(t *testing.T) {
	// 重複除去は呼び出し側の責務なので、ここでは重複して返る
	users := []string{"foo", "bar"}
	req := BuildQuery(users, model.StatusPlanning)
	line := aliasLineOf(t, req.Query, AliasFor(0))

	err := ResponseError{
		Message:   "User not found",
		Status:    404,
		Locations: []ErrorLocation{{Line: line, Column: 3}, {Line: line + 1, Column: 5}},
	}
	missing := MissingUsers([]ResponseError{err}, users)
	if !reflect.DeepEqual(missing, []string{"foo", "foo"}) {
		t.Errorf("missing = %v, want [foo foo]", missing)
	}
}

func TestMissingUsers_IgnoresOtherMessages(t *testing.T) {
	users := []string{"foo", "bar"}
	errs := []ResponseError{
		{Message: "Internal error", Status: 500, Locations: []ErrorLocation{{Line: 2, Column: 3}}},
		{Message: "User not found", Status: 500, Locations: []ErrorLocation{{Line: 2, Column: 3}}},
		{Message: "user not found", Status: 404, Locations: []ErrorLocation{{Line: 2, Column: 3}}},
	}

	if missing := MissingUsers(errs, users); len(missing) != 0 {
		t.Errorf("メッセージ・ステータスが完全一致しないエラーは無視されるべき: got %v", missing)
	}
}

func TestMissingUsers_IgnoresOutOfRangeLines(t *testing.T) {
	users := []string{"foo", "bar"}

	errs := []ResponseError{
		notFoundAt(1),    // ヘッダー行
		notFoundAt(0),    // 不正な行番号
		notFoundAt(9999), // 範囲外
	}
	if missing := MissingUsers(errs, users); len(missing) != 0 {
		t.Errorf("範囲外の行位置は無視されるべき: got %v", missing)
	}
}

func TestUserIndexForLine_BlockInterior(t *testing.T) {
	// ブロック先頭以外の行（ブロック内部）も同じユーザーに帰属されること
	users := []string{"foo", "bar"}
	req := BuildQuery(users, model.StatusPlanning)

	start := aliasLineOf(t, req.Query, AliasFor(1))
	for line := start; line < start+blockLineCount; line++ {
		if idx := userIndexForLine(line); idx != 1 {
			t.Errorf("userIndexForLine(%d) = %d, want 1", line, idx)
		}
	}
}
