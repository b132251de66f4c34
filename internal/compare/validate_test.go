package compare

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hitoshi/anicmp/internal/model"
)

func TestNormalizeUsernames_CaseFoldAndDedupe(t *testing.T) {
	users, err := NormalizeUsernames([]string{"Foo", "BAR", "foo"})
	if err != nil {
		t.Fatalf("NormalizeUsernames がエラーを返した: %v", err)
	}

	want := []string{"foo", "bar"}
	if !reflect.DeepEqual(users, want) {
		t.Errorf("users = %v, want %v", users, want)
	}
}

func TestNormalizeUsernames_CaseFoldCollapsesToOne(t *testing.T) {
	// "A"と"a"は畳むと同一ユーザーなのでTooFewUsersになる
	_, err := NormalizeUsernames([]string{"A", "a"})
	if err == nil {
		t.Fatal("ユニークユーザーが1人の場合はエラーが返されるべき")
	}

	var tooFew *model.TooFewUsersError
	if !errors.As(err, &tooFew) {
		t.Fatalf("TooFewUsersErrorであるべき: got %T", err)
	}
	if tooFew.Count != 1 {
		t.Errorf("Count = %d, want 1", tooFew.Count)
	}
}

func TestNormalizeUsernames_TooFewUsers_SingleInput(t *testing.T) {
	_, err := NormalizeUsernames([]string{"foo"})
	var tooFew *model.TooFewUsersError
	if !errors.As(err, &tooFew) {
		t.Fatalf("TooFewUsersErrorであるべき: got %T", err)
	}
}

func TestNormalizeUsernames_InvalidCharset(t *testing.T) {
	_, err := NormalizeUsernames([]string{"foo", "bad-name"})
	if err == nil {
		t.Fatal("英数字以外を含むユーザー名はエラーが返されるべき")
	}

	var invalid *model.InvalidUsernameError
	if !errors.As(err, &invalid) {
		t.Fatalf("InvalidUsernameErrorであるべき: got %T", err)
	}
	if invalid.Username != "bad-name" {
		t.Errorf("Username = %q, want \"bad-name\"", invalid.Username)
	}
}

func TestNormalizeUsernames_FirstOffenderReported(t *testing.T) {
	_, err := NormalizeUsernames([]string{"ok1", "ng!", "ng?"})
	var invalid *model.InvalidUsernameError
	if !errors.As(err, &invalid) {
		t.Fatalf("InvalidUsernameErrorであるべき: got %T", err)
	}
	if invalid.Username != "ng!" {
		t.Errorf("最初の違反が報告されるべき: got %q", invalid.Username)
	}
}

func TestNormalizeUsernames_LengthLimit(t *testing.T) {
	exactly20 := strings.Repeat("a", 20)
	users, err := NormalizeUsernames([]string{exactly20, "foo"})
	if err != nil {
		t.Fatalf("20文字のユーザー名は有効であるべき: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("users = %v, want 2件", users)
	}

	over := strings.Repeat("a", 21)
	_, err = NormalizeUsernames([]string{over, "foo"})
	var invalid *model.InvalidUsernameError
	if !errors.As(err, &invalid) {
		t.Fatalf("21文字のユーザー名はInvalidUsernameErrorであるべき: got %T", err)
	}
}

func TestNormalizeUsernames_EmptyString(t *testing.T) {
	_, err := NormalizeUsernames([]string{"", "foo"})
	var invalid *model.InvalidUsernameError
	if !errors.As(err, &invalid) {
		t.Fatalf("空文字のユーザー名はInvalidUsernameErrorであるべき: got %T", err)
	}
}

func TestNormalizeUsernames_LengthCheckedOnOriginal(t *testing.T) {
	// 検査対象は元の文字列。畳んだ後ではない。
	mixed := "AbCdEfGhIjKlMnOpQrSt" // 20文字
	users, err := NormalizeUsernames([]string{mixed, "foo"})
	if err != nil {
		t.Fatalf("NormalizeUsernames がエラーを返した: %v", err)
	}
	if users[0] != "abcdefghijklmnopqrst" {
		t.Errorf("users[0] = %q, want 畳んだ形", users[0])
	}
}

func TestNormalizeUsernames_PreservesFirstSeenOrder(t *testing.T) {
	users, err := NormalizeUsernames([]string{"charlie", "alpha", "bravo", "ALPHA"})
	if err != nil {
		t.Fatalf("NormalizeUsernames がエラーを返した: %v", err)
	}
	want := []string{"charlie", "alpha", "bravo"}
	if !reflect.DeepEqual(users, want) {
		t.Errorf("users = %v, want %v (初出順)", users, want)
	}
}
