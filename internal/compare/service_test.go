package compare

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/hitoshi/anicmp/internal/anilist"
	"github.com/hitoshi/anicmp/internal/model"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// fakeFetcher は固定のレスポンス（またはエラー）を返すListFetcher。
// 受け取ったリクエストを記録する。
type fakeFetcher struct {
	resp    *anilist.Response
	err     error
	lastReq anilist.Request
}

func (f *fakeFetcher) FetchLists(_ context.Context, req anilist.Request) (*anilist.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

// fakeOutcomes はOutcomeRecorderの呼び出しを記録するテストダブル。
type fakeOutcomes struct {
	outcomes []string
	counts   []int
}

func (f *fakeOutcomes) RecordCompareOutcome(outcome string) { f.outcomes = append(f.outcomes, outcome) }

func (f *fakeOutcomes) RecordCommonEntries(count int) { f.counts = append(f.counts, count) }

// notFoundLineFor は生成済みクエリ本文からi番目のユーザーのエイリアス行を探す。
func notFoundLineFor(t *testing.T, query string, i int) int {
	t.Helper()
	alias := anilist.AliasFor(i)
	for n, line := range strings.Split(query, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), alias+":") {
			return n + 1
		}
	}
	t.Fatalf("エイリアス%qがクエリ本文に見つからない", alias)
	return 0
}

func TestService_Compare_Success(t *testing.T) {
	var buf bytes.Buffer
	fetcher := &fakeFetcher{resp: responseFor(collection(3, 1, 2), collection(2, 3, 9))}
	rec := &fakeOutcomes{}
	s := NewService(fetcher, newTestLogger(&buf), rec)

	result, err := s.Compare(context.Background(), []string{"Foo", "Bar"}, "planning")
	if err != nil {
		t.Fatalf("Compare がエラーを返した: %v", err)
	}

	if !reflect.DeepEqual(result.Users, []string{"foo", "bar"}) {
		t.Errorf("Users = %v, want [foo bar] (畳んだ形)", result.Users)
	}
	if result.Status != model.StatusPlanning {
		t.Errorf("Status = %v, want StatusPlanning", result.Status)
	}

	// 共通は2と3。ID昇順で返る。
	if len(result.Entries) != 2 {
		t.Fatalf("Entries = %d件, want 2件", len(result.Entries))
	}
	if result.Entries[0].ID != 2 || result.Entries[1].ID != 3 {
		t.Errorf("EntriesはID昇順であるべき: got [%d %d]", result.Entries[0].ID, result.Entries[1].ID)
	}

	if !reflect.DeepEqual(rec.outcomes, []string{"success"}) {
		t.Errorf("outcomes = %v, want [success]", rec.outcomes)
	}
	if !reflect.DeepEqual(rec.counts, []int{2}) {
		t.Errorf("counts = %v, want [2]", rec.counts)
	}
}

func TestService_Compare_SendsWireStatus(t *testing.T) {
	var buf bytes.Buffer
	fetcher := &fakeFetcher{resp: responseFor(collection(1), collection(1))}
	s := NewService(fetcher, newTestLogger(&buf), nil)

	if _, err := s.Compare(context.Background(), []string{"foo", "bar"}, "Repeating"); err != nil {
		t.Fatalf("Compare がエラーを返した: %v", err)
	}

	if got := fetcher.lastReq.Variables["status"]; got != "REPEATING" {
		t.Errorf("status変数 = %v, want REPEATING", got)
	}
	if got := fetcher.lastReq.Variables["username0"]; got != "foo" {
		t.Errorf("username0 = %v, want foo", got)
	}
}

func TestService_Compare_ValidationFailuresSkipFetch(t *testing.T) {
	var buf bytes.Buffer
	fetcher := &fakeFetcher{resp: responseFor(collection(1), collection(1))}
	s := NewService(fetcher, newTestLogger(&buf), nil)

	_, err := s.Compare(context.Background(), []string{"A", "a"}, "planning")
	var tooFew *model.TooFewUsersError
	if !errors.As(err, &tooFew) {
		t.Fatalf("TooFewUsersErrorであるべき: got %T", err)
	}
	if fetcher.lastReq.Query != "" {
		t.Error("検証失敗時はアップストリームを呼ばないべき")
	}

	_, err = s.Compare(context.Background(), []string{"foo", "bar"}, "watching")
	var unknown *model.UnknownStatusError
	if !errors.As(err, &unknown) {
		t.Fatalf("UnknownStatusErrorであるべき: got %T", err)
	}
}

func TestService_Compare_AttributesNotFoundUser(t *testing.T) {
	// ["ab","cd","ab"]のうちcdが404 → cdだけが帰属される
	var buf bytes.Buffer

	// 2段階: まずクエリ本文を得るために一度構築し、その行位置でエラーを合成する
	users := []string{"ab", "cd"}
	req := anilist.BuildQuery(users, model.StatusPlanning)
	line := notFoundLineFor(t, req.Query, 1)

	fetcher := &fakeFetcher{resp: &anilist.Response{
		Errors: []anilist.ResponseError{{
			Message:   "User not found",
			Status:    404,
			Locations: []anilist.ErrorLocation{{Line: line, Column: 3}},
		}},
	}}
	rec := &fakeOutcomes{}
	s := NewService(fetcher, newTestLogger(&buf), rec)

	_, err := s.Compare(context.Background(), []string{"ab", "cd", "ab"}, "planning")
	var notFound *model.UserNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("UserNotFoundErrorであるべき: got %T", err)
	}
	if !reflect.DeepEqual(notFound.Usernames, []string{"cd"}) {
		t.Errorf("Usernames = %v, want [cd]", notFound.Usernames)
	}
	if !reflect.DeepEqual(rec.outcomes, []string{"user_not_found"}) {
		t.Errorf("outcomes = %v, want [user_not_found]", rec.outcomes)
	}
}

func TestService_Compare_DedupesAttributedUsers(t *testing.T) {
	var buf bytes.Buffer

	req := anilist.BuildQuery([]string{"foo", "bar"}, model.StatusPlanning)
	line := notFoundLineFor(t, req.Query, 0)

	fetcher := &fakeFetcher{resp: &anilist.Response{
		Errors: []anilist.ResponseError{{
			Message: "User not found",
			Status:  404,
			Locations: []anilist.ErrorLocation{
				{Line: line, Column: 3},
				{Line: line + 1, Column: 5},
			},
		}},
	}}
	s := NewService(fetcher, newTestLogger(&buf), nil)

	_, err := s.Compare(context.Background(), []string{"foo", "bar"}, "planning")
	var notFound *model.UserNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("UserNotFoundErrorであるべき: got %T", err)
	}
	if !reflect.DeepEqual(notFound.Usernames, []string{"foo"}) {
		t.Errorf("Usernamesは重複除去されるべき: got %v", notFound.Usernames)
	}
}

func TestService_Compare_UnattributableErrorIsGenericFailure(t *testing.T) {
	var buf bytes.Buffer
	fetcher := &fakeFetcher{resp: &anilist.Response{
		Errors: []anilist.ResponseError{{Message: "Internal server error", Status: 500}},
	}}
	s := NewService(fetcher, newTestLogger(&buf), nil)

	_, err := s.Compare(context.Background(), []string{"foo", "bar"}, "planning")
	if err == nil {
		t.Fatal("帰属できないエラーでも失敗が返されるべき")
	}
	var notFound *model.UserNotFoundError
	if errors.As(err, &notFound) {
		t.Error("UserNotFoundErrorであるべきではない")
	}
	if !strings.Contains(err.Error(), "Internal server error") {
		t.Errorf("エラーメッセージにアップストリームの内容が含まれるべき: %v", err)
	}
}

func TestService_Compare_EmptyListFailure(t *testing.T) {
	var buf bytes.Buffer
	empty := &anilist.MediaListCollection{}
	fetcher := &fakeFetcher{resp: responseFor(empty, collection(1))}
	rec := &fakeOutcomes{}
	s := NewService(fetcher, newTestLogger(&buf), rec)

	_, err := s.Compare(context.Background(), []string{"foo", "bar"}, "planning")
	var emptyErr *model.EmptyListError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("EmptyListErrorであるべき: got %T", err)
	}
	if emptyErr.Username != "foo" {
		t.Errorf("Username = %q, want \"foo\"", emptyErr.Username)
	}
	if !reflect.DeepEqual(rec.outcomes, []string{"empty_list"}) {
		t.Errorf("outcomes = %v, want [empty_list]", rec.outcomes)
	}
}

func TestService_Compare_FetchErrorIsWrapped(t *testing.T) {
	var buf bytes.Buffer
	cause := errors.New("connection refused")
	fetcher := &fakeFetcher{err: cause}
	s := NewService(fetcher, newTestLogger(&buf), nil)

	_, err := s.Compare(context.Background(), []string{"foo", "bar"}, "planning")
	if !errors.Is(err, cause) {
		t.Errorf("元のエラーがラップされているべき: got %v", err)
	}
}

func TestService_Compare_NoCommonEntriesIsSuccess(t *testing.T) {
	var buf bytes.Buffer
	fetcher := &fakeFetcher{resp: responseFor(collection(1), collection(2))}
	s := NewService(fetcher, newTestLogger(&buf), nil)

	result, err := s.Compare(context.Background(), []string{"foo", "bar"}, "planning")
	if err != nil {
		t.Fatalf("共通作品ゼロは正常な結果であるべき: %v", err)
	}
	if len(result.Entries) != 0 {
		t.Errorf("Entries = %d件, want 0件", len(result.Entries))
	}
}
