package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"guard-collective/gatekeeper/internal/constants"
	"guard-collective/gatekeeper/internal/models/dtos"
)

func testRobloxProvider(serverURL string) *RobloxProvider {
	return &RobloxProvider{
		UsersBaseURL:     serverURL,
		FriendsBaseURL:   serverURL,
		InventoryBaseURL: serverURL,
		BadgesBaseURL:    serverURL,
		GroupsBaseURL:    serverURL,
		Client:           &http.Client{},
		RequestTimeout:   time.Second,
		pageLimiter:      rate.NewLimiter(rate.Inf, 1),
	}
}

func TestRobloxProvider_LookupUserID_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/usernames/users" {
			t.Errorf("Expected path /usernames/users, got %s", r.URL.Path)
		}

		var req dtos.UsernameLookupReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Usernames) != 1 || req.Usernames[0] != "Foo" {
			t.Errorf("Expected batch-of-one [Foo], got %v", req.Usernames)
		}

		json.NewEncoder(w).Encode(dtos.UsernameLookupResp{
			Data: []dtos.UsernameLookupEntry{{ID: 12345, Name: "Foo"}},
		})
	}))
	defer server.Close()

	provider := testRobloxProvider(server.URL)

	id, err := provider.LookupUserID(context.Background(), "Foo")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if id != 12345 {
		t.Errorf("Expected id 12345, got %d", id)
	}
}

func TestRobloxProvider_LookupUserID_NotFoundIsDistinct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(dtos.UsernameLookupResp{Data: nil})
	}))
	defer server.Close()

	provider := testRobloxProvider(server.URL)

	_, err := provider.LookupUserID(context.Background(), "ghost")
	if err == nil {
		t.Fatal("Expected error for unknown username")
	}
	if !IsNotFound(err) {
		t.Errorf("Expected NotFound kind, got %v", err)
	}
}

func TestRobloxProvider_LookupUserID_ServiceErrorIsNotNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := testRobloxProvider(server.URL)

	_, err := provider.LookupUserID(context.Background(), "Foo")
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
	if IsNotFound(err) {
		t.Error("Expected service error, not NotFound")
	}
	pe, ok := AsProviderError(err)
	if !ok || pe.Kind != constants.ErrKindServiceError {
		t.Errorf("Expected ServiceError kind, got %v", err)
	}
}

func TestRobloxProvider_FetchUserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/12345" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(dtos.UserInfoResp{
			ID:      12345,
			Name:    "Foo",
			Created: "2019-03-01T10:00:00Z",
		})
	}))
	defer server.Close()

	provider := testRobloxProvider(server.URL)

	name, created, err := provider.FetchUserInfo(context.Background(), 12345)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if name != "Foo" {
		t.Errorf("Expected name Foo, got %s", name)
	}
	if created.Year() != 2019 || created.Month() != time.March {
		t.Errorf("Unexpected created time %v", created)
	}
}

func TestRobloxProvider_FetchUserInfo_MissingFieldsIsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 12345}`))
	}))
	defer server.Close()

	provider := testRobloxProvider(server.URL)

	_, _, err := provider.FetchUserInfo(context.Background(), 12345)
	pe, ok := AsProviderError(err)
	if !ok || pe.Kind != constants.ErrKindServiceError {
		t.Errorf("Expected ServiceError for missing fields, got %v", err)
	}
}

func TestRobloxProvider_FetchSocialCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/12345/followers/count" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(dtos.SocialCountResp{Count: 42})
	}))
	defer server.Close()

	provider := testRobloxProvider(server.URL)

	count, err := provider.FetchSocialCount(context.Background(), 12345, "followers")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if count != 42 {
		t.Errorf("Expected 42, got %d", count)
	}
}

func TestRobloxProvider_FetchBadges_WalksCursorPages(t *testing.T) {
	pages := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		if got := r.URL.Query().Get("limit"); got != "100" {
			t.Errorf("Expected limit=100, got %s", got)
		}

		switch r.URL.Query().Get("cursor") {
		case "":
			json.NewEncoder(w).Encode(dtos.BadgesResp{
				Data: []dtos.BadgeItem{
					{Name: "First", Created: "2020-01-01T00:00:00Z"},
					{Name: "NoTimestamp"},
				},
				NextPageCursor: "page2",
			})
		case "page2":
			json.NewEncoder(w).Encode(dtos.BadgesResp{
				Data: []dtos.BadgeItem{
					{Name: "Second", Created: "2020-06-01T00:00:00Z"},
				},
			})
		default:
			t.Errorf("Unexpected cursor %s", r.URL.Query().Get("cursor"))
		}
	}))
	defer server.Close()

	provider := testRobloxProvider(server.URL)

	badges, count, err := provider.FetchBadges(context.Background(), 12345)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if pages != 2 {
		t.Errorf("Expected 2 pages fetched, got %d", pages)
	}
	// items without a creation timestamp still count, but are not collected
	if count != 3 {
		t.Errorf("Expected total count 3, got %d", count)
	}
	if len(badges) != 2 {
		t.Fatalf("Expected 2 collected badges, got %d", len(badges))
	}
	if badges[0].Name != "First" || badges[1].Name != "Second" {
		t.Errorf("Unexpected badges %v", badges)
	}
}

func TestRobloxProvider_FetchBadges_PageFailureReturnsPartial(t *testing.T) {
	pages := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		if r.URL.Query().Get("cursor") == "" {
			json.NewEncoder(w).Encode(dtos.BadgesResp{
				Data:           []dtos.BadgeItem{{Name: "First", Created: "2020-01-01T00:00:00Z"}},
				NextPageCursor: "page2",
			})
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := testRobloxProvider(server.URL)

	badges, count, err := provider.FetchBadges(context.Background(), 12345)
	if err == nil {
		t.Fatal("Expected error from failed second page")
	}
	if count != 1 || len(badges) != 1 {
		t.Errorf("Expected partial result preserved, got count=%d badges=%d", count, len(badges))
	}
}

func TestRobloxProvider_PerRequestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(dtos.SocialCountResp{Count: 1})
	}))
	defer server.Close()

	provider := testRobloxProvider(server.URL)
	provider.RequestTimeout = 50 * time.Millisecond

	_, err := provider.FetchSocialCount(context.Background(), 12345, "friends")
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	pe, ok := AsProviderError(err)
	if !ok || pe.Kind != constants.ErrKindTimeout {
		t.Errorf("Expected Timeout kind, got %v", err)
	}
}

func TestRobloxProvider_FetchGroupRoles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/12345/groups/roles" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":[{"group":{"id":7,"name":"Main Guard"},"role":{"name":"Officer"}}]}`))
	}))
	defer server.Close()

	provider := testRobloxProvider(server.URL)

	entries, err := provider.FetchGroupRoles(context.Background(), 12345)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(entries) != 1 || entries[0].Group.ID != 7 || entries[0].Role.Name != "Officer" {
		t.Errorf("Unexpected entries %+v", entries)
	}
}
