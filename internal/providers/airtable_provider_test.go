package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAirtableProvider_FetchRosterRows_WalksOffsets(t *testing.T) {
	page := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key123" {
			t.Errorf("Expected bearer auth, got %q", got)
		}
		page++
		switch page {
		case 1:
			if r.URL.Query().Get("offset") != "" {
				t.Error("First page must not carry an offset")
			}
			w.Write([]byte(`{"records":[{"id":"rec1","fields":{"Section":"Command","Member":"Alpha"}}],"offset":"next"}`))
		default:
			if r.URL.Query().Get("offset") != "next" {
				t.Errorf("Expected offset=next, got %q", r.URL.Query().Get("offset"))
			}
			w.Write([]byte(`{"records":[{"id":"rec2","fields":{"Section":"Operations","Member":"Bravo","Rating":"Senior"}}]}`))
		}
	}))
	defer server.Close()

	provider := &AirtableProvider{
		BaseURL:   server.URL,
		APIKey:    "key123",
		BaseID:    "appTest",
		TableName: "Roster",
		Client:    &http.Client{Timeout: time.Second},
	}

	rows, err := provider.FetchRosterRows(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows across pages, got %d", len(rows))
	}
	if rows[0].Section != "Command" || rows[0].Member != "Alpha" {
		t.Errorf("Unexpected first row: %+v", rows[0])
	}
	if rows[1].Rating != "Senior" {
		t.Errorf("Expected rating on second row, got %+v", rows[1])
	}
}

func TestAirtableProvider_FetchRosterRows_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	provider := &AirtableProvider{
		BaseURL:   server.URL,
		BaseID:    "appTest",
		TableName: "Roster",
		Client:    &http.Client{Timeout: time.Second},
	}

	if _, err := provider.FetchRosterRows(context.Background()); err == nil {
		t.Error("Expected error for unauthorized response")
	}
}
