package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestExtractDeduplicatesAndSorts(t *testing.T) {
	body := `
		{mission_id: 103, reward: 5}
		{"missionId": "101"}
		register({mission_id:102});
		{mission_id: 103}
	`
	got := Extract(body)
	want := []int{101, 102, 103}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("extract = %v, want %v", got, want)
	}
}

func TestExtractNoMatchesIsEmptyNotNilError(t *testing.T) {
	if got := Extract("nothing interesting here"); len(got) != 0 {
		t.Fatalf("expected empty set, got %v", got)
	}
}

func TestAssetProviderFetches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`missions=[{mission_id:7},{mission_id:3}]`))
	}))
	defer srv.Close()

	p := NewAssetProvider(srv.Client(), srv.URL)
	got, err := p.Targets(context.Background())
	if err != nil {
		t.Fatalf("targets failed: %v", err)
	}
	if !reflect.DeepEqual(got, []int{3, 7}) {
		t.Fatalf("targets = %v, want [3 7]", got)
	}
}

func TestAssetProviderStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewAssetProvider(srv.Client(), srv.URL)
	if _, err := p.Targets(context.Background()); err == nil {
		t.Fatal("5xx asset fetch should be an error")
	}
}

func TestStaticProvider(t *testing.T) {
	got, err := Static{5, 1, 5, 3}.Targets(context.Background())
	if err != nil {
		t.Fatalf("static targets failed: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 3, 5}) {
		t.Fatalf("targets = %v, want [1 3 5]", got)
	}
}
