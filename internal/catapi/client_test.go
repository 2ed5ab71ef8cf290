package catapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func searchServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestLocateSelectsLastCandidate(t *testing.T) {
	srv, hits := searchServer(t, http.StatusOK,
		`[{"id":"a","url":"https://x/a.jpg","width":10,"height":20},{"id":"b","url":"https://x/b.jpg"}]`)

	client := NewClient(WithSearchURL(srv.URL))
	got, err := client.Locate(context.Background())
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}

	want := Descriptor{ID: "b", URL: "https://x/b.jpg"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("search hits = %d, want 1", n)
	}
}

func TestLocateIsDeterministic(t *testing.T) {
	srv, _ := searchServer(t, http.StatusOK, `[{"url":"https://x/1.png"},{"url":"https://x/2.png"},{"url":"https://x/3.png"}]`)
	client := NewClient(WithSearchURL(srv.URL))

	for i := 0; i < 5; i++ {
		got, err := client.Locate(context.Background())
		if err != nil {
			t.Fatalf("Locate #%d: %v", i, err)
		}
		if got.URL != "https://x/3.png" {
			t.Fatalf("Locate #%d picked %q", i, got.URL)
		}
	}
}

func TestLocateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"empty array", http.StatusOK, `[]`, ErrNoResult},
		{"service unavailable", http.StatusServiceUnavailable, `down`, ErrHTTPStatus},
		{"not found", http.StatusNotFound, ``, ErrHTTPStatus},
		{"not json", http.StatusOK, `<html>`, ErrDecode},
		{"object instead of array", http.StatusOK, `{"url":"https://x/a.jpg"}`, ErrDecode},
		{"null", http.StatusOK, `null`, ErrDecode},
		{"trailing garbage", http.StatusOK, `[] garbage`, ErrDecode},
		{"two arrays", http.StatusOK, `[{"url":"https://x/a.jpg"}][]`, ErrDecode},
		{"missing url", http.StatusOK, `[{"id":"a"}]`, ErrDecode},
		{"url wrong type", http.StatusOK, `[{"url":42}]`, ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := searchServer(t, tt.status, tt.body)
			client := NewClient(WithSearchURL(srv.URL))

			_, err := client.Locate(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("Locate error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLocateStatusErrorCarriesCode(t *testing.T) {
	srv, _ := searchServer(t, http.StatusServiceUnavailable, "try later")
	client := NewClient(WithSearchURL(srv.URL))

	_, err := client.Locate(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", statusErr.StatusCode)
	}
	if statusErr.Body != "try later" {
		t.Errorf("Body = %q", statusErr.Body)
	}
}

func TestLocateNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(WithSearchURL(url))
	_, err := client.Locate(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("Locate error = %v, want ErrNetwork", err)
	}
}

func TestLocateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := NewClient(WithSearchURL(srv.URL), WithTimeout(50*time.Millisecond))
	_, err := client.Locate(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("Locate error = %v, want ErrNetwork", err)
	}
}

func TestLocateSendsAPIKey(t *testing.T) {
	var gotKey, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`[{"url":"https://x/a.jpg"}]`))
	}))
	defer srv.Close()

	client := NewClient(WithSearchURL(srv.URL), WithAPIKey("secret"))
	if _, err := client.Locate(context.Background()); err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if gotKey != "secret" {
		t.Errorf("x-api-key = %q, want secret", gotKey)
	}
	if gotAgent != userAgent {
		t.Errorf("User-Agent = %q", gotAgent)
	}
}

func TestLocateCustomSelector(t *testing.T) {
	srv, _ := searchServer(t, http.StatusOK, `[{"url":"https://x/a.jpg"},{"url":"https://x/b.jpg"}]`)
	first := SelectorFunc(func(c []Descriptor) (Descriptor, bool) {
		if len(c) == 0 {
			return Descriptor{}, false
		}
		return c[0], true
	})

	client := NewClient(WithSearchURL(srv.URL), WithSelector(first))
	got, err := client.Locate(context.Background())
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got.URL != "https://x/a.jpg" {
		t.Errorf("picked %q, want a.jpg", got.URL)
	}
}

func TestFetch(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.jpg":
			w.Write(payload)
		case "/big.jpg":
			w.Write(bytes.Repeat([]byte{1}, 4096))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(WithMaxImageBytes(2048))

	t.Run("ok", func(t *testing.T) {
		got, err := client.Fetch(context.Background(), srv.URL+"/ok.jpg")
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("Fetch returned %d bytes, want %d", len(got), len(payload))
		}
	})

	t.Run("too large", func(t *testing.T) {
		_, err := client.Fetch(context.Background(), srv.URL+"/big.jpg")
		if !errors.Is(err, ErrTooLarge) {
			t.Fatalf("Fetch error = %v, want ErrTooLarge", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.Fetch(context.Background(), srv.URL+"/missing.jpg")
		var statusErr *StatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
			t.Fatalf("Fetch error = %v, want 404 StatusError", err)
		}
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := client.Fetch(context.Background(), "://nope")
		if err == nil {
			t.Fatal("expected error for malformed url")
		}
	})
}

func TestFetchDoesNotSendAPIKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		w.Write([]byte("img"))
	}))
	defer srv.Close()

	client := NewClient(WithAPIKey("secret"))
	if _, err := client.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotKey != "" {
		t.Errorf("image request leaked api key %q", gotKey)
	}
}
