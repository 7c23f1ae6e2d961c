package gcs

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func newStubClient(transport roundTripFunc) *Client {
	return &Client{
		defaultBucket: "freshbrand-media",
		tokenSource: &tokenSource{fetch: func(context.Context) (string, time.Time, error) {
			return "token", time.Now().Add(time.Hour), nil
		}},
		httpClient: &http.Client{Transport: transport},
	}
}

func TestUploadSuccess(t *testing.T) {
	t.Parallel()

	client := newStubClient(func(req *http.Request) *http.Response {
		if req.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", req.Method)
		}
		if req.Header.Get("Authorization") != "Bearer token" {
			t.Fatalf("unexpected auth %s", req.Header.Get("Authorization"))
		}
		if req.Header.Get("Content-Type") != "image/png" {
			t.Fatalf("unexpected content type %s", req.Header.Get("Content-Type"))
		}
		if !strings.Contains(req.URL.String(), "uploadType=media") {
			t.Fatalf("expected media upload endpoint, got %s", req.URL)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"name":"designs/logo.png"}`)),
			Header:     http.Header{},
		}
	})

	url, err := client.BucketHandle("").Upload(context.Background(), "designs/logo.png", "image/png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://storage.googleapis.com/freshbrand-media/designs/logo.png" {
		t.Fatalf("unexpected object url %s", url)
	}
}

func TestUploadRejectsEmptyObject(t *testing.T) {
	t.Parallel()

	client := newStubClient(func(req *http.Request) *http.Response {
		t.Fatal("no request expected")
		return nil
	})
	if _, err := client.BucketHandle("").Upload(context.Background(), "", "image/png", nil); err == nil {
		t.Fatal("expected error for empty object name")
	}
}

func TestDeleteSuccess(t *testing.T) {
	t.Parallel()

	client := newStubClient(func(req *http.Request) *http.Response {
		if req.Method != http.MethodDelete {
			t.Fatalf("expected DELETE, got %s", req.Method)
		}
		if req.Header.Get("Authorization") != "Bearer token" {
			t.Fatalf("unexpected auth %s", req.Header.Get("Authorization"))
		}
		return &http.Response{
			StatusCode: http.StatusNoContent,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     http.Header{},
		}
	})

	if err := client.BucketHandle("").Delete(context.Background(), "designs/logo.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestDeleteNotFoundSucceeds(t *testing.T) {
	t.Parallel()

	client := newStubClient(func(req *http.Request) *http.Response {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     http.Header{},
		}
	})

	if err := client.BucketHandle("").Delete(context.Background(), "designs/missing.png"); err != nil {
		t.Fatalf("Delete of missing object should succeed: %v", err)
	}
}

func TestObjectNameFromURL(t *testing.T) {
	t.Parallel()

	got := ObjectNameFromURL("freshbrand-media", "https://storage.googleapis.com/freshbrand-media/designs/logo.png")
	if got != "designs/logo.png" {
		t.Fatalf("unexpected object name %q", got)
	}
	if got := ObjectNameFromURL("freshbrand-media", "https://storage.googleapis.com/other/obj"); got != "" {
		t.Fatalf("expected empty for foreign bucket, got %q", got)
	}
}
