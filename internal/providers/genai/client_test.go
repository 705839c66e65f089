package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestEditImageDecodesInlineData(t *testing.T) {
	want := testPNG(t, 32, 48)
	var gotBody geminiGenerateContentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		resp := geminiGenerateContentResponse{
			Candidates: []geminiCandidate{{
				Content: geminiContent{Parts: []geminiPart{{
					InlineData: &geminiInlineData{
						MimeType: "image/png",
						Data:     base64.StdEncoding.EncodeToString(want),
					},
				}}},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL, HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	asset, err := client.EditImage(context.Background(), ImageRequest{
		Prompt:     "make it happy",
		RequestID:  "req-1",
		SourceData: []byte("src"),
		SourceMIME: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("edit image: %v", err)
	}
	if !bytes.Equal(asset.Data, want) {
		t.Fatal("asset data mismatch")
	}
	if asset.Format != "image/png" {
		t.Fatalf("format = %q, want image/png", asset.Format)
	}
	if asset.Width != 32 || asset.Height != 48 {
		t.Fatalf("dimensions = %dx%d, want 32x48", asset.Width, asset.Height)
	}

	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected request shape: %#v", gotBody)
	}
	if gotBody.Contents[0].Parts[0].InlineData == nil {
		t.Fatal("source image not sent inline")
	}
	if gotBody.Contents[0].Parts[1].Text != "make it happy" {
		t.Fatalf("prompt = %q", gotBody.Contents[0].Parts[1].Text)
	}
}

func TestEditImageReturnsAPIErrorWithMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exhausted"}}`))
	}))
	defer srv.Close()

	client, err := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL, HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.EditImage(context.Background(), ImageRequest{Prompt: "x", SourceData: []byte("src")})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests || apiErr.Message != "quota exhausted" {
		t.Fatalf("unexpected api error: %#v", apiErr)
	}
}

func TestEditImageNoImageContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := geminiGenerateContentResponse{
			Candidates: []geminiCandidate{{
				Content: geminiContent{Parts: []geminiPart{{Text: "sorry, text only"}}},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL, HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.EditImage(context.Background(), ImageRequest{Prompt: "x"}); err == nil {
		t.Fatal("expected error for image-free response")
	}
}

func TestEditImageKeylessSyntheticIsDeterministic(t *testing.T) {
	client, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	req := ImageRequest{Prompt: "make it sad", SourceData: []byte("src"), SourceMIME: "image/jpeg"}

	first, err := client.EditImage(context.Background(), req)
	if err != nil {
		t.Fatalf("edit image: %v", err)
	}
	second, err := client.EditImage(context.Background(), req)
	if err != nil {
		t.Fatalf("edit image: %v", err)
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Fatal("synthetic output not deterministic")
	}
	if _, _, err := image.Decode(bytes.NewReader(first.Data)); err != nil {
		t.Fatalf("synthetic output not decodable: %v", err)
	}

	other, err := client.EditImage(context.Background(), ImageRequest{Prompt: "make it angry", SourceData: []byte("src")})
	if err != nil {
		t.Fatalf("edit image: %v", err)
	}
	if bytes.Equal(first.Data, other.Data) {
		t.Fatal("different prompts produced identical synthetic images")
	}
}
