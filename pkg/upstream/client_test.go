package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/shoppingcart/pkg/errors"
)

func TestGetJSONForwardsTokenAndDecodes(t *testing.T) {
	var capturedURL string
	var capturedAuth string

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedAuth = req.Header.Get("Authorization")
		return jsonResponse(http.StatusOK, `{"name":"Tacos"}`), nil
	})

	client, err := New("products", "http://products.test/", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx := WithBearerToken(context.Background(), "tok-1")
	var out struct {
		Name string `json:"name"`
	}
	if err := client.GetJSON(ctx, "/api/products/prices", url.Values{"ids": {"1,2"}}, &out); err != nil {
		t.Fatalf("get json: %v", err)
	}
	if capturedURL != "http://products.test/api/products/prices?ids=1%2C2" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer forwarding, got %q", capturedAuth)
	}
	if out.Name != "Tacos" {
		t.Fatalf("unexpected decoded body %+v", out)
	}
}

func TestGetJSONStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantErr  error
		wantCode pkgerrors.Code
	}{
		{name: "partial", status: http.StatusPartialContent, wantErr: ErrPartialContent},
		{name: "not found", status: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "server error", status: http.StatusBadGateway, wantCode: pkgerrors.CodeDependency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := roundTripFunc(func(*http.Request) (*http.Response, error) {
				return jsonResponse(tt.status, `{}`), nil
			})
			client, err := New("users", "http://users.test", WithHTTPClient(&http.Client{Transport: rt}))
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			err = client.GetJSON(context.Background(), "x", nil, &struct{}{})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantCode != "" && !pkgerrors.IsCode(err, tt.wantCode) {
				t.Fatalf("expected code %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestGetJSONTransportAndDecodeFailures(t *testing.T) {
	failing := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	client, _ := New("restaurants", "http://restaurants.test", WithHTTPClient(&http.Client{Transport: failing}))
	if err := client.GetJSON(context.Background(), "x", nil, nil); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	garbage := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{not json`), nil
	})
	client, _ = New("restaurants", "http://restaurants.test", WithHTTPClient(&http.Client{Transport: garbage}))
	if err := client.GetJSON(context.Background(), "x", nil, &struct{}{}); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error on bad body, got %v", err)
	}
}

func TestNewValidatesBaseURL(t *testing.T) {
	if _, err := New("products", "  "); err == nil {
		t.Fatal("expected empty base url to fail")
	}
	if _, err := New("products", "not a url"); err == nil {
		t.Fatal("expected relative base url to fail")
	}
}

func TestJoinIDs(t *testing.T) {
	if got := JoinIDs([]int{3, 1, 2}); got != "3,1,2" {
		t.Fatalf("unexpected join %q", got)
	}
	if got := JoinIDs(nil); got != "" {
		t.Fatalf("expected empty join, got %q", got)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": {"application/json"}},
	}
}
