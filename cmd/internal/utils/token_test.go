package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := NewAccessToken("some-sub-uuid", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	data, err := ParseTokenData(token)
	if err != nil {
		t.Fatal(err)
	}
	if data.Sub != "some-sub-uuid" {
		t.Fatalf("Sub = %q", data.Sub)
	}
}

func TestParseTokenDataRejectsBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	expired, err := NewAccessToken("some-sub-uuid", -time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseTokenData(expired); err == nil {
		t.Error("expected expired token to be rejected")
	}

	t.Setenv("JWT_SECRET", "another-secret")
	valid, err := NewAccessToken("some-sub-uuid", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("JWT_SECRET", "test-secret")
	if _, err := ParseTokenData(valid); err == nil {
		t.Error("expected token signed with a different secret to be rejected")
	}

	if _, err := ParseTokenData("not.a.token"); err == nil {
		t.Error("expected garbage to be rejected")
	}
}

func TestParseTokenDataCtx(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := NewAccessToken("some-sub-uuid", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	c := e.NewContext(req, httptest.NewRecorder())

	data, err := ParseTokenDataCtx(c)
	if err != nil {
		t.Fatal(err)
	}
	if data.Sub != "some-sub-uuid" {
		t.Fatalf("Sub = %q", data.Sub)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	if _, err := ParseTokenDataCtx(c); err == nil {
		t.Error("expected missing header to be rejected")
	}
}
