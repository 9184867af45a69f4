package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"drmp-backend/internal/domain/apperr"
)

func newCtx() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var res Response
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return res
}

func TestOK_Envelope(t *testing.T) {
	c, rec := newCtx()
	if err := OK(c, map[string]int{"n": 1}); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	res := decode(t, rec)
	if res.Code != 200 || res.Message != "success" || res.Timestamp == 0 {
		t.Fatalf("envelope: %+v", res)
	}
}

func TestFail_BusinessErrorKeepsHTTP200(t *testing.T) {
	c, rec := newCtx()
	if err := Fail(c, apperr.ErrReceiptNumberExists); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("business errors ride HTTP 200, got %d", rec.Code)
	}
	res := decode(t, rec)
	if res.Code != apperr.ErrReceiptNumberExists.Code {
		t.Fatalf("code = %d, want %d", res.Code, apperr.ErrReceiptNumberExists.Code)
	}
}

func TestFail_StatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.ErrUnauthorized, http.StatusUnauthorized},
		{apperr.ErrInvalidToken, http.StatusUnauthorized},
		{apperr.ErrPermissionDenied, http.StatusForbidden},
		{apperr.ErrInvalidParameter, http.StatusBadRequest},
		{apperr.ErrCaseNotFound, http.StatusOK},
	}
	for _, tc := range tests {
		c, rec := newCtx()
		if err := Fail(c, tc.err); err != nil {
			t.Fatal(err)
		}
		if rec.Code != tc.want {
			t.Errorf("Fail(%v) status = %d, want %d", tc.err, rec.Code, tc.want)
		}
	}
}

func TestFail_UnknownErrorHidesDetail(t *testing.T) {
	c, rec := newCtx()
	if err := Fail(c, errors.New("pq: connection refused")); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	res := decode(t, rec)
	if res.Code != apperr.ErrSystem.Code || res.Message != apperr.ErrSystem.Message {
		t.Fatalf("internal detail leaked: %+v", res)
	}
}

func TestOKPage(t *testing.T) {
	c, rec := newCtx()
	if err := OKPage(c, []string{"a", "b"}, 42, 2, 20); err != nil {
		t.Fatal(err)
	}
	var res struct {
		Data PageData `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Data.Total != 42 || res.Data.Page != 2 || res.Data.Size != 20 {
		t.Fatalf("page data: %+v", res.Data)
	}
}
