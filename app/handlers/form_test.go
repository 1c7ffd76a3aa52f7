package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Rakhulsr/supplierhub/app/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	cases := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", "request body is empty"},
		{"syntax", `{"name":`, "invalid JSON"},
		{"type", `{"count":"three"}`, `invalid value for field "count"`},
		{"too large", `{"name":"` + strings.Repeat("x", maxJSONBodySize) + `"}`, "request body too large"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p payload
			err := DecodeJSON(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body)), &p)
			require.Error(t, err)
			var verr *helpers.ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), tc.want)
		})
	}

	var p payload
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"pump","count":2}`)), &p))
	assert.Equal(t, payload{Name: "pump", Count: 2}, p)
}

func TestURLList(t *testing.T) {
	got, err := urlList(json.RawMessage(`"http://a.test/x.png"`))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test/x.png"}, got)

	got, err = urlList(json.RawMessage(`["a","b"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	for _, raw := range []string{``, `null`, `42`, `{"url":"a"}`} {
		_, err := urlList(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}

func multipartRequest(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, ParseMultipart(httptest.NewRecorder(), r, 1<<20))
	return r
}

func TestFormHelpers(t *testing.T) {
	r := multipartRequest(t, map[string]string{"title": "", "price": " 12.50 ", "categoryId": "  ", "bad": "abc"})

	v, ok := formValue(r, "title")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	_, ok = formValue(r, "missing")
	assert.False(t, ok)

	require.NotNil(t, FormPtr(r, "title"))
	assert.Nil(t, FormPtr(r, "missing"))
	assert.Nil(t, optionalID(r, "categoryId"))

	price, err := formPrice(r, "price")
	require.NoError(t, err)
	assert.Equal(t, "12.5", price.String())

	price, err = formPrice(r, "missing")
	assert.NoError(t, err)
	assert.Nil(t, price)

	_, err = formPrice(r, "bad")
	var verr *helpers.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestParseMultipart_TooLarge(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("blob", strings.Repeat("x", 2<<20)))
	require.NoError(t, mw.Close())
	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	err := ParseMultipart(httptest.NewRecorder(), r, 1<<20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 1MB")
}
