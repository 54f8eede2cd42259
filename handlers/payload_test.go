package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/StellaShiina/ginadmin/admin"
)

type formPart struct {
	field, filename, value string
}

func multipartContext(t *testing.T, parts ...formPart) *gin.Context {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, p := range parts {
		if p.filename == "" {
			if err := mw.WriteField(p.field, p.value); err != nil {
				t.Fatal(err)
			}
			continue
		}
		fw, err := mw.CreateFormFile(p.field, p.filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(p.value))
	}
	mw.Close()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", &body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	return c
}

func TestParseMultipart(t *testing.T) {
	c := multipartContext(t,
		formPart{field: "title", value: "Hello"},
		formPart{field: "cover", filename: "cover.png", value: "PNG"},
	)
	payload := parsePayload(c, MultipartOptions{})

	if payload["title"] != "Hello" {
		t.Fatalf("title = %v", payload["title"])
	}
	file, ok := payload["cover.png"].(*admin.UploadedFile)
	if !ok {
		t.Fatalf("payload = %v, want file keyed by file name", payload)
	}
	if file.FieldName != "cover" || string(file.Data) != "PNG" {
		t.Fatalf("file = %+v", file)
	}
	if _, ok := payload["cover"]; ok {
		t.Fatal("file also keyed by field name")
	}
}

func TestParseMultipartLimits(t *testing.T) {
	tests := []struct {
		name  string
		opts  MultipartOptions
		parts []formPart
	}{
		{"file too large", MultipartOptions{MaxFileSize: 3}, []formPart{{field: "f", filename: "a.bin", value: "1234"}}},
		{"field too large", MultipartOptions{MaxFieldSize: 2}, []formPart{{field: "a", value: "abc"}}},
		{"too many files", MultipartOptions{MaxFiles: 1}, []formPart{{field: "f", filename: "a", value: "1"}, {field: "g", filename: "b", value: "2"}}},
		{"too many fields", MultipartOptions{MaxFields: 1}, []formPart{{field: "a", value: "1"}, {field: "b", value: "2"}}},
		{"too many parts", MultipartOptions{MaxParts: 1}, []formPart{{field: "a", value: "1"}, {field: "b", value: "2"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := multipartContext(t, tt.parts...)
			_, err := parseMultipart(c, tt.opts.withDefaults())
			if !errors.Is(err, errMultipartLimit) {
				t.Fatalf("err = %v, want errMultipartLimit", err)
			}
		})
	}
}

func TestParsePayloadFallsBack(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        map[string]any
	}{
		{"form", "application/x-www-form-urlencoded", "a=1", map[string]any{"a": "1"}},
		{"json", "application/json", `{"a":"1","b":true}`, map[string]any{"a": "1", "b": true}},
		{"bad json", "application/json", `{`, map[string]any{}},
		{"no body", "", "", map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				c.Request.Header.Set("Content-Type", tt.contentType)
			}
			got := parsePayload(c, MultipartOptions{})
			if len(got) != len(tt.want) {
				t.Fatalf("payload = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Fatalf("payload[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}
