package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"versioned", "https://res.cloudinary.com/demo/image/upload/v1234567890/blogs/abc123.jpg", "blogs/abc123", false},
		{"unversioned", "https://res.cloudinary.com/demo/image/upload/blogs/abc123.png", "blogs/abc123", false},
		{"no folder", "https://res.cloudinary.com/demo/image/upload/v99/abc.webp", "abc", false},
		{"not cloudinary", "https://example.com/a.jpg", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractPublicID(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("extractPublicID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("extractPublicID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateETag(t *testing.T) {
	id := primitive.NewObjectID()
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	a := GenerateETag(id, ts)
	if a != GenerateETag(id, ts) {
		t.Fatal("GenerateETag() not stable")
	}
	if a == GenerateETag(id, ts.Add(time.Second)) {
		t.Fatal("GenerateETag() should change with updatedAt")
	}
	if !strings.HasPrefix(a, `W/"`+id.Hex()) {
		t.Fatalf("GenerateETag() = %q", a)
	}
}

func TestNewZeptoMailerRequiresConfig(t *testing.T) {
	if _, err := NewZeptoMailer("", "key", "from@x.com"); err == nil {
		t.Fatal("NewZeptoMailer() expected error for missing url")
	}
}

func TestZeptoMailerSendEmail(t *testing.T) {
	var got emailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m, err := NewZeptoMailer(srv.URL, "Zoho-enczapikey test", "noreply@lifeline.org")
	if err != nil {
		t.Fatalf("NewZeptoMailer() error: %v", err)
	}
	if err := m.SendEmail(context.Background(), "r@x.com", "Rahim", "subj", "<p>hi</p>"); err != nil {
		t.Fatalf("SendEmail() error: %v", err)
	}
	if auth != "Zoho-enczapikey test" {
		t.Errorf("Authorization = %q", auth)
	}
	if got.From.Address != "noreply@lifeline.org" || len(got.To) != 1 || got.To[0].Email.Address != "r@x.com" {
		t.Errorf("payload = %+v", got)
	}
}

func TestZeptoMailerSendEmailRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	m, _ := NewZeptoMailer(srv.URL, "bad", "noreply@lifeline.org")
	if err := m.SendEmail(context.Background(), "r@x.com", "", "s", "b"); err == nil {
		t.Fatal("SendEmail() expected error on 401")
	}
}
