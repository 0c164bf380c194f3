package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPEmailSender_UnconfiguredSimulates(t *testing.T) {
	s := NewHTTPEmailSender(EmailConfig{Endpoint: "http://localhost:0"})
	err := s.Send(EmailMessage{ToEmail: "bob@example.com", Subject: "hi"})
	require.NoError(t, err)
}

func TestHTTPEmailSender_PostsTemplateParams(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewHTTPEmailSender(EmailConfig{
		Endpoint:   srv.URL,
		ServiceID:  "svc",
		TemplateID: "tpl",
		PublicKey:  "key",
	})
	err := s.Send(EmailMessage{ToName: "bob", ToEmail: "bob@example.com", Subject: "hi", Body: "text"})
	require.NoError(t, err)

	require.Equal(t, "svc", got["service_id"])
	params, ok := got["template_params"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "bob@example.com", params["to_email"])
	require.Equal(t, "hi", params["subject"])
}

func TestHTTPEmailSender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewHTTPEmailSender(EmailConfig{
		Endpoint:   srv.URL,
		ServiceID:  "svc",
		TemplateID: "tpl",
		PublicKey:  "key",
	})
	err := s.Send(EmailMessage{ToEmail: "bob@example.com"})
	require.Error(t, err)
}
