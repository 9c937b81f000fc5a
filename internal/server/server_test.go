package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-lineage/internal/config"
)

func TestHandler_NotReady(t *testing.T) {
	// A server that has never been updated must signal unavailability
	// rather than serving an empty body.
	srv := NewFeedServer(config.DefaultPort)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.handleFeedRequest(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, config.RetryAfterSeconds, rec.Header().Get(config.HeaderRetryAfter))
}

func TestHandler_ServingContent(t *testing.T) {
	srv := NewFeedServer(config.DefaultPort)
	feed := []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n")
	srv.Update(feed)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.handleFeedRequest(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, feed, rec.Body.Bytes())
	assert.Equal(t, config.MimeTextCalendar, rec.Header().Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, rec.Header().Get(config.HeaderXContentType))
	assert.NotEmpty(t, rec.Header().Get(config.HeaderETag))
	assert.NotEmpty(t, rec.Header().Get(config.HeaderLastModified))
}

func TestHandler_HeadOmitsBody(t *testing.T) {
	srv := NewFeedServer(config.DefaultPort)
	srv.Update([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"))

	req := httptest.NewRequest(http.MethodHead, "/", nil)
	rec := httptest.NewRecorder()
	srv.handleFeedRequest(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
	assert.NotEmpty(t, rec.Header().Get(config.HeaderETag))
}

func TestHandler_Caching_ETag(t *testing.T) {
	srv := NewFeedServer(config.DefaultPort)
	srv.Update([]byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"))

	// First request establishes the ETag.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.handleFeedRequest(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	etag := rec.Header().Get(config.HeaderETag)
	require.NotEmpty(t, etag)

	// A second request presenting the same ETag must yield 304.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(config.HeaderIfNoneMatch, etag)
	rec = httptest.NewRecorder()
	srv.handleFeedRequest(rec, req)

	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestHandler_Caching_ETagInvalidatedByUpdate(t *testing.T) {
	srv := NewFeedServer(config.DefaultPort)
	srv.Update([]byte("version one"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.handleFeedRequest(rec, req)
	staleTag := rec.Header().Get(config.HeaderETag)

	srv.Update([]byte("version two"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(config.HeaderIfNoneMatch, staleTag)
	rec = httptest.NewRecorder()
	srv.handleFeedRequest(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "version two", rec.Body.String())
}

func TestHandler_MethodValidation(t *testing.T) {
	srv := NewFeedServer(config.DefaultPort)
	srv.Update([]byte("data"))

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/", nil)
			rec := httptest.NewRecorder()
			srv.handleFeedRequest(rec, req)

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, config.AllowedMethods, rec.Header().Get(config.HeaderAllow))
		})
	}
}

func TestStart_RequiresPort(t *testing.T) {
	srv := NewFeedServer("")
	err := srv.Start(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPortRequired)
}
