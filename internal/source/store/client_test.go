package store

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gamecatalog/internal/domain"
)

type ClientTestSuite struct {
	suite.Suite
	logger *slog.Logger
}

func (s *ClientTestSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) newClient(url string, maxBody int64) *Client {
	return NewClient(Config{
		Platform:     domain.PlatformAndroid,
		URL:          url,
		Timeout:      5 * time.Second,
		UserAgent:    "CatalogTest/1.0",
		MaxBodyBytes: maxBody,
	}, s.logger)
}

func (s *ClientTestSuite) TestFetch_Success() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodGet, r.Method)
		s.Equal("application/json", r.Header.Get("Accept"))
		s.Equal("CatalogTest/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[[{"name":"a"}]]`))
	}))
	defer srv.Close()

	client := s.newClient(srv.URL, 0)
	body, err := client.Fetch(context.Background())

	s.NoError(err)
	s.JSONEq(`[[{"name":"a"}]]`, string(body))
	s.Equal(domain.PlatformAndroid, client.Platform())
}

func (s *ClientTestSuite) TestFetch_NonSuccessStatus() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := s.newClient(srv.URL, 0).Fetch(context.Background())

	var fetchErr *FetchError
	s.Require().True(errors.As(err, &fetchErr))
	s.Equal(http.StatusBadGateway, fetchErr.StatusCode)
	s.Equal(domain.PlatformAndroid, fetchErr.Platform)
	s.Contains(err.Error(), "unexpected status: 502")
}

func (s *ClientTestSuite) TestFetch_Unreachable() {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := s.newClient(url, 0).Fetch(context.Background())

	var fetchErr *FetchError
	s.Require().True(errors.As(err, &fetchErr))
	s.Zero(fetchErr.StatusCode)
	s.Contains(err.Error(), "execute request")
}

func (s *ClientTestSuite) TestFetch_BodyTooLarge() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1,2,3,4,5,6,7,8,9]`))
	}))
	defer srv.Close()

	_, err := s.newClient(srv.URL, 4).Fetch(context.Background())

	s.Error(err)
	s.Contains(err.Error(), "exceeds 4 bytes")
}

func (s *ClientTestSuite) TestFetch_ContextCancelled() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.newClient(srv.URL, 0).Fetch(ctx)

	s.Error(err)
	s.True(errors.Is(err, context.Canceled))
}
