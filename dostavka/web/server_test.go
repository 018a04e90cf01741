package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whitewenty/dostavka/dostavka/database/models"
	"github.com/whitewenty/dostavka/dostavka/economy/ledger"
)

func newTestServer(t *testing.T, repo *fakeRepo, botConfigured bool) *Server {
	t.Helper()
	stats := NewStatsService(repo, ledger.New(repo), botConfigured)
	server, err := NewServer(":0", stats)
	require.NoError(t, err)
	return server
}

func TestAPIStats(t *testing.T) {
	repo := &fakeRepo{users: []*models.User{
		{DiscordID: "1", Username: "courier", Deliveries: 4, Earnings: 400},
	}}
	server := newTestServer(t, repo, true)

	rec := httptest.NewRecorder()
	server.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var stats Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.True(t, stats.BotStatus)
	assert.Equal(t, int64(1), stats.Bot.TotalUsers)
	assert.Equal(t, int64(4), stats.Bot.TotalDeliveries)
	require.Len(t, stats.TopUsers, 1)
	assert.Equal(t, "courier", stats.TopUsers[0].Username)
}

func TestAPIStats_FailureStillReturns200(t *testing.T) {
	server := newTestServer(t, &fakeRepo{failAll: true}, false)

	rec := httptest.NewRecorder()
	server.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var stats Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.False(t, stats.BotStatus)
	assert.Zero(t, stats.Bot.TotalUsers)
	assert.NotNil(t, stats.TopUsers)
}

func TestDashboardPages(t *testing.T) {
	server := newTestServer(t, &fakeRepo{}, true)

	for _, path := range []string{"/", "/stats"} {
		rec := httptest.NewRecorder()
		server.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html", path)
		assert.NotEmpty(t, rec.Body.String(), path)
	}
}
