package migration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whitewenty/dostavka/dostavka/database/models"
	"github.com/whitewenty/dostavka/dostavka/database/repositories"
)

type fakeRepo struct {
	byID map[string]*models.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]*models.User)}
}

func (r *fakeRepo) Create(_ context.Context, user *models.User) error {
	user.ID = int64(len(r.byID) + 1)
	r.byID[user.DiscordID] = user
	return nil
}

func (r *fakeRepo) GetByDiscordID(_ context.Context, discordID string) (*models.User, error) {
	if user, ok := r.byID[discordID]; ok {
		return user, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeRepo) Update(_ context.Context, _ *models.User) error { return nil }
func (r *fakeRepo) GetUsers(_ context.Context) ([]*models.User, error) {
	return nil, nil
}
func (r *fakeRepo) GetTopByDeliveries(_ context.Context, _ int) ([]*models.User, error) {
	return nil, nil
}
func (r *fakeRepo) AggregateTotals(_ context.Context) (int64, int64, int64, error) {
	return 0, 0, 0, nil
}

const legacyFixture = `{
  "111111111": {
    "username": "courier",
    "total_deliveries": 42,
    "total_earnings": 5150,
    "experience": 42,
    "last_delivery": "2025-05-30T18:45:12.123456",
    "active_buffs": [
      {
        "id": "mega_buff",
        "name": "Мега Бафф",
        "multiplier": 0.25,
        "purchased_at": "2025-05-30T18:30:00",
        "expires_at": "2025-05-30T19:00:00"
      }
    ]
  },
  "222222222": {
    "total_deliveries": 1,
    "total_earnings": 100,
    "experience": 1,
    "last_delivery": null,
    "active_buffs": []
  }
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "delivery_user_data.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportFile(t *testing.T) {
	repo := newFakeRepo()
	importer := NewImporter(repo)

	stats, err := importer.ImportFile(context.Background(), writeFixture(t, legacyFixture))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Imported)
	assert.Zero(t, stats.Skipped)
	assert.Zero(t, stats.Failed)

	user, err := repo.GetByDiscordID(context.Background(), "111111111")
	require.NoError(t, err)
	assert.Equal(t, "courier", user.Username)
	assert.Equal(t, int64(42), user.Deliveries)
	assert.Equal(t, int64(5150), user.Earnings)
	assert.Equal(t, int64(42), user.Experience)
	require.NotNil(t, user.LastDeliveryAt)
	assert.Equal(t, 2025, user.LastDeliveryAt.Year())
	require.Len(t, user.ActiveBuffs, 1)
	assert.Equal(t, "mega_buff", user.ActiveBuffs[0].ID)
	assert.Equal(t, 0.25, user.ActiveBuffs[0].Multiplier)

	// missing username falls back
	other, err := repo.GetByDiscordID(context.Background(), "222222222")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", other.Username)
	assert.Nil(t, other.LastDeliveryAt)
	assert.Empty(t, other.ActiveBuffs)
}

func TestImportFile_SkipsExisting(t *testing.T) {
	repo := newFakeRepo()
	require.NoError(t, repo.Create(context.Background(), &models.User{
		DiscordID: "111111111",
		Username:  "already-here",
	}))

	importer := NewImporter(repo)
	stats, err := importer.ImportFile(context.Background(), writeFixture(t, legacyFixture))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Imported)
	assert.Equal(t, 1, stats.Skipped)

	user, err := repo.GetByDiscordID(context.Background(), "111111111")
	require.NoError(t, err)
	assert.Equal(t, "already-here", user.Username)
}

func TestImportFile_BadFile(t *testing.T) {
	importer := NewImporter(newFakeRepo())

	_, err := importer.ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = importer.ImportFile(context.Background(), writeFixture(t, "not json"))
	assert.Error(t, err)
}

func TestParseLegacyTime(t *testing.T) {
	tests := []struct {
		value  string
		wantOK bool
	}{
		{"2025-05-30T18:45:12.123456", true},
		{"2025-05-30T18:45:12", true},
		{"2025-05-30T18:45:12Z", true},
		{"2025-05-30T18:45:12+03:00", true},
		{"", false},
		{"yesterday", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			ts, ok := parseLegacyTime(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, time.May, ts.Month())
			}
		})
	}
}
