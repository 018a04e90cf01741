package buffs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogItem_Wraparound(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		wantID string
	}{
		{name: "first", index: 0, wantID: "hyper_buff"},
		{name: "second", index: 1, wantID: "super_buff"},
		{name: "third", index: 2, wantID: "mega_buff"},
		{name: "wraps forward", index: 3, wantID: "hyper_buff"},
		{name: "wraps far forward", index: 7, wantID: "super_buff"},
		{name: "negative one", index: -1, wantID: "mega_buff"},
		{name: "negative wraps", index: -3, wantID: "hyper_buff"},
		{name: "negative far", index: -5, wantID: "super_buff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantID, CatalogItem(tt.index).ID)
		})
	}
}

func TestCatalogItemByID(t *testing.T) {
	item := CatalogItemByID("mega_buff")
	require.NotNil(t, item)
	assert.Equal(t, "Мега Бафф", item.Name)
	assert.Equal(t, int64(1800), item.Price)
	assert.Equal(t, 0.25, item.Multiplier)

	assert.Nil(t, CatalogItemByID("no_such_buff"))
}

func TestNewActiveBuff(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	item := CatalogItem(0)

	buff := NewActiveBuff(item, now)

	assert.Equal(t, item.ID, buff.ID)
	assert.Equal(t, item.Name, buff.Name)
	assert.Equal(t, item.Multiplier, buff.Multiplier)
	assert.Equal(t, now, buff.PurchasedAt)
	assert.Equal(t, now.Add(40*time.Minute), buff.ExpiresAt)
}
