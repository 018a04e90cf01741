package buffs

import (
	"time"

	"github.com/whitewenty/dostavka/dostavka/database/models"
)

// Item is an immutable shop catalog entry.
type Item struct {
	ID              string
	Name            string
	Description     string
	Price           int64
	DurationMinutes int
	Multiplier      float64
	ImageKey        string
}

func (i Item) Duration() time.Duration {
	return time.Duration(i.DurationMinutes) * time.Minute
}

// Catalog is the fixed, process-wide list of purchasable buffs.
var Catalog = []Item{
	{
		ID:              "hyper_buff",
		Name:            "Гипер Бафф",
		Description:     "Повышает доход на 50%",
		Price:           2750,
		DurationMinutes: 40,
		Multiplier:      0.5,
		ImageKey:        "buffs/hyper_buff.jpeg",
	},
	{
		ID:              "super_buff",
		Name:            "Супер Бафф",
		Description:     "Повышает доход на 15%",
		Price:           850,
		DurationMinutes: 30,
		Multiplier:      0.15,
		ImageKey:        "buffs/super_buff.jpeg",
	},
	{
		ID:              "mega_buff",
		Name:            "Мега Бафф",
		Description:     "Повышает доход на 25%",
		Price:           1800,
		DurationMinutes: 30,
		Multiplier:      0.25,
		ImageKey:        "buffs/mega_buff.jpeg",
	},
}

// CatalogItem resolves any integer index to a catalog entry via modulo
// wraparound, so out-of-range and negative indexes still map to a valid
// item instead of failing.
func CatalogItem(index int) Item {
	idx := index % len(Catalog)
	if idx < 0 {
		idx += len(Catalog)
	}
	return Catalog[idx]
}

// CatalogItemByID returns the catalog entry with the given id, or nil.
func CatalogItemByID(id string) *Item {
	for i := range Catalog {
		if Catalog[i].ID == id {
			return &Catalog[i]
		}
	}
	return nil
}

// NewActiveBuff instantiates a purchased buff owned by a user.
func NewActiveBuff(item Item, now time.Time) models.ActiveBuff {
	return models.ActiveBuff{
		ID:          item.ID,
		Name:        item.Name,
		Multiplier:  item.Multiplier,
		PurchasedAt: now,
		ExpiresAt:   now.Add(item.Duration()),
	}
}
