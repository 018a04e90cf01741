package shop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/whitewenty/dostavka/dostavka/database/models"
	"github.com/whitewenty/dostavka/dostavka/economy/buffs"
	"github.com/whitewenty/dostavka/dostavka/economy/ledger"
)

// InsufficientFundsError carries the required price so the user-facing
// reply can name it.
type InsufficientFundsError struct {
	Required int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: %d required", e.Required)
}

// Message is the localized user-facing reply.
func (e *InsufficientFundsError) Message() string {
	return fmt.Sprintf("❌ Недостаточно средств! Нужно: %d рублей.", e.Required)
}

// Shop sells buffs from the fixed catalog. All balance mutations go
// through the ledger's per-user lock, so the debit and the buff append
// are atomic with respect to concurrent purchases by the same user.
type Shop struct {
	ledger *ledger.Ledger
	now    func() time.Time
}

func New(l *ledger.Ledger) *Shop {
	return &Shop{
		ledger: l,
		now:    time.Now,
	}
}

// Item resolves any integer index to a catalog entry (modulo wraparound).
func (s *Shop) Item(index int) buffs.Item {
	return buffs.CatalogItem(index)
}

// Items returns the full catalog.
func (s *Shop) Items() []buffs.Item {
	return buffs.Catalog
}

// Purchase debits the item price and activates a new buff instance.
// Buying the same item twice stacks a second instance, it never replaces
// the first. Returns the localized confirmation message.
func (s *Shop) Purchase(ctx context.Context, userID, username string, index int) (string, error) {
	item := buffs.CatalogItem(index)

	_, err := s.ledger.Update(ctx, userID, username, func(user *models.User) error {
		if user.Earnings < item.Price {
			return &InsufficientFundsError{Required: item.Price}
		}
		user.Earnings -= item.Price
		user.ActiveBuffs = append(user.ActiveBuffs, buffs.NewActiveBuff(item, s.now()))
		return nil
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("✅ Вы приобрели %s на %d минут!", item.Name, item.DurationMinutes), nil
}

// IsInsufficientFunds reports whether err is a rejected purchase and
// returns its user-facing message.
func IsInsufficientFunds(err error) (string, bool) {
	var iferr *InsufficientFundsError
	if errors.As(err, &iferr) {
		return iferr.Message(), true
	}
	return "", false
}
