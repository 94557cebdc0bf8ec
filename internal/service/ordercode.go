package service

import (
	"fmt"
	"time"

	"github.com/nanorand/nanorand"
)

const orderCodeRetries = 5

// newOrderCode — человекочитаемый код заказа вида ORD-20260828-483920.
// Уникальность гарантирует первичный ключ: на коллизии создание повторяется
// со свежим кодом (см. createWithRetry).
func newOrderCode(now time.Time) (string, error) {
	rng, err := nanorand.Gen(6)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), rng), nil
}
