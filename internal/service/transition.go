package service

import "github.com/HovVathana/shoppink-backend/internal/models"

// stockEffect определяет действие над остатками по ребру перехода:
// -1 — списание, +1 — возврат, 0 — без эффекта.
// Вход в DELIVERING из любого другого состояния списывает,
// вход в RETURNED из любого другого — возвращает; повторная запись
// того же состояния (в т.ч. переназначение водителя) — no-op,
// поэтому двойного списания не бывает.
func stockEffect(from, to models.OrderState) int32 {
	switch {
	case to == models.OrderStateDelivering && from != models.OrderStateDelivering:
		return -1
	case to == models.OrderStateReturned && from != models.OrderStateReturned:
		return +1
	}
	return 0
}
