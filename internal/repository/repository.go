package repository

import "gorm.io/gorm"

type Repository struct {
	DB       *gorm.DB
	Products ProductRepo
	Groups   OptionGroupRepo
	Options  OptionRepo
	Variants VariantRepo
	Drivers  DriverRepo
	Orders   OrderRepo
	Items    OrderItemRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:       db,
		Products: NewProductRepo(db),
		Groups:   NewOptionGroupRepo(db),
		Options:  NewOptionRepo(db),
		Variants: NewVariantRepo(db),
		Drivers:  NewDriverRepo(db),
		Orders:   NewOrderRepo(db),
		Items:    NewOrderItemRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// Глобальная транзакция на весь набор репо
func (r *Repository) WithTx(fn func(tx *Repository) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
