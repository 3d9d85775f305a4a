package models

// All lists every model for schema automigration in tests and dev tooling.
// Production schema changes go through goose migrations.
func All() []any {
	return []any{
		&Brand{},
		&Category{},
		&SpecialCategory{},
		&Tag{},
		&VariantName{},
		&ProductVariant{},
		&City{},
		&Warehouse{},
		&Product{},
		&SpecialProduct{},
		&ProductPrice{},
		&InventoryRecord{},
		&Cart{},
		&CartItem{},
		&Coupon{},
		&WishlistItem{},
		&Customer{},
		&Notification{},
		&WalletRequest{},
		&Policy{},
		&CertificateRequest{},
	}
}
