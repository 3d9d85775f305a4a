package enums

import "strings"

// ItemType discriminates the two product taxonomies that can be referenced
// from carts, wishlists and inventory records.
type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeSpecial ItemType = "special_product"
)

func (t ItemType) String() string { return string(t) }

func (t ItemType) Valid() bool {
	return t == ItemTypeProduct || t == ItemTypeSpecial
}

// ParseItemType normalizes user-facing discriminator strings.
func ParseItemType(value string) (ItemType, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "product", "products":
		return ItemTypeProduct, true
	case "special_product", "special-product", "specialproduct":
		return ItemTypeSpecial, true
	}
	return "", false
}

// NotificationType labels back-office notification rows.
type NotificationType string

const (
	NotificationLowStock        NotificationType = "LOW_STOCK"
	NotificationInventoryExpiry NotificationType = "INVENTORY_EXPIRY"
	NotificationWallet          NotificationType = "WALLET"
	NotificationGeneral         NotificationType = "GENERAL"
)

// NotificationAudience scopes who a notification row is surfaced to.
type NotificationAudience string

const (
	AudienceAdmin    NotificationAudience = "admin"
	AudienceCustomer NotificationAudience = "customer"
)

// CouponType selects the discount arithmetic.
type CouponType string

const (
	CouponTypePercent CouponType = "percent"
	CouponTypeFixed   CouponType = "fixed"
)

func (t CouponType) Valid() bool {
	return t == CouponTypePercent || t == CouponTypeFixed
}

// WalletDirection distinguishes credit from debit requests.
type WalletDirection string

const (
	WalletCredit WalletDirection = "credit"
	WalletDebit  WalletDirection = "debit"
)

func (d WalletDirection) Valid() bool {
	return d == WalletCredit || d == WalletDebit
}

// RequestStatus is the shared admin-approval workflow state.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)
