// internal/models/common.go
package models

// Collection names. These double as the remote sub-collection segment under
// users/{principalId}/, so renaming one is a data migration, not a refactor.
const (
	CollectionCustomers  = "customers"
	CollectionProducts   = "products"
	CollectionInvoices   = "invoices"
	CollectionCategories = "categories"
	CollectionAttributes = "attributes"
)

// Collections lists every record collection that takes part in a sync pass,
// in no particular order (reconciliation is independent per collection).
var Collections = []string{
	CollectionCustomers,
	CollectionProducts,
	CollectionInvoices,
	CollectionCategories,
	CollectionAttributes,
}

// Settings singleton location under the principal namespace.
const (
	SettingsCollection = "shopInfo"
	SettingsDocID      = "settings"
)

// UnknownCustomerName is substituted when an invoice references a customer
// id that no longer resolves. Orphaned references must degrade, not crash.
const UnknownCustomerName = "Unknown customer"
