// internal/store/collections.go
package store

import (
	"github.com/sirupsen/logrus"

	"shoplite-agent/internal/models"
	"shoplite-agent/internal/utils"
)

// Customers

func (s *Store) Customers() []models.Customer {
	return listRecords(s, &s.state.Customers)
}

func (s *Store) GetCustomer(id string) (models.Customer, bool) {
	return getRecord(s, &s.state.Customers, id, func(c models.Customer) string { return c.ID })
}

func (s *Store) AddCustomer(c models.Customer) models.Customer {
	if c.ID == "" {
		c.ID = utils.NewToken()
	}
	s.mu.Lock()
	s.state.Customers = append(s.state.Customers, c)
	s.mu.Unlock()

	s.committed(OpCreate, models.CollectionCustomers, c.ID, c)
	return c
}

func (s *Store) UpdateCustomer(id string, fields utils.Fields) (models.Customer, bool) {
	return updateRecord(s, &s.state.Customers, models.CollectionCustomers, id, fields,
		func(c models.Customer) string { return c.ID },
		func(c *models.Customer) { c.ID = id })
}

func (s *Store) RemoveCustomer(id string) {
	removeRecord(s, &s.state.Customers, models.CollectionCustomers, id,
		func(c models.Customer) string { return c.ID })
}

// Products

func (s *Store) Products() []models.Product {
	return listRecords(s, &s.state.Products)
}

func (s *Store) GetProduct(id string) (models.Product, bool) {
	return getRecord(s, &s.state.Products, id, func(p models.Product) string { return p.ID })
}

func (s *Store) AddProduct(p models.Product) models.Product {
	if p.ID == "" {
		p.ID = utils.NewToken()
	}
	s.mu.Lock()
	s.state.Products = append(s.state.Products, p)
	s.mu.Unlock()

	s.committed(OpCreate, models.CollectionProducts, p.ID, p)
	return p
}

func (s *Store) UpdateProduct(id string, fields utils.Fields) (models.Product, bool) {
	return updateRecord(s, &s.state.Products, models.CollectionProducts, id, fields,
		func(p models.Product) string { return p.ID },
		func(p *models.Product) { p.ID = id })
}

func (s *Store) RemoveProduct(id string) {
	removeRecord(s, &s.state.Products, models.CollectionProducts, id,
		func(p models.Product) string { return p.ID })
}

// Invoices

func (s *Store) Invoices() []models.Invoice {
	return listRecords(s, &s.state.Invoices)
}

func (s *Store) GetInvoice(id string) (models.Invoice, bool) {
	return getRecord(s, &s.state.Invoices, id, func(i models.Invoice) string { return i.ID })
}

func (s *Store) AddInvoice(inv models.Invoice) models.Invoice {
	if inv.ID == "" {
		inv.ID = utils.NewToken()
	}
	s.mu.Lock()
	s.state.Invoices = append(s.state.Invoices, inv)
	s.mu.Unlock()

	s.committed(OpCreate, models.CollectionInvoices, inv.ID, inv)
	return inv
}

func (s *Store) UpdateInvoice(id string, fields utils.Fields) (models.Invoice, bool) {
	return updateRecord(s, &s.state.Invoices, models.CollectionInvoices, id, fields,
		func(i models.Invoice) string { return i.ID },
		func(i *models.Invoice) { i.ID = id })
}

func (s *Store) RemoveInvoice(id string) {
	removeRecord(s, &s.state.Invoices, models.CollectionInvoices, id,
		func(i models.Invoice) string { return i.ID })
}

// Categories

func (s *Store) Categories() []models.Category {
	return listRecords(s, &s.state.Categories)
}

func (s *Store) GetCategory(id string) (models.Category, bool) {
	return getRecord(s, &s.state.Categories, id, func(c models.Category) string { return c.ID })
}

func (s *Store) AddCategory(c models.Category) models.Category {
	if c.ID == "" {
		c.ID = utils.NewToken()
	}
	s.mu.Lock()
	s.state.Categories = append(s.state.Categories, c)
	s.mu.Unlock()

	s.committed(OpCreate, models.CollectionCategories, c.ID, c)
	return c
}

func (s *Store) UpdateCategory(id string, fields utils.Fields) (models.Category, bool) {
	return updateRecord(s, &s.state.Categories, models.CollectionCategories, id, fields,
		func(c models.Category) string { return c.ID },
		func(c *models.Category) { c.ID = id })
}

func (s *Store) RemoveCategory(id string) {
	removeRecord(s, &s.state.Categories, models.CollectionCategories, id,
		func(c models.Category) string { return c.ID })
}

// Attributes

func (s *Store) Attributes() []models.Attribute {
	return listRecords(s, &s.state.Attributes)
}

func (s *Store) GetAttribute(id string) (models.Attribute, bool) {
	return getRecord(s, &s.state.Attributes, id, func(a models.Attribute) string { return a.ID })
}

func (s *Store) AddAttribute(a models.Attribute) models.Attribute {
	if a.ID == "" {
		a.ID = utils.NewToken()
	}
	s.mu.Lock()
	s.state.Attributes = append(s.state.Attributes, a)
	s.mu.Unlock()

	s.committed(OpCreate, models.CollectionAttributes, a.ID, a)
	return a
}

func (s *Store) UpdateAttribute(id string, fields utils.Fields) (models.Attribute, bool) {
	return updateRecord(s, &s.state.Attributes, models.CollectionAttributes, id, fields,
		func(a models.Attribute) string { return a.ID },
		func(a *models.Attribute) { a.ID = id })
}

func (s *Store) RemoveAttribute(id string) {
	removeRecord(s, &s.state.Attributes, models.CollectionAttributes, id,
		func(a models.Attribute) string { return a.ID })
}

// Shared record plumbing. The accessor closures keep these free of any
// reflection on id fields.

func listRecords[T any](s *Store, list *[]T) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(*list))
	copy(out, *list)
	return out
}

func getRecord[T any](s *Store, list *[]T, id string, key func(T) string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range *list {
		if key(rec) == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// updateRecord shallow-merges fields into the matching record. A missing id
// is a no-op, not an error. The id itself is never patchable.
func updateRecord[T any](s *Store, list *[]T, collection, id string, fields utils.Fields, key func(T) string, keepID func(*T)) (T, bool) {
	var zero T

	s.mu.Lock()
	idx := -1
	for i, rec := range *list {
		if key(rec) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return zero, false
	}

	var updated T
	if err := patchRecord((*list)[idx], fields, &updated); err != nil {
		s.mu.Unlock()
		logrus.WithError(err).WithFields(logrus.Fields{
			"collection": collection,
			"id":         id,
		}).Warn("Rejected malformed patch")
		return zero, false
	}
	keepID(&updated)
	(*list)[idx] = updated
	s.mu.Unlock()

	s.committed(OpUpdate, collection, id, updated)
	return updated, true
}

func removeRecord[T any](s *Store, list *[]T, collection, id string, key func(T) string) {
	s.mu.Lock()
	removed := false
	out := make([]T, 0, len(*list))
	for _, rec := range *list {
		if key(rec) == id {
			removed = true
			continue
		}
		out = append(out, rec)
	}
	*list = out
	s.mu.Unlock()

	if removed {
		s.committed(OpDelete, collection, id, nil)
	}
}
