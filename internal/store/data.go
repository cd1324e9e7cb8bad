// internal/store/data.go
package store

import (
	"encoding/json"
	"fmt"

	"shoplite-agent/internal/models"
	"shoplite-agent/internal/utils"
)

// Import overlays a bulk JSON payload into the local collections: records
// with a known id overwrite in place, new ids are appended, and a shopInfo
// key shallow-merges into settings. This is a data-loading path, not a sync
// path; nothing is propagated to the remote store.
func (s *Store) Import(payload map[string]json.RawMessage) error {
	for name, raw := range payload {
		var err error
		switch name {
		case models.CollectionCustomers:
			err = importCollection(s, raw, &s.state.Customers, func(c models.Customer) string { return c.ID })
		case models.CollectionProducts:
			err = importCollection(s, raw, &s.state.Products, func(p models.Product) string { return p.ID })
		case models.CollectionInvoices:
			err = importCollection(s, raw, &s.state.Invoices, func(i models.Invoice) string { return i.ID })
		case models.CollectionCategories:
			err = importCollection(s, raw, &s.state.Categories, func(c models.Category) string { return c.ID })
		case models.CollectionAttributes:
			err = importCollection(s, raw, &s.state.Attributes, func(a models.Attribute) string { return a.ID })
		case models.SettingsCollection:
			var fields utils.Fields
			if err = json.Unmarshal(raw, &fields); err == nil {
				s.mu.Lock()
				var merged models.ShopSettings
				if err = patchRecord(s.state.ShopInfo, fields, &merged); err == nil {
					s.state.ShopInfo = merged
				}
				s.mu.Unlock()
			}
		default:
			// Unknown top-level keys are skipped so exports from newer app
			// versions still import what this version understands.
			continue
		}
		if err != nil {
			return fmt.Errorf("import %s: %w", name, err)
		}
	}

	s.schedulePersist()
	return nil
}

func importCollection[T any](s *Store, raw json.RawMessage, dst *[]T, key func(T) string) error {
	var incoming []T
	if err := json.Unmarshal(raw, &incoming); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index := make(map[string]int, len(*dst))
	for i, rec := range *dst {
		index[key(rec)] = i
	}
	for _, rec := range incoming {
		if i, ok := index[key(rec)]; ok {
			(*dst)[i] = rec
		} else {
			index[key(rec)] = len(*dst)
			*dst = append(*dst, rec)
		}
	}
	return nil
}

// Export returns a copy of the full application state, shaped exactly like
// the Import payload.
func (s *Store) Export() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	out.Customers = append([]models.Customer(nil), s.state.Customers...)
	out.Products = append([]models.Product(nil), s.state.Products...)
	out.Invoices = append([]models.Invoice(nil), s.state.Invoices...)
	out.Categories = append([]models.Category(nil), s.state.Categories...)
	out.Attributes = append([]models.Attribute(nil), s.state.Attributes...)
	return out
}
