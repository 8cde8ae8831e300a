package models

// Package is an internet package offered by the provider. Price is a
// non-negative amount in minor currency units.
type Package struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

// PackageDraft carries the user-editable fields of a package, used as the
// request body for create and update calls.
type PackageDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

// Merge applies the draft on top of prior, keeping the server-assigned id.
func (d PackageDraft) Merge(prior Package) Package {
	return Package{
		ID:          prior.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
	}
}
