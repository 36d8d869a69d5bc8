package expense

import "golang.org/x/exp/slices"

// Presets are the categories offered before the user has entered any.
var Presets = []string{"Food", "Transport", "Bills", "Shopping", "Health", "Entertainment", "Other"}

// AllCategories is the filter value that matches every category.
const AllCategories = "All"

// Categories returns the presets followed by every other category used in
// expenses, in order of first appearance.
func Categories(expenses []Expense) []string {
	out := slices.Clone(Presets)
	for _, e := range expenses {
		if e.Category == "" || slices.Contains(out, e.Category) {
			continue
		}
		out = append(out, e.Category)
	}
	return out
}
