package category

// Category is one of the fixed spending buckets an expense can be filed under.
type Category struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

const (
	Food          = "Food"
	Travel        = "Travel"
	Rent          = "Rent"
	Bills         = "Bills"
	Shopping      = "Shopping"
	Entertainment = "Entertainment"
	Healthcare    = "Healthcare"
	Education     = "Education"
	Other         = "Other"

	// All is the list filter sentinel that disables category filtering.
	All = "All"

	Default = Other
)

var categories = []Category{
	{Name: Food, Description: "Groceries, restaurants and snacks"},
	{Name: Travel, Description: "Transport, fuel and trips"},
	{Name: Rent, Description: "Housing and lodging"},
	{Name: Bills, Description: "Utilities, phone and subscriptions"},
	{Name: Shopping, Description: "Clothing, electronics and household goods"},
	{Name: Entertainment, Description: "Movies, events and hobbies"},
	{Name: Healthcare, Description: "Medicine, doctors and insurance"},
	{Name: Education, Description: "Courses, books and tuition"},
	{Name: Other, Description: "Anything else"},
}

// Names returns the category names in display order.
func Names() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

func IsValid(name string) bool {
	for _, c := range categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

func (c Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		Name:        c.Name,
		Description: c.Description,
	}
}
