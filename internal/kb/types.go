package kb

// #region category

// Category tags a curated entry with its topic domain.
type Category string

const (
	CategoryCreditorAcademy Category = "creditor_academy"
	CategoryTechnology      Category = "technology"
	CategoryBusiness        Category = "business"
	CategoryGeneral         Category = "general"
)

// KnownCategory reports whether c is one of the enumerated categories.
func KnownCategory(c Category) bool {
	switch c {
	case CategoryCreditorAcademy, CategoryTechnology, CategoryBusiness, CategoryGeneral:
		return true
	}
	return false
}

// #endregion category

// #region entry

// DefaultKey is the reserved key whose answer is the generic help message.
const DefaultKey = "default"

// Entry is a single curated question/answer pair. Immutable after load.
type Entry struct {
	Key      string   `yaml:"question" db:"question_key"`
	Answer   string   `yaml:"answer" db:"answer"`
	Category Category `yaml:"category" db:"category"`
	Tags     []string `yaml:"tags"`
}

// #endregion entry
