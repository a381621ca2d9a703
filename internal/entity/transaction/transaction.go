package transaction

const (
	Income  = "income"
	Expense = "expense"
)

// DateLayout is the stored timestamp representation. Range filters compare
// these strings lexicographically, so the layout must stay zero-padded.
const (
	DateLayout = "2006-01-02 15:04:05"
	DayLayout  = "2006-01-02"
)

type Record struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"-"`
	Kind        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// Patch carries the optional slots of an update. A nil slot leaves the
// stored field untouched.
type Patch struct {
	Amount      *float64
	Category    *string
	Description *string
}

func (p Patch) IsEmpty() bool {
	return p.Amount == nil && p.Category == nil && p.Description == nil
}

// Filter narrows a listing. Empty fields are not applied. Date bounds are
// inclusive and compared as strings in DateLayout order.
type Filter struct {
	StartDate string
	EndDate   string
	Category  string
	Kind      string
}

func ValidKind(kind string) bool {
	return kind == Income || kind == Expense
}
