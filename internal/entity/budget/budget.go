package budget

type Record struct {
	ID       int64   `json:"-"`
	UserID   int64   `json:"-"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Month    int     `json:"-"`
	Year     int     `json:"-"`
}
