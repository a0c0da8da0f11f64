package search

// Op is a comparison understood by the data layer
type Op string

const (
	OpEq       Op = "eq"
	OpIn       Op = "in"
	OpContains Op = "contains" // case-insensitive substring
	OpGte      Op = "gte"
	OpLte      Op = "lte"
)

// Fields a predicate can reference. FieldLocation is the combined
// "city, state" text of a listing.
const (
	FieldStatus      = "status"
	FieldListingType = "listing_type"
	FieldLocation    = "location"
	FieldPrice       = "price"
	FieldRole        = "role"
	FieldName        = "name"
	FieldEmail       = "email"
	FieldListingID   = "listing_id"
	FieldUserID      = "user_id"
	FieldRead        = "read"
)

type Condition struct {
	Field string
	Op    Op
	Value any
}

// Predicate describes what to filter by, independent of any query language.
// All conditions must hold, and at least one of Any when Any is non-empty.
type Predicate struct {
	All   []Condition
	Any   []Condition
	Skip  int
	Limit int
}

func (p *Predicate) where(field string, op Op, value any) {
	p.All = append(p.All, Condition{Field: field, Op: op, Value: value})
}

// Find returns the first condition on field in All
func (p Predicate) Find(field string) (Condition, bool) {
	for _, c := range p.All {
		if c.Field == field {
			return c, true
		}
	}
	return Condition{}, false
}

// Unbounded returns the predicate without skip and limit, as used for counts
func (p Predicate) Unbounded() Predicate {
	p.Skip, p.Limit = 0, 0
	return p
}
