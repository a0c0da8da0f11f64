package database

import (
	"context"
	"fmt"
	"strings"

	"marketplace/server/internal/models"
	"marketplace/server/internal/search"

	"gorm.io/gorm"
)

// columns maps predicate fields to SQL expressions
var columns = map[string]string{
	search.FieldStatus:      "`status`",
	search.FieldListingType: "`listing_type`",
	search.FieldLocation:    "`search_location`",
	search.FieldPrice:       "`price`",
	search.FieldRole:        "`role`",
	search.FieldName:        "`search_name`",
	search.FieldEmail:       "`search_email`",
	search.FieldListingID:   "`listing_id`",
	search.FieldUserID:      "`user_id`",
	search.FieldRead:        "`read`",
}

// folded lists the columns that already hold models.Fold output
var folded = map[string]bool{
	search.FieldLocation: true,
	search.FieldName:     true,
	search.FieldEmail:    true,
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func conditionSQL(c search.Condition) (string, any, error) {
	column, ok := columns[c.Field]
	if !ok {
		return "", nil, fmt.Errorf("unknown predicate field %q", c.Field)
	}

	switch c.Op {
	case search.OpEq:
		return column + " = ?", c.Value, nil
	case search.OpIn:
		return column + " IN ?", c.Value, nil
	case search.OpGte:
		return column + " >= ?", c.Value, nil
	case search.OpLte:
		return column + " <= ?", c.Value, nil
	case search.OpContains:
		needle := models.Fold(fmt.Sprint(c.Value))
		if !folded[c.Field] {
			column = "LOWER(" + column + ")"
		}
		return column + ` LIKE ? ESCAPE '\'`, "%" + likeEscaper.Replace(needle) + "%", nil
	}
	return "", nil, fmt.Errorf("unsupported operator %q", c.Op)
}

// applyPredicate adds the predicate's conditions to tx, ignoring paging
func applyPredicate(tx *gorm.DB, p search.Predicate) (*gorm.DB, error) {
	for _, c := range p.All {
		sql, arg, err := conditionSQL(c)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(sql, arg)
	}

	if len(p.Any) > 0 {
		clauses := make([]string, 0, len(p.Any))
		args := make([]any, 0, len(p.Any))
		for _, c := range p.Any {
			sql, arg, err := conditionSQL(c)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, sql)
			args = append(args, arg)
		}
		tx = tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	return tx, nil
}

type preload func(*gorm.DB) *gorm.DB

// page counts every row matching p, then fetches one page of them into dest,
// newest first. Both statements share the same conditions.
func (d *Database) page(ctx context.Context, model any, p search.Predicate, dest any, preloads ...preload) (int64, error) {
	base, err := applyPredicate(d.db.WithContext(ctx).Model(model), p)
	if err != nil {
		return 0, err
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return 0, err
	}

	query := base.Order("created_at DESC").Order("id DESC")
	for _, pl := range preloads {
		query = pl(query)
	}
	if p.Limit > 0 {
		query = query.Limit(p.Limit)
	}
	if p.Skip > 0 {
		query = query.Offset(p.Skip)
	}
	if err := query.Find(dest).Error; err != nil {
		return 0, err
	}

	return total, nil
}
