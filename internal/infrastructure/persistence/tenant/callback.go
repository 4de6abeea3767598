package tenant

import (
	"reflect"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Register installs the tenant guard callbacks on db. The guard fails
// closed: a statement on a table with a tenant_id column must either carry a
// tenant condition or be explicitly marked CrossTenant.
func Register(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Query().Before("gorm:query").Register("tenant:guard_query", guardStatement); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("tenant:guard_row", guardStatement); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("tenant:guard_update", guardStatement); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("tenant:guard_delete", guardStatement); err != nil {
		return err
	}
	return cb.Create().Before("gorm:create").Register("tenant:guard_create", guardCreate)
}

func guardStatement(db *gorm.DB) {
	if db.Error != nil || !tenantScoped(db.Statement.Schema) || bypassed(db) {
		return
	}
	if !hasTenantCondition(db.Statement) {
		_ = db.AddError(ErrUnscopedQuery)
	}
}

func guardCreate(db *gorm.DB) {
	if db.Error != nil || !tenantScoped(db.Statement.Schema) || bypassed(db) {
		return
	}
	want, ok := BoundTenant(db)
	if !ok {
		_ = db.AddError(ErrTenantIDRequired)
		return
	}

	field := db.Statement.Schema.LookUpField(Column)
	rv := reflect.Indirect(db.Statement.ReflectValue)
	check := func(row reflect.Value) {
		v, _ := field.ValueOf(db.Statement.Context, reflect.Indirect(row))
		if id, _ := v.(uuid.UUID); id != want {
			_ = db.AddError(ErrTenantMismatch)
		}
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			check(rv.Index(i))
		}
	case reflect.Struct:
		check(rv)
	}
}

func tenantScoped(s *schema.Schema) bool {
	if s == nil {
		return false
	}
	_, ok := s.FieldsByDBName[Column]
	return ok
}

// hasTenantCondition reports whether a top-level AND term of the WHERE
// clause constrains tenant_id. A top-level OR makes the whole clause
// unscoped, since it can widen the result past the tenant.
func hasTenantCondition(stmt *gorm.Statement) bool {
	c, ok := stmt.Clauses["WHERE"]
	if !ok {
		return false
	}
	where, ok := c.Expression.(clause.Where)
	if !ok {
		return false
	}
	found := false
	for _, expr := range where.Exprs {
		if _, isOr := expr.(clause.OrConditions); isOr {
			return false
		}
		if exprContainsTenant(expr) {
			found = true
		}
	}
	return found
}

func exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		return isTenantColumn(e.Column)
	case clause.IN:
		return isTenantColumn(e.Column)
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if exprContainsTenant(cond) {
				return true
			}
		}
	case clause.Expr:
		sql := strings.ToLower(e.SQL)
		return strings.HasPrefix(sql, Column+" = ") && !strings.Contains(sql, " or ")
	}
	return false
}

func isTenantColumn(col any) bool {
	switch c := col.(type) {
	case clause.Column:
		return c.Name == Column
	case string:
		return c == Column
	}
	return false
}
