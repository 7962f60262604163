package infrastructure

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"warehouse/internal/service/warehouse/domain"
)

// filterColumns 过滤字段到数据库列的映射。
var filterColumns = map[domain.FilterField]string{
	domain.FieldID:                     "id",
	domain.FieldName:                   "name",
	domain.FieldArticle:                "article",
	domain.FieldDescription:            "description",
	domain.FieldCategory:               "category",
	domain.FieldPrice:                  "price",
	domain.FieldQuantity:               "quantity",
	domain.FieldCreatedDate:            "created_date",
	domain.FieldLastQuantityChangeDate: "last_quantity_change_date",
}

// applyFilters 把动态过滤条件翻译成 WHERE 子句。
// 过滤值按字段类型解析，操作符与字段类型不兼容时报 *ValidationError。
func applyFilters(query *gorm.DB, filters []domain.ProductFilter) (*gorm.DB, error) {
	for _, f := range filters {
		column, ok := filterColumns[f.Field]
		if !ok {
			return nil, &domain.ValidationError{Reason: "unknown filter field: " + string(f.Field)}
		}

		value, err := parseFilterValue(f)
		if err != nil {
			return nil, err
		}

		switch f.Op {
		case domain.OpLike:
			query = query.Where(column+" LIKE ?", "%"+f.Value+"%")
		case domain.OpEqual:
			query = query.Where(column+" = ?", value)
		case domain.OpGreater:
			query = query.Where(column+" >= ?", value)
		case domain.OpLess:
			query = query.Where(column+" <= ?", value)
		}
	}
	return query, nil
}

// parseFilterValue 按字段类型解析过滤值，并拒绝类型不兼容的操作符。
func parseFilterValue(f domain.ProductFilter) (interface{}, error) {
	switch f.Field {
	case domain.FieldID:
		if f.Op != domain.OpEqual {
			return nil, &domain.ValidationError{Reason: "ID field only supports the = operation"}
		}
		id, err := uuid.Parse(f.Value)
		if err != nil {
			return nil, &domain.ValidationError{Reason: "filter value is not a valid UUID: " + f.Value}
		}
		return id.String(), nil

	case domain.FieldName, domain.FieldArticle, domain.FieldDescription, domain.FieldCategory:
		if f.Op == domain.OpGreater || f.Op == domain.OpLess {
			return nil, &domain.ValidationError{Reason: "string field " + string(f.Field) + " does not support ordering operations"}
		}
		return f.Value, nil

	case domain.FieldPrice:
		if f.Op == domain.OpLike {
			return nil, &domain.ValidationError{Reason: "numeric field PRICE does not support the ~ operation"}
		}
		price, err := decimal.NewFromString(f.Value)
		if err != nil {
			return nil, &domain.ValidationError{Reason: "filter value is not a valid number: " + f.Value}
		}
		return price, nil

	case domain.FieldQuantity:
		if f.Op == domain.OpLike {
			return nil, &domain.ValidationError{Reason: "numeric field QUANTITY does not support the ~ operation"}
		}
		qty, err := strconv.ParseInt(f.Value, 10, 64)
		if err != nil {
			return nil, &domain.ValidationError{Reason: "filter value is not a valid integer: " + f.Value}
		}
		return qty, nil

	case domain.FieldCreatedDate, domain.FieldLastQuantityChangeDate:
		if f.Op == domain.OpLike {
			return nil, &domain.ValidationError{Reason: "date field " + string(f.Field) + " does not support the ~ operation"}
		}
		ts, err := parseFilterTime(f.Value)
		if err != nil {
			return nil, &domain.ValidationError{Reason: "filter value is not a valid date: " + f.Value}
		}
		return ts, nil
	}
	return nil, &domain.ValidationError{Reason: "unknown filter field: " + string(f.Field)}
}

func parseFilterTime(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", value)
}
