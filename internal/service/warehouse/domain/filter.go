package domain

// FilterField 可以参与动态过滤的商品字段。
type FilterField string

const (
	FieldID                     FilterField = "ID"
	FieldName                   FilterField = "NAME"
	FieldArticle                FilterField = "ARTICLE"
	FieldDescription            FilterField = "DESCRIPTION"
	FieldCategory               FilterField = "CATEGORY"
	FieldPrice                  FilterField = "PRICE"
	FieldQuantity               FilterField = "QUANTITY"
	FieldCreatedDate            FilterField = "CREATED_DATE"
	FieldLastQuantityChangeDate FilterField = "LAST_QUANTITY_CHANGE_DATE"
)

// FilterOp 过滤操作符。
type FilterOp string

const (
	OpLike    FilterOp = "~"
	OpEqual   FilterOp = "="
	OpGreater FilterOp = ">="
	OpLess    FilterOp = "<="
)

// ProductFilter 是一个 字段+操作符+值 的过滤条件。
// 值以字符串传入，由持久化层按字段类型解析；类型不匹配
// （例如对数值字段做 "~"）会报 *ValidationError。
type ProductFilter struct {
	Field FilterField `json:"field"`
	Op    FilterOp    `json:"operation"`
	Value string      `json:"searchParam"`
}

// Validate 做与存储无关的基础校验。
func (f ProductFilter) Validate() error {
	switch f.Field {
	case FieldID, FieldName, FieldArticle, FieldDescription, FieldCategory,
		FieldPrice, FieldQuantity, FieldCreatedDate, FieldLastQuantityChangeDate:
	default:
		return &ValidationError{Reason: "unknown filter field: " + string(f.Field)}
	}
	switch f.Op {
	case OpLike, OpEqual, OpGreater, OpLess:
	default:
		return &ValidationError{Reason: "unknown filter operation: " + string(f.Op)}
	}
	if f.Value == "" {
		return &ValidationError{Reason: "filter search param must not be empty"}
	}
	return nil
}
