package infrastructure

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"warehouse/internal/service/warehouse/domain"
)

func TestParseFilterValueTypeChecks(t *testing.T) {
	cases := []struct {
		name    string
		filter  domain.ProductFilter
		wantErr bool
	}{
		{"string like", domain.ProductFilter{Field: domain.FieldName, Op: domain.OpLike, Value: "milk"}, false},
		{"string ordering rejected", domain.ProductFilter{Field: domain.FieldName, Op: domain.OpGreater, Value: "milk"}, true},
		{"price gte", domain.ProductFilter{Field: domain.FieldPrice, Op: domain.OpGreater, Value: "12.50"}, false},
		{"price like rejected", domain.ProductFilter{Field: domain.FieldPrice, Op: domain.OpLike, Value: "12"}, true},
		{"price not a number", domain.ProductFilter{Field: domain.FieldPrice, Op: domain.OpEqual, Value: "cheap"}, true},
		{"quantity lte", domain.ProductFilter{Field: domain.FieldQuantity, Op: domain.OpLess, Value: "5"}, false},
		{"quantity not an integer", domain.ProductFilter{Field: domain.FieldQuantity, Op: domain.OpEqual, Value: "5.5"}, true},
		{"id equal", domain.ProductFilter{Field: domain.FieldID, Op: domain.OpEqual, Value: uuid.NewString()}, false},
		{"id like rejected", domain.ProductFilter{Field: domain.FieldID, Op: domain.OpLike, Value: "abc"}, true},
		{"id not a uuid", domain.ProductFilter{Field: domain.FieldID, Op: domain.OpEqual, Value: "not-a-uuid"}, true},
		{"date gte day precision", domain.ProductFilter{Field: domain.FieldCreatedDate, Op: domain.OpGreater, Value: "2026-01-15"}, false},
		{"date gte rfc3339", domain.ProductFilter{Field: domain.FieldCreatedDate, Op: domain.OpGreater, Value: "2026-01-15T10:00:00Z"}, false},
		{"date like rejected", domain.ProductFilter{Field: domain.FieldLastQuantityChangeDate, Op: domain.OpLike, Value: "2026"}, true},
		{"date garbage", domain.ProductFilter{Field: domain.FieldCreatedDate, Op: domain.OpEqual, Value: "yesterday"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseFilterValue(tc.filter)
			if tc.wantErr {
				var validation *domain.ValidationError
				if !errors.As(err, &validation) {
					t.Errorf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
