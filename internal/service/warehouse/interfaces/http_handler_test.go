package interfaces

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"warehouse/internal/service/warehouse/domain"
)

func TestStatusOfMapsDomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&domain.OrderNotFoundError{OrderID: uuid.New()}, http.StatusNotFound},
		{&domain.ProductNotFoundError{ProductID: uuid.New()}, http.StatusNotFound},
		{&domain.CustomerNotFoundError{CustomerID: 1}, http.StatusNotFound},
		{&domain.ForbiddenError{}, http.StatusForbidden},
		{&domain.IncorrectStateError{Status: domain.StatusDone}, http.StatusConflict},
		{&domain.ProductNotAvailableError{ProductID: uuid.New()}, http.StatusConflict},
		{&domain.NotEnoughStockError{Available: 1, Requested: 2}, http.StatusConflict},
		{&domain.DuplicateArticleError{Article: "A-1"}, http.StatusConflict},
		{&domain.DuplicateLoginError{Login: "alice"}, http.StatusConflict},
		{&domain.BusinessKeyMismatchError{BusinessKey: "bk"}, http.StatusConflict},
		{&domain.ValidationError{Reason: "bad input"}, http.StatusBadRequest},
		{fmt.Errorf("%w: account service down", domain.ErrExternalService), http.StatusBadGateway},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusOf(tc.err); got != tc.want {
			t.Errorf("statusOf(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
