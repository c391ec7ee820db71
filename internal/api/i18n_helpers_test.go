package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/terraincognita07/pregcalc/internal/reference"
	"github.com/terraincognita07/pregcalc/internal/services"
)

func TestCalculatorErrorTranslationKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{errLastPeriodRequired, "error.last_period_required"},
		{fmt.Errorf("%w: %q", services.ErrMalformedDate, "x"), "error.malformed_date"},
		{services.ErrFutureDate, "error.future_date"},
		{fmt.Errorf("%w: 45 days", services.ErrInvalidCycleLength), "error.invalid_cycle_length"},
		{services.ErrInvalidBodyMetrics, "error.invalid_body_metrics"},
		{services.ErrShareTokenExpired, "error.invalid_share_token"},
		{services.ErrShareTokenInvalid, "error.invalid_share_token"},
		{fmt.Errorf("%w: eof", errInvalidRequestBody), "error.invalid_request"},
		{reference.ErrReferenceTableIntegrity, "error.calculation_failed"},
		{errors.New("boom"), "error.calculation_failed"},
	}
	for _, testCase := range cases {
		if got := calculatorErrorTranslationKey(testCase.err); got != testCase.want {
			t.Fatalf("calculatorErrorTranslationKey(%v): expected %q, got %q", testCase.err, testCase.want, got)
		}
	}
}
