package utils_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/presupuesto/budget_backend/utils"
)

func TestParseDateString(t *testing.T) {
	got, err := utils.ParseDateString(" 2026-03-10 ")
	if err != nil {
		t.Fatalf("ParseDateString: %v", err)
	}
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if _, err := utils.ParseDateString("10/03/2026"); err == nil {
		t.Fatal("expected error for non ISO date")
	}
	if _, err := utils.ParseDateString(""); err == nil {
		t.Fatal("expected error for empty date")
	}
}

func TestConvertToDateDropsTimeOfDay(t *testing.T) {
	in := time.Date(2026, 3, 10, 17, 45, 12, 999, time.FixedZone("X", 3600))
	got := utils.ConvertToDate(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Location() != time.UTC {
		t.Fatalf("expected UTC midnight, got %v", got)
	}
}

func TestUniqueSlicePreservesOrder(t *testing.T) {
	got := utils.UniqueSlice([]int{3, 1, 3, 2, 1})
	if len(got) != 3 || got[0] != 3 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestAsAppErrorUnwraps(t *testing.T) {
	appErr := utils.ConflictError("busy")
	wrapped := fmt.Errorf("outer: %w", appErr)

	got, ok := utils.AsAppError(wrapped)
	if !ok || got.Code != utils.ErrorCodeConflict {
		t.Fatalf("expected unwrapped CONFLICT, got ok=%v %+v", ok, got)
	}

	if _, ok := utils.AsAppError(errors.New("plain")); ok {
		t.Fatal("plain errors must not unwrap to AppError")
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	err := utils.InternalError(errors.New("dial tcp: connection refused"))
	if err.Code != utils.ErrorCodeInternal {
		t.Fatalf("expected INTERNAL_ERROR, got %s", err.Code)
	}
	if err.Message != "an internal error occurred" {
		t.Fatalf("internal cause leaked: %q", err.Message)
	}
}

func TestWithDetailAccumulates(t *testing.T) {
	err := utils.ValidationError("bad lines").
		WithDetail(map[string]interface{}{"field": "lines", "index": 0}).
		WithDetail(map[string]interface{}{"field": "lines", "index": 2})
	if len(err.Details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(err.Details))
	}
}
