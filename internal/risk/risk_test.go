package risk

import (
	"errors"
	"math"
	"testing"
)

func TestPositionSizeRiskBound(t *testing.T) {
	limits := Limits{RiskPerTrade: 0.01}
	size, err := limits.PositionSize(100000, 150, 100)
	if err != nil {
		t.Fatalf("PositionSize returned error: %v", err)
	}
	if math.Abs(size-20) > 1e-9 {
		t.Fatalf("expected risk-bound size 20, got %.6f", size)
	}
}

func TestPositionSizeCashBound(t *testing.T) {
	limits := Limits{RiskPerTrade: 1}
	size, err := limits.PositionSize(1000, 100, 99.9)
	if err != nil {
		t.Fatalf("PositionSize returned error: %v", err)
	}
	if size != 10 {
		t.Fatalf("expected cash-bound size 10, got %.6f", size)
	}
}

func TestPositionSizeZeroStop(t *testing.T) {
	limits := Limits{RiskPerTrade: 0.01}
	if _, err := limits.PositionSize(1000, 100, 100); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
	if _, err := limits.PositionSize(1000, 100, 101); !errors.Is(err, ErrInvalidStop) {
		t.Fatalf("expected ErrInvalidStop, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := FromPercent(0.02).Validate(); err != nil {
		t.Fatalf("expected 0.02%% to validate, got %v", err)
	}
	for _, bad := range []float64{0, -0.1, 1.5, math.NaN()} {
		if err := (Limits{RiskPerTrade: bad}).Validate(); !errors.Is(err, ErrInvalidRisk) {
			t.Fatalf("expected ErrInvalidRisk for %v, got %v", bad, err)
		}
	}
}

func TestValidateInputs(t *testing.T) {
	if err := ValidateInputs(10, 50, 0.02); err != nil {
		t.Fatalf("expected defaults to pass, got %v", err)
	}
	if err := ValidateInputs(101, 50, 0.02); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected short window rejection, got %v", err)
	}
	if err := ValidateInputs(10, 201, 0.02); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected long window rejection, got %v", err)
	}
	if err := ValidateInputs(10, 50, 1.01); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected risk rejection, got %v", err)
	}
}
