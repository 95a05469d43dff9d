package runner

import (
	"errors"
	"testing"
	"time"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    Policy
		wantErr bool
	}{
		{input: "100x", want: FixedIterations(100)},
		{input: "0x", want: FixedIterations(0)},
		{input: " 1s ", want: TimeBudget(time.Second)},
		{input: "250ms", want: TimeBudget(250 * time.Millisecond)},
		{input: "0s", want: TimeBudget(0)},
		{input: "", wantErr: true},
		{input: "x", wantErr: true},
		{input: "-3x", wantErr: true},
		{input: "-1s", wantErr: true},
		{input: "fast", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePolicy(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPolicy) {
					t.Fatalf("ParsePolicy(%q) error = %v, want ErrInvalidPolicy", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePolicy(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("ParsePolicy(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPolicyStringRoundTrip(t *testing.T) {
	for _, p := range []Policy{FixedIterations(42), TimeBudget(1500 * time.Millisecond), DefaultPolicy()} {
		parsed, err := ParsePolicy(p.String())
		if err != nil {
			t.Fatalf("ParsePolicy(%q) error = %v", p, err)
		}
		if parsed != p {
			t.Errorf("round trip of %q gave %+v", p, parsed)
		}
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := (Policy{}).Validate(); !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("zero Policy Validate() = %v, want ErrInvalidPolicy", err)
	}
	if err := FixedIterations(0).Validate(); err != nil {
		t.Errorf("FixedIterations(0).Validate() = %v", err)
	}
	if err := TimeBudget(-1).Validate(); !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("TimeBudget(-1).Validate() = %v, want ErrInvalidPolicy", err)
	}
	if DefaultPolicy().Budget() != time.Second || DefaultPolicy().Kind() != PolicyTimeBudget {
		t.Errorf("DefaultPolicy() = %+v", DefaultPolicy())
	}
}
