package blogtopdf

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want string
	}{
		{KindInternal, "internal_error"},
		{KindMissingAddress, "missing_address"},
		{KindFetchTimeout, "fetch_timeout"},
		{KindFetchFailed, "fetch_failed"},
		{KindRenderFailed, "render_failed"},
		{Kind(99), "internal_error"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestConversionError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := convErr(KindFetchFailed, cause, "Failed to fetch blog: %v", cause)

	if err.Error() != "Failed to fetch blog: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	var ce *ConversionError
	if !errors.As(err, &ce) || ce.Kind != KindFetchFailed {
		t.Errorf("errors.As failed or wrong kind: %+v", ce)
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct conversion error", convErr(KindFetchTimeout, nil, "slow"), KindFetchTimeout},
		{"wrapped conversion error", fmt.Errorf("outer: %w", convErr(KindRenderFailed, nil, "bad")), KindRenderFailed},
		{"plain error", errors.New("anything"), KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}
