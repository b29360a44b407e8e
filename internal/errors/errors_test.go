package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		CodeUnknown,
		CodeValidation,
		CodeConfiguration,
		CodeTimeout,
		CodeCanceled,
		CodeNotFound,
		CodeConflict,
		CodeTargetInvalid,
		CodeToolUnavailable,
		CodeScanFailed,
		CodeDatabaseConnection,
		CodeDatabaseQuery,
		CodeDatabaseMigration,
		CodeUnauthorized,
	}

	seen := make(map[ErrorCode]bool)
	for _, code := range codes {
		if string(code) == "" {
			t.Errorf("Error code %v should not be empty", code)
		}
		if seen[code] {
			t.Errorf("Error code %v is duplicated", code)
		}
		seen[code] = true
	}
}

func TestScanError(t *testing.T) {
	t.Run("message without target", func(t *testing.T) {
		err := NewScanError(CodeScanFailed, "scan failed")
		if err.Error() != "[SCAN_FAILED] scan failed" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("message with target and cause", func(t *testing.T) {
		cause := errors.New("host unreachable")
		err := ErrScanFailed("10.0.0.1", cause)
		want := "[SCAN_FAILED] Scan failed (target: 10.0.0.1): host unreachable"
		if err.Error() != want {
			t.Errorf("expected %q, got %q", want, err.Error())
		}
		if !errors.Is(err, cause) {
			t.Error("cause should be reachable through Unwrap")
		}
	})
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, CodeUnknown},
		{"plain error", errors.New("boom"), CodeUnknown},
		{"scan error", ErrInvalidTarget("x", nil), CodeTargetInvalid},
		{"tool unavailable", ErrToolUnavailable(errors.New("missing")), CodeToolUnavailable},
		{"database error", ErrDatabaseConnection(errors.New("refused")), CodeDatabaseConnection},
		{"auth error", ErrUnauthorized(nil), CodeUnauthorized},
		{"config error", ErrConfigMissing("auth.secret_key"), CodeConfiguration},
		{"wrapped with fmt", fmt.Errorf("outer: %w", ErrScanFailed("x", nil)), CodeScanFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsTimeout(t *testing.T) {
	timedOut := ErrScanFailed("10.0.0.1", ErrScanTimeout("10.0.0.1"))
	if !IsTimeout(timedOut) {
		t.Error("expected timeout cause to be detected")
	}
	if GetCode(timedOut) != CodeScanFailed {
		t.Errorf("outer kind should stay SCAN_FAILED, got %s", GetCode(timedOut))
	}
	if IsTimeout(ErrScanFailed("10.0.0.1", errors.New("crash"))) {
		t.Error("non-timeout failure reported as timeout")
	}
	if IsTimeout(nil) {
		t.Error("nil reported as timeout")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid target", ErrInvalidTarget("nope", nil), false},
		{"tool unavailable", ErrToolUnavailable(nil), false},
		{"scan failed", ErrScanFailed("1.1.1.1", nil), true},
		{"database query", NewDatabaseError(CodeDatabaseQuery, "failed"), true},
		{"database conflict", NewDatabaseError(CodeConflict, "exists"), false},
		{"unauthorized", ErrUnauthorized(nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	if !IsNotFound(NewDatabaseError(CodeNotFound, "missing")) {
		t.Error("IsNotFound should match CodeNotFound")
	}
	if !IsConflict(NewDatabaseError(CodeConflict, "exists")) {
		t.Error("IsConflict should match CodeConflict")
	}
	if !IsPersistence(fmt.Errorf("ctx: %w", NewDatabaseError(CodeDatabaseQuery, "x"))) {
		t.Error("IsPersistence should see wrapped database errors")
	}
	if IsPersistence(ErrScanFailed("x", nil)) {
		t.Error("scan errors are not persistence errors")
	}

	dbErr := &DatabaseError{Code: CodeDatabaseQuery, Message: "Database operation failed", Operation: "save scan result"}
	if dbErr.Error() != "[DATABASE_QUERY] Database operation failed (operation: save scan result)" {
		t.Errorf("unexpected message %q", dbErr.Error())
	}
}

func TestDatabaseErrorIncludesCause(t *testing.T) {
	err := WrapDatabaseError(CodeDatabaseQuery, "Database query error",
		fmt.Errorf("password authentication failed for user escudo"))
	err.Operation = "find scan results"

	want := "[DATABASE_QUERY] Database query error (operation: find scan results): " +
		"password authentication failed for user escudo"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
	if err.Message != "Database query error" {
		t.Errorf("public message must not carry the cause, got %q", err.Message)
	}
}
