package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeExportUnavailable, "no drawing surface for %q", "notes")

	if err.Code != ErrCodeExportUnavailable {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeExportUnavailable)
	}
	if err.Message != `no drawing surface for "notes"` {
		t.Errorf("Message = %q", err.Message)
	}
	if got, want := err.Error(), `EXPORT_UNAVAILABLE: no drawing surface for "notes"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrap(t *testing.T) {
	dial := errors.New("dial tcp: connection refused")
	err := Wrap(ErrCodeNetwork, dial, "POST %s", "images2")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}
	if errors.Unwrap(err) != dial {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), dial)
	}
	if !errors.Is(err, dial) {
		t.Error("errors.Is(err, dial) = false, want true")
	}
	if got, want := err.Error(), "NETWORK_ERROR: POST images2: dial tcp: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIs(t *testing.T) {
	read := New(ErrCodeClipboardRead, "clipboard empty")

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"same code", read, ErrCodeClipboardRead, true},
		{"other code", read, ErrCodeClipboardAborted, false},
		{"outermost wins", Wrap(ErrCodeClipboardParse, read, "paste"), ErrCodeClipboardParse, true},
		{"inner hidden", Wrap(ErrCodeClipboardParse, read, "paste"), ErrCodeClipboardRead, false},
		{"plain error", errors.New("boom"), ErrCodeClipboardRead, false},
		{"nil", nil, ErrCodeClipboardRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"coded", New(ErrCodeNotABlob, "got text/plain"), ErrCodeNotABlob},
		{"wrapped by fmt", fmt.Errorf("register: %w", New(ErrCodeDuplicateAction, "cut")), ErrCodeDuplicateAction},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeEmptyCanvas, "Cannot export an empty canvas."), "Cannot export an empty canvas."},
		{"plain", errors.New("decode webp: unexpected EOF"), "decode webp: unexpected EOF"},
		{
			"http status",
			Wrap(ErrCodeHTTPStatus, &HTTPStatusError{StatusCode: 503, Body: "GPU queue full"}, "POST images2.netwrck.com"),
			"POST images2.netwrck.com: HTTP error! status: 503, message: GPU queue full",
		},
		{
			"network",
			Wrap(ErrCodeNetwork, errors.New("dial tcp: connection refused"), "POST image.netwrck.com"),
			"POST image.netwrck.com: dial tcp: connection refused",
		},
		{
			"localized clipboard write",
			Wrap(ErrCodeClipboardWrite, Wrap(ErrCodeClipboardWrite, errors.New("xclip: exit status 1"), "write clipboard"), "Couldn't copy to clipboard."),
			"Couldn't copy to clipboard: xclip: exit status 1",
		},
		{
			"cause hidden for config",
			Wrap(ErrCodeInvalidConfig, errors.New("toml: line 3"), "decode config"),
			"decode config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPStatusError(t *testing.T) {
	err := Wrap(ErrCodeHTTPStatus, &HTTPStatusError{StatusCode: 502, Body: "bad gateway"}, "upload rejected")

	expected := "HTTP error! status: 502, message: bad gateway"
	var status *HTTPStatusError
	if !errors.As(err, &status) {
		t.Fatal("errors.As(*HTTPStatusError) = false, want true")
	}
	if status.Error() != expected {
		t.Errorf("Error() = %v, want %v", status.Error(), expected)
	}
	if !Is(err, ErrCodeHTTPStatus) {
		t.Error("Is(err, ErrCodeHTTPStatus) = false, want true")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeNetwork, true},
		{ErrCodeHTTPStatus, true},
		{ErrCodeInvalidResponse, false},
		{ErrCodeNotABlob, false},
		{ErrCodeClipboardAborted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := IsRetryable(tt.code); got != tt.want {
				t.Errorf("IsRetryable(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
