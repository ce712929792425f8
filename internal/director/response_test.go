package director

import (
	"errors"
	"testing"
)

func TestInterpretResponseSuccess(t *testing.T) {
	succeeded, result, err := InterpretResponse("FOO", "FOO\r01FOO\r", true)
	if err != nil {
		t.Fatalf("InterpretResponse failed: %v", err)
	}
	if !succeeded {
		t.Error("expected success for 01 marker")
	}
	if result != "01FOO\r" {
		t.Errorf("result = %q, want %q", result, "01FOO\r")
	}
}

func TestInterpretResponseBadCommand(t *testing.T) {
	_, _, err := InterpretResponse("FOO", "FOO\rxxFOOxx\r", true)
	if !errors.Is(err, ErrBadCommand) {
		t.Errorf("error = %v, want ErrBadCommand", err)
	}
}

func TestInterpretResponseEchoMismatch(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"wrong echo", "BAR\r01FOO\r"},
		{"garbage", "\xff\xfd\x03FOO\r01FOO\r"},
		{"no carriage return", "FOO"},
		{"empty", ""},
	}

	for _, tt := range tests {
		_, _, err := InterpretResponse("FOO", tt.response, true)
		var mismatch *EchoMismatchError
		if !errors.As(err, &mismatch) {
			t.Errorf("%s: error = %v, want EchoMismatchError", tt.name, err)
			continue
		}
		if mismatch.Sent != "FOO" {
			t.Errorf("%s: mismatch.Sent = %q, want FOO", tt.name, mismatch.Sent)
		}
	}
}

func TestInterpretResponseNoSuccessCode(t *testing.T) {
	// A body without the 01 marker is a plain failure when a success code
	// was expected...
	succeeded, result, err := InterpretResponse("FOO", "FOO\rsome data\r\n", true)
	if err != nil {
		t.Fatalf("InterpretResponse failed: %v", err)
	}
	if succeeded {
		t.Error("expected succeeded=false for body without success marker")
	}
	if result != "some data\r\n" {
		t.Errorf("result = %q", result)
	}

	// ...but raw data when the caller only wants the body (status dumps).
	succeeded, result, err = InterpretResponse("INPUT?", "INPUT?\rrow one\r\nrow two\r\n", false)
	if err != nil {
		t.Fatalf("InterpretResponse failed: %v", err)
	}
	if !succeeded {
		t.Error("expected succeeded=true for raw dump body")
	}
	if result != "row one\r\nrow two\r\n" {
		t.Errorf("result = %q", result)
	}
}
