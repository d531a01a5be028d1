package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte("hunter22")
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestSentinels_MatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("check status: %w", ErrAccountDeactivated)
	if !errors.Is(err, ErrAccountDeactivated) {
		t.Fatalf("wrapped deactivation error must match")
	}
	if errors.Is(err, errors.New("account deactivated")) {
		t.Fatalf("errors with the same text must not match")
	}
}
