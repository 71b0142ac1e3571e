package main

import (
	"errors"
	"testing"
)

func TestMainWiring(t *testing.T) {
	origExecute, origClose, origExit := executeCmd, closeLogging, exit
	t.Cleanup(func() {
		executeCmd, closeLogging, exit = origExecute, origClose, origExit
	})

	for _, tc := range []struct {
		name     string
		execErr  error
		wantCode int
	}{
		{"success", nil, -1},
		{"failure", errors.New("boom"), 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			closed := false
			code := -1
			executeCmd = func() error { return tc.execErr }
			closeLogging = func() error { closed = true; return nil }
			exit = func(c int) { code = c }

			main()

			if !closed {
				t.Fatal("expected logging to be closed")
			}
			if code != tc.wantCode {
				t.Fatalf("exit code = %d, want %d", code, tc.wantCode)
			}
		})
	}
}
