package main

import (
	"testing"
)

func TestExecute_Version(t *testing.T) {
	if err := Execute([]string{"--version"}); err != nil {
		t.Errorf("Expected no error for --version, got: %v", err)
	}
}

func TestExecute_Help(t *testing.T) {
	if err := Execute([]string{"--help"}); err != nil {
		t.Errorf("Expected no error for --help, got: %v", err)
	}
}

func TestExecute_InvalidFlag(t *testing.T) {
	if err := Execute([]string{"--invalid-flag"}); err == nil {
		t.Error("Expected error for invalid flag")
	}
}
