package config_test

import (
	"errors"
	"log"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/louisbranch/garoball/internal/platform/config"
)

// The child process runs the exit path; os.Exit cannot be observed in-process.
func TestExitfUsesLogPrefix(t *testing.T) {
	if os.Getenv("GAROBALL_EXITF_CHILD") == "1" {
		log.SetPrefix("[SIM] ")
		config.Exitf("sim: %s", "roster has no teams")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitfUsesLogPrefix$")
	cmd.Env = append(os.Environ(), "GAROBALL_EXITF_CHILD=1")
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("err = %T %v, want *exec.ExitError", err, err)
	}
	if exitErr.ExitCode() != 1 {
		t.Fatalf("exit code = %d, want 1", exitErr.ExitCode())
	}
	if want := "[SIM] sim: roster has no teams"; !strings.Contains(string(out), want) {
		t.Fatalf("output = %q, want %q", out, want)
	}
}
