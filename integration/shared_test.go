//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedBinaryPath holds the path to a shared churnscope binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getChurnscopeBinary returns the path to the churnscope binary, building it once if needed.
func getChurnscopeBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "churnscope-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "churnscope")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build churnscope: %v", err))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// writeSampleTransactions writes a small transactions CSV for CLI runs.
func writeSampleTransactions(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	content := `customer_id,timestamp,amount,is_return,category
A,2025-06-28,500,false,apparel
A,2025-05-01,500,false,apparel
A,2025-03-01,500,false,apparel
B,2024-09-03,50,false,books
C,2025-05-31,240,false,garden
C,2025-03-01,240,false,garden
C,2024-12-01,240,true,garden
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write sample transactions: %v", err)
	}
	return path
}

func runChurnscopeCommand(t *testing.T, args ...string) error {
	binaryPath := getChurnscopeBinary()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
