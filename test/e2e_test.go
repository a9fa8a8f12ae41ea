package test

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"qt-verify/test/fixture"
)

func TestSystemIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs the binary")
	}

	// 1. Setup Environment
	rootDir, _ := filepath.Abs("..")
	cmdDir := filepath.Join(rootDir, "cmd", "qt-verify")
	workDir := t.TempDir()
	outputDir := filepath.Join(workDir, "output")

	binaryName := "qt-verify-test"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	binaryPath := filepath.Join(workDir, binaryName)

	// 2. Build the Application
	t.Logf("Building application from %s...", cmdDir)
	buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
	buildCmd.Dir = cmdDir
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr
	if err := buildCmd.Run(); err != nil {
		t.Fatalf("Failed to build application: %v", err)
	}

	// 3. Create the template and station artifacts
	files, err := fixture.Write(workDir)
	if err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	// 4. Run the Binary
	t.Log("Running application binary...")
	runCmd := exec.Command(binaryPath,
		"-config", filepath.Join(workDir, "none.yaml"),
		"-s", files.Template,
		"-l", files.CSVLog,
		"-m", files.Modem,
		"-c", files.CSVFile,
		"-v", fixture.TestPlan,
		"-d", fixture.VerifyDate,
		"-r", "Tester",
		"-output", outputDir,
		"-notice",
	)
	runCmd.Dir = workDir
	console := &bytes.Buffer{}
	runCmd.Stdout = io.MultiWriter(os.Stdout, console)
	runCmd.Stderr = os.Stderr

	if err := runCmd.Run(); err != nil {
		t.Fatalf("Application run failed: %v", err)
	}
	if !strings.Contains(console.String(), "Log written to") || !strings.Contains(console.String(), "qt_verify.log") {
		t.Errorf("Console output does not name the log file:\n%s", console.String())
	}

	// 5. Verify Outputs
	base := "QTVerification_" + fixture.Station + "_" + fixture.VersionName
	expectedFiles := []string{
		base + ".xlsx",
		base + ".docx",
		"qt_verify.log",
	}

	for _, f := range expectedFiles {
		path := filepath.Join(outputDir, f)
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			t.Errorf("Expected output file missing: %s", f)
		} else if info.Size() == 0 {
			t.Errorf("Output file is empty: %s", f)
		} else {
			t.Logf("✅ Verified output: %s (%d bytes)", f, info.Size())
		}
	}

	// 6. Check the inserted history row with the verification script
	t.Log("Running history consistency check...")
	verifyHistory(t, filepath.Join(outputDir, base+".xlsx"))
}

// verifyHistory runs scripts/verify_history.go against the document
func verifyHistory(t *testing.T, excelPath string) {
	rootDir, _ := filepath.Abs("..")
	scriptPath := filepath.Join(rootDir, "scripts", "verify_history.go")
	cmd := exec.Command("go", "run", scriptPath, excelPath)
	cmd.Dir = rootDir
	output, err := cmd.CombinedOutput()

	if err != nil {
		t.Errorf("History verification failed: %v\nOutput: %s", err, string(output))
	} else {
		t.Logf("✅ History check passed: %s", string(output))
	}
}
