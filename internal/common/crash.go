package common

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// RecoverWithCrashFile writes a crash report to dir and exits when the caller panics.
// Usage: defer common.RecoverWithCrashFile(dir)
func RecoverWithCrashFile(dir string) {
	r := recover()
	if r == nil {
		return
	}

	buf := make([]byte, 64*1024)
	stack := string(buf[:runtime.Stack(buf, true)])

	report := fmt.Sprintf("=== TWBRIEF CRASH REPORT ===\nTime: %s\nVersion: %s\n\n=== PANIC VALUE ===\n%v\n\n=== STACKS ===\n%s\n",
		time.Now().Format(time.RFC3339), GetFullVersion(), r, stack)

	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", time.Now().Format("2006-01-02T15-04-05")))
	if err := os.MkdirAll(dir, 0755); err == nil {
		if err := os.WriteFile(path, []byte(report), 0644); err == nil {
			fmt.Fprintf(os.Stderr, "\n!!! FATAL CRASH - Report saved to: %s !!!\n", path)
		}
	}
	fmt.Fprintf(os.Stderr, "Panic: %v\n", r)
	os.Exit(1)
}
