package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"capstan/internal/config"
	"capstan/internal/services/transcriber"
)

// minFreeBytes is the disk headroom required for exports, logs, and the
// job ledger. Video downloads apply their own larger floor at download
// time.
const minFreeBytes uint64 = 100 << 20

// statfs allows tests to stub filesystem stats.
var statfs = func(path string) (total uint64, free uint64, err error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	return stat.Blocks * uint64(stat.Bsize), stat.Bavail * uint64(stat.Bsize), nil
}

// CheckBackend verifies that the transcription backend answers its
// health endpoint. Missing server-side dependencies are folded into the
// detail text without failing the check; the backend rejects work it
// cannot do at submission time.
func CheckBackend(ctx context.Context, cfg *config.Config) Result {
	row, _ := backendHealth(ctx, cfg)
	return row
}

func backendHealth(ctx context.Context, cfg *config.Config) (Result, *transcriber.HealthReport) {
	const name = "Backend"

	if cfg == nil {
		return Result{Name: name, Detail: "configuration unavailable"}, nil
	}
	if strings.TrimSpace(cfg.Backend.BaseURL) == "" {
		return Result{Name: name, Detail: "missing url"}, nil
	}

	client := transcriber.NewConfiguredClient(cfg)
	report, err := client.Health(ctx)
	if err != nil {
		return Result{Name: name, Detail: summarizeBackendError(err)}, nil
	}

	detail := "reachable"
	if missing := missingDependencies(report); len(missing) > 0 {
		detail = fmt.Sprintf("reachable (unavailable: %s)", strings.Join(missing, ", "))
	}
	return Result{Name: name, Passed: report.Healthy(), Detail: detail}, &report
}

// CheckWorkspace verifies that the directory exists and is readable/writable.
func CheckWorkspace(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies the filesystem holding path has enough free
// space for capstan's local artifacts.
func CheckDiskSpace(name, path string) Result {
	_, free, err := statfs(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s free, need at least %s", humanize.Bytes(free), humanize.Bytes(minFreeBytes))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s free", humanize.Bytes(free))}
}

func missingDependencies(report transcriber.HealthReport) []string {
	missing := make([]string, 0)
	for name, available := range report.Dependencies {
		if !available {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func dependencyResults(report *transcriber.HealthReport) []Result {
	names := make([]string, 0, len(report.Dependencies))
	for name := range report.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]Result, 0, len(names))
	for _, name := range names {
		available := report.Dependencies[name]
		detail := "available"
		if !available {
			detail = "unavailable on server"
		}
		results = append(results, Result{Name: name, Passed: available, Detail: detail})
	}
	return results
}

// summarizeBackendError produces a human-readable summary for backend
// health check failures.
func summarizeBackendError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (backend unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (backend unreachable)"
	}
	return err.Error()
}
