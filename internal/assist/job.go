package assist

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/kakuhq/kaku-assist/internal/logging"
)

var jobLog = logging.ForComponent(logging.CompJob)

// Artifact file names inside a job directory. The status file is written
// last by the worker, so its presence means the other artifacts are final.
const (
	requestFile  = "request.json"
	responseFile = "response.json"
	stderrFile   = "stderr.log"
	statusFile   = "status"
)

// orphanJobAge is how old a job directory must be before the eviction
// sweep removes it. Covers workers that died without writing status.
const orphanJobAge = 10 * time.Minute

var jobSeq atomic.Uint64

func newJobID() string {
	n := jobSeq.Add(1)
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), n)
}

// Job is a single analysis request handed to a detached worker process.
// All communication happens through files in Dir.
type Job struct {
	ID        string
	Dir       string
	StartedAt time.Time
}

// JobResult is what the worker left behind.
type JobResult struct {
	Status   int
	Response []byte
	Stderr   []byte
}

// Runner launches worker processes. The launch hook exists for tests;
// production uses launchDetached.
type Runner struct {
	jobsDir string
	selfExe string
	launch  func(selfExe, dir string) error
}

// NewRunner creates a Runner spawning workers from the current executable.
func NewRunner(jobsDir string) (*Runner, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolving executable: %w", err)
	}
	return &Runner{jobsDir: jobsDir, selfExe: exe, launch: launchDetached}, nil
}

// Start writes the request payload into a fresh job directory and launches
// a detached worker on it. On any error the directory is removed and
// ErrJobLaunch wrapped in.
func (r *Runner) Start(payload []byte) (*Job, error) {
	id := newJobID()
	dir := filepath.Join(r.jobsDir, id)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJobLaunch, err)
	}
	if err := writeFileAtomic(filepath.Join(dir, requestFile), payload, 0o600); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("%w: %v", ErrJobLaunch, err)
	}
	if err := r.launch(r.selfExe, dir); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("%w: %v", ErrJobLaunch, err)
	}
	jobLog.Debug("job_started", slog.String("job", id))
	return &Job{ID: id, Dir: dir, StartedAt: time.Now()}, nil
}

// launchDetached starts "kaku-assist worker --dir <dir>" in its own session
// so the worker outlives the daemon and is never left as a zombie.
func launchDetached(selfExe, dir string) error {
	cmd := exec.Command(selfExe, "worker", "--dir", dir)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// Done reports whether the worker finished, signalled by the status file.
func (j *Job) Done() bool {
	_, err := os.Stat(filepath.Join(j.Dir, statusFile))
	return err == nil
}

// Result reads the worker's artifacts. Call only after Done returns true.
func (j *Job) Result() (*JobResult, error) {
	raw, err := os.ReadFile(filepath.Join(j.Dir, statusFile))
	if err != nil {
		return nil, fmt.Errorf("reading job status: %w", err)
	}
	status, err := strconv.Atoi(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing job status %q: %w", raw, err)
	}
	// Response and stderr may legitimately be absent on early failures.
	resp, _ := os.ReadFile(filepath.Join(j.Dir, responseFile))
	errOut, _ := os.ReadFile(filepath.Join(j.Dir, stderrFile))
	return &JobResult{Status: status, Response: resp, Stderr: errOut}, nil
}

// Cleanup removes the job directory. Safe to call unconditionally; a
// still-running worker writing into a removed directory fails harmlessly.
func (j *Job) Cleanup() {
	if err := os.RemoveAll(j.Dir); err != nil {
		jobLog.Warn("job_cleanup_failed", slog.String("job", j.ID), slog.Any("error", err))
	}
}

// SweepOrphanJobs removes job directories older than orphanJobAge. These
// accumulate when the daemon is killed between launch and cleanup.
func SweepOrphanJobs(jobsDir string) {
	entries, err := os.ReadDir(jobsDir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-orphanJobAge)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(jobsDir, e.Name())
		if err := os.RemoveAll(path); err == nil {
			jobLog.Debug("orphan_job_removed", slog.String("dir", e.Name()))
		}
	}
}

// writeFileAtomic writes data via a temp file then renames into place, so
// readers never observe a partial file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
