// internal/judge/supervisor.go
package judge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/Nuolong/dredd/internal/util"
)

// DefaultPollInterval is how often the supervisor checks the child between
// sleeps while waiting for it to exit.
const DefaultPollInterval = 250 * time.Millisecond

// ErrSpawn marks a command that could not be started at all, as opposed to
// one that started and exited non-zero.
var ErrSpawn = errors.New("command could not be started")

// Command describes one supervised child process.
type Command struct {
	Argv   []string
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Outcome reports how a supervised child finished.
type Outcome struct {
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Supervisor runs commands as process-group leaders under a wall-clock
// deadline. Whatever path a run takes, the whole group is signaled before
// Run returns, so descendants forked by the child cannot outlive it.
type Supervisor struct {
	pollInterval time.Duration
}

// NewSupervisor creates a supervisor. interval <= 0 selects the default.
func NewSupervisor(interval time.Duration) *Supervisor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Supervisor{pollInterval: interval}
}

// Run starts the command in its own process group and waits for it, checking
// the deadline every poll interval. On timeout the group is signaled and
// TimedOut is set; the child's exit code is then meaningless and reported
// as -1. The timeout path does not wait for the group to die, so Run
// returns within one poll interval of the deadline even when the child
// ignores SIGTERM. The group termination signal is sent unconditionally
// before returning, on the natural-exit path too.
func (s *Supervisor) Run(ctx context.Context, command Command, timeout time.Duration) (Outcome, error) {
	if len(command.Argv) == 0 {
		return Outcome{ExitCode: -1}, fmt.Errorf("%w: empty command", ErrSpawn)
	}

	// #nosec G204
	cmd := exec.Command(command.Argv[0], command.Argv[1:]...)
	cmd.Dir = command.Dir
	cmd.Stdin = command.Stdin
	cmd.Stdout = command.Stdout
	cmd.Stderr = command.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Outcome{ExitCode: -1}, fmt.Errorf("%w: %v", ErrSpawn, err)
	}
	pgid := cmd.Process.Pid
	defer terminateGroup(pgid)

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case waitErr := <-waitCh:
			return Outcome{
				ExitCode: exitCode(cmd, waitErr),
				Duration: time.Since(start),
			}, nil
		case <-ticker.C:
			if time.Since(start) < timeout {
				continue
			}
			util.Debug("deadline reached, killing process group",
				zap.Int("pgid", pgid), zap.Duration("timeout", timeout))
			killGroupAndReap(pgid, waitCh, s.pollInterval)
			return Outcome{
				ExitCode: -1,
				TimedOut: true,
				Duration: time.Since(start),
			}, nil
		case <-ctx.Done():
			killGroupAndReap(pgid, waitCh, s.pollInterval)
			return Outcome{ExitCode: -1, Duration: time.Since(start)}, ctx.Err()
		}
	}
}

// killGroupAndReap signals the group and returns immediately; Run must not
// be held past its deadline by a child that ignores SIGTERM. The reap moves
// to a background goroutine that escalates to SIGKILL after one grace
// interval, so the child cannot survive either.
func killGroupAndReap(pgid int, waitCh <-chan error, grace time.Duration) {
	terminateGroup(pgid)
	go func() {
		select {
		case <-waitCh:
		case <-time.After(grace):
			if err := unix.Kill(-pgid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
				util.Warn("kill process group", zap.Int("pgid", pgid), zap.Error(err))
			}
			<-waitCh
		}
	}()
}

// terminateGroup signals the whole process group. A group that is already
// gone reports ESRCH, which is swallowed: cleanup must be idempotent.
func terminateGroup(pgid int) {
	if pgid <= 0 {
		return
	}
	if err := unix.Kill(-pgid, unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
		util.Warn("terminate process group", zap.Int("pgid", pgid), zap.Error(err))
	}
}

func exitCode(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// LimitedWriter wraps an io.Writer but stops writing after a byte limit,
// pretending the write succeeded so the child is not broken by EPIPE.
type LimitedWriter struct {
	w        io.Writer
	limit    int64
	written  int64
	mu       sync.Mutex
	exceeded bool
}

// NewLimitedWriter creates a LimitedWriter. limit <= 0 means unlimited.
func NewLimitedWriter(w io.Writer, limit int64) *LimitedWriter {
	return &LimitedWriter{w: w, limit: limit}
}

// Exceeded reports whether the limit was reached.
func (lw *LimitedWriter) Exceeded() bool {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.exceeded
}

func (lw *LimitedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if lw.limit <= 0 {
		n, err := lw.w.Write(p)
		lw.written += int64(n)
		return n, err
	}

	remaining := lw.limit - lw.written
	if remaining <= 0 {
		lw.exceeded = true
		return len(p), nil
	}

	writeLen := int64(len(p))
	if writeLen > remaining {
		writeLen = remaining
		lw.exceeded = true
	}

	n, err := lw.w.Write(p[:writeLen])
	lw.written += int64(n)
	if err == nil {
		return len(p), nil
	}
	return n, err
}
