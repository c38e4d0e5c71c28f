// internal/judge/judge.go
package judge

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Nuolong/dredd/internal/util"
)

// Request describes one judged run. It is built once from external input and
// does not change for the run's lifetime.
type Request struct {
	SourcePath   string
	InputPath    string
	ExpectedPath string
	Timeout      time.Duration // 0 selects the configured default
	Language     string        // optional explicit language name
}

// Judge sequences resolve, compile, execute and compare, mapping every
// failure path to a terminal verdict. Exactly one verdict comes out of Run;
// no phase is ever retried.
type Judge struct {
	cfg      Config
	registry []Language
	sup      *Supervisor
}

// New creates a judge over the fixed language registry.
func New(cfg Config) *Judge {
	return &Judge{
		cfg:      cfg,
		registry: Registry,
		sup:      NewSupervisor(cfg.PollInterval()),
	}
}

// Run judges a single submission. The returned verdict carries the result
// message, the score code and the process exit status to report.
func (j *Judge) Run(ctx context.Context, req Request) Verdict {
	lang, err := resolve(j.registry, req.SourcePath, req.Language)
	if err != nil {
		util.Debug("language resolution failed",
			zap.String("source", req.SourcePath), zap.Error(err))
		return NewVerdict(MsgUnknownLanguage, ExitFailure, ScoreCompilerError)
	}

	executable := ExecutableName(req.SourcePath)
	capturePath := filepath.Join(j.cfg.WorkDir, j.cfg.CaptureFile)

	// The capture file is created fresh for the compile phase and appended to
	// by the execute phase, so compiler diagnostics come first in it.
	capture, err := os.Create(capturePath)
	if err != nil {
		util.Error("create capture file", zap.String("path", capturePath), zap.Error(err))
		return NewVerdict(MsgExecutionError, ExitFailure, ScoreExecutionError)
	}

	if !lang.Interpreted() {
		if v, failed := j.compile(ctx, lang, req.SourcePath, executable, capture); failed {
			return v
		}
	} else {
		util.Debug("skipping compilation", zap.String("language", lang.Name))
		capture.Close()
	}

	outcome, v, failed := j.execute(ctx, lang, req, executable, capturePath)
	if failed {
		return v
	}
	util.Debug("execution finished",
		zap.String("language", lang.Name),
		zap.Int("exitCode", outcome.ExitCode),
		zap.Duration("duration", outcome.Duration))

	return j.compare(capturePath, req.ExpectedPath)
}

// compile runs the language's compile command under the shell with stdout and
// stderr merged into the capture file: the diagnostics are the failure
// evidence. The capture file is closed either way.
func (j *Judge) compile(ctx context.Context, lang Language, sourcePath, executable string, capture *os.File) (Verdict, bool) {
	defer capture.Close()

	cmdStr := lang.CompileCommand(sourcePath, executable)
	util.Debug("compiling", zap.String("language", lang.Name), zap.String("command", cmdStr))

	outcome, err := j.sup.Run(ctx, Command{
		Argv:   []string{"sh", "-c", cmdStr},
		Dir:    j.cfg.WorkDir,
		Stdout: capture,
		Stderr: capture,
	}, j.cfg.CompileTimeout())
	if err != nil || outcome.ExitCode != 0 {
		util.Debug("compilation failed",
			zap.String("language", lang.Name),
			zap.Int("exitCode", outcome.ExitCode),
			zap.Bool("timedOut", outcome.TimedOut),
			zap.Error(err))
		return NewVerdict(MsgCompilationError, ExitFailure, ScoreCompilerError), true
	}
	return Verdict{}, false
}

// execute runs the submission with the input file as stdin and the capture
// file (append) as stdout. Program stderr is discarded so it cannot
// contaminate the output being graded.
func (j *Judge) execute(ctx context.Context, lang Language, req Request, executable, capturePath string) (Outcome, Verdict, bool) {
	argv, err := lang.ExecuteCommand(req.SourcePath, executable)
	if err != nil {
		util.Error("execute command", zap.Error(err))
		return Outcome{}, NewVerdict(MsgExecutionError, ExitFailure, ScoreExecutionError), true
	}

	stdin, err := os.Open(req.InputPath)
	if err != nil {
		util.Error("open input", zap.String("path", req.InputPath), zap.Error(err))
		return Outcome{}, NewVerdict(MsgExecutionError, ExitFailure, ScoreExecutionError), true
	}
	defer stdin.Close()

	capture, err := os.OpenFile(capturePath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		util.Error("open capture file", zap.String("path", capturePath), zap.Error(err))
		return Outcome{}, NewVerdict(MsgExecutionError, ExitFailure, ScoreExecutionError), true
	}
	defer capture.Close()

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = j.cfg.Timeout()
	}
	util.Debug("executing",
		zap.String("language", lang.Name),
		zap.Strings("argv", argv),
		zap.Duration("timeout", timeout))

	outcome, err := j.sup.Run(ctx, Command{
		Argv:   argv,
		Dir:    j.cfg.WorkDir,
		Stdin:  stdin,
		Stdout: NewLimitedWriter(capture, j.cfg.CaptureLimitBytes()),
		Stderr: io.Discard,
	}, timeout)
	switch {
	case err != nil:
		util.Debug("spawn failed", zap.Strings("argv", argv), zap.Error(err))
		return outcome, NewVerdict(MsgExecutionError, ExitFailure, ScoreExecutionError), true
	case outcome.TimedOut:
		return outcome, NewVerdict(MsgTimeLimit, ExitFailure, ScoreTimeLimitExceeded), true
	case outcome.ExitCode != 0:
		// The submission's own exit code is propagated as the judge's status.
		// A signal-killed child has no exit code of its own (-1); report a
		// plain failure rather than letting os.Exit wrap the negative value.
		status := outcome.ExitCode
		if status < 0 {
			status = ExitFailure
		}
		return outcome, NewVerdict(MsgExecutionError, status, ScoreExecutionError), true
	}
	return outcome, Verdict{}, false
}

func (j *Judge) compare(capturePath, expectedPath string) Verdict {
	actual, err := os.Open(capturePath)
	if err != nil {
		util.Error("open captured output", zap.String("path", capturePath), zap.Error(err))
		return NewVerdict(MsgExecutionError, ExitFailure, ScoreExecutionError)
	}
	defer actual.Close()

	expected, err := os.Open(expectedPath)
	if err != nil {
		util.Error("open reference output", zap.String("path", expectedPath), zap.Error(err))
		return NewVerdict(MsgExecutionError, ExitFailure, ScoreExecutionError)
	}
	defer expected.Close()

	comparison, err := Compare(actual, expected)
	if err != nil {
		util.Error("compare outputs", zap.Error(err))
		return NewVerdict(MsgExecutionError, ExitFailure, ScoreExecutionError)
	}
	util.Debug("comparison done", zap.Stringer("comparison", comparison))

	switch comparison {
	case FormatMismatch:
		return NewVerdict(MsgFormatError, ExitFailure, ScoreWrongFormatting)
	case WrongAnswer:
		return NewVerdict(MsgWrongAnswer, ExitFailure, ScoreWrongAnswer)
	default:
		return NewVerdict(MsgSuccess, ExitSuccess, ScoreProgramSuccess)
	}
}
