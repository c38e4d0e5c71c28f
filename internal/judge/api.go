// internal/judge/api.go
package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Nuolong/dredd/internal/util"
)

// APIRequest is one inline submission: source code and inputs are carried in
// the request body instead of pre-existing files. The judge provisions a
// private scratch directory per request, so concurrent requests never share
// a working directory.
type APIRequest struct {
	SourceCode     string `json:"sourceCode"`
	FileName       string `json:"fileName"` // e.g. "sum.py3"; drives extension matching
	Language       string `json:"language"` // optional explicit language name
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expectedOutput"`
	Timeout        int    `json:"timeout"` // seconds; 0 = configured default
}

// APIResponse carries the verdict plus the captured output for display.
type APIResponse struct {
	Result         string `json:"result"`
	Score          Score  `json:"score"`
	Output         string `json:"output"`
	TimeUsedMillis int64  `json:"timeUsed"`
	Error          string `json:"error,omitempty"`
}

// API judges inline submissions in uuid-named scratch directories.
type API struct {
	cfg Config
}

// NewAPI creates the API, making sure the scratch base directory exists.
func NewAPI(cfg Config) (*API, error) {
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = DefaultScratchDir
	}
	if cfg.CaptureLimitKB <= 0 {
		cfg.CaptureLimitKB = DefaultCaptureLimitKB
	}
	if err := util.EnsureDir(cfg.ScratchDir); err != nil {
		return nil, fmt.Errorf("failed to initialize scratch directory: %w", err)
	}
	return &API{cfg: cfg}, nil
}

// Judge runs one inline submission and returns its verdict.
func (a *API) Judge(ctx context.Context, req APIRequest) APIResponse {
	fileName, err := a.submissionFileName(req)
	if err != nil {
		return APIResponse{Result: MsgUnknownLanguage, Score: ScoreCompilerError, Error: err.Error()}
	}

	runDir, cleanup, err := util.SetupRunDir(a.cfg.ScratchDir)
	if err != nil {
		return internalError(err)
	}
	defer cleanup()

	sourcePath := filepath.Join(runDir, fileName)
	inputPath := filepath.Join(runDir, "input")
	expectedPath := filepath.Join(runDir, "expected")
	for path, content := range map[string]string{
		sourcePath:   req.SourceCode,
		inputPath:    req.Stdin,
		expectedPath: req.ExpectedOutput,
	} {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return internalError(fmt.Errorf("write %s: %w", path, err))
		}
	}

	cfg := a.cfg
	cfg.WorkDir = runDir

	var timeout time.Duration
	if req.Timeout > 0 {
		timeout = time.Duration(req.Timeout) * time.Second
	}

	start := time.Now()
	verdict := New(cfg).Run(ctx, Request{
		SourcePath:   sourcePath,
		InputPath:    inputPath,
		ExpectedPath: expectedPath,
		Timeout:      timeout,
		Language:     req.Language,
	})

	return APIResponse{
		Result:         verdict.Result,
		Score:          verdict.Score,
		Output:         readLimited(filepath.Join(runDir, cfg.CaptureFile), cfg.CaptureLimitBytes()),
		TimeUsedMillis: time.Since(start).Milliseconds(),
	}
}

// JudgeJSON accepts a JSON request and returns the JSON response.
func (a *API) JudgeJSON(ctx context.Context, jsonRequest string) (string, error) {
	var req APIRequest
	if err := json.Unmarshal([]byte(jsonRequest), &req); err != nil {
		return "", fmt.Errorf("failed to parse request JSON: %w", err)
	}

	response := a.Judge(ctx, req)

	jsonResponse, err := json.Marshal(response)
	if err != nil {
		return "", fmt.Errorf("failed to serialize response: %w", err)
	}
	return string(jsonResponse), nil
}

// submissionFileName picks the on-disk name for the submitted source. With no
// file name, the explicit language's first registered extension decides it.
func (a *API) submissionFileName(req APIRequest) (string, error) {
	if req.FileName != "" {
		return filepath.Base(req.FileName), nil
	}
	if req.Language == "" {
		return "", fmt.Errorf("%w: fileName or language is required", ErrUnsupportedLanguage)
	}
	lang, err := Resolve("", req.Language)
	if err != nil {
		return "", err
	}
	return "main" + lang.Extensions[0], nil
}

func internalError(err error) APIResponse {
	util.Error("judge request failed", zap.Error(err))
	return APIResponse{Result: MsgExecutionError, Score: ScoreExecutionError, Error: err.Error()}
}

// readLimited returns up to limit bytes of a file, empty string on error.
func readLimited(path string, limit int64) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	if limit <= 0 {
		data, _ := io.ReadAll(f)
		return string(data)
	}
	data, _ := io.ReadAll(io.LimitReader(f, limit))
	return string(data)
}
