package judge

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ScratchDir = t.TempDir()
	cfg.PollIntervalMS = 50
	api, err := NewAPI(cfg)
	require.NoError(t, err)
	return api
}

func TestAPIJudgeSuccess(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Judge(context.Background(), APIRequest{
		SourceCode:     "echo hello\n",
		FileName:       "hello.sh",
		ExpectedOutput: "hello\n",
	})
	assert.Equal(t, MsgSuccess, resp.Result)
	assert.Equal(t, ScoreProgramSuccess, resp.Score)
	assert.Equal(t, "hello\n", resp.Output)
	assert.Empty(t, resp.Error)
}

func TestAPIJudgeWrongAnswer(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Judge(context.Background(), APIRequest{
		SourceCode:     "echo goodbye\n",
		FileName:       "hello.sh",
		ExpectedOutput: "hello\n",
	})
	assert.Equal(t, MsgWrongAnswer, resp.Result)
	assert.Equal(t, ScoreWrongAnswer, resp.Score)
}

func TestAPIJudgeStdin(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Judge(context.Background(), APIRequest{
		SourceCode:     "cat\n",
		FileName:       "echo.sh",
		Stdin:          "3 7\n",
		ExpectedOutput: "3 7\n",
	})
	assert.Equal(t, ScoreProgramSuccess, resp.Score)
}

func TestAPIFileNameFromLanguage(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Judge(context.Background(), APIRequest{
		SourceCode:     "echo hello\n",
		Language:       "bash",
		ExpectedOutput: "hello\n",
	})
	assert.Equal(t, ScoreProgramSuccess, resp.Score)
}

func TestAPIUnknownLanguage(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Judge(context.Background(), APIRequest{SourceCode: "whatever"})
	assert.Equal(t, MsgUnknownLanguage, resp.Result)
	assert.Equal(t, ScoreCompilerError, resp.Score)
	assert.NotEmpty(t, resp.Error)
}

func TestAPIJudgeJSON(t *testing.T) {
	api := newTestAPI(t)

	out, err := api.JudgeJSON(context.Background(), `{
		"sourceCode": "echo hello\n",
		"fileName": "hello.sh",
		"expectedOutput": "hello\n"
	}`)
	require.NoError(t, err)

	var resp APIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, MsgSuccess, resp.Result)
	assert.Equal(t, ScoreProgramSuccess, resp.Score)

	_, err = api.JudgeJSON(context.Background(), "{not json")
	assert.Error(t, err)
}

func TestAPICapsReturnedOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScratchDir = t.TempDir()
	cfg.CaptureLimitKB = 1
	api, err := NewAPI(cfg)
	require.NoError(t, err)

	resp := api.Judge(context.Background(), APIRequest{
		SourceCode: "yes x | head -n 4096\n",
		FileName:   "big.sh",
	})
	assert.LessOrEqual(t, len(resp.Output), 1024)
}
