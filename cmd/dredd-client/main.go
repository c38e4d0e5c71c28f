// cmd/dredd-client/main.go
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Nuolong/dredd/internal/judge"
)

var (
	serverURL    = flag.String("server", "http://localhost:8080", "dredd server URL")
	sourceFile   = flag.String("source", "", "submission source file path")
	stdinFile    = flag.String("stdin", "", "input data file path")
	expectedFile = flag.String("expected", "", "reference output file path")
	langName     = flag.String("lang", "", "explicit language name")
	timeout      = flag.Int("timeout", 0, "execution timeout in seconds (0 = server default)")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime)

	if *sourceFile == "" {
		flag.Usage()
		log.Fatal("a source file path is required")
	}

	sourceCode, err := os.ReadFile(*sourceFile)
	if err != nil {
		log.Fatalf("cannot read source file: %v", err)
	}

	request := judge.APIRequest{
		SourceCode: string(sourceCode),
		FileName:   filepath.Base(*sourceFile),
		Language:   *langName,
		Stdin:      readOptional(*stdinFile),
		Timeout:    *timeout,
	}
	request.ExpectedOutput = readOptional(*expectedFile)

	body, err := json.Marshal(request)
	if err != nil {
		log.Fatalf("cannot encode request: %v", err)
	}

	resp, err := http.Post(*serverURL+"/judge", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("server returned %s", resp.Status)
	}

	var response judge.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		log.Fatalf("cannot decode response: %v", err)
	}

	fmt.Printf("Result: %s (score %d)\n", response.Result, response.Score)
	fmt.Printf("Time:   %d ms\n", response.TimeUsedMillis)
	if response.Error != "" {
		fmt.Printf("Error:  %s\n", response.Error)
	}
	if response.Output != "" {
		fmt.Printf("Output:\n%s", response.Output)
	}

	if response.Score != judge.ScoreProgramSuccess {
		os.Exit(1)
	}
}

func readOptional(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("cannot read %s: %v", path, err)
	}
	return string(data)
}
