// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package formattertest turns a test binary into a stand-in for the luau-format
// executable, so formatter runs can be exercised without the real tool.
//
// A package opts in from TestMain:
//
//	func TestMain(m *testing.M) {
//		formattertest.Main()
//		os.Exit(m.Run())
//	}
//
// and a test then points a tool.Handle at the test binary itself.
package formattertest

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/walteh/luaufmt/pkg/tool"
)

const (
	envMode     = "LUAUFMT_FAKE_FORMATTER"
	envStdout   = "LUAUFMT_FAKE_STDOUT"
	envStderr   = "LUAUFMT_FAKE_STDERR"
	envExitCode = "LUAUFMT_FAKE_EXIT_CODE"
	envArgsFile = "LUAUFMT_FAKE_ARGS_FILE"
	envEcho     = "LUAUFMT_FAKE_ECHO"
)

// 🎭 Script describes how the fake formatter behaves on every run
type Script struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int

	// Echo makes the fake print "<input contents><flags...>" instead of Stdout.
	Echo bool
}

// Main acts as the formatter and exits when the process was started as one.
// It returns immediately otherwise.
func Main() {
	if os.Getenv(envMode) != "1" {
		return
	}
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if path := os.Getenv(envArgsFile); path != "" {
		if err := appendArgs(path, args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 99
		}
	}

	if os.Getenv(envEcho) == "1" {
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "no input file")
			return 1
		}
		content, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		os.Stdout.Write(content)
		for _, a := range args[1:] {
			fmt.Fprintln(os.Stdout, a)
		}
	} else {
		os.Stdout.Write(decodeEnv(envStdout))
	}
	os.Stderr.Write(decodeEnv(envStderr))

	code, _ := strconv.Atoi(os.Getenv(envExitCode))
	return code
}

func decodeEnv(key string) []byte {
	b, _ := base64.StdEncoding.DecodeString(os.Getenv(key))
	return b
}

func appendArgs(path string, args []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if args == nil {
		args = []string{}
	}
	return json.NewEncoder(f).Encode(args)
}

// Handle points at the running test binary.
func Handle() tool.Handle {
	return tool.NewHandle(os.Args[0], tool.SourcePath)
}

// 🔧 Install sets the script for the rest of the test and returns the file
// that collects the argument list of every run
func Install(t *testing.T, s Script) string {
	t.Helper()
	argsFile := filepath.Join(t.TempDir(), "args.jsonl")

	echo := "0"
	if s.Echo {
		echo = "1"
	}

	t.Setenv(envMode, "1")
	t.Setenv(envStdout, base64.StdEncoding.EncodeToString(s.Stdout))
	t.Setenv(envStderr, base64.StdEncoding.EncodeToString(s.Stderr))
	t.Setenv(envExitCode, strconv.Itoa(s.ExitCode))
	t.Setenv(envArgsFile, argsFile)
	t.Setenv(envEcho, echo)
	return argsFile
}

// Calls reads back the argument lists recorded by Install's file, oldest first.
func Calls(t *testing.T, argsFile string) [][]string {
	t.Helper()
	f, err := os.Open(argsFile)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	defer f.Close()

	var calls [][]string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var args []string
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &args))
		calls = append(calls, args)
	}
	require.NoError(t, scanner.Err())
	return calls
}
