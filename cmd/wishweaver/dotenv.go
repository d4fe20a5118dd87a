// ABOUTME: Optional .env file support for the wishweaver CLI.
// ABOUTME: File values never override variables already present in the environment.
package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// loadEnvFiles applies .env files before flag parsing. Precedence, highest
// first: the process environment, .env in the working directory, .env in the
// wishweaver data directory. A variable set by an earlier source is never
// overridden by a later one, so WISHWEAVER_* exports always win over files.
func loadEnvFiles() {
	if wd, err := os.Getwd(); err == nil {
		applyEnvFile(filepath.Join(wd, ".env"))
	}
	if dataDir, err := defaultDataDir(); err == nil {
		applyEnvFile(filepath.Join(dataDir, ".env"))
	}
}

// applyEnvFile sets every assignment from path that is not already present
// in the environment and reports how many variables were set. A missing or
// unreadable file applies nothing.
func applyEnvFile(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	applied := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := parseEnvLine(scanner.Text())
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		os.Setenv(key, value)
		applied++
	}
	return applied
}

// parseEnvLine extracts one KEY=VALUE assignment. Blank lines, comments, and
// lines without '=' yield ok=false. An "export " prefix is tolerated, and one
// layer of matching single or double quotes around the value is stripped.
// Values may contain '='; only the first one splits.
func parseEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")

	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, unquote(strings.TrimSpace(value)), true
}

func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	head, tail := v[0], v[len(v)-1]
	if head != tail || (head != '"' && head != '\'') {
		return v
	}
	return v[1 : len(v)-1]
}
