// ABOUTME: Help display for the wishweaver CLI with grouped flags and examples.
package main

import (
	"fmt"
	"io"
	"os"
)

// printHelp writes a formatted help message to w, including usage patterns,
// grouped flags, examples, and environment status.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "wishweaver %s — a collaborative wish board in your terminal\n", ver)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  wishweaver                       Open the board (in-memory)")
	fmt.Fprintln(w, "  wishweaver -remote URL           Open a board on a server")
	fmt.Fprintln(w, "  wishweaver -serve                Run the board server")
	fmt.Fprintln(w, "  wishweaver -export FORMAT        Print the board and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Board flags:")
	fmt.Fprintln(w, "  -remote URL       Board server base URL")
	fmt.Fprintln(w, "  -board NAME       Board name on the server (default: main)")
	fmt.Fprintln(w, "  -token TOKEN      Bearer token for the board server")
	fmt.Fprintln(w, "  -data-dir DIR     Identity and cache directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export flags:")
	fmt.Fprintln(w, "  -export FORMAT    markdown, html, yaml, or share")
	fmt.Fprintln(w, "  -title TITLE      Board title used in exports")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server environment:")
	fmt.Fprintln(w, "  WISHWEAVER_HOME          Server data directory")
	fmt.Fprintln(w, "  WISHWEAVER_BIND          Listen address (default: 127.0.0.1:8377)")
	fmt.Fprintln(w, "  WISHWEAVER_ALLOW_REMOTE  Allow non-loopback binds (requires token)")
	fmt.Fprintln(w, "  WISHWEAVER_AUTH_TOKEN    Bearer token required from clients")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Poems:")
	fmt.Fprintf(w, "  OPENAI_API_KEY           %s\n", envStatus("OPENAI_API_KEY"))
	fmt.Fprintln(w, "  WISHWEAVER_POEM_MODEL    Model override (default: gpt-4o-mini)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  wishweaver -remote http://localhost:8377 -board family")
	fmt.Fprintln(w, "  wishweaver -export markdown > wishes.md")
}

// envStatus reports whether an environment variable is set, without echoing
// its value.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "set"
	}
	return "not set (poem generation disabled)"
}
