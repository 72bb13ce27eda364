package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR DEFINITIONS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// Badge colors
	successBadge = color.New(color.BgGreen, color.FgBlack, color.Bold)
	warningBadge = color.New(color.FgYellow, color.Bold)
	errorBadge   = color.New(color.BgRed, color.FgWhite, color.Bold)
	infoBadge    = color.New(color.FgCyan, color.Bold)
	debugBadge   = color.New(color.FgMagenta)

	// Text colors
	successText = color.New(color.FgGreen, color.Bold)
	warningText = color.New(color.FgYellow)
	errorText   = color.New(color.FgRed)
	mutedText   = color.New(color.FgHiBlack)
	accentText  = color.New(color.FgMagenta, color.Bold)
	neonBlue    = color.New(color.FgHiCyan, color.Bold)

	// Method colors
	methodPOST    = color.New(color.BgHiMagenta, color.FgBlack, color.Bold)
	methodGET     = color.New(color.BgHiCyan, color.FgBlack, color.Bold)
	methodOPTIONS = color.New(color.BgHiYellow, color.FgBlack, color.Bold)
)

// ProviderLine is one row of the startup provider table.
type ProviderLine struct {
	Name       string
	Configured bool
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST LOGGING
// ══════════════════════════════════════════════════════════════════════════════

// PrintRequest logs a request with styled output.
// Format: 15:04:05  POST  /api/chat   200    42ms  openai
func PrintRequest(method, path string, status int, latency time.Duration, provider string) {
	mutedText.Printf("%s ", time.Now().Format("15:04:05"))

	printMethodBadge(method)
	fmt.Print(" ")

	fmt.Printf("%-20s ", truncatePath(path, 20))

	printStatusBadge(status)
	fmt.Print(" ")

	printLatency(latency)

	if provider != "" {
		fmt.Print(" ")
		accentText.Print(provider)
	}

	fmt.Println()
}

// printMethodBadge prints the HTTP method with appropriate color.
func printMethodBadge(method string) {
	switch method {
	case "POST":
		methodPOST.Printf(" %-4s ", method)
	case "GET":
		methodGET.Printf(" %-4s ", method)
	case "OPTIONS":
		methodOPTIONS.Printf(" %s ", "OPTS")
	default:
		debugBadge.Printf(" %-4s ", method)
	}
}

// printStatusBadge prints the status code with appropriate color.
func printStatusBadge(status int) {
	switch {
	case status >= 200 && status < 300:
		successBadge.Printf(" %d ", status)
	case status >= 300 && status < 400:
		infoBadge.Printf(" %d ", status)
	case status >= 400 && status < 500:
		warningBadge.Printf(" %d ", status)
	default:
		errorBadge.Printf(" %d ", status)
	}
}

// printLatency prints latency with color gradient.
// Green: < 1s, Yellow: < 5s, Red: >= 5s. Vendor calls dominate, so the
// thresholds are much wider than for a local service.
func printLatency(latency time.Duration) {
	ms := latency.Milliseconds()
	latencyStr := fmt.Sprintf("%6dms", ms)

	switch {
	case ms < 1000:
		successText.Print(latencyStr)
	case ms < 5000:
		warningText.Print(latencyStr)
	default:
		errorText.Print(latencyStr)
	}
}

// truncatePath truncates a path to maxLen characters.
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return path[:maxLen-3] + "..."
}

// ══════════════════════════════════════════════════════════════════════════════
// STARTUP MESSAGES
// ══════════════════════════════════════════════════════════════════════════════

// PrintStartupInfo prints the listen address, the provider table and the endpoints.
func PrintStartupInfo(host string, port int, providers []ProviderLine) {
	fmt.Println()
	infoBadge.Print("[RELAY]")
	fmt.Print(" Server starting on ")
	neonBlue.Printf("http://%s:%d\n", host, port)

	fmt.Println()
	WriteProviderTable(color.Output, providers)
	fmt.Println()
	printEndpoints()
}

// WriteProviderTable writes one line per provider with its credential status.
func WriteProviderTable(w io.Writer, providers []ProviderLine) {
	for _, p := range providers {
		mutedText.Fprint(w, "  • ")
		fmt.Fprintf(w, "%-10s ", p.Name)
		if p.Configured {
			successText.Fprintln(w, "ready")
		} else {
			errorText.Fprintln(w, "missing API key")
		}
	}
}

// printEndpoints prints the available API endpoints.
func printEndpoints() {
	mutedText.Println("  ┌──────────────────────────────────────────────────┐")

	mutedText.Print("  │ ")
	methodPOST.Print(" POST ")
	fmt.Print(" /api/chat       ")
	mutedText.Print(" Relay a conversation    ")
	mutedText.Println("│")

	mutedText.Print("  │ ")
	methodGET.Print(" GET  ")
	fmt.Print(" /api/providers  ")
	mutedText.Print(" List vendors            ")
	mutedText.Println("│")

	mutedText.Print("  │ ")
	methodGET.Print(" GET  ")
	fmt.Print(" /api/health     ")
	mutedText.Print(" Health check            ")
	mutedText.Println("│")

	mutedText.Println("  └──────────────────────────────────────────────────┘")
	fmt.Println()
}

// PrintShutdown prints a styled shutdown message.
func PrintShutdown() {
	fmt.Println()
	warningBadge.Print("[SHUTDOWN]")
	warningText.Println(" Graceful shutdown initiated...")
}

// PrintGoodbye prints a styled goodbye message.
func PrintGoodbye() {
	successBadge.Print(" OK ")
	fmt.Print(" ")
	successText.Println("Server stopped. Goodbye!")
}
