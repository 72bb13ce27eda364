// Package ui provides colored console output for the relay.
package ui

import (
	"fmt"

	"github.com/fatih/color"
)

// Version is printed in the banner.
const Version = "v1.0.0"

// ══════════════════════════════════════════════════════════════════════════════
// ASCII ART BANNER
// ══════════════════════════════════════════════════════════════════════════════

var bannerLines = []string{
	"██████╗ ███████╗██╗      █████╗ ██╗   ██╗",
	"██╔══██╗██╔════╝██║     ██╔══██╗╚██╗ ██╔╝",
	"██████╔╝█████╗  ██║     ███████║ ╚████╔╝ ",
	"██╔══██╗██╔══╝  ██║     ██╔══██║  ╚██╔╝  ",
	"██║  ██║███████╗███████╗██║  ██║   ██║   ",
	"╚═╝  ╚═╝╚══════╝╚══════╝╚═╝  ╚═╝   ╚═╝   ",
}

// PrintBanner displays the ASCII art startup banner.
func PrintBanner() {
	cyan := color.New(color.FgCyan, color.Bold)
	magenta := color.New(color.FgMagenta, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	white := color.New(color.FgWhite)
	dim := color.New(color.FgHiBlack)

	fmt.Println()
	cyan.Println("╔══════════════════════════════════════════════════════╗")
	for _, line := range bannerLines {
		cyan.Print("║  ")
		magenta.Print(line)
		fmt.Print("           ")
		cyan.Println("║")
	}
	cyan.Println("╠══════════════════════════════════════════════════════╣")

	cyan.Print("║  ")
	yellow.Print("ONE API, SIX VENDORS")
	dim.Print("  │  ")
	white.Print(Version)
	fmt.Print("                        ")
	cyan.Println("║")

	cyan.Println("╚══════════════════════════════════════════════════════╝")
	fmt.Println()
}
