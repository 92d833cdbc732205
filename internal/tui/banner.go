package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner with the running version.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Subtle gradient, cold blues into teal
	s1 := termenv.String("   ____                        _      ").Foreground(p.Color("#60a5fa"))
	s2 := termenv.String("  / ___|__ _ ___  ___ __ _  __| | ___ ").Foreground(p.Color("#38bdf8"))
	s3 := termenv.String(" | |   / _` / __|/ __/ _` |/ _` |/ _ \\").Foreground(p.Color("#22d3ee"))
	s4 := termenv.String(" | |__| (_| \\__ \\ (_| (_| | (_| |  __/").Foreground(p.Color("#2dd4bf"))
	s5 := termenv.String("  \\____\\__,_|___/\\___\\__,_|\\__,_|\\___|").Foreground(p.Color("#34d399"))
	ver := termenv.String("  " + version).Foreground(p.Color("#64748b"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(ver)
	fmt.Println()
}
