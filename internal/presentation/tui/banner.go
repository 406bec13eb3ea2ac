package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the scriptflow banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text, color string
	}{
		{"  ___         _      _    __ _", "#818cf8"},
		{" / __| __ _ _(_)_ __| |_ / _| |_____ __ __", "#a78bfa"},
		{" \\__ \\/ _| '_| | '_ \\  _|  _| / _ \\ V  V /", "#c084fc"},
		{" |___/\\__|_| |_| .__/\\__|_| |_\\___/\\_/\\_/", "#f472b6"},
		{"               |_|", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
