package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// glyphHeight is the number of lines in every glyph.
const glyphHeight = 5

// digitMap maps each digit character (0-9) and the decimal point to a 5-line
// block representation. Digits are 4 chars wide except '1'; the point is 1.
var digitMap = map[rune][glyphHeight]string{
	'0': {
		"████",
		"█  █",
		"█  █",
		"█  █",
		"████",
	},
	'1': {
		" █ ",
		"██ ",
		" █ ",
		" █ ",
		"███",
	},
	'2': {
		"████",
		"   █",
		"████",
		"█   ",
		"████",
	},
	'3': {
		"████",
		"   █",
		"████",
		"   █",
		"████",
	},
	'4': {
		"█  █",
		"█  █",
		"████",
		"   █",
		"   █",
	},
	'5': {
		"████",
		"█   ",
		"████",
		"   █",
		"████",
	},
	'6': {
		"████",
		"█   ",
		"████",
		"█  █",
		"████",
	},
	'7': {
		"████",
		"   █",
		"  █ ",
		" █  ",
		" █  ",
	},
	'8': {
		"████",
		"█  █",
		"████",
		"█  █",
		"████",
	},
	'9': {
		"████",
		"█  █",
		"████",
		"   █",
		"████",
	},
	'.': {
		" ",
		" ",
		" ",
		" ",
		"█",
	},
}

// renderBigCountdown renders a seconds string like "7.6" as block digits.
// Narrow terminals (under 40 columns) get a single bold line with the unit.
func renderBigCountdown(seconds string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < 40 {
		return style.Render(seconds + " sec")
	}

	var lines [glyphHeight]string
	for _, ch := range seconds {
		glyph, ok := digitMap[ch]
		if !ok {
			continue
		}
		for i := range lines {
			if lines[i] != "" {
				lines[i] += " "
			}
			lines[i] += glyph[i]
		}
	}

	styled := make([]string, glyphHeight)
	for i, line := range lines {
		styled[i] = style.Render(line)
	}
	return strings.Join(styled, "\n")
}
