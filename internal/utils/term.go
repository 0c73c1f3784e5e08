package utils

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	SMALL_LINE_SEP = "------------------------------"
)

var ANSI_ESCAPE_SEQUENCE_REGEX = regexp.MustCompile("[\u001B\u009B][[\\]()#;?]*(?:(?:(?:[a-zA-Z\\d]*(?:;[a-zA-Z\\d]*)*)?\u0007)|(?:(?:\\d{1,4}(?:;\\d{0,4})*)?[\\dA-PRZcf-ntqry=><~]))")

func StripANSISequences(str string) string {
	return ANSI_ESCAPE_SEQUENCE_REGEX.ReplaceAllString(str, "")
}

func PrintSmallLineSeparator(w io.Writer) {
	fmt.Fprintln(w, SMALL_LINE_SEP)
}

// PadRight pads s with spaces until it is width characters wide, ANSI sequences are not counted.
func PadRight(s string, width int) string {
	visible := len([]rune(StripANSISequences(s)))
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}
