package net

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxLineLen bounds one console line, excluding the terminator.
const MaxLineLen = 512

var ErrLineTooLong = errors.New("line too long")

// ReadLine reads one console line from r.
// Wire format: UTF-8 text terminated by "\n"; a trailing "\r" is dropped.
// Returns the line without its terminator.
func ReadLine(r *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if sb.Len() > 0 && errors.Is(err, io.EOF) {
				return sb.String(), nil
			}
			return "", fmt.Errorf("read line: %w", err)
		}
		if sb.Len()+len(chunk) > MaxLineLen {
			return "", fmt.Errorf("read line: %w (> %d bytes)", ErrLineTooLong, MaxLineLen)
		}
		sb.Write(chunk)
		if !isPrefix {
			return sb.String(), nil
		}
	}
}

// WriteLine writes line followed by "\r\n".
func WriteLine(w io.Writer, line string) error {
	if _, err := io.WriteString(w, line+"\r\n"); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}
