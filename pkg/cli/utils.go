package cli

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

var debugEnabled bool

// debugf writes a prefixed line to stderr when debugging is enabled via
// -debug or TONYSCALE_DEBUG=1.
func debugf(format string, args ...interface{}) {
	if debugEnabled {
		fmt.Fprintf(os.Stderr, "tonyscale: "+format+"\n", args...)
	}
}

// warnf logs a non-fatal problem.
func warnf(format string, args ...interface{}) {
	log.Printf("warning: "+format, args...)
}

// promptLine displays a prompt on w and reads one trimmed line from r.
func promptLine(w io.Writer, r io.Reader, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
