package input

import (
	"bufio"
	"io"
	"strings"
)

// Reader reads shell lines from a stream
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps src
func NewReader(src io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(src)}
}

// ReadLine reads one line of input without the trailing newline.
// A final line without a newline is returned with a nil error; the
// next call reports io.EOF.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.r.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && line != "" && err == io.EOF {
		return line, nil
	}
	return line, err
}

// NextIntent reads and parses the next command line
func (r *Reader) NextIntent() (Intent, error) {
	line, err := r.ReadLine()
	if err != nil {
		return Intent{Action: ActionNone}, err
	}
	return ParseLine(line), nil
}
