package dial

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/themobileprof/dialchat-cli/pkg/llm"
)

const (
	dataPrefix = "data: "
	doneMarker = "[DONE]"
)

// Decoder reads server-sent completion events from a response body and
// yields assistant content fragments one at a time.
//
// The underlying bufio.Scanner buffers partial lines across reads, so an
// event split over several transport chunks is reassembled before it is
// classified. Only the subset of the SSE format the DIAL endpoint uses is
// handled: data lines and blank separators.
type Decoder struct {
	scanner *bufio.Scanner
	done    bool
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{scanner: bufio.NewScanner(r)}
}

// Next returns the next content fragment. It returns io.EOF once the
// [DONE] marker has been observed; lines after the marker are never
// processed. A body that ends without the marker yields
// llm.ErrStreamTruncated.
func (d *Decoder) Next() (string, error) {
	if d.done {
		return "", io.EOF
	}

	for d.scanner.Scan() {
		line := d.scanner.Text()

		// Blank lines are event separators, not data
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		data := strings.TrimPrefix(line, dataPrefix)

		if data == doneMarker {
			d.done = true
			return "", io.EOF
		}

		var chunk llm.ChatChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// One malformed event must not abort the stream
			continue
		}

		if len(chunk.Choices) == 0 {
			continue
		}

		if content := chunk.Choices[0].Delta.Content; content != "" {
			return content, nil
		}
	}

	if err := d.scanner.Err(); err != nil {
		return "", err
	}
	return "", llm.ErrStreamTruncated
}

// Done reports whether the terminal marker has been observed.
func (d *Decoder) Done() bool {
	return d.done
}
