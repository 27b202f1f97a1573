// Package words counts words in page text.
package words

import (
	"bufio"
	"io"
	"strings"
)

// Count returns the number of whitespace-delimited words in text.
func Count(text string) int {
	return len(strings.Fields(text))
}

// CountReader counts words from a reader without holding the full text.
func CountReader(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	count := 0
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return count, nil
}
