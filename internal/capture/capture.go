// Package capture turns writes to a file descriptor into a stream of lines.
package capture

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Lines reads r until EOF, calling fn with each line (without the newline).
func Lines(r io.Reader, fn func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read captured output: %w", err)
	}
	return nil
}

// Redirect replaces *target with the write end of a pipe and feeds every line
// written to it to fn. The returned restore func puts the original file back
// and waits until all captured lines have been delivered.
//
// Swapping a package-level file such as os.Stdout is not synchronized with
// other goroutines that are writing to it at the same moment.
func Redirect(target **os.File, fn func(string)) (restore func() error, err error) {
	if target == nil || *target == nil {
		return nil, errors.New("capture target is nil")
	}
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create pipe: %w", err)
	}

	orig := *target
	*target = w

	var wg sync.WaitGroup
	var scanErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		scanErr = Lines(r, fn)
	}()

	var once sync.Once
	restore = func() error {
		var closeErr error
		once.Do(func() {
			*target = orig
			closeErr = w.Close()
			wg.Wait()
			_ = r.Close()
		})
		return errors.Join(closeErr, scanErr)
	}
	return restore, nil
}
