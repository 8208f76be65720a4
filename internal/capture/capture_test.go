package capture

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestLines(t *testing.T) {
	var content strings.Builder
	var expected []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expected = append(expected, line)
	}

	var got []string
	if err := Lines(strings.NewReader(content.String()), func(s string) { got = append(got, s) }); err != nil {
		t.Fatalf("Lines() error = %v", err)
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Lines() = %v, want %v", got, expected)
	}
}

func TestLines_TrailingPartialLine(t *testing.T) {
	var got []string
	if err := Lines(strings.NewReader("a\nb"), func(s string) { got = append(got, s) }); err != nil {
		t.Fatalf("Lines() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Lines() = %v, want [a b]", got)
	}
}

func TestRedirect(t *testing.T) {
	tmp, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer tmp.Close()

	target := tmp
	var mu sync.Mutex
	var got []string
	restore, err := Redirect(&target, func(s string) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Redirect: %v", err)
	}
	if target == tmp {
		t.Fatalf("Redirect did not replace target")
	}

	fmt.Fprintln(target, "first")
	fmt.Fprint(target, "second\nthird\n")

	if err := restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if target != tmp {
		t.Fatalf("restore did not put the original file back")
	}
	// A second restore is a no-op.
	if err := restore(); err != nil {
		t.Fatalf("second restore: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !reflect.DeepEqual(got, []string{"first", "second", "third"}) {
		t.Fatalf("captured = %v, want [first second third]", got)
	}
}

func TestRedirect_NilTarget(t *testing.T) {
	var f *os.File
	if _, err := Redirect(&f, func(string) {}); err == nil {
		t.Fatalf("Redirect(nil) returned nil error")
	}
}
