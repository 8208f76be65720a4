package entry

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// TimeLayout renders timestamps as yyyy-MM-dd HH:mm:ss.SSS.
const TimeLayout = "2006-01-02 15:04:05.000"

// CallSite is the source location a log call was made from.
type CallSite struct {
	File     string
	Function string
	Line     int
}

// Caller captures the call site skip frames above the caller of Caller.
func Caller(skip int) CallSite {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return CallSite{}
	}
	site := CallSite{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		site.Function = fn.Name()
	}
	return site
}

// Origin builds the entry header: timestamp, file and function, line number,
// terminated by a newline.
//
//	2026-10-19 09:41:07.250 main.run() [line 42]:
func (c CallSite) Origin(t time.Time) string {
	var b strings.Builder
	b.WriteString(t.Format(TimeLayout))
	b.WriteByte(' ')
	b.WriteString(fileStem(c.File))
	if fn := shortFunction(c.Function); fn != "" {
		b.WriteString(fn)
		b.WriteString("()")
	}
	b.WriteString(" [line ")
	b.WriteString(strconv.Itoa(c.Line))
	b.WriteString("]:\n")
	return b.String()
}

// fileStem drops the directory and extension but keeps the dot, so the
// function name reads as a member of the file.
func fileStem(file string) string {
	base := filepath.Base(strings.TrimSpace(file))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	ext := filepath.Ext(base)
	if ext == "" {
		return base + "."
	}
	return strings.TrimSuffix(base, ext) + "."
}

// shortFunction strips the import path and package name from a fully
// qualified function name: "github.com/a/b.(*T).run" becomes "(*T).run".
func shortFunction(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if slash := strings.LastIndex(name, "/"); slash >= 0 {
		name = name[slash+1:]
	}
	if dot := strings.Index(name, "."); dot >= 0 {
		name = name[dot+1:]
	}
	return strings.TrimSuffix(name, "()")
}
