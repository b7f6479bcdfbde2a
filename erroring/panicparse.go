package erroring

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/maruel/panicparse/v2/stack"
)

const modulePath = "github.com/siadat/tcldoc"

// Output is where PrintTrace writes.
var Output io.Writer = os.Stderr

// PrintTrace uses panicparse to print a readable panic stack, keeping only
// the frames of this module.
// See https://pkg.go.dev/github.com/maruel/panicparse/v2/stack
func PrintTrace() {
	var stream = bytes.NewReader(debug.Stack())

	var s, suffix, err = stack.ScanSnapshot(stream, Output, stack.DefaultOpts())
	if err != nil && err != io.EOF {
		panic(err)
	}
	if s == nil {
		return
	}

	// Find out similar goroutine traces and group them into buckets.
	var buckets = s.Aggregate(stack.AnyValue).Buckets

	// Calculate alignment.
	var colLen = 0
	for _, bucket := range buckets {
		for _, line := range filterCalls(bucket.Signature.Stack.Calls) {
			if l := len(formatFilename(line)); l > colLen {
				colLen = l
			}
		}
	}

	for _, bucket := range buckets {
		// Print the goroutine header.
		var extra = ""
		if s := bucket.SleepString(); s != "" {
			extra += " [" + s + "]"
		}
		if bucket.Locked {
			extra += " [locked]"
		}

		if len(bucket.CreatedBy.Calls) != 0 {
			extra += fmt.Sprintf(" [Created by %s.%s @ %s:%d]",
				bucket.CreatedBy.Calls[0].Func.DirName,
				bucket.CreatedBy.Calls[0].Func.Name,
				bucket.CreatedBy.Calls[0].SrcName,
				bucket.CreatedBy.Calls[0].Line,
			)
		}
		fmt.Fprintf(Output, "%d: %s%s\n", len(bucket.IDs), bucket.State, extra)

		// Print the stack lines.
		for _, line := range filterCalls(bucket.Signature.Stack.Calls) {
			fmt.Fprintln(Output, formatCall(line, colLen))
		}
		if bucket.Stack.Elided {
			io.WriteString(Output, "    (...) (elided)\n")
		}
	}

	// If there was any remaining data in the pipe, dump it now.
	if len(suffix) != 0 {
		Output.Write(suffix)
	}
	if err == nil {
		io.Copy(Output, stream)
	}
}

func filterCalls(lines []stack.Call) []stack.Call {
	var ret []stack.Call
	var sawStdlibPanic = false
	for _, line := range lines {
		if !sawStdlibPanic {
			if line.Func.DirName == "" && line.SrcName == "panic.go" {
				sawStdlibPanic = true
				continue
			} else {
				continue
			}
		}

		if line.Func.IsPkgMain {
			ret = append(ret, line)
			continue
		}

		if strings.HasPrefix(line.ImportPath, modulePath) {
			ret = append(ret, line)
			continue
		}
	}
	return ret
}

func formatCall(line stack.Call, colLen int) string {
	return fmt.Sprintf(
		"    %-*s %s(...)",
		colLen,
		formatFilename(line),
		line.Func.Name,
	)
}

func formatFilename(line stack.Call) string {
	return fmt.Sprintf("%s/%s:%d", line.Func.DirName, line.SrcName, line.Line)
}
