package summarizer

import (
	"fmt"

	"github.com/user/keysnap/pkg/ports"
)

// Report file names in the debug directory.
const (
	YAMLReportName     = "report.yaml"
	MarkdownReportName = "report.md"
)

// Writer writes formatted summaries to a debug sink.
type Writer struct {
	formatter Formatter
	sink      ports.DebugSink
}

// NewWriter creates a new Writer with the given Formatter.
func NewWriter(formatter Formatter, sink ports.DebugSink) *Writer {
	return &Writer{
		formatter: formatter,
		sink:      sink,
	}
}

// Write formats the summary and saves it under name.
// Nothing is written when the sink is disabled.
func (w *Writer) Write(name string, summary *Summary) error {
	if !w.sink.Enabled() {
		return nil
	}

	content := w.formatter.Format(summary)
	if err := w.sink.SaveReport(name, []byte(content)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
