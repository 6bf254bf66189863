package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate headings and labels.
func WithTranslator(t func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion sets the tool version shown in the footer.
func WithVersion(v string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = v
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Run Summary"))

	b.WriteString(f.table(
		[2]string{t("Run ID"), s.RunID},
		[2]string{t("Mode"), s.Mode},
		[2]string{t("Input"), s.Input},
		[2]string{t("Output Directory"), s.OutputDir},
	))

	if len(s.Streams) > 0 {
		fmt.Fprintf(&b, "\n## %s (%d)\n\n", t("Input Streams"), len(s.Streams))
		fmt.Fprintf(&b, "| %s | %s | %s |\n", t("Index"), t("Type"), t("Codec"))
		b.WriteString("|---:|---|---|\n")
		for _, st := range s.Streams {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", st.Index, st.Type, st.Codec)
		}
	}

	fmt.Fprintf(&b, "\n## %s\n\n", t("Video Stream"))
	b.WriteString(f.table(
		[2]string{t("Index"), fmt.Sprint(s.Stream.Index)},
		[2]string{t("Codec"), s.Stream.Codec},
		[2]string{t("Size"), fmt.Sprintf("%dx%d", s.Stream.Width, s.Stream.Height)},
		[2]string{t("Time Base"), s.Stream.TimeBase},
	))

	fmt.Fprintf(&b, "\n## %s\n\n", t("Packets"))
	b.WriteString(f.table(
		[2]string{t("Seen"), fmt.Sprint(s.Packets.Seen)},
		[2]string{t("Admitted"), fmt.Sprint(s.Packets.Admitted)},
		[2]string{t("Other Streams"), fmt.Sprint(s.Packets.OtherStreams)},
		[2]string{t("Before First Keyframe"), fmt.Sprint(s.Packets.SkippedLeading)},
		[2]string{t("Non-Key Dropped"), fmt.Sprint(s.Packets.NonKey)},
	))

	fmt.Fprintf(&b, "\n## %s\n\n", t("Decoder"))
	b.WriteString(f.table(
		[2]string{t("Packets Sent"), fmt.Sprint(s.Decoder.Attempts)},
		[2]string{t("Frames"), fmt.Sprint(s.Decoder.Frames)},
		[2]string{t("No Frame Yet"), fmt.Sprint(s.Decoder.Pending)},
		[2]string{t("Errors"), fmt.Sprint(s.Decoder.Errors)},
	))

	if e := s.Encoder; e != nil {
		fmt.Fprintf(&b, "\n## %s\n\n", t("Encoder"))
		b.WriteString(f.table(
			[2]string{t("Output"), e.OutputPath},
			[2]string{t("Frames Submitted"), fmt.Sprint(e.FramesSubmitted)},
			[2]string{t("Packets Written"), fmt.Sprint(e.PacketsWritten)},
			[2]string{t("Packets Flushed"), fmt.Sprint(e.PacketsFlushed)},
			[2]string{t("No Packet Yet"), fmt.Sprint(e.Pending)},
			[2]string{t("Errors"), fmt.Sprint(e.Errors)},
		))
	}

	fmt.Fprintf(&b, "\n## %s (%d)\n\n", t("Snapshots"), len(s.Snapshots))
	if len(s.Snapshots) > 0 {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", t("Timestamp"), t("File"), t("Size"), t("File Size"))
		b.WriteString("|---:|---|---|---:|\n")
		for _, snap := range s.Snapshots {
			fmt.Fprintf(&b, "| %d | %s | %dx%d | %s |\n",
				snap.Timestamp, snap.Path, snap.Width, snap.Height, formatBytes(snap.FileSize))
		}
	}

	if o := s.Output; o != nil {
		fmt.Fprintf(&b, "\n## %s\n\n", t("Output Container"))
		b.WriteString(f.table(
			[2]string{t("Major Brand"), strings.TrimSpace(o.MajorBrand)},
			[2]string{t("Fragmented"), fmt.Sprint(o.Fragmented)},
			[2]string{t("File Size"), formatBytes(o.FileSize)},
		))
		if len(o.Tracks) > 0 {
			fmt.Fprintf(&b, "\n| %s | %s | %s | %s | %s | %s |\n",
				t("Track"), t("Handler"), t("Codec"), t("Size"), t("Samples"), t("Sync Samples"))
			b.WriteString("|---:|---|---|---|---:|---:|\n")
			for _, tr := range o.Tracks {
				size := "-"
				if tr.Width > 0 {
					size = fmt.Sprintf("%dx%d", tr.Width, tr.Height)
				}
				fmt.Fprintf(&b, "| %d | %s | %s | %s | %d | %d |\n",
					tr.ID, tr.Handler, tr.Codec, size, tr.Samples, tr.SyncSamples)
			}
		}
	}

	footer := fmt.Sprintf("%s %s", t("Generated at"), s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if f.version != "" {
		footer += fmt.Sprintf(" (keysnap %s)", f.version)
	}
	fmt.Fprintf(&b, "\n---\n\n_%s_\n", footer)

	return b.String()
}

func (f *MarkdownFormatter) table(rows ...[2]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", f.translate("Item"), f.translate("Value"))
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r[0], r[1])
	}
	return b.String()
}

// formatBytes renders a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}

var _ Formatter = (*MarkdownFormatter)(nil)
