package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/seoscan/seoscan/internal/model"
)

// MarkdownSummaryWriter renders a batch run summary as GitHub-flavored
// markdown: a tally line plus one table row per analyzed URL. Useful for
// pasting scan results into issues or documentation.
type MarkdownSummaryWriter struct {
	output io.Writer
}

// NewMarkdownSummaryWriter creates a writer targeting the given output.
func NewMarkdownSummaryWriter(output io.Writer) *MarkdownSummaryWriter {
	return &MarkdownSummaryWriter{output: output}
}

// Write renders the outcomes in input order.
func (w *MarkdownSummaryWriter) Write(outcomes []model.Outcome) error {
	succeeded, failed := model.Tally(outcomes)

	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, []string{
			o.URL,
			resultText(o),
			statusText(o),
			reportText(o),
		})
	}

	md := markdown.NewMarkdown(w.output)
	md.H1("SEO Scan Summary")
	md.PlainText("")
	md.PlainText(fmt.Sprintf("**%d succeeded, %d failed** (%d URLs total)",
		succeeded, failed, len(outcomes)))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Result", "Status", "Report"},
		Rows:   rows,
	})
	return md.Build()
}

// resultText renders the success column.
func resultText(o model.Outcome) string {
	if o.Success {
		return "OK"
	}
	return "FAILED"
}

// statusText renders the optional HTTP status column.
func statusText(o model.Outcome) string {
	if o.StatusCode == nil {
		return "-"
	}
	return strconv.Itoa(*o.StatusCode)
}

// reportText renders the report path on success, the error otherwise.
func reportText(o model.Outcome) string {
	if o.Success {
		return "`" + o.ReportPath + "`"
	}
	return o.Err
}
