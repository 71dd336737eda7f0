// Package term renders transcript analyses to a terminal.
package term

import (
	"fmt"
	"io"
	"strings"
	"transcript-sentiment/analyzer"
	"transcript-sentiment/client"

	"github.com/charmbracelet/lipgloss"
)

var (
	anxiousColor   = lipgloss.Color("#e53935")
	reassuredColor = lipgloss.Color("#8BC34A")
	neutralColor   = lipgloss.Color("#9e9e9e")
	intentColor    = lipgloss.Color("#2196F3")

	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	headingStyle = lipgloss.NewStyle().Bold(true)
	quoteStyle   = lipgloss.NewStyle().Italic(true)
	labelStyle   = lipgloss.NewStyle().Faint(true)
	noticeStyle  = lipgloss.NewStyle().Bold(true).Foreground(anxiousColor)
	intentStyle  = lipgloss.NewStyle().Foreground(intentColor)
	itemStyle    = lipgloss.NewStyle().PaddingLeft(2)
)

// SentimentStyle picks the colour for a sentiment tag.
func SentimentStyle(tag string) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch strings.ToLower(tag) {
	case strings.ToLower(analyzer.SentimentAnxious), "negative":
		return s.Foreground(anxiousColor)
	case strings.ToLower(analyzer.SentimentReassured), "positive":
		return s.Foreground(reassuredColor)
	case strings.ToLower(analyzer.SentimentNeutral):
		return s.Foreground(neutralColor)
	default:
		return s
	}
}

// View writes results to out and progress plus notices to errOut.
// Output is append-only, so ClearUtterances only resets numbering state.
type View struct {
	out    io.Writer
	errOut io.Writer

	loading    bool
	utterances int
}

var _ client.View = (*View)(nil)

func NewView(out, errOut io.Writer) *View {
	return &View{out: out, errOut: errOut}
}

func (v *View) SetLoading(visible bool) {
	if visible && !v.loading {
		fmt.Fprintln(v.errOut, labelStyle.Render("Analyzing transcript..."))
	}
	v.loading = visible
}

func (v *View) SetResultsVisible(visible bool) {
	if visible {
		fmt.Fprintln(v.out, titleStyle.Render("Analysis Results"))
	}
}

func (v *View) SetSubmitEnabled(bool) {}

func (v *View) Notify(message string) {
	fmt.Fprintln(v.errOut, noticeStyle.Render(message))
}

func (v *View) SetOverall(sentiment, sentimentTag, intent string) {
	fmt.Fprintf(v.out, "%s %s\n", labelStyle.Render("Overall sentiment:"), SentimentStyle(sentimentTag).Render(sentiment))
	fmt.Fprintf(v.out, "%s %s\n", labelStyle.Render("Overall intent:   "), intentStyle.Render(intent))
}

func (v *View) ClearUtterances() {
	v.utterances = 0
}

func (v *View) ShowNoUtterances(message string) {
	fmt.Fprintln(v.out)
	fmt.Fprintln(v.out, labelStyle.Render(message))
}

func (v *View) AddUtterance(b client.UtteranceBlock) {
	v.utterances++
	lines := []string{
		headingStyle.Render(b.Heading),
		quoteStyle.Render(b.Quote),
		fmt.Sprintf("%s %s", labelStyle.Render("Sentiment:"), SentimentStyle(b.SentimentTag).Render(b.Sentiment)),
		fmt.Sprintf("%s %s", labelStyle.Render("Intent:   "), intentStyle.Render(b.Intent)),
	}
	fmt.Fprintln(v.out)
	fmt.Fprintln(v.out, itemStyle.Render(strings.Join(lines, "\n")))
}

// Utterances is the number of utterances written since the last clear.
func (v *View) Utterances() int {
	return v.utterances
}
