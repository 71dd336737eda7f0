// Package dom renders transcript analyses into an HTML document tree.
//
// A View is bound to one parsed page and mutates its nodes in place, the
// way a browser script would mutate the live document. Rendering the
// document afterwards yields the page with results filled in.
package dom

import (
	"fmt"
	"io"
	"strings"
	"transcript-sentiment/client"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element ids the page must provide.
const (
	IDAnalyzeButton    = "analyze-btn"
	IDTranscript       = "transcript"
	IDResultsContainer = "results-container"
	IDLoading          = "loading"
	IDResults          = "results"
	IDOverallSentiment = "overall-sentiment"
	IDOverallIntent    = "overall-intent"
	IDUtterances       = "utterances"

	// IDNotice is optional; notices are still recorded without it.
	IDNotice = "notice"
)

var requiredIDs = []string{
	IDAnalyzeButton, IDTranscript, IDResultsContainer, IDLoading, IDResults,
	IDOverallSentiment, IDOverallIntent, IDUtterances,
}

const hiddenClass = "hidden"

// MissingElementError is returned by Bind when the page lacks a required id.
type MissingElementError struct {
	ID string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("dom: element #%s not found", e.ID)
}

// View implements client.View on an *html.Node document.
type View struct {
	doc      *html.Node
	elements map[string]*html.Node
	notices  []string
}

var _ client.View = (*View)(nil)

// Bind looks up every required element of doc.
func Bind(doc *html.Node) (*View, error) {
	ids := make(map[string]*html.Node)
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if id := attr(n, "id"); id != "" {
			if _, seen := ids[id]; !seen {
				ids[id] = n
			}
		}
	})

	for _, id := range requiredIDs {
		if ids[id] == nil {
			return nil, &MissingElementError{ID: id}
		}
	}

	return &View{doc: doc, elements: ids}, nil
}

// Parse reads a page and binds it.
func Parse(r io.Reader) (*View, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse page: %w", err)
	}
	return Bind(doc)
}

// Element returns the bound element with the given id, or nil.
func (v *View) Element(id string) *html.Node {
	return v.elements[id]
}

// Document returns the underlying document.
func (v *View) Document() *html.Node {
	return v.doc
}

// Render writes the document as HTML.
func (v *View) Render(w io.Writer) error {
	return html.Render(w, v.doc)
}

// Notices returns every notice shown so far.
func (v *View) Notices() []string {
	return append([]string(nil), v.notices...)
}

// SetTranscript fills the transcript field with text.
func (v *View) SetTranscript(text string) {
	n := v.elements[IDTranscript]
	if n.DataAtom == atom.Textarea {
		setText(n, text)
		return
	}
	setAttr(n, "value", text)
}

// SetLoading also hides a notice left over from an earlier submit.
func (v *View) SetLoading(visible bool) {
	setHidden(v.elements[IDLoading], !visible)
	if n := v.elements[IDNotice]; visible && n != nil {
		setHidden(n, true)
	}
}

func (v *View) SetResultsVisible(visible bool) {
	setHidden(v.elements[IDResults], !visible)
}

func (v *View) SetSubmitEnabled(enabled bool) {
	btn := v.elements[IDAnalyzeButton]
	if enabled {
		removeAttr(btn, "disabled")
		return
	}
	setAttr(btn, "disabled", "")
}

func (v *View) Notify(message string) {
	v.notices = append(v.notices, message)
	if n := v.elements[IDNotice]; n != nil {
		setText(n, message)
		setHidden(n, false)
	}
}

func (v *View) SetOverall(sentiment, sentimentTag, intent string) {
	s := v.elements[IDOverallSentiment]
	setText(s, sentiment)
	setAttr(s, "class", sentimentTag)
	setText(v.elements[IDOverallIntent], intent)
}

func (v *View) ClearUtterances() {
	clearChildren(v.elements[IDUtterances])
}

func (v *View) ShowNoUtterances(message string) {
	p := element(atom.P, "no-utterances")
	p.AppendChild(text(message))
	v.elements[IDUtterances].AppendChild(p)
}

// AddUtterance appends
//
//	div.utterance-item
//	  h4 heading
//	  p.utterance-text quote
//	  div.utterance-analysis
//	    div.analysis-item.<sentiment-tag>  h5 "Sentiment", p
//	    div.analysis-item.<intent-tag>     h5 "Intent", p
func (v *View) AddUtterance(b client.UtteranceBlock) {
	item := element(atom.Div, "utterance-item")
	item.AppendChild(withText(element(atom.H4, ""), b.Heading))
	item.AppendChild(withText(element(atom.P, "utterance-text"), b.Quote))

	analysis := element(atom.Div, "utterance-analysis")
	analysis.AppendChild(panel("Sentiment", b.Sentiment, b.SentimentTag))
	analysis.AppendChild(panel("Intent", b.Intent, b.IntentTag))
	item.AppendChild(analysis)

	v.elements[IDUtterances].AppendChild(item)
}

func panel(title, value, tag string) *html.Node {
	div := element(atom.Div, strings.TrimSpace("analysis-item "+tag))
	div.AppendChild(withText(element(atom.H5, ""), title))
	div.AppendChild(withText(element(atom.P, ""), value))
	return div
}

// Text returns the text content of the element with the given id.
func (v *View) Text(id string) string {
	n := v.elements[id]
	if n == nil {
		return ""
	}
	return textContent(n)
}

// Class returns the class attribute of the element with the given id.
func (v *View) Class(id string) string {
	n := v.elements[id]
	if n == nil {
		return ""
	}
	return attr(n, "class")
}

// IsHidden reports whether the element with the given id carries the hidden class.
func (v *View) IsHidden(id string) bool {
	n := v.elements[id]
	return n != nil && hasClass(n, hiddenClass)
}

// SubmitEnabled reports whether the analyze button is enabled.
func (v *View) SubmitEnabled() bool {
	return !hasAttr(v.elements[IDAnalyzeButton], "disabled")
}
