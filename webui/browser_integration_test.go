//go:build integration

package webui

import (
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserSubmit(t *testing.T) {
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no browser available")
	}
	controlURL, err := launcher.New().Bin(bin).Headless(true).Launch()
	if err != nil {
		t.Skipf("browser launch failed: %v", err)
	}

	browser := rod.New().ControlURL(controlURL)
	require.NoError(t, browser.Connect())
	defer browser.Close()

	srv := newServer(t)
	page, err := browser.Page(proto.TargetCreateTarget{URL: srv.URL + "/"})
	require.NoError(t, err)
	page = page.Timeout(15 * time.Second)
	require.NoError(t, page.WaitLoad())

	textarea, err := page.Element("#transcript")
	require.NoError(t, err)
	require.NoError(t, textarea.Input("Patient: I am worried about my back pain.\nPatient: The new stretches help, it is better."))

	button, err := page.Element("#analyze-btn")
	require.NoError(t, err)
	require.NoError(t, button.Click(proto.InputMouseButtonLeft, 1))

	item, err := page.Element(".utterance-item")
	require.NoError(t, err)
	heading, err := item.Element("h4")
	require.NoError(t, err)
	assert.Equal(t, "Patient Utterance 1", heading.MustText())

	items, err := page.Elements(".utterance-item")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	overall, err := page.Element("#overall-sentiment")
	require.NoError(t, err)
	assert.NotEmpty(t, overall.MustText())
}
