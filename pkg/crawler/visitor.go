package crawler

import (
	"context"
	"fmt"

	"github.com/endmap/endmap/pkg/duration"
	"github.com/endmap/endmap/pkg/endpoint"
	"github.com/endmap/endmap/pkg/headless"
)

// Visitor performs the full per-page interaction sequence on a live
// browser session: dwell, stimulate, model forms, then drain the capture.
type Visitor struct {
	session  *headless.Session
	recorder *headless.Recorder
	settle   headless.SettlePolicy
	domain   string
	headers  map[string]string
	progress func(string)
}

// Compile-time check that Visitor satisfies the crawl loop's contract.
var _ Browser = (*Visitor)(nil)

// NewVisitor wires a recorder onto the session and returns a Visitor.
// Custom headers ride on captured traffic already; they are stamped onto
// modeled form endpoints so those carry them too.
func NewVisitor(session *headless.Session, domain string, headers map[string]string, settle headless.SettlePolicy, progressFn func(string)) *Visitor {
	if settle == nil {
		settle = headless.FixedDelay{}
	}
	return &Visitor{
		session:  session,
		recorder: headless.NewRecorder(session),
		settle:   settle,
		domain:   domain,
		headers:  headers,
		progress: progressFn,
	}
}

// Visit loads one page and works it over. The recorder drains at the end
// so every XHR the page or the stimulation fired lands in this page's
// results. A navigation failure abandons the page; individual element or
// form failures do not.
func (v *Visitor) Visit(ctx context.Context, pageURL string) (*Page, error) {
	// Drop traffic left over from a previous page's teardown.
	v.recorder.Drain()

	if err := v.session.Navigate(pageURL); err != nil {
		return nil, err
	}
	v.settle.Wait(ctx, duration.PageDwell)

	finalURL, err := v.session.Location()
	if err != nil {
		return nil, err
	}

	if elements, err := headless.DiscoverInteractives(v.session.Context()); err == nil {
		headless.Stimulate(v.session, elements, v.settle, v.progress)
		if err := headless.ReturnTo(v.session, finalURL); err != nil {
			return nil, fmt.Errorf("return to %s: %w", finalURL, err)
		}
	} else {
		v.report(fmt.Sprintf("Element discovery failed on %s: %v", finalURL, err))
	}

	formEndpoints := v.modelForms(finalURL)

	links, err := v.session.Links()
	if err != nil {
		v.report(fmt.Sprintf("Link collection failed on %s: %v", finalURL, err))
	}

	pageHTML, err := v.session.HTML()
	if err != nil {
		v.report(fmt.Sprintf("HTML read failed on %s: %v", finalURL, err))
	}

	endpoints, scripts := headless.ProcessRequests(v.recorder.Drain(), v.domain)
	endpoints = append(endpoints, formEndpoints...)

	return &Page{
		FinalURL:  finalURL,
		HTML:      pageHTML,
		Links:     links,
		Endpoints: endpoints,
		Scripts:   scripts,
	}, nil
}

// modelForms fills and models every form on the page without submitting.
// Filling runs first so change handlers fire into the recorder; the
// endpoint itself is built from the form's structure.
func (v *Visitor) modelForms(pageURL string) []endpoint.Endpoint {
	forms, err := headless.DiscoverForms(v.session.Context())
	if err != nil {
		v.report(fmt.Sprintf("Form discovery failed on %s: %v", pageURL, err))
		return nil
	}

	var endpoints []endpoint.Endpoint
	for _, form := range forms {
		headless.FillFields(v.session.Context(), form)

		ep, err := headless.BuildFormEndpoint(form, pageURL)
		if err != nil {
			v.report(fmt.Sprintf("Form skipped on %s: %v", pageURL, err))
			continue
		}
		if len(v.headers) > 0 {
			ep.ExtraHeaders = v.headers
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints
}

func (v *Visitor) report(msg string) {
	if v.progress != nil {
		v.progress(msg)
	}
}
