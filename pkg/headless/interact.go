package headless

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/endmap/endmap/pkg/duration"
)

// InteractiveElement is a DOM element worth poking to surface the XHR
// traffic behind it.
type InteractiveElement struct {
	Selector string `json:"selector"`
	Tag      string `json:"tag"`
	Type     string `json:"type"` // button, onclick, search-input, change-input
	Text     string `json:"text"`
}

// discoverInteractivesJS finds buttons, click handlers, and inputs whose
// handlers tend to fire background requests. Invisible elements are
// skipped since Click would stall on them.
const discoverInteractivesJS = `
(function() {
    const elements = [];
    const seen = new Set();

    function cssSelector(el) {
        if (el.id) return '#' + el.id;
        let path = [];
        while (el && el.nodeType === 1) {
            let selector = el.tagName.toLowerCase();
            if (el.id) { path.unshift('#' + el.id); break; }
            let sibling = el;
            let nth = 1;
            while (sibling = sibling.previousElementSibling) {
                if (sibling.tagName === el.tagName) nth++;
            }
            if (nth > 1) selector += ':nth-of-type(' + nth + ')';
            path.unshift(selector);
            el = el.parentElement;
        }
        return path.join(' > ');
    }

    function addElement(el, type) {
        const selector = cssSelector(el);
        if (seen.has(selector)) return;
        seen.add(selector);

        const rect = el.getBoundingClientRect();
        if (rect.width === 0 || rect.height === 0) return;
        const style = window.getComputedStyle(el);
        if (style.display === 'none' || style.visibility === 'hidden') return;

        elements.push({
            selector: selector,
            tag: el.tagName.toLowerCase(),
            type: type,
            text: (el.textContent || el.value || '').trim().substring(0, 100)
        });
    }

    document.querySelectorAll('button, input[type="button"]').forEach(function(el) {
        addElement(el, 'button');
    });

    document.querySelectorAll('[onclick]').forEach(function(el) {
        addElement(el, 'onclick');
    });

    document.querySelectorAll('input[type="text"], input[type="search"], input:not([type])').forEach(function(el) {
        addElement(el, 'search-input');
    });

    document.querySelectorAll('[onchange], [oninput]').forEach(function(el) {
        const tag = el.tagName.toLowerCase();
        if (tag === 'input' || tag === 'textarea') {
            addElement(el, 'change-input');
        }
    });

    return JSON.stringify(elements);
})()
`

// DiscoverInteractives enumerates interactive elements on the current page.
func DiscoverInteractives(ctx context.Context) ([]InteractiveElement, error) {
	var resultJSON string
	if err := chromedp.Run(ctx, chromedp.Evaluate(discoverInteractivesJS, &resultJSON)); err != nil {
		return nil, fmt.Errorf("discover interactives: %w", err)
	}
	return ParseInteractivesJSON(resultJSON)
}

// ParseInteractivesJSON parses the raw JSON output from
// discoverInteractivesJS. Exported for testing without a browser.
func ParseInteractivesJSON(jsonData string) ([]InteractiveElement, error) {
	var elements []InteractiveElement
	if err := json.Unmarshal([]byte(jsonData), &elements); err != nil {
		return nil, fmt.Errorf("parse interactives JSON: %w", err)
	}
	return elements, nil
}

// Stimulate interacts with every discovered element so their handlers run
// and the recorder sees the traffic. Each interaction is independent:
// an element that disappeared or refuses input is skipped, never fatal.
// The page may navigate away; callers re-anchor to pageURL afterwards.
func Stimulate(s *Session, elements []InteractiveElement, settle SettlePolicy, progressFn func(string)) {
	ctx := s.Context()
	for _, el := range elements {
		switch el.Type {
		case "button", "onclick":
			if err := chromedp.Run(ctx, chromedp.Click(el.Selector, chromedp.NodeVisible)); err != nil {
				continue
			}
			settle.Wait(ctx, duration.InteractionSettle)

		case "search-input":
			// Typed query plus Enter, the way a user triggers search XHR.
			if err := chromedp.Run(ctx, chromedp.SendKeys(el.Selector, "test\n", chromedp.NodeVisible)); err != nil {
				continue
			}
			settle.Wait(ctx, duration.InteractionSettle)

		case "change-input":
			if err := chromedp.Run(ctx, chromedp.SendKeys(el.Selector, "test", chromedp.NodeVisible)); err != nil {
				continue
			}
			settle.Wait(ctx, duration.EventSettle)
		}

		if ctx.Err() != nil {
			return
		}
	}

	if progressFn != nil && len(elements) > 0 {
		progressFn(fmt.Sprintf("Stimulated %d interactive elements", len(elements)))
	}
}

// ReturnTo navigates back to pageURL if an interaction moved the browser
// off it.
func ReturnTo(s *Session, pageURL string) error {
	current, err := s.Location()
	if err == nil && current == pageURL {
		return nil
	}
	return s.Navigate(pageURL)
}
