package headless

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/endmap/endmap/pkg/endpoint"
)

// FormField is one input discovered inside a form.
type FormField struct {
	Selector    string   `json:"selector"`
	Tag         string   `json:"tag"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Value       string   `json:"value"`
	Placeholder string   `json:"placeholder"`
	Options     []string `json:"options,omitempty"`
	Visible     bool     `json:"visible"`
	Disabled    bool     `json:"disabled"`
}

// FormInfo describes a form on the page.
type FormInfo struct {
	Selector string      `json:"selector"`
	Action   string      `json:"action"`
	Method   string      `json:"method"`
	Visible  bool        `json:"visible"`
	Fields   []FormField `json:"fields"`
}

// discoverFormsJS is injected to enumerate forms and their fields. The
// selector builder mirrors the clickable one so fields can be filled later.
const discoverFormsJS = `
(function() {
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

    function isVisible(el) {
        const rect = el.getBoundingClientRect();
        if (rect.width === 0 || rect.height === 0) return false;
        const style = window.getComputedStyle(el);
        return style.display !== 'none' && style.visibility !== 'hidden';
    }

    const forms = [];
    document.querySelectorAll('form').forEach(function(form) {
        const fields = [];
        form.querySelectorAll('input, textarea, select').forEach(function(el) {
            const tag = el.tagName.toLowerCase();
            let options = [];
            if (tag === 'select') {
                options = Array.from(el.options).map(o => o.value);
            }
            fields.push({
                selector: cssSelector(el),
                tag: tag,
                type: (el.getAttribute('type') || '').toLowerCase(),
                name: el.getAttribute('name') || '',
                id: el.id || '',
                value: el.value || '',
                placeholder: el.getAttribute('placeholder') || '',
                options: options,
                visible: isVisible(el),
                disabled: el.disabled === true
            });
        });
        forms.push({
            selector: cssSelector(form),
            action: form.getAttribute('action') || '',
            method: form.getAttribute('method') || '',
            visible: isVisible(form),
            fields: fields
        });
    });
    return JSON.stringify(forms);
})()
`

// DiscoverForms enumerates the visible forms on the current page.
func DiscoverForms(ctx context.Context) ([]FormInfo, error) {
	var resultJSON string
	if err := chromedp.Run(ctx, chromedp.Evaluate(discoverFormsJS, &resultJSON)); err != nil {
		return nil, fmt.Errorf("discover forms: %w", err)
	}
	forms, err := ParseFormsJSON(resultJSON)
	if err != nil {
		return nil, err
	}
	return visibleForms(forms), nil
}

// visibleForms drops forms the user cannot see; their fields are not part
// of the page's interactive surface.
func visibleForms(forms []FormInfo) []FormInfo {
	var out []FormInfo
	for _, f := range forms {
		if f.Visible {
			out = append(out, f)
		}
	}
	return out
}

// ParseFormsJSON parses the raw JSON output from discoverFormsJS.
// Exported for testing without a browser.
func ParseFormsJSON(jsonData string) ([]FormInfo, error) {
	var forms []FormInfo
	if err := json.Unmarshal([]byte(jsonData), &forms); err != nil {
		return nil, fmt.Errorf("parse forms JSON: %w", err)
	}
	return forms, nil
}

// modeledInputTypes are the input types worth a parameter in the form's
// descriptor. The empty string covers inputs with no type attribute,
// which browsers treat as text.
var modeledInputTypes = map[string]struct{}{
	"":         {},
	"text":     {},
	"search":   {},
	"email":    {},
	"number":   {},
	"password": {},
	"checkbox": {},
	"radio":    {},
}

// modeled reports whether a field belongs in the form's parameter map.
// Only visible, enabled fields of the supported kinds qualify; hidden
// inputs in particular carry server state such as CSRF tokens that must
// not leak into results.
func modeled(field FormField) bool {
	if !field.Visible || field.Disabled {
		return false
	}
	switch field.Tag {
	case "textarea", "select":
		return true
	case "input":
		_, ok := modeledInputTypes[field.Type]
		return ok
	}
	return false
}

// PlaceholderFor picks a fill value for a field based on its kind.
func PlaceholderFor(field FormField) string {
	if field.Tag == "textarea" {
		return "Sample text"
	}
	if field.Tag == "select" {
		if len(field.Options) > 0 {
			return field.Options[len(field.Options)-1]
		}
		return ""
	}
	switch field.Type {
	case "password":
		return "Test123!"
	case "number":
		return "42"
	case "checkbox", "radio":
		if field.Value != "" {
			return field.Value
		}
		return "on"
	default:
		return "test"
	}
}

// fieldKey returns the parameter name for a field, falling back to a
// positional name when the markup omits one.
func fieldKey(field FormField, index int) string {
	if field.Name != "" {
		return field.Name
	}
	return fmt.Sprintf("input_%d", index)
}

// BuildFormEndpoint models what submitting the form would send, without
// actually submitting it. The action resolves against the page URL; a
// missing action targets the page itself.
func BuildFormEndpoint(form FormInfo, pageURL string) (endpoint.Endpoint, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return endpoint.Endpoint{}, fmt.Errorf("parse page URL: %w", err)
	}

	target := pageURL
	if form.Action != "" {
		ref, err := url.Parse(form.Action)
		if err != nil {
			return endpoint.Endpoint{}, fmt.Errorf("parse form action %q: %w", form.Action, err)
		}
		target = base.ResolveReference(ref).String()
	}

	method := strings.ToUpper(form.Method)
	if method == "" {
		method = "POST"
	}

	params := make(map[string]any)
	for i, field := range form.Fields {
		if !modeled(field) {
			continue
		}
		params[fieldKey(field, i)] = PlaceholderFor(field)
	}
	if len(params) == 0 {
		params = nil
	}

	return endpoint.Endpoint{
		URL:        target,
		Method:     method,
		BodyParams: params,
	}, nil
}

// FillFields types placeholder values into a form's visible fields. This
// is stimulation only; any XHR a change handler fires lands in the
// recorder. Fields that cannot be filled are skipped.
func FillFields(ctx context.Context, form FormInfo) {
	for _, field := range form.Fields {
		if !modeled(field) {
			continue
		}
		switch {
		case field.Tag == "select":
			if len(field.Options) > 0 {
				js := fmt.Sprintf(
					`(function(){var el=document.querySelector(%q);if(el){el.selectedIndex=el.options.length-1;el.dispatchEvent(new Event('change',{bubbles:true}));}})()`,
					field.Selector,
				)
				_ = chromedp.Run(ctx, chromedp.Evaluate(js, nil))
			}
		case field.Type == "checkbox" || field.Type == "radio":
			_ = chromedp.Run(ctx, chromedp.Click(field.Selector, chromedp.NodeVisible))
		default:
			value := PlaceholderFor(field)
			if value == "" {
				continue
			}
			_ = chromedp.Run(ctx, chromedp.SendKeys(field.Selector, value, chromedp.NodeVisible))
		}
	}
}
