package intent

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"
)

// Result reports whether an utterance was handled locally. Reply may be empty
// for handled intents that need no spoken confirmation.
type Result struct {
	Handled bool
	Reply   string
}

// Navigator hands a composed URI to the platform's navigation capability.
// The resolver only initiates navigation; confirmation and success are the
// platform's business.
type Navigator interface {
	Navigate(uri string) error
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(uri string) error

// Navigate calls fn(uri).
func (fn NavigatorFunc) Navigate(uri string) error { return fn(uri) }

// Resolver matches utterances against a fixed ordered rule table.
type Resolver struct {
	nav   Navigator
	now   func() time.Time
	rules []rule
}

type rule struct {
	name  string
	match func(utterance string) (string, bool)
	act   func(r *Resolver, arg string) Result
}

// NewResolver builds the resolver. A nil navigator disables system actions
// but keeps the confirmation replies.
func NewResolver(nav Navigator) *Resolver {
	r := &Resolver{nav: nav, now: time.Now}
	// Rule order is an invariant: first match wins.
	r.rules = []rule{
		{
			name: "time",
			match: containsAnyArg(
				"what time is it", "what's the time", "whats the time", "current time",
			),
			act: func(r *Resolver, _ string) Result {
				return Result{Handled: true, Reply: fmt.Sprintf("It's %s.", r.now().Format("3:04 PM"))}
			},
		},
		{
			name:  "call",
			match: prefixArg("call ", "phone ", "dial "),
			act: func(r *Resolver, target string) Result {
				r.navigate("tel:" + url.PathEscape(target))
				return Result{Handled: true, Reply: fmt.Sprintf("Sure, calling %s. Confirm the call on your device.", target)}
			},
		},
		{
			name:  "text",
			match: prefixArg("text ", "message ", "send a text to "),
			act: func(r *Resolver, rest string) Result {
				target, body := splitMessageBody(rest)
				uri := "sms:" + url.PathEscape(target)
				if body != "" {
					uri += "?body=" + url.QueryEscape(body)
				}
				r.navigate(uri)
				return Result{Handled: true, Reply: fmt.Sprintf("Drafting a text to %s. Hit send when you're ready.", target)}
			},
		},
		{
			name:  "open",
			match: prefixArg("open ", "go to ", "take me to "),
			act: func(r *Resolver, site string) Result {
				r.navigate("https://" + siteDomain(site))
				return Result{Handled: true, Reply: fmt.Sprintf("Opening %s for you.", site)}
			},
		},
		{
			name:  "search",
			match: prefixArg("search for ", "search ", "look up ", "google "),
			act: func(r *Resolver, query string) Result {
				r.navigate("https://www.google.com/search?q=" + url.QueryEscape(query))
				return Result{Handled: true, Reply: fmt.Sprintf("Searching the web for %s.", query)}
			},
		},
		{
			name:  "reminder",
			match: prefixArg("remind me to ", "remind me ", "schedule ", "add a reminder to "),
			act: func(r *Resolver, detail string) Result {
				r.navigate("https://calendar.google.com/calendar/u/0/r/eventedit?text=" + url.QueryEscape(detail))
				return Result{Handled: true, Reply: "Opening a calendar draft for that. Save it to confirm."}
			},
		},
	}
	return r
}

// Resolve maps an utterance to a local intent. Pure in its outcome: it never
// fails and never blocks; the only side effect is initiating navigation for
// matched action rules. Unmatched input is passed through to the model.
func (r *Resolver) Resolve(utterance string) Result {
	lowered := strings.ToLower(strings.TrimSpace(utterance))
	if lowered == "" {
		return Result{}
	}

	for _, rule := range r.rules {
		if arg, ok := rule.match(lowered); ok {
			return rule.act(r, arg)
		}
	}
	return Result{}
}

func (r *Resolver) navigate(uri string) {
	if r.nav == nil {
		return
	}
	// Navigation may still be declined at the OS prompt; either way the
	// confirmation reply stands.
	if err := r.nav.Navigate(uri); err != nil {
		log.Printf("[intent] navigation to %s failed: %v", uri, err)
	}
}

func prefixArg(prefixes ...string) func(string) (string, bool) {
	return func(utterance string) (string, bool) {
		for _, prefix := range prefixes {
			if strings.HasPrefix(utterance, prefix) {
				arg := strings.TrimSpace(strings.TrimPrefix(utterance, prefix))
				if arg != "" {
					return arg, true
				}
			}
		}
		return "", false
	}
}

func containsAnyArg(needles ...string) func(string) (string, bool) {
	return func(utterance string) (string, bool) {
		for _, needle := range needles {
			if strings.Contains(utterance, needle) {
				return needle, true
			}
		}
		return "", false
	}
}

// splitMessageBody separates "mom saying i'm on my way" into recipient and body.
func splitMessageBody(rest string) (target, body string) {
	for _, sep := range []string{" saying ", " that ", " to say "} {
		if idx := strings.Index(rest, sep); idx > 0 {
			return strings.TrimSpace(rest[:idx]), strings.TrimSpace(rest[idx+len(sep):])
		}
	}
	return rest, ""
}

// siteDomain turns a spoken site name into a navigable domain.
func siteDomain(site string) string {
	cleaned := strings.ReplaceAll(strings.TrimSpace(site), " ", "")
	if strings.Contains(cleaned, ".") {
		return cleaned
	}
	return cleaned + ".com"
}
