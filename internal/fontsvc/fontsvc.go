// Package fontsvc serializes access to the injected font binding behind a
// single goroutine (spec.md §9 Design Notes: "the font-configuration mutex
// should become a serialized sub-service"), fed by a channel instead of a
// shared mutex around a non-reentrant C-backed library. Grounded on the
// teacher's recommendation in spec.md itself plus the general "one
// goroutine owns the resource, callers submit work" pattern used by
// internal/embeddedstore's single-writer discipline.
package fontsvc

import (
	"context"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/width"

	"github.com/asgen-project/asgen/backend/fontbinding"
)

// Result is the derived data the Package Processor needs from a font file
// (spec.md §4.3 step 6).
type Result struct {
	FullName    string
	Style       string
	Languages   []language.Tag
	SampleIcon  []byte // PNG, rendered at icon resolution
	SampleShot  []byte // PNG, rendered at screenshot resolution
}

type request struct {
	ctx    context.Context
	data   []byte
	reply  chan<- response
}

type response struct {
	res Result
	err error
}

// Service owns a [fontbinding.Binding] and processes one font at a time.
type Service struct {
	binding fontbinding.Binding
	reqs    chan request
	done    chan struct{}
}

// New starts the service's worker goroutine. Call Close when finished.
func New(binding fontbinding.Binding) *Service {
	s := &Service{
		binding: binding,
		reqs:    make(chan request),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Service) run() {
	defer close(s.done)
	for req := range s.reqs {
		res, err := s.process(req.ctx, req.data)
		req.reply <- response{res: res, err: err}
	}
}

func (s *Service) process(ctx context.Context, data []byte) (Result, error) {
	face, err := s.binding.Open(ctx, data)
	if err != nil {
		return Result{}, fmt.Errorf("fontsvc: open: %w", err)
	}
	langs := face.Languages()
	sample := pangramFor(langs)
	iconW, shotW := 64, 1248
	if sampleIsWide(sample) {
		// East Asian Wide/Fullwidth glyphs render at roughly double the
		// advance of a Latin glyph at the same point size; widen the
		// canvas so the sample isn't clipped.
		iconW, shotW = iconW*2, shotW*2
	}

	icon, err := face.RenderSample(ctx, sample, iconW, 64)
	if err != nil {
		return Result{}, fmt.Errorf("fontsvc: render icon: %w", err)
	}
	shot, err := face.RenderSample(ctx, sample, shotW, 702)
	if err != nil {
		return Result{}, fmt.Errorf("fontsvc: render screenshot: %w", err)
	}

	return Result{
		FullName:   face.FullName(),
		Style:      face.Style(),
		Languages:  langs,
		SampleIcon: icon,
		SampleShot: shot,
	}, nil
}

// Process enqueues data for the worker goroutine and blocks for its result.
// Safe to call concurrently; requests are handled strictly one at a time.
func (s *Service) Process(ctx context.Context, data []byte) (Result, error) {
	reply := make(chan response, 1)
	select {
	case s.reqs <- request{ctx: ctx, data: data, reply: reply}:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
	select {
	case r := <-reply:
		return r.res, r.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Close stops the worker goroutine once pending requests drain.
func (s *Service) Close() {
	close(s.reqs)
	<-s.done
}

// pangrams maps a language base to a pangram exercising most of its script;
// unrecognized languages fall back to English.
var pangrams = map[string]string{
	"en": "The quick brown fox jumps over the lazy dog",
	"de": "Zwölf Boxkämpfer jagen Viktor quer über den großen Sylter Deich",
	"fr": "Portez ce vieux whisky au juge blond qui fume",
	"es": "El veloz murciélago hindú comía feliz cardillo y kiwi",
	"el": "Ξεσκεπάζω την ψυχοφθόρα βδελυγμία",
	"ru": "Съешь же ещё этих мягких французских булок да выпей чаю",
	"ja": "いろはにほへと ちりぬるを わかよたれそ つねならむ",
}

// pangramFor picks the best-covered pangram for a face's declared
// languages, preferring the first language with a dedicated entry and
// falling back to English. golang.org/x/text/language resolves each
// declared tag to its base language for the lookup, so region variants
// (e.g. "de-AT") still match.
func pangramFor(langs []language.Tag) string {
	for _, tag := range langs {
		base, conf := tag.Base()
		if conf == language.No {
			continue
		}
		if s, ok := pangrams[base.String()]; ok {
			return s
		}
	}
	return pangrams["en"]
}

// sampleIsWide reports whether text contains any East Asian Wide or
// Fullwidth rune, per golang.org/x/text/width's classification.
func sampleIsWide(text string) bool {
	for _, r := range text {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			return true
		}
	}
	return false
}
