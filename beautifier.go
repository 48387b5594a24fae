package sassbeautify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yacobolo/sassbeautify/internal/filter"
	"github.com/yacobolo/sassbeautify/internal/sassconvert"
	"github.com/yacobolo/sassbeautify/internal/verify"
)

// FormatOptions are the arguments of one reformatter call
type FormatOptions = sassconvert.FormatOptions

// ReformatResult is the outcome of one reformatter call
type ReformatResult = sassconvert.Result

// Reformatter converts stylesheet text between syntaxes. Start must not
// block; it delivers exactly one result on the returned channel.
type Reformatter interface {
	Start(ctx context.Context, input string, opts FormatOptions) <-chan ReformatResult
}

// Mode selects the action of a request
type Mode int

const (
	// ModeBeautify converts a document to its own syntax
	ModeBeautify Mode = iota
	// ModeConvert converts a document from Request.From to its own syntax
	ModeConvert
)

// Request describes one beautify invocation
type Request struct {
	Mode   Mode
	From   Syntax // Source syntax, ModeConvert only
	Silent bool   // Do not notify failures (automatic on-save runs)
}

// Result reports a successful run
type Result struct {
	Path         string
	Syntax       Syntax // Syntax of the document, the conversion target
	From         Syntax // Syntax the text was read as
	Changed      bool
	Before       string
	After        string
	LostComments []string // Comments that did not survive the reformatter
	Duration     time.Duration
}

// Beautifier runs the pipeline: pre-filters, reformatter, post-filters,
// write back and save.
type Beautifier struct {
	opts        Options
	reformatter Reformatter
	notifier    Notifier
	logger      *zap.Logger
	guard       *guard
}

// Option customizes a Beautifier
type Option func(*Beautifier)

// WithReformatter replaces the sass-convert subprocess
func WithReformatter(r Reformatter) Option {
	return func(b *Beautifier) { b.reformatter = r }
}

// WithNotifier sets where status and error messages go
func WithNotifier(n Notifier) Option {
	return func(b *Beautifier) { b.notifier = n }
}

// WithLogger sets the logger, zap.NewNop by default
func WithLogger(l *zap.Logger) Option {
	return func(b *Beautifier) { b.logger = l }
}

// New validates opts and returns a Beautifier
func New(opts Options, options ...Option) (*Beautifier, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	b := &Beautifier{
		opts:        opts,
		reformatter: sassconvert.Runner{},
		notifier:    nopNotifier{},
		logger:      zap.NewNop(),
		guard:       newGuard(),
	}
	for _, o := range options {
		o(b)
	}
	return b, nil
}

// Options returns the configuration the Beautifier was built with
func (b *Beautifier) Options() Options {
	return b.opts
}

// Beautify runs the pipeline on buf. Failures leave the buffer untouched
// and are shown through the Notifier unless req.Silent is set; they are
// returned either way.
func (b *Beautifier) Beautify(ctx context.Context, buf Buffer, req Request) (*Result, error) {
	res, err := b.run(ctx, buf, req)
	if err != nil {
		b.logger.Debug("beautify failed", zap.String("path", buf.Path()), zap.Error(err))
		if !req.Silent {
			b.notifier.Error(errorMessage(err))
		}
		return nil, err
	}

	b.notifier.Status(fmt.Sprintf("Successfully beautified %s", res.Path))
	return res, nil
}

// TryAcquire marks path as in flight. Beautify calls on it fail with
// ErrInFlight until release is called. ok is false when the document is
// already held.
func (b *Beautifier) TryAcquire(path string) (release func(), ok bool) {
	return b.guard.tryAcquire(path)
}

// SelfSaving reports whether the beautifier is saving path right now
func (b *Beautifier) SelfSaving(path string) bool {
	return b.guard.selfSaving(path)
}

// Recent reports whether text is what the beautifier last saved to path.
// Hosts use it to ignore the change events caused by their own saves.
func (b *Beautifier) Recent(path, text string) bool {
	return b.guard.recent(path, text)
}

func (b *Beautifier) run(ctx context.Context, buf Buffer, req Request) (*Result, error) {
	started := time.Now()
	path := buf.Path()

	// 1. Preconditions
	target, err := ResolveSyntax(path, req.Mode == ModeBeautify)
	if err != nil {
		return nil, err
	}
	from := target
	if req.Mode == ModeConvert {
		if from, err = ParseSyntax(string(req.From)); err != nil {
			return nil, err
		}
	}

	release, ok := b.guard.tryAcquire(path)
	if !ok {
		return nil, ErrInFlight
	}
	defer release()

	original, err := buf.Text()
	if err != nil {
		return nil, err
	}

	log := b.logger.With(zap.String("path", path), zap.String("from", string(from)), zap.String("to", string(target)))

	// 2. Pre-filters
	input := PreProcess(original, from, b.opts)
	log.Debug("pre-filters applied", zap.Int("bytes", len(input)))

	// 3. Reformatter
	out, err := b.reformat(ctx, path, input, b.opts.formatOptions(from, target))
	if err != nil {
		return nil, err
	}
	log.Debug("reformatter finished", zap.Int("bytes", len(out)))

	// 4. Post-filters, comment restoration first
	text := out
	if b.opts.InlineComments {
		text = filter.RestoreComments(text)
	}

	var lost []string
	if from == target {
		lost = verify.Missing(verify.Comments(original), verify.Comments(text))
		for _, c := range lost {
			log.Warn("comment lost by reformatter", zap.String("comment", c))
		}
	}

	text = rewrite(text, b.opts)

	res := &Result{
		Path:         path,
		Syntax:       target,
		From:         from,
		Changed:      text != original,
		Before:       original,
		After:        text,
		LostComments: lost,
	}

	// 5. Write back
	if res.Changed {
		if err := buf.Replace(text); err != nil {
			return nil, fmt.Errorf("replace content: %w", err)
		}
		if err := b.guard.selfSave(path, text, buf.Save); err != nil {
			return nil, fmt.Errorf("save: %w", err)
		}
	}

	res.Duration = time.Since(started)
	log.Debug("beautified", zap.Bool("changed", res.Changed), zap.Duration("took", res.Duration))
	return res, nil
}

// reformat waits for the reformatter without blocking past the timeout or
// the caller's context.
func (b *Beautifier) reformat(ctx context.Context, path, input string, opts FormatOptions) (string, error) {
	if b.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.opts.Timeout)
		defer cancel()
	}

	select {
	case r, ok := <-b.reformatter.Start(ctx, input, opts):
		if !ok && ctx.Err() != nil {
			return "", &ReformatError{Path: path, ExitCode: sassconvert.SpawnFailed, Stderr: ctx.Err().Error()}
		}
		if !ok || !r.OK() {
			return "", &ReformatError{Path: path, ExitCode: r.ExitCode, Stderr: r.Stderr}
		}
		return r.Stdout, nil
	case <-ctx.Done():
		return "", &ReformatError{Path: path, ExitCode: sassconvert.SpawnFailed, Stderr: ctx.Err().Error()}
	}
}

// PreProcess prepares raw text for the reformatter: brace syntax gets its
// missing semicolons and, with InlineComments, trailing comments are marked.
func PreProcess(text string, from Syntax, opts Options) string {
	if from == SyntaxScss {
		text = filter.NormalizeSemicolons(text)
	}
	if opts.InlineComments {
		text = filter.MarkComments(text)
	}
	return text
}

// PostProcess applies the post-reformat filters to text in pipeline order,
// starting with comment restoration.
func PostProcess(text string, opts Options) string {
	if opts.InlineComments {
		text = filter.RestoreComments(text)
	}
	return rewrite(text, opts)
}

// rewrite applies the style rules. Order matters: blank lines are placed on
// the comment-restored line structure, braces move before leading zeros are
// stripped.
func rewrite(text string, opts Options) string {
	if opts.NewlineBetweenSelectors {
		text = filter.InsertNewlines(text)
	}
	if opts.UseSingleQuotes {
		text = filter.SingleQuotes(text)
	}
	text = filter.BorderZero(text, string(opts.BorderZero))
	if opts.ZeroUnit {
		text = filter.RemoveZeroUnit(text)
	}
	text = filter.HexLength(text, string(opts.HexLength))
	if opts.IndentStyle == IndentAllman {
		text = filter.AllmanBraces(text)
	}
	if opts.LeadingZero {
		text = filter.RemoveLeadingZero(text)
	}
	return text
}

// errorMessage renders err for the user: reformatter output verbatim,
// everything else as is.
func errorMessage(err error) string {
	var rerr *ReformatError
	if errors.As(err, &rerr) && rerr.Stderr != "" {
		return rerr.Stderr
	}
	return err.Error()
}
