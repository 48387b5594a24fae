// Package sassbeautify beautifies Sass, Scss and CSS stylesheets.
//
// The external sass-convert tool does the heavy lifting; this package wraps
// it in a text pipeline that shields trailing comments across the round
// trip and applies optional style rules afterwards (quote style, hex color
// length, zero units, brace placement, leading zeros, semicolons and blank
// lines between rule blocks).
//
// # Beautifying a file
//
//	opts := sassbeautify.DefaultOptions()
//	opts.InlineComments = true
//	opts.HexLength = sassbeautify.HexLengthShort
//
//	b, err := sassbeautify.New(opts)
//	if err != nil {
//		return err
//	}
//	res, err := b.Beautify(ctx, sassbeautify.NewFileBuffer("styles/app.scss"), sassbeautify.Request{})
//
// # Batches
//
//	files, stats, err := sassbeautify.ExpandPatterns([]string{"styles/**/*.scss"})
//	result := b.BeautifyFiles(ctx, files, sassbeautify.Request{}, 4)
//	result.Stats = stats
//
// # CLI Tool
//
// Install with:
//
//	go install github.com/yacobolo/sassbeautify/cmd/sassbeautify@latest
package sassbeautify
