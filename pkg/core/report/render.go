package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"cre_underwriting/pkg/core/pipeline"
)

var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders a report variant as a standalone HTML document. The GFM
// extension is required for the distribution tables.
func (b *Builder) HTML(v Variant, res *pipeline.Result) ([]byte, error) {
	md, err := b.Markdown(v, res)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := htmlRenderer.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("failed to render %s report: %w", v, err)
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", res.Inputs.DealName)
	out.Write(body.Bytes())
	out.WriteString("\n</body>\n</html>\n")
	return out.Bytes(), nil
}
