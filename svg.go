package pointcloud

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// localName strips the namespace prefix of a tag or attribute name.
func localName(name []byte) string {
	if i := bytes.IndexByte(name, ':'); i != -1 {
		name = name[i+1:]
	}
	return string(name)
}

// xmlEntities are the predefined XML entities, character references are decoded as well.
var xmlEntities = map[string][]byte{
	"amp":  []byte("&"),
	"lt":   []byte("<"),
	"gt":   []byte(">"),
	"quot": []byte("\""),
	"apos": []byte("'"),
}

func unquote(val []byte) []byte {
	if 2 <= len(val) && (val[0] == '"' || val[0] == '\'') && val[len(val)-1] == val[0] {
		return val[1 : len(val)-1]
	}
	return val
}

// ExtractPathData returns the d attribute of the first path element in an SVG document and the
// number of path elements with path data in the document. Only the first path is used; the
// others are ignored. An error wrapping ErrParse is returned when no path data is found or
// when the document is malformed.
func ExtractPathData(svg []byte) (string, int, error) {
	// UTF-16 documents are recognised by their byte order mark
	svg, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), svg)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrParse, err)
	}

	z := parse.NewInput(bytes.NewReader(svg))
	defer z.Restore()

	var d string
	n := 0
	l := xml.NewLexer(z)
	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() != io.EOF {
				return "", n, fmt.Errorf("%w: %w", ErrParse, l.Err())
			} else if n == 0 {
				return "", 0, fmt.Errorf("%w: no path data", ErrParse)
			}
			return d, n, nil
		case xml.StartTagToken:
			isPath := strings.EqualFold(localName(data[1:]), "path")
			for {
				tt, _ = l.Next()
				if tt != xml.AttributeToken {
					break
				}
				if isPath && strings.EqualFold(localName(l.Text()), "d") {
					val := parse.ReplaceEntities(parse.Copy(unquote(l.AttrVal())), xmlEntities, nil)
					val = parse.TrimWhitespace(val)
					if len(val) == 0 {
						continue
					}
					if n == 0 {
						d = string(val)
					}
					n++
				}
			}
		}
	}
}
