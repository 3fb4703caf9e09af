package tally

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/ledger"
)

var (
	errEmptyBody     = errors.New("empty response body")
	errNoRootElement = errors.New("no root element")
	errMultipleRoots = errors.New("more than one root element")
)

// Tally pads some fields with control characters that XML 1.0 forbids,
// both raw and as character references.
var illegalCharRef = regexp.MustCompile(`&#(?:0*(?:[0-8]|1[1-2]|1[4-9]|2[0-9]|3[01])|[xX]0*(?:[0-8]|[bBcCeEfF]|1[0-9a-fA-F]));`)

func sanitize(data []byte) []byte {
	data = illegalCharRef.ReplaceAll(data, nil)
	return bytes.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, data)
}

type frame struct {
	name     string
	text     strings.Builder
	children map[string]any
}

func (f *frame) add(name string, value any) {
	if f.children == nil {
		f.children = make(map[string]any)
	}
	existing, ok := f.children[name]
	if !ok {
		f.children[name] = value
		return
	}
	if list, isList := existing.([]any); isList {
		f.children[name] = append(list, value)
		return
	}
	f.children[name] = []any{existing, value}
}

// value collapses a text-only element to its string and keeps mixed text
// under "_"
func (f *frame) value() any {
	text := strings.TrimSpace(f.text.String())
	if f.children == nil {
		return text
	}
	if text != "" {
		f.children["_"] = text
	}
	return f.children
}

// DecodeTree converts a markup document into nested maps, lists and strings.
// Attributes are dropped and an element that occurs once is a bare value,
// not a one-element list. Any syntax error fails the whole document.
func DecodeTree(data []byte) (ledger.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ledger.ParseError{Err: errEmptyBody}
	}

	dec := xml.NewDecoder(bytes.NewReader(sanitize(data)))
	dec.CharsetReader = charset.NewReaderLabel

	var (
		stack []*frame
		root  map[string]any
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ledger.ParseError{Offset: dec.InputOffset(), Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, &ledger.ParseError{Offset: dec.InputOffset(), Err: errMultipleRoots}
			}
			stack = append(stack, &frame{name: t.Name.Local})
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				root = map[string]any{top.name: top.value()}
			} else {
				stack[len(stack)-1].add(top.name, top.value())
			}
		}
	}

	if root == nil {
		return nil, &ledger.ParseError{Offset: dec.InputOffset(), Err: errNoRootElement}
	}
	return root, nil
}
