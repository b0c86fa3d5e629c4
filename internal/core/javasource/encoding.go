package javasource

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned for source encoding names no charset table knows.
var ErrUnknownEncoding = errors.New("unknown source encoding")

// javac accepts Cp125x for the Windows code pages
var windowsCodePage = regexp.MustCompile(`(?i)^cp(125[0-8])$`)

// Encoding resolves a source encoding name. IANA names and aliases are tried
// first, then the Java CpNNNN names, then WHATWG labels. An empty name is UTF-8.
func Encoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, nil
	}

	candidates := []string{name}
	if m := windowsCodePage.FindStringSubmatch(name); m != nil {
		candidates = append(candidates, "windows-"+m[1])
	}
	for _, c := range candidates {
		enc, err := ianaindex.IANA.Encoding(c)
		if err == nil && enc != nil {
			return enc, nil
		}
	}
	for _, c := range []string{name, strings.ReplaceAll(name, "_", "-")} {
		if enc, err := htmlindex.Get(c); err == nil {
			return enc, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// decode converts data from enc to UTF-8.
func decode(enc encoding.Encoding, data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	return out, err
}
