package javasource

import "strings"

// Tag is one block tag of a doc comment, e.g. "@parameter property=foo".
type Tag struct {
	Name  string
	Value string
}

// NamedParameter returns the value of key=value (or key="quoted value") in
// the tag text.
func (t Tag) NamedParameter(key string) (string, bool) {
	for _, kv := range tagParameters(t.Value) {
		if kv[0] == key {
			return kv[1], true
		}
	}
	return "", false
}

// tagParameters splits tag text into key/value pairs. A bare word yields a
// pair with an empty value.
func tagParameters(s string) [][2]string {
	var out [][2]string
	i := 0
	for i < len(s) {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		start := i
		for i < len(s) && !isSpace(s[i]) && s[i] != '=' {
			i++
		}
		if start == i {
			i++
			continue
		}
		key := s[start:i]
		if i >= len(s) || s[i] != '=' {
			out = append(out, [2]string{key, ""})
			continue
		}
		i++
		var value string
		if i < len(s) && s[i] == '"' {
			end := strings.IndexByte(s[i+1:], '"')
			if end < 0 {
				value = s[i+1:]
				i = len(s)
			} else {
				value = s[i+1 : i+1+end]
				i += end + 2
			}
		} else {
			vs := i
			for i < len(s) && !isSpace(s[i]) {
				i++
			}
			value = s[vs:i]
		}
		out = append(out, [2]string{key, value})
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// DocComment is a parsed /** ... */ comment: the leading description and the
// block tags that follow it.
type DocComment struct {
	Text string
	Tags []Tag
}

// Comment returns the description text, or "" for a nil comment.
func (d *DocComment) Comment() string {
	if d == nil {
		return ""
	}
	return d.Text
}

// Tag returns the first tag with the given name.
func (d *DocComment) Tag(name string) (Tag, bool) {
	if d == nil {
		return Tag{}, false
	}
	for _, t := range d.Tags {
		if t.Name == name {
			return t, true
		}
	}
	return Tag{}, false
}

// HasTag reports whether a tag with the given name is present.
func (d *DocComment) HasTag(name string) bool {
	_, ok := d.Tag(name)
	return ok
}

func parseDoc(raw string) *DocComment {
	body := strings.TrimSuffix(strings.TrimPrefix(raw, "/**"), "*/")
	doc := &DocComment{}
	var text []string
	var cur *Tag
	var value []string

	flush := func() {
		if cur != nil {
			cur.Value = strings.TrimSpace(strings.Join(value, "\n"))
			doc.Tags = append(doc.Tags, *cur)
			cur, value = nil, nil
		}
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "*") {
			trimmed = strings.TrimPrefix(trimmed, "*")
			trimmed = strings.TrimPrefix(trimmed, " ")
		}
		if name, rest, ok := blockTag(trimmed); ok {
			flush()
			cur = &Tag{Name: name}
			value = []string{rest}
			continue
		}
		if cur != nil {
			value = append(value, strings.TrimSpace(trimmed))
		} else {
			text = append(text, strings.TrimRight(trimmed, " \t"))
		}
	}
	flush()
	doc.Text = strings.TrimSpace(strings.Join(text, "\n"))
	return doc
}

// blockTag splits "@name rest" at the start of a comment line.
func blockTag(line string) (string, string, bool) {
	s := strings.TrimLeft(line, " \t")
	if len(s) < 2 || s[0] != '@' || !isTagNameByte(s[1]) {
		return "", "", false
	}
	i := 1
	for i < len(s) && (isTagNameByte(s[i]) || s[i] == '-' || s[i] == '.') {
		i++
	}
	return s[1:i], strings.TrimSpace(s[i:]), true
}

func isTagNameByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
}
