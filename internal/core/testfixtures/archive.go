package testfixtures

import (
	"archive/zip"
	"bytes"
	"sort"
)

// JarBuilder provides a builder pattern for zip archives of class files
type JarBuilder struct {
	entries map[string][]byte
}

// NewJarBuilder creates an empty archive builder
func NewJarBuilder() *JarBuilder {
	return &JarBuilder{entries: map[string][]byte{}}
}

// WithClass adds a class built by b under its internal path
func (j *JarBuilder) WithClass(className string, b *ClassBuilder) *JarBuilder {
	j.entries[internalName(className)+".class"] = b.Build()
	return j
}

// WithEntry adds raw bytes under the given entry name
func (j *JarBuilder) WithEntry(name string, data []byte) *JarBuilder {
	j.entries[name] = data
	return j
}

// Build writes the archive, entries ordered by name
func (j *JarBuilder) Build() []byte {
	names := make([]string, 0, len(j.entries))
	for n := range j.entries {
		names = append(names, n)
	}
	sort.Strings(names)

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, n := range names {
		w, err := zw.Create(n)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write(j.entries[n]); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// ClassPath returns the relative path of a class file for a dotted name
func ClassPath(className string) string {
	return internalName(className) + ".class"
}
