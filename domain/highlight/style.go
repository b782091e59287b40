package highlight

import (
	"fmt"

	"github.com/helixml/textdiff/domain/align"
	"gopkg.in/yaml.v3"
)

// Style is the open/close markup pair wrapped around a non-equal span.
type Style struct {
	open  string
	close string
}

// NewStyle creates a new Style.
func NewStyle(open, close string) Style {
	return Style{open: open, close: close}
}

// Open returns the opening markup.
func (s Style) Open() string { return s.open }

// Close returns the closing markup.
func (s Style) Close() string { return s.close }

// StyleMap maps the non-equal op tags to their markup pair. Equal spans are
// never styled.
type StyleMap struct {
	replace Style
	delete  Style
	insert  Style
}

// NewStyleMap creates a StyleMap from the three non-equal styles.
func NewStyleMap(replace, del, insert Style) StyleMap {
	return StyleMap{replace: replace, delete: del, insert: insert}
}

// DefaultStyleMap returns the span markup the HTML presenter's stylesheet
// targets: class chg for replacements, sub for deletions, add for insertions.
func DefaultStyleMap() StyleMap {
	return StyleMap{
		replace: NewStyle("<span class='chg'>", "</span>"),
		delete:  NewStyle("<span class='sub'>", "</span>"),
		insert:  NewStyle("<span class='add'>", "</span>"),
	}
}

// Style returns the style for the given tag and whether one is registered.
// Equal always reports false.
func (m StyleMap) Style(tag align.Tag) (Style, bool) {
	switch tag {
	case align.TagReplace:
		return m.replace, true
	case align.TagDelete:
		return m.delete, true
	case align.TagInsert:
		return m.insert, true
	default:
		return Style{}, false
	}
}

// styleMapYAML is the on-disk shape of a custom style map.
type styleMapYAML struct {
	Replace styleYAML `yaml:"replace"`
	Delete  styleYAML `yaml:"delete"`
	Insert  styleYAML `yaml:"insert"`
}

type styleYAML struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

// ParseStyleMap loads a StyleMap from YAML. Tags omitted from the document
// keep their defaults, so a file may override a single style.
func ParseStyleMap(data []byte) (StyleMap, error) {
	var doc styleMapYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return StyleMap{}, fmt.Errorf("parse style map: %w", err)
	}

	m := DefaultStyleMap()
	if doc.Replace.Open != "" {
		m.replace = NewStyle(doc.Replace.Open, doc.Replace.Close)
	}
	if doc.Delete.Open != "" {
		m.delete = NewStyle(doc.Delete.Open, doc.Delete.Close)
	}
	if doc.Insert.Open != "" {
		m.insert = NewStyle(doc.Insert.Open, doc.Insert.Close)
	}
	return m, nil
}
