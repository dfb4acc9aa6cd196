package deck

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the on-disk deck format.
//
// Cards are listed oldest first, the order they were written, so the last
// card in the file is the newest one in the loaded Deck.
//
//	cards:
//	  - id: intro
//	    content: |
//	      Four score and seven years ago...
//	  - content: A card without an id gets a generated one.
type File struct {
	Cards []FileCard `yaml:"cards"`
}

// FileCard is one card entry of a deck file.
type FileCard struct {
	ID      string `yaml:"id,omitempty"`
	Content string `yaml:"content"`
}

// Load reads a YAML deck file. Unknown fields are rejected.
func Load(path string, opts ...Option) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck %s: %w", path, err)
	}
	d, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("deck %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a YAML deck.
func Parse(data []byte, opts ...Option) (*Deck, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	d := New(opts...)
	for i, fc := range f.Cards {
		id := fc.ID
		if id == "" {
			id = d.newID()
		}
		if _, err := d.insert(id, fc.Content); err != nil {
			return nil, fmt.Errorf("cards[%d]: %w", i, err)
		}
	}
	return d, nil
}

// MarshalYAML writes the deck as a File, oldest card first, so Parse reads
// it back in the same order.
func (d *Deck) MarshalYAML() (any, error) {
	f := File{Cards: make([]FileCard, 0, len(d.cards))}
	for i := len(d.cards) - 1; i >= 0; i-- {
		f.Cards = append(f.Cards, FileCard{ID: d.cards[i].ID, Content: d.cards[i].Content})
	}
	return f, nil
}

// LoadText builds a deck with one card per text file, in argument order.
// Card ids are the file names without extension.
func LoadText(paths []string, opts ...Option) (*Deck, error) {
	d := New(opts...)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read card %s: %w", path, err)
		}
		base := filepath.Base(path)
		id := strings.TrimSuffix(base, filepath.Ext(base))
		if _, err := d.insert(id, string(data)); err != nil {
			return nil, fmt.Errorf("card %s: %w", path, err)
		}
	}
	return d, nil
}
