package wallet

import (
	"encoding/json"
	"fmt"
)

const documentVersion = 1

// document is the persisted form of a wallet. Folders and entries are
// slices so enumeration order survives a save/load cycle.
type document struct {
	Version int       `json:"version"`
	Folders []*folder `json:"folders"`
}

type folder struct {
	Name    string   `json:"name"`
	Entries []*entry `json:"entries"`
}

type entry struct {
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Password string            `json:"password,omitempty"`
	Map      map[string]string `json:"map,omitempty"`
}

func newDocument() *document {
	return &document{
		Version: documentVersion,
		Folders: []*folder{{Name: DefaultFolder}},
	}
}

// decodeDocument parses a document, guaranteeing the default folder exists.
// Empty input yields an empty wallet.
func decodeDocument(data []byte) (*document, error) {
	if len(data) == 0 {
		return newDocument(), nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse wallet: %w", err)
	}
	if doc.Version > documentVersion {
		return nil, fmt.Errorf("unsupported wallet version %d", doc.Version)
	}
	doc.Version = documentVersion

	if doc.folder(DefaultFolder) == nil {
		doc.Folders = append([]*folder{{Name: DefaultFolder}}, doc.Folders...)
	}
	return &doc, nil
}

func (d *document) encode() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize wallet: %w", err)
	}
	return data, nil
}

func (d *document) folder(name string) *folder {
	for _, f := range d.Folders {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (f *folder) entry(name string) *entry {
	for _, e := range f.Entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// put replaces an existing entry in place or appends a new one.
func (f *folder) put(e *entry) {
	for i, cur := range f.Entries {
		if cur.Name == e.Name {
			f.Entries[i] = e
			return
		}
	}
	f.Entries = append(f.Entries, e)
}

func (f *folder) remove(name string) bool {
	for i, cur := range f.Entries {
		if cur.Name == name {
			f.Entries = append(f.Entries[:i], f.Entries[i+1:]...)
			return true
		}
	}
	return false
}
