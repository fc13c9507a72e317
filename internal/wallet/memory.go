package wallet

// memoryBackend keeps the document in process. Updates store an encoded
// copy so callers cannot alias the live document.
type memoryBackend struct {
	data []byte
}

// OpenMemory returns a wallet that is never persisted.
func OpenMemory() *Wallet {
	w, _ := open(&memoryBackend{})
	return w
}

func (b *memoryBackend) Name() string { return "memory" }

func (b *memoryBackend) Load() (*document, error) {
	return decodeDocument(b.data)
}

func (b *memoryBackend) Update(fn func(*document) error) (*document, error) {
	doc, err := decodeDocument(b.data)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	data, err := doc.encode()
	if err != nil {
		return nil, err
	}
	b.data = data
	return doc, nil
}

func (b *memoryBackend) Close() error { return nil }
