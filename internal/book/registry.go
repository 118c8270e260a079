package book

// Registry is a map from symbol_index to its order book. Books are
// created lazily on first reference and never removed — a Symbol Clear
// empties a book in place rather than dropping it from the registry.
type Registry struct {
	books map[uint32]*Book
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{books: make(map[uint32]*Book)}
}

// Get returns the book for symbolIndex, creating it if this is the
// first reference.
func (r *Registry) Get(symbolIndex uint32) *Book {
	b, ok := r.books[symbolIndex]
	if !ok {
		b = NewBook()
		r.books[symbolIndex] = b
	}
	return b
}

// Len reports how many symbols have a book, including empty ones left
// behind by a Symbol Clear.
func (r *Registry) Len() int {
	return len(r.books)
}
