package operators

// Resolver produces operator display names from raw codes and document names
type Resolver struct {
	directory *Directory
}

func NewResolver(directory *Directory) *Resolver {
	if directory == nil {
		directory = NewDirectory(nil, nil)
	}

	return &Resolver{directory: directory}
}

// Resolve returns the display name for an operator. Manual overrides keyed by code
// beat the canonical table, which in turn beats anything the document says.
func (r *Resolver) Resolve(rawCode string, documentName string) string {
	if name, ok := r.directory.exactOverride(rawCode); ok {
		return name
	}
	if name, ok := r.directory.prefixOverride(rawCode); ok {
		return name
	}
	if name, ok := r.directory.canonicalName(rawCode); ok {
		return name
	}
	if name, ok := r.directory.exactOverride(documentName); ok {
		return name
	}
	if documentName != "" {
		return documentName
	}

	return rawCode
}
