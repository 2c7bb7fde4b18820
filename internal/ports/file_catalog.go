package ports

// Read-only access to a directory of XML documents (plans or requests).
type FileCatalog interface {
	// Sorted *.xml file names.
	Names() ([]string, error)
	// Contents of name (".xml" may be omitted). Missing files wrap
	// domain.ErrFileNotFound.
	ReadFile(name string) ([]byte, error)
}
