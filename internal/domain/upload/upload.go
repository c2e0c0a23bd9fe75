package upload

// File is one input document for a run. It lives only for the duration of
// that run.
type File struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Content []byte `json:"-"`
}

// Stored is a File after it has been written to run-scoped storage.
type Stored struct {
	File
	Path string
}
