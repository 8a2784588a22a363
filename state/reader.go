package state

import (
	"os"

	"github.com/sheikhrachel/cgol/model"
)

// FileReader reads a whole file. It is the only file-system access the loader
// needs.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// OSReader reads from the local file system
type OSReader struct{}

func (OSReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// FromFile reads path through r and builds the grid it describes. A nil r reads
// from the local file system. Read failures come back as *model.IOError.
func FromFile(path string, r FileReader) (*model.Grid, error) {
	if r == nil {
		r = OSReader{}
	}
	data, err := r.ReadFile(path)
	if err != nil {
		return nil, &model.IOError{Path: path, Err: err}
	}
	return FromText(string(data))
}
