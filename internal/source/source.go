package source

import (
	"fmt"

	"fortio.org/safecast"
)

// FileID identifies a file inside a FileSet.
type FileID uint32

// NoFileID marks the absence of a file.
const NoFileID FileID = 0

// File is one physical header or source file referenced by a program unit.
type File struct {
	Path string
	// Main is true for the primary file of the unit; declarations pulled in
	// through includes live in non-main files.
	Main bool
}

// Location is a resolved position inside a FileSet.
type Location struct {
	File FileID
	Line uint32
	Col  uint32
}

// IsValid reports whether the location points at a real file.
func (l Location) IsValid() bool { return l.File != NoFileID }

func (l Location) String() string {
	if !l.IsValid() {
		return "<invalid>"
	}
	return fmt.Sprintf("file#%d:%d:%d", l.File, l.Line, l.Col)
}

// FileSet manages the files referenced by one program unit.
type FileSet struct {
	files []File
	index map[string]FileID
}

// NewFileSet creates an empty FileSet. FileID 0 is reserved as invalid.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 1),
		index: make(map[string]FileID),
	}
}

// Add registers a file path and returns its FileID. Re-adding an existing
// path returns the original ID.
func (fs *FileSet) Add(path string, main bool) FileID {
	if id, ok := fs.index[path]; ok {
		return id
	}
	id, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	fs.files = append(fs.files, File{Path: path, Main: main})
	fs.index[path] = FileID(id)
	return FileID(id)
}

// Lookup returns the file for an ID.
func (fs *FileSet) Lookup(id FileID) (File, bool) {
	if id == NoFileID || int(id) >= len(fs.files) {
		return File{}, false
	}
	return fs.files[id], true
}

// IsFromMainFile reports whether a location lives in the unit's main file.
// Locations produced by macro expansion keep the main-file flag of their
// expansion site rather than the file that defined the macro.
func (fs *FileSet) IsFromMainFile(loc Location) bool {
	if !loc.IsValid() {
		return false
	}
	f, ok := fs.Lookup(loc.File)
	return ok && f.Main
}
