package entity

// File is a regular file found in the destination directory.
type File struct {
	Name string // Base name, used as the archive entry name
	Path string
	Size int64
}

// Archive describes a written ZIP file.
type Archive struct {
	Path    string
	Entries []string
}
