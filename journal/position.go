package journal

import "fmt"

// SourceLocation records where a directive came from in its source file.
// The zero value means the location is unknown.
type SourceLocation struct {
	Filename string
	Line     int
	Column   int
}

func (s SourceLocation) String() string {
	if s.Filename == "" && s.Line == 0 {
		return ""
	}
	if s.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%s:%d", s.Filename, s.Line)
}

// IsZero reports whether the location is unset.
func (s SourceLocation) IsZero() bool {
	return s.Filename == "" && s.Line == 0 && s.Column == 0
}
