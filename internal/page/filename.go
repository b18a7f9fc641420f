package page

import "regexp"

var pythonModuleName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*\.py$`)

// ValidPythonFilename reports whether name (no directory part) is an
// importable Python module file name.
func ValidPythonFilename(name string) bool {
	return pythonModuleName.MatchString(name)
}
