package media

import (
	"path/filepath"
	"strings"
)

// OutputName returns the deterministic output file name for a source file:
// the original stem plus the configured suffix, keeping the original
// extension unless an override extension is configured.
func OutputName(name, suffix, extension string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if extension != "" {
		ext = extension
	}
	return stem + suffix + ext
}

// OutputPath computes the deterministic final destination for a source file.
// It is a pure function of the output root, the file's relative path, and
// the configured suffix and extension, so re-running a batch always targets
// the same location.
func OutputPath(outputRoot string, f File, suffix, extension string) string {
	return filepath.Join(outputRoot, filepath.Dir(f.RelPath), OutputName(f.Name(), suffix, extension))
}

// ScratchInputPath names the staged copy of a source file inside the scratch
// root. Derived from the original file name, so two distinct inputs never
// collide within one run.
func ScratchInputPath(scratchRoot string, f File) string {
	return filepath.Join(scratchRoot, f.Name())
}

// ScratchOutputPath names the encoder's working output inside the scratch
// root, using the deterministic output file name.
func ScratchOutputPath(scratchRoot string, f File, suffix, extension string) string {
	return filepath.Join(scratchRoot, OutputName(f.Name(), suffix, extension))
}
