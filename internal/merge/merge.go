// Package merge combines the preprocessed light frames of several capture
// sessions into one renumbered sequence ready for registration and stacking.
package merge

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/dusk-obs/multinight/internal/pathutil"
)

// Sessions copies every preprocessed light frame from each session's process
// directory into outputPath under a single sequence numbered 1..N. The index
// is global: session order determines block order, and within a session
// frames are taken in the lexical order the directory listing returns, so a
// given set of inputs always produces the same numbering.
//
// Frames are matched by name against ^<seqName>_.*\.fit$ and copied (never
// moved) to <seqName>_<index padded to 5 digits>.fit. A session whose process
// directory has no matching frames contributes nothing and does not disturb
// the numbering of later sessions; a session without a process directory is
// an error.
//
// The returned manifest is also persisted to <outputPath>/conversion.txt,
// replacing any manifest from a previous pass. Frames already present in the
// output directory are left alone unless a new frame lands on the same name.
func Sessions(sessionPaths []string, outputPath, processDir, seqName string) (*Manifest, error) {
	outAbs, err := pathutil.Resolve(outputPath)
	if err != nil {
		return nil, err
	}

	frameRe := regexp.MustCompile("^" + regexp.QuoteMeta(seqName) + `_.*\.fit$`)

	manifest := &Manifest{}
	seqIndex := 1

	for _, sessionPath := range sessionPaths {
		sessionAbs, err := pathutil.Resolve(sessionPath)
		if err != nil {
			return nil, err
		}
		processPath := filepath.Join(sessionAbs, processDir)

		entries, err := os.ReadDir(processPath)
		if err != nil {
			return nil, fmt.Errorf("merge: list process directory: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !frameRe.MatchString(entry.Name()) {
				continue
			}

			src := filepath.Join(processPath, entry.Name())
			dst := filepath.Join(outAbs, fmt.Sprintf("%s_%05d.fit", seqName, seqIndex))

			if err := copyFile(src, dst); err != nil {
				return nil, fmt.Errorf("merge: copy frame: %w", err)
			}

			manifest.Add(src, dst)
			seqIndex++
		}
	}

	if err := manifest.WriteFile(outAbs); err != nil {
		return nil, err
	}

	return manifest, nil
}

// copyFile copies src's bytes to dst, truncating dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
