package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/marmos91/treepack/pkg/vtree"
)

// osFileSource is a byte source backed by a file on disk. Size is captured
// at tree build time; the file is opened lazily per stream.
type osFileSource struct {
	path string
	size uint64
}

func (s *osFileSource) Size() uint64 {
	return s.size
}

func (s *osFileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	return file, nil
}

// buildTreeFromDir walks an OS directory into a virtual tree. The root
// folder takes the directory's base name; entries keep directory order as
// returned by os.ReadDir (sorted by name). Symlinks and other non-regular
// entries are skipped.
func buildTreeFromDir(ctx context.Context, dir string) (*vtree.VirtualFolder, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	root := vtree.NewFolder(filepath.Base(dir))
	if err := fillFolder(ctx, root, dir); err != nil {
		return nil, err
	}
	return root, nil
}

func fillFolder(ctx context.Context, folder *vtree.VirtualFolder, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			sub := vtree.NewFolder(entry.Name())
			if err := folder.Add(sub); err != nil {
				return fmt.Errorf("add folder %s: %w", path, err)
			}
			if err := fillFolder(ctx, sub, path); err != nil {
				return err
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		source := &osFileSource{path: path, size: uint64(info.Size())}
		if err := folder.Add(vtree.NewFile(entry.Name(), "", source)); err != nil {
			return fmt.Errorf("add file %s: %w", path, err)
		}
	}

	return nil
}
