package build

import (
	"io/fs"
	"path/filepath"
)

// CollectFiles lists every regular file under root, descending recursively.
// Directories are not included and traversal order is not guaranteed stable.
// A missing or unreadable root is an error. Symlinks are not followed.
func CollectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
