// pkg/fetch/unpack.go
package fetch

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// ErrUnsafePath indicates an archive entry that would land outside the
// destination directory
var ErrUnsafePath = errors.New("archive entry escapes destination")

// Unpack extracts an archive into dest and returns the directory to build
// in: the single top-level directory when the archive has one, dest
// otherwise. Files that are not archives (e.g. patches) are copied into dest.
func Unpack(archive, dest string) (string, error) {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	name := strings.ToLower(filepath.Base(archive))
	var err error
	switch {
	case strings.HasSuffix(name, ".zip"):
		err = unzip(archive, dest)
	case isTar(name):
		err = untarFile(archive, dest, name)
	default:
		err = copyFile(archive, filepath.Join(dest, filepath.Base(archive)))
	}
	if err != nil {
		return "", err
	}

	return buildRoot(dest)
}

func isTar(name string) bool {
	for _, ext := range []string{".tar", ".tar.gz", ".tgz", ".tar.xz", ".txz", ".tar.zst", ".tar.bz2", ".tbz2", ".tbz"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func untarFile(archive, dest, name string) error {
	f, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch {
	case strings.HasSuffix(name, ".gz") || strings.HasSuffix(name, ".tgz"):
		gzr, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gzr.Close()
		r = gzr
	case strings.HasSuffix(name, ".xz") || strings.HasSuffix(name, ".txz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating xz reader: %w", err)
		}
		r = xzr
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	case strings.HasSuffix(name, ".bz2") || strings.HasSuffix(name, ".tbz2") || strings.HasSuffix(name, ".tbz"):
		r = bzip2.NewReader(f)
	}

	return untar(r, dest)
}

// untar extracts through an os.Root, so no entry can be written through a
// symlink that leaves dest
func untar(r io.Reader, dest string) error {
	root, err := os.OpenRoot(dest)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dest, err)
	}
	defer root.Close()

	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		rel, err := safeRel(header.Name)
		if err != nil {
			return err
		}
		if rel == "." {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := mkdirAll(root, rel); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(root, rel, tr, os.FileMode(header.Mode).Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := symlink(root, dest, rel, header.Linkname); err != nil {
				return err
			}
		case tar.TypeLink:
			if err := hardlink(root, dest, rel, header.Linkname); err != nil {
				return err
			}
		}
	}
}

func unzip(archive, dest string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer zr.Close()

	root, err := os.OpenRoot(dest)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dest, err)
	}
	defer root.Close()

	for _, zf := range zr.File {
		rel, err := safeRel(zf.Name)
		if err != nil {
			return err
		}

		if zf.FileInfo().IsDir() {
			if err := mkdirAll(root, rel); err != nil {
				return err
			}
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			return fmt.Errorf("opening %s: %w", zf.Name, err)
		}
		err = writeFile(root, rel, rc, zf.Mode().Perm())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// safeRel cleans an entry name into a path relative to the destination
func safeRel(name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	rel := filepath.Clean(filepath.FromSlash(name))
	if escapes(rel) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return rel, nil
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// mkdirAll creates rel and its parents inside root
func mkdirAll(root *os.Root, rel string) error {
	if rel == "." || rel == "" {
		return nil
	}
	cur := ""
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		cur = filepath.Join(cur, part)
		if err := root.Mkdir(cur, 0755); err != nil && !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("creating directory %s: %w", cur, err)
		}
	}
	return nil
}

func writeFile(root *os.Root, rel string, r io.Reader, mode os.FileMode) error {
	if mode == 0 {
		mode = 0644
	}
	if err := mkdirAll(root, filepath.Dir(rel)); err != nil {
		return err
	}
	out, err := root.OpenFile(rel, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", rel, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("writing file %s: %w", rel, err)
	}
	return out.Close()
}

// symlink creates a link at rel whose target must stay inside dest
func symlink(root *os.Root, dest, rel, linkname string) error {
	if linkname == "" || filepath.IsAbs(linkname) || strings.HasPrefix(linkname, "/") {
		return fmt.Errorf("%w: %s -> %s", ErrUnsafePath, rel, linkname)
	}
	if escapes(filepath.Join(filepath.Dir(rel), filepath.FromSlash(linkname))) {
		return fmt.Errorf("%w: %s -> %s", ErrUnsafePath, rel, linkname)
	}
	if err := mkdirAll(root, filepath.Dir(rel)); err != nil {
		return err
	}
	target, err := resolvedParent(dest, rel)
	if err != nil {
		return err
	}
	if err := os.Symlink(linkname, target); err != nil {
		return fmt.Errorf("creating symlink %s: %w", rel, err)
	}
	return nil
}

// hardlink links rel to another entry of the same archive
func hardlink(root *os.Root, dest, rel, linkname string) error {
	srcRel, err := safeRel(linkname)
	if err != nil {
		return err
	}
	source, err := resolved(dest, srcRel)
	if err != nil {
		return err
	}
	if err := mkdirAll(root, filepath.Dir(rel)); err != nil {
		return err
	}
	target, err := resolvedParent(dest, rel)
	if err != nil {
		return err
	}
	if err := os.Link(source, target); err != nil {
		return fmt.Errorf("creating hard link %s: %w", rel, err)
	}
	return nil
}

// resolved evaluates every symlink in dest/rel and fails unless the
// result is still inside dest
func resolved(dest, rel string) (string, error) {
	base, err := filepath.EvalSymlinks(dest)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dest, err)
	}
	path, err := filepath.EvalSymlinks(filepath.Join(dest, rel))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", rel, err)
	}
	inside, err := filepath.Rel(base, path)
	if err != nil || escapes(inside) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, rel)
	}
	return path, nil
}

// resolvedParent resolves the directory holding rel and returns the path
// the entry itself should be created at
func resolvedParent(dest, rel string) (string, error) {
	dir, err := resolved(dest, filepath.Dir(rel))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(rel)), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	root, err := os.OpenRoot(filepath.Dir(dst))
	if err != nil {
		return fmt.Errorf("opening %s: %w", filepath.Dir(dst), err)
	}
	defer root.Close()
	return writeFile(root, filepath.Base(dst), in, 0644)
}

func buildRoot(dest string) (string, error) {
	entries, err := os.ReadDir(dest)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", dest, err)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dest, entries[0].Name()), nil
	}
	return dest, nil
}
