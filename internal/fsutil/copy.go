package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// CopyFile streams src into dst, creating or truncating dst, and gives dst the
// permission bits of src. When either side fails the other handle is closed
// before the error is returned, so no descriptor is left open on a partial copy.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	srcInfo, err := in.Stat()
	if err != nil {
		_ = in.Close()
		return fmt.Errorf("stat %s: %w", src, err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, srcInfo.Mode().Perm())
	if err != nil {
		_ = in.Close()
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = in.Close()
		_ = out.Close()
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	if err := in.Close(); err != nil {
		_ = out.Close()
		return fmt.Errorf("close %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	// Preserve permissions past the umask and on pre-existing destinations.
	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod %s: %w", dst, err)
	}
	return nil
}

// CopyDir recursively copies the tree rooted at src into dst. dst must not
// exist; if it does CopyDir fails before writing anything. Directories and
// files keep the permission bits of their source. Children are copied
// concurrently and the first failure is returned once every child has finished;
// siblings are never cancelled. Entries that are neither directories nor regular
// files are skipped.
func CopyDir(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	// Owner write is kept so children can be created beneath read-only sources.
	if err := os.Mkdir(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	var g errgroup.Group
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())

		info, err := os.Stat(from)
		if err != nil {
			return errors.Join(fmt.Errorf("stat %s: %w", from, err), g.Wait())
		}
		switch {
		case info.IsDir():
			g.Go(func() error { return CopyDir(ctx, from, to) })
		case info.Mode().IsRegular():
			g.Go(func() error { return CopyFile(from, to) })
		}
	}
	return g.Wait()
}

// NextFreeDir returns base if nothing exists at that path, otherwise the first
// of base_1, base_2, ... that does not exist.
func NextFreeDir(base string) (string, error) {
	candidate := base
	for n := 1; ; n++ {
		_, err := os.Lstat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("probe %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
}
