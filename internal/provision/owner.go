package provision

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
)

// Owner hands a directory tree to an account.
type Owner interface {
	Chown(ctx context.Context, root, username, group string) error
}

// SystemOwner resolves accounts through os/user and changes ownership with os.Lchown.
type SystemOwner struct {
	lookup func(username, group string) (int, int, error)
	chown  func(path string, uid, gid int) error
}

// NewSystemOwner creates a SystemOwner.
func NewSystemOwner() *SystemOwner {
	return &SystemOwner{lookup: lookupIDs, chown: os.Lchown}
}

func lookupIDs(username, group string) (int, int, error) {
	u, err := user.Lookup(username)
	if err != nil {
		return 0, 0, fmt.Errorf("lookup user %s: %w", username, err)
	}
	g, err := user.LookupGroup(group)
	if err != nil {
		return 0, 0, fmt.Errorf("lookup group %s: %w", group, err)
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return 0, 0, fmt.Errorf("user %s has non-numeric uid %q", username, u.Uid)
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return 0, 0, fmt.Errorf("group %s has non-numeric gid %q", group, g.Gid)
	}
	return uid, gid, nil
}

// Chown changes the owner of root and everything below it.
// Symlinks are changed themselves and never followed.
func (o *SystemOwner) Chown(ctx context.Context, root, username, group string) error {
	uid, gid, err := o.lookup(username, group)
	if err != nil {
		return err
	}

	return filepath.WalkDir(root, func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.chown(path, uid, gid); err != nil {
			return fmt.Errorf("chown %s: %w", path, err)
		}
		return nil
	})
}
