package backend

import (
	"path/filepath"
	"strings"

	g "github.com/gogits/git"
	"github.com/lemmi/ghfs"
	"github.com/pkg/errors"
)

type gitBackend struct {
	Backend
	id string
}

func (b gitBackend) Version() string {
	return b.id
}

// OpenGit returns the tree of the head commit of branch in the repository
// at path. The returned Backend is a snapshot; call OpenGit again to pick up
// new commits.
func OpenGit(path, branch string) (Backend, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "filepath.Abs("+path+")")
	}
	repo, err := g.OpenRepository(path)
	if err != nil {
		return nil, errors.Wrap(err, "g.OpenRepository("+path+")")
	}
	commit, err := repo.GetCommitOfBranch(branch)
	if err != nil {
		return nil, errors.Wrapf(err, "Can not open %s branch", branch)
	}
	return gitBackend{
		Backend: ghfs.FromCommit(commit),
		id:      strings.Trim(commit.Id.String(), "\""),
	}, nil
}
