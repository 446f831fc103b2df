package git

import (
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"

	"github.com/yourusername/gitup/internal/graph"
)

// Repository wraps a go-git repository and adapts it to the engine's
// commit source and decoration interfaces.
type Repository struct {
	repo *gogit.Repository
	path string
}

func OpenRepository(path string) (*Repository, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open repository %s", path)
	}
	return &Repository{repo: repo, path: path}, nil
}

// Path returns the repository root the adapter was opened on.
func (r *Repository) Path() string { return r.path }

// Source returns a commit iterator over the full history reachable
// from any ref, newest first, suitable for graph.Build.
func (r *Repository) Source() (graph.CommitSource, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, errors.Wrap(err, "resolve HEAD")
	}
	iter, err := r.repo.Log(&gogit.LogOptions{
		From: head.Hash(),
		All:  true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "start log walk")
	}
	return &commitSource{iter: iter}, nil
}

type commitSource struct {
	iter object.CommitIter
}

// Next adapts one go-git commit. go-git's iterator returns io.EOF at
// the end of the walk, which is exactly the source contract.
func (s *commitSource) Next() (*graph.CommitNode, error) {
	c, err := s.iter.Next()
	if err != nil {
		return nil, err
	}

	parents := make([]string, len(c.ParentHashes))
	for i, p := range c.ParentHashes {
		parents[i] = p.String()
	}

	subject := c.Message
	if i := strings.IndexByte(c.Message, '\n'); i >= 0 {
		subject = c.Message[:i]
	}

	return &graph.CommitNode{
		ID:        c.Hash.String(),
		Parents:   parents,
		Author:    c.Author.Name,
		Message:   subject,
		Timestamp: c.Author.When,
	}, nil
}

// Decorations walks the repository references into the engine's
// decoration map: HEAD flag, local and remote branch names, tags.
func (r *Repository) Decorations() (graph.Decorations, error) {
	decor := make(graph.Decorations)

	head, _ := r.repo.Head()
	headName := ""
	if head != nil {
		headName = head.Name().String()
	}

	refs, err := r.repo.References()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate references")
	}

	colorSeq := 0
	upsert := func(hash string) graph.Decoration {
		dec, ok := decor[hash]
		if !ok {
			dec.ColorIndex = colorSeq
			colorSeq++
		}
		return dec
	}

	err = refs.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash().String()
		name := ref.Name()

		switch {
		case name.IsBranch():
			dec := upsert(hash)
			if name.String() == headName {
				dec.IsHead = true
				// HEAD's branch sorts first so the label renders as
				// HEAD→branch.
				dec.Branches = append([]string{name.Short()}, dec.Branches...)
			} else {
				dec.Branches = append(dec.Branches, name.Short())
			}
			decor[hash] = dec
		case name.IsRemote():
			dec := upsert(hash)
			dec.Branches = append(dec.Branches, name.Short())
			decor[hash] = dec
		case name.IsTag():
			dec := upsert(hash)
			dec.Tags = append(dec.Tags, name.Short())
			decor[hash] = dec
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walk references")
	}

	// A detached HEAD still gets its marker.
	if head != nil && headName == "HEAD" {
		dec := upsert(head.Hash().String())
		dec.IsHead = true
		decor[head.Hash().String()] = dec
	}

	return decor, nil
}

// ResolveTips maps branch names to their tip commit ids, preserving
// input order and skipping unknown branches. It feeds the privileged
// branch pre-scan: the decoration pass runs before lane allocation so
// a privileged tip is known before earlier commits claim lane 0.
func (r *Repository) ResolveTips(branches []string) []string {
	var tips []string
	for _, name := range branches {
		ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), true)
		if err != nil {
			continue
		}
		tips = append(tips, ref.Hash().String())
	}
	return tips
}
