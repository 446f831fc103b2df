package git

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gitup/internal/graph"
)

func newMemRepo(t *testing.T) (*Repository, []plumbing.Hash) {
	t.Helper()
	inner, err := gogit.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)

	wt, err := inner.Worktree()
	require.NoError(t, err)

	var hashes []plumbing.Hash
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, msg := range []string{"first commit", "second commit\n\nwith a body"} {
		name := "file.txt"
		f, err := wt.Filesystem.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(msg))
		require.NoError(t, err)
		require.NoError(t, f.Close())
		_, err = wt.Add(name)
		require.NoError(t, err)

		h, err := wt.Commit(msg, &gogit.CommitOptions{
			Author: &object.Signature{
				Name:  "Alice",
				Email: "alice@example.com",
				When:  when.Add(time.Duration(i) * time.Minute),
			},
		})
		require.NoError(t, err)
		hashes = append(hashes, h)
	}

	return &Repository{repo: inner, path: "mem"}, hashes
}

func TestSourceYieldsNewestFirst(t *testing.T) {
	repo, hashes := newMemRepo(t)

	source, err := repo.Source()
	require.NoError(t, err)

	dag, err := graph.Build(context.Background(), source, graph.BuildOptions{})
	require.NoError(t, err)

	require.Equal(t, 2, dag.Len())
	assert.Equal(t, hashes[1].String(), dag.Topo()[0])
	assert.Equal(t, hashes[0].String(), dag.Topo()[1])

	tip := dag.NodeAt(0)
	assert.Equal(t, "Alice", tip.Author)
	// Only the subject line survives as the row message.
	assert.Equal(t, "second commit", tip.Message)
	assert.Equal(t, []string{hashes[0].String()}, tip.Parents)
}

func TestDecorationsMarkHeadBranch(t *testing.T) {
	repo, hashes := newMemRepo(t)

	decor, err := repo.Decorations()
	require.NoError(t, err)

	dec, ok := decor.Lookup(hashes[1].String())
	require.True(t, ok)
	assert.True(t, dec.IsHead)
	assert.Equal(t, []string{"master"}, dec.Branches)

	_, ok = decor.Lookup(hashes[0].String())
	assert.False(t, ok)
}

func TestResolveTipsSkipsUnknownBranches(t *testing.T) {
	repo, hashes := newMemRepo(t)

	tips := repo.ResolveTips([]string{"master", "no-such-branch"})
	assert.Equal(t, []string{hashes[1].String()}, tips)
}
