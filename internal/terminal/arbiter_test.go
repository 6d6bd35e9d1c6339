// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fixture struct {
	out    *bytes.Buffer
	err    *bytes.Buffer
	stdout *Switch
	stderr *Switch
	a      *Arbiter
}

func newFixture() *fixture {
	f := &fixture{out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	f.stdout = NewSwitch(f.out)
	f.stderr = NewSwitch(f.err)
	f.a = New(f.stdout, f.stderr)

	return f
}

func TestOwnership_String(t *testing.T) {
	assert.Equal(t, "not-applicable", NotApplicable.String())
	assert.Equal(t, "denied", Denied.String())
	assert.Equal(t, "owned", Owned.String())
	assert.Equal(t, "unknown", Ownership(42).String())
}

func TestClaim_OwnedBuffersOthersAndReplaysOnce(t *testing.T) {
	f := newFixture()

	tok := f.a.Claim(true, true)
	require.True(t, tok.Owned())
	assert.True(t, tok.Stdout())
	assert.True(t, tok.Stderr())
	assert.Same(t, f.out, tok.Writer(), "owner must write to the original handle")
	assert.True(t, f.a.Claimed())

	_, _ = io.WriteString(tok.Writer(), "[bar]")
	_, _ = io.WriteString(f.a.Stdout(), "other stdout\n")
	_, _ = io.WriteString(f.a.Stderr(), "other stderr\n")

	assert.Equal(t, "[bar]", f.out.String())
	assert.Empty(t, f.err.String())

	require.NoError(t, f.a.Release(tok))
	assert.False(t, f.a.Claimed())
	assert.Equal(t, "[bar]other stdout\n", f.out.String())
	assert.Equal(t, "other stderr\n", f.err.String())

	require.NoError(t, f.a.Release(tok), "second release must be a no-op")
	assert.Equal(t, "[bar]other stdout\n", f.out.String(), "buffer must not be flushed twice")
}

func TestClaim_SecondClaimIsDenied(t *testing.T) {
	f := newFixture()

	first := f.a.Claim(true, true)
	require.True(t, first.Owned())

	second := f.a.Claim(true, true)
	assert.Equal(t, Denied, second.Ownership())
	assert.False(t, second.CanDraw())
	assert.Same(t, f.stdout, second.Writer(), "denied claimants see the visible handle")

	require.NoError(t, f.a.Release(second))
	assert.True(t, f.a.Claimed(), "releasing a denied token must not touch the owner")
	assert.True(t, f.stdout.Diverted())

	require.NoError(t, f.a.Release(first))

	third := f.a.Claim(true, false)
	assert.True(t, third.Owned())
	require.NoError(t, f.a.Release(third))
}

func TestClaim_NothingRequested(t *testing.T) {
	f := newFixture()

	tok := f.a.Claim(false, false)
	assert.Equal(t, NotApplicable, tok.Ownership())
	assert.True(t, tok.CanDraw())
	assert.False(t, f.a.Claimed())
	assert.False(t, f.stdout.Diverted())
	require.NoError(t, f.a.Release(tok))

	owner := f.a.Claim(true, true)
	denied := f.a.Claim(false, false)
	assert.Equal(t, Denied, denied.Ownership(), "a claim for nothing is still denied while owned")
	require.NoError(t, f.a.Release(owner))
}

func TestClaim_StderrOnly(t *testing.T) {
	f := newFixture()

	tok := f.a.Claim(false, true)
	require.True(t, tok.Owned())
	assert.False(t, f.stdout.Diverted())
	assert.True(t, f.stderr.Diverted())
	assert.Same(t, f.stdout, tok.Writer())

	require.NoError(t, f.a.Release(tok))
	assert.False(t, f.stderr.Diverted())
}

func TestRelease_StaleTokenAfterReclaim(t *testing.T) {
	f := newFixture()

	first := f.a.Claim(true, false)
	require.NoError(t, f.a.Release(first))

	second := f.a.Claim(true, false)
	require.NoError(t, f.a.Release(first), "stale token must not release the new owner")
	assert.True(t, f.a.Claimed())

	require.NoError(t, f.a.Release(second))
	assert.False(t, f.a.Claimed())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, os.ErrClosed
}

func TestRelease_ReplayErrorsAreAccumulated(t *testing.T) {
	stdout := NewSwitch(failingWriter{})
	stderr := NewSwitch(failingWriter{})
	a := New(stdout, stderr)

	tok := a.Claim(true, true)
	require.True(t, tok.Owned())

	_, _ = io.WriteString(stdout, "x")
	_, _ = io.WriteString(stderr, "y")

	err := a.Release(tok)
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrClosed)
	assert.Contains(t, err.Error(), "stdout")
	assert.Contains(t, err.Error(), "stderr")
	assert.False(t, a.Claimed(), "ownership is released even when replay fails")
}

type brokenTarget struct {
	*Switch
}

func (brokenTarget) Divert() (io.Writer, error) {
	return nil, errors.New("no pipes left")
}

func TestClaim_DivertFailureDegrades(t *testing.T) {
	out := NewSwitch(&bytes.Buffer{})
	a := New(out, brokenTarget{NewSwitch(&bytes.Buffer{})})

	tok := a.Claim(true, true)
	assert.Equal(t, Denied, tok.Ownership())
	assert.False(t, a.Claimed())
	assert.False(t, out.Diverted(), "stdout must be restored when stderr cannot be diverted")
}

func TestClaim_ConcurrentClaimsGrantExactlyOne(t *testing.T) {
	f := newFixture()

	var (
		wg     sync.WaitGroup
		owned  atomic.Int32
		tokens = make(chan Token, 64)
	)

	for range 64 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			tok := f.a.Claim(true, true)
			if tok.Owned() {
				owned.Add(1)
			}

			tokens <- tok
		}()
	}

	wg.Wait()
	close(tokens)

	assert.Equal(t, int32(1), owned.Load())

	for tok := range tokens {
		require.NoError(t, f.a.Release(tok))
	}

	assert.False(t, f.a.Claimed())
}

func TestFileTarget_DivertAndRestore(t *testing.T) {
	defer goleak.VerifyNone(t)

	backing, err := os.Create(filepath.Join(t.TempDir(), "stdout"))
	require.NoError(t, err)

	defer backing.Close() //nolint:errcheck

	file := backing
	target := NewFileTarget(&file)

	assert.Same(t, backing, target.Writer())

	orig, err := target.Divert()
	require.NoError(t, err)
	assert.Same(t, backing, orig)
	assert.NotSame(t, backing, file, "the variable must point at the interception pipe")

	_, err = target.Divert()
	require.ErrorIs(t, err, ErrAlreadyDiverted)

	_, err = fmt.Fprint(file, "line one\nline two\n")
	require.NoError(t, err)

	c, err := target.Restore()
	require.NoError(t, err)
	assert.Same(t, backing, file)
	assert.Equal(t, "line one\nline two\n", string(c.Bytes()))
	assert.Equal(t, 2, c.Lines())

	_, err = target.Restore()
	require.ErrorIs(t, err, ErrNotDiverted)
}

func TestArbiter_FileTargetsReplay(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	outFile, err := os.Create(filepath.Join(dir, "out"))
	require.NoError(t, err)

	errFile, err := os.Create(filepath.Join(dir, "err"))
	require.NoError(t, err)

	stdout, stderr := outFile, errFile
	a := New(NewFileTarget(&stdout), NewFileTarget(&stderr))

	tok := a.Claim(true, true)
	require.True(t, tok.Owned())

	_, _ = fmt.Fprint(tok.Writer(), "bar\n")
	_, _ = fmt.Fprint(stdout, "from elsewhere\n")
	_, _ = fmt.Fprint(stderr, "warning\n")

	require.NoError(t, a.Release(tok))
	require.NoError(t, outFile.Close())
	require.NoError(t, errFile.Close())

	gotOut, err := os.ReadFile(filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Equal(t, "bar\nfrom elsewhere\n", string(gotOut))

	gotErr, err := os.ReadFile(filepath.Join(dir, "err"))
	require.NoError(t, err)
	assert.Equal(t, "warning\n", string(gotErr))
}

func TestSwitch_RestoreWithoutDivert(t *testing.T) {
	s := NewSwitch(io.Discard)

	_, err := s.Restore()
	require.ErrorIs(t, err, ErrNotDiverted)

	_, err = s.Divert()
	require.NoError(t, err)

	_, err = s.Divert()
	require.ErrorIs(t, err, ErrAlreadyDiverted)
}

func TestDefault_IsProcessWide(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestNewExternal(t *testing.T) {
	var buf bytes.Buffer

	tok := NewExternal(&buf)
	assert.True(t, tok.CanDraw())
	assert.False(t, tok.Owned())
	assert.Same(t, &buf, tok.Writer())
}
