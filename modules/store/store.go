// Package store implements VersionStore (spec §4.7): a content-
// addressable version store built on top of modules/changeset,
// modules/patch and modules/vtree. Tags are opaque
// strings; content is an arbitrary comparable token sequence.
package store

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"

	"github.com/mawicks/gaspra/modules/changeset"
	"github.com/mawicks/gaspra/modules/patch"
	"github.com/mawicks/gaspra/modules/vtree"
)

var (
	// ErrUnknownTag is returned by Get/VersionInfo for a tag that was
	// never added.
	ErrUnknownTag = errors.New("store: unknown tag")
	// ErrInternal marks an invariant violation inside the store that a
	// caller cannot recover from (a tag on a retrieval path has no
	// stored patch, or a path does not start at a current head). It
	// should never surface in practice.
	ErrInternal = errors.New("store: internal invariant violation")
)

// Codec converts stored token sequences to and from bytes for the
// on-disk patch representation. The zero value is not usable.
type Codec[T comparable] = patch.Codec[T]

// Info is the result of VersionInfo: spec §4.7's
// (base_version, token_count, change_count) triple.
type Info struct {
	BaseVersion string
	HasBase     bool
	TokenCount  int
	ChangeCount int
}

// Store is a VersionStore over token sequences of type T.
type Store[T comparable] struct {
	tree  *vtree.Tree[string]
	heads map[string][]T
	diffs map[string][]byte

	codec   Codec[T]
	cache   *ristretto.Cache[uint64, []T]
	zstd    bool
	zstdEnc *zstd.Encoder
	zstdDec *zstd.Decoder
	log     *logrus.Entry
}

// Option configures a Store at construction time.
type Option[T comparable] func(*Store[T])

// WithLogger attaches structured debug logging (spec's Ambient Stack:
// tag, path_len, split fields) around Add/Get/split decisions.
func WithLogger[T comparable](log *logrus.Entry) Option[T] {
	return func(s *Store[T]) {
		s.log = log
	}
}

// WithCompression zstd-compresses serialized patches before they are
// handed to the backing byte map.
func WithCompression[T comparable](enabled bool) Option[T] {
	return func(s *Store[T]) {
		s.zstd = enabled
	}
}

// New constructs an empty Store using codec to turn stored token runs
// into bytes (patch.ByteCodec{} for T=byte; callers tokenizing on
// something else supply their own).
func New[T comparable](codec Codec[T], opts ...Option[T]) (*Store[T], error) {
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, []T]{
		NumCounters: 1e5,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("store: unable to initialize read cache: %w", err)
	}

	s := &Store[T]{
		tree:  vtree.New[string](),
		heads: make(map[string][]T),
		diffs: make(map[string][]byte),
		codec: codec,
		cache: cache,
		log:   logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, o := range opts {
		o(s)
	}

	if s.zstd {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("store: unable to initialize zstd encoder: %w", err)
		}
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("store: unable to initialize zstd decoder: %w", err)
		}
		s.zstdEnc, s.zstdDec = enc, dec
	}

	return s, nil
}

// NewTag mints a fresh opaque tag for callers with no natural one of
// their own.
func NewTag() string {
	return uuid.NewString()
}

func cacheKey(tag string) uint64 {
	return xxhash.Sum64String(tag)
}

func (s *Store[T]) compress(data []byte) []byte {
	if !s.zstd {
		return data
	}
	return s.zstdEnc.EncodeAll(data, nil)
}

func (s *Store[T]) decompress(data []byte) ([]byte, error) {
	if !s.zstd {
		return data, nil
	}
	out, err := s.zstdDec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("store: zstd decompress failed: %w", err)
	}
	return out, nil
}

// Contains reports whether tag has been added to the store.
func (s *Store[T]) Contains(tag string) bool {
	return s.tree.Contains(tag)
}

// forwardPatch computes the stripped forward patch that reconstructs
// target from base's content (spec §4.5): FindChangeset(base, target),
// reduce, StripForward.
func forwardPatch[T comparable](base, target []T) []changeset.PatchItem[T] {
	tree := changeset.FindChangeset(base, target)
	return changeset.StripForward(changeset.ReducedStream(tree))
}

func (s *Store[T]) storePatch(tag string, items []changeset.PatchItem[T]) {
	encoded := patch.Encode(items, s.codec)
	s.diffs[tag] = s.compress(encoded)
}

func (s *Store[T]) loadPatch(tag string) ([]changeset.PatchItem[T], error) {
	raw, ok := s.diffs[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no stored patch", ErrInternal, tag)
	}
	data, err := s.decompress(raw)
	if err != nil {
		return nil, err
	}
	items, err := patch.Decode(data, s.codec)
	if err != nil {
		return nil, fmt.Errorf("store: corrupt patch for %s: %w", tag, err)
	}
	return items, nil
}

// retrieveUsingPath reconstructs the content at path's final tag by
// starting from the head at path[0] and applying each successive
// tag's stored forward patch in turn.
func (s *Store[T]) retrieveUsingPath(path []string) ([]T, error) {
	base, ok := s.heads[path[0]]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not currently a head", ErrInternal, path[0])
	}
	for _, tag := range path[1:] {
		items, err := s.loadPatch(tag)
		if err != nil {
			return nil, err
		}
		base = changeset.Apply(items, base)
	}
	return base, nil
}

// Add stores tag's content (spec §4.7 step 1). If existingHead is
// non-nil, the tree is reshaped (step 2): a split point partway down
// existingHead's subtree is promoted to be a direct child of tag, and
// existingHead itself becomes a child of tag, keeping retrieval paths
// short.
func (s *Store[T]) Add(tag string, content []T, existingHead *string) error {
	s.heads[tag] = content
	s.tree.Add(tag, existingHead)

	entry := s.log.WithField("tag", tag)
	if existingHead == nil {
		entry.Debug("store: added head with no parent")
		return nil
	}
	entry = entry.WithField("existing_head", *existingHead)

	split, path := s.tree.GetSplit(*existingHead)
	entry = entry.WithField("split", split).WithField("path_len", len(path))

	if split != *existingHead {
		splitBytes, err := s.retrieveUsingPath(path)
		if err != nil {
			return err
		}
		s.storePatch(split, forwardPatch(content, splitBytes))
		s.tree.ChangeParent(split, tag)
		delete(s.heads, split)
		s.cache.Del(cacheKey(split))
		entry.Debug("store: promoted split under new head")
	}

	existingHeadBytes, ok := s.heads[*existingHead]
	if !ok {
		return fmt.Errorf("%w: %s is not currently a head", ErrInternal, *existingHead)
	}
	s.storePatch(*existingHead, forwardPatch(content, existingHeadBytes))
	s.tree.ChangeParent(*existingHead, tag)
	delete(s.heads, *existingHead)
	s.cache.Del(cacheKey(*existingHead))
	entry.Debug("store: demoted previous head under new head")

	return nil
}

// Get reconstructs tag's content (spec §4.7).
func (s *Store[T]) Get(tag string) ([]T, error) {
	if !s.tree.Contains(tag) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTag, tag)
	}
	if cached, ok := s.cache.Get(cacheKey(tag)); ok {
		return cached, nil
	}

	path := s.tree.PathTo(tag)
	var content []T
	if tag == path[0] {
		base, ok := s.heads[path[0]]
		if !ok {
			return nil, fmt.Errorf("%w: %s is not currently a head", ErrInternal, path[0])
		}
		content = base
	} else {
		base, err := s.retrieveUsingPath(path)
		if err != nil {
			return nil, err
		}
		content = base
	}

	s.log.WithField("tag", tag).WithField("path_len", len(path)).Debug("store: reconstructed version")
	s.cache.Set(cacheKey(tag), content, int64(len(content)))
	return content, nil
}

// VersionInfo reports (base_version, token_count, change_count) for
// tag (spec §4.7/§8 scenario S6). A head reports change_count 0 and
// token_count equal to its content length; a non-head decodes its
// stored patch.
func (s *Store[T]) VersionInfo(tag string) (Info, error) {
	if !s.tree.Contains(tag) {
		return Info{}, fmt.Errorf("%w: %s", ErrUnknownTag, tag)
	}

	info := Info{}
	if base, ok := s.tree.BaseVersion(tag); ok {
		info.BaseVersion, info.HasBase = base, true
	}

	if content, ok := s.heads[tag]; ok {
		info.TokenCount = len(content)
		return info, nil
	}

	items, err := s.loadPatch(tag)
	if err != nil {
		return Info{}, err
	}
	info.ChangeCount = len(items)
	for _, item := range items {
		if run, ok := item.(changeset.RunItem[T]); ok {
			info.TokenCount += len(run.Tokens)
		}
	}
	return info, nil
}
