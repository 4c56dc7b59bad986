// Package store keeps rendered charts on disk as zstd compressed SVG files.
package store

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/DataDog/zstd"
)

const (
	idBase    = 32
	idRandLen = 4
	fileExt   = ".svg.zst"
)

var (
	ErrNotFound    = errors.New("chart not found")
	ErrInvalidID   = errors.New("invalid chart id")
	ErrInvalidKind = errors.New("invalid chart kind")

	idRe = regexp.MustCompile(`^[0-9a-v]{` + strconv.Itoa(idRandLen+1) + `,32}$`)
)

type Entry struct {
	ID      string    `json:"id"`
	Kind    string    `json:"type"`
	Size    int64     `json:"size"`
	Created time.Time `json:"created"`
	ModTime time.Time `json:"modified"`
	Path    string    `json:"-"`
}

type Store struct {
	root     string
	kinds    []string
	DirPerm  fs.FileMode
	FilePerm fs.FileMode
}

// New opens a store rooted at root accepting only the listed chart kinds.
func New(root string, kinds ...string) *Store {
	return &Store{root: root, kinds: kinds, DirPerm: 0764, FilePerm: 0664}
}

func (s *Store) Root() string {
	return s.root
}

func (s *Store) checkKind(kind string) error {
	for _, k := range s.kinds {
		if k == kind {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
}

// NewID builds an id from the creation time in milliseconds followed by a
// few random digits, all in base 32.
func NewID(now time.Time) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(idBase), big.NewInt(idRandLen), nil)
	r, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	suffix := r.Text(idBase)
	suffix = strings.Repeat("0", idRandLen-len(suffix)) + suffix
	return big.NewInt(now.UnixMilli()).Text(idBase) + suffix, nil
}

// IDTime recovers the creation time encoded in id.
func IDTime(id string) (time.Time, error) {
	if !idRe.MatchString(id) {
		return time.Time{}, ErrInvalidID
	}
	ms, err := strconv.ParseInt(id[:len(id)-idRandLen], idBase, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidID, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

func (s *Store) dir(kind, id string) string {
	n := len(id)
	return filepath.Join(s.root, kind, id[n-1:], id[n-2:n-1])
}

func (s *Store) path(kind, id string) (string, error) {
	if err := s.checkKind(kind); err != nil {
		return "", err
	}
	if !idRe.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(s.dir(kind, id), id+fileExt), nil
}

// Put compresses svg and stores it under a fresh id.
func (s *Store) Put(kind string, svg []byte) (Entry, error) {
	if err := s.checkKind(kind); err != nil {
		return Entry{}, err
	}
	now := time.Now()
	id, err := NewID(now)
	if err != nil {
		return Entry{}, err
	}
	b, err := zstd.Compress(nil, svg)
	if err != nil {
		return Entry{}, err
	}
	d := s.dir(kind, id)
	if err := os.MkdirAll(d, s.DirPerm); err != nil {
		return Entry{}, err
	}
	p := filepath.Join(d, id+fileExt)
	if err := os.WriteFile(p, b, s.FilePerm); err != nil {
		return Entry{}, err
	}
	return Entry{
		ID:      id,
		Kind:    kind,
		Size:    int64(len(b)),
		Created: time.UnixMilli(now.UnixMilli()).UTC(),
		ModTime: now,
		Path:    p,
	}, nil
}

func (s *Store) Get(kind, id string) ([]byte, error) {
	p, err := s.path(kind, id)
	if err != nil {
		return nil, err
	}
	a, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return zstd.Decompress(nil, a)
}

func (s *Store) Exists(kind, id string) bool {
	p, err := s.path(kind, id)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

func (s *Store) Delete(kind, id string) error {
	p, err := s.path(kind, id)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// List returns the stored charts of one kind, or of every kind when kind is
// empty, newest first.
func (s *Store) List(kind string) ([]Entry, error) {
	kinds := s.kinds
	if kind != "" {
		if err := s.checkKind(kind); err != nil {
			return nil, err
		}
		kinds = []string{kind}
	}
	ret := []Entry{}
	for _, k := range kinds {
		err := s.walk(k, func(e Entry) error {
			ret = append(ret, e)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.SliceStable(ret, func(i, j int) bool {
		if ret[i].Created.Equal(ret[j].Created) {
			return ret[i].ID > ret[j].ID
		}
		return ret[i].Created.After(ret[j].Created)
	})
	return ret, nil
}

// Expired lists every stored chart last written before cutoff.
func (s *Store) Expired(cutoff time.Time) ([]Entry, error) {
	ret := []Entry{}
	for _, k := range s.kinds {
		err := s.walk(k, func(e Entry) error {
			if e.ModTime.Before(cutoff) {
				ret = append(ret, e)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// PurgeOlderThan removes every chart last written before cutoff.
func (s *Store) PurgeOlderThan(cutoff time.Time) (int, error) {
	expired, err := s.Expired(cutoff)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range expired {
		if err := os.Remove(e.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *Store) walk(kind string, fn func(Entry) error) error {
	base := filepath.Join(s.root, kind)
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && p == base {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), fileExt) {
			return nil
		}
		id := strings.TrimSuffix(d.Name(), fileExt)
		created, err := IDTime(id)
		if err != nil {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		return fn(Entry{ID: id, Kind: kind, Size: fi.Size(), Created: created, ModTime: fi.ModTime(), Path: p})
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
