package shortener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/tidwall/buntdb"

	"github.com/sundayezeilo/toolbench/internal/errx"
)

// BuntRepository stores the whole link list as one JSON document under
// StorageKey. Every change rewrites the list in a single transaction, so
// the last write wins.
type BuntRepository struct {
	db *buntdb.DB
}

// OpenBunt opens (or creates) a buntdb file. Use ":memory:" for a store
// that lives as long as the process.
func OpenBunt(path string) (*BuntRepository, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open link store %s: %w", path, err)
	}
	return &BuntRepository{db: db}, nil
}

// Close flushes and closes the underlying file.
func (r *BuntRepository) Close() error {
	return r.db.Close()
}

func readLinks(tx *buntdb.Tx) ([]Link, error) {
	raw, err := tx.Get(StorageKey)
	if errors.Is(err, buntdb.ErrNotFound) {
		return []Link{}, nil
	}
	if err != nil {
		return nil, err
	}

	var links []Link
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return nil, fmt.Errorf("decode %s: %w", StorageKey, err)
	}
	return links, nil
}

func writeLinks(tx *buntdb.Tx, links []Link) error {
	data, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("encode %s: %w", StorageKey, err)
	}
	_, _, err = tx.Set(StorageKey, string(data), nil)
	return err
}

// update loads the list, lets fn change it and writes it back when fn
// succeeds.
func (r *BuntRepository) update(op string, fn func([]Link) ([]Link, error)) error {
	err := r.db.Update(func(tx *buntdb.Tx) error {
		links, err := readLinks(tx)
		if err != nil {
			return err
		}
		next, err := fn(links)
		if err != nil {
			return err
		}
		return writeLinks(tx, next)
	})
	return wrapBuntError(op, err)
}

func (r *BuntRepository) view(op string) ([]Link, error) {
	var links []Link
	err := r.db.View(func(tx *buntdb.Tx) error {
		var err error
		links, err = readLinks(tx)
		return err
	})
	if err != nil {
		return nil, wrapBuntError(op, err)
	}
	return links, nil
}

func wrapBuntError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errx.KindOf(err) != errx.Unknown {
		return err
	}
	return errx.E(op, errx.Unavailable, err)
}

func (r *BuntRepository) Insert(_ context.Context, link Link) (Link, error) {
	const op = "shortener.BuntRepository.Insert"

	err := r.update(op, func(links []Link) ([]Link, error) {
		if slices.ContainsFunc(links, func(l Link) bool { return l.ShortCode == link.ShortCode }) {
			return nil, errx.Ef(op, errx.Conflict, "short code already exists")
		}
		if link.ClickHistory == nil {
			link.ClickHistory = []Click{}
		}
		link.Clicks = int64(len(link.ClickHistory))
		return append([]Link{link}, links...), nil
	})
	if err != nil {
		return Link{}, err
	}
	return link, nil
}

func (r *BuntRepository) List(_ context.Context) ([]Link, error) {
	return r.view("shortener.BuntRepository.List")
}

func (r *BuntRepository) Get(_ context.Context, id uuid.UUID) (Link, error) {
	const op = "shortener.BuntRepository.Get"

	links, err := r.view(op)
	if err != nil {
		return Link{}, err
	}
	return find(op, links, func(l Link) bool { return l.ID == id })
}

func (r *BuntRepository) GetByCode(_ context.Context, code string) (Link, error) {
	const op = "shortener.BuntRepository.GetByCode"

	links, err := r.view(op)
	if err != nil {
		return Link{}, err
	}
	return find(op, links, func(l Link) bool { return l.ShortCode == code })
}

func (r *BuntRepository) RecordClick(_ context.Context, id uuid.UUID, click Click) (Link, error) {
	const op = "shortener.BuntRepository.RecordClick"

	var updated Link
	err := r.update(op, func(links []Link) ([]Link, error) {
		i := slices.IndexFunc(links, func(l Link) bool { return l.ID == id })
		if i < 0 {
			return nil, errx.Ef(op, errx.NotFound, "link not found")
		}
		links[i].ClickHistory = append(links[i].ClickHistory, click)
		links[i].Clicks = int64(len(links[i].ClickHistory))
		updated = links[i]
		return links, nil
	})
	if err != nil {
		return Link{}, err
	}
	return updated, nil
}

func (r *BuntRepository) Delete(_ context.Context, id uuid.UUID) error {
	const op = "shortener.BuntRepository.Delete"

	return r.update(op, func(links []Link) ([]Link, error) {
		i := slices.IndexFunc(links, func(l Link) bool { return l.ID == id })
		if i < 0 {
			return nil, errx.Ef(op, errx.NotFound, "link not found")
		}
		return slices.Delete(links, i, i+1), nil
	})
}

func find(op string, links []Link, match func(Link) bool) (Link, error) {
	i := slices.IndexFunc(links, match)
	if i < 0 {
		return Link{}, errx.Ef(op, errx.NotFound, "link not found")
	}
	return links[i], nil
}
