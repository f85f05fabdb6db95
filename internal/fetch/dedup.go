package fetch

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"
)

// Deduplicated collapses concurrent lookups of the same repository into a
// single call to the wrapped Source.
type Deduplicated struct {
	src   Source
	group singleflight.Group
}

// Dedupe wraps src.
func Dedupe(src Source) *Deduplicated {
	return &Deduplicated{src: src}
}

// Find implements Source.
func (d *Deduplicated) Find(ctx context.Context, owner, repo string) (Document, error) {
	if owner == "" || repo == "" {
		return Document{}, ErrNotFound
	}
	key := strings.ToLower(owner + "/" + repo)
	v, err, _ := d.group.Do(key, func() (any, error) {
		return d.src.Find(ctx, owner, repo)
	})
	if err != nil {
		return Document{}, err
	}
	return v.(Document), nil
}
