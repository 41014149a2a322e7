// Package records lists the records handed to viewers.
package records

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"tableflip.dev/jview/pkg/format"
	"tableflip.dev/jview/pkg/handoff"
	"tableflip.dev/jview/pkg/printers"
	"tableflip.dev/jview/pkg/store"
)

// Records prints stored records, optionally limited to one kind.
type Records struct {
	Bridge  store.Bridge
	Kind    format.Kind
	BaseURL string
	Output  string
	Out     io.Writer
}

func (r *Records) Do(ctx context.Context) error {
	list, err := r.List(ctx)
	if err != nil {
		return err
	}

	out := r.Out
	if out == nil {
		out = color.Output
	}
	switch r.Output {
	case "json":
		if err := printers.JSON(out, list); err != nil {
			return err
		}
	default:
		pp := printers.PrettyPrint{Out: out}
		pp.TitleWithCount("Records", len(list))
		pp.Records(list...)
	}
	return nil
}

// List collects records sorted by key.
func (r *Records) List(ctx context.Context) ([]printers.Record, error) {
	lister, ok := r.Bridge.(store.Lister)
	if !ok {
		return nil, errors.New("the configured store cannot list records")
	}
	prefix := ""
	if r.Kind != "" {
		if !handoff.Viewable(r.Kind) {
			return nil, fmt.Errorf("%w: %s", handoff.ErrNotViewable, r.Kind)
		}
		prefix = handoff.KeyPrefix(r.Kind)
	}
	keys, err := lister.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	list := make([]printers.Record, 0, len(keys))
	for _, key := range keys {
		kind, token, ok := handoff.ParseKey(key)
		if !ok {
			continue
		}
		text, found, err := r.Bridge.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		url, err := handoff.ViewerURL(r.BaseURL, kind, token)
		if err != nil {
			return nil, err
		}
		list = append(list, printers.Record{
			Key:   key,
			Kind:  string(kind),
			Token: token,
			Bytes: len(text),
			URL:   url,
		})
	}
	return list, nil
}
