package monitor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/PythonNut/vimish-fold/internal/watch"
	"github.com/PythonNut/vimish-fold/pkg/state"
)

// RunPlain streams fold set changes as one line per change until ctx is
// cancelled or the event channel closes. The current contents of the state
// directory are listed first so the output is self-contained. Intended for
// non-TTY use; the dashboard Model covers the interactive case.
func RunPlain(ctx context.Context, store *state.FileStore, events <-chan watch.Event, out io.Writer) error {
	entries, err := store.List()
	if err != nil {
		return err
	}

	for _, e := range entries {
		folds := "?"
		if set, err := store.Read(e.DocPath); err == nil {
			folds = fmt.Sprintf("%d", len(set))
		}
		fmt.Fprintf(out, "%s  %-7s  %s folds=%s\n",
			e.ModTime.UTC().Format(time.RFC3339), "exists", e.DocPath, folds)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			line := fmt.Sprintf("%s  %-7s  %s",
				ev.Timestamp.UTC().Format(time.RFC3339), ev.Type, ev.DocPath)
			if ev.Type == watch.EventSetWritten {
				if set, err := store.Read(ev.DocPath); err == nil {
					line += fmt.Sprintf(" folds=%d", len(set))
				}
			}
			fmt.Fprintln(out, line)
		}
	}
}
