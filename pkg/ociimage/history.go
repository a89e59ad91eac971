package ociimage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	imgspecv1 "github.com/opencontainers/image-spec/specs-go/v1"
)

// NewAddFileHistory builds the history entry recorded for a layer's source
// archive, per spec.md §4.4 step 2: "ADD file:<diff_id> in /", empty_layer=false.
func NewAddFileHistory(created time.Time, diffID string) imgspecv1.History {
	when := created
	return imgspecv1.History{
		Created:    &when,
		CreatedBy:  fmt.Sprintf("ADD file:%s in /", diffID),
		EmptyLayer: false,
	}
}

// NewCmdHistory builds the history entry recorded for the image's default
// command, per spec.md §4.4 step 3: "CMD [...]", empty_layer=true.
func NewCmdHistory(created time.Time, cmd []string) imgspecv1.History {
	when := created
	return imgspecv1.History{
		Created:    &when,
		CreatedBy:  "CMD " + formatArgs(cmd),
		EmptyLayer: true,
	}
}

func formatArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = strconv.Quote(a)
	}
	return "[" + strings.Join(quoted, " ") + "]"
}

// HistoryEntry is the canonicalized display shape for `image history`,
// resolved per spec.md §9 Open Question 3 on the later of the source's two
// divergent drafts: reverse-chronological, carrying the layer digest and
// size alongside the history metadata.
type HistoryEntry struct {
	Layer     string    `json:"layer,omitempty"`
	Created   time.Time `json:"created"`
	CreatedBy string    `json:"created_by"`
	Size      int64     `json:"size"`
	Comment   string    `json:"comment,omitempty"`
	Author    string    `json:"author,omitempty"`
}

// DisplayHistory zips a config's history entries against the layer digests
// and sizes they were appended for (layerDigests/layerSizes are parallel,
// root-first, in bijection with the non-empty-layer history entries per
// spec.md §3's invariant), and returns them reverse-chronological for
// presentation.
func DisplayHistory(history []imgspecv1.History, layerDigests []string, layerSizes []int64) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(history))
	li := 0
	for _, h := range history {
		var layer string
		var size int64
		if !h.EmptyLayer {
			if li < len(layerDigests) {
				layer = layerDigests[li]
			}
			if li < len(layerSizes) {
				size = layerSizes[li]
			}
			li++
		}
		var created time.Time
		if h.Created != nil {
			created = *h.Created
		}
		entries = append(entries, HistoryEntry{
			Layer:     layer,
			Created:   created,
			CreatedBy: h.CreatedBy,
			Size:      size,
			Comment:   h.Comment,
			Author:    h.Author,
		})
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}
