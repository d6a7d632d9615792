package aggregate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Vitruves/detection-report/internal/labels"
	"github.com/Vitruves/detection-report/internal/models"
	"github.com/Vitruves/detection-report/internal/utils"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownBin      = errors.New("unknown bin")
)

// BinCounts holds the image counts of one class, or of the whole run.
type BinCounts struct {
	TrueTotal    int
	TrueBelow50  int
	True50To70   int
	TrueAbove70  int
	FalseTotal   int
	FalseBelow50 int
	False50To70  int
	FalseAbove70 int
	MissedCount  int
	TotalCount   int
}

// fold adds n files found under category and bin.
func (c *BinCounts) fold(category, bin string, n int) error {
	switch category {
	case models.CategoryTrue:
		slot, err := binSlot(bin, &c.TrueBelow50, &c.True50To70, &c.TrueAbove70)
		if err != nil {
			return err
		}
		*slot += n
		c.TrueTotal += n
	case models.CategoryFalse:
		slot, err := binSlot(bin, &c.FalseBelow50, &c.False50To70, &c.FalseAbove70)
		if err != nil {
			return err
		}
		*slot += n
		c.FalseTotal += n
	case models.CategoryMissed:
		c.MissedCount += n
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	c.TotalCount += n
	return nil
}

func binSlot(bin string, below50, mid, above70 *int) (*int, error) {
	switch bin {
	case models.BinBelow50:
		return below50, nil
	case models.Bin50To70:
		return mid, nil
	case models.BinAbove70:
		return above70, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBin, bin)
	}
}

func (c *BinCounts) add(o BinCounts) {
	c.TrueTotal += o.TrueTotal
	c.TrueBelow50 += o.TrueBelow50
	c.True50To70 += o.True50To70
	c.TrueAbove70 += o.TrueAbove70
	c.FalseTotal += o.FalseTotal
	c.FalseBelow50 += o.FalseBelow50
	c.False50To70 += o.False50To70
	c.FalseAbove70 += o.FalseAbove70
	c.MissedCount += o.MissedCount
	c.TotalCount += o.TotalCount
}

type BinClass struct {
	Key    string
	Label  string
	Counts BinCounts
}

// BinSummary is the directory report: sorted classes plus the run total.
type BinSummary struct {
	Classes []BinClass
	Total   BinCounts
	// Ignored counts files dropped by the extension filter.
	Ignored int
}

type binGroup struct {
	category, class, bin string
}

// AggregateBins counts the image files of each category/class/bin triple and
// folds them into one BinCounts per class. Only files whose extension is in
// extensions are counted.
func AggregateBins(entries []models.BinEntry, extensions []string) (*BinSummary, error) {
	summary := &BinSummary{}

	var order []binGroup
	counts := make(map[binGroup]int)
	for _, entry := range entries {
		if !utils.HasExtension(entry.File, extensions) {
			summary.Ignored++
			continue
		}
		key := binGroup{category: entry.Category, class: entry.Class, bin: entry.Bin}
		if _, ok := counts[key]; !ok {
			order = append(order, key)
		}
		counts[key]++
	}

	names := labels.NewSet()
	classes := make(map[string]*BinCounts)
	for _, group := range order {
		key := names.Add(group.class)
		agg, ok := classes[key]
		if !ok {
			agg = &BinCounts{}
			classes[key] = agg
		}
		if err := agg.fold(group.category, group.bin, counts[group]); err != nil {
			return nil, fmt.Errorf("class %q: %w", group.class, err)
		}
	}

	for key, agg := range classes {
		summary.Classes = append(summary.Classes, BinClass{
			Key:    key,
			Label:  names.Label(key),
			Counts: *agg,
		})
		summary.Total.add(*agg)
	}
	sort.Slice(summary.Classes, func(i, j int) bool {
		a, b := summary.Classes[i], summary.Classes[j]
		return labelLess(a.Label, a.Key, b.Label, b.Key)
	})

	return summary, nil
}

// labelLess orders classes by display label ignoring case, then by key so the
// order is total.
func labelLess(labelA, keyA, labelB, keyB string) bool {
	la, lb := strings.ToLower(labelA), strings.ToLower(labelB)
	if la != lb {
		return la < lb
	}
	return keyA < keyB
}
