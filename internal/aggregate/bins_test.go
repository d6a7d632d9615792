package aggregate

import (
	"errors"
	"testing"

	"github.com/Vitruves/detection-report/internal/models"
)

var imageExts = []string{".jpg", ".jpeg", ".png"}

func entries(category, class, bin string, files ...string) []models.BinEntry {
	out := make([]models.BinEntry, len(files))
	for i, f := range files {
		out[i] = models.BinEntry{Category: category, Class: class, Bin: bin, File: f}
	}
	return out
}

func TestAggregateBinsScenario(t *testing.T) {
	var input []models.BinEntry
	input = append(input, entries(models.CategoryTrue, "Dog", models.BinBelow50, "a.jpg", "b.jpg", "c.jpg")...)
	input = append(input, entries(models.CategoryFalse, "Dog", models.BinAbove70, "d.png")...)

	summary, err := AggregateBins(input, imageExts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(summary.Classes) != 1 {
		t.Fatalf("Expected 1 class, got %d", len(summary.Classes))
	}

	dog := summary.Classes[0]
	if dog.Label != "Dog" {
		t.Errorf("Expected label 'Dog', got '%s'", dog.Label)
	}

	expected := BinCounts{
		TrueTotal:    3,
		TrueBelow50:  3,
		FalseTotal:   1,
		FalseAbove70: 1,
		TotalCount:   4,
	}
	if dog.Counts != expected {
		t.Errorf("Expected %+v, got %+v", expected, dog.Counts)
	}
	if summary.Total != expected {
		t.Errorf("Expected total %+v, got %+v", expected, summary.Total)
	}
}

func TestAggregateBinsMissedAndFilter(t *testing.T) {
	var input []models.BinEntry
	input = append(input, entries(models.CategoryTrue, "cat", models.Bin50To70, "a.JPG", "b.jpeg", "notes.txt")...)
	input = append(input, entries(models.CategoryMissed, "Cat", "", "m1.png", "m2.gif")...)

	summary, err := AggregateBins(input, imageExts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if summary.Ignored != 2 {
		t.Errorf("Expected 2 ignored files, got %d", summary.Ignored)
	}
	if len(summary.Classes) != 1 {
		t.Fatalf("Expected cat variants to collapse into 1 class, got %d", len(summary.Classes))
	}

	cat := summary.Classes[0].Counts
	if cat.True50To70 != 2 || cat.TrueTotal != 2 {
		t.Errorf("Expected 2 true 50_70 files, got %+v", cat)
	}
	if cat.MissedCount != 1 {
		t.Errorf("Expected 1 missed file, got %d", cat.MissedCount)
	}
	if cat.TotalCount != 3 {
		t.Errorf("Expected total count 3 including missed, got %d", cat.TotalCount)
	}
}

func TestAggregateBinsTotalIsSumOfClasses(t *testing.T) {
	var input []models.BinEntry
	input = append(input, entries(models.CategoryTrue, "Dog", models.BinAbove70, "1.jpg", "2.jpg")...)
	input = append(input, entries(models.CategoryFalse, "Cat", models.BinBelow50, "3.jpg")...)
	input = append(input, entries(models.CategoryMissed, "Bird", "", "4.png", "5.png", "6.png")...)

	summary, err := AggregateBins(input, imageExts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var sum BinCounts
	for _, class := range summary.Classes {
		sum.add(class.Counts)
	}
	if sum != summary.Total {
		t.Errorf("Expected total %+v, got %+v", sum, summary.Total)
	}
	if summary.Total.TotalCount != 6 {
		t.Errorf("Expected 6 files in total, got %d", summary.Total.TotalCount)
	}

	order := []string{"Bird", "Cat", "Dog"}
	for i, label := range order {
		if summary.Classes[i].Label != label {
			t.Errorf("Position %d: expected '%s', got '%s'", i, label, summary.Classes[i].Label)
		}
	}
}

func TestAggregateBinsEmptyClassName(t *testing.T) {
	input := entries(models.CategoryTrue, "  ", models.BinBelow50, "a.jpg")

	summary, err := AggregateBins(input, imageExts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(summary.Classes) != 1 || summary.Classes[0].Label != "" {
		t.Errorf("Expected one degenerate class with empty label, got %+v", summary.Classes)
	}
}

func TestAggregateBinsUnknownTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		input    []models.BinEntry
		expected error
	}{
		{"unknown category", entries("Maybe", "Dog", models.BinBelow50, "a.jpg"), ErrUnknownCategory},
		{"unknown bin", entries(models.CategoryTrue, "Dog", "Above_90", "a.jpg"), ErrUnknownBin},
		{"missing bin", entries(models.CategoryFalse, "Dog", "", "a.jpg"), ErrUnknownBin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AggregateBins(tt.input, imageExts)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestAggregateBinsIdempotent(t *testing.T) {
	var input []models.BinEntry
	input = append(input, entries(models.CategoryTrue, "dog", models.BinBelow50, "a.jpg")...)
	input = append(input, entries(models.CategoryTrue, "Cat", models.BinAbove70, "b.jpg")...)
	input = append(input, entries(models.CategoryFalse, "DOG", models.Bin50To70, "c.jpg")...)

	first, err := AggregateBins(input, imageExts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := AggregateBins(input, imageExts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(first.Classes) != len(second.Classes) {
		t.Fatal("Expected identical class counts")
	}
	for i := range first.Classes {
		if first.Classes[i] != second.Classes[i] {
			t.Errorf("Row %d differs: %+v vs %+v", i, first.Classes[i], second.Classes[i])
		}
	}
}
