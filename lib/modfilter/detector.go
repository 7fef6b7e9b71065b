package modfilter

import (
	"fmt"
)

// DefaultThreshold is the minimal combined count of a trigger and its pairs to flag a message.
const DefaultThreshold = 2

// Detector matches normalized tokens against a catalog, stateless between calls.
type Detector struct {
	catalog    *Catalog
	normalizer *Normalizer
	threshold  int
}

// Result describes a detected trigger.
type Result struct {
	Trigger   string `json:"trigger"`
	Count     int    `json:"count"`
	Threshold int    `json:"threshold"`
}

func (r Result) String() string {
	return fmt.Sprintf("%s: %d/%d", r.Trigger, r.Count, r.Threshold)
}

// NewDetector makes a Detector. Non-positive threshold replaced by DefaultThreshold,
// nil normalizer means no translation.
func NewDetector(catalog *Catalog, normalizer *Normalizer, threshold int) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	return &Detector{catalog: catalog, normalizer: normalizer, threshold: threshold}
}

// Threshold returns the active threshold.
func (d *Detector) Threshold() int { return d.threshold }

// Check normalizes text and detects the first qualifying trigger.
func (d *Detector) Check(text string) (Result, bool) {
	return d.Detect(d.normalizer.Normalize(text))
}

// Detect scans catalog entries in order and returns the first trigger with
// trigger count + pairs count >= threshold. A trigger absent from tokens is never
// reported, no matter how many pair words are present.
func (d *Detector) Detect(tokens []string) (Result, bool) {
	if len(tokens) == 0 {
		return Result{}, false
	}

	freq := make(map[string]int, len(tokens))
	for _, t := range tokens {
		freq[t]++
	}

	for trigger, pairs := range d.catalog.Entries() {
		count := freq[trigger]
		if count == 0 {
			continue
		}
		for _, p := range pairs {
			count += freq[p]
		}
		if count >= d.threshold {
			return Result{Trigger: trigger, Count: count, Threshold: d.threshold}, true
		}
	}
	return Result{}, false
}
