// Package modfilter provides the detection engine of the moderation bot. The primary type in this
// package is the Detector, which decides whether a message should be removed. It is built from
// three immutable parts:
//
//   - Normalizer: folds lookalike characters with a TranslationTable (fullwidth latin, cyrillic and
//     greek homoglyphs, invisible characters), lowercases the result and splits it on whitespace.
//     The translation runs on the original text for every message, before any matching.
//
//   - Catalog: an ordered list of entries, each one is a trigger word with a list of pair words.
//     The order is the order of the source document and defines the detection priority.
//
//   - Detector: counts occurrences of every trigger and its pairs in the normalized tokens.
//     A trigger must be present at least once, pairs alone never flag a message. The first
//     entry with count >= threshold (DefaultThreshold is 2) is reported, later entries are
//     not evaluated.
//
// Example:
//
//	catalog, err := modfilter.NewCatalog(modfilter.Entry{Trigger: "buy", Pairs: []string{"now"}})
//	if err != nil {
//		return err
//	}
//	d := modfilter.NewDetector(catalog, modfilter.NewNormalizer(table), modfilter.DefaultThreshold)
//	res, found := d.Check("BUY it NOW") // res = {Trigger: "buy", Count: 2, Threshold: 2}
//
// Loading of catalogs from files or a database is done by the caller, this package does no I/O.
// All types are safe for concurrent use, Detector keeps no state between calls.
package modfilter
