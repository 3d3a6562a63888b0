// Package scene classifies scene folders and orders their clips.
//
// A folder's [Category] is derived once from its name by [Classify]. Each
// category has a [Strategy] that knows how to rank, deduplicate and lay
// out that folder's clips; [StrategyFor] is the single place a category is
// mapped to behavior. Sorting works on a [Snapshot] of the directory
// listing taken once per folder, so supersession checks never touch the
// filesystem mid-algorithm.
package scene
