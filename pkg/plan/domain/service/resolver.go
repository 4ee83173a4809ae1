package service

import (
	"github.com/pkg/errors"

	"healthcare/pkg/plan/domain/model"
)

// MinVariety is the smallest candidate set a multi-restriction combination
// may produce before the resolver moves on to the next rule.
const MinVariety = 3

// Resolve picks the candidate items of one pool slot for the requested
// restrictions. A single restriction uses its bucket when it is non-empty.
// Several restrictions try, in order, the intersection, the union and the
// largest single bucket, each only when it holds at least MinVariety items.
// Everything else falls back to the default bucket.
func Resolve(pool model.Pool, slot string, restrictions []string) (model.Resolution, error) {
	buckets, ok := pool.Slots[slot]
	if !ok {
		return model.Resolution{}, errors.Wrapf(model.ErrSlotNotFound, "goal %q slot %q", pool.Goal, slot)
	}

	keys := canonicalKeys(restrictions)
	switch len(keys) {
	case 0:
	case 1:
		if items := buckets[keys[0]]; len(items) > 0 {
			return newResolution(model.RuleSingle, keys, items), nil
		}
	default:
		if resolution, ok := combine(buckets, keys); ok {
			return resolution, nil
		}
	}

	items := buckets[model.DefaultBucket]
	if len(items) == 0 {
		return model.Resolution{}, errors.Wrapf(model.ErrNoCandidates, "goal %q slot %q default bucket", pool.Goal, slot)
	}
	return newResolution(model.RuleDefault, []string{model.DefaultBucket}, items), nil
}

// canonicalKeys normalizes tags to bucket keys, dropping defaults and duplicates.
func canonicalKeys(restrictions []string) []string {
	seen := make(map[string]bool, len(restrictions))
	keys := make([]string, 0, len(restrictions))
	for _, tag := range restrictions {
		key := model.CanonicalBucket(tag)
		if key == model.DefaultBucket || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

func combine(buckets model.Buckets, keys []string) (model.Resolution, bool) {
	lists := make([][]string, len(keys))
	var present []string
	for i, key := range keys {
		lists[i] = buckets[key]
		if len(lists[i]) > 0 {
			present = append(present, key)
		}
	}
	if len(present) == 0 {
		return model.Resolution{}, false
	}

	if items := intersect(lists); len(items) >= MinVariety {
		return newResolution(model.RuleIntersection, keys, items), true
	}
	if items := union(lists); len(items) >= MinVariety {
		return newResolution(model.RuleUnion, present, items), true
	}

	largest := 0
	for i := range lists {
		if len(dedupe(lists[i])) > len(dedupe(lists[largest])) {
			largest = i
		}
	}
	if items := dedupe(lists[largest]); len(items) >= MinVariety {
		return newResolution(model.RuleLargest, []string{keys[largest]}, items), true
	}
	return model.Resolution{}, false
}

func intersect(lists [][]string) []string {
	result := dedupe(lists[0])
	for _, list := range lists[1:] {
		members := make(map[string]bool, len(list))
		for _, item := range list {
			members[item] = true
		}
		kept := result[:0]
		for _, item := range result {
			if members[item] {
				kept = append(kept, item)
			}
		}
		result = kept
	}
	return result
}

func union(lists [][]string) []string {
	var all []string
	for _, list := range lists {
		all = append(all, list...)
	}
	return dedupe(all)
}

// dedupe returns a fresh slice so callers never alias pool configuration.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

func newResolution(rule model.ResolutionRule, keys, items []string) model.Resolution {
	return model.Resolution{
		Keys:       append([]string(nil), keys...),
		Candidates: dedupe(items),
		Rule:       rule,
	}
}
