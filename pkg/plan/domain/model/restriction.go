package model

import "strings"

// restrictionTable maps normalized restriction tags to bucket keys.
// Tags are matched after lower-casing, trimming, collapsing "-"/"_" to spaces
// and dropping a leading "no ".
var restrictionTable = map[string]string{
	"default": DefaultBucket,
	"none":    DefaultBucket,

	"egg":         "noEgg",
	"eggs":        "noEgg",
	"milk":        "noMilk",
	"dairy":       "noMilk",
	"lactose":     "noMilk",
	"nut":         "noNuts",
	"nuts":        "noNuts",
	"peanut":      "noNuts",
	"peanuts":     "noNuts",
	"fish":        "noFish",
	"seafood":     "noFish",
	"meat":        "noMeat",
	"soy":         "noSoy",
	"sugar":       "noSugar",
	"gluten":      "glutenFree",
	"gluten free": "glutenFree",
	"vegetarian":  "vegetarian",
	"veggie":      "vegetarian",
	"vegan":       "vegan",

	"leg":        "noLegs",
	"legs":       "noLegs",
	"leg day":    "noLegs",
	"knee":       "noKnee",
	"knees":      "noKnee",
	"back":       "noBack",
	"lower back": "noBack",
	"shoulder":   "noShoulder",
	"shoulders":  "noShoulder",
	"arm":        "noArms",
	"arms":       "noArms",
	"jump":       "noJumping",
	"jumping":    "noJumping",
	"low impact": "lowImpact",
	"push":       "noPush",
	"pushes":     "noPush",
	"push ups":   "noPush",
	"pull":       "noPull",
	"pulls":      "noPull",
	"pull ups":   "noPull",
	"weight":     "noWeights",
	"weights":    "noWeights",
	"lifting":    "noWeights",
}

var knownBuckets = func() map[string]string {
	buckets := make(map[string]string)
	for _, bucket := range restrictionTable {
		buckets[strings.ToLower(bucket)] = bucket
	}
	return buckets
}()

var tagReplacer = strings.NewReplacer("-", " ", "_", " ")

// CanonicalBucket maps a free-form restriction tag to its bucket key.
// Unknown and empty tags map to DefaultBucket.
func CanonicalBucket(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	t = strings.Join(strings.Fields(tagReplacer.Replace(t)), " ")
	if t == "" {
		return DefaultBucket
	}
	if bucket, ok := restrictionTable[t]; ok {
		return bucket
	}
	if rest, ok := strings.CutPrefix(t, "no "); ok {
		if bucket, ok := restrictionTable[rest]; ok {
			return bucket
		}
	}
	if bucket, ok := knownBuckets[strings.ReplaceAll(t, " ", "")]; ok {
		return bucket
	}
	return DefaultBucket
}

func IsKnownBucket(key string) bool {
	bucket, ok := knownBuckets[strings.ToLower(key)]
	return ok && bucket == key
}
