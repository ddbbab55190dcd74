package storageclass

import "slices"

// waterfall lists the lifecycle transitions S3 supports from each class.
// Transitions only ever move toward colder classes.
var waterfall = map[StorageClass][]StorageClass{
	Standard:           {StandardIA, IntelligentTiering, OneZoneIA, GlacierIR, Glacier, DeepArchive},
	StandardIA:         {IntelligentTiering, OneZoneIA, GlacierIR, Glacier, DeepArchive},
	IntelligentTiering: {OneZoneIA, GlacierIR, Glacier, DeepArchive},
	OneZoneIA:          {Glacier, DeepArchive},
	GlacierIR:          {Glacier, DeepArchive},
	Glacier:            {DeepArchive},
	DeepArchive:        {},
}

// AllowedTargets returns the classes a lifecycle rule can transition objects
// in source to.
func AllowedTargets(source StorageClass) []StorageClass {
	return slices.Clone(waterfall[source])
}

// CanTransition reports whether a lifecycle rule can move objects from
// source to target.
func CanTransition(source, target StorageClass) bool {
	return slices.Contains(waterfall[source], target)
}
